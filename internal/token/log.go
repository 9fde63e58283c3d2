package token

import (
	"fmt"
	"strings"

	"github.com/AI-Advenced/GPT-Genius/pkg/llm"
)

// Usage records the token statistics for one conversation step, together
// with the running totals after that step.
type Usage struct {
	StepName              string
	StepPromptTokens      int
	StepCompletionTokens  int
	StepTotalTokens       int
	TotalPromptTokens     int
	TotalCompletionTokens int
	TotalTokens           int
}

// UsageLog is an append-only ledger of per-step token usage for one
// conversation. It is owned by a single conversation engine and is not safe
// for concurrent use.
type UsageLog struct {
	model                string
	tokenizer            *Tokenizer
	entries              []Usage
	cumulativePrompt     int
	cumulativeCompletion int
	cumulativeTotal      int
}

// NewUsageLog creates a ledger that counts with the tokenizer for model.
func NewUsageLog(model string) (*UsageLog, error) {
	tokenizer, err := NewTokenizer(model)
	if err != nil {
		return nil, err
	}
	return &UsageLog{model: model, tokenizer: tokenizer}, nil
}

// Tokenizer returns the tokenizer backing this ledger.
func (l *UsageLog) Tokenizer() *Tokenizer {
	return l.tokenizer
}

// Update appends a ledger entry for one exchange: prompt tokens are counted
// over the sent transcript, completion tokens over the reply text.
func (l *UsageLog) Update(messages []llm.Message, answer, stepName string) {
	promptTokens := l.tokenizer.CountMessages(messages)
	completionTokens := l.tokenizer.CountText(answer)
	totalTokens := promptTokens + completionTokens

	l.cumulativePrompt += promptTokens
	l.cumulativeCompletion += completionTokens
	l.cumulativeTotal += totalTokens

	l.entries = append(l.entries, Usage{
		StepName:              stepName,
		StepPromptTokens:      promptTokens,
		StepCompletionTokens:  completionTokens,
		StepTotalTokens:       totalTokens,
		TotalPromptTokens:     l.cumulativePrompt,
		TotalCompletionTokens: l.cumulativeCompletion,
		TotalTokens:           l.cumulativeTotal,
	})
}

// Entries returns the ledger entries in append order.
func (l *UsageLog) Entries() []Usage {
	return l.entries
}

// TotalTokens returns the cumulative token count across all steps.
func (l *UsageLog) TotalTokens() int {
	return l.cumulativeTotal
}

// FormatCSV renders the ledger as a CSV string with one row per step.
func (l *UsageLog) FormatCSV() string {
	var b strings.Builder
	b.WriteString("step_name,prompt_tokens_in_step,completion_tokens_in_step,total_tokens_in_step,total_prompt_tokens,total_completion_tokens,total_tokens\n")
	for _, e := range l.entries {
		fmt.Fprintf(&b, "%s,%d,%d,%d,%d,%d,%d\n",
			e.StepName,
			e.StepPromptTokens,
			e.StepCompletionTokens,
			e.StepTotalTokens,
			e.TotalPromptTokens,
			e.TotalCompletionTokens,
			e.TotalTokens,
		)
	}
	return b.String()
}

// IsOpenAIModel reports whether the ledger's model has OpenAI pricing.
func (l *UsageLog) IsOpenAIModel() bool {
	return strings.Contains(strings.ToLower(l.model), "gpt")
}

// UsageCost estimates the API cost in USD for the logged usage. The second
// return value is false when no price is known for the model; a missing
// price never produces an error or a zero-cost claim.
func (l *UsageLog) UsageCost() (float64, bool) {
	if !l.IsOpenAIModel() {
		return 0, false
	}

	var cost float64
	for _, e := range l.entries {
		promptCost, ok := costForModel(l.model, e.TotalPromptTokens, false)
		if !ok {
			return 0, false
		}
		completionCost, ok := costForModel(l.model, e.TotalCompletionTokens, true)
		if !ok {
			return 0, false
		}
		cost += promptCost + completionCost
	}
	return cost, true
}
