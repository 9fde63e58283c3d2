// Package ai drives request/response cycles with a language model while
// keeping an auditable transcript and a token usage ledger.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AI-Advenced/GPT-Genius/internal/token"
	"github.com/AI-Advenced/GPT-Genius/pkg/llm"
)

// AI interfaces with a language model for conversation management. Each
// instance owns its usage ledger; instances are not safe for concurrent use.
type AI struct {
	provider llm.Provider
	model    string
	vision   bool
	backoff  *BackoffPolicy
	usage    *token.UsageLog
}

// New creates an AI backed by the given provider. Vision support is derived
// from the model name; backends without it require same-role message
// collapsing before each call.
func New(provider llm.Provider, model string) (*AI, error) {
	usage, err := token.NewUsageLog(model)
	if err != nil {
		return nil, fmt.Errorf("create usage log: %w", err)
	}
	return &AI{
		provider: provider,
		model:    model,
		vision:   supportsVision(model),
		backoff:  DefaultBackoffPolicy(),
		usage:    usage,
	}, nil
}

// supportsVision reports whether the model accepts mixed multimodal content.
func supportsVision(model string) bool {
	return strings.Contains(model, "vision-preview") ||
		(strings.Contains(model, "gpt-4-turbo") && !strings.Contains(model, "preview")) ||
		strings.Contains(model, "claude") ||
		strings.Contains(model, "gpt-4o")
}

// UsageLog returns the ledger recording token usage for this conversation.
func (a *AI) UsageLog() *token.UsageLog {
	return a.usage
}

// Start opens a conversation with a system message and a user message, then
// advances it once.
func (a *AI) Start(ctx context.Context, system string, user llm.Message, stepName string) ([]llm.Message, error) {
	messages := []llm.Message{
		llm.TextMessage(llm.RoleSystem, system),
		user,
	}
	return a.Next(ctx, messages, "", stepName)
}

// Next advances the conversation: optionally appends a user message built
// from prompt, invokes the model under the backoff policy, records token
// usage for the step, and returns the transcript with the reply appended.
func (a *AI) Next(ctx context.Context, messages []llm.Message, prompt, stepName string) ([]llm.Message, error) {
	if prompt != "" {
		messages = append(messages, llm.TextMessage(llm.RoleUser, prompt))
	}

	slog.Debug("creating chat completion", "step", stepName, "messages", len(messages))

	if !a.vision {
		messages = Collapse(messages)
	}

	var reply llm.Message
	err := a.backoff.Execute(ctx, func() error {
		var err error
		reply, err = a.provider.Complete(ctx, messages)
		return err
	})
	if err != nil {
		return nil, err
	}

	a.usage.Update(messages, reply.Text(), stepName)
	messages = append(messages, reply)

	slog.Debug("chat completion finished", "step", stepName, "reply_chars", len(reply.Text()))

	return messages, nil
}

// Collapse combines consecutive same-role messages into one, joining their
// text content with a blank line. Multi-part content is reduced to its first
// text part. Collapsing an already-collapsed transcript changes nothing.
func Collapse(messages []llm.Message) []llm.Message {
	if len(messages) == 0 {
		return nil
	}

	var collapsed []llm.Message
	previous := messages[0]
	combined := previous.Text()

	for _, current := range messages[1:] {
		if current.Role == previous.Role {
			combined += "\n\n" + current.Text()
		} else {
			collapsed = append(collapsed, llm.TextMessage(previous.Role, combined))
			previous = current
			combined = current.Text()
		}
	}

	collapsed = append(collapsed, llm.TextMessage(previous.Role, combined))
	return collapsed
}
