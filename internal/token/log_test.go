package token

import (
	"strings"
	"testing"

	"github.com/AI-Advenced/GPT-Genius/pkg/llm"
)

func newTestLog(t *testing.T, model string) *UsageLog {
	t.Helper()
	log, err := NewUsageLog(model)
	if err != nil {
		t.Fatal(err)
	}
	return log
}

func sampleTranscript() []llm.Message {
	return []llm.Message{
		llm.TextMessage(llm.RoleSystem, "you are helpful"),
		llm.TextMessage(llm.RoleUser, "write me a program"),
	}
}

func TestUpdateAppendsEntries(t *testing.T) {
	log := newTestLog(t, "gpt-4")

	log.Update(sampleTranscript(), "here is code", "gen_code")
	log.Update(sampleTranscript(), "here is a script", "gen_entrypoint")

	entries := log.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].StepName != "gen_code" || entries[1].StepName != "gen_entrypoint" {
		t.Errorf("unexpected step names: %+v", entries)
	}
}

func TestRunningTotalsMonotonic(t *testing.T) {
	log := newTestLog(t, "gpt-4")

	for i := 0; i < 5; i++ {
		log.Update(sampleTranscript(), "answer text", "step")
	}

	entries := log.Entries()
	sumPrompt, sumCompletion := 0, 0
	prevTotal := 0
	for i, e := range entries {
		sumPrompt += e.StepPromptTokens
		sumCompletion += e.StepCompletionTokens
		if e.TotalTokens < prevTotal {
			t.Errorf("entry %d: running total decreased", i)
		}
		prevTotal = e.TotalTokens
		if e.TotalPromptTokens != sumPrompt {
			t.Errorf("entry %d: prompt total %d != sum of increments %d", i, e.TotalPromptTokens, sumPrompt)
		}
		if e.TotalCompletionTokens != sumCompletion {
			t.Errorf("entry %d: completion total %d != sum of increments %d", i, e.TotalCompletionTokens, sumCompletion)
		}
	}
	if log.TotalTokens() != sumPrompt+sumCompletion {
		t.Errorf("TotalTokens %d != %d", log.TotalTokens(), sumPrompt+sumCompletion)
	}
}

func TestFormatCSV(t *testing.T) {
	log := newTestLog(t, "gpt-4")
	log.Update(sampleTranscript(), "answer", "gen_code")

	csv := log.FormatCSV()
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "step_name,") {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "gen_code,") {
		t.Errorf("unexpected row: %q", lines[1])
	}
}

func TestUsageCostKnownModel(t *testing.T) {
	log := newTestLog(t, "gpt-4")
	log.Update(sampleTranscript(), "answer", "step")

	cost, ok := log.UsageCost()
	if !ok {
		t.Fatal("expected cost to be available for gpt-4")
	}
	if cost <= 0 {
		t.Errorf("expected positive cost, got %f", cost)
	}
}

func TestUsageCostUnknownModel(t *testing.T) {
	log := newTestLog(t, "llama-3-70b")
	log.Update(sampleTranscript(), "answer", "step")

	if _, ok := log.UsageCost(); ok {
		t.Error("expected cost unavailable for non-OpenAI model")
	}
}

func TestUsageCostUnpricedGPTModel(t *testing.T) {
	log := newTestLog(t, "gpt-99-experimental")
	log.Update(sampleTranscript(), "answer", "step")

	// Matches the "gpt" heuristic but has no price entry: unavailable, not zero.
	if _, ok := log.UsageCost(); ok {
		t.Error("expected cost unavailable for unpriced model")
	}
}

func TestUsageCostEmptyLedger(t *testing.T) {
	log := newTestLog(t, "gpt-4")

	cost, ok := log.UsageCost()
	if !ok {
		t.Fatal("expected cost available")
	}
	if cost != 0 {
		t.Errorf("expected zero cost for empty ledger, got %f", cost)
	}
}

func TestCostForModelPrefixFallback(t *testing.T) {
	cost, ok := costForModel("gpt-4o-2024-08-06", 1000, false)
	if !ok {
		t.Fatal("expected dated snapshot to resolve via prefix")
	}
	if cost != 0.005 {
		t.Errorf("expected the gpt-4o prompt rate, got %f", cost)
	}

	if _, ok := costForModel("mistral-7b", 1000, false); ok {
		t.Error("expected no price for unknown model")
	}
}
