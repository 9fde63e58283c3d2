package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/AI-Advenced/GPT-Genius/pkg/llm"
)

// fakeProvider replays canned replies and records what it was sent.
type fakeProvider struct {
	replies []string
	err     error
	calls   int
	sent    [][]llm.Message
}

func (f *fakeProvider) Complete(_ context.Context, messages []llm.Message) (llm.Message, error) {
	f.sent = append(f.sent, messages)
	if f.err != nil {
		return llm.Message{}, f.err
	}
	reply := f.replies[f.calls%len(f.replies)]
	f.calls++
	return llm.TextMessage(llm.RoleAssistant, reply), nil
}

func newTestAI(t *testing.T, provider llm.Provider, model string) *AI {
	t.Helper()
	a, err := New(provider, model)
	if err != nil {
		t.Fatal(err)
	}
	a.backoff = &BackoffPolicy{MaxAttempts: 3, MaxElapsed: 100, InitialDelay: 1, Multiplier: 1, MaxDelay: 1}
	return a
}

func TestStartAppendsReply(t *testing.T) {
	provider := &fakeProvider{replies: []string{"hello back"}}
	a := newTestAI(t, provider, "gpt-4o")

	messages, err := a.Start(context.Background(), "be helpful", llm.TextMessage(llm.RoleUser, "hi"), "test_step")
	if err != nil {
		t.Fatal(err)
	}

	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[0].Role != llm.RoleSystem || messages[1].Role != llm.RoleUser {
		t.Error("expected system then user message")
	}
	last := messages[len(messages)-1]
	if last.Role != llm.RoleAssistant || last.Text() != "hello back" {
		t.Errorf("expected assistant reply appended, got %+v", last)
	}
}

func TestNextRecordsUsage(t *testing.T) {
	provider := &fakeProvider{replies: []string{"first", "second"}}
	a := newTestAI(t, provider, "gpt-4o")

	messages, err := a.Start(context.Background(), "sys", llm.TextMessage(llm.RoleUser, "one"), "step_one")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Next(context.Background(), messages, "two", "step_two"); err != nil {
		t.Fatal(err)
	}

	entries := a.UsageLog().Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", len(entries))
	}
	if entries[0].StepName != "step_one" || entries[1].StepName != "step_two" {
		t.Errorf("unexpected step names: %q, %q", entries[0].StepName, entries[1].StepName)
	}
	if entries[1].TotalTokens <= entries[0].TotalTokens {
		t.Error("running totals must grow across steps")
	}
}

func TestNextCollapsesForNonVisionModel(t *testing.T) {
	provider := &fakeProvider{replies: []string{"ok"}}
	a := newTestAI(t, provider, "gpt-3.5-turbo")

	messages := []llm.Message{
		llm.TextMessage(llm.RoleSystem, "sys"),
		llm.TextMessage(llm.RoleUser, "part one"),
		llm.TextMessage(llm.RoleUser, "part two"),
	}
	if _, err := a.Next(context.Background(), messages, "", "step"); err != nil {
		t.Fatal(err)
	}

	sent := provider.sent[0]
	if len(sent) != 2 {
		t.Fatalf("expected collapsed transcript of 2 messages, got %d", len(sent))
	}
	if sent[1].Content != "part one\n\npart two" {
		t.Errorf("expected joined user content, got %q", sent[1].Content)
	}
}

func TestNextKeepsPartsForVisionModel(t *testing.T) {
	provider := &fakeProvider{replies: []string{"ok"}}
	a := newTestAI(t, provider, "gpt-4o")

	messages := []llm.Message{
		llm.TextMessage(llm.RoleSystem, "sys"),
		llm.PartsMessage(llm.RoleUser, []llm.Part{
			{Type: "text", Text: "look at this"},
			{Type: "image_url", ImageURL: &llm.ImageURL{URL: "data:image/png;base64,x", Detail: llm.DetailLow}},
		}),
	}
	if _, err := a.Next(context.Background(), messages, "", "step"); err != nil {
		t.Fatal(err)
	}

	sent := provider.sent[0]
	if sent[1].Parts == nil {
		t.Fatal("vision model must receive multimodal parts untouched")
	}
	if len(sent[1].Parts) != 2 {
		t.Errorf("expected 2 parts, got %d", len(sent[1].Parts))
	}
}

func TestNextRateLimitExhaustion(t *testing.T) {
	provider := &fakeProvider{err: fmt.Errorf("%w: 429", llm.ErrRateLimited)}
	a := newTestAI(t, provider, "gpt-4o")

	_, err := a.Next(context.Background(), []llm.Message{llm.TextMessage(llm.RoleUser, "hi")}, "", "step")
	if !errors.Is(err, ErrRateLimitExceeded) {
		t.Fatalf("expected ErrRateLimitExceeded, got %v", err)
	}
}

func TestNextOtherErrorPropagates(t *testing.T) {
	boom := errors.New("bad request")
	provider := &fakeProvider{err: boom}
	a := newTestAI(t, provider, "gpt-4o")

	_, err := a.Next(context.Background(), []llm.Message{llm.TextMessage(llm.RoleUser, "hi")}, "", "step")
	if !errors.Is(err, boom) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestCollapse(t *testing.T) {
	messages := []llm.Message{
		llm.TextMessage(llm.RoleSystem, "a"),
		llm.TextMessage(llm.RoleUser, "b"),
		llm.TextMessage(llm.RoleUser, "c"),
		llm.TextMessage(llm.RoleAssistant, "d"),
		llm.TextMessage(llm.RoleUser, "e"),
	}

	collapsed := Collapse(messages)
	if len(collapsed) != 4 {
		t.Fatalf("expected 4 maximal same-role runs, got %d", len(collapsed))
	}
	if collapsed[1].Content != "b\n\nc" {
		t.Errorf("expected 'b\\n\\nc', got %q", collapsed[1].Content)
	}
}

func TestCollapseIdempotent(t *testing.T) {
	messages := []llm.Message{
		llm.TextMessage(llm.RoleUser, "a"),
		llm.TextMessage(llm.RoleUser, "b"),
		llm.TextMessage(llm.RoleAssistant, "c"),
	}

	once := Collapse(messages)
	twice := Collapse(once)
	if len(once) != len(twice) {
		t.Fatalf("collapse not idempotent: %d vs %d messages", len(once), len(twice))
	}
	for i := range once {
		if once[i].Role != twice[i].Role || once[i].Content != twice[i].Content {
			t.Errorf("message %d changed on second collapse", i)
		}
	}
}

func TestCollapseReducesPartsToFirstText(t *testing.T) {
	messages := []llm.Message{
		llm.PartsMessage(llm.RoleUser, []llm.Part{
			{Type: "text", Text: "request"},
			{Type: "image_url", ImageURL: &llm.ImageURL{URL: "u"}},
		}),
		llm.TextMessage(llm.RoleUser, "more"),
	}

	collapsed := Collapse(messages)
	if len(collapsed) != 1 {
		t.Fatalf("expected 1 message, got %d", len(collapsed))
	}
	if collapsed[0].Content != "request\n\nmore" {
		t.Errorf("expected first text part joined, got %q", collapsed[0].Content)
	}
}

func TestCollapseEmpty(t *testing.T) {
	if got := Collapse(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %d messages", len(got))
	}
}

func TestSupportsVision(t *testing.T) {
	tests := []struct {
		model string
		want  bool
	}{
		{"gpt-4o", true},
		{"gpt-4-turbo", true},
		{"gpt-4-turbo-preview", false},
		{"claude-3-opus", true},
		{"gpt-3.5-turbo", false},
		{"gpt-4-vision-preview", true},
	}
	for _, tt := range tests {
		if got := supportsVision(tt.model); got != tt.want {
			t.Errorf("supportsVision(%q) = %v, want %v", tt.model, got, tt.want)
		}
	}
}
