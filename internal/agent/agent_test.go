package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/AI-Advenced/GPT-Genius/internal/ai"
	"github.com/AI-Advenced/GPT-Genius/internal/execenv"
	"github.com/AI-Advenced/GPT-Genius/internal/files"
	"github.com/AI-Advenced/GPT-Genius/internal/memory"
	"github.com/AI-Advenced/GPT-Genius/internal/prompt"
	"github.com/AI-Advenced/GPT-Genius/internal/steps"
	"github.com/AI-Advenced/GPT-Genius/pkg/llm"
)

type fakeProvider struct {
	replies []string
	err     error
	calls   int
}

func (f *fakeProvider) Complete(_ context.Context, _ []llm.Message) (llm.Message, error) {
	if f.err != nil {
		return llm.Message{}, f.err
	}
	reply := f.replies[f.calls%len(f.replies)]
	f.calls++
	return llm.TextMessage(llm.RoleAssistant, reply), nil
}

func newTestAgent(t *testing.T, provider llm.Provider) *SimpleAgent {
	t.Helper()
	a, err := ai.New(provider, "gpt-4o")
	if err != nil {
		t.Fatal(err)
	}
	mem, err := memory.NewDiskMemory(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	env, err := execenv.NewDiskEnv(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return New(a, mem, env, nil)
}

func TestInitMergesCodeAndEntrypoint(t *testing.T) {
	provider := &fakeProvider{replies: []string{
		"main.py\n```python\nprint('hi')\n```\n",
		"```\npython main.py\n```\n",
	}}
	ag := newTestAgent(t, provider)

	d, err := ag.Init(context.Background(), prompt.New("say hi"))
	if err != nil {
		t.Fatal(err)
	}

	if d.Len() != 2 {
		t.Fatalf("expected generated file plus entrypoint, got %v", d.Paths())
	}
	content, _ := d.Get("main.py")
	if content != "print('hi')" {
		t.Errorf("unexpected main.py content: %q", content)
	}
	script, ok := d.Get(steps.EntrypointFile)
	if !ok {
		t.Fatalf("expected %s in result", steps.EntrypointFile)
	}
	if script != "python main.py\n" {
		t.Errorf("unexpected entrypoint script: %q", script)
	}
}

func TestInitProviderErrorFailsWhole(t *testing.T) {
	boom := errors.New("upstream down")
	ag := newTestAgent(t, &fakeProvider{err: boom})

	if _, err := ag.Init(context.Background(), prompt.New("x")); !errors.Is(err, boom) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestImproveIdentity(t *testing.T) {
	provider := &fakeProvider{replies: []string{"```diff\n+++ changed\n```"}}
	ag := newTestAgent(t, provider)

	existing := files.NewDict()
	existing.Set("main.py", "print(1)")
	existing.Set("util.py", "pass")

	got, err := ag.Improve(context.Background(), existing, prompt.New("speed it up"))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(existing) {
		t.Errorf("expected unchanged codebase, got %v", got.Paths())
	}
}

func TestInitRecordsUsagePerStep(t *testing.T) {
	provider := &fakeProvider{replies: []string{
		"a.py\n```\nx=1\n```\n",
		"```\nbash a.py\n```\n",
	}}
	ag := newTestAgent(t, provider)

	if _, err := ag.Init(context.Background(), prompt.New("x")); err != nil {
		t.Fatal(err)
	}

	entries := ag.AI().UsageLog().Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 usage entries, got %d", len(entries))
	}
	if entries[0].StepName != "gen_code" || entries[1].StepName != "gen_entrypoint" {
		t.Errorf("unexpected step names: %q, %q", entries[0].StepName, entries[1].StepName)
	}
}
