// Package agent wires the conversation engine, preprompts, memory, and
// execution environment into the two top-level workflows.
package agent

import (
	"context"

	"github.com/AI-Advenced/GPT-Genius/internal/ai"
	"github.com/AI-Advenced/GPT-Genius/internal/execenv"
	"github.com/AI-Advenced/GPT-Genius/internal/files"
	"github.com/AI-Advenced/GPT-Genius/internal/memory"
	"github.com/AI-Advenced/GPT-Genius/internal/preprompts"
	"github.com/AI-Advenced/GPT-Genius/internal/prompt"
	"github.com/AI-Advenced/GPT-Genius/internal/steps"
)

// Agent is the public contract of the generation core: initialize a codebase
// from a prompt, or improve an existing one.
type Agent interface {
	Init(ctx context.Context, p prompt.Prompt) (*files.Dict, error)
	Improve(ctx context.Context, d *files.Dict, p prompt.Prompt) (*files.Dict, error)
}

// SimpleAgent drives the two linear workflows. The workflows share no state
// between invocations; each call composes its prompts, blocks on the model,
// and parses the reply sequentially.
type SimpleAgent struct {
	ai         *ai.AI
	mem        memory.Store
	env        execenv.Env
	preprompts *preprompts.Holder
}

// New creates a SimpleAgent from its collaborators.
func New(a *ai.AI, mem memory.Store, env execenv.Env, pp *preprompts.Holder) *SimpleAgent {
	if pp == nil {
		pp = preprompts.NewHolder()
	}
	return &SimpleAgent{ai: a, mem: mem, env: env, preprompts: pp}
}

// AI exposes the underlying conversation engine, e.g. for usage reporting.
func (s *SimpleAgent) AI() *ai.AI {
	return s.ai
}

// Env exposes the execution environment the agent was built with.
func (s *SimpleAgent) Env() execenv.Env {
	return s.env
}

// Init generates a codebase from the prompt, synthesizes an entrypoint
// script for it, and returns the merged file dict. Either a full dict is
// returned or the call fails; there is no partial success.
func (s *SimpleAgent) Init(ctx context.Context, p prompt.Prompt) (*files.Dict, error) {
	generated, err := steps.GenCode(ctx, s.ai, p, s.mem, s.preprompts)
	if err != nil {
		return nil, err
	}

	entrypoint, err := steps.GenEntrypoint(ctx, s.ai, p, generated, s.mem, s.preprompts)
	if err != nil {
		return nil, err
	}

	merged := generated.Clone()
	merged.Merge(entrypoint)
	return merged, nil
}

// Improve runs one improvement exchange over the given codebase. Until diff
// application is implemented the returned dict equals the input.
func (s *SimpleAgent) Improve(ctx context.Context, d *files.Dict, p prompt.Prompt) (*files.Dict, error) {
	return steps.Improve(ctx, s.ai, p, d, s.mem, s.preprompts)
}
