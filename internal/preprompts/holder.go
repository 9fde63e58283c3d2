// Package preprompts holds the named prompt-template fragments that the
// orchestrator composes system prompts from.
package preprompts

import (
	"fmt"

	"github.com/AI-Advenced/GPT-Genius/internal/memory"
)

// Holder provides read-only access to preprompt fragments. Built-in defaults
// can be overridden per fragment by files in an optional directory.
type Holder struct {
	overrides *memory.DiskMemory
}

// NewHolder creates a Holder serving the built-in fragments.
func NewHolder() *Holder {
	return &Holder{}
}

// NewHolderWithPath creates a Holder whose fragments can be overridden by
// files named after them in the given directory.
func NewHolderWithPath(path string) (*Holder, error) {
	store, err := memory.NewDiskMemory(path)
	if err != nil {
		return nil, fmt.Errorf("open preprompts dir: %w", err)
	}
	return &Holder{overrides: store}, nil
}

// Get returns the named fragment, preferring an on-disk override.
func (h *Holder) Get(name string) (string, error) {
	if h.overrides != nil && h.overrides.Contains(name) {
		return h.overrides.Get(name)
	}
	text, ok := defaults[name]
	if !ok {
		return "", fmt.Errorf("unknown preprompt %q", name)
	}
	return text, nil
}

// All returns every fragment by name, with overrides applied.
func (h *Holder) All() (map[string]string, error) {
	all := make(map[string]string, len(defaults))
	for name := range defaults {
		text, err := h.Get(name)
		if err != nil {
			return nil, err
		}
		all[name] = text
	}
	return all, nil
}
