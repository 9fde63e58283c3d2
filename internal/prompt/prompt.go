// Package prompt defines the request descriptor handed to the agent.
package prompt

import (
	"encoding/json"
	"sort"

	"github.com/AI-Advenced/GPT-Genius/pkg/llm"
)

// Prompt describes one user request: the free-text request itself, optional
// named images, and an optional instruction for entrypoint synthesis.
// Immutable once built.
type Prompt struct {
	Text             string            `json:"text"`
	ImageURLs        map[string]string `json:"image_urls,omitempty"`
	EntrypointPrompt string            `json:"entrypoint_prompt,omitempty"`
}

// New creates a text-only prompt.
func New(text string) Prompt {
	return Prompt{Text: text}
}

// ToMessage converts the prompt into a user message with typed content
// parts: the request text first, then any images at low detail in name
// order.
func (p Prompt) ToMessage() llm.Message {
	parts := []llm.Part{{Type: "text", Text: "Request: " + p.Text}}

	names := make([]string, 0, len(p.ImageURLs))
	for name := range p.ImageURLs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, llm.Part{
			Type: "image_url",
			ImageURL: &llm.ImageURL{
				URL:    p.ImageURLs[name],
				Detail: llm.DetailLow,
			},
		})
	}

	return llm.PartsMessage(llm.RoleUser, parts)
}

// ToJSON serializes the prompt.
func (p Prompt) ToJSON() (string, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
