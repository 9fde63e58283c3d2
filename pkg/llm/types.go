package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Image detail levels.
const (
	DetailLow  = "low"
	DetailHigh = "high"
)

// ErrRateLimited signals that the backend refused the request due to rate
// limiting. Callers may retry; every other provider error is terminal.
var ErrRateLimited = errors.New("rate limited")

// Message represents one turn in a conversation. Content carries plain text;
// Parts, when non-nil, carries mixed text and image content instead.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
	Parts   []Part `json:"parts,omitempty"`
}

// Part is one typed element of multimodal message content.
type Part struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL references image content, either a URL or a base64 data URI.
type ImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

// TextMessage builds a plain-text message.
func TextMessage(role, content string) Message {
	return Message{Role: role, Content: content}
}

// PartsMessage builds a multimodal message from typed parts.
func PartsMessage(role string, parts []Part) Message {
	return Message{Role: role, Parts: parts}
}

// Text returns the textual content of the message: the plain content if set,
// otherwise the first text part. Image parts carry no text.
func (m Message) Text() string {
	if m.Parts == nil {
		return m.Content
	}
	for _, p := range m.Parts {
		if p.Type == "text" {
			return p.Text
		}
	}
	return ""
}

// SerializeMessages encodes a transcript as JSON for logging or persistence.
func SerializeMessages(messages []Message) (string, error) {
	data, err := json.Marshal(messages)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DeserializeMessages decodes a transcript serialized by SerializeMessages.
func DeserializeMessages(s string) ([]Message, error) {
	var messages []Message
	if err := json.Unmarshal([]byte(s), &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// PrettyMessages renders a transcript as "role:\ncontent" blocks separated by
// blank lines, the format used for conversation log files.
func PrettyMessages(messages []Message) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.Role)
		b.WriteString(":\n")
		b.WriteString(m.Text())
	}
	return b.String()
}
