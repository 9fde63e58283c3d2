package llm

import "context"

// Provider defines the interface for chat-completion backends. Implementations
// handle protocol-specific details such as request formatting and
// authentication. A Provider must return an error wrapping ErrRateLimited when
// the backend signals rate limiting so that callers can apply backoff.
type Provider interface {
	// Complete sends the ordered transcript and returns the model's reply.
	Complete(ctx context.Context, messages []Message) (Message, error)
}

// Config holds common configuration for LLM providers.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
}
