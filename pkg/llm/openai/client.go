package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AI-Advenced/GPT-Genius/pkg/llm"
)

// Client implements the llm.Provider interface for OpenAI-compatible APIs.
type Client struct {
	config     *llm.Config
	httpClient *http.Client
}

// New creates a new OpenAI-compatible client with the given configuration.
func New(config *llm.Config) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// chatRequest is the OpenAI chat completions request body.
type chatRequest struct {
	Model       string           `json:"model"`
	Messages    []requestMessage `json:"messages"`
	MaxTokens   int              `json:"max_tokens,omitempty"`
	Temperature *float32         `json:"temperature,omitempty"`
}

// requestMessage is the OpenAI message format for requests. Content is either
// a plain string or a list of typed parts for multimodal messages.
type requestMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *llm.ImageURL `json:"image_url,omitempty"`
}

// chatResponse is the OpenAI chat completions response body.
type chatResponse struct {
	Choices []choice `json:"choices"`
}

// choice represents a single completion choice.
type choice struct {
	Message responseMessage `json:"message"`
}

// responseMessage is the OpenAI message format in responses.
type responseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func toRequestMessage(msg llm.Message) requestMessage {
	if msg.Parts == nil {
		return requestMessage{Role: msg.Role, Content: msg.Content}
	}
	parts := make([]contentPart, len(msg.Parts))
	for i, p := range msg.Parts {
		parts[i] = contentPart{Type: p.Type, Text: p.Text, ImageURL: p.ImageURL}
	}
	return requestMessage{Role: msg.Role, Content: parts}
}

// Complete sends a chat completion request and returns the model's reply.
// HTTP 429 responses surface as errors wrapping llm.ErrRateLimited.
func (c *Client) Complete(ctx context.Context, messages []llm.Message) (llm.Message, error) {
	reqMessages := make([]requestMessage, len(messages))
	for i, msg := range messages {
		reqMessages[i] = toRequestMessage(msg)
	}

	reqBody := chatRequest{
		Model:    c.config.Model,
		Messages: reqMessages,
	}

	if c.config.MaxTokens > 0 {
		reqBody.MaxTokens = c.config.MaxTokens
	}

	if c.config.Temperature != 0 {
		temp := c.config.Temperature
		reqBody.Temperature = &temp
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return llm.Message{}, fmt.Errorf("marshaling request: %w", err)
	}

	url := c.config.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return llm.Message{}, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return llm.Message{}, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.Message{}, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return llm.Message{}, fmt.Errorf("%w: %s", llm.ErrRateLimited, string(respBody))
	}

	if resp.StatusCode != http.StatusOK {
		return llm.Message{}, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return llm.Message{}, fmt.Errorf("parsing response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return llm.Message{}, fmt.Errorf("no choices in response")
	}

	msg := chatResp.Choices[0].Message
	return llm.TextMessage(llm.RoleAssistant, msg.Content), nil
}
