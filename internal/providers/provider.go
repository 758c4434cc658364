package providers

import "context"

// Provider is the LLM provider interface.
type Provider interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

type ChatRequest struct {
	Model        string    `json:"model"`
	Messages     []Message `json:"messages"`
	MaxTokens    int       `json:"max_tokens,omitempty"`
	Temperature  float64   `json:"temperature,omitempty"`
	SystemPrompt string    `json:"-"` // handled separately by some providers
}

type ChatResponse struct {
	Content    string `json:"content"`
	Usage      Usage  `json:"usage"`
	StopReason string `json:"stop_reason"`
}

type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content,omitempty"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
