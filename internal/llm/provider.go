// Package llm is the AI provider boundary. The provider is treated as
// fallible and slow; its failures are surfaced immediately and never retried
// at this layer.
package llm

import (
	"context"
)

// Message is one turn of a completion conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest describes one completion call
type CompletionRequest struct {
	Model     string
	MaxTokens int
	System    string
	Messages  []Message
}

// Provider produces a plain-text completion expected to contain JSON,
// possibly wrapped in markdown fences
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
