package llm

import (
	"context"
	"time"
)

// Message represents a chat message
type Message struct {
	ID        string    `json:"id,omitempty"`
	Role      string    `json:"role"`      // "system", "user", "assistant"
	Content   string    `json:"content"`   // The message content
	Timestamp time.Time `json:"timestamp"` // When the message was created
}

// Adapter defines the interface for LLM providers
type Adapter interface {
	// Send sends messages and returns the complete response
	Send(ctx context.Context, messages []Message) (*Message, error)

	// GetModelName returns the current model name
	GetModelName() string

	// IsAvailable checks if the adapter is properly configured
	IsAvailable() bool
}

// AdapterConfig contains common configuration for LLM adapters
type AdapterConfig struct {
	Model   string
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// DefaultTimeout for LLM requests. A hung request must not leave the
// popup stuck in its loading state.
const DefaultTimeout = 30 * time.Second
