package llm

import (
	"context"
	"errors"
	"time"
)

// Message represents a chat message
type Message struct {
	Role      string    `json:"role"`      // "system", "user", "assistant"
	Content   string    `json:"content"`   // The message content
	Timestamp time.Time `json:"timestamp"` // When the message was created
}

// Adapter defines the interface for LLM providers
type Adapter interface {
	// Complete sends messages and returns the complete assistant response.
	// maxTokens caps the output token budget for this call.
	Complete(ctx context.Context, messages []Message, maxTokens int) (*Message, error)

	// ModelName returns the current model name
	ModelName() string

	// Available checks if the adapter is properly configured
	Available() bool
}

// AdapterConfig contains common configuration for LLM adapters
type AdapterConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// DefaultTimeout for LLM requests
const DefaultTimeout = 60 * time.Second

var (
	// ErrNoAPIKey is returned before any network call when the provider key
	// is unset. Callers surface it as a configuration error, never retry.
	ErrNoAPIKey = errors.New("no API key configured for provider")

	// ErrRateLimited is returned on HTTP 429. It is surfaced as a distinct
	// warning and deliberately not retried to avoid amplifying throttling.
	ErrRateLimited = errors.New("provider rate limited the request")
)
