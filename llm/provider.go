// Package llm provides completion provider abstractions.
//
// Each provider implementation hides:
// - API client initialization and authentication
// - Request/response format conversion
// - Provider-specific JSON output handling

package llm

import (
	"context"
)

// Provider defines the abstract interface for completion providers.
// Implementations hide vendor details while exposing a consistent
// interface for chat completions.
type Provider interface {
	// Name returns the provider name (for logging/debugging).
	Name() string

	// Model returns the current model being used.
	Model() string

	// ChatWithFormat sends a chat completion request with response format.
	// A nil format requests free text.
	ChatWithFormat(ctx context.Context, messages []ChatMessage, format *ResponseFormat) (LLMResponse, error)
}
