// Client - thin wrapper adding per-call deadlines and empty-output detection.

package llm

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrEmptyResponse is returned when a provider answers without any content.
var ErrEmptyResponse = errors.New("no content in completion response")

// Client wraps a Provider with a simple interface.
type Client struct {
	provider Provider
	timeout  time.Duration
}

// NewClient creates a new client from a provider. A zero timeout leaves
// the caller's context deadline as the only bound.
func NewClient(provider Provider, timeout time.Duration) *Client {
	return &Client{provider: provider, timeout: timeout}
}

// ChatJSON sends a chat completion request that asks for a single JSON object
// and returns the raw content with token usage.
func (c *Client) ChatJSON(ctx context.Context, messages []ChatMessage) (string, *TokenUsage, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	response, err := c.provider.ChatWithFormat(ctx, messages, NewJSONObjectFormat())
	if err != nil {
		return "", nil, err
	}
	if strings.TrimSpace(response.Content) == "" {
		return "", response.Usage, ErrEmptyResponse
	}
	return response.Content, response.Usage, nil
}

// Provider returns the underlying provider.
func (c *Client) Provider() Provider {
	return c.provider
}
