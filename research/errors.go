package research

import "fmt"

// ProviderError reports a failed search call: transport error, non-2xx
// status, or a malformed body. It is never retried.
type ProviderError struct {
	Query      string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("research provider: query %q: %v", e.Query, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
