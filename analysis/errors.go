package analysis

import (
	"errors"
	"fmt"
)

// Pass names a completion pass.
type Pass string

const (
	PassAnalysis         Pass = "analysis"
	PassMarketValidation Pass = "market_validation"
	PassHMW              Pass = "hmw"
)

// ErrShape marks a payload that parsed as JSON but does not fit the expected schema.
var ErrShape = errors.New("payload does not match expected shape")

// ExtractionError reports a failed completion pass: provider error, empty
// content, unparseable JSON, or a shape mismatch. It is never retried.
type ExtractionError struct {
	Pass Pass
	Err  error
}

func (e *ExtractionError) Error() string {
	switch e.Pass {
	case PassAnalysis:
		return fmt.Sprintf("failed to analyze discovery with AI: %v", e.Err)
	case PassMarketValidation:
		return fmt.Sprintf("failed to extract market validation: %v", e.Err)
	case PassHMW:
		return fmt.Sprintf("failed to generate HMW statements: %v", e.Err)
	default:
		return fmt.Sprintf("%s pass failed: %v", e.Pass, e.Err)
	}
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
