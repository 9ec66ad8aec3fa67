package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/richinex/discoverylens/model"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every problem found in a request body.
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Details))
	for i, d := range e.Details {
		parts[i] = d.Field + ": " + d.Message
	}
	return "invalid request data: " + strings.Join(parts, "; ")
}

// analyzeRequest mirrors the POST /api/analysis/analyze body. Pointers
// distinguish missing fields from empty ones.
type analyzeRequest struct {
	DiscoveryID        *string `json:"discoveryId"`
	ProblemDescription *string `json:"problemDescription"`
	AffectedUsers      *string `json:"affectedUsers"`
	Evidence           *string `json:"evidence"`
	BusinessImpact     *string `json:"businessImpact"`
	SuccessCriteria    *string `json:"successCriteria"`
}

type hmwRequest struct {
	Discovery *model.DiscoveryRequest `json:"discovery"`
	Analysis  *model.ProblemAnalysis  `json:"analysis"`
}

// decodeBody reads a bounded JSON body into dst. Malformed JSON and type
// mismatches come back as a *ValidationError.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(body).Decode(dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &typeErr):
		return &ValidationError{Details: []FieldError{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("Expected %s, received %s", typeErr.Type, typeErr.Value),
		}}}
	case errors.As(err, &maxErr):
		return &ValidationError{Details: []FieldError{{
			Field:   "body",
			Message: fmt.Sprintf("Request body exceeds %d bytes", maxErr.Limit),
		}}}
	case errors.Is(err, io.EOF):
		return &ValidationError{Details: []FieldError{{Field: "body", Message: "Request body is empty"}}}
	default:
		return &ValidationError{Details: []FieldError{{Field: "body", Message: "Malformed JSON: " + err.Error()}}}
	}
}

// validate checks minimum lengths and returns the discovery id and request.
func (req analyzeRequest) validate() (string, model.DiscoveryRequest, error) {
	var details []FieldError
	check := func(field string, val *string, min int) string {
		switch {
		case val == nil:
			details = append(details, FieldError{Field: field, Message: "Required"})
			return ""
		case utf8.RuneCountInString(*val) < min:
			details = append(details, FieldError{
				Field:   field,
				Message: fmt.Sprintf("String must contain at least %d character(s)", min),
			})
		}
		return *val
	}

	id := check("discoveryId", req.DiscoveryID, 1)
	d := model.DiscoveryRequest{
		ProblemDescription: check("problemDescription", req.ProblemDescription, 10),
		AffectedUsers:      check("affectedUsers", req.AffectedUsers, 5),
		Evidence:           check("evidence", req.Evidence, 10),
		BusinessImpact:     check("businessImpact", req.BusinessImpact, 10),
		SuccessCriteria:    check("successCriteria", req.SuccessCriteria, 10),
	}
	if len(details) > 0 {
		return "", model.DiscoveryRequest{}, &ValidationError{Details: details}
	}
	return id, d, nil
}
