// Package json provides JSON extraction utilities for parsing completion payloads.
//
// Providers without an enforced JSON mode often wrap the payload in markdown
// fences or add commentary around it. This package recovers the JSON value.
package json

import (
	"encoding/json"
	"fmt"
	"strings"
)

// extractJSON finds and returns the JSON portion of a response string.
// It handles common completion patterns:
// 1. Pure JSON response - returns the full response, fences inside strings included
// 2. JSON wrapped in markdown code blocks (```json ... ```)
// 3. JSON object or array embedded in text - outermost '{'..'}' or '['..']'
//
// Limitations:
// - Uses simple bracket matching, not full JSON parsing
// - May fail if brackets appear in strings or are unbalanced
func extractJSON(response string) (string, error) {
	if trimmed := strings.TrimSpace(response); json.Valid([]byte(trimmed)) {
		return trimmed, nil
	}

	response = stripMarkdownCodeBlocks(response)
	if json.Valid([]byte(response)) {
		return response, nil
	}

	for _, pair := range [][2]string{{"{", "}"}, {"[", "]"}} {
		if candidate, ok := enclosed(response, pair[0], pair[1]); ok {
			return candidate, nil
		}
	}

	preview := response
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	return "", fmt.Errorf("failed to extract valid JSON from response: %q", preview)
}

// enclosed returns the text between the first open and the last close
// delimiter when it is valid JSON.
func enclosed(response, open, close string) (string, bool) {
	start := strings.Index(response, open)
	if start == -1 {
		return "", false
	}
	end := strings.LastIndex(response, close)
	if end == -1 || end <= start {
		return "", false
	}
	candidate := response[start : end+1]
	return candidate, json.Valid([]byte(candidate))
}

// stripMarkdownCodeBlocks removes markdown code block markers from a response.
// Handles patterns like ```json\n...\n``` or ```\n...\n```, including
// commentary before the opening fence.
func stripMarkdownCodeBlocks(response string) string {
	trimmed := strings.TrimSpace(response)

	if idx := strings.Index(trimmed, "```json"); idx != -1 {
		trimmed = trimmed[idx+len("```json"):]
	} else if idx := strings.Index(trimmed, "```"); idx != -1 {
		trimmed = trimmed[idx+len("```"):]
	} else {
		return trimmed
	}

	if end := strings.Index(trimmed, "```"); end != -1 {
		trimmed = trimmed[:end]
	}
	return strings.TrimSpace(trimmed)
}

// ExtractJSONFromResponse extracts and parses JSON from a completion payload.
// Returns the parsed value or an error if extraction fails.
func ExtractJSONFromResponse[T any](response string) (T, error) {
	var result T
	jsonStr, err := extractJSON(response)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return result, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return result, nil
}

// ExtractJSON extracts the JSON portion from a response string.
// Returns the raw JSON string suitable for further processing.
func ExtractJSON(response string) (string, error) {
	return extractJSON(response)
}
