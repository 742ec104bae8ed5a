package parse

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Strategy attempts to recover a JSON document from raw model output.
// It returns the candidate JSON text, or ok=false when the strategy does
// not apply to this input.
type Strategy struct {
	Name    string
	Extract func(raw string) (string, bool)
}

var fenceRegexp = regexp.MustCompile("```(?:json)?\\s*\\n?([\\s\\S]*?)```")

// Strategies is the ordered repair chain. The pipeline tries each in order
// and stops at the first candidate that unmarshals into the target.
var Strategies = []Strategy{
	{Name: "strict", Extract: func(raw string) (string, bool) {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return "", false
		}
		return trimmed, true
	}},
	{Name: "strip_fences", Extract: func(raw string) (string, bool) {
		matches := fenceRegexp.FindStringSubmatch(raw)
		if len(matches) < 2 {
			return "", false
		}
		return strings.TrimSpace(matches[1]), true
	}},
	{Name: "first_span", Extract: extractFirstSpan},
	{Name: "bracket_slice", Extract: bracketSlice},
}

// Decode runs the repair chain over raw output and unmarshals the first
// recoverable candidate into v. The returned string names the strategy
// that succeeded.
func Decode(raw string, v interface{}) (string, error) {
	var lastErr error
	for _, s := range Strategies {
		candidate, ok := s.Extract(raw)
		if !ok {
			continue
		}
		if err := json.Unmarshal([]byte(candidate), v); err != nil {
			lastErr = err
			continue
		}
		return s.Name, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no JSON content found")
	}
	return "", fmt.Errorf("all decode strategies failed: %w", lastErr)
}

// extractFirstSpan scans for the first complete JSON value starting at a
// '[' or '{', tolerating leading prose or labels before the payload
func extractFirstSpan(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	start := strings.IndexAny(trimmed, "[{")
	if start == -1 {
		return "", false
	}

	decoder := json.NewDecoder(strings.NewReader(trimmed[start:]))
	decoder.UseNumber()

	var msg json.RawMessage
	if err := decoder.Decode(&msg); err != nil {
		return "", false
	}
	return strings.TrimSpace(string(msg)), true
}

// bracketSlice is the crudest recovery: slice from the first opening
// bracket to the last matching closer and hope the middle is valid
func bracketSlice(raw string) (string, bool) {
	start := strings.IndexAny(raw, "[{")
	if start == -1 {
		return "", false
	}

	closer := "]"
	if raw[start] == '{' {
		closer = "}"
	}
	end := strings.LastIndex(raw, closer)
	if end <= start {
		return "", false
	}
	return raw[start : end+1], true
}
