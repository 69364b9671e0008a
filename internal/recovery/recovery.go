// Package recovery parses JSON text returned by an LLM. Model output is
// frequently wrapped in markdown fences or slightly malformed (trailing
// commas, single quotes, unquoted keys); this package strips one fence pair,
// attempts a strict parse, and falls back to an automatic repair pass. If
// the repaired text still does not parse, the error is terminal.
package recovery

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// StripFences removes a single leading/trailing fenced-code-block wrapper
// (``` or ```json) when both fences are present. Anything else is returned
// unchanged.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[len(lines)-1]) != "```" {
		return s
	}
	return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
}

// ParseInto parses raw into v, repairing the text when a strict parse fails
func ParseInto(raw string, v interface{}) error {
	text := StripFences(raw)
	if text == "" {
		return fmt.Errorf("empty response content")
	}

	strictErr := json.Unmarshal([]byte(text), v)
	if strictErr == nil {
		return nil
	}

	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return fmt.Errorf("response is not valid JSON and could not be repaired: %w", strictErr)
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("repaired response still not valid JSON: %w", err)
	}
	return nil
}

// ParseObject parses raw as a JSON object and returns its top-level fields
func ParseObject(raw string) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := ParseInto(raw, &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, fmt.Errorf("response is not a JSON object")
	}
	return obj, nil
}
