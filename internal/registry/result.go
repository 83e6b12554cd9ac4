// internal/registry/result.go
package registry

import (
	"encoding/json"
	"strings"
)

// ParsedResult is the semantic shape of a tool's raw result string.
type ParsedResult struct {
	Success bool
	Error   string
	Content string
}

// Plain-text failure markers, checked only when the result is not valid
// JSON. Keeping the heuristics behind the decode step avoids misclassifying
// a successful JSON result that merely mentions the word "error" somewhere
// in its content.
var failurePrefixes = []string{"error:", "failed:"}

var stackMarkers = []string{
	"Traceback (most recent call last)",
	"panic:",
	"Exception in thread",
	"\tat ", // Java/JS stack frame
}

// ParseResult attempts a structured decode of a raw tool result, falling
// back to plain-text heuristics. A nil return means there was no result to
// parse. It never fails: malformed input degrades to an opaque success.
func ParseResult(raw *string) *ParsedResult {
	if raw == nil {
		return nil
	}
	s := *raw

	var decoded map[string]any
	if err := json.Unmarshal([]byte(s), &decoded); err == nil && decoded != nil {
		res := &ParsedResult{Success: true, Content: s}
		if v, ok := decoded["success"].(bool); ok {
			res.Success = v
		}
		if v, ok := decoded["error"].(string); ok && v != "" {
			res.Error = v
			if _, explicit := decoded["success"]; !explicit {
				res.Success = false
			}
		}
		if v, ok := decoded["content"].(string); ok {
			res.Content = v
		} else if v, ok := decoded["message"].(string); ok {
			res.Content = v
		}
		return res
	}

	lower := strings.ToLower(strings.TrimSpace(s))
	for _, prefix := range failurePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return &ParsedResult{Success: false, Error: s, Content: s}
		}
	}
	for _, marker := range stackMarkers {
		if strings.Contains(s, marker) {
			return &ParsedResult{Success: false, Error: s, Content: s}
		}
	}
	return &ParsedResult{Success: true, Content: s}
}
