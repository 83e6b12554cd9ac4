// internal/registry/input.go
package registry

import (
	"path/filepath"
	"regexp"
)

// ParsedInput is the semantic shape recovered from a tool's raw key/value
// input. Extraction is opportunistic: absent fields stay zero, and the full
// raw payload is preserved for callers that need unrecognized keys.
type ParsedInput struct {
	FilePath string
	FileName string
	Dir      string

	Pattern string
	Query   string

	Command     string
	Description string

	Operation string

	Contact  string
	Priority string

	Truncated bool
	Raw       map[string]any
}

var filePathKeys = []string{"file_path", "path", "filePath", "notebook_path"}

// previewFilePattern recovers a file_path from the preview text of a
// truncated payload.
var previewFilePattern = regexp.MustCompile(`"file_path"\s*:\s*"([^"]+)"`)

// ParseInput extracts well-known fields from a tool's raw input. name is the
// canonical tool name; it is currently only consulted for alias resolution
// but kept in the signature so per-tool parsing can grow without churning
// call sites.
func ParseInput(name string, raw map[string]any) *ParsedInput {
	in := &ParsedInput{Raw: raw}
	if raw == nil {
		in.Raw = map[string]any{}
		return in
	}

	for _, key := range filePathKeys {
		if s, ok := raw[key].(string); ok && s != "" {
			in.FilePath = s
			break
		}
	}

	if s, ok := raw["pattern"].(string); ok {
		in.Pattern = s
	}
	if s, ok := raw["query"].(string); ok {
		in.Query = s
	}
	if s, ok := raw["command"].(string); ok {
		in.Command = s
	}
	if s, ok := raw["description"].(string); ok {
		in.Description = s
	}
	if s, ok := raw["operation"].(string); ok {
		in.Operation = s
	}

	for _, key := range []string{"contact", "to", "recipient"} {
		if s, ok := raw[key].(string); ok && s != "" {
			in.Contact = s
			break
		}
	}
	for _, key := range []string{"priority", "urgency"} {
		if s, ok := raw[key].(string); ok && s != "" {
			in.Priority = s
			break
		}
	}

	if _, ok := raw["_truncated"]; ok {
		in.Truncated = true
		if in.FilePath == "" {
			in.FilePath = recoverFilePath(raw)
		}
	}

	if in.FilePath != "" {
		in.FileName = filepath.Base(in.FilePath)
		in.Dir = filepath.Dir(in.FilePath)
	}
	return in
}

// recoverFilePath scans the string values of a truncated payload for an
// embedded file_path preview.
func recoverFilePath(raw map[string]any) string {
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if m := previewFilePattern.FindStringSubmatch(s); m != nil {
			return m[1]
		}
	}
	return ""
}

// TargetFile returns the batching key for a tool invocation: the base name
// of its file path input, or "" when the input names no file.
func TargetFile(name string, raw map[string]any) string {
	return ParseInput(name, raw).FileName
}
