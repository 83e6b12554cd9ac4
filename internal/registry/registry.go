// internal/registry/registry.go
package registry

import (
	"sort"
	"strings"
)

// Category selects the presentation container for a tool: inline chip for
// regular tools, full-width banner for system-level operations.
type Category string

const (
	CategoryTool   Category = "tool"
	CategorySystem Category = "system"
)

// OneLiner produces the single-line summary shown for a tool invocation.
// result may be nil when the invocation has not completed yet.
type OneLiner func(in *ParsedInput, result *ParsedResult) string

// ToolConfig holds the static rendering rules for one canonical tool name.
type ToolConfig struct {
	Icon      string
	Color     string
	Category  Category
	OneLiner  OneLiner
	ShowName  bool
	ChipLabel string
}

// maxOneLiner bounds the display width of generated summaries.
const maxOneLiner = 40

// Canonicalize strips a prefix__server__name wrapper down to the trailing
// segment. Names without that wrapper pass through unchanged.
func Canonicalize(raw string) string {
	parts := strings.Split(raw, "__")
	if len(parts) < 3 {
		return raw
	}
	last := parts[len(parts)-1]
	if last == "" {
		return raw
	}
	return last
}

// Lookup returns the config for a canonical tool name, falling back to the
// default config for unrecognized names. It never fails.
func Lookup(name string) ToolConfig {
	if cfg, ok := tools[name]; ok {
		return cfg
	}
	return defaultConfig
}

// Known reports whether the canonical name has a dedicated config.
func Known(name string) bool {
	_, ok := tools[name]
	return ok
}

var tools = map[string]ToolConfig{
	"Read": {
		Icon: "📄", Color: "blue", Category: CategoryTool,
		OneLiner: fileOneLiner, ShowName: true,
	},
	"Write": {
		Icon: "✏️", Color: "green", Category: CategoryTool,
		OneLiner: fileOneLiner, ShowName: true,
	},
	"Edit": {
		Icon: "✏️", Color: "yellow", Category: CategoryTool,
		OneLiner: fileOneLiner, ShowName: true,
	},
	"MultiEdit": {
		Icon: "✏️", Color: "yellow", Category: CategoryTool,
		OneLiner: fileOneLiner, ShowName: true, ChipLabel: "Edit",
	},
	"NotebookEdit": {
		Icon: "📓", Color: "yellow", Category: CategoryTool,
		OneLiner: fileOneLiner, ShowName: true,
	},
	"Bash": {
		Icon: "💻", Color: "magenta", Category: CategoryTool,
		OneLiner: commandOneLiner, ShowName: true,
	},
	"Grep": {
		Icon: "🔍", Color: "cyan", Category: CategoryTool,
		OneLiner: patternOneLiner, ShowName: true,
	},
	"Glob": {
		Icon: "🔍", Color: "cyan", Category: CategoryTool,
		OneLiner: patternOneLiner, ShowName: true,
	},
	"WebFetch": {
		Icon: "🌐", Color: "blue", Category: CategoryTool,
		OneLiner: urlOneLiner, ShowName: true,
	},
	"WebSearch": {
		Icon: "🌐", Color: "blue", Category: CategoryTool,
		OneLiner: patternOneLiner, ShowName: true, ChipLabel: "Search",
	},
	"Task": {
		Icon: "🤖", Color: "magenta", Category: CategoryTool,
		OneLiner: descriptionOneLiner, ShowName: true,
	},
	"TodoWrite": {
		Icon: "☑️", Color: "gray", Category: CategorySystem,
		OneLiner: func(in *ParsedInput, _ *ParsedResult) string { return "Update todo list" },
		ShowName: false, ChipLabel: "Todos",
	},
	"AskUserQuestion": {
		Icon: "❓", Color: "yellow", Category: CategorySystem,
		OneLiner: messageOneLiner, ShowName: false, ChipLabel: "Question",
	},
}

var defaultConfig = ToolConfig{
	Icon:     "🔧",
	Color:    "gray",
	Category: CategoryTool,
	OneLiner: defaultOneLiner,
	ShowName: true,
}

func fileOneLiner(in *ParsedInput, _ *ParsedResult) string {
	if in.FileName != "" {
		return Truncate(in.FileName)
	}
	if in.FilePath != "" {
		return Truncate(in.FilePath)
	}
	return ""
}

func commandOneLiner(in *ParsedInput, _ *ParsedResult) string {
	if in.Description != "" {
		return Truncate(in.Description)
	}
	return Truncate(in.Command)
}

func patternOneLiner(in *ParsedInput, _ *ParsedResult) string {
	if in.Pattern != "" {
		return Truncate(in.Pattern)
	}
	return Truncate(in.Query)
}

func urlOneLiner(in *ParsedInput, _ *ParsedResult) string {
	if url, ok := in.Raw["url"].(string); ok {
		return Truncate(url)
	}
	return ""
}

func descriptionOneLiner(in *ParsedInput, _ *ParsedResult) string {
	return Truncate(in.Description)
}

func messageOneLiner(in *ParsedInput, _ *ParsedResult) string {
	for _, key := range []string{"question", "message", "prompt"} {
		if s, ok := in.Raw[key].(string); ok && s != "" {
			return Truncate(s)
		}
	}
	return ""
}

// defaultOneLiner inspects the raw input of an unrecognized tool in priority
// order: operation (with an id/query/name suffix), message, text, content,
// name, then the first remaining non-underscore-prefixed key.
func defaultOneLiner(in *ParsedInput, _ *ParsedResult) string {
	raw := in.Raw

	if in.Operation != "" {
		out := in.Operation
		if suffix := operationSuffix(raw); suffix != "" {
			out += " " + suffix
		}
		return Truncate(out)
	}
	for _, key := range []string{"message", "text", "content", "name"} {
		if s, ok := raw[key].(string); ok && s != "" {
			return Truncate(s)
		}
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		if strings.HasPrefix(k, "_") || k == "operation" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s, ok := raw[k].(string); ok && s != "" {
			return Truncate(s)
		}
	}
	return ""
}

// operationSuffix picks a short identifying argument to show after an
// operation verb. Ids are clipped to 8 characters.
func operationSuffix(raw map[string]any) string {
	if id, ok := raw["id"].(string); ok && id != "" {
		if len(id) > 8 {
			id = id[:8]
		}
		return id
	}
	for _, key := range []string{"query", "name"} {
		if s, ok := raw[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Truncate clips s to the display width, appending an ellipsis. Newlines are
// collapsed first so the result stays a single line.
func Truncate(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
	runes := []rune(s)
	if len(runes) <= maxOneLiner {
		return s
	}
	return string(runes[:maxOneLiner]) + "…"
}
