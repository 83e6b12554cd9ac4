// internal/render/dispatch.go

// Package render is the consumer of the tool registry: it canonicalizes tool
// names, resolves their display config, and produces terminal output for
// assembled turns. Assembly itself never depends on anything here.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/user/weft/internal/assemble"
	"github.com/user/weft/internal/registry"
	"github.com/user/weft/internal/sysmsg"
	"github.com/user/weft/internal/types"
)

// RoleConfig decorates turns attributed to a given agent role. The table is
// injected by the caller; assembly and rendering are otherwise role-agnostic.
type RoleConfig struct {
	Label string
	Icon  string
}

var defaultRole = RoleConfig{Label: "Agent", Icon: "🤖"}

// Dispatcher renders assembled turns using the registry's per-tool config
// and an injected role table.
type Dispatcher struct {
	roles  map[string]RoleConfig
	styles map[string]lipgloss.Style
	banner lipgloss.Style
	dim    lipgloss.Style
}

// NewDispatcher creates a Dispatcher with the given role table. roles may be
// nil; unknown roles fall back to a generic agent label.
func NewDispatcher(roles map[string]RoleConfig) *Dispatcher {
	styles := make(map[string]lipgloss.Style)
	for name, color := range map[string]string{
		"blue":    "4",
		"green":   "2",
		"yellow":  "3",
		"magenta": "5",
		"cyan":    "6",
		"gray":    "8",
	} {
		styles[name] = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	return &Dispatcher{
		roles:  roles,
		styles: styles,
		banner: lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Role resolves the display config for an agent role.
func (d *Dispatcher) Role(role string) RoleConfig {
	if cfg, ok := d.roles[role]; ok {
		return cfg
	}
	return defaultRole
}

// OneLiner produces the display text for a tool_use event, consulting the
// registry config for the canonical tool name. result may be nil.
func (d *Dispatcher) OneLiner(ev *types.Event, result *types.Event) string {
	name := registry.Canonicalize(ev.ToolName)
	cfg := registry.Lookup(name)

	in := registry.ParseInput(name, ev.ToolInput)
	var res *registry.ParsedResult
	if result != nil {
		res = registry.ParseResult(&result.Content)
	}

	line := cfg.OneLiner(in, res)
	label := name
	if cfg.ChipLabel != "" {
		label = cfg.ChipLabel
	}
	switch {
	case cfg.ShowName && line != "":
		return label + " " + line
	case cfg.ShowName:
		return label
	default:
		return line
	}
}

// Chip renders a tool invocation as an inline chip; system-category tools
// render as a full-width banner instead.
func (d *Dispatcher) Chip(ev *types.Event, result *types.Event) string {
	name := registry.Canonicalize(ev.ToolName)
	cfg := registry.Lookup(name)
	text := d.OneLiner(ev, result)

	if cfg.Category == registry.CategorySystem {
		return d.banner.Render(fmt.Sprintf("── %s %s ──", cfg.Icon, text))
	}

	style, ok := d.styles[cfg.Color]
	if !ok {
		style = d.dim
	}
	suffix := ""
	if result != nil {
		if res := registry.ParseResult(&result.Content); res != nil && !res.Success {
			suffix = " ✗"
		}
	}
	return style.Render(fmt.Sprintf("[%s %s%s]", cfg.Icon, text, suffix))
}

// BatchChip renders a collapsed batch as one chip with a multiplier.
func (d *Dispatcher) BatchChip(batch *types.ToolBatch) string {
	name := registry.Canonicalize(batch.ToolName)
	cfg := registry.Lookup(name)
	style, ok := d.styles[cfg.Color]
	if !ok {
		style = d.dim
	}
	label := name
	if cfg.ChipLabel != "" {
		label = cfg.ChipLabel
	}
	return style.Render(fmt.Sprintf("[%s %s %s ×%d]", cfg.Icon, label, batch.TargetFile, len(batch.Items)))
}

// Turn renders one assembled turn as terminal lines.
func (d *Dispatcher) Turn(turn *types.Turn) []string {
	var lines []string

	switch turn.Kind {
	case types.TurnSessionBoundary:
		label := "session"
		if turn.BoundaryEvent != nil && turn.BoundaryEvent.BoundaryType != "" {
			label = turn.BoundaryEvent.BoundaryType
		}
		if turn.SessionMode != "" {
			label += " · " + turn.SessionMode
		}
		lines = append(lines, d.banner.Render(fmt.Sprintf("── %s ──", label)))
		if turn.UserMessage != nil {
			lines = append(lines, d.banner.Render(summarize(turn.UserMessage.Content)))
		}
		return lines

	case types.TurnConversationEnded:
		return []string{d.banner.Render("── conversation ended ──")}
	}

	if turn.UserMessage != nil {
		if rec := sysmsg.Classify(turn.UserMessage.Content); rec.Kind != sysmsg.KindNone {
			lines = append(lines, d.banner.Render(summarize(turn.UserMessage.Content)))
		} else {
			lines = append(lines, "> "+turn.UserMessage.Content)
		}
	}

	for _, item := range assemble.BatchTools(turn.ResponseEvents, turn.ToolResults) {
		if item.Batch != nil {
			lines = append(lines, d.BatchChip(item.Batch))
			continue
		}
		ev := item.Event
		switch ev.Kind {
		case types.KindText:
			lines = append(lines, ResultContent(ev.Content))
		case types.KindThinking:
			lines = append(lines, d.dim.Render(summarize(ev.Content)))
		case types.KindToolUse:
			lines = append(lines, d.Chip(ev, turn.Result(ev.ToolUseID)))
		}
	}
	return lines
}

func summarize(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return registry.Truncate(s)
}
