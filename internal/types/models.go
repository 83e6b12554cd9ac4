// internal/types/models.go
package types

import (
	"strconv"
	"time"
)

// EventKind discriminates the variants of the Event tagged union.
type EventKind string

const (
	KindUserMessage       EventKind = "user_message"
	KindText              EventKind = "text"
	KindThinking          EventKind = "thinking"
	KindToolUse           EventKind = "tool_use"
	KindToolResult        EventKind = "tool_result"
	KindSessionBoundary   EventKind = "session_boundary"
	KindConversationEnded EventKind = "conversation_ended"
)

// Boundary types carried by session_boundary events.
const (
	BoundarySessionStart = "session_start"
	BoundaryModeChange   = "mode_change"
	BoundaryReset        = "reset"
	BoundaryCompact      = "compact"
)

// Event is one entry of the append-only conversation log. Events arrive in
// strictly increasing delivery order and are immutable once received. Kinds
// outside the constants above may appear in the feed and are skipped by
// consumers.
type Event struct {
	Kind      EventKind `json:"kind"`
	ID        string    `json:"id,omitempty"`
	Timestamp string    `json:"timestamp,omitempty"`

	// user_message, text, thinking, tool_result
	Content string `json:"content,omitempty"`

	// tool_use, tool_result
	ToolUseID string         `json:"tool_use_id,omitempty"`
	ToolName  string         `json:"tool_name,omitempty"`
	ToolInput map[string]any `json:"tool_input,omitempty"`

	// session_boundary
	BoundaryType string `json:"boundary_type,omitempty"`
	Mode         string `json:"mode,omitempty"`
	PrevMode     string `json:"prev_mode,omitempty"`
}

// SessionInfo is the catalog entry for one recorded conversation.
type SessionInfo struct {
	SessionID  SessionID  `json:"session_id"`
	SessionKey SessionKey `json:"session_key"`
	Agent      string     `json:"agent"`
	Preview    string     `json:"preview,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// EffectiveID returns the event's id, synthesizing a positional one when the
// feed omitted it. idx is the event's position in the delivered sequence, so
// the synthesized id is stable across recomputations of the same snapshot.
func (e *Event) EffectiveID(idx int) string {
	if e.ID != "" {
		return e.ID
	}
	return "evt-" + strconv.Itoa(idx)
}

// IsResponseContent reports whether the event belongs in a turn's response
// stream (assistant output or a tool invocation).
func (e *Event) IsResponseContent() bool {
	switch e.Kind {
	case KindText, KindThinking, KindToolUse:
		return true
	}
	return false
}
