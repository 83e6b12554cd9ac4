// internal/types/turn.go
package types

// TurnKind discriminates normal conversation turns from lifecycle markers.
type TurnKind string

const (
	TurnNormal            TurnKind = "normal"
	TurnSessionBoundary   TurnKind = "session_boundary"
	TurnConversationEnded TurnKind = "conversation_ended"
)

// Turn is one rendering unit: an optional leading message plus the response
// content that followed it and the results of any tools it invoked. Turns are
// rebuilt wholesale from the event snapshot on every recomputation.
type Turn struct {
	ID   string   `json:"id"`
	Kind TurnKind `json:"kind"`

	UserMessage    *Event            `json:"user_message,omitempty"`
	ResponseEvents []*Event          `json:"response_events,omitempty"`
	ToolResults    map[string]*Event `json:"tool_results,omitempty"`

	// Set when Kind != TurnNormal.
	BoundaryEvent *Event `json:"boundary_event,omitempty"`

	// Mode active when the turn was opened, propagated from the most
	// recent session boundary.
	SessionMode string `json:"session_mode,omitempty"`
}

// Result returns the tool result attached for the given tool-use id, if any.
func (t *Turn) Result(toolUseID string) *Event {
	if toolUseID == "" || t.ToolResults == nil {
		return nil
	}
	return t.ToolResults[toolUseID]
}

// BatchItem pairs a tool_use event with its correlated result, when one has
// arrived.
type BatchItem struct {
	Event  *Event `json:"event"`
	Result *Event `json:"result,omitempty"`
}

// ToolBatch is a display aggregation of consecutive same-tool invocations
// against the same target file. Every member shares an identical tool name
// and an identical non-empty target file.
type ToolBatch struct {
	ID         string      `json:"id"`
	ToolName   string      `json:"tool_name"`
	TargetFile string      `json:"target_file"`
	Items      []BatchItem `json:"items"`
}
