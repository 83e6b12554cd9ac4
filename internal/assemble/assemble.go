// internal/assemble/assemble.go

// Package assemble turns the flat conversation event log into ordered,
// renderable turns. Assembly is a pure function of the event snapshot: it is
// recomputed wholesale on every change, holds no state between calls, and
// has no fatal error path under malformed input.
package assemble

import (
	"fmt"

	"github.com/user/weft/internal/sysmsg"
	"github.com/user/weft/internal/types"
)

// assembler carries the single-pass state machine locals. One instance
// serves one Assemble call.
type assembler struct {
	turns []*types.Turn

	current      *types.Turn // open normal turn, or nil
	lastBoundary *types.Turn // absorption window target, or nil
	seenContent  bool        // true once any non-system content is observed
	mode         string      // mode from the most recent boundary
	idx          int         // index of the event being processed
}

// Assemble consumes the full ordered event list and produces the ordered
// turn list. Synthesized turn ids derive from event positions, so repeated
// runs over the same snapshot yield structurally identical output.
func Assemble(events []*types.Event) []*types.Turn {
	a := &assembler{}
	for i, ev := range events {
		if ev == nil {
			continue
		}
		a.idx = i
		a.step(ev)
	}
	a.closeCurrent()
	return a.turns
}

// step applies one event to the state machine.
func (a *assembler) step(ev *types.Event) {
	switch ev.Kind {
	case types.KindConversationEnded:
		a.closeCurrent()
		a.push(&types.Turn{
			ID:            fmt.Sprintf("end-%d", a.idx),
			Kind:          types.TurnConversationEnded,
			BoundaryEvent: ev,
			SessionMode:   a.mode,
		})
		a.lastBoundary = nil

	case types.KindSessionBoundary:
		a.closeCurrent()
		if ev.Mode != "" {
			a.mode = ev.Mode
		}
		t := &types.Turn{
			ID:            fmt.Sprintf("boundary-%d", a.idx),
			Kind:          types.TurnSessionBoundary,
			BoundaryEvent: ev,
			SessionMode:   a.mode,
		}
		a.push(t)
		a.lastBoundary = t

	case types.KindUserMessage:
		a.stepUserMessage(ev)

	case types.KindToolResult:
		a.lastBoundary = nil
		a.seenContent = true
		a.ensureCurrent()
		if ev.ToolUseID != "" {
			a.current.ToolResults[ev.ToolUseID] = ev
		}

	case types.KindText, types.KindThinking, types.KindToolUse:
		a.lastBoundary = nil
		a.seenContent = true
		a.ensureCurrent()
		a.current.ResponseEvents = append(a.current.ResponseEvents, ev)

	default:
		// Unknown kinds pass through the feed; skip without mutating state.
	}
}

func (a *assembler) stepUserMessage(ev *types.Event) {
	if !sysmsg.IsSystem(ev.Content) {
		a.lastBoundary = nil
		a.seenContent = true
		a.closeCurrent()
		a.current = a.newTurn(ev)
		return
	}

	// System injection inside an absorption window: the first one becomes
	// the boundary's own message, the rest are session-bootstrap plumbing
	// and are dropped. The window stays open for further injections.
	if a.lastBoundary != nil {
		if a.lastBoundary.UserMessage == nil {
			a.lastBoundary.UserMessage = ev
		}
		return
	}

	// A system injection leading the whole feed implies a session start the
	// runtime never emitted; synthesize the boundary to absorb into.
	if !a.seenContent && a.current == nil && len(a.turns) == 0 {
		t := &types.Turn{
			ID:   fmt.Sprintf("boundary-%d", a.idx),
			Kind: types.TurnSessionBoundary,
			BoundaryEvent: &types.Event{
				Kind:         types.KindSessionBoundary,
				ID:           fmt.Sprintf("synth-boundary-%d", a.idx),
				BoundaryType: types.BoundarySessionStart,
			},
			UserMessage: ev,
			SessionMode: a.mode,
		}
		a.push(t)
		a.lastBoundary = t
		return
	}

	// Outside an absorption window a system message is still content and
	// heads a turn like any other message. How it renders (pill vs bubble)
	// is not assembly's concern.
	a.seenContent = true
	a.closeCurrent()
	a.current = a.newTurn(ev)
}

// ensureCurrent synthesizes an anonymous turn for orphan content so that no
// event is ever dropped.
func (a *assembler) ensureCurrent() {
	if a.current == nil {
		a.current = a.newTurn(nil)
	}
}

func (a *assembler) newTurn(userMessage *types.Event) *types.Turn {
	return &types.Turn{
		ID:          fmt.Sprintf("turn-%d", a.idx),
		Kind:        types.TurnNormal,
		UserMessage: userMessage,
		ToolResults: make(map[string]*types.Event),
		SessionMode: a.mode,
	}
}

func (a *assembler) closeCurrent() {
	if a.current != nil {
		a.push(a.current)
		a.current = nil
	}
}

func (a *assembler) push(t *types.Turn) {
	a.turns = append(a.turns, t)
}
