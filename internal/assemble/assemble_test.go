// internal/assemble/assemble_test.go
package assemble

import (
	"reflect"
	"testing"

	"github.com/user/weft/internal/types"
)

func user(id, content string) *types.Event {
	return &types.Event{Kind: types.KindUserMessage, ID: id, Content: content}
}

func text(id, content string) *types.Event {
	return &types.Event{Kind: types.KindText, ID: id, Content: content}
}

func toolUse(id, name string, input map[string]any) *types.Event {
	return &types.Event{Kind: types.KindToolUse, ID: id, ToolUseID: id, ToolName: name, ToolInput: input}
}

func toolResult(toolUseID, content string) *types.Event {
	return &types.Event{Kind: types.KindToolResult, ToolUseID: toolUseID, Content: content}
}

func boundary(boundaryType, mode string) *types.Event {
	return &types.Event{Kind: types.KindSessionBoundary, BoundaryType: boundaryType, Mode: mode}
}

func TestAssembleSimpleTurn(t *testing.T) {
	turns := Assemble([]*types.Event{
		user("u1", "hi"),
		text("t1", "hello!"),
	})

	if len(turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(turns))
	}
	turn := turns[0]
	if turn.Kind != types.TurnNormal {
		t.Errorf("expected normal turn, got %s", turn.Kind)
	}
	if turn.UserMessage == nil || turn.UserMessage.Content != "hi" {
		t.Errorf("unexpected user message: %+v", turn.UserMessage)
	}
	if len(turn.ResponseEvents) != 1 || turn.ResponseEvents[0].Content != "hello!" {
		t.Errorf("unexpected response events: %+v", turn.ResponseEvents)
	}
}

func TestAssembleSecondUserMessageStartsNewTurn(t *testing.T) {
	turns := Assemble([]*types.Event{
		user("u1", "first"),
		text("t1", "reply"),
		user("u2", "second"),
	})

	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[1].UserMessage.Content != "second" {
		t.Errorf("expected second turn to start with new message, got %+v", turns[1].UserMessage)
	}
}

func TestAssembleBoundaryAbsorption(t *testing.T) {
	turns := Assemble([]*types.Event{
		boundary(types.BoundarySessionStart, "work"),
		user("s1", "[SYSTEM] role injection"),
		user("s2", "[SYSTEM] another injection"),
		user("u1", "what's the weather"),
	})

	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}

	bturn := turns[0]
	if bturn.Kind != types.TurnSessionBoundary {
		t.Fatalf("expected boundary turn, got %s", bturn.Kind)
	}
	if bturn.UserMessage == nil || bturn.UserMessage.ID != "s1" {
		t.Errorf("expected first injection absorbed, got %+v", bturn.UserMessage)
	}

	// The second injection is dropped entirely.
	normal := turns[1]
	if normal.UserMessage == nil || normal.UserMessage.Content != "what's the weather" {
		t.Errorf("unexpected normal turn message: %+v", normal.UserMessage)
	}
	if normal.SessionMode != "work" {
		t.Errorf("expected mode propagated, got %q", normal.SessionMode)
	}
}

func TestAssembleSynthesizesLeadingBoundary(t *testing.T) {
	turns := Assemble([]*types.Event{
		user("s1", "[SYSTEM] bootstrap"),
		user("s2", "[SYSTEM] more bootstrap"),
		user("u1", "hello"),
	})

	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	bturn := turns[0]
	if bturn.Kind != types.TurnSessionBoundary {
		t.Fatalf("expected synthesized boundary, got %s", bturn.Kind)
	}
	if bturn.BoundaryEvent == nil || bturn.BoundaryEvent.BoundaryType != types.BoundarySessionStart {
		t.Errorf("expected session_start boundary event, got %+v", bturn.BoundaryEvent)
	}
	if bturn.UserMessage == nil || bturn.UserMessage.ID != "s1" {
		t.Errorf("expected first injection attached, got %+v", bturn.UserMessage)
	}
}

func TestAssembleAbsorptionWindowTermination(t *testing.T) {
	// Real content between the boundary and a later injection must end the
	// absorption window: the injection becomes its own turn.
	turns := Assemble([]*types.Event{
		boundary(types.BoundarySessionStart, ""),
		text("t1", "working on it"),
		user("s1", "[SYSTEM] late injection"),
	})

	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	if turns[0].UserMessage != nil {
		t.Errorf("expected boundary to stay empty, got %+v", turns[0].UserMessage)
	}
	if turns[2].UserMessage == nil || turns[2].UserMessage.ID != "s1" {
		t.Errorf("expected injection to head its own turn, got %+v", turns[2].UserMessage)
	}
}

func TestAssembleOrphanToolResult(t *testing.T) {
	turns := Assemble([]*types.Event{
		toolResult("a", "done"),
	})

	if len(turns) != 1 {
		t.Fatalf("expected 1 synthesized turn, got %d", len(turns))
	}
	turn := turns[0]
	if turn.UserMessage != nil {
		t.Errorf("expected no user message, got %+v", turn.UserMessage)
	}
	if turn.ToolResults["a"] == nil || turn.ToolResults["a"].Content != "done" {
		t.Errorf("expected result keyed under %q, got %+v", "a", turn.ToolResults)
	}
}

func TestAssembleToolResultWithoutIDStillCreatesTurn(t *testing.T) {
	turns := Assemble([]*types.Event{
		toolResult("", "inert"),
	})

	if len(turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(turns))
	}
	if len(turns[0].ToolResults) != 0 {
		t.Errorf("expected no attached results, got %+v", turns[0].ToolResults)
	}
}

func TestAssembleToolUseAndResultCorrelation(t *testing.T) {
	turns := Assemble([]*types.Event{
		user("u1", "go"),
		toolUse("tu1", "Read", map[string]any{"file_path": "/tmp/x.go"}),
		toolResult("tu1", "contents"),
	})

	if len(turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(turns))
	}
	turn := turns[0]
	if len(turn.ResponseEvents) != 1 {
		t.Fatalf("expected 1 response event, got %d", len(turn.ResponseEvents))
	}
	if res := turn.Result("tu1"); res == nil || res.Content != "contents" {
		t.Errorf("expected correlated result, got %+v", res)
	}
}

func TestAssembleBoundaryClosesOpenTurn(t *testing.T) {
	turns := Assemble([]*types.Event{
		user("u1", "hi"),
		boundary(types.BoundaryModeChange, "plan"),
		user("u2", "next"),
	})

	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	if turns[1].Kind != types.TurnSessionBoundary {
		t.Errorf("expected boundary turn in the middle, got %s", turns[1].Kind)
	}
	if turns[2].SessionMode != "plan" {
		t.Errorf("expected new mode on following turn, got %q", turns[2].SessionMode)
	}
}

func TestAssembleConversationEnded(t *testing.T) {
	turns := Assemble([]*types.Event{
		user("u1", "bye"),
		{Kind: types.KindConversationEnded},
	})

	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[1].Kind != types.TurnConversationEnded {
		t.Errorf("expected conversation_ended turn, got %s", turns[1].Kind)
	}
}

func TestAssembleSkipsUnknownKinds(t *testing.T) {
	turns := Assemble([]*types.Event{
		user("u1", "hi"),
		{Kind: "usage_report", Content: "ignored"},
		text("t1", "hello"),
	})

	if len(turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(turns))
	}
	if len(turns[0].ResponseEvents) != 1 {
		t.Errorf("expected unknown kind skipped, got %+v", turns[0].ResponseEvents)
	}
}

func TestAssembleNoEventLoss(t *testing.T) {
	events := []*types.Event{
		boundary(types.BoundarySessionStart, "work"),
		user("s1", "[SYSTEM] bootstrap"),
		user("u1", "start"),
		text("t1", "thinking out loud"),
		toolUse("tu1", "Bash", map[string]any{"command": "ls"}),
		toolResult("tu1", "ok"),
		user("u2", "again"),
		text("t2", "sure"),
	}
	turns := Assemble(events)

	got := 0
	for _, turn := range turns {
		got += len(turn.ResponseEvents) + len(turn.ToolResults)
		if turn.UserMessage != nil {
			got++
		}
	}
	// Every event lands exactly once; only the boundary marker itself is
	// not counted as content.
	want := len(events) - 1
	if got != want {
		t.Errorf("expected %d placed events, got %d", want, got)
	}
}

func TestAssembleIdempotent(t *testing.T) {
	events := []*types.Event{
		user("s1", "[SYSTEM] bootstrap"),
		toolResult("a", "orphan"),
		text("", "no id"),
		user("u1", "question"),
		text("t1", "answer"),
	}

	first := Assemble(events)
	second := Assemble(events)
	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical output for identical snapshots")
	}
}

func TestAssembleOrderPreserved(t *testing.T) {
	events := []*types.Event{
		user("u1", "one"),
		text("t1", "a"),
		text("t2", "b"),
		user("u2", "two"),
		toolUse("tu1", "Read", nil),
		text("t3", "c"),
	}
	turns := Assemble(events)

	var flat []string
	for _, turn := range turns {
		if turn.UserMessage != nil {
			flat = append(flat, turn.UserMessage.ID)
		}
		for _, ev := range turn.ResponseEvents {
			flat = append(flat, ev.ID)
		}
	}

	want := []string{"u1", "t1", "t2", "u2", "tu1", "t3"}
	if !reflect.DeepEqual(flat, want) {
		t.Errorf("order not preserved: got %v, want %v", flat, want)
	}
}
