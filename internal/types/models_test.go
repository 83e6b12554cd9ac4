// internal/types/models_test.go
package types

import "testing"

func TestEffectiveID(t *testing.T) {
	ev := &Event{Kind: KindText, ID: "t1"}
	if got := ev.EffectiveID(7); got != "t1" {
		t.Errorf("got %q, want t1", got)
	}

	anon := &Event{Kind: KindText}
	if got := anon.EffectiveID(7); got != "evt-7" {
		t.Errorf("got %q, want evt-7", got)
	}
	if got := anon.EffectiveID(0); got != "evt-0" {
		t.Errorf("got %q, want evt-0", got)
	}
}

func TestIsResponseContent(t *testing.T) {
	cases := []struct {
		kind EventKind
		want bool
	}{
		{KindText, true},
		{KindThinking, true},
		{KindToolUse, true},
		{KindUserMessage, false},
		{KindToolResult, false},
		{KindSessionBoundary, false},
		{EventKind("future_kind"), false},
	}
	for _, tc := range cases {
		ev := &Event{Kind: tc.kind}
		if got := ev.IsResponseContent(); got != tc.want {
			t.Errorf("IsResponseContent(%s) = %v, want %v", tc.kind, got, tc.want)
		}
	}
}

func TestNewSessionKey(t *testing.T) {
	if got := NewSessionKey("telegram", "12345"); got != SessionKey("telegram:12345") {
		t.Errorf("got %q", got)
	}
	if got := NewSessionKey("file"); got != SessionKey("file") {
		t.Errorf("got %q", got)
	}
}

func TestTurnResult(t *testing.T) {
	res := &Event{Kind: KindToolResult, ToolUseID: "t1", Content: "ok"}
	turn := &Turn{
		Kind:        TurnNormal,
		ToolResults: map[string]*Event{"t1": res},
	}
	if got := turn.Result("t1"); got != res {
		t.Error("expected matching result")
	}
	if got := turn.Result("missing"); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}

	empty := &Turn{Kind: TurnNormal}
	if got := empty.Result("t1"); got != nil {
		t.Errorf("expected nil on empty map, got %+v", got)
	}
}
