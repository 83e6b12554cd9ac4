// internal/notify/notifier_test.go
package notify

import (
	"errors"
	"strings"
	"testing"

	"github.com/user/weft/internal/types"
)

func TestNotificationTextConversationEnded(t *testing.T) {
	text, ok := NotificationText(&types.Turn{Kind: types.TurnConversationEnded})
	if !ok {
		t.Fatal("expected notification")
	}
	if text != "Conversation ended." {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestNotificationTextSpecialistComplete(t *testing.T) {
	turn := &types.Turn{
		Kind: types.TurnNormal,
		UserMessage: &types.Event{
			Kind:    types.KindUserMessage,
			Content: "[specialist-complete role=reviewer status=pass]\nAll changes approved.",
		},
	}
	text, ok := NotificationText(turn)
	if !ok {
		t.Fatal("expected notification")
	}
	if !strings.Contains(text, "reviewer") || !strings.Contains(text, "passed") {
		t.Errorf("unexpected text: %q", text)
	}
	if !strings.Contains(text, "All changes approved.") {
		t.Errorf("summary missing: %q", text)
	}
}

func TestNotificationTextSpecialistReply(t *testing.T) {
	turn := &types.Turn{
		Kind: types.TurnNormal,
		UserMessage: &types.Event{
			Kind:    types.KindUserMessage,
			Content: "[specialist-reply role=builder]\nDone with the cache.",
		},
	}
	text, ok := NotificationText(turn)
	if !ok {
		t.Fatal("expected notification")
	}
	if !strings.Contains(text, "builder") || !strings.Contains(text, "Done with the cache.") {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestNotificationTextSkipsOrdinaryTurns(t *testing.T) {
	turns := []*types.Turn{
		{Kind: types.TurnNormal, UserMessage: &types.Event{Content: "regular question"}},
		{Kind: types.TurnNormal},
		{Kind: types.TurnSessionBoundary},
		{Kind: types.TurnNormal, UserMessage: &types.Event{Content: "[SYSTEM] injected context"}},
	}
	for _, turn := range turns {
		if text, ok := NotificationText(turn); ok {
			t.Errorf("unexpected notification %q for turn %+v", text, turn)
		}
	}
}

func TestNotifierHandleTurns(t *testing.T) {
	registry := NewRegistry()
	var delivered []string
	registry.Register("test:", func(sessionKey, message string) error {
		delivered = append(delivered, message)
		return nil
	})

	turns := []*types.Turn{
		{Kind: types.TurnNormal, UserMessage: &types.Event{Content: "ordinary"}},
		{Kind: types.TurnConversationEnded},
	}
	notifier := NewNotifier(registry)
	if err := notifier.HandleTurns("test:abc", turns); err != nil {
		t.Fatal(err)
	}
	if len(delivered) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(delivered))
	}
	if delivered[0] != "Conversation ended." {
		t.Errorf("unexpected message: %q", delivered[0])
	}
}

func TestNotifierDeliveryErrorStops(t *testing.T) {
	registry := NewRegistry()
	registry.Register("test:", func(string, string) error {
		return errors.New("channel down")
	})

	notifier := NewNotifier(registry)
	err := notifier.HandleTurns("test:abc", []*types.Turn{{Kind: types.TurnConversationEnded}})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestRegistryNoHandler(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Deliver("unknown:1", "hi"); err == nil {
		t.Error("expected error for unmatched prefix")
	}
}
