// internal/notify/notifier.go
package notify

import (
	"fmt"

	"github.com/user/weft/internal/sysmsg"
	"github.com/user/weft/internal/types"
)

// NotificationText produces the outbound message for a turn worth surfacing
// to a delivery channel: conversation endings, specialist completions and
// replies, and task notifications. Returns ok=false for everything else.
func NotificationText(turn *types.Turn) (string, bool) {
	if turn.Kind == types.TurnConversationEnded {
		return "Conversation ended.", true
	}

	msg := turn.UserMessage
	if msg == nil {
		return "", false
	}

	rec := sysmsg.Classify(msg.Content)
	switch rec.Kind {
	case sysmsg.KindSpecialistNotification:
		status := "failed"
		if rec.Passed {
			status = "passed"
		}
		text := fmt.Sprintf("Specialist %s %s", rec.Role, status)
		if rec.Summary != "" {
			text += ": " + rec.Summary
		}
		return text, true
	case sysmsg.KindSpecialistReply:
		return fmt.Sprintf("Reply from %s: %s", rec.Role, rec.Message), true
	case sysmsg.KindTaskNotification:
		text := fmt.Sprintf("Task %s %s", rec.TaskID, rec.Status)
		if rec.Summary != "" {
			text += ": " + rec.Summary
		}
		return text, true
	}
	return "", false
}

// Notifier fans notification-worthy turns out through a delivery registry.
type Notifier struct {
	registry *Registry
}

// NewNotifier creates a Notifier backed by the given registry.
func NewNotifier(registry *Registry) *Notifier {
	return &Notifier{registry: registry}
}

// HandleTurns delivers a message for each notification-worthy turn in the
// slice. Delivery failures stop the scan so the caller can retry from a
// fresh snapshot.
func (n *Notifier) HandleTurns(sessionKey types.SessionKey, turns []*types.Turn) error {
	for _, turn := range turns {
		text, ok := NotificationText(turn)
		if !ok {
			continue
		}
		if err := n.registry.Deliver(string(sessionKey), text); err != nil {
			return fmt.Errorf("deliver notification: %w", err)
		}
	}
	return nil
}
