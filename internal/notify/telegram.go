// internal/notify/telegram.go
package notify

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const maxTelegramMessage = 4096

// TelegramAdapter delivers notifications to Telegram chats. Session keys
// routed to it have the form "telegram:<chatID>".
type TelegramAdapter struct {
	bot *tgbotapi.BotAPI
}

// NewTelegramAdapter creates a Telegram adapter with the given bot token.
func NewTelegramAdapter(token string) (*TelegramAdapter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &TelegramAdapter{bot: bot}, nil
}

// Handler returns the delivery handler to register under the "telegram:"
// prefix.
func (a *TelegramAdapter) Handler() Handler {
	return func(sessionKey, message string) error {
		chatID, err := chatIDFromKey(sessionKey)
		if err != nil {
			return err
		}
		return a.send(chatID, message)
	}
}

func (a *TelegramAdapter) send(chatID int64, text string) error {
	for _, part := range splitMessage(text) {
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = "Markdown"
		if _, err := a.bot.Send(msg); err != nil {
			// Retry without markdown if it fails
			msg.ParseMode = ""
			if _, err := a.bot.Send(msg); err != nil {
				return fmt.Errorf("send message: %w", err)
			}
		}
	}
	return nil
}

func chatIDFromKey(sessionKey string) (int64, error) {
	parts := strings.Split(sessionKey, ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("malformed telegram session key: %s", sessionKey)
	}
	chatID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed telegram chat id: %w", err)
	}
	return chatID, nil
}

func splitMessage(text string) []string {
	if len(text) <= maxTelegramMessage {
		return []string{text}
	}
	var parts []string
	for len(text) > 0 {
		end := maxTelegramMessage
		if end > len(text) {
			end = len(text)
		}
		parts = append(parts, text[:end])
		text = text[end:]
	}
	return parts
}
