// internal/infra/telegram/client.go
package telegram

import (
	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the Client interface using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// SendMessage sends a plain-text message to the given chat. The chat may be
// a private conversation or a group (negative IDs), so the recipient is a
// bare chat ID rather than a user.
func (tba *TelebotAdapter) SendMessage(chatID int64, text string) error {
	_, err := tba.bot.Send(telebot.ChatID(chatID), text)
	return err
}
