package telegram

import "github.com/go-telegram/bot/models"

// Update is a Bot API update as delivered to the webhook.
type Update struct {
	models.Update
}

// EffectiveMessage returns the message or, failing that, the edited message.
func (u Update) EffectiveMessage() *models.Message {
	if u.Message != nil {
		return u.Message
	}
	return u.EditedMessage
}

// Username returns the sender's handle, or "" when Telegram did not include one.
func Username(msg *models.Message) string {
	if msg == nil || msg.From == nil {
		return ""
	}
	return msg.From.Username
}
