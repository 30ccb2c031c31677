package flow

import (
	"strings"

	"github.com/m3rciful/kycbot/app/models"

	tele "gopkg.in/telebot.v4"
)

// Event is one inbound interaction, detached from the telebot context.
type Event struct {
	UserID    int64
	ChatID    int64
	Username  string
	FirstName string
	LastName  string
	// Message is the inbound message, nil for callbacks.
	Message *tele.Message
	// Callback is the pressed button, nil for messages.
	Callback *tele.Callback
}

// Text returns the message text, empty for callbacks and media.
func (e Event) Text() string {
	if e.Message == nil {
		return ""
	}
	return e.Message.Text
}

// IsCommand reports whether the message text is a slash command.
func (e Event) IsCommand() bool {
	return strings.HasPrefix(strings.TrimSpace(e.Text()), "/")
}

func (e Event) user() models.User {
	return models.User{
		UserID:    e.UserID,
		Username:  e.Username,
		FirstName: e.FirstName,
		LastName:  e.LastName,
	}
}

func (e Event) chat() tele.Recipient {
	if e.ChatID != 0 {
		return tele.ChatID(e.ChatID)
	}
	return tele.ChatID(e.UserID)
}
