// Package transport narrows the Telegram bot API to the calls the bot makes.
package transport

import tele "gopkg.in/telebot.v4"

// Messenger sends, edits and answers callbacks. *tele.Bot implements it.
type Messenger interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
	Respond(c *tele.Callback, resp ...*tele.CallbackResponse) error
}

// MemberLookup resolves a user's membership in a chat. *tele.Bot implements it.
type MemberLookup interface {
	ChatMemberOf(chat, user tele.Recipient) (*tele.ChatMember, error)
}

// Channel addresses a public channel by its @name.
type Channel string

// Recipient implements tele.Recipient.
func (c Channel) Recipient() string {
	return string(c)
}

var (
	_ Messenger    = (*tele.Bot)(nil)
	_ MemberLookup = (*tele.Bot)(nil)
)
