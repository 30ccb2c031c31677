// Package transporttest provides an in-memory Telegram transport for tests.
package transporttest

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	tele "gopkg.in/telebot.v4"
)

// Sent is one recorded Send or Edit call.
type Sent struct {
	To     string
	What   interface{}
	Opts   []interface{}
	Edit   bool
	Msg    *tele.Message
	Answer *tele.CallbackResponse
}

// Text returns the message text, or the caption of a photo or document.
func (s Sent) Text() string {
	switch w := s.What.(type) {
	case string:
		return w
	case *tele.Photo:
		return w.Caption
	case *tele.Document:
		return w.Caption
	}
	return fmt.Sprint(s.What)
}

// Markup returns the reply markup passed with the call, if any.
func (s Sent) Markup() *tele.ReplyMarkup {
	for _, o := range s.Opts {
		switch v := o.(type) {
		case *tele.ReplyMarkup:
			return v
		case *tele.SendOptions:
			if v.ReplyMarkup != nil {
				return v.ReplyMarkup
			}
		}
	}
	return nil
}

// ParseMode returns the parse mode passed with the call, if any.
func (s Sent) ParseMode() tele.ParseMode {
	for _, o := range s.Opts {
		switch v := o.(type) {
		case tele.ParseMode:
			return v
		case *tele.SendOptions:
			return v.ParseMode
		}
	}
	return tele.ModeDefault
}

// Bot records outgoing calls and answers membership lookups from a table.
type Bot struct {
	mu        sync.Mutex
	sent      []Sent
	answers   []*tele.CallbackResponse
	nextID    int
	members   map[string]map[int64]tele.MemberStatus
	lookupErr map[string]error

	// FailSend makes Send to the given chat ids fail.
	FailSend map[int64]error
	// PanicSend makes Send to the given chat ids panic.
	PanicSend map[int64]bool
	// FailEdit makes every Edit fail.
	FailEdit error
}

// NewBot returns an empty fake.
func NewBot() *Bot {
	return &Bot{
		members:   make(map[string]map[int64]tele.MemberStatus),
		lookupErr: make(map[string]error),
		FailSend:  make(map[int64]error),
		PanicSend: make(map[int64]bool),
	}
}

// SetMember records userID's status in channel.
func (b *Bot) SetMember(channel string, userID int64, status tele.MemberStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.members[channel] == nil {
		b.members[channel] = make(map[int64]tele.MemberStatus)
	}
	b.members[channel][userID] = status
}

// FailLookup makes lookups in channel return err.
func (b *Bot) FailLookup(channel string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lookupErr[channel] = err
}

// ChatMemberOf implements transport.MemberLookup.
func (b *Bot) ChatMemberOf(chat, user tele.Recipient) (*tele.ChatMember, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.lookupErr[chat.Recipient()]; err != nil {
		return nil, err
	}
	id, err := strconv.ParseInt(user.Recipient(), 10, 64)
	if err != nil {
		return nil, err
	}
	status, ok := b.members[chat.Recipient()][id]
	if !ok {
		return nil, errors.New("telegram: Bad Request: user not found (400)")
	}
	return &tele.ChatMember{User: &tele.User{ID: id}, Role: status}, nil
}

// Send implements transport.Messenger.
func (b *Bot) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	id, _ := strconv.ParseInt(to.Recipient(), 10, 64)
	b.mu.Lock()
	if b.PanicSend[id] {
		b.mu.Unlock()
		panic(fmt.Sprintf("send to %d", id))
	}
	if err := b.FailSend[id]; err != nil {
		b.mu.Unlock()
		return nil, err
	}
	defer b.mu.Unlock()
	b.nextID++
	msg := &tele.Message{ID: b.nextID, Chat: &tele.Chat{ID: id}}
	b.sent = append(b.sent, Sent{To: to.Recipient(), What: what, Opts: opts, Msg: msg})
	return msg, nil
}

// Edit implements transport.Messenger.
func (b *Bot) Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailEdit != nil {
		return nil, b.FailEdit
	}
	msgID, chatID := msg.MessageSig()
	b.sent = append(b.sent, Sent{To: strconv.FormatInt(chatID, 10), What: what, Opts: opts, Edit: true})
	return &tele.Message{ID: atoi(msgID), Chat: &tele.Chat{ID: chatID}}, nil
}

// Respond implements transport.Messenger.
func (b *Bot) Respond(_ *tele.Callback, resp ...*tele.CallbackResponse) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	var r *tele.CallbackResponse
	if len(resp) > 0 {
		r = resp[0]
	}
	b.answers = append(b.answers, r)
	return nil
}

// Sent returns a copy of all recorded sends and edits.
func (b *Bot) Sent() []Sent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Sent(nil), b.sent...)
}

// SentTo returns recorded sends and edits addressed to chatID.
func (b *Bot) SentTo(chatID int64) []Sent {
	want := strconv.FormatInt(chatID, 10)
	var out []Sent
	for _, s := range b.Sent() {
		if s.To == want {
			out = append(out, s)
		}
	}
	return out
}

// Answers returns recorded callback answers; nil entries are bare acknowledgements.
func (b *Bot) Answers() []*tele.CallbackResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*tele.CallbackResponse(nil), b.answers...)
}

// Reset drops recorded calls.
func (b *Bot) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = nil
	b.answers = nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
