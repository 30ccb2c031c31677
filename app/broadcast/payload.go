package broadcast

import (
	tele "gopkg.in/telebot.v4"
)

// Kind is the type of content being broadcast.
type Kind string

// Payload kinds.
const (
	KindText     Kind = "text"
	KindPhoto    Kind = "photo"
	KindDocument Kind = "document"
)

// Payload is the content sent to every recipient. Photo and document payloads
// reuse the Telegram file id of the admin's upload.
type Payload struct {
	Kind    Kind
	Text    string
	FileID  string
	Caption string
}

// PayloadFromMessage extracts a payload from an admin message.
// It reports false for messages that carry no supported content.
func PayloadFromMessage(m *tele.Message) (Payload, bool) {
	if m == nil {
		return Payload{}, false
	}
	switch {
	case m.Photo != nil && m.Photo.FileID != "":
		return Payload{Kind: KindPhoto, FileID: m.Photo.FileID, Caption: m.Caption}, true
	case m.Document != nil && m.Document.FileID != "":
		return Payload{Kind: KindDocument, FileID: m.Document.FileID, Caption: m.Caption}, true
	case m.Text != "":
		return Payload{Kind: KindText, Text: m.Text}, true
	}
	return Payload{}, false
}

// content builds a fresh sendable per call; telebot mutates media on send.
func (p Payload) content() (interface{}, *tele.SendOptions) {
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdown}
	switch p.Kind {
	case KindPhoto:
		return &tele.Photo{File: tele.File{FileID: p.FileID}, Caption: p.Caption}, opts
	case KindDocument:
		return &tele.Document{File: tele.File{FileID: p.FileID}, Caption: p.Caption}, opts
	}
	return p.Text, opts
}
