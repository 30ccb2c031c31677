// Package ui declares the user-facing fallbacks the router needs from an application.
package ui

import tele "gopkg.in/telebot.v4"

// FallbackProvider exposes handlers used when a callback cannot be mapped to a
// handler, or when an update is throttled.
type FallbackProvider interface {
	UnknownCallback() tele.HandlerFunc
	RateLimited() tele.HandlerFunc
}
