package router

import (
	"log/slog"
	"time"

	tg "github.com/m3rciful/kycbot/core/telegram"
	"github.com/m3rciful/kycbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// MessageRoutes routes text, photo and document messages, plus any extra
// endpoints. Texts naming a registered command or alias go to that command;
// everything else goes to the registry's message handler.
func MessageRoutes(reg *tg.Registry, extra ...string) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		if key, cmd, ok := reg.LookupCommand(c.Text()); ok && cmd.Handler != nil {
			return handleWithSummary(c, normalizeHandlerName(key), start, func() error {
				return cmd.Handler(c)
			})
		}

		h := reg.MessageHandler()
		if h == nil {
			logHandlerSummary(c, "message", start, "skip", nil, slog.String("reason", "no_handler"))
			return nil
		}
		return handleWithSummary(c, "message", start, func() error { return h(c) })
	}

	wrapped := middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler))
	routes := []tg.Route{
		{Endpoint: tele.OnText, Handler: wrapped},
		{Endpoint: tele.OnPhoto, Handler: wrapped},
		{Endpoint: tele.OnDocument, Handler: wrapped},
	}
	for _, ep := range extra {
		if ep == "" || ep == tele.OnText || ep == tele.OnPhoto || ep == tele.OnDocument {
			continue
		}
		routes = append(routes, tg.Route{Endpoint: ep, Handler: wrapped})
	}
	return routes
}
