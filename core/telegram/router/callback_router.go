package router

import (
	"log/slog"
	"time"

	tg "github.com/m3rciful/kycbot/core/telegram"
	"github.com/m3rciful/kycbot/core/telegram/callbacks"
	"github.com/m3rciful/kycbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CallbackRoute returns a single OnCallback route that dispatches through the registry.
// Handlers answer the callback themselves; the route only acknowledges unknown keys.
func CallbackRoute(reg *tg.Registry) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		if c.Callback() == nil {
			return nil
		}

		key, _ := callbacks.ParseCallbackData(c.Callback())
		name := "callback." + normalizeHandlerName(key)
		extras := []slog.Attr{slog.String("cb_key", key)}

		cbHandler, ok := reg.GetCallback(key)
		if !ok {
			extras = append(extras, slog.String("reason", "not_found"))
			cbHandler = reg.CallbackNotFound()
		}
		return handleWithSummary(c, name, start, func() error {
			if cbHandler == nil {
				return c.Respond()
			}
			return cbHandler(c)
		}, extras...)
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
