package flow

import (
	"context"
	"log/slog"

	"github.com/m3rciful/kycbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

func (c *Controller) send(ev Event, what interface{}, opts ...interface{}) (*tele.Message, error) {
	return c.Messenger.Send(ev.chat(), what, opts...)
}

// reply sends a message whose delivery failure is only worth a log line.
func (c *Controller) reply(ctx context.Context, ev Event, what interface{}, opts ...interface{}) {
	if _, err := c.send(ev, what, opts...); err != nil {
		logger.Warn(ctx, "flow", "reply.failed",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
	}
}

// ack answers the callback query behind ev, if any.
func (c *Controller) ack(ctx context.Context, ev Event, resp ...*tele.CallbackResponse) {
	if ev.Callback == nil {
		return
	}
	if err := c.Messenger.Respond(ev.Callback, resp...); err != nil {
		logger.Debug(ctx, "flow", "callback.ack_failed",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
	}
}
