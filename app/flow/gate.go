package flow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m3rciful/kycbot/app/texts"
	"github.com/m3rciful/kycbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// requireMember runs the gate and, on refusal, sends the join instructions.
func (c *Controller) requireMember(ctx context.Context, ev Event) error {
	d := c.Gate.Check(ctx, ev.UserID)
	if d.Allowed {
		return nil
	}
	c.reply(ctx, ev, texts.GateRequired, tele.ModeMarkdown, joinMarkup(c.Gate.Channels()))
	return fmt.Errorf("%w: %s", ErrGateDenied, d)
}

// Start handles /start: records the user, then greets members with the main menu.
func (c *Controller) Start(ctx context.Context, ev Event) error {
	if err := c.Users.Touch(ctx, ev.user()); err != nil {
		logger.Warn(ctx, "flow", "user.touch_failed",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
	}
	if err := c.requireMember(ctx, ev); err != nil {
		return err
	}
	_, err := c.send(ev, texts.Welcome, tele.ModeMarkdown, menuMarkup())
	return wrap("send welcome", err)
}

// VerifyJoin handles the "I've Joined" button.
func (c *Controller) VerifyJoin(ctx context.Context, ev Event) error {
	c.observe(ctx, ev)
	d := c.Gate.Check(ctx, ev.UserID)
	if !d.Allowed {
		c.ack(ctx, ev, &tele.CallbackResponse{Text: texts.NotJoinedAlert, ShowAlert: true})
		return fmt.Errorf("%w: %s", ErrGateDenied, d)
	}
	c.ack(ctx, ev, &tele.CallbackResponse{Text: texts.VerifiedAlert})
	logger.Info(ctx, "flow", "gate.verified", slog.String("status", "ok"))

	if ev.Callback != nil && ev.Callback.Message != nil {
		if _, err := c.Messenger.Edit(ev.Callback.Message, texts.Verified, tele.ModeMarkdown); err == nil {
			return nil
		}
	}
	_, err := c.send(ev, texts.Verified, tele.ModeMarkdown)
	return wrap("send verified", err)
}
