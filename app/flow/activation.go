package flow

import (
	"context"
	"log/slog"

	"github.com/m3rciful/kycbot/app/texts"
	"github.com/m3rciful/kycbot/core/logger"
	"github.com/m3rciful/kycbot/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

// Activate handles /activatekyc and the activate button. Members are moved
// to awaiting_phone, replacing whatever state they were in.
func (c *Controller) Activate(ctx context.Context, ev Event) error {
	c.ack(ctx, ev)
	c.observe(ctx, ev)
	if err := c.requireMember(ctx, ev); err != nil {
		return err
	}
	if err := c.Sessions.Set(ctx, ev.UserID, state.StateAwaitingPhone); err != nil {
		return wrap("arm activation", err)
	}
	logger.Info(ctx, "flow", "activation.armed",
		slog.String("status", "ok"),
		slog.String("state", string(state.StateAwaitingPhone)),
	)
	_, err := c.send(ev, texts.ActivationPrompt, tele.ModeMarkdown)
	return wrap("send activation prompt", err)
}

// HandleMessage routes a non-command message through the user's state.
// Commands never reach the state machine.
func (c *Controller) HandleMessage(ctx context.Context, ev Event) error {
	c.observe(ctx, ev)
	if ev.IsCommand() {
		c.reply(ctx, ev, texts.UnknownMessage)
		return nil
	}
	_, err := c.dispatch.Dispatch(ctx, ev.UserID, ev)
	return err
}

func (c *Controller) onIdleMessage(ctx context.Context, ev Event) error {
	c.reply(ctx, ev, texts.UnknownMessage)
	return nil
}

// onPhone runs after awaiting_phone was consumed, so each submission is handled once.
func (c *Controller) onPhone(ctx context.Context, ev Event) error {
	phone := ev.Text()
	if phone == "" {
		if _, err := c.Sessions.CompareAndSet(ctx, ev.UserID, state.StateIdle, state.StateAwaitingPhone); err != nil {
			return wrap("rearm activation", err)
		}
		c.reply(ctx, ev, texts.ActivationTextOnly)
		return nil
	}

	u := ev.user()
	if err := c.Leaderboard.RecordActivation(ctx, ev.UserID, u.DisplayName(), phone); err != nil {
		return wrap("record activation", err)
	}
	logger.Info(ctx, "flow", "phone.accepted", slog.String("status", "ok"))
	return c.animate(ctx, ev, phone)
}

func (c *Controller) animate(ctx context.Context, ev Event, phone string) error {
	msg, err := c.send(ev, texts.ActivationStarting, tele.ModeMarkdown)
	if err != nil {
		return wrap("send activation start", err)
	}
	for _, frame := range texts.Frames() {
		if err := c.sleep(ctx, c.frameDelay); err != nil {
			break
		}
		if _, err := c.Messenger.Edit(msg, frame); err != nil {
			logger.Debug(ctx, "flow", "activation.frame_failed",
				slog.String("status", "fail"),
				slog.String("err", err.Error()),
			)
		}
	}

	final := texts.KYCResponse(texts.KYCResponses[c.pickResponse(len(texts.KYCResponses))], phone)
	if _, err := c.Messenger.Edit(msg, final, tele.ModeMarkdown); err == nil {
		return nil
	}
	_, err = c.send(ev, final, tele.ModeMarkdown)
	return wrap("send activation result", err)
}
