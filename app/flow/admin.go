package flow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m3rciful/kycbot/app/broadcast"
	"github.com/m3rciful/kycbot/app/texts"
	"github.com/m3rciful/kycbot/core/logger"
	"github.com/m3rciful/kycbot/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

const armAttempts = 3

// requireAdmin re-checks admin membership on every call.
func (c *Controller) requireAdmin(ctx context.Context, ev Event) error {
	if c.Admins.IsAdmin(ctx, ev.UserID) {
		return nil
	}
	c.reply(ctx, ev, texts.AccessDenied, tele.ModeMarkdown)
	return fmt.Errorf("%w: user %d", ErrUnauthorized, ev.UserID)
}

// ArmBroadcast handles /broadcast. The next non-command message of the admin becomes the payload.
func (c *Controller) ArmBroadcast(ctx context.Context, ev Event) error {
	if err := c.requireAdmin(ctx, ev); err != nil {
		return err
	}
	for i := 0; i < armAttempts; i++ {
		cur, err := c.Sessions.Get(ctx, ev.UserID)
		if err != nil {
			return wrap("load state", err)
		}
		if cur == state.StateAwaitingBroadcast {
			break
		}
		ok, err := c.Sessions.CompareAndSet(ctx, ev.UserID, cur, state.StateAwaitingBroadcast)
		if err != nil {
			return wrap("arm broadcast", err)
		}
		if ok {
			logger.Info(ctx, "flow", "broadcast.armed",
				slog.String("status", "ok"),
				slog.String("state", string(state.StateAwaitingBroadcast)),
			)
			_, err := c.send(ev, texts.BroadcastArmed, tele.ModeMarkdown, cancelBroadcastMarkup())
			return wrap("send broadcast armed", err)
		}
	}
	_, err := c.send(ev, texts.BroadcastAlreadyArmed)
	return wrap("send broadcast already armed", err)
}

// CancelBroadcast handles /cancel and the cancel button.
func (c *Controller) CancelBroadcast(ctx context.Context, ev Event) error {
	c.ack(ctx, ev)
	if err := c.requireAdmin(ctx, ev); err != nil {
		return err
	}
	ok, err := c.Sessions.CompareAndSet(ctx, ev.UserID, state.StateAwaitingBroadcast, state.StateIdle)
	if err != nil {
		return wrap("cancel broadcast", err)
	}
	if !ok {
		_, err = c.send(ev, texts.NothingToCancel)
		return wrap("send nothing to cancel", err)
	}
	logger.Info(ctx, "flow", "broadcast.cancelled", slog.String("status", "cancelled"))
	_, err = c.send(ev, texts.BroadcastCancelled)
	return wrap("send broadcast cancelled", err)
}

// onBroadcastPayload runs after awaiting_broadcast was consumed. Admin status
// is checked again because it may have been revoked while armed.
func (c *Controller) onBroadcastPayload(ctx context.Context, ev Event) error {
	if err := c.requireAdmin(ctx, ev); err != nil {
		return err
	}
	p, ok := broadcast.PayloadFromMessage(ev.Message)
	if !ok {
		c.reply(ctx, ev, texts.BroadcastUnsupported)
		return nil
	}
	ids, err := c.Users.AllIDs(ctx)
	if err != nil {
		return wrap("load recipients", err)
	}
	c.reply(ctx, ev, fmt.Sprintf(texts.BroadcastStarted, len(ids)))

	res := c.Broadcaster.Run(ctx, p, ids)
	_, err = c.send(ev, texts.BroadcastResults(res.Success, res.Failure, res.Duration), tele.ModeMarkdown)
	return wrap("send broadcast results", err)
}

// ResetLeaderboard handles /resetleaderboard.
func (c *Controller) ResetLeaderboard(ctx context.Context, ev Event) error {
	if err := c.requireAdmin(ctx, ev); err != nil {
		return err
	}
	if err := c.Leaderboard.Reset(ctx); err != nil {
		return wrap("reset leaderboard", err)
	}
	_, err := c.send(ev, texts.LeaderboardReset, tele.ModeMarkdown)
	return wrap("send leaderboard reset", err)
}

// Stats handles /stats. "Today" starts at local midnight.
func (c *Controller) Stats(ctx context.Context, ev Event) error {
	if err := c.requireAdmin(ctx, ev); err != nil {
		return err
	}
	since := startOfDay(c.now())

	users, err := c.Users.Count(ctx)
	if err != nil {
		return wrap("count users", err)
	}
	usersToday, err := c.Users.CountSince(ctx, since)
	if err != nil {
		return wrap("count users today", err)
	}
	activations, err := c.Leaderboard.Count(ctx)
	if err != nil {
		return wrap("count activations", err)
	}
	activationsToday, err := c.Leaderboard.CountSince(ctx, since)
	if err != nil {
		return wrap("count activations today", err)
	}
	_, err = c.send(ev, texts.Stats(users, usersToday, activations, activationsToday), tele.ModeMarkdown)
	return wrap("send stats", err)
}
