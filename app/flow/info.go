package flow

import (
	"context"

	"github.com/m3rciful/kycbot/app/leaderboard"
	"github.com/m3rciful/kycbot/app/texts"

	tele "gopkg.in/telebot.v4"
)

// ShowLeaderboard handles /leaderboard and the leaderboard button.
func (c *Controller) ShowLeaderboard(ctx context.Context, ev Event) error {
	c.ack(ctx, ev)
	c.observe(ctx, ev)
	entries, err := c.Leaderboard.TopN(ctx, leaderboard.DefaultSize)
	if err != nil {
		return wrap("load leaderboard", err)
	}
	if len(entries) == 0 {
		_, err = c.send(ev, texts.LeaderboardEmpty, tele.ModeMarkdown)
		return wrap("send leaderboard", err)
	}
	total, err := c.Leaderboard.Count(ctx)
	if err != nil {
		return wrap("count activations", err)
	}
	_, err = c.send(ev, texts.Leaderboard(entries, total), tele.ModeMarkdownV2)
	return wrap("send leaderboard", err)
}

// HowToUse handles /howtouse and the guide button.
func (c *Controller) HowToUse(ctx context.Context, ev Event) error {
	c.ack(ctx, ev)
	c.observe(ctx, ev)
	_, err := c.send(ev, texts.HowToUse, tele.ModeMarkdown)
	return wrap("send guide", err)
}

// ContactUs handles /contactus.
func (c *Controller) ContactUs(ctx context.Context, ev Event) error {
	c.observe(ctx, ev)
	opts := []interface{}{tele.ModeMarkdown}
	if m := contactMarkup(c.contact); m != nil {
		opts = append(opts, m)
	}
	_, err := c.send(ev, texts.Contact(c.contact.Email, c.contact.Hours), opts...)
	return wrap("send contact", err)
}
