package bot

import (
	"context"
	"fmt"

	"github.com/m3rciful/kycbot/app/flow"
	"github.com/m3rciful/kycbot/app/texts"
	tg "github.com/m3rciful/kycbot/core/telegram"
	"github.com/m3rciful/kycbot/core/telegram/commands"
	"github.com/m3rciful/kycbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

type operation func(*flow.Controller, context.Context, flow.Event) error

func (a *App) registerCommands(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handle((*flow.Controller).Start),
		Description: "Start the bot",
	})
	reg.RegisterCommand("/activatekyc", commands.Command{
		Handler:     a.handle((*flow.Controller).Activate),
		Description: "Activate KYC on your number",
		Aliases:     []string{"activate"},
	})
	reg.RegisterCommand("/leaderboard", commands.Command{
		Handler:     a.handle((*flow.Controller).ShowLeaderboard),
		Description: "Top activations",
	})
	reg.RegisterCommand("/howtouse", commands.Command{
		Handler:     a.handle((*flow.Controller).HowToUse),
		Description: "How to use the bot",
	})
	reg.RegisterCommand("/contactus", commands.Command{
		Handler:     a.handle((*flow.Controller).ContactUs),
		Description: "Contact support",
	})

	reg.RegisterCommand("/broadcast", commands.Command{
		Handler:     a.handle((*flow.Controller).ArmBroadcast),
		Description: "Send a message to every user",
		AdminOnly:   true,
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     a.handle((*flow.Controller).CancelBroadcast),
		Description: "Cancel a pending broadcast",
		AdminOnly:   true,
	})
	reg.RegisterCommand("/resetleaderboard", commands.Command{
		Handler:     a.handle((*flow.Controller).ResetLeaderboard),
		Description: "Clear the leaderboard",
		AdminOnly:   true,
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     a.handle((*flow.Controller).Stats),
		Description: "Bot statistics",
		AdminOnly:   true,
	})
}

func (a *App) registerCallbacks(reg *tg.Registry) error {
	for key, op := range map[string]operation{
		flow.CallbackVerifyJoin:      (*flow.Controller).VerifyJoin,
		flow.CallbackActivate:        (*flow.Controller).Activate,
		flow.CallbackLeaderboard:     (*flow.Controller).ShowLeaderboard,
		flow.CallbackHowTo:           (*flow.Controller).HowToUse,
		flow.CallbackCancelBroadcast: (*flow.Controller).CancelBroadcast,
	} {
		if err := reg.RegisterCallback(key, a.handle(op)); err != nil {
			return fmt.Errorf("bot: %w", err)
		}
	}
	return nil
}

// handle adapts a flow operation to a telebot handler.
func (a *App) handle(op operation) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctrl := a.ctrl.Load()
		if ctrl == nil {
			return errNotStarted
		}
		return op(ctrl, helpers.BuildContext(c), eventFrom(c))
	}
}

// UnknownCallback answers buttons whose key is not registered.
func (a *App) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return helpers.Alert(c, texts.UnknownCallback, false)
	}
}

// RateLimited tells a throttled user to slow down.
func (a *App) RateLimited() tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Callback() != nil {
			return helpers.Alert(c, texts.RateLimited, false)
		}
		return helpers.SendText(c, texts.RateLimited)
	}
}

func errorNotice(c tele.Context, _ error) error {
	if c.Callback() != nil {
		_ = c.Respond()
	}
	return helpers.SendText(c, texts.GenericError)
}

func eventFrom(c tele.Context) flow.Event {
	ev := flow.Event{Callback: c.Callback()}
	if ev.Callback == nil {
		ev.Message = c.Message()
	}
	if u := c.Sender(); u != nil {
		ev.UserID = u.ID
		ev.Username = u.Username
		ev.FirstName = u.FirstName
		ev.LastName = u.LastName
	}
	if ch := c.Chat(); ch != nil {
		ev.ChatID = ch.ID
	}
	return ev
}
