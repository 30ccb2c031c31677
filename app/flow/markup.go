package flow

import (
	"fmt"
	"strings"

	"github.com/m3rciful/kycbot/app/gate"
	"github.com/m3rciful/kycbot/app/texts"
	"github.com/m3rciful/kycbot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

func menuMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: texts.BtnActivate, Unique: CallbackActivate}},
		[]keyboard.InlineBtn{
			{Text: texts.BtnLeaderboard, Unique: CallbackLeaderboard},
			{Text: texts.BtnHowTo, Unique: CallbackHowTo},
		},
	)
}

func joinMarkup(channels []gate.Channel) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(channels)+1)
	for _, ch := range channels {
		link := ch.Link
		if link == "" {
			link = "https://t.me/" + strings.TrimPrefix(ch.Name, "@")
		}
		buttons = append(buttons, keyboard.InlineBtn{Text: fmt.Sprintf(texts.BtnJoin, ch.Name), URL: link})
	}
	buttons = append(buttons, keyboard.InlineBtn{Text: texts.BtnJoined, Unique: CallbackVerifyJoin})
	return keyboard.InlineButtons(buttons)
}

func cancelBroadcastMarkup() *tele.ReplyMarkup {
	return keyboard.SingleCancelMarkup(CallbackCancelBroadcast)
}

func contactMarkup(c Contact) *tele.ReplyMarkup {
	var buttons []keyboard.InlineBtn
	for _, b := range []keyboard.InlineBtn{
		{Text: texts.BtnAdmin, URL: c.AdminURL},
		{Text: texts.BtnNews, URL: c.NewsURL},
		{Text: texts.BtnSupport, URL: c.SupportURL},
	} {
		if b.URL != "" {
			buttons = append(buttons, b)
		}
	}
	if len(buttons) == 0 {
		return nil
	}
	return keyboard.InlineButtons(buttons)
}
