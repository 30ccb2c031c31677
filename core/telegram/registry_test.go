package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/kycbot/core/telegram/commands"
)

func noop(tele.Context) error { return nil }

func testRegistry() *Registry {
	reg := NewRegistry()
	reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "Start"})
	reg.RegisterCommand("/activatekyc", commands.Command{Handler: noop, Description: "Activate", Aliases: []string{"activate"}})
	reg.RegisterCommand("/broadcast", commands.Command{Handler: noop, Description: "Broadcast", AdminOnly: true})
	reg.RegisterCommand("/debug", commands.Command{Handler: noop, Description: "Debug", Hidden: true})
	return reg
}

func TestRegistryLookupCommand(t *testing.T) {
	reg := testRegistry()

	key, _, ok := reg.LookupCommand("/activate@kyc_bot now")
	require.True(t, ok)
	assert.Equal(t, "/activatekyc", key)

	key, _, ok = reg.LookupCommand("/START")
	require.True(t, ok)
	assert.Equal(t, "/start", key)

	_, _, ok = reg.LookupCommand("+15551234567")
	assert.False(t, ok)
	_, _, ok = reg.LookupCommand("/unknown")
	assert.False(t, ok)
}

func TestRegistryRejectsInvalidCommands(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("start", commands.Command{Handler: noop, Description: "x"})
	reg.RegisterCommand("/nodesc", commands.Command{Handler: noop})
	assert.Empty(t, reg.Commands())
}

func TestRegistryCallbacks(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterCallback("verify_join", noop))
	assert.Error(t, reg.RegisterCallback("verify_join", noop))
	assert.Error(t, reg.RegisterCallback("", noop))
	_, ok := reg.GetCallback("verify_join")
	assert.True(t, ok)
	assert.Equal(t, []string{"verify_join"}, reg.ListCallbacks())
}

type fakeCommandAPI struct {
	calls [][]interface{}
}

func (f *fakeCommandAPI) SetCommands(opts ...interface{}) error {
	f.calls = append(f.calls, opts)
	return nil
}

func TestInitBotCommandsScopesAdminMenu(t *testing.T) {
	reg := testRegistry()
	api := &fakeCommandAPI{}
	InitBotCommands(api, reg, []int64{77})

	require.Len(t, api.calls, 2)
	public := api.calls[0][0].([]tele.Command)
	assert.Equal(t, []string{"activatekyc", "start"}, commandTexts(public))

	admin := api.calls[1][0].([]tele.Command)
	assert.Equal(t, []string{"activatekyc", "broadcast", "start"}, commandTexts(admin))
	scope := api.calls[1][1].(tele.CommandScope)
	assert.Equal(t, int64(77), scope.ChatID)
}

func commandTexts(cmds []tele.Command) []string {
	out := make([]string, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, c.Text)
	}
	return out
}
