package bot

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/kycbot/app/admins"
	appconfig "github.com/m3rciful/kycbot/app/config"
	"github.com/m3rciful/kycbot/app/texts"
	"github.com/m3rciful/kycbot/app/transport/transporttest"
	coreconfig "github.com/m3rciful/kycbot/core/config"
	"github.com/m3rciful/kycbot/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

func testConfig() *appconfig.Config {
	return &appconfig.Config{
		Config: coreconfig.Config{
			Telegram:  coreconfig.TelegramConfig{Token: "test", AdminIDs: []int64{1}},
			RateLimit: coreconfig.RateLimitConfig{IntervalMS: 500},
		},
		Session:   appconfig.SessionConfig{Backend: appconfig.SessionMemory},
		Broadcast: appconfig.BroadcastConfig{Workers: 1},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New(context.Background(), testConfig(), nil)
	require.NoError(t, err)
	a.admins = admins.NewSet([]int64{1}, nil)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func offlineBot(t *testing.T) *tele.Bot {
	t.Helper()
	b, err := tele.NewBot(tele.Settings{Offline: true})
	require.NoError(t, err)
	return b
}

func TestTelegramRunOptionsRegistersEverything(t *testing.T) {
	a := newTestApp(t)
	opts, err := a.TelegramRunOptions()
	require.NoError(t, err)

	public := opts.Registry.ListCommands(true)
	var names []string
	for _, c := range public {
		names = append(names, c.Text)
	}
	assert.Equal(t, []string{"activatekyc", "contactus", "howtouse", "leaderboard", "start"}, names)
	assert.Len(t, opts.Registry.ListCommands(false), 9)

	assert.Equal(t, []string{"activate_kyc", "cancel_broadcast", "how_to_use", "show_leaderboard", "verify_join"},
		opts.Registry.ListCallbacks())

	endpoints := make(map[any]bool)
	for _, r := range opts.Routes {
		endpoints[r.Endpoint] = true
	}
	for _, ep := range []any{"/start", "/activate", "/stats", tele.OnCallback, tele.OnText, tele.OnSticker} {
		assert.True(t, endpoints[ep], "missing route %v", ep)
	}

	var mws []string
	for _, m := range opts.Middlewares {
		mws = append(mws, m.Name)
	}
	assert.Equal(t, []string{"recover", "rate_limit", "logger", "metrics"}, mws)
	assert.NotNil(t, opts.OnStart)
	assert.NotNil(t, opts.OnStop)
}

func TestHandlersFailBeforeBind(t *testing.T) {
	a := newTestApp(t)
	b := offlineBot(t)
	c := b.NewContext(tele.Update{Message: &tele.Message{
		Text:   "/broadcast",
		Sender: &tele.User{ID: 1},
		Chat:   &tele.Chat{ID: 1},
	}})
	assert.ErrorIs(t, a.handle(nil)(c), errNotStarted)
}

func TestEventFrom(t *testing.T) {
	b := offlineBot(t)

	msg := b.NewContext(tele.Update{Message: &tele.Message{
		Text:   "+256",
		Sender: &tele.User{ID: 5, Username: "neo", FirstName: "Thomas", LastName: "Anderson"},
		Chat:   &tele.Chat{ID: 50},
	}})
	ev := eventFrom(msg)
	assert.Equal(t, int64(5), ev.UserID)
	assert.Equal(t, int64(50), ev.ChatID)
	assert.Equal(t, "neo", ev.Username)
	assert.Equal(t, "+256", ev.Text())
	assert.Nil(t, ev.Callback)

	cb := b.NewContext(tele.Update{Callback: &tele.Callback{
		ID:      "x",
		Sender:  &tele.User{ID: 5},
		Message: &tele.Message{ID: 3, Text: "menu", Chat: &tele.Chat{ID: 50}},
	}})
	ev = eventFrom(cb)
	require.NotNil(t, ev.Callback)
	assert.Nil(t, ev.Message)
	assert.Empty(t, ev.Text())
}

func TestBoundFlowArmsBroadcast(t *testing.T) {
	a := newTestApp(t)
	fake := transporttest.NewBot()
	a.bind(fake)

	opts, err := a.TelegramRunOptions()
	require.NoError(t, err)
	_, cmd, ok := opts.Registry.LookupCommand("/broadcast")
	require.True(t, ok)

	c := offlineBot(t).NewContext(tele.Update{Message: &tele.Message{
		Text:   "/broadcast",
		Sender: &tele.User{ID: 1},
		Chat:   &tele.Chat{ID: 1},
	}})
	require.NoError(t, cmd.Handler(c))

	st, err := a.sessions.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, state.StateAwaitingBroadcast, st)
	sent := fake.SentTo(1)
	require.Len(t, sent, 1)
	assert.Equal(t, texts.BroadcastArmed, sent[0].Text())
}

func TestNewSessionsRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	mgr, closeFn, err := newSessions(ctx, appconfig.SessionConfig{
		Backend:    appconfig.SessionRedis,
		RedisURL:   "redis://" + mr.Addr() + "/0",
		TTLSeconds: 60,
	})
	require.NoError(t, err)
	defer func() { require.NoError(t, closeFn()) }()

	require.NoError(t, mgr.Set(ctx, 9, state.StateAwaitingPhone))
	assert.True(t, mr.Exists(state.DefaultKeyPrefix+"9"))
}

func TestNewSessionsRejectsBadRedis(t *testing.T) {
	_, _, err := newSessions(context.Background(), appconfig.SessionConfig{
		Backend:  appconfig.SessionRedis,
		RedisURL: "http://nope",
	})
	require.Error(t, err)

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	_, _, err = newSessions(context.Background(), appconfig.SessionConfig{
		Backend:  appconfig.SessionRedis,
		RedisURL: "redis://" + addr,
	})
	require.Error(t, err)
}
