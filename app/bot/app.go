// Package bot assembles the KYC bot: storage, session state, the conversation
// flow and the Telegram routes.
package bot

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/kycbot/app/admins"
	"github.com/m3rciful/kycbot/app/broadcast"
	appconfig "github.com/m3rciful/kycbot/app/config"
	"github.com/m3rciful/kycbot/app/flow"
	"github.com/m3rciful/kycbot/app/gate"
	"github.com/m3rciful/kycbot/app/leaderboard"
	"github.com/m3rciful/kycbot/app/repository"
	"github.com/m3rciful/kycbot/app/transport"
	"github.com/m3rciful/kycbot/core/bootstrap"
	"github.com/m3rciful/kycbot/core/logger"
	tg "github.com/m3rciful/kycbot/core/telegram"
	"github.com/m3rciful/kycbot/core/telegram/router"
	"github.com/m3rciful/kycbot/core/telegram/state"
	"github.com/m3rciful/kycbot/core/telegram/ui"

	tele "gopkg.in/telebot.v4"
)

var errNotStarted = errors.New("bot: flow is not bound to a running bot")

// extraMessageEndpoints reach the flow so unsupported payloads get an answer.
var extraMessageEndpoints = []string{
	tele.OnSticker,
	tele.OnVideo,
	tele.OnAnimation,
	tele.OnAudio,
	tele.OnVoice,
	tele.OnVideoNote,
	tele.OnContact,
	tele.OnLocation,
}

// App holds the long-lived services. The flow controller is bound in OnStart,
// once the bot API client exists.
type App struct {
	cfg *appconfig.Config
	db  *sqlx.DB

	sessions      state.Manager
	closeSessions func() error
	users         flow.Users
	admins        *admins.Set
	board         *leaderboard.Service

	ctrl atomic.Pointer[flow.Controller]

	closeOnce sync.Once
	closeErr  error
}

var _ ui.FallbackProvider = (*App)(nil)

// Provider builds the App from the bootstrapped database.
func Provider(cfg *appconfig.Config) bootstrap.Provider[*App] {
	return bootstrap.ProviderFunc[*App](func(ctx context.Context, db *sqlx.DB) (*App, error) {
		return New(ctx, cfg, db)
	})
}

// New wires repositories over db and opens the session store. The App owns db
// from here on and closes it in Close.
func New(ctx context.Context, cfg *appconfig.Config, db *sqlx.DB) (*App, error) {
	if cfg == nil {
		return nil, errors.New("bot: nil config")
	}
	sessions, closeSessions, err := newSessions(ctx, cfg.Session)
	if err != nil {
		return nil, err
	}
	return &App{
		cfg:           cfg,
		db:            db,
		sessions:      sessions,
		closeSessions: closeSessions,
		users:         repository.NewUserRepository(db),
		admins:        admins.NewSet(cfg.Telegram.AdminIDs, repository.NewAdminRepository(db)),
		board:         leaderboard.NewService(repository.NewLeaderboardRepository(db)),
	}, nil
}

// Close releases the session store and the database pool.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	a.closeOnce.Do(func() {
		var errs []error
		if a.closeSessions != nil {
			errs = append(errs, a.closeSessions())
		}
		if a.db != nil {
			errs = append(errs, a.db.Close())
		}
		a.closeErr = errors.Join(errs...)
	})
	return a.closeErr
}

// TelegramRunOptions registers commands and callbacks and returns the runtime options.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	reg := tg.NewRegistry()
	a.registerCommands(reg)
	if err := a.registerCallbacks(reg); err != nil {
		return tg.RunOptions{}, err
	}
	reg.SetCallbackNotFound(a.UnknownCallback())
	reg.SetMessageHandler(a.handle((*flow.Controller).HandleMessage))
	reg.SetErrorNotice(errorNotice)

	routes := router.CommandRoutes(reg)
	routes = append(routes, router.CallbackRoute(reg))
	routes = append(routes, router.MessageRoutes(reg, extraMessageEndpoints...)...)

	core := a.cfg.CoreConfig()
	return tg.RunOptions{
		Config:      core,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(core, a.RateLimited()),
		Routes:      routes,
		OnStart:     a.onStart,
		OnStop:      a.onStop,
	}, nil
}

func (a *App) onStart(ctx context.Context, rt tg.Runtime) error {
	if rt.Bot == nil {
		return errors.New("bot: runtime without bot client")
	}
	a.bind(rt.Bot)
	logger.LogEvent(ctx, logger.TWire, slog.LevelInfo, "flow.bound",
		slog.String("status", "ok"),
		slog.Int("channels", len(a.cfg.Gate.Channels)),
		slog.Int("workers", a.cfg.Broadcast.Workers),
	)
	return nil
}

func (a *App) onStop(ctx context.Context, _ tg.Runtime) error {
	if err := a.Close(); err != nil {
		logger.Warn(ctx, "app", "app.close_failed",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
	}
	return nil
}

// botAPI is the Telegram client surface the flow needs. *tele.Bot implements it.
type botAPI interface {
	transport.Messenger
	transport.MemberLookup
}

// bind builds the controller over the given Telegram client.
func (a *App) bind(api botAPI) {
	cfg := a.cfg
	ctrl := flow.New(flow.Deps{
		Messenger:   api,
		Sessions:    a.sessions,
		Gate:        gate.New(api, gate.FromConfig(cfg.Gate.Channels, cfg.Gate.Links)),
		Admins:      a.admins,
		Users:       a.users,
		Leaderboard: a.board,
		Broadcaster: broadcast.NewEngine(api, broadcast.Options{
			Delay:   cfg.Broadcast.Delay(),
			Workers: cfg.Broadcast.Workers,
		}),
	}, flow.Options{
		FrameDelay: cfg.Activation.FrameDelay(),
		Contact: flow.Contact{
			Email:      cfg.Contact.Email,
			Hours:      cfg.Contact.Hours,
			AdminURL:   cfg.Contact.AdminURL,
			NewsURL:    cfg.Contact.NewsURL,
			SupportURL: cfg.Contact.SupportURL,
		},
	})
	a.ctrl.Store(ctrl)
}
