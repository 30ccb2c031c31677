// Package flow drives the per-user conversation: the membership gate, the
// activation flow, and the admin broadcast and leaderboard operations.
package flow

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/m3rciful/kycbot/app/broadcast"
	"github.com/m3rciful/kycbot/app/gate"
	"github.com/m3rciful/kycbot/app/models"
	"github.com/m3rciful/kycbot/app/transport"
	"github.com/m3rciful/kycbot/core/logger"
	"github.com/m3rciful/kycbot/core/telegram/state"
)

// Callback keys of the inline buttons.
const (
	CallbackVerifyJoin      = "verify_join"
	CallbackActivate        = "activate_kyc"
	CallbackLeaderboard     = "show_leaderboard"
	CallbackHowTo           = "how_to_use"
	CallbackCancelBroadcast = "cancel_broadcast"
)

const defaultFrameDelay = 700 * time.Millisecond

// Users is the user store.
type Users interface {
	Ensure(ctx context.Context, u models.User) error
	Touch(ctx context.Context, u models.User) error
	AllIDs(ctx context.Context) ([]int64, error)
	Count(ctx context.Context) (int, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}

// Gatekeeper evaluates channel membership.
type Gatekeeper interface {
	Check(ctx context.Context, userID int64) gate.Decision
	Channels() []gate.Channel
}

// Admins answers admin membership.
type Admins interface {
	IsAdmin(ctx context.Context, userID int64) bool
}

// Leaderboard records and lists activations.
type Leaderboard interface {
	RecordActivation(ctx context.Context, userID int64, displayName, phone string) error
	TopN(ctx context.Context, n int) ([]models.LeaderboardEntry, error)
	Reset(ctx context.Context) error
	Count(ctx context.Context) (int, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}

// Broadcaster fans a payload out to recipients.
type Broadcaster interface {
	Run(ctx context.Context, p broadcast.Payload, recipients []int64) broadcast.Result
}

// Deps are the collaborators of the controller.
type Deps struct {
	Messenger   transport.Messenger
	Sessions    state.Manager
	Gate        Gatekeeper
	Admins      Admins
	Users       Users
	Leaderboard Leaderboard
	Broadcaster Broadcaster
}

// Contact configures the /contactus card.
type Contact struct {
	Email      string
	Hours      string
	AdminURL   string
	NewsURL    string
	SupportURL string
}

// Options tune presentation details.
type Options struct {
	// FrameDelay separates activation animation frames. Zero uses 700ms; negative disables the pause.
	FrameDelay time.Duration
	// Rand picks the confirmation template. Nil uses a randomly seeded source.
	Rand    *rand.Rand
	Contact Contact
	// Now is the clock used for daily statistics.
	Now func() time.Time
}

// Controller implements every user-facing operation of the bot.
type Controller struct {
	Deps
	frameDelay time.Duration
	contact    Contact
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration) error

	randMu sync.Mutex
	rng    *rand.Rand

	dispatch *state.Dispatcher[Event]
}

// New builds a controller.
func New(d Deps, opts Options) *Controller {
	c := &Controller{
		Deps:       d,
		frameDelay: opts.FrameDelay,
		contact:    opts.Contact,
		now:        opts.Now,
		rng:        opts.Rand,
		sleep:      sleepCtx,
	}
	if c.frameDelay == 0 {
		c.frameDelay = defaultFrameDelay
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	c.dispatch = state.NewDispatcher[Event](d.Sessions)
	c.dispatch.Register(state.StateAwaitingPhone, c.onPhone)
	c.dispatch.Register(state.StateAwaitingBroadcast, c.onBroadcastPayload)
	c.dispatch.Fallback(c.onIdleMessage)
	return c
}

// observe records the user; failures are logged and do not block the flow.
func (c *Controller) observe(ctx context.Context, ev Event) {
	if ev.UserID == 0 {
		return
	}
	if err := c.Users.Ensure(ctx, ev.user()); err != nil {
		logger.Warn(ctx, "flow", "user.ensure_failed",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
	}
}

func (c *Controller) pickResponse(n int) int {
	c.randMu.Lock()
	defer c.randMu.Unlock()
	return c.rng.IntN(n)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
