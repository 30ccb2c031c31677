package middleware

import (
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m3rciful/kycbot/core/logger"
	tghelpers "github.com/m3rciful/kycbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// RateLimitOptions configures behaviour of the rate limit middleware.
type RateLimitOptions struct {
	// Interval is the minimum spacing between two updates of one user.
	Interval time.Duration
	// Exclude lists update kinds ("callback", "message") that bypass the limit.
	Exclude   map[string]struct{}
	OnLimited tele.HandlerFunc
	// IdleTTL drops limiters of users inactive for longer; defaults to 10 minutes.
	IdleTTL time.Duration
}

type userLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// userLimiters keeps one token bucket per user.
type userLimiters struct {
	mu        sync.Mutex
	every     rate.Limit
	idleTTL   time.Duration
	byUser    map[int64]*userLimiter
	lastSweep time.Time
}

func newUserLimiters(interval, idleTTL time.Duration) *userLimiters {
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	return &userLimiters{
		every:   rate.Every(interval),
		idleTTL: idleTTL,
		byUser:  make(map[int64]*userLimiter),
	}
}

func (u *userLimiters) allow(userID int64, now time.Time) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if now.Sub(u.lastSweep) > u.idleTTL {
		for id, l := range u.byUser {
			if now.Sub(l.lastSeen) > u.idleTTL {
				delete(u.byUser, id)
			}
		}
		u.lastSweep = now
	}
	l, ok := u.byUser[userID]
	if !ok {
		l = &userLimiter{lim: rate.NewLimiter(u.every, 1)}
		u.byUser[userID] = l
	}
	l.lastSeen = now
	return l.lim.AllowN(now, 1)
}

func updateKind(upd tele.Update) string {
	switch {
	case upd.Callback != nil:
		return "callback"
	case upd.Message != nil:
		return "message"
	case upd.Query != nil:
		return "inline_query"
	}
	return "other"
}

// RateLimitMiddleware drops updates arriving faster than Interval per user.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	limiters := newUserLimiters(opts.Interval, opts.IdleTTL)
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Interval <= 0 {
				return next(c)
			}
			if _, skip := opts.Exclude[updateKind(c.Update())]; skip {
				return next(c)
			}
			if limiters.allow(user.ID, time.Now()) {
				return next(c)
			}

			logger.Warn(tghelpers.BuildContext(c), "tg", "tg.rate_limit",
				slog.String("status", "rate_limited"),
				slog.Int64("user_id", user.ID),
			)
			if opts.OnLimited != nil {
				_ = opts.OnLimited(c)
			}
			return nil
		}
	}
}
