// Package broadcast fans one payload out to every recipient at a bounded rate.
package broadcast

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/m3rciful/kycbot/core/logger"
	"github.com/m3rciful/kycbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// Sender delivers one message. *tele.Bot implements it.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Options configure the engine.
type Options struct {
	// Delay is the minimum spacing between two delivery attempts. Zero disables pacing.
	Delay time.Duration
	// Workers is the number of concurrent senders. One keeps the recipient order.
	Workers int
}

// Result tallies one run. Success+Failure always equals the number of recipients.
type Result struct {
	RunID    string
	Success  int
	Failure  int
	Duration time.Duration
}

// Total returns the number of attempted recipients.
func (r Result) Total() int {
	return r.Success + r.Failure
}

// Engine runs broadcasts.
type Engine struct {
	sender  Sender
	delay   time.Duration
	workers int
}

// NewEngine creates an engine over sender.
func NewEngine(s Sender, opts Options) *Engine {
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Engine{sender: s, delay: opts.Delay, workers: workers}
}

// Run attempts p once per recipient and never returns early. Cancelling ctx
// does not stop a run that has started.
func (e *Engine) Run(ctx context.Context, p Payload, recipients []int64) Result {
	ctx = context.WithoutCancel(ctx)
	runID := uuid.NewString()
	start := time.Now()

	logger.Info(ctx, "broadcast", "broadcast.start",
		slog.String("run_id", runID),
		slog.String("payload", string(p.Kind)),
		slog.Int("recipients", len(recipients)),
		slog.Int("workers", e.workers),
		slog.Duration("delay", e.delay),
	)

	limit := rate.Inf
	if e.delay > 0 {
		limit = rate.Every(e.delay)
	}
	limiter := rate.NewLimiter(limit, 1)

	var success, failure atomic.Int64
	queue := make(chan int64)

	var g errgroup.Group
	g.Go(func() error {
		defer close(queue)
		for _, id := range recipients {
			queue <- id
		}
		return nil
	})
	for i := 0; i < e.workers; i++ {
		g.Go(func() error {
			for id := range queue {
				_ = limiter.Wait(ctx)
				if e.deliver(ctx, runID, p, id) {
					success.Add(1)
				} else {
					failure.Add(1)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	res := Result{
		RunID:    runID,
		Success:  int(success.Load()),
		Failure:  int(failure.Load()),
		Duration: time.Since(start),
	}
	logger.Info(ctx, "broadcast", "broadcast.done",
		slog.String("status", "ok"),
		slog.String("run_id", runID),
		slog.Int("recipients", len(recipients)),
		slog.Int("success", res.Success),
		slog.Int("failure", res.Failure),
		slog.Duration("duration", logger.RoundMS(res.Duration)),
	)
	return res
}

func (e *Engine) deliver(ctx context.Context, runID string, p Payload, userID int64) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logFailure(ctx, runID, userID, sender.KindPanic, fmt.Sprint(r))
			ok = false
		}
	}()

	what, opts := p.content()
	if _, err := e.sender.Send(tele.ChatID(userID), what, opts); err != nil {
		e.logFailure(ctx, runID, userID, sender.ClassifyError(err), sender.SanitizeError(err))
		return false
	}
	if logger.ShouldSampleDebug() {
		logger.Debug(ctx, "broadcast", "broadcast.recipient_ok",
			slog.String("status", "ok"),
			slog.String("run_id", runID),
			slog.Int64("recipient", userID),
		)
	}
	return true
}

func (e *Engine) logFailure(ctx context.Context, runID string, userID int64, kind, msg string) {
	logger.Warn(ctx, "broadcast", "broadcast.recipient_failed",
		slog.String("status", "fail"),
		slog.String("run_id", runID),
		slog.Int64("recipient", userID),
		slog.String("error_kind", kind),
		slog.String("err", logger.SanitizeLimit(msg, 256)),
	)
}
