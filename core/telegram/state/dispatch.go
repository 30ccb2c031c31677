package state

import (
	"context"
	"log/slog"

	"github.com/m3rciful/kycbot/core/logger"
)

// Handler processes one inbound input for the state it was routed by.
type Handler[T any] func(ctx context.Context, in T) error

// Dispatcher consumes the user's state and invokes the handler registered for it.
type Dispatcher[T any] struct {
	mgr      Manager
	handlers map[State]Handler[T]
	fallback Handler[T]
}

// NewDispatcher builds a dispatcher backed by mgr.
func NewDispatcher[T any](mgr Manager) *Dispatcher[T] {
	return &Dispatcher[T]{mgr: mgr, handlers: make(map[State]Handler[T])}
}

// Register associates a non-idle state with its handler.
func (d *Dispatcher[T]) Register(st State, h Handler[T]) {
	if h == nil || st == StateIdle {
		return
	}
	d.handlers[st] = h
}

// Fallback sets the handler used when the user had no pending expectation.
func (d *Dispatcher[T]) Fallback(h Handler[T]) {
	d.fallback = h
}

// Dispatch consumes the state before calling the handler, so a failing handler
// never causes the same input to be interpreted again.
func (d *Dispatcher[T]) Dispatch(ctx context.Context, userID int64, in T) (State, error) {
	prev, err := d.mgr.Consume(ctx, userID)
	if err != nil {
		return StateIdle, err
	}
	if logger.ShouldSampleDebug() {
		logger.Debug(ctx, "session", "session.dispatch",
			slog.Int64("user_id", userID),
			slog.String("state", string(prev)),
		)
	}
	if h, ok := d.handlers[prev]; ok {
		return prev, h(ctx, in)
	}
	if d.fallback != nil {
		return prev, d.fallback(ctx, in)
	}
	return prev, nil
}
