package state

import (
	"context"
	"strings"
)

// State identifies what the bot expects from a user's next message.
type State string

const (
	// StateIdle indicates there is no pending expectation.
	StateIdle State = "idle"
	// StateAwaitingPhone marks a user who was prompted for the activation number.
	StateAwaitingPhone State = "awaiting_phone"
	// StateAwaitingBroadcast marks an admin whose next message is the broadcast payload.
	StateAwaitingBroadcast State = "awaiting_broadcast"
)

// Valid reports whether st is one of the known states.
func (st State) Valid() bool {
	switch st {
	case StateIdle, StateAwaitingPhone, StateAwaitingBroadcast:
		return true
	}
	return false
}

// ParseState converts a stored value into a State. Unknown values map to StateIdle.
func ParseState(raw string) State {
	st := State(strings.TrimSpace(raw))
	if !st.Valid() {
		return StateIdle
	}
	return st
}

// Manager stores one State per user id.
type Manager interface {
	// Get returns the current state, StateIdle when none is stored.
	Get(ctx context.Context, userID int64) (State, error)
	// Set overwrites the state unconditionally.
	Set(ctx context.Context, userID int64, st State) error
	// Consume atomically resets the state to idle and returns the previous one.
	Consume(ctx context.Context, userID int64) (State, error)
	// CompareAndSet moves from -> to only when the current state equals from.
	CompareAndSet(ctx context.Context, userID int64, from, to State) (bool, error)
	// Clear resets the user to idle.
	Clear(ctx context.Context, userID int64) error
}
