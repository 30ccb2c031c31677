package state

import (
	"context"
	"log/slog"
	"sync"

	"github.com/m3rciful/kycbot/core/logger"
)

type slot struct {
	mu    sync.Mutex
	state State
}

type memoryManager struct {
	mu    sync.Mutex
	slots map[int64]*slot
}

// NewMemoryManager constructs a process-local Manager. A restart resets every user to idle.
func NewMemoryManager() Manager {
	return &memoryManager{slots: make(map[int64]*slot)}
}

// slotFor returns the user's slot, creating it on first use. Slots are never removed
// so two goroutines can never lock different slots for the same user.
func (m *memoryManager) slotFor(userID int64) *slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[userID]
	if !ok {
		s = &slot{state: StateIdle}
		m.slots[userID] = s
	}
	return s
}

func (m *memoryManager) Get(_ context.Context, userID int64) (State, error) {
	s := m.slotFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, nil
}

func (m *memoryManager) Set(ctx context.Context, userID int64, st State) error {
	if !st.Valid() {
		return ErrInvalidState
	}
	s := m.slotFor(userID)
	s.mu.Lock()
	prev := s.state
	s.state = st
	s.mu.Unlock()
	logTransition(ctx, userID, prev, st)
	return nil
}

func (m *memoryManager) Consume(ctx context.Context, userID int64) (State, error) {
	s := m.slotFor(userID)
	s.mu.Lock()
	prev := s.state
	s.state = StateIdle
	s.mu.Unlock()
	if prev != StateIdle {
		logTransition(ctx, userID, prev, StateIdle)
	}
	return prev, nil
}

func (m *memoryManager) CompareAndSet(ctx context.Context, userID int64, from, to State) (bool, error) {
	if !to.Valid() {
		return false, ErrInvalidState
	}
	s := m.slotFor(userID)
	s.mu.Lock()
	if s.state != from {
		s.mu.Unlock()
		return false, nil
	}
	s.state = to
	s.mu.Unlock()
	logTransition(ctx, userID, from, to)
	return true, nil
}

func (m *memoryManager) Clear(ctx context.Context, userID int64) error {
	_, err := m.Consume(ctx, userID)
	return err
}

func logTransition(ctx context.Context, userID int64, from, to State) {
	if !logger.ShouldSampleDebug() {
		return
	}
	logger.Debug(ctx, "session", "session.transition",
		slog.Int64("user_id", userID),
		slog.String("state", string(to)),
		slog.String("from", string(from)),
	)
}
