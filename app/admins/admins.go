// Package admins answers whether a user may run administrative commands.
package admins

import (
	"context"
	"log/slog"

	"github.com/m3rciful/kycbot/core/logger"
)

// Store is the persisted part of the admin set.
type Store interface {
	Exists(ctx context.Context, userID int64) (bool, error)
	SeedIfEmpty(ctx context.Context, ids []int64) (int64, error)
}

// Set is the union of the static bootstrap list and the persisted admins.
type Set struct {
	static []int64
	lookup map[int64]struct{}
	store  Store
}

// NewSet creates an admin set. store may be nil for a static-only set.
func NewSet(static []int64, store Store) *Set {
	lookup := make(map[int64]struct{}, len(static))
	for _, id := range static {
		lookup[id] = struct{}{}
	}
	return &Set{static: append([]int64(nil), static...), lookup: lookup, store: store}
}

// IsAdmin checks the static list first, then the store. Store errors deny.
func (s *Set) IsAdmin(ctx context.Context, userID int64) bool {
	if _, ok := s.lookup[userID]; ok {
		return true
	}
	if s.store == nil {
		return false
	}
	ok, err := s.store.Exists(ctx, userID)
	if err != nil {
		logger.Warn(ctx, "admins", "admins.lookup_failed",
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return false
	}
	return ok
}

// Static returns the bootstrap admin ids.
func (s *Set) Static() []int64 {
	return append([]int64(nil), s.static...)
}

// Seed copies the static list into the store when the store is empty.
func (s *Set) Seed(ctx context.Context) (int64, error) {
	if s.store == nil || len(s.static) == 0 {
		return 0, nil
	}
	n, err := s.store.SeedIfEmpty(ctx, s.static)
	if err != nil {
		return 0, err
	}
	logger.Info(ctx, "admins", "admins.seeded",
		slog.String("status", "ok"),
		slog.Int64("count", n),
	)
	return n, nil
}
