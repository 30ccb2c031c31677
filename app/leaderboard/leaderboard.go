// Package leaderboard records activations and serves the most recent ones.
package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/m3rciful/kycbot/app/models"
	"github.com/m3rciful/kycbot/core/logger"
)

// DefaultSize is the number of entries shown by /leaderboard.
const DefaultSize = 10

// Store persists leaderboard entries.
type Store interface {
	Upsert(ctx context.Context, e models.LeaderboardEntry) error
	Top(ctx context.Context, n int) ([]models.LeaderboardEntry, error)
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}

// Service wraps a Store with the activation clock and logging.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a leaderboard service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// RecordActivation stores phone as userID's latest activation.
func (s *Service) RecordActivation(ctx context.Context, userID int64, displayName, phone string) error {
	entry := models.LeaderboardEntry{
		UserID:      userID,
		Username:    displayName,
		Phone:       phone,
		ActivatedAt: s.now().UTC(),
	}
	if err := s.store.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("record activation: %w", err)
	}
	logger.Info(ctx, "leaderboard", "activation.recorded",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
	)
	return nil
}

// TopN returns at most n entries, newest first. n <= 0 yields an empty result.
func (s *Service) TopN(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	if n <= 0 {
		return []models.LeaderboardEntry{}, nil
	}
	entries, err := s.store.Top(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

// Reset removes every entry.
func (s *Service) Reset(ctx context.Context) error {
	n, err := s.store.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("reset leaderboard: %w", err)
	}
	logger.Info(ctx, "leaderboard", "leaderboard.reset",
		slog.String("status", "ok"),
		slog.Int64("count", n),
	)
	return nil
}

// Count returns the number of entries.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// CountSince returns the number of activations at or after since.
func (s *Service) CountSince(ctx context.Context, since time.Time) (int, error) {
	return s.store.CountSince(ctx, since)
}
