package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/kycbot/app/models"
)

// LeaderboardRepository stores the latest activation per user.
type LeaderboardRepository struct {
	q Queryable
}

// NewLeaderboardRepository creates a leaderboard repository.
func NewLeaderboardRepository(q Queryable) *LeaderboardRepository {
	return &LeaderboardRepository{q: q}
}

// Upsert writes the entry, replacing any earlier activation of the same user.
func (r *LeaderboardRepository) Upsert(ctx context.Context, e models.LeaderboardEntry) error {
	const query = `
		INSERT INTO leaderboard (user_id, username, phone, activated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			username = EXCLUDED.username,
			phone = EXCLUDED.phone,
			activated_at = EXCLUDED.activated_at`
	if _, err := r.q.ExecContext(ctx, query, e.UserID, e.Username, e.Phone, e.ActivatedAt); err != nil {
		return fmt.Errorf("failed to upsert leaderboard entry %d: %w", e.UserID, err)
	}
	return nil
}

// Top returns up to n entries, most recent activation first.
func (r *LeaderboardRepository) Top(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	if n <= 0 {
		return nil, nil
	}
	const query = `
		SELECT user_id, username, phone, activated_at
		FROM leaderboard
		ORDER BY activated_at DESC, user_id
		LIMIT $1`
	var entries []models.LeaderboardEntry
	if err := sqlx.SelectContext(ctx, r.q, &entries, query, n); err != nil {
		return nil, fmt.Errorf("failed to load top %d entries: %w", n, err)
	}
	return entries, nil
}

// DeleteAll removes every entry in one statement and returns how many were removed.
func (r *LeaderboardRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM leaderboard`)
	if err != nil {
		return 0, fmt.Errorf("failed to reset leaderboard: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read deleted rows: %w", err)
	}
	return n, nil
}

// Count returns the number of entries.
func (r *LeaderboardRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, `SELECT count(*) FROM leaderboard`); err != nil {
		return 0, fmt.Errorf("failed to count leaderboard: %w", err)
	}
	return n, nil
}

// CountSince returns the number of activations at or after since.
func (r *LeaderboardRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, `SELECT count(*) FROM leaderboard WHERE activated_at >= $1`, since); err != nil {
		return 0, fmt.Errorf("failed to count activations since %s: %w", since.Format(time.RFC3339), err)
	}
	return n, nil
}
