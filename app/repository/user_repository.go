package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/kycbot/app/models"
)

// UserRepository stores users observed by the bot.
type UserRepository struct {
	q Queryable
}

// NewUserRepository creates a user repository.
func NewUserRepository(q Queryable) *UserRepository {
	return &UserRepository{q: q}
}

// Ensure inserts the user unless it already exists.
func (r *UserRepository) Ensure(ctx context.Context, u models.User) error {
	const query = `
		INSERT INTO users (user_id, username, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.q.ExecContext(ctx, query, u.UserID, u.Username, u.FirstName, u.LastName); err != nil {
		return fmt.Errorf("failed to ensure user %d: %w", u.UserID, err)
	}
	return nil
}

// Touch inserts the user or refreshes its names and joined_at.
func (r *UserRepository) Touch(ctx context.Context, u models.User) error {
	const query = `
		INSERT INTO users (user_id, username, first_name, last_name, joined_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			joined_at = EXCLUDED.joined_at`
	if _, err := r.q.ExecContext(ctx, query, u.UserID, u.Username, u.FirstName, u.LastName); err != nil {
		return fmt.Errorf("failed to upsert user %d: %w", u.UserID, err)
	}
	return nil
}

// Get returns the user or nil when unknown.
func (r *UserRepository) Get(ctx context.Context, userID int64) (*models.User, error) {
	var users []models.User
	const query = `SELECT user_id, username, first_name, last_name, joined_at FROM users WHERE user_id = $1`
	if err := sqlx.SelectContext(ctx, r.q, &users, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

// AllIDs returns every user id, oldest first.
func (r *UserRepository) AllIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := sqlx.SelectContext(ctx, r.q, &ids, `SELECT user_id FROM users ORDER BY joined_at, user_id`); err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}
	return ids, nil
}

// Count returns the number of users.
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, `SELECT count(*) FROM users`); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// CountSince returns the number of users whose joined_at is at or after since.
func (r *UserRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, `SELECT count(*) FROM users WHERE joined_at >= $1`, since); err != nil {
		return 0, fmt.Errorf("failed to count users since %s: %w", since.Format(time.RFC3339), err)
	}
	return n, nil
}
