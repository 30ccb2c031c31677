package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// AdminRepository stores persisted administrators. The set is append-only.
type AdminRepository struct {
	q Queryable
}

// NewAdminRepository creates an admin repository.
func NewAdminRepository(q Queryable) *AdminRepository {
	return &AdminRepository{q: q}
}

// Exists reports whether userID is a persisted admin.
func (r *AdminRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	var ok bool
	if err := sqlx.GetContext(ctx, r.q, &ok, `SELECT EXISTS (SELECT 1 FROM admins WHERE user_id = $1)`, userID); err != nil {
		return false, fmt.Errorf("failed to check admin %d: %w", userID, err)
	}
	return ok, nil
}

// Count returns the number of persisted admins.
func (r *AdminRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, `SELECT count(*) FROM admins`); err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return n, nil
}

// Add persists userID as an admin. Adding an existing admin is a no-op.
func (r *AdminRepository) Add(ctx context.Context, userID int64) error {
	if _, err := r.q.ExecContext(ctx, `INSERT INTO admins (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
		return fmt.Errorf("failed to add admin %d: %w", userID, err)
	}
	return nil
}

// SeedIfEmpty inserts ids only when the table has no rows, in a single statement.
// It returns the number of inserted rows.
func (r *AdminRepository) SeedIfEmpty(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	const query = `
		INSERT INTO admins (user_id)
		SELECT DISTINCT unnest($1::bigint[])
		WHERE NOT EXISTS (SELECT 1 FROM admins)
		ON CONFLICT (user_id) DO NOTHING`
	res, err := r.q.ExecContext(ctx, query, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("failed to seed admins: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read seeded rows: %w", err)
	}
	return n, nil
}
