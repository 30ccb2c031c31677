package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/kycbot/core/logger"
)

// Seeder loads reference data into the database.
type Seeder interface {
	Seed(ctx context.Context, db *sqlx.DB) error
}

// SeederFunc adapts a bare function to the Seeder interface.
type SeederFunc func(ctx context.Context, db *sqlx.DB) error

// Seed executes the underlying function.
func (f SeederFunc) Seed(ctx context.Context, db *sqlx.DB) error {
	return f(ctx, db)
}

// NamedSeeder labels a seeder for logs.
type NamedSeeder struct {
	Name   string
	Seeder Seeder
}

// Provider wires an application service from the database.
type Provider[T any] interface {
	Provide(ctx context.Context, db *sqlx.DB) (T, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc[T any] func(ctx context.Context, db *sqlx.DB) (T, error)

// Provide executes the underlying function.
func (f ProviderFunc[T]) Provide(ctx context.Context, db *sqlx.DB) (T, error) {
	return f(ctx, db)
}

// Modules groups optional bootstrapping hooks.
type Modules struct {
	Seeders []NamedSeeder
}

// Seed runs every seeder in order and stops at the first failure.
func (m Modules) Seed(ctx context.Context, db *sqlx.DB) error {
	for _, s := range m.Seeders {
		if s.Seeder == nil {
			continue
		}
		if err := s.Seeder.Seed(ctx, db); err != nil {
			return fmt.Errorf("seeder %s: %w", s.Name, err)
		}
		logger.LogEvent(ctx, logger.DB, slog.LevelInfo, "seed.done",
			slog.String("status", "ok"),
			slog.String("seeder", s.Name),
		)
	}
	return nil
}
