package bot

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/kycbot/app/admins"
	"github.com/m3rciful/kycbot/app/repository"
	"github.com/m3rciful/kycbot/core/bootstrap"
	"github.com/m3rciful/kycbot/core/logger"
)

// AdminSeeder copies the static admin list into an empty admins table.
func AdminSeeder(static []int64) bootstrap.NamedSeeder {
	return bootstrap.NamedSeeder{
		Name: "admins",
		Seeder: bootstrap.SeederFunc(func(ctx context.Context, db *sqlx.DB) error {
			_, err := admins.NewSet(static, repository.NewAdminRepository(db)).Seed(ctx)
			return err
		}),
	}
}

// AddAdmins persists ids as admins. Existing rows are kept.
func AddAdmins(ctx context.Context, db *sqlx.DB, ids []int64) error {
	repo := repository.NewAdminRepository(db)
	for _, id := range ids {
		if err := repo.Add(ctx, id); err != nil {
			return err
		}
		logger.LogEvent(ctx, logger.DB, slog.LevelInfo, "admins.added",
			slog.String("status", "ok"),
			slog.Int64("user_id", id),
		)
	}
	return nil
}
