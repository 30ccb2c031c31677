package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/kycbot/core/config"
	coredatabase "github.com/m3rciful/kycbot/core/database"
)

func fakeDB() *sqlx.DB {
	// Never dialed and never closed by the success paths under test.
	return sqlx.NewDb(nil, "postgres")
}

func TestRunRequiresConfig(t *testing.T) {
	_, err := Run(context.Background(), Options{})
	require.Error(t, err)
}

func TestRunOrder(t *testing.T) {
	var steps []string
	res, err := Run(context.Background(), Options{
		Config: &coreconfig.Config{},
		LoggerInit: func(*coreconfig.Config) error {
			steps = append(steps, "logger")
			return nil
		},
		Connect: func(coredatabase.Config) (*sqlx.DB, error) {
			steps = append(steps, "connect")
			return fakeDB(), nil
		},
		Migrate: func(coredatabase.Config) error {
			steps = append(steps, "migrate")
			return nil
		},
		Modules: Modules{Seeders: []NamedSeeder{{
			Name: "admins",
			Seeder: SeederFunc(func(context.Context, *sqlx.DB) error {
				steps = append(steps, "seed")
				return nil
			}),
		}}},
	})
	require.NoError(t, err)
	require.NotNil(t, res.DB)
	assert.Equal(t, []string{"logger", "connect", "migrate", "seed"}, steps)
}

func TestRunSkipMigrations(t *testing.T) {
	migrated := false
	_, err := Run(context.Background(), Options{
		Config:         &coreconfig.Config{},
		SkipMigrations: true,
		LoggerInit:     func(*coreconfig.Config) error { return nil },
		Connect:        func(coredatabase.Config) (*sqlx.DB, error) { return fakeDB(), nil },
		Migrate: func(coredatabase.Config) error {
			migrated = true
			return nil
		},
	})
	require.NoError(t, err)
	assert.False(t, migrated)
}

func TestModulesSeedStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	second := false
	err := Modules{Seeders: []NamedSeeder{
		{Name: "first", Seeder: SeederFunc(func(context.Context, *sqlx.DB) error { return boom })},
		{Name: "second", Seeder: SeederFunc(func(context.Context, *sqlx.DB) error {
			second = true
			return nil
		})},
	}}.Seed(context.Background(), nil)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "seeder first")
	assert.False(t, second)
}

func TestProviderFunc(t *testing.T) {
	var p Provider[int] = ProviderFunc[int](func(context.Context, *sqlx.DB) (int, error) { return 7, nil })
	v, err := p.Provide(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}
