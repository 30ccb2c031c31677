package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/m3rciful/kycbot/app/bot"
	appconfig "github.com/m3rciful/kycbot/app/config"
	"github.com/m3rciful/kycbot/core/bootstrap"
	"github.com/m3rciful/kycbot/core/buildinfo"
	corecmd "github.com/m3rciful/kycbot/core/cmd"
	coredatabase "github.com/m3rciful/kycbot/core/database"
	"github.com/m3rciful/kycbot/core/logger"
)

// runCmd starts the bot.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the bot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBot()
	},
}

// migrateCmd applies pending database migrations and exits.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := logger.InitLogger(cfg.CoreConfig()); err != nil {
			return err
		}
		defer logger.Shutdown()
		return coredatabase.RunMigrations(cfg.Database)
	},
}

// seedAdminsCmd copies the static admin list into an empty admins table and
// adds any ids given as arguments.
var seedAdminsCmd = &cobra.Command{
	Use:   "seed-admins [user-id...]",
	Short: "Seed the persisted admin set",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		defer logger.Shutdown()

		res, err := bootstrap.Run(ctx, bootstrapOptions(cfg))
		if err != nil {
			return err
		}
		defer res.Close()

		if err := bot.AddAdmins(ctx, res.DB, ids); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admins seeded (%d added explicitly)\n", len(ids))
		return nil
	},
}

// versionCmd prints build information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "kycbot "+buildinfo.String())
	},
}

func runBot() error {
	return corecmd.Run(runnerOptions())
}

func runnerOptions() corecmd.Options {
	return corecmd.Options{
		ConfigPath:        configPath,
		DefaultConfigPath: defaultConfigPath,
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			cfg, err := appconfig.Load(path)
			if err != nil {
				return nil, err
			}
			return cfg, nil
		},
		Bootstrap: func(ctx context.Context, carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			cfg, ok := carrier.(*appconfig.Config)
			if !ok {
				return nil, fmt.Errorf("unexpected config type %T", carrier)
			}
			res, err := bootstrap.Run(ctx, bootstrapOptions(cfg))
			if err != nil {
				return nil, err
			}
			app, err := bot.Provider(cfg).Provide(ctx, res.DB)
			if err != nil {
				_ = res.Close()
				return nil, err
			}
			return app, nil
		},
	}
}

func bootstrapOptions(cfg *appconfig.Config) bootstrap.Options {
	return bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
		Modules: bootstrap.Modules{
			Seeders: []bootstrap.NamedSeeder{bot.AdminSeeder(cfg.Telegram.AdminIDs)},
		},
	}
}

func loadConfig() (*appconfig.Config, error) {
	carrier, err := corecmd.LoadConfig(runnerOptions())
	if err != nil {
		return nil, err
	}
	return carrier.(*appconfig.Config), nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid user id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
