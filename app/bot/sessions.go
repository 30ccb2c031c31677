package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/m3rciful/kycbot/app/config"
	"github.com/m3rciful/kycbot/core/logger"
	"github.com/m3rciful/kycbot/core/telegram/state"
)

const redisPingTimeout = 5 * time.Second

// newSessions builds the configured session store and its release function.
func newSessions(ctx context.Context, cfg appconfig.SessionConfig) (state.Manager, func() error, error) {
	if cfg.Backend != appconfig.SessionRedis {
		logger.Info(ctx, "session", "session.backend",
			slog.String("status", "ok"),
			slog.String("backend", appconfig.SessionMemory),
		)
		return state.NewMemoryManager(), func() error { return nil }, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("session: invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("session: redis unreachable at %s: %w", opts.Addr, err)
	}
	logger.Info(ctx, "session", "session.backend",
		slog.String("status", "ok"),
		slog.String("backend", appconfig.SessionRedis),
		slog.String("host", opts.Addr),
		slog.Duration("ttl", cfg.TTL()),
	)
	return state.NewRedisManager(client, cfg.TTL()), client.Close, nil
}
