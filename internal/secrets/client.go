package secrets

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewRedisClient creates a Redis client whose lifetime follows the fx app.
// An unreachable server at startup is logged, not fatal: lookups fail
// per call and callers treat a missing secret as absent.
func NewRedisClient(lc fx.Lifecycle, logger *zap.Logger, addr string) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: addr})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("[SECRETS] redis unreachable, secrets resolve as absent until it recovers",
					zap.String("addr", addr), zap.Error(err))
				return nil
			}
			logger.Info("secret store connection established", zap.String("addr", addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client
}
