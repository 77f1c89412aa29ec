package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// versionReader is the subset of the redis client used by RedisResolver
type versionReader interface {
	LIndex(ctx context.Context, key string, index int64) *redis.StringCmd
}

// RedisResolver reads versioned secrets from Redis. Each secret is a list
// of versions under secrets:<project>:<name>, newest at the tail.
type RedisResolver struct {
	client  versionReader
	project string
	logger  *zap.Logger
}

// NewRedisResolver creates a resolver scoped to one project
func NewRedisResolver(client versionReader, project string, logger *zap.Logger) *RedisResolver {
	return &RedisResolver{client: client, project: project, logger: logger}
}

// Key returns the Redis key holding the versions of name
func (r *RedisResolver) Key(name string) string {
	return fmt.Sprintf("secrets:%s:%s", r.project, name)
}

// GetSecret implements Resolver, returning the latest version
func (r *RedisResolver) GetSecret(ctx context.Context, name string) (string, bool) {
	key := r.Key(name)

	value, err := r.client.LIndex(ctx, key, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Warn("secret not found", zap.String("secret", name), zap.String("project", r.project))
		} else {
			r.logger.Error("failed to access secret", zap.String("secret", name), zap.String("project", r.project), zap.Error(err))
		}
		return "", false
	}
	if value == "" {
		r.logger.Warn("secret has an empty latest version", zap.String("secret", name), zap.String("project", r.project))
		return "", false
	}

	return value, true
}
