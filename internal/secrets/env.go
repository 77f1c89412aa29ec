package secrets

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"
)

// EnvResolver reads secrets injected by the host as SECRET_<NAME> variables
type EnvResolver struct {
	lookup func(string) (string, bool)
	logger *zap.Logger
}

// NewEnvResolver creates a resolver backed by the process environment
func NewEnvResolver(logger *zap.Logger) *EnvResolver {
	return &EnvResolver{lookup: os.LookupEnv, logger: logger}
}

// EnvKey maps a secret name to its environment variable
func EnvKey(name string) string {
	return "SECRET_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// GetSecret implements Resolver
func (r *EnvResolver) GetSecret(_ context.Context, name string) (string, bool) {
	key := EnvKey(name)
	value, ok := r.lookup(key)
	if !ok || value == "" {
		r.logger.Warn("secret not found", zap.String("secret", name), zap.String("env", key))
		return "", false
	}
	return value, true
}
