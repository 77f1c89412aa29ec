package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeVersions struct {
	values map[string]string
	err    error
	keys   []string
}

func (f *fakeVersions) LIndex(_ context.Context, key string, index int64) *redis.StringCmd {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	value, ok := f.values[key]
	if !ok || index != -1 {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "SECRET_TELEGRAM_BOT_TOKEN", EnvKey(TelegramBotToken))
	assert.Equal(t, "SECRET_DATABASE_URL", EnvKey(DatabaseURL))
}

func TestEnvResolver(t *testing.T) {
	env := map[string]string{
		"SECRET_TELEGRAM_CHAT_ID":   "-100123",
		"SECRET_TELEGRAM_BOT_TOKEN": "",
	}
	r := &EnvResolver{
		lookup: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
		logger: zap.NewNop(),
	}

	value, ok := r.GetSecret(context.Background(), TelegramChatID)
	require.True(t, ok)
	assert.Equal(t, "-100123", value)

	_, ok = r.GetSecret(context.Background(), TelegramBotToken)
	assert.False(t, ok, "empty variable counts as absent")

	_, ok = r.GetSecret(context.Background(), DatabaseURL)
	assert.False(t, ok)
}

func TestRedisResolver_LatestVersion(t *testing.T) {
	client := &fakeVersions{values: map[string]string{
		"secrets:garagehumedity:telegram-bot-token": "123:abc",
	}}
	r := NewRedisResolver(client, "garagehumedity", zap.NewNop())

	value, ok := r.GetSecret(context.Background(), TelegramBotToken)

	require.True(t, ok)
	assert.Equal(t, "123:abc", value)
	assert.Equal(t, []string{"secrets:garagehumedity:telegram-bot-token"}, client.keys)
}

func TestRedisResolver_FailuresBecomeAbsent(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeVersions
	}{
		{"not found", &fakeVersions{values: map[string]string{}}},
		{"transport error", &fakeVersions{err: errors.New("dial tcp: connection refused")}},
		{"empty version", &fakeVersions{values: map[string]string{"secrets:p:telegram-chat-id": ""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRedisResolver(tt.client, "p", zap.NewNop())

			value, ok := r.GetSecret(context.Background(), TelegramChatID)

			assert.False(t, ok)
			assert.Empty(t, value)
		})
	}
}
