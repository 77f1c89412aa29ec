package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/septivank/sensor-ingest/internal/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticSecrets map[string]string

func (s staticSecrets) GetSecret(_ context.Context, name string) (string, bool) {
	v, ok := s[name]
	return v, ok
}

func newTestNotifier(baseURL string, resolver secrets.Resolver) *TelegramNotifier {
	return NewTelegramNotifier(TelegramConfig{
		BaseURL:   baseURL,
		Timeout:   2 * time.Second,
		Threshold: 65,
	}, resolver, zap.NewNop())
}

var bothSecrets = staticSecrets{
	secrets.TelegramBotToken: "123:abc",
	secrets.TelegramChatID:   "-100987",
}

func TestSendAlert_Success(t *testing.T) {
	var got sendMessageRequest
	var path, contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		contentType = r.Header.Get("Content-Type")
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	ok := newTestNotifier(srv.URL, bothSecrets).SendAlert(context.Background(), 70, 25.5, "esp32_garage")

	assert.True(t, ok)
	assert.Equal(t, "/bot123:abc/sendMessage", path)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "-100987", got.ChatID)
	assert.Equal(t, FormatAlert(70, 25.5, 65, "esp32_garage"), got.Text)
}

func TestSendAlert_MissingSecretsSkipsNetwork(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	tests := []struct {
		name     string
		resolver staticSecrets
	}{
		{"no secrets", staticSecrets{}},
		{"token only", staticSecrets{secrets.TelegramBotToken: "123:abc"}},
		{"chat only", staticSecrets{secrets.TelegramChatID: "-100987"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok := newTestNotifier(srv.URL, tt.resolver).SendAlert(context.Background(), 70, 25.5, "unknown")
			assert.False(t, ok)
		})
	}
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestSendAlert_HTTPErrorStatus(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusInternalServerError} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"ok":false}`))
		}))

		ok := newTestNotifier(srv.URL, bothSecrets).SendAlert(context.Background(), 80, 20, "dev")
		assert.False(t, ok, "status %d", status)

		srv.Close()
	}
}

func TestSendAlert_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	ok := newTestNotifier(url, bothSecrets).SendAlert(context.Background(), 80, 20, "dev")

	assert.False(t, ok)
}

func TestSendAlert_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	n := NewTelegramNotifier(TelegramConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond, Threshold: 65}, bothSecrets, zap.NewNop())

	assert.False(t, n.SendAlert(context.Background(), 80, 20, "dev"))
}

func TestFormatAlert(t *testing.T) {
	text := FormatAlert(70, 25.5, 65, "esp32_garage")

	assert.Contains(t, text, "esp32_garage")
	assert.Contains(t, text, "70.0%")
	assert.Contains(t, text, "threshold 65%")
	assert.Contains(t, text, "25.5°C")
}

func TestRedactToken(t *testing.T) {
	err := redactToken(assert.AnError, "")
	assert.Equal(t, assert.AnError, err)

	err = redactToken(&testErr{"Post \"http://x/bot123:abc/sendMessage\": refused"}, "123:abc")
	assert.NotContains(t, err.Error(), "123:abc")
}

type testErr struct{ msg string }

func (e *testErr) Error() string { return e.msg }
