package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/septivank/sensor-ingest/internal/secrets"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single sendMessage call
const DefaultTimeout = 10 * time.Second

const messageTemplate = "⚠️ High humidity alert\n" +
	"Device: %s\n" +
	"Humidity: %.1f%% (threshold %.0f%%)\n" +
	"Temperature: %.1f°C"

// Notifier delivers humidity alerts. SendAlert never fails the caller;
// it reports delivery success as a boolean.
type Notifier interface {
	SendAlert(ctx context.Context, humidity, temperature float64, deviceID string) bool
}

// TelegramConfig holds Telegram notifier settings
type TelegramConfig struct {
	BaseURL   string
	Timeout   time.Duration
	Threshold float64
}

// TelegramNotifier posts alerts to a chat through the Telegram Bot API
type TelegramNotifier struct {
	secrets   secrets.Resolver
	client    *http.Client
	baseURL   string
	threshold float64
	logger    *zap.Logger
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// NewTelegramNotifier creates a new Telegram notifier
func NewTelegramNotifier(cfg TelegramConfig, resolver secrets.Resolver, logger *zap.Logger) *TelegramNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &TelegramNotifier{
		secrets:   resolver,
		client:    &http.Client{Timeout: timeout},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		threshold: cfg.Threshold,
		logger:    logger,
	}
}

// FormatAlert renders the alert text sent to the chat
func FormatAlert(humidity, temperature, threshold float64, deviceID string) string {
	return fmt.Sprintf(messageTemplate, deviceID, humidity, threshold, temperature)
}

// SendAlert implements Notifier
func (n *TelegramNotifier) SendAlert(ctx context.Context, humidity, temperature float64, deviceID string) bool {
	logger := n.logger.With(zap.String("device_id", deviceID), zap.Float64("humidity", humidity))

	token, ok := n.secrets.GetSecret(ctx, secrets.TelegramBotToken)
	if !ok {
		logger.Warn("telegram bot token unavailable, skipping alert")
		return false
	}
	chatID, ok := n.secrets.GetSecret(ctx, secrets.TelegramChatID)
	if !ok {
		logger.Warn("telegram chat id unavailable, skipping alert")
		return false
	}

	body, err := json.Marshal(sendMessageRequest{
		ChatID: chatID,
		Text:   FormatAlert(humidity, temperature, n.threshold, deviceID),
	})
	if err != nil {
		logger.Error("failed to marshal telegram message", zap.Error(err))
		return false
	}

	// the token is part of the path, never log the URL
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		logger.Error("failed to build telegram request", zap.Error(err))
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		logger.Error("telegram request failed", zap.Error(redactToken(err, token)))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logger.Error("telegram rejected alert",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", snippet),
		)
		return false
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	logger.Info("humidity alert sent")
	return true
}

// redactToken strips the bot token from transport errors, which embed the URL
func redactToken(err error, token string) error {
	if token == "" {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), token, "<redacted>"))
}
