package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"
)

// Supported secret backends
const (
	SecretsBackendEnv   = "env"
	SecretsBackendRedis = "redis"
)

// Config holds all application configuration
type Config struct {
	ServiceName string
	ServicePort int
	LogLevel    string
	Database    DatabaseConfig
	Secrets     SecretsConfig
	Alert       AlertConfig
	Telegram    TelegramConfig
	RabbitMQ    RabbitMQConfig
}

// DatabaseConfig holds database connection settings.
// An empty URL is resolved from the secret store at startup.
type DatabaseConfig struct {
	URL string
}

// SecretsConfig selects and scopes the secret backend
type SecretsConfig struct {
	Backend   string
	Project   string
	RedisAddr string
}

// AlertConfig holds the humidity alert settings
type AlertConfig struct {
	HumidityThreshold float64
}

// TelegramConfig holds outbound notification settings
type TelegramConfig struct {
	APIBaseURL string
	Timeout    time.Duration
}

// RabbitMQConfig holds RabbitMQ connection and queue settings.
// An empty URL disables reading events and queue ingestion.
type RabbitMQConfig struct {
	URL              string
	EventsExchange   string
	EventsRoutingKey string
	IngestExchange   string
	IngestQueue      string
	IngestRoutingKey string
	DLQQueue         string
	PrefetchCount    int
}

// Enabled reports whether a broker is configured
func (c RabbitMQConfig) Enabled() bool {
	return c.URL != ""
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		ServiceName: getEnv("SERVICE_NAME", "sensor-ingest"),
		ServicePort: getEnvAsInt("SERVICE_PORT", 8080),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Secrets: SecretsConfig{
			Backend:   getEnv("SECRETS_BACKEND", SecretsBackendEnv),
			Project:   getEnv("SECRETS_PROJECT", "garagehumedity"),
			RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Alert: AlertConfig{
			HumidityThreshold: getEnvAsFloat("ALERT_HUMIDITY_THRESHOLD", 65),
		},
		Telegram: TelegramConfig{
			APIBaseURL: getEnv("TELEGRAM_API_BASE_URL", "https://api.telegram.org"),
			Timeout:    time.Duration(getEnvAsInt("NOTIFY_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		RabbitMQ: RabbitMQConfig{
			URL:              getEnv("RABBITMQ_URL", ""),
			EventsExchange:   getEnv("RABBITMQ_EVENTS_EXCHANGE", "sensor-ingest.events.exchange"),
			EventsRoutingKey: getEnv("RABBITMQ_EVENTS_ROUTING_KEY", "sensor.reading.stored"),
			IngestExchange:   getEnv("RABBITMQ_INGEST_EXCHANGE", "sensor-ingest.ingest.exchange"),
			IngestQueue:      getEnv("RABBITMQ_INGEST_QUEUE", ""),
			IngestRoutingKey: getEnv("RABBITMQ_INGEST_ROUTING_KEY", "sensor.reading.raw"),
			DLQQueue:         getEnv("RABBITMQ_DLQ_QUEUE", "sensor-ingest.ingest.dlq"),
			PrefetchCount:    getEnvAsInt("RABBITMQ_PREFETCH", 10),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Secrets.Backend {
	case SecretsBackendEnv:
	case SecretsBackendRedis:
		if c.Secrets.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when SECRETS_BACKEND=%s", SecretsBackendRedis)
		}
	default:
		return fmt.Errorf("SECRETS_BACKEND must be %q or %q, got %q", SecretsBackendEnv, SecretsBackendRedis, c.Secrets.Backend)
	}
	if c.Secrets.Project == "" {
		return fmt.Errorf("SECRETS_PROJECT must not be empty")
	}
	if math.IsNaN(c.Alert.HumidityThreshold) || c.Alert.HumidityThreshold < 0 || c.Alert.HumidityThreshold > 100 {
		return fmt.Errorf("ALERT_HUMIDITY_THRESHOLD must be within 0..100, got %v", c.Alert.HumidityThreshold)
	}
	if c.Telegram.Timeout <= 0 {
		return fmt.Errorf("NOTIFY_TIMEOUT_SECONDS must be positive")
	}
	if c.ServicePort <= 0 || c.ServicePort > 65535 {
		return fmt.Errorf("SERVICE_PORT must be a valid TCP port, got %d", c.ServicePort)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
