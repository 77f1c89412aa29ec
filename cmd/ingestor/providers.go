package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/septivank/sensor-ingest/internal/alert"
	"github.com/septivank/sensor-ingest/internal/api"
	"github.com/septivank/sensor-ingest/internal/config"
	"github.com/septivank/sensor-ingest/internal/db"
	"github.com/septivank/sensor-ingest/internal/metrics"
	"github.com/septivank/sensor-ingest/internal/mq"
	"github.com/septivank/sensor-ingest/internal/notify"
	"github.com/septivank/sensor-ingest/internal/repository"
	"github.com/septivank/sensor-ingest/internal/secrets"
	"github.com/septivank/sensor-ingest/internal/service"
	"github.com/septivank/sensor-ingest/internal/validator"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ProvideSecretResolver selects the configured secret backend
func ProvideSecretResolver(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) secrets.Resolver {
	logger = logger.Named("secrets")
	if cfg.Secrets.Backend == config.SecretsBackendRedis {
		client := secrets.NewRedisClient(lc, logger, cfg.Secrets.RedisAddr)
		return secrets.NewRedisResolver(client, cfg.Secrets.Project, logger)
	}
	return secrets.NewEnvResolver(logger)
}

// ProvideDBPool creates the database pool, resolving the URL from the
// secret store when DATABASE_URL is not set
func ProvideDBPool(lc fx.Lifecycle, logger *zap.Logger, cfg *config.Config, resolver secrets.Resolver) (*db.Pool, error) {
	databaseURL := cfg.Database.URL
	if databaseURL == "" {
		url, ok := resolver.GetSecret(context.Background(), secrets.DatabaseURL)
		if !ok {
			return nil, fmt.Errorf("DATABASE_URL is not set and secret %q could not be resolved", secrets.DatabaseURL)
		}
		databaseURL = url
	}
	return db.NewPool(lc, logger, databaseURL)
}

// ProvideRepository creates a new repository instance
func ProvideRepository(pool *db.Pool) service.ReadingStore {
	return repository.NewRepository(pool)
}

// ProvideRegistry creates the Prometheus registry shared by metrics and /metrics
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics registers the ingestion counters
func ProvideMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.New(reg)
}

// ProvideAlertPolicy creates the humidity alert policy
func ProvideAlertPolicy(cfg *config.Config) *alert.Policy {
	return alert.NewPolicy(cfg.Alert.HumidityThreshold)
}

// ProvideValidator creates a validator for sensor payloads
func ProvideValidator() *validator.Validator {
	return validator.NewValidator(validator.ReadingRules)
}

// ProvideNotifier creates the Telegram notifier
func ProvideNotifier(cfg *config.Config, resolver secrets.Resolver, logger *zap.Logger) notify.Notifier {
	return notify.NewTelegramNotifier(notify.TelegramConfig{
		BaseURL:   cfg.Telegram.APIBaseURL,
		Timeout:   cfg.Telegram.Timeout,
		Threshold: cfg.Alert.HumidityThreshold,
	}, resolver, logger.Named("notify"))
}

// ProvideMQConnection creates a RabbitMQ connection, nil when disabled
func ProvideMQConnection(lc fx.Lifecycle, logger *zap.Logger, cfg *config.Config) (*mq.Connection, error) {
	return mq.NewConnection(lc, logger, cfg.RabbitMQ.URL)
}

// ProvidePublisher creates the reading event publisher
func ProvidePublisher(lc fx.Lifecycle, conn *mq.Connection, cfg *config.Config, logger *zap.Logger) (service.EventPublisher, error) {
	if conn == nil {
		return service.NopPublisher{}, nil
	}
	publisher, err := mq.NewPublisher(conn, cfg.RabbitMQ.EventsExchange, cfg.RabbitMQ.EventsRoutingKey, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return publisher.Close()
		},
	})
	return publisher, nil
}

// ProvideIngestService creates the ingestion pipeline
func ProvideIngestService(
	store service.ReadingStore,
	publisher service.EventPublisher,
	notifier notify.Notifier,
	policy *alert.Policy,
	validator *validator.Validator,
	metrics *metrics.Metrics,
	logger *zap.Logger,
) *service.IngestService {
	return service.NewIngestService(store, publisher, notifier, policy, validator, metrics, logger)
}

// ProvideHandler creates the HTTP handler
func ProvideHandler(svc *service.IngestService, metrics *metrics.Metrics, logger *zap.Logger) *api.Handler {
	return api.NewHandler(svc, metrics, logger)
}
