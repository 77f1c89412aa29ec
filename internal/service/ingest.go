package service

import (
	"context"
	"fmt"
	"time"

	"github.com/septivank/sensor-ingest/internal/alert"
	"github.com/septivank/sensor-ingest/internal/db"
	"github.com/septivank/sensor-ingest/internal/logging"
	"github.com/septivank/sensor-ingest/internal/metrics"
	"github.com/septivank/sensor-ingest/internal/mq"
	"github.com/septivank/sensor-ingest/internal/notify"
	"github.com/septivank/sensor-ingest/internal/validator"
	"go.uber.org/zap"
)

// ReadingStore persists readings and returns the store-assigned id
type ReadingStore interface {
	PushReading(ctx context.Context, reading *db.SensorReading) (string, error)
}

// EventPublisher announces persisted readings
type EventPublisher interface {
	PublishReadingStored(ctx context.Context, event mq.ReadingStoredEvent) error
}

// NopPublisher is used when no broker is configured
type NopPublisher struct{}

// PublishReadingStored implements EventPublisher
func (NopPublisher) PublishReadingStored(context.Context, mq.ReadingStoredEvent) error {
	return nil
}

// Result is the outcome of one successful ingestion
type Result struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	DeviceID    string  `json:"device_id"`
	ReadingID   string  `json:"reading_id"`
	AlertSent   bool    `json:"alert_sent"`
}

// IngestService validates, persists and alerts on sensor readings
type IngestService struct {
	store     ReadingStore
	publisher EventPublisher
	notifier  notify.Notifier
	policy    *alert.Policy
	validator *validator.Validator
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewIngestService creates a new ingest service
func NewIngestService(
	store ReadingStore,
	publisher EventPublisher,
	notifier notify.Notifier,
	policy *alert.Policy,
	validator *validator.Validator,
	metrics *metrics.Metrics,
	logger *zap.Logger,
) *IngestService {
	return &IngestService{
		store:     store,
		publisher: publisher,
		notifier:  notifier,
		policy:    policy,
		validator: validator,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Ingest validates payload, stores the reading and, when humidity is above
// the alert threshold, notifies. Validation failures are returned as
// *validator.ValidationError; any other error comes from the store.
func (s *IngestService) Ingest(ctx context.Context, payload validator.Payload) (*Result, error) {
	logger := logging.FromContext(ctx, s.logger)

	reading, err := s.validator.Validate(payload)
	if err != nil {
		s.metrics.Rejected(metrics.ReasonValidation)
		logger.Info("rejected sensor payload", zap.String("reason", err.Error()))
		return nil, err
	}

	// downstream calls finish even if the caller goes away
	ctx = context.WithoutCancel(ctx)

	record := &db.SensorReading{
		Temperature: reading.Temperature,
		Humidity:    reading.Humidity,
		DeviceID:    reading.DeviceID,
		Timestamp:   s.now().UTC(),
	}

	readingID, err := s.store.PushReading(ctx, record)
	if err != nil {
		s.metrics.Rejected(metrics.ReasonStorage)
		logger.Error("failed to store reading", zap.Error(err), zap.String("device_id", record.DeviceID))
		return nil, fmt.Errorf("failed to store reading: %w", err)
	}
	s.metrics.ReadingStored()

	logger = logger.With(zap.String("reading_id", readingID), zap.String("device_id", record.DeviceID))
	logger.Info("sensor reading stored",
		zap.Float64("temperature", record.Temperature),
		zap.Float64("humidity", record.Humidity),
	)

	alertSent := false
	if triggered, reason := s.policy.ShouldAlert(record.Humidity); triggered {
		logger.Info("humidity alert triggered", zap.String("reason", reason))
		alertSent = s.notifier.SendAlert(ctx, record.Humidity, record.Temperature, record.DeviceID)
		s.metrics.AlertAttempted(alertSent)
	}

	event := mq.ReadingStoredEvent{
		ReadingID:   readingID,
		DeviceID:    record.DeviceID,
		Temperature: record.Temperature,
		Humidity:    record.Humidity,
		Timestamp:   record.Timestamp.Format(time.RFC3339Nano),
		AlertSent:   alertSent,
	}
	if err := s.publisher.PublishReadingStored(ctx, event); err != nil {
		// the reading is already stored; the event is best-effort
		logger.Warn("failed to publish reading stored event", zap.Error(err))
	}

	return &Result{
		Temperature: record.Temperature,
		Humidity:    record.Humidity,
		DeviceID:    record.DeviceID,
		ReadingID:   readingID,
		AlertSent:   alertSent,
	}, nil
}

// ProcessMessage ingests a raw payload delivered through the message queue
func (s *IngestService) ProcessMessage(ctx context.Context, body []byte) error {
	payload, err := validator.DecodePayload(body)
	if err != nil {
		s.metrics.Rejected(metrics.ReasonPayload)
		return fmt.Errorf("failed to decode message: %w", err)
	}

	if _, err := s.Ingest(ctx, payload); err != nil {
		return err
	}
	return nil
}
