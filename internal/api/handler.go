package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/septivank/sensor-ingest/internal/logging"
	"github.com/septivank/sensor-ingest/internal/metrics"
	"github.com/septivank/sensor-ingest/internal/service"
	"github.com/septivank/sensor-ingest/internal/validator"
	"go.uber.org/zap"
)

// maxBodyBytes caps a single sensor payload
const maxBodyBytes = 64 << 10

// Ingester is the pipeline behind the HTTP endpoint
type Ingester interface {
	Ingest(ctx context.Context, payload validator.Payload) (*service.Result, error)
}

// Handler serves the sensor ingestion endpoint
type Handler struct {
	ingester Ingester
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewHandler creates a new ingestion handler
func NewHandler(ingester Ingester, metrics *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{ingester: ingester, metrics: metrics, logger: logger}
}

// ReceiveSensorData accepts one POSTed sensor sample
func (h *Handler) ReceiveSensorData(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), h.logger)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("panic while handling sensor data", zap.Any("panic", rec), zap.Stack("stack"))
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("Internal server error: %v", rec), nil)
		}
	}()

	if r.Method != http.MethodPost {
		h.metrics.Rejected(metrics.ReasonMethod)
		writeError(w, http.StatusMethodNotAllowed, "Only POST method is allowed", nil)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.metrics.Rejected(metrics.ReasonPayload)
		logger.Info("failed to read request body", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid JSON payload", nil)
		return
	}

	payload, err := validator.DecodePayload(body)
	switch {
	case errors.Is(err, validator.ErrEmptyPayload):
		h.metrics.Rejected(metrics.ReasonPayload)
		writeError(w, http.StatusBadRequest, "No data provided", nil)
		return
	case err != nil:
		h.metrics.Rejected(metrics.ReasonPayload)
		logger.Info("malformed sensor payload", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid JSON payload", nil)
		return
	}

	result, err := h.ingester.Ingest(r.Context(), payload)
	if err != nil {
		var verr *validator.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Message, verr.Fields)
			return
		}
		writeError(w, http.StatusInternalServerError, "Internal server error: "+err.Error(), nil)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{
		Status:  "success",
		Message: successMessage,
		Data:    result,
	})
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
