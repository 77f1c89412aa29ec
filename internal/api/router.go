package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter mounts the ingestion endpoint, health and metrics
func NewRouter(h *Handler, gatherer prometheus.Gatherer, logger *zap.Logger) http.Handler {
	r := mux.NewRouter()

	// every method reaches the handler so non-POST gets the JSON 405
	r.HandleFunc("/", h.ReceiveSensorData)
	r.HandleFunc("/receive_sensor_data", h.ReceiveSensorData)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found", nil)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	// wraps the whole router so unmatched requests are logged too
	logged := withRequestLogging(logger)(r)

	recoveryLog, _ := zap.NewStdLogAt(logger, zap.ErrorLevel)
	return handlers.ProxyHeaders(handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLog),
	)(logged))
}
