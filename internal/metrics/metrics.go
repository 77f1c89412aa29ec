package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Rejection reasons
const (
	ReasonMethod     = "method"
	ReasonPayload    = "payload"
	ReasonValidation = "validation"
	ReasonStorage    = "storage"
)

// Metrics holds the ingestion counters
type Metrics struct {
	readingsStored prometheus.Counter
	rejected       *prometheus.CounterVec
	alerts         *prometheus.CounterVec
}

// New registers the ingestion counters on reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		readingsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sensor_ingest",
			Name:      "readings_stored_total",
			Help:      "Sensor readings persisted.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sensor_ingest",
			Name:      "rejected_total",
			Help:      "Requests rejected, by reason.",
		}, []string{"reason"}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sensor_ingest",
			Name:      "alerts_total",
			Help:      "Humidity alerts attempted, by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.readingsStored, m.rejected, m.alerts)
	return m
}

// ReadingStored counts one persisted reading
func (m *Metrics) ReadingStored() {
	m.readingsStored.Inc()
}

// Rejected counts one rejected request
func (m *Metrics) Rejected(reason string) {
	m.rejected.WithLabelValues(reason).Inc()
}

// AlertAttempted counts one notification attempt
func (m *Metrics) AlertAttempted(sent bool) {
	result := "failed"
	if sent {
		result = "sent"
	}
	m.alerts.WithLabelValues(result).Inc()
}
