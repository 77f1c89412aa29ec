package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ReadingStored()
	m.ReadingStored()
	m.Rejected(ReasonValidation)
	m.AlertAttempted(true)
	m.AlertAttempted(false)
	m.AlertAttempted(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.readingsStored))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejected.WithLabelValues(ReasonValidation)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.alerts.WithLabelValues("sent")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.alerts.WithLabelValues("failed")))
}
