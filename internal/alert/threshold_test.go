package alert_test

import (
	"testing"

	"github.com/septivank/sensor-ingest/internal/alert"
)

func TestShouldAlert_AboveThreshold(t *testing.T) {
	policy := alert.NewPolicy(alert.DefaultHumidityThreshold)

	triggered, reason := policy.ShouldAlert(70.0)

	if !triggered {
		t.Error("Expected alert for humidity above threshold")
	}
	if reason == "" {
		t.Error("Expected reason for triggered alert")
	}
}

func TestShouldAlert_AtThreshold(t *testing.T) {
	policy := alert.NewPolicy(alert.DefaultHumidityThreshold)

	// Strictly greater than: exactly 65% does not alert
	if triggered, _ := policy.ShouldAlert(65.0); triggered {
		t.Error("Expected no alert at exactly the threshold")
	}
}

func TestShouldAlert_BelowThreshold(t *testing.T) {
	policy := alert.NewPolicy(alert.DefaultHumidityThreshold)

	for _, humidity := range []float64{0, 30.5, 60.3, 64.99} {
		if triggered, reason := policy.ShouldAlert(humidity); triggered {
			t.Errorf("Expected no alert for %.2f, got: %s", humidity, reason)
		}
	}
}

func TestShouldAlert_JustAboveThreshold(t *testing.T) {
	policy := alert.NewPolicy(alert.DefaultHumidityThreshold)

	if triggered, _ := policy.ShouldAlert(65.01); !triggered {
		t.Error("Expected alert just above the threshold")
	}
}

func TestThreshold_Custom(t *testing.T) {
	policy := alert.NewPolicy(80)

	if policy.Threshold() != 80 {
		t.Errorf("Expected threshold 80, got %v", policy.Threshold())
	}
	if triggered, _ := policy.ShouldAlert(70); triggered {
		t.Error("Expected no alert below custom threshold")
	}
}
