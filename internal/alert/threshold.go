package alert

import (
	"fmt"
)

// DefaultHumidityThreshold is the humidity, in percent, above which an alert is raised
const DefaultHumidityThreshold = 65.0

// Policy decides whether a reading should trigger a notification
type Policy struct {
	humidityThreshold float64
}

// NewPolicy creates a new alert policy with the specified humidity threshold
func NewPolicy(humidityThreshold float64) *Policy {
	return &Policy{humidityThreshold: humidityThreshold}
}

// Threshold returns the configured humidity threshold
func (p *Policy) Threshold() float64 {
	return p.humidityThreshold
}

// ShouldAlert reports whether humidity strictly exceeds the threshold
func (p *Policy) ShouldAlert(humidity float64) (bool, string) {
	if humidity > p.humidityThreshold {
		return true, fmt.Sprintf("humidity %.1f%% exceeds threshold %.1f%%", humidity, p.humidityThreshold)
	}
	return false, ""
}
