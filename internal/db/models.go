package db

import (
	"time"

	"github.com/google/uuid"
)

// SensorReading represents a stored temperature/humidity sample.
// ID is assigned by the database on insert.
type SensorReading struct {
	ID          uuid.UUID
	Temperature float64
	Humidity    float64
	DeviceID    string
	Timestamp   time.Time
}
