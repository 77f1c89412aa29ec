package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/septivank/sensor-ingest/internal/db"
)

// ReadingsPath is the logical location every reading is pushed under
const ReadingsPath = "sensor_readings"

// Querier is the subset of *pgxpool.Pool the repository needs
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository handles database operations
type Repository struct {
	pool Querier
	path string
}

// NewRepository creates a new repository writing to ReadingsPath
func NewRepository(pool Querier) *Repository {
	return &Repository{pool: pool, path: ReadingsPath}
}

// PushReading appends a reading under the readings path. The database
// assigns the key, which is returned as the reading id.
func (r *Repository) PushReading(ctx context.Context, reading *db.SensorReading) (string, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (temperature, humidity, device_id, "timestamp")
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, pgx.Identifier{r.path}.Sanitize())

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		reading.Temperature,
		reading.Humidity,
		reading.DeviceID,
		reading.Timestamp,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to push reading to %s: %w", r.path, err)
	}

	reading.ID = id
	return id.String(), nil
}
