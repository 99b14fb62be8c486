// Package repository contains data access logic separated from HTTP handlers.
// This file defines the writer for the pre-existing health_data table.
package repository

import (
	"context"      // context carries request cancellation into DB calls
	"database/sql" // sql provides the connection pool and dedicated connections
	"fmt"          // fmt wraps driver errors with the failing position

	"github.com/iliyamo/smart-health-monitoring/internal/model"
)

// insertReading writes one reading.  The temperature column receives the
// oxygen level: existing rows were written with this mapping and readers of
// the table depend on it.  It is kept as is until the schema owner decides
// whether the column should be renamed.
const insertReading = `INSERT INTO health_data
	(user_id, heart_rate, blood_pressure, temperature, recorded_at)
	VALUES (?, ?, ?, ?, ?)`

// HealthDataRepo persists batches of readings.  It depends on a sql.DB
// handle which should be configured elsewhere.
type HealthDataRepo struct {
	db *sql.DB
}

// NewHealthDataRepo constructs a HealthDataRepo with the provided DB handle.
func NewHealthDataRepo(db *sql.DB) *HealthDataRepo {
	return &HealthDataRepo{db: db}
}

// Save inserts every reading in order, one statement per reading, over a
// connection acquired for this call only.  The first failing insert stops
// the batch; rows written before it are left in place since no transaction
// wraps the batch.
func (r *HealthDataRepo) Save(ctx context.Context, readings []model.Reading) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer conn.Close() // always hand the connection back, including on failure

	for i, rd := range readings {
		if _, err := conn.ExecContext(ctx, insertReading,
			rd.ID,
			rd.HeartRate,
			rd.BloodPressure,
			rd.OxygenLevel, // -> temperature
			rd.Timestamp,
		); err != nil {
			return fmt.Errorf("insert reading %d of %d (user_id=%d): %w", i+1, len(readings), rd.ID, err)
		}
	}
	return nil
}
