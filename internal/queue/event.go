// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/smart-health-monitoring/internal/model"
)

// BatchSavedQueue is the durable queue that carries BatchSavedEvent.
const BatchSavedQueue = "healthdata.batch_saved"

// BatchSavedEvent is published after a batch of readings has been written to
// health_data.  It summarizes the batch so downstream consumers can log or
// alert without querying the database.
type BatchSavedEvent struct {
	BatchID         string  `json:"batch_id"`
	Count           int     `json:"count"`
	FirstRecordedAt string  `json:"first_recorded_at"`
	LastRecordedAt  string  `json:"last_recorded_at"`
	AvgHeartRate    float64 `json:"avg_heart_rate"`
	AvgOxygenLevel  float64 `json:"avg_oxygen_level"`
	MinOxygenLevel  int     `json:"min_oxygen_level"`
	MaxHeartRate    int     `json:"max_heart_rate"`
	SavedAt         string  `json:"saved_at"`
}

// NewBatchSavedEvent summarizes readings under a fresh batch id.
func NewBatchSavedEvent(readings []model.Reading, savedAt time.Time) BatchSavedEvent {
	ev := BatchSavedEvent{
		BatchID: uuid.NewString(),
		Count:   len(readings),
		SavedAt: savedAt.UTC().Format(time.RFC3339Nano),
	}
	if len(readings) == 0 {
		return ev
	}

	var hr, ox int
	ev.MinOxygenLevel = readings[0].OxygenLevel
	for _, r := range readings {
		hr += r.HeartRate
		ox += r.OxygenLevel
		ev.MinOxygenLevel = min(ev.MinOxygenLevel, r.OxygenLevel)
		ev.MaxHeartRate = max(ev.MaxHeartRate, r.HeartRate)
	}
	n := float64(len(readings))
	ev.AvgHeartRate = float64(hr) / n
	ev.AvgOxygenLevel = float64(ox) / n
	ev.FirstRecordedAt = readings[0].Timestamp.UTC().Format(time.RFC3339Nano)
	ev.LastRecordedAt = readings[len(readings)-1].Timestamp.UTC().Format(time.RFC3339Nano)
	return ev
}
