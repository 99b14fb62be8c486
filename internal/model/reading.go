package model

import "time"

// Reading is one synthetic vital-sign sample for a single patient.  A
// request produces a fresh batch of readings; nothing is kept between
// requests, so ID is only unique inside one batch.
//
// Fields:
//  ID            – position of the patient in the batch (1-based).
//  HeartRate     – beats per minute.
//  BloodPressure – "<systolic>/<diastolic>" in mmHg.
//  OxygenLevel   – SpO2 percentage.
//  Timestamp     – wall-clock time the reading was generated.
type Reading struct {
	ID            int       `json:"id"`            // health_data.user_id
	HeartRate     int       `json:"heartRate"`     // health_data.heart_rate
	BloodPressure string    `json:"bloodPressure"` // health_data.blood_pressure
	OxygenLevel   int       `json:"oxygenLevel"`   // health_data.temperature (see repository.HealthDataRepo)
	Timestamp     time.Time `json:"timestamp"`     // health_data.recorded_at
}
