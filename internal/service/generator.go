// Package service holds the non-HTTP building blocks of the API: the
// synthetic reading generator and the RabbitMQ publisher for batch events.
package service

import (
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/iliyamo/smart-health-monitoring/internal/model"
)

// PatientCount is the number of synthetic patients produced per batch.
const PatientCount = 100

// Value ranges are half-open: Min is inclusive, Max is exclusive.
const (
	HeartRateMin = 60
	HeartRateMax = 100
	SystolicMin  = 110
	SystolicMax  = 130
	DiastolicMin = 70
	DiastolicMax = 85
	OxygenMin    = 90
	OxygenMax    = 100
)

// Generator fabricates batches of readings.  It is safe for concurrent use:
// every call to Generate builds its own random source, seeded from the
// process-wide generator of math/rand/v2.
type Generator struct {
	count   int
	now     func() time.Time
	newRand func() *rand.Rand
}

// NewGenerator returns a Generator producing PatientCount readings per batch.
func NewGenerator() *Generator {
	return &Generator{
		count: PatientCount,
		now:   time.Now,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
}

// Generate returns a new batch of readings with IDs 1..PatientCount in order.
// Each reading is stamped with the time it was generated.
func (g *Generator) Generate() []model.Reading {
	r := g.newRand()
	out := make([]model.Reading, 0, g.count)
	for i := 1; i <= g.count; i++ {
		out = append(out, model.Reading{
			ID:            i,
			HeartRate:     between(r, HeartRateMin, HeartRateMax),
			BloodPressure: FormatBloodPressure(between(r, SystolicMin, SystolicMax), between(r, DiastolicMin, DiastolicMax)),
			OxygenLevel:   between(r, OxygenMin, OxygenMax),
			Timestamp:     g.now(),
		})
	}
	return out
}

// between returns a uniform value in [lo, hi).
func between(r *rand.Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo)
}

// FormatBloodPressure renders a systolic/diastolic pair as "sys/dia".
func FormatBloodPressure(systolic, diastolic int) string {
	return strconv.Itoa(systolic) + "/" + strconv.Itoa(diastolic)
}
