// Package handler exposes the HTTP handlers of the API.
// This file defines the handler that fabricates a batch of patient readings,
// stores it and returns it.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/smart-health-monitoring/internal/middleware"
	"github.com/iliyamo/smart-health-monitoring/internal/model"
	"github.com/iliyamo/smart-health-monitoring/internal/queue"
)

// ReadingGenerator produces one batch of readings per call.
type ReadingGenerator interface {
	Generate() []model.Reading
}

// ReadingSaver persists a batch of readings.  *repository.HealthDataRepo
// is the production implementation.
type ReadingSaver interface {
	Save(ctx context.Context, readings []model.Reading) error
}

// BatchPublisher announces a saved batch.  *service.QueuePublisher is the
// production implementation.
type BatchPublisher interface {
	PublishBatchSaved(ctx context.Context, event queue.BatchSavedEvent) error
}

// HealthDataHandler serves GET /api/healthdata.
type HealthDataHandler struct {
	gen       ReadingGenerator
	saver     ReadingSaver
	publisher BatchPublisher // optional
	logger    zerolog.Logger
	now       func() time.Time
}

// NewHealthDataHandler constructs the handler and panics if a required
// dependency is nil.  publisher may be nil to disable batch events.
func NewHealthDataHandler(gen ReadingGenerator, saver ReadingSaver, publisher BatchPublisher, logger zerolog.Logger) *HealthDataHandler {
	if gen == nil || saver == nil {
		panic("nil dependency passed to NewHealthDataHandler")
	}
	return &HealthDataHandler{
		gen:       gen,
		saver:     saver,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// GetAllPatientsHealthData handles GET /api/healthdata.  It generates a new
// batch, writes it, and returns the batch as a JSON array.  If the write
// fails nothing of the batch is returned.
func (h *HealthDataHandler) GetAllPatientsHealthData(c echo.Context) error {
	ctx := c.Request().Context()
	readings := h.gen.Generate()

	if err := h.saver.Save(ctx, readings); err != nil {
		h.logger.Error().
			Err(err).
			Str("request_id", middleware.RequestIDFrom(c)).
			Int("count", len(readings)).
			Msg("save health data failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not save health data"})
	}

	if h.publisher != nil {
		ev := queue.NewBatchSavedEvent(readings, h.now())
		// best effort: a broker outage never fails the request
		if err := h.publisher.PublishBatchSaved(ctx, ev); err != nil {
			h.logger.Warn().Err(err).Str("batch_id", ev.BatchID).Msg("publish batch event failed")
		}
	}

	return c.JSON(http.StatusOK, readings)
}
