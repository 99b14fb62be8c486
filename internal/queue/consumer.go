// Package queue contains the background consumer that listens to the
// healthdata.batch_saved queue and appends one line per batch to
// <dir>/healthdata.log.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// BatchLogFile is the file name the consumer appends to inside its directory.
const BatchLogFile = "healthdata.log"

// BatchConsumer drains BatchSavedQueue into an audit log file.
type BatchConsumer struct {
	url    string
	dir    string
	logger zerolog.Logger
}

// NewBatchConsumer returns a consumer for the broker at url writing into dir.
func NewBatchConsumer(url, dir string, logger zerolog.Logger) *BatchConsumer {
	return &BatchConsumer{url: url, dir: dir, logger: logger.With().Str("component", "batch-consumer").Logger()}
}

// Run connects to RabbitMQ, declares the queue (durable) and consumes until
// ctx is cancelled.  Broker failures are retried with a capped exponential
// backoff; a message that cannot be handled is rejected without requeue so
// the consumer keeps going.
func (bc *BatchConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(bc.url)
		if err != nil {
			bc.logger.Warn().Err(err).Dur("retry_in", backoff).Msg("failed to dial broker")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = bc.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		bc.logger.Warn().Err(err).Msg("consume loop ended; reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (bc *BatchConsumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		bc.logger.Warn().Err(err).Msg("set QoS failed")
	}

	if _, err := ch.QueueDeclare(BatchSavedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(BatchSavedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := bc.HandleMessage(d.Body); err != nil {
				bc.logger.Error().Err(err).Msg("handle message failed")
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleMessage decodes one BatchSavedEvent and appends it to the log file.
func (bc *BatchConsumer) HandleMessage(body []byte) error {
	var ev BatchSavedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll(bc.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", bc.dir, err)
	}
	f, err := os.OpenFile(filepath.Join(bc.dir, BatchLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatBatchLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatBatchLine renders ev as a single human-friendly log line.
func FormatBatchLine(ev BatchSavedEvent) string {
	return fmt.Sprintf("[%s] Batch saved | batch_id=%s | count=%d | first=%s | last=%s | avg_hr=%.1f | max_hr=%d | avg_o2=%.1f | min_o2=%d\n",
		ev.SavedAt, ev.BatchID, ev.Count, ev.FirstRecordedAt, ev.LastRecordedAt,
		ev.AvgHeartRate, ev.MaxHeartRate, ev.AvgOxygenLevel, ev.MinOxygenLevel)
}

// sleep waits for d or until ctx is done; it reports whether d elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
