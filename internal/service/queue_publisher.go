package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	q "github.com/iliyamo/smart-health-monitoring/internal/queue"
)

// DefaultDialTimeout bounds the TCP dial and AMQP handshake of one publish.
const DefaultDialTimeout = 2 * time.Second

// QueuePublisher publishes domain events to RabbitMQ.  Each publish opens
// and closes its own broker connection.  Errors are returned, not logged,
// so the caller decides how loudly to report them.
type QueuePublisher struct {
	url         string
	dialTimeout time.Duration
	logger      zerolog.Logger
}

// NewQueuePublisher returns a publisher for the broker at url.
func NewQueuePublisher(url string, logger zerolog.Logger) *QueuePublisher {
	return &QueuePublisher{
		url:         url,
		dialTimeout: DefaultDialTimeout,
		logger:      logger.With().Str("component", "rabbitmq").Logger(),
	}
}

// timeoutFor returns the dial timeout, shortened to ctx's deadline.
func (p *QueuePublisher) timeoutFor(ctx context.Context) time.Duration {
	d := p.dialTimeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < d {
			d = left
		}
	}
	if d <= 0 {
		d = time.Millisecond
	}
	return d
}

// PublishBatchSaved publishes event to the healthdata.batch_saved queue as
// a persistent JSON message.
func (p *QueuePublisher) PublishBatchSaved(ctx context.Context, event q.BatchSavedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// DefaultDial also puts a deadline on the handshake, so a broker that
	// accepts TCP but never speaks AMQP cannot hold the request.
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(p.timeoutFor(ctx)),
	})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		q.BatchSavedQueue, // name
		true,              // durable
		false,             // autoDelete
		false,             // exclusive
		false,             // noWait
		nil,               // args
	); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		MessageId:    event.BatchID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",                // default exchange
		q.BatchSavedQueue, // routing key = queue name
		false,             // mandatory
		false,             // immediate
		pub,
	); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	p.logger.Debug().Str("batch_id", event.BatchID).Msg("batch event published")
	return nil
}
