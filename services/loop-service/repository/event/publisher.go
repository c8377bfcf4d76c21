// Package event publishes domain events to Kafka
package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"

	"loop/pkg/kafka"
	"loop/pkg/logger"
	"loop/services/loop-service/domain/model"
	"loop/services/loop-service/domain/repository"
)

// KafkaPublisher produces each event as a JSON record keyed by Event.Key, so the events
// of one sale land on one partition in order.
type KafkaPublisher struct {
	client kafka.KafkaClient
	topic  string
	source string
	logger logger.LoggerInterface
	now    func() time.Time
}

var _ repository.EventPublisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates a publisher writing to topic. source is sent in the
// "source" header of every record.
func NewKafkaPublisher(client kafka.KafkaClient, topic, source string, appLogger logger.LoggerInterface) *KafkaPublisher {
	return &KafkaPublisher{
		client: client,
		topic:  topic,
		source: source,
		logger: appLogger.With("component", "event_publisher"),
		now:    time.Now,
	}
}

// Publish fills in the event ID and time when missing and hands the record to the producer
// without waiting for delivery. Failures are logged only.
func (p *KafkaPublisher) Publish(ctx context.Context, event model.Event) {
	if event.ID == "" {
		event.ID = ulid.Make().String()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = p.now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to encode event", "type", event.Type, "error", err)
		return
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.Key),
		Value: value,
		Headers: map[string]string{
			"event_type": string(event.Type),
			"source":     p.source,
		},
	}

	// The request context ends with the response; delivery must outlive it.
	p.client.ProduceAsync(context.WithoutCancel(ctx), msg, func(err error) {
		if err != nil {
			p.logger.ErrorContext(ctx, "Failed to publish event", "id", event.ID, "type", event.Type, "error", err)
			return
		}
		p.logger.DebugContext(ctx, "Event published", "id", event.ID, "type", event.Type)
	})
}

// Close drains buffered events and closes the client
func (p *KafkaPublisher) Close(ctx context.Context) error {
	flushErr := p.client.Flush(ctx)
	if err := p.client.Close(); err != nil {
		return err
	}
	return flushErr
}

// NoopPublisher drops every event. It is used when Kafka is disabled.
type NoopPublisher struct{}

var _ repository.EventPublisher = NoopPublisher{}

func (NoopPublisher) Publish(context.Context, model.Event) {}

func (NoopPublisher) Close(context.Context) error { return nil }
