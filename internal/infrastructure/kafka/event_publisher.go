package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/altcred/trustengine/internal/domain/event"
	pkgkafka "github.com/altcred/trustengine/pkg/kafka"
)

// EventPublisher implements port.EventPublisher by writing events to Kafka.
type EventPublisher struct {
	producer *pkgkafka.Producer
	logger   *slog.Logger
}

// NewEventPublisher creates a publisher on top of a topic-bound producer.
func NewEventPublisher(producer *pkgkafka.Producer, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{
		producer: producer,
		logger:   logger,
	}
}

// eventEnvelope is the wire format: event metadata plus the event's own
// fields as payload.
type eventEnvelope struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	SubjectID   string    `json:"subject_id"`
	SubjectType string    `json:"subject_type"`
	OccurredAt  time.Time `json:"occurred_at"`
	Payload     any       `json:"payload"`
}

// Publish serialises and sends domain events to Kafka. Messages are keyed by
// subject ID so events about the same subject stay ordered per partition.
func (p *EventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	messages := make([]pkgkafka.Message, 0, len(events))
	for _, evt := range events {
		envelope := eventEnvelope{
			EventID:     evt.EventID().String(),
			EventType:   evt.EventType(),
			SubjectID:   evt.SubjectID(),
			SubjectType: evt.SubjectType(),
			OccurredAt:  evt.OccurredAt(),
			Payload:     evt,
		}
		payload, err := json.Marshal(envelope)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
		}

		p.logger.DebugContext(ctx, "publishing domain event",
			"event_type", evt.EventType(),
			"subject_id", evt.SubjectID(),
			"payload_size", len(payload),
		)

		messages = append(messages, pkgkafka.Message{
			Key:   []byte(evt.SubjectID()),
			Value: payload,
			Headers: map[string]string{
				"event_type": evt.EventType(),
				"event_id":   evt.EventID().String(),
			},
		})
	}

	if len(messages) == 0 {
		return nil
	}

	if err := p.producer.Publish(ctx, messages...); err != nil {
		return fmt.Errorf("publish domain events: %w", err)
	}
	return nil
}

// NoopPublisher discards events. Used when Kafka is disabled.
type NoopPublisher struct{}

// Publish drops the events.
func (NoopPublisher) Publish(context.Context, ...event.DomainEvent) error { return nil }
