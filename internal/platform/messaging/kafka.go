package messaging

import (
	"context"
	"log/slog"

	contractsv1 "solutionshub/contracts/gen/events/v1"
)

// Kafka is the publish adapter the outbox relay drains into. Settlement
// event consumers live in downstream services, so only the producer side
// is wired here; delivery is a log record while runtime wiring is
// finalized for external brokers.
type Kafka struct {
	logger *slog.Logger
}

func NewKafka(_ []string, logger *slog.Logger) (*Kafka, error) {
	return &Kafka{logger: logger}, nil
}

func (k *Kafka) Publish(ctx context.Context, topic string, event contractsv1.Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if k.logger != nil {
		k.logger.Info("event published",
			"event", "kafka_publish",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"event_id", event.EventID,
			"event_type", event.EventType,
		)
	}
	return nil
}
