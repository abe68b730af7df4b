package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "solutionshub/contexts/finance-core/payment-settlement/application"
	"solutionshub/contexts/finance-core/payment-settlement/ports"
)

// OutboxRelay drains pending settlement events onto the message bus.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	Topic     string
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}
	topic := r.Topic
	if topic == "" {
		topic = "finance.settlement"
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("settlement outbox list pending failed",
			"event", "settlement_outbox_list_failed",
			"module", "finance-core/payment-settlement",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, message := range pending {
		var envelope ports.EventEnvelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			logger.Error("settlement outbox payload decode failed",
				"event", "settlement_outbox_decode_failed",
				"module", "finance-core/payment-settlement",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Publisher.Publish(ctx, topic, envelope); err != nil {
			logger.Error("settlement outbox publish failed",
				"event", "settlement_outbox_publish_failed",
				"module", "finance-core/payment-settlement",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"event_id", envelope.EventID,
				"event_type", envelope.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, message.OutboxID, now); err != nil {
			logger.Error("settlement outbox mark published failed",
				"event", "settlement_outbox_mark_published_failed",
				"module", "finance-core/payment-settlement",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	if len(pending) > 0 {
		logger.Info("settlement outbox relay completed",
			"event", "settlement_outbox_relay_completed",
			"module", "finance-core/payment-settlement",
			"layer", "worker",
			"published_count", len(pending),
		)
	}
	return nil
}
