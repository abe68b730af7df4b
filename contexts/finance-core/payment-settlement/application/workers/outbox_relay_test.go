package workers_test

import (
	"context"
	"testing"
	"time"

	"solutionshub/contexts/finance-core/payment-settlement/adapters/memory"
	"solutionshub/contexts/finance-core/payment-settlement/application/commands"
	"solutionshub/contexts/finance-core/payment-settlement/application/workers"
	"solutionshub/contexts/finance-core/payment-settlement/domain/entities"
	"solutionshub/contexts/finance-core/payment-settlement/ports"
)

type capturingPublisher struct {
	topics    []string
	published []ports.EventEnvelope
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	p.topics = append(p.topics, topic)
	p.published = append(p.published, event)
	return nil
}

type relayClock struct {
	now time.Time
}

func (c relayClock) Now() time.Time { return c.now }

var relayBase = time.Date(2025, time.May, 1, 8, 0, 0, 0, time.UTC)

func TestOutboxRelayPublishesAndDrains(t *testing.T) {
	payment := entities.Payment{
		ID:     "pay-relay",
		Amount: 1000,
		Type:   entities.PaymentTypeMilestone,
		Status: entities.PaymentStatusPending,
		SourceRef: entities.SourceRef{
			Kind: entities.SourceKindPhase,
			ID:   "phase-relay",
		},
		CreatedAt: relayBase,
		UpdatedAt: relayBase,
	}
	store := memory.NewStore([]entities.Payment{payment})
	store.SeedPolicy(payment.SourceRef, entities.SplitPolicy{Lines: []entities.SplitLine{
		{RecipientType: entities.RecipientTypeBuilder, RecipientID: "builder-1", Percentage: 100},
	}})
	useCase := commands.UseCase{
		Payments: store,
		Ledger:   store,
		Policies: store,
		Outbox:   store,
		Clock:    relayClock{now: relayBase.Add(time.Hour)},
		IDGen:    store,
	}
	ctx := context.Background()
	if settled, err := useCase.MarkReceived(ctx, "pay-relay"); err != nil || !settled {
		t.Fatalf("fixture settlement: settled=%v err=%v", settled, err)
	}

	publisher := &capturingPublisher{}
	relay := workers.OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Clock:     relayClock{now: relayBase.Add(2 * time.Hour)},
	}

	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if len(publisher.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(publisher.published))
	}
	if publisher.topics[0] != "finance.settlement" {
		t.Fatalf("expected default topic, got %s", publisher.topics[0])
	}
	if publisher.published[0].EventType != "payment.settled" {
		t.Fatalf("unexpected event type: %s", publisher.published[0].EventType)
	}

	// A second run finds nothing pending.
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("second relay run failed: %v", err)
	}
	if len(publisher.published) != 1 {
		t.Fatalf("expected no re-publish, got %d events", len(publisher.published))
	}
}

func TestSweepJobRunOnce(t *testing.T) {
	payment := entities.Payment{
		ID:     "pay-job",
		Amount: 1000,
		Type:   entities.PaymentTypeMilestone,
		Status: entities.PaymentStatusPending,
		SourceRef: entities.SourceRef{
			Kind: entities.SourceKindPhase,
			ID:   "phase-job",
		},
		CreatedAt: relayBase,
		UpdatedAt: relayBase,
	}
	store := memory.NewStore([]entities.Payment{payment})
	store.SeedPolicy(payment.SourceRef, entities.SplitPolicy{Lines: []entities.SplitLine{
		{RecipientType: entities.RecipientTypeBuilder, RecipientID: "builder-1", Percentage: 100},
	}})
	job := workers.SweepJob{
		Commands: commands.UseCase{
			Payments: store,
			Ledger:   store,
			Policies: store,
			Outbox:   store,
			Clock:    relayClock{now: relayBase.Add(72 * time.Hour)},
			IDGen:    store,
		},
	}
	ctx := context.Background()

	if err := job.RunOnce(ctx); err != nil {
		t.Fatalf("sweep job failed: %v", err)
	}
	settled, _ := store.GetPayment(ctx, "pay-job")
	if settled.Status != entities.PaymentStatusReceived {
		t.Fatalf("expected payment settled by sweep job, got %s", settled.Status)
	}
}
