package ports

import (
	"context"
	"time"

	contractsv1 "solutionshub/contracts/gen/events/v1"

	"solutionshub/contexts/finance-core/payment-settlement/domain/entities"
)

// SettlePaymentInput carries everything the store needs to settle one
// payment atomically: the conditional status flip and the ledger rows
// must land in the same transaction, or neither does.
type SettlePaymentInput struct {
	PaymentID string
	PaidAt    time.Time
	Entries   []entities.EarningsLedgerEntry
	// RequireNoOverride adds `override IS NULL` to the settle predicate.
	// The automatic sweep sets it; the manual mark-received path does not,
	// since a human settling a flagged payment is the review outcome.
	RequireNoOverride bool
	// Event, when set, is appended to the outbox inside the settlement
	// transaction so the state change and its event commit or roll back
	// together.
	Event *EventEnvelope
}

type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment entities.Payment) error
	GetPayment(ctx context.Context, paymentID string) (entities.Payment, error)
	ListPendingPayments(ctx context.Context) ([]entities.Payment, error)
	ListPaymentsByMonth(ctx context.Context, year int, month time.Month) ([]entities.Payment, error)
	// TransitionPayment conditionally moves a payment from one status to
	// another and reports rows affected. A stale precondition is a normal
	// zero, not an error.
	TransitionPayment(ctx context.Context, paymentID string, from, to entities.PaymentStatus) (int64, error)
	// SettlePayment performs the compare-and-swap settlement: flip to
	// received only while the predicate still holds, writing the ledger
	// entries in the same transaction. Returns false when a concurrent
	// actor already won the transition.
	SettlePayment(ctx context.Context, input SettlePaymentInput) (bool, error)
	SetOverride(ctx context.Context, paymentID string, override entities.Override) error
	// ClearOverride removes the hold and reports whether one was present.
	ClearOverride(ctx context.Context, paymentID string) (bool, error)
}

type LedgerFilter struct {
	Status        *entities.EntryStatus
	RecipientType *entities.RecipientType
	Year          int
	Month         time.Month
}

type LedgerRepository interface {
	GetEntry(ctx context.Context, entryID string) (entities.EarningsLedgerEntry, error)
	ListEntries(ctx context.Context, filter LedgerFilter) ([]entities.EarningsLedgerEntry, error)
	ListEntriesByPayment(ctx context.Context, paymentID string) ([]entities.EarningsLedgerEntry, error)
	// TransitionEntry conditionally advances one entry and reports rows
	// affected; paidAt is persisted only on the transition into paid.
	TransitionEntry(ctx context.Context, entryID string, from, to entities.EntryStatus, paidAt *time.Time) (int64, error)
}

type PolicyResolver interface {
	ResolveSplitPolicy(ctx context.Context, ref entities.SourceRef) (entities.SplitPolicy, error)
}

type MonthlyPaymentReport struct {
	Year     int
	Month    time.Month
	Payments []entities.Payment
	Total    int
	Received int
	Pending  int
	Overdue  int
}

type SweepFailure struct {
	PaymentID string
	Reason    string
}

// SweepResult summarizes one settlement sweep. Flagged is visibility into
// held-back payments, not an error signal; Failures carry per-item
// defects that did not abort the batch.
type SweepResult struct {
	Processed int
	Flagged   int
	Failures  []SweepFailure
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = contractsv1.Envelope

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
