package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"solutionshub/contexts/finance-core/payment-settlement/domain/entities"
	domainerrors "solutionshub/contexts/finance-core/payment-settlement/domain/errors"
	"solutionshub/contexts/finance-core/payment-settlement/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
	PublishedAt  *time.Time
}

// Store mirrors the postgres repository's conditional-update semantics
// under a mutex, so application behavior is identical against either
// adapter.
type Store struct {
	mu sync.RWMutex

	payments map[string]entities.Payment
	entries  map[string]entities.EarningsLedgerEntry
	policies map[string]entities.SplitPolicy
	outbox   map[string]outboxRecord
}

func NewStore(seed []entities.Payment) *Store {
	payments := make(map[string]entities.Payment, len(seed))
	for _, payment := range seed {
		payments[payment.ID] = payment
	}
	return &Store{
		payments: payments,
		entries:  make(map[string]entities.EarningsLedgerEntry),
		policies: make(map[string]entities.SplitPolicy),
		outbox:   make(map[string]outboxRecord),
	}
}

// SeedPolicy registers the split policy for a funding source.
func (s *Store) SeedPolicy(ref entities.SourceRef, policy entities.SplitPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policies[policyKey(ref)] = policy
}

// SeedEntry places a ledger entry directly, bypassing settlement.
func (s *Store) SeedEntry(entry entities.EarningsLedgerEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.ID] = entry
}

func (s *Store) CreatePayment(_ context.Context, payment entities.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.payments[payment.ID]; exists {
		return domainerrors.ErrPaymentExists
	}
	s.payments[payment.ID] = payment
	return nil
}

func (s *Store) GetPayment(_ context.Context, paymentID string) (entities.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payment, exists := s.payments[strings.TrimSpace(paymentID)]
	if !exists {
		return entities.Payment{}, domainerrors.ErrPaymentNotFound
	}
	return payment, nil
}

func (s *Store) ListPendingPayments(_ context.Context) ([]entities.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payments := make([]entities.Payment, 0)
	for _, payment := range s.payments {
		if payment.Status == entities.PaymentStatusPending {
			payments = append(payments, payment)
		}
	}
	sort.Slice(payments, func(i, j int) bool {
		return payments[i].CreatedAt.Before(payments[j].CreatedAt)
	})
	return payments, nil
}

func (s *Store) ListPaymentsByMonth(_ context.Context, year int, month time.Month) ([]entities.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payments := make([]entities.Payment, 0)
	for _, payment := range s.payments {
		created := payment.CreatedAt.UTC()
		if created.Year() == year && created.Month() == month {
			payments = append(payments, payment)
		}
	}
	sort.Slice(payments, func(i, j int) bool {
		return payments[i].CreatedAt.Before(payments[j].CreatedAt)
	})
	return payments, nil
}

func (s *Store) TransitionPayment(
	_ context.Context,
	paymentID string,
	from, to entities.PaymentStatus,
) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment, exists := s.payments[strings.TrimSpace(paymentID)]
	if !exists || payment.Status != from {
		return 0, nil
	}
	payment.Status = to
	payment.UpdatedAt = time.Now().UTC()
	s.payments[payment.ID] = payment
	return 1, nil
}

func (s *Store) SettlePayment(_ context.Context, input ports.SettlePaymentInput) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment, exists := s.payments[strings.TrimSpace(input.PaymentID)]
	if !exists {
		return false, domainerrors.ErrPaymentNotFound
	}
	if payment.Status != entities.PaymentStatusPending {
		return false, nil
	}
	if input.RequireNoOverride && payment.Override != nil {
		return false, nil
	}
	for _, entry := range s.entries {
		if entry.PaymentID == payment.ID {
			return false, domainerrors.ErrLedgerEntriesExist
		}
	}

	var event *outboxRecord
	if input.Event != nil {
		payload, err := json.Marshal(input.Event)
		if err != nil {
			return false, err
		}
		event = &outboxRecord{
			OutboxID:     input.Event.EventID,
			EventType:    input.Event.EventType,
			PartitionKey: input.Event.PartitionKey,
			Payload:      payload,
			CreatedAt:    input.Event.OccurredAt.UTC(),
		}
	}

	paidAt := input.PaidAt.UTC()
	payment.Status = entities.PaymentStatusReceived
	payment.PaidAt = &paidAt
	payment.UpdatedAt = paidAt
	s.payments[payment.ID] = payment
	for _, entry := range input.Entries {
		s.entries[entry.ID] = entry
	}
	if event != nil {
		s.outbox[event.OutboxID] = *event
	}
	return true, nil
}

func (s *Store) SetOverride(_ context.Context, paymentID string, override entities.Override) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment, exists := s.payments[strings.TrimSpace(paymentID)]
	if !exists {
		return domainerrors.ErrPaymentNotFound
	}
	payment.Override = &override
	payment.UpdatedAt = override.SetAt
	s.payments[payment.ID] = payment
	return nil
}

func (s *Store) ClearOverride(_ context.Context, paymentID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment, exists := s.payments[strings.TrimSpace(paymentID)]
	if !exists {
		return false, domainerrors.ErrPaymentNotFound
	}
	if payment.Override == nil {
		return false, nil
	}
	payment.Override = nil
	payment.UpdatedAt = time.Now().UTC()
	s.payments[payment.ID] = payment
	return true, nil
}

func (s *Store) GetEntry(_ context.Context, entryID string) (entities.EarningsLedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.entries[strings.TrimSpace(entryID)]
	if !exists {
		return entities.EarningsLedgerEntry{}, domainerrors.ErrEntryNotFound
	}
	return entry, nil
}

func (s *Store) ListEntries(_ context.Context, filter ports.LedgerFilter) ([]entities.EarningsLedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]entities.EarningsLedgerEntry, 0)
	for _, entry := range s.entries {
		if filter.Status != nil && entry.Status != *filter.Status {
			continue
		}
		if filter.RecipientType != nil && entry.RecipientType != *filter.RecipientType {
			continue
		}
		if filter.Year != 0 {
			payment, exists := s.payments[entry.PaymentID]
			if !exists {
				continue
			}
			created := payment.CreatedAt.UTC()
			if created.Year() != filter.Year || created.Month() != filter.Month {
				continue
			}
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].PaymentID != entries[j].PaymentID {
			return entries[i].PaymentID < entries[j].PaymentID
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

func (s *Store) ListEntriesByPayment(_ context.Context, paymentID string) ([]entities.EarningsLedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]entities.EarningsLedgerEntry, 0)
	for _, entry := range s.entries {
		if entry.PaymentID == strings.TrimSpace(paymentID) {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

func (s *Store) TransitionEntry(
	_ context.Context,
	entryID string,
	from, to entities.EntryStatus,
	paidAt *time.Time,
) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[strings.TrimSpace(entryID)]
	if !exists {
		return 0, domainerrors.ErrEntryNotFound
	}
	if entry.Status != from {
		return 0, nil
	}
	entry.Status = to
	if paidAt != nil {
		stamped := paidAt.UTC()
		entry.PaidAt = &stamped
		entry.UpdatedAt = stamped
	} else {
		entry.UpdatedAt = time.Now().UTC()
	}
	s.entries[entry.ID] = entry
	return 1, nil
}

func (s *Store) ResolveSplitPolicy(_ context.Context, ref entities.SourceRef) (entities.SplitPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	policy, exists := s.policies[policyKey(ref)]
	if !exists {
		return entities.SplitPolicy{}, domainerrors.ErrPolicyNotFound
	}
	return policy, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.outbox[envelope.EventID] = outboxRecord{
		OutboxID:     envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := make([]ports.OutboxMessage, 0)
	for _, record := range s.outbox {
		if record.PublishedAt != nil {
			continue
		}
		messages = append(messages, ports.OutboxMessage{
			OutboxID:     record.OutboxID,
			EventType:    record.EventType,
			PartitionKey: record.PartitionKey,
			Payload:      append([]byte(nil), record.Payload...),
			CreatedAt:    record.CreatedAt,
		})
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	if limit > 0 && len(messages) > limit {
		messages = messages[:limit]
	}
	return messages, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.outbox[strings.TrimSpace(outboxID)]
	if !exists {
		return nil
	}
	stamped := publishedAt.UTC()
	record.PublishedAt = &stamped
	s.outbox[record.OutboxID] = record
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func policyKey(ref entities.SourceRef) string {
	return string(ref.Kind) + ":" + strings.TrimSpace(ref.ID)
}

var _ ports.PaymentRepository = (*Store)(nil)
var _ ports.LedgerRepository = (*Store)(nil)
var _ ports.PolicyResolver = (*Store)(nil)
var _ ports.OutboxWriter = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
