package postgresadapter

import (
	"time"

	"solutionshub/contexts/finance-core/payment-settlement/domain/entities"
)

type paymentModel struct {
	ID             string     `gorm:"column:id;primaryKey"`
	Amount         float64    `gorm:"column:amount"`
	PaymentType    string     `gorm:"column:payment_type"`
	Status         string     `gorm:"column:status"`
	SourceKind     string     `gorm:"column:source_kind"`
	SourceID       string     `gorm:"column:source_id"`
	OverrideReason *string    `gorm:"column:override_reason"`
	OverrideSetBy  *string    `gorm:"column:override_set_by"`
	OverrideSetAt  *time.Time `gorm:"column:override_set_at"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	DueDate        time.Time  `gorm:"column:due_date"`
	PaidAt         *time.Time `gorm:"column:paid_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (paymentModel) TableName() string {
	return "payments"
}

func paymentModelFromEntity(payment entities.Payment) paymentModel {
	row := paymentModel{
		ID:          payment.ID,
		Amount:      payment.Amount,
		PaymentType: string(payment.Type),
		Status:      string(payment.Status),
		SourceKind:  string(payment.SourceRef.Kind),
		SourceID:    payment.SourceRef.ID,
		CreatedAt:   payment.CreatedAt.UTC(),
		DueDate:     payment.DueDate.UTC(),
		PaidAt:      normalizeOptionalTime(payment.PaidAt),
		UpdatedAt:   payment.UpdatedAt.UTC(),
	}
	if payment.Override != nil {
		reason := payment.Override.Reason
		setBy := payment.Override.SetBy
		setAt := payment.Override.SetAt.UTC()
		row.OverrideReason = &reason
		row.OverrideSetBy = &setBy
		row.OverrideSetAt = &setAt
	}
	return row
}

func (m paymentModel) toEntity() entities.Payment {
	payment := entities.Payment{
		ID:     m.ID,
		Amount: m.Amount,
		Type:   entities.PaymentType(m.PaymentType),
		Status: entities.PaymentStatus(m.Status),
		SourceRef: entities.SourceRef{
			Kind: entities.SourceKind(m.SourceKind),
			ID:   m.SourceID,
		},
		CreatedAt: m.CreatedAt.UTC(),
		DueDate:   m.DueDate.UTC(),
		PaidAt:    normalizeOptionalTime(m.PaidAt),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
	if m.OverrideSetAt != nil {
		override := entities.Override{SetAt: m.OverrideSetAt.UTC()}
		if m.OverrideReason != nil {
			override.Reason = *m.OverrideReason
		}
		if m.OverrideSetBy != nil {
			override.SetBy = *m.OverrideSetBy
		}
		payment.Override = &override
	}
	return payment
}

func paymentsFromModels(rows []paymentModel) []entities.Payment {
	payments := make([]entities.Payment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, row.toEntity())
	}
	return payments
}

// earningsLedgerEntryModel carries a unique index on
// (payment_id, recipient_type, recipient_id) so ledger creation stays
// idempotent per settled payment.
type earningsLedgerEntryModel struct {
	ID            string     `gorm:"column:id;primaryKey"`
	PaymentID     string     `gorm:"column:payment_id;uniqueIndex:idx_ledger_payment_recipient"`
	RecipientType string     `gorm:"column:recipient_type;uniqueIndex:idx_ledger_payment_recipient"`
	RecipientID   string     `gorm:"column:recipient_id;uniqueIndex:idx_ledger_payment_recipient"`
	Amount        float64    `gorm:"column:amount"`
	Percentage    float64    `gorm:"column:percentage"`
	Status        string     `gorm:"column:status"`
	PaidAt        *time.Time `gorm:"column:paid_at"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (earningsLedgerEntryModel) TableName() string {
	return "earnings_ledger_entries"
}

func ledgerEntryModelFromEntity(entry entities.EarningsLedgerEntry) earningsLedgerEntryModel {
	return earningsLedgerEntryModel{
		ID:            entry.ID,
		PaymentID:     entry.PaymentID,
		RecipientType: string(entry.RecipientType),
		RecipientID:   entry.RecipientID,
		Amount:        entry.Amount,
		Percentage:    entry.Percentage,
		Status:        string(entry.Status),
		PaidAt:        normalizeOptionalTime(entry.PaidAt),
		CreatedAt:     entry.CreatedAt.UTC(),
		UpdatedAt:     entry.UpdatedAt.UTC(),
	}
}

func (m earningsLedgerEntryModel) toEntity() entities.EarningsLedgerEntry {
	return entities.EarningsLedgerEntry{
		ID:            m.ID,
		PaymentID:     m.PaymentID,
		RecipientType: entities.RecipientType(m.RecipientType),
		RecipientID:   m.RecipientID,
		Amount:        m.Amount,
		Percentage:    m.Percentage,
		Status:        entities.EntryStatus(m.Status),
		PaidAt:        normalizeOptionalTime(m.PaidAt),
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

func entriesFromModels(rows []earningsLedgerEntryModel) []entities.EarningsLedgerEntry {
	entries := make([]entities.EarningsLedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toEntity())
	}
	return entries
}

type splitPolicyLineModel struct {
	SourceKind    string  `gorm:"column:source_kind;primaryKey"`
	SourceID      string  `gorm:"column:source_id;primaryKey"`
	Position      int     `gorm:"column:position;primaryKey"`
	RecipientType string  `gorm:"column:recipient_type"`
	RecipientID   string  `gorm:"column:recipient_id"`
	Percentage    float64 `gorm:"column:percentage"`
}

func (splitPolicyLineModel) TableName() string {
	return "split_policy_lines"
}

type settlementOutboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (settlementOutboxModel) TableName() string {
	return "settlement_outbox"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	t := value.UTC()
	return &t
}
