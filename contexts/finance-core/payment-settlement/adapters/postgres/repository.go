package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"solutionshub/contexts/finance-core/payment-settlement/domain/entities"
	domainerrors "solutionshub/contexts/finance-core/payment-settlement/domain/errors"
	"solutionshub/contexts/finance-core/payment-settlement/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreatePayment(ctx context.Context, payment entities.Payment) error {
	row := paymentModelFromEntity(payment)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			r.logWarn("settlement_repo_create_payment_unique_conflict",
				"payment_id", payment.ID,
			)
			return domainerrors.ErrPaymentExists
		}
		return r.logError("settlement_repo_create_payment_failed", err,
			"payment_id", payment.ID,
		)
	}
	return nil
}

func (r *Repository) GetPayment(ctx context.Context, paymentID string) (entities.Payment, error) {
	var row paymentModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(paymentID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Payment{}, domainerrors.ErrPaymentNotFound
		}
		return entities.Payment{}, r.logError("settlement_repo_get_payment_failed", err,
			"payment_id", strings.TrimSpace(paymentID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListPendingPayments(ctx context.Context) ([]entities.Payment, error) {
	var rows []paymentModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(entities.PaymentStatusPending)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("settlement_repo_list_pending_failed", err)
	}
	return paymentsFromModels(rows), nil
}

func (r *Repository) ListPaymentsByMonth(ctx context.Context, year int, month time.Month) ([]entities.Payment, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	var rows []paymentModel
	if err := r.db.WithContext(ctx).
		Where("created_at >= ?", start).
		Where("created_at < ?", end).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("settlement_repo_list_by_month_failed", err,
			"year", year,
			"month", int(month),
		)
	}
	return paymentsFromModels(rows), nil
}

func (r *Repository) TransitionPayment(
	ctx context.Context,
	paymentID string,
	from, to entities.PaymentStatus,
) (int64, error) {
	updates := map[string]any{
		"status":     string(to),
		"updated_at": time.Now().UTC(),
	}
	result := r.db.WithContext(ctx).
		Model(&paymentModel{}).
		Where("id = ?", strings.TrimSpace(paymentID)).
		Where("status = ?", string(from)).
		Updates(updates)
	if result.Error != nil {
		return 0, r.logError("settlement_repo_transition_payment_failed", result.Error,
			"payment_id", strings.TrimSpace(paymentID),
			"to_status", string(to),
		)
	}
	return result.RowsAffected, nil
}

// SettlePayment is the compare-and-swap settlement: the conditional flip
// to received, the ledger inserts and the settled event commit or roll
// back together, so a received payment cannot exist without its ledger
// or lose its event.
func (r *Repository) SettlePayment(ctx context.Context, input ports.SettlePaymentInput) (bool, error) {
	paymentID := strings.TrimSpace(input.PaymentID)
	paidAt := input.PaidAt.UTC()
	settled := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&paymentModel{}).
			Where("id = ?", paymentID).
			Where("status = ?", string(entities.PaymentStatusPending))
		if input.RequireNoOverride {
			query = query.Where("override_set_at IS NULL")
		}
		result := query.Updates(map[string]any{
			"status":     string(entities.PaymentStatusReceived),
			"paid_at":    paidAt,
			"updated_at": paidAt,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Concurrent actor won the transition. Nothing to write.
			return nil
		}

		rows := make([]earningsLedgerEntryModel, 0, len(input.Entries))
		for _, entry := range input.Entries {
			rows = append(rows, ledgerEntryModelFromEntity(entry))
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				if isUniqueViolation(err) {
					return domainerrors.ErrLedgerEntriesExist
				}
				return err
			}
		}

		if input.Event != nil {
			payload, err := json.Marshal(input.Event)
			if err != nil {
				return err
			}
			outboxRow := settlementOutboxModel{
				OutboxID:     input.Event.EventID,
				EventType:    input.Event.EventType,
				PartitionKey: input.Event.PartitionKey,
				Payload:      payload,
				Status:       outboxStatusPending,
				CreatedAt:    input.Event.OccurredAt.UTC(),
			}
			if err := tx.Create(&outboxRow).Error; err != nil {
				return err
			}
		}
		settled = true
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrLedgerEntriesExist) {
			r.logWarn("settlement_repo_settle_ledger_conflict",
				"payment_id", paymentID,
			)
			return false, err
		}
		return false, r.logError("settlement_repo_settle_failed", err,
			"payment_id", paymentID,
		)
	}
	return settled, nil
}

func (r *Repository) SetOverride(ctx context.Context, paymentID string, override entities.Override) error {
	setAt := override.SetAt.UTC()
	result := r.db.WithContext(ctx).
		Model(&paymentModel{}).
		Where("id = ?", strings.TrimSpace(paymentID)).
		Updates(map[string]any{
			"override_reason": override.Reason,
			"override_set_by": override.SetBy,
			"override_set_at": setAt,
			"updated_at":      setAt,
		})
	if result.Error != nil {
		return r.logError("settlement_repo_set_override_failed", result.Error,
			"payment_id", strings.TrimSpace(paymentID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrPaymentNotFound
	}
	return nil
}

func (r *Repository) ClearOverride(ctx context.Context, paymentID string) (bool, error) {
	id := strings.TrimSpace(paymentID)
	var exists int64
	if err := r.db.WithContext(ctx).
		Model(&paymentModel{}).
		Where("id = ?", id).
		Count(&exists).Error; err != nil {
		return false, r.logError("settlement_repo_clear_override_lookup_failed", err,
			"payment_id", id,
		)
	}
	if exists == 0 {
		return false, domainerrors.ErrPaymentNotFound
	}

	result := r.db.WithContext(ctx).
		Model(&paymentModel{}).
		Where("id = ?", id).
		Where("override_set_at IS NOT NULL").
		Updates(map[string]any{
			"override_reason": nil,
			"override_set_by": nil,
			"override_set_at": nil,
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		return false, r.logError("settlement_repo_clear_override_failed", result.Error,
			"payment_id", id,
		)
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) GetEntry(ctx context.Context, entryID string) (entities.EarningsLedgerEntry, error) {
	var row earningsLedgerEntryModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(entryID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.EarningsLedgerEntry{}, domainerrors.ErrEntryNotFound
		}
		return entities.EarningsLedgerEntry{}, r.logError("settlement_repo_get_entry_failed", err,
			"entry_id", strings.TrimSpace(entryID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListEntries(ctx context.Context, filter ports.LedgerFilter) ([]entities.EarningsLedgerEntry, error) {
	query := r.db.WithContext(ctx).Model(&earningsLedgerEntryModel{})
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.RecipientType != nil {
		query = query.Where("recipient_type = ?", string(*filter.RecipientType))
	}
	if filter.Year != 0 {
		start := time.Date(filter.Year, filter.Month, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0)
		query = query.
			Joins("JOIN payments ON payments.id = earnings_ledger_entries.payment_id").
			Where("payments.created_at >= ?", start).
			Where("payments.created_at < ?", end)
	}

	var rows []earningsLedgerEntryModel
	if err := query.
		Order("earnings_ledger_entries.payment_id ASC, earnings_ledger_entries.id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("settlement_repo_list_entries_failed", err)
	}
	return entriesFromModels(rows), nil
}

func (r *Repository) ListEntriesByPayment(ctx context.Context, paymentID string) ([]entities.EarningsLedgerEntry, error) {
	var rows []earningsLedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("payment_id = ?", strings.TrimSpace(paymentID)).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("settlement_repo_list_entries_by_payment_failed", err,
			"payment_id", strings.TrimSpace(paymentID),
		)
	}
	return entriesFromModels(rows), nil
}

func (r *Repository) TransitionEntry(
	ctx context.Context,
	entryID string,
	from, to entities.EntryStatus,
	paidAt *time.Time,
) (int64, error) {
	id := strings.TrimSpace(entryID)
	updates := map[string]any{
		"status":     string(to),
		"updated_at": time.Now().UTC(),
	}
	if paidAt != nil {
		updates["paid_at"] = paidAt.UTC()
	}
	result := r.db.WithContext(ctx).
		Model(&earningsLedgerEntryModel{}).
		Where("id = ?", id).
		Where("status = ?", string(from)).
		Updates(updates)
	if result.Error != nil {
		return 0, r.logError("settlement_repo_transition_entry_failed", result.Error,
			"entry_id", id,
			"to_status", string(to),
		)
	}
	if result.RowsAffected == 0 {
		var exists int64
		if err := r.db.WithContext(ctx).
			Model(&earningsLedgerEntryModel{}).
			Where("id = ?", id).
			Count(&exists).Error; err != nil {
			return 0, r.logError("settlement_repo_transition_entry_lookup_failed", err,
				"entry_id", id,
			)
		}
		if exists == 0 {
			return 0, domainerrors.ErrEntryNotFound
		}
	}
	return result.RowsAffected, nil
}

func (r *Repository) ResolveSplitPolicy(ctx context.Context, ref entities.SourceRef) (entities.SplitPolicy, error) {
	var rows []splitPolicyLineModel
	if err := r.db.WithContext(ctx).
		Where("source_kind = ?", string(ref.Kind)).
		Where("source_id = ?", strings.TrimSpace(ref.ID)).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return entities.SplitPolicy{}, r.logError("settlement_repo_resolve_policy_failed", err,
			"source_kind", string(ref.Kind),
			"source_id", strings.TrimSpace(ref.ID),
		)
	}
	if len(rows) == 0 {
		return entities.SplitPolicy{}, domainerrors.ErrPolicyNotFound
	}
	lines := make([]entities.SplitLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, entities.SplitLine{
			RecipientType: entities.RecipientType(row.RecipientType),
			RecipientID:   row.RecipientID,
			Percentage:    row.Percentage,
		})
	}
	return entities.SplitPolicy{Lines: lines}, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := settlementOutboxModel{
		OutboxID:     envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("settlement_repo_append_outbox_failed", err,
			"event_id", envelope.EventID,
			"event_type", envelope.EventType,
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []settlementOutboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("settlement_repo_list_pending_outbox_failed", err)
	}
	messages := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return messages, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	stamped := publishedAt.UTC()
	result := r.db.WithContext(ctx).
		Model(&settlementOutboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Where("status = ?", outboxStatusPending).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": stamped,
		})
	if result.Error != nil {
		return r.logError("settlement_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	return nil
}

func (r *Repository) logWarn(event string, args ...any) {
	r.logger.Warn(event,
		append([]any{
			"event", event,
			"module", "finance-core/payment-settlement",
			"layer", "adapter/postgres",
		}, args...)...,
	)
}

func (r *Repository) logError(event string, err error, args ...any) error {
	r.logger.Error(event,
		append([]any{
			"event", event,
			"module", "finance-core/payment-settlement",
			"layer", "adapter/postgres",
			"error", err.Error(),
		}, args...)...,
	)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.PaymentRepository = (*Repository)(nil)
var _ ports.LedgerRepository = (*Repository)(nil)
var _ ports.PolicyResolver = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
