package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "solutionshub/contexts/finance-core/payment-settlement/application"
	"solutionshub/contexts/finance-core/payment-settlement/domain/entities"
	domainerrors "solutionshub/contexts/finance-core/payment-settlement/domain/errors"
	"solutionshub/contexts/finance-core/payment-settlement/ports"
)

const defaultSettlementDelay = 48 * time.Hour

type FlagPaymentCommand struct {
	PaymentID string
	Reason    string
	Actor     string
}

type CreatePaymentCommand struct {
	PaymentID string
	Amount    float64
	Type      entities.PaymentType
	SourceRef entities.SourceRef
	DueDate   time.Time
}

type UseCase struct {
	Payments ports.PaymentRepository
	Ledger   ports.LedgerRepository
	Policies ports.PolicyResolver
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Outbox   ports.OutboxWriter
	// SettlementDelay is how long a payment must sit pending before the
	// sweep may settle it. Zero falls back to 48h.
	SettlementDelay time.Duration
	Logger          *slog.Logger
}

// CreatePayment registers a pending payment from an external sale event
// (phase order, training enrolment, content order).
func (uc UseCase) CreatePayment(ctx context.Context, cmd CreatePaymentCommand) (entities.Payment, error) {
	logger := application.ResolveLogger(uc.Logger)
	now := uc.now()

	paymentID := strings.TrimSpace(cmd.PaymentID)
	if paymentID == "" {
		var err error
		paymentID, err = uc.IDGen.NewID(ctx)
		if err != nil {
			logger.Error("payment create id generation failed",
				"event", "payment_create_id_generation_failed",
				"module", "finance-core/payment-settlement",
				"layer", "application",
				"error", err.Error(),
			)
			return entities.Payment{}, err
		}
	}
	if cmd.Amount <= 0 || !validPaymentType(cmd.Type) ||
		!validSourceKind(cmd.SourceRef.Kind) || strings.TrimSpace(cmd.SourceRef.ID) == "" {
		logger.Warn("payment create invalid input",
			"event", "payment_create_invalid_input",
			"module", "finance-core/payment-settlement",
			"layer", "application",
			"payment_id", paymentID,
			"amount", cmd.Amount,
			"payment_type", string(cmd.Type),
		)
		return entities.Payment{}, domainerrors.ErrInvalidPaymentInput
	}

	payment := entities.Payment{
		ID:     paymentID,
		Amount: cmd.Amount,
		Type:   cmd.Type,
		Status: entities.PaymentStatusPending,
		SourceRef: entities.SourceRef{
			Kind: cmd.SourceRef.Kind,
			ID:   strings.TrimSpace(cmd.SourceRef.ID),
		},
		CreatedAt: now,
		DueDate:   cmd.DueDate,
		UpdatedAt: now,
	}
	if err := uc.Payments.CreatePayment(ctx, payment); err != nil {
		logger.Error("payment create failed",
			"event", "payment_create_failed",
			"module", "finance-core/payment-settlement",
			"layer", "application",
			"payment_id", paymentID,
			"error", err.Error(),
		)
		return entities.Payment{}, err
	}
	logger.Info("payment created",
		"event", "payment_created",
		"module", "finance-core/payment-settlement",
		"layer", "application",
		"payment_id", payment.ID,
		"amount", payment.Amount,
		"payment_type", string(payment.Type),
	)
	return payment, nil
}

// FlagPayment places a manual hold on a payment. Re-flagging replaces
// reason, actor and timestamp; last write wins.
func (uc UseCase) FlagPayment(ctx context.Context, cmd FlagPaymentCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	paymentID := strings.TrimSpace(cmd.PaymentID)
	reason := strings.TrimSpace(cmd.Reason)
	actor := strings.TrimSpace(cmd.Actor)
	if paymentID == "" || reason == "" || actor == "" {
		logger.Warn("payment flag invalid input",
			"event", "payment_flag_invalid_input",
			"module", "finance-core/payment-settlement",
			"layer", "application",
			"payment_id", paymentID,
			"actor", actor,
		)
		return domainerrors.ErrInvalidFlagInput
	}

	override := entities.Override{
		Reason: reason,
		SetBy:  actor,
		SetAt:  uc.now(),
	}
	if err := uc.Payments.SetOverride(ctx, paymentID, override); err != nil {
		logger.Warn("payment flag failed",
			"event", "payment_flag_failed",
			"module", "finance-core/payment-settlement",
			"layer", "application",
			"payment_id", paymentID,
			"error", err.Error(),
		)
		return err
	}
	if err := uc.appendOutbox(ctx, "payment.flagged", paymentID, map[string]any{
		"payment_id": paymentID,
		"reason":     reason,
		"set_by":     actor,
		"set_at":     override.SetAt.UTC().Format(time.RFC3339),
	}); err != nil {
		return err
	}
	logger.Info("payment flagged",
		"event", "payment_flagged",
		"module", "finance-core/payment-settlement",
		"layer", "application",
		"payment_id", paymentID,
		"actor", actor,
	)
	return nil
}

// UnflagPayment clears the hold. Unflagging a payment without a hold is
// a silent no-op; the settlement clock is not reset either way.
func (uc UseCase) UnflagPayment(ctx context.Context, paymentID string) error {
	logger := application.ResolveLogger(uc.Logger)
	paymentID = strings.TrimSpace(paymentID)
	cleared, err := uc.Payments.ClearOverride(ctx, paymentID)
	if err != nil {
		logger.Warn("payment unflag failed",
			"event", "payment_unflag_failed",
			"module", "finance-core/payment-settlement",
			"layer", "application",
			"payment_id", paymentID,
			"error", err.Error(),
		)
		return err
	}
	if !cleared {
		return nil
	}
	if err := uc.appendOutbox(ctx, "payment.unflagged", paymentID, map[string]any{
		"payment_id": paymentID,
	}); err != nil {
		return err
	}
	logger.Info("payment unflagged",
		"event", "payment_unflagged",
		"module", "finance-core/payment-settlement",
		"layer", "application",
		"payment_id", paymentID,
	)
	return nil
}

// MarkInvoiced is the pre-pending administrative marker; it takes the
// payment out of the sweep's selection.
func (uc UseCase) MarkInvoiced(ctx context.Context, paymentID string) (int64, error) {
	return uc.transition(ctx, paymentID, entities.PaymentStatusInvoiced)
}

func (uc UseCase) MarkOverdue(ctx context.Context, paymentID string) (int64, error) {
	return uc.transition(ctx, paymentID, entities.PaymentStatusOverdue)
}

func (uc UseCase) MarkFailed(ctx context.Context, paymentID string) (int64, error) {
	return uc.transition(ctx, paymentID, entities.PaymentStatusFailed)
}

func (uc UseCase) transition(ctx context.Context, paymentID string, to entities.PaymentStatus) (int64, error) {
	logger := application.ResolveLogger(uc.Logger)
	paymentID = strings.TrimSpace(paymentID)
	affected, err := uc.Payments.TransitionPayment(ctx, paymentID, entities.PaymentStatusPending, to)
	if err != nil {
		logger.Error("payment transition failed",
			"event", "payment_transition_failed",
			"module", "finance-core/payment-settlement",
			"layer", "application",
			"payment_id", paymentID,
			"to_status", string(to),
			"error", err.Error(),
		)
		return 0, err
	}
	if affected == 0 {
		// Not pending anymore: a concurrent actor won. Normal outcome.
		logger.Debug("payment transition skipped",
			"event", "payment_transition_skipped",
			"module", "finance-core/payment-settlement",
			"layer", "application",
			"payment_id", paymentID,
			"to_status", string(to),
		)
		return 0, nil
	}
	logger.Info("payment transitioned",
		"event", "payment_transitioned",
		"module", "finance-core/payment-settlement",
		"layer", "application",
		"payment_id", paymentID,
		"to_status", string(to),
	)
	return affected, nil
}

func (uc UseCase) newEnvelope(
	ctx context.Context,
	eventType string,
	partitionKey string,
	data map[string]any,
) (ports.EventEnvelope, error) {
	logger := application.ResolveLogger(uc.Logger)
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		logger.Error("settlement outbox event id generation failed",
			"event", "settlement_outbox_event_id_generation_failed",
			"module", "finance-core/payment-settlement",
			"layer", "application",
			"event_type", eventType,
			"error", err.Error(),
		)
		return ports.EventEnvelope{}, err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       uc.now(),
		SourceService:    "payment-settlement",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "payment_id",
		PartitionKey:     partitionKey,
		Data:             payload,
	}, nil
}

func (uc UseCase) appendOutbox(
	ctx context.Context,
	eventType string,
	partitionKey string,
	data map[string]any,
) error {
	logger := application.ResolveLogger(uc.Logger)
	if uc.Outbox == nil {
		return nil
	}
	envelope, err := uc.newEnvelope(ctx, eventType, partitionKey, data)
	if err != nil {
		return err
	}
	if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
		logger.Error("settlement outbox append failed",
			"event", "settlement_outbox_append_failed",
			"module", "finance-core/payment-settlement",
			"layer", "application",
			"event_id", envelope.EventID,
			"event_type", eventType,
			"error", err.Error(),
		)
		return err
	}
	return nil
}

func (uc UseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}

func (uc UseCase) settlementDelay() time.Duration {
	if uc.SettlementDelay <= 0 {
		return defaultSettlementDelay
	}
	return uc.SettlementDelay
}

func validPaymentType(value entities.PaymentType) bool {
	switch value {
	case entities.PaymentTypeAdvance, entities.PaymentTypeMilestone, entities.PaymentTypeCompletion,
		entities.PaymentTypeContractSigning, entities.PaymentTypeDeployment,
		entities.PaymentTypeAcceptance, entities.PaymentTypeMaintenanceFee:
		return true
	default:
		return false
	}
}

func validSourceKind(value entities.SourceKind) bool {
	switch value {
	case entities.SourceKindPhase, entities.SourceKindTrainingProgram, entities.SourceKindContentOrder:
		return true
	default:
		return false
	}
}
