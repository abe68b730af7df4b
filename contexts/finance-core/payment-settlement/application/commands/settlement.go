package commands

import (
	"context"
	"time"

	application "solutionshub/contexts/finance-core/payment-settlement/application"
	"solutionshub/contexts/finance-core/payment-settlement/domain/entities"
	"solutionshub/contexts/finance-core/payment-settlement/ports"
)

// RunSettlementSweep is one execution of the periodic settlement scan.
// Eligible pending payments (past the settlement delay, not flagged) are
// settled through a storage-level compare-and-swap so overlapping sweeps
// and racing manual settlements resolve to exactly one winner per
// payment. Per-item failures are collected and never abort the batch.
func (uc UseCase) RunSettlementSweep(ctx context.Context) (ports.SweepResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	now := uc.now()

	pending, err := uc.Payments.ListPendingPayments(ctx)
	if err != nil {
		logger.Error("settlement sweep pending list failed",
			"event", "settlement_sweep_pending_list_failed",
			"module", "finance-core/payment-settlement",
			"layer", "application",
			"error", err.Error(),
		)
		return ports.SweepResult{}, err
	}

	result := ports.SweepResult{}
	for _, payment := range pending {
		if payment.Flagged() {
			result.Flagged++
			continue
		}
		if now.Sub(payment.CreatedAt) < uc.settlementDelay() {
			continue
		}
		settled, err := uc.settle(ctx, payment, now, true)
		if err != nil {
			result.Failures = append(result.Failures, ports.SweepFailure{
				PaymentID: payment.ID,
				Reason:    err.Error(),
			})
			logger.Error("settlement sweep item failed",
				"event", "settlement_sweep_item_failed",
				"module", "finance-core/payment-settlement",
				"layer", "application",
				"payment_id", payment.ID,
				"error", err.Error(),
			)
			continue
		}
		if settled {
			result.Processed++
		}
	}

	logger.Info("settlement sweep completed",
		"event", "settlement_sweep_completed",
		"module", "finance-core/payment-settlement",
		"layer", "application",
		"pending_count", len(pending),
		"processed_count", result.Processed,
		"flagged_count", result.Flagged,
		"failure_count", len(result.Failures),
	)
	return result, nil
}

// MarkReceived settles a single payment manually, with the same
// conditional-update discipline as the sweep. A flagged payment may be
// settled this way; the hold gates only the automatic path. Returns
// false when the payment was no longer pending.
func (uc UseCase) MarkReceived(ctx context.Context, paymentID string) (bool, error) {
	logger := application.ResolveLogger(uc.Logger)
	payment, err := uc.Payments.GetPayment(ctx, paymentID)
	if err != nil {
		logger.Warn("payment mark received lookup failed",
			"event", "payment_mark_received_lookup_failed",
			"module", "finance-core/payment-settlement",
			"layer", "application",
			"payment_id", paymentID,
			"error", err.Error(),
		)
		return false, err
	}
	return uc.settle(ctx, payment, uc.now(), false)
}

// settle resolves the split policy, fails closed on a defective policy,
// and hands the CAS transition, ledger rows and settled event to the
// store as one unit of work. A missed CAS is a silent false: some
// concurrent actor already handled the payment.
func (uc UseCase) settle(
	ctx context.Context,
	payment entities.Payment,
	now time.Time,
	requireNoOverride bool,
) (bool, error) {
	logger := application.ResolveLogger(uc.Logger)

	policy, err := uc.Policies.ResolveSplitPolicy(ctx, payment.SourceRef)
	if err != nil {
		return false, err
	}
	if err := policy.Validate(); err != nil {
		logger.Warn("settlement split policy rejected",
			"event", "settlement_split_policy_rejected",
			"module", "finance-core/payment-settlement",
			"layer", "application",
			"payment_id", payment.ID,
			"source_kind", string(payment.SourceRef.Kind),
			"source_id", payment.SourceRef.ID,
			"error", err.Error(),
		)
		return false, err
	}

	amounts := policy.ShareAmounts(payment.Amount)
	entries := make([]entities.EarningsLedgerEntry, 0, len(policy.Lines))
	for i, line := range policy.Lines {
		entryID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return false, err
		}
		entries = append(entries, entities.EarningsLedgerEntry{
			ID:            entryID,
			PaymentID:     payment.ID,
			RecipientType: line.RecipientType,
			RecipientID:   line.RecipientID,
			Amount:        amounts[i],
			Percentage:    line.Percentage,
			Status:        entities.EntryStatusCalculated,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	envelope, err := uc.newEnvelope(ctx, "payment.settled", payment.ID, map[string]any{
		"payment_id":  payment.ID,
		"amount":      payment.Amount,
		"paid_at":     now.UTC().Format(time.RFC3339),
		"entry_count": len(entries),
	})
	if err != nil {
		return false, err
	}

	settled, err := uc.Payments.SettlePayment(ctx, ports.SettlePaymentInput{
		PaymentID:         payment.ID,
		PaidAt:            now,
		Entries:           entries,
		RequireNoOverride: requireNoOverride,
		Event:             &envelope,
	})
	if err != nil {
		return false, err
	}
	if !settled {
		logger.Debug("settlement lost conditional update",
			"event", "settlement_conditional_update_missed",
			"module", "finance-core/payment-settlement",
			"layer", "application",
			"payment_id", payment.ID,
		)
		return false, nil
	}

	logger.Info("payment settled",
		"event", "payment_settled",
		"module", "finance-core/payment-settlement",
		"layer", "application",
		"payment_id", payment.ID,
		"amount", payment.Amount,
		"entry_count", len(entries),
		"automatic", requireNoOverride,
	)
	return true, nil
}
