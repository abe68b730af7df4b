package commands

import (
	"context"
	"errors"
	"strings"

	application "solutionshub/contexts/finance-core/payment-settlement/application"
	"solutionshub/contexts/finance-core/payment-settlement/domain/entities"
	domainerrors "solutionshub/contexts/finance-core/payment-settlement/domain/errors"
)

// Approve advances one ledger entry calculated -> approved. An entry in
// any other state is left alone and the call reports zero rows.
func (uc UseCase) Approve(ctx context.Context, entryID string) (int64, error) {
	return uc.advanceEntry(ctx, entryID, entities.EntryStatusCalculated, entities.EntryStatusApproved)
}

// MarkPaid advances one ledger entry approved -> paid and stamps paid_at.
// Skipping a step (calculated -> paid) reports zero rows.
func (uc UseCase) MarkPaid(ctx context.Context, entryID string) (int64, error) {
	return uc.advanceEntry(ctx, entryID, entities.EntryStatusApproved, entities.EntryStatusPaid)
}

// BulkApprove applies the single-entry rule to every id independently
// and returns how many entries actually advanced. Wrong-state ids are
// skipped, so a mixed batch only moves the eligible ones.
func (uc UseCase) BulkApprove(ctx context.Context, entryIDs []string) (int64, error) {
	return uc.bulkAdvance(ctx, entryIDs, entities.EntryStatusCalculated, entities.EntryStatusApproved)
}

func (uc UseCase) BulkMarkPaid(ctx context.Context, entryIDs []string) (int64, error) {
	return uc.bulkAdvance(ctx, entryIDs, entities.EntryStatusApproved, entities.EntryStatusPaid)
}

func (uc UseCase) advanceEntry(
	ctx context.Context,
	entryID string,
	from, to entities.EntryStatus,
) (int64, error) {
	logger := application.ResolveLogger(uc.Logger)
	entryID = strings.TrimSpace(entryID)

	var paidAt = uc.now()
	var paidAtArg = &paidAt
	if to != entities.EntryStatusPaid {
		paidAtArg = nil
	}
	affected, err := uc.Ledger.TransitionEntry(ctx, entryID, from, to, paidAtArg)
	if err != nil {
		logger.Error("ledger entry transition failed",
			"event", "ledger_entry_transition_failed",
			"module", "finance-core/payment-settlement",
			"layer", "application",
			"entry_id", entryID,
			"from_status", string(from),
			"to_status", string(to),
			"error", err.Error(),
		)
		return 0, err
	}
	if affected > 0 {
		logger.Info("ledger entry transitioned",
			"event", "ledger_entry_transitioned",
			"module", "finance-core/payment-settlement",
			"layer", "application",
			"entry_id", entryID,
			"to_status", string(to),
		)
	}
	return affected, nil
}

func (uc UseCase) bulkAdvance(
	ctx context.Context,
	entryIDs []string,
	from, to entities.EntryStatus,
) (int64, error) {
	logger := application.ResolveLogger(uc.Logger)
	var advanced int64
	for _, entryID := range entryIDs {
		affected, err := uc.advanceEntry(ctx, entryID, from, to)
		if err != nil {
			// Unknown ids in a batch are skipped like wrong-state ids.
			if errors.Is(err, domainerrors.ErrEntryNotFound) {
				continue
			}
			return advanced, err
		}
		advanced += affected
	}
	logger.Info("ledger bulk transition completed",
		"event", "ledger_bulk_transition_completed",
		"module", "finance-core/payment-settlement",
		"layer", "application",
		"requested_count", len(entryIDs),
		"advanced_count", advanced,
		"to_status", string(to),
	)
	return advanced, nil
}
