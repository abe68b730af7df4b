package commands_test

import (
	"context"
	"testing"
	"time"

	"solutionshub/contexts/finance-core/payment-settlement/adapters/memory"
	"solutionshub/contexts/finance-core/payment-settlement/application/commands"
	"solutionshub/contexts/finance-core/payment-settlement/domain/entities"
)

func newLedgerFixture(t *testing.T, clockAt time.Time) (commands.UseCase, *memory.Store) {
	t.Helper()
	payment := pendingPayment("pay-ledger", 1000, testBase)
	store := memory.NewStore([]entities.Payment{payment})
	store.SeedPolicy(payment.SourceRef, builderDepartmentPolicy())

	useCase := commands.UseCase{
		Payments: store,
		Ledger:   store,
		Policies: store,
		Outbox:   store,
		Clock:    fixedClock{now: clockAt},
		IDGen:    store,
	}
	if settled, err := useCase.MarkReceived(context.Background(), "pay-ledger"); err != nil || !settled {
		t.Fatalf("fixture settlement: settled=%v err=%v", settled, err)
	}
	return useCase, store
}

func settledEntryIDs(t *testing.T, store *memory.Store) []string {
	t.Helper()
	entries, err := store.ListEntriesByPayment(context.Background(), "pay-ledger")
	if err != nil {
		t.Fatalf("list entries failed: %v", err)
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}
	return ids
}

func TestApproveAdvancesEntryExactlyOnce(t *testing.T) {
	useCase, store := newLedgerFixture(t, testBase.Add(time.Hour))
	ctx := context.Background()
	entryID := settledEntryIDs(t, store)[0]

	affected, err := useCase.Approve(ctx, entryID)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row on first approve, got %d", affected)
	}

	again, err := useCase.Approve(ctx, entryID)
	if err != nil {
		t.Fatalf("repeat approve failed: %v", err)
	}
	if again != 0 {
		t.Fatalf("expected zero rows on repeat approve, got %d", again)
	}

	entry, _ := store.GetEntry(ctx, entryID)
	if entry.Status != entities.EntryStatusApproved {
		t.Fatalf("expected approved status, got %s", entry.Status)
	}
}

func TestMarkPaidRefusesToSkipApproval(t *testing.T) {
	useCase, store := newLedgerFixture(t, testBase.Add(time.Hour))
	ctx := context.Background()
	entryID := settledEntryIDs(t, store)[0]

	affected, err := useCase.MarkPaid(ctx, entryID)
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected zero rows for calculated -> paid, got %d", affected)
	}

	entry, _ := store.GetEntry(ctx, entryID)
	if entry.Status != entities.EntryStatusCalculated {
		t.Fatalf("expected entry untouched, got %s", entry.Status)
	}
}

func TestMarkPaidStampsPaidAt(t *testing.T) {
	paidTime := testBase.Add(100 * time.Hour)
	useCase, store := newLedgerFixture(t, paidTime)
	ctx := context.Background()
	entryID := settledEntryIDs(t, store)[0]

	if _, err := useCase.Approve(ctx, entryID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	affected, err := useCase.MarkPaid(ctx, entryID)
	if err != nil || affected != 1 {
		t.Fatalf("mark paid: affected=%d err=%v", affected, err)
	}

	entry, _ := store.GetEntry(ctx, entryID)
	if entry.Status != entities.EntryStatusPaid {
		t.Fatalf("expected paid status, got %s", entry.Status)
	}
	if entry.PaidAt == nil || !entry.PaidAt.Equal(paidTime) {
		t.Fatalf("expected paid_at %v, got %v", paidTime, entry.PaidAt)
	}
}

func TestBulkApproveSkipsIneligibleAndUnknownIDs(t *testing.T) {
	useCase, store := newLedgerFixture(t, testBase.Add(time.Hour))
	ctx := context.Background()
	ids := settledEntryIDs(t, store)

	// One entry pre-approved, so only the other is eligible.
	if _, err := useCase.Approve(ctx, ids[1]); err != nil {
		t.Fatalf("pre-approve failed: %v", err)
	}

	advanced, err := useCase.BulkApprove(ctx, []string{ids[0], ids[1], "entry-missing"})
	if err != nil {
		t.Fatalf("bulk approve failed: %v", err)
	}
	if advanced != 1 {
		t.Fatalf("expected 1 entry advanced, got %d", advanced)
	}
}

func TestBulkMarkPaidOnlyMovesApprovedEntries(t *testing.T) {
	useCase, store := newLedgerFixture(t, testBase.Add(time.Hour))
	ctx := context.Background()
	ids := settledEntryIDs(t, store)

	if _, err := useCase.Approve(ctx, ids[0]); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	advanced, err := useCase.BulkMarkPaid(ctx, ids)
	if err != nil {
		t.Fatalf("bulk mark paid failed: %v", err)
	}
	if advanced != 1 {
		t.Fatalf("expected 1 entry paid, got %d", advanced)
	}

	paid, _ := store.GetEntry(ctx, ids[0])
	calculated, _ := store.GetEntry(ctx, ids[1])
	if paid.Status != entities.EntryStatusPaid {
		t.Fatalf("expected approved entry paid, got %s", paid.Status)
	}
	if calculated.Status != entities.EntryStatusCalculated {
		t.Fatalf("expected calculated entry untouched, got %s", calculated.Status)
	}
}
