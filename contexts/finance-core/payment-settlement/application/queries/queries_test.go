package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"solutionshub/contexts/finance-core/payment-settlement/adapters/memory"
	"solutionshub/contexts/finance-core/payment-settlement/application/queries"
	"solutionshub/contexts/finance-core/payment-settlement/domain/entities"
	domainerrors "solutionshub/contexts/finance-core/payment-settlement/domain/errors"
	"solutionshub/contexts/finance-core/payment-settlement/ports"
)

func monthPayment(id string, status entities.PaymentStatus, createdAt time.Time) entities.Payment {
	return entities.Payment{
		ID:     id,
		Amount: 100,
		Type:   entities.PaymentTypeMilestone,
		Status: status,
		SourceRef: entities.SourceRef{
			Kind: entities.SourceKindPhase,
			ID:   "phase-" + id,
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestMonthlyReportCountsByStatus(t *testing.T) {
	march := time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC)
	april := time.Date(2025, time.April, 2, 10, 0, 0, 0, time.UTC)
	store := memory.NewStore([]entities.Payment{
		monthPayment("pay-m1", entities.PaymentStatusReceived, march),
		monthPayment("pay-m2", entities.PaymentStatusReceived, march.Add(time.Hour)),
		monthPayment("pay-m3", entities.PaymentStatusPending, march.Add(2*time.Hour)),
		monthPayment("pay-m4", entities.PaymentStatusOverdue, march.Add(3*time.Hour)),
		monthPayment("pay-m5", entities.PaymentStatusFailed, march.Add(4*time.Hour)),
		monthPayment("pay-other", entities.PaymentStatusPending, april),
	})
	useCase := queries.UseCase{Payments: store, Ledger: store}

	report, err := useCase.MonthlyReport(context.Background(), 2025, time.March)
	if err != nil {
		t.Fatalf("monthly report failed: %v", err)
	}
	if report.Total != 5 {
		t.Fatalf("expected 5 payments in March, got %d", report.Total)
	}
	if report.Received != 2 || report.Pending != 1 || report.Overdue != 1 {
		t.Fatalf("unexpected counts: %+v", report)
	}
	if len(report.Payments) != 5 {
		t.Fatalf("expected 5 payments listed, got %d", len(report.Payments))
	}
}

func TestMonthlyReportEmptyMonth(t *testing.T) {
	store := memory.NewStore(nil)
	useCase := queries.UseCase{Payments: store, Ledger: store}

	report, err := useCase.MonthlyReport(context.Background(), 2025, time.December)
	if err != nil {
		t.Fatalf("monthly report failed: %v", err)
	}
	if report.Total != 0 || len(report.Payments) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}

func TestGetPaymentUnknownID(t *testing.T) {
	store := memory.NewStore(nil)
	useCase := queries.UseCase{Payments: store, Ledger: store}

	_, err := useCase.GetPayment(context.Background(), "pay-missing")
	if !errors.Is(err, domainerrors.ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}

func TestListLedgerEntriesFiltersByStatusAndRecipientType(t *testing.T) {
	march := time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC)
	store := memory.NewStore([]entities.Payment{
		monthPayment("pay-f1", entities.PaymentStatusReceived, march),
	})
	seedEntry := func(id string, recipientType entities.RecipientType, status entities.EntryStatus) {
		store.SeedEntry(entities.EarningsLedgerEntry{
			ID:            id,
			PaymentID:     "pay-f1",
			RecipientType: recipientType,
			RecipientID:   "r-" + id,
			Amount:        10,
			Percentage:    10,
			Status:        status,
			CreatedAt:     march,
			UpdatedAt:     march,
		})
	}
	seedEntry("entry-1", entities.RecipientTypeBuilder, entities.EntryStatusCalculated)
	seedEntry("entry-2", entities.RecipientTypeBuilder, entities.EntryStatusApproved)
	seedEntry("entry-3", entities.RecipientTypeDepartment, entities.EntryStatusCalculated)

	useCase := queries.UseCase{Payments: store, Ledger: store}
	ctx := context.Background()

	calculated := entities.EntryStatusCalculated
	builder := entities.RecipientTypeBuilder
	entries, err := useCase.ListLedgerEntries(ctx, ports.LedgerFilter{
		Status:        &calculated,
		RecipientType: &builder,
	})
	if err != nil {
		t.Fatalf("list ledger entries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "entry-1" {
		t.Fatalf("expected only entry-1, got %+v", entries)
	}

	byMonth, err := useCase.ListLedgerEntries(ctx, ports.LedgerFilter{Year: 2025, Month: time.March})
	if err != nil {
		t.Fatalf("list by month failed: %v", err)
	}
	if len(byMonth) != 3 {
		t.Fatalf("expected 3 entries for March, got %d", len(byMonth))
	}
}
