package commands_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"solutionshub/contexts/finance-core/payment-settlement/application/commands"
	"solutionshub/contexts/finance-core/payment-settlement/domain/entities"
	domainerrors "solutionshub/contexts/finance-core/payment-settlement/domain/errors"
)

func TestCreatePaymentStartsPending(t *testing.T) {
	useCase, store := newSweepFixture(testBase, nil)
	ctx := context.Background()

	payment, err := useCase.CreatePayment(ctx, commands.CreatePaymentCommand{
		PaymentID: "pay-create-1",
		Amount:    2500,
		Type:      entities.PaymentTypeAdvance,
		SourceRef: entities.SourceRef{Kind: entities.SourceKindTrainingProgram, ID: "program-7"},
	})
	if err != nil {
		t.Fatalf("create payment failed: %v", err)
	}
	if payment.Status != entities.PaymentStatusPending {
		t.Fatalf("expected pending status, got %s", payment.Status)
	}
	if !payment.CreatedAt.Equal(testBase) {
		t.Fatalf("expected created_at from injected clock, got %v", payment.CreatedAt)
	}

	stored, err := store.GetPayment(ctx, "pay-create-1")
	if err != nil {
		t.Fatalf("get payment failed: %v", err)
	}
	if stored.SourceRef.ID != "program-7" {
		t.Fatalf("unexpected source ref: %+v", stored.SourceRef)
	}
}

func TestCreatePaymentGeneratesIDWhenOmitted(t *testing.T) {
	useCase, _ := newSweepFixture(testBase, nil)

	payment, err := useCase.CreatePayment(context.Background(), commands.CreatePaymentCommand{
		Amount:    100,
		Type:      entities.PaymentTypeCompletion,
		SourceRef: entities.SourceRef{Kind: entities.SourceKindContentOrder, ID: "order-1"},
	})
	if err != nil {
		t.Fatalf("create payment failed: %v", err)
	}
	if strings.TrimSpace(payment.ID) == "" {
		t.Fatalf("expected generated payment id")
	}
}

func TestCreatePaymentRejectsInvalidInput(t *testing.T) {
	useCase, _ := newSweepFixture(testBase, nil)
	ctx := context.Background()

	cases := []commands.CreatePaymentCommand{
		{Amount: 0, Type: entities.PaymentTypeAdvance, SourceRef: entities.SourceRef{Kind: entities.SourceKindPhase, ID: "phase-1"}},
		{Amount: -5, Type: entities.PaymentTypeAdvance, SourceRef: entities.SourceRef{Kind: entities.SourceKindPhase, ID: "phase-1"}},
		{Amount: 100, Type: "subscription", SourceRef: entities.SourceRef{Kind: entities.SourceKindPhase, ID: "phase-1"}},
		{Amount: 100, Type: entities.PaymentTypeAdvance, SourceRef: entities.SourceRef{Kind: "invoice", ID: "phase-1"}},
		{Amount: 100, Type: entities.PaymentTypeAdvance, SourceRef: entities.SourceRef{Kind: entities.SourceKindPhase, ID: "  "}},
	}
	for i, cmd := range cases {
		if _, err := useCase.CreatePayment(ctx, cmd); !errors.Is(err, domainerrors.ErrInvalidPaymentInput) {
			t.Fatalf("case %d: expected ErrInvalidPaymentInput, got %v", i, err)
		}
	}
}

func TestCreatePaymentDuplicateID(t *testing.T) {
	useCase, _ := newSweepFixture(testBase, []entities.Payment{pendingPayment("pay-dup", 100, testBase)})

	_, err := useCase.CreatePayment(context.Background(), commands.CreatePaymentCommand{
		PaymentID: "pay-dup",
		Amount:    100,
		Type:      entities.PaymentTypeAdvance,
		SourceRef: entities.SourceRef{Kind: entities.SourceKindPhase, ID: "phase-1"},
	})
	if !errors.Is(err, domainerrors.ErrPaymentExists) {
		t.Fatalf("expected ErrPaymentExists, got %v", err)
	}
}

func TestFlagPaymentRecordsFullOverride(t *testing.T) {
	useCase, store := newSweepFixture(testBase, []entities.Payment{pendingPayment("pay-flag", 100, testBase)})
	ctx := context.Background()

	err := useCase.FlagPayment(ctx, commands.FlagPaymentCommand{
		PaymentID: "pay-flag",
		Reason:    "suspected double billing",
		Actor:     "finance-admin",
	})
	if err != nil {
		t.Fatalf("flag payment failed: %v", err)
	}

	payment, _ := store.GetPayment(ctx, "pay-flag")
	if payment.Override == nil {
		t.Fatalf("expected override set")
	}
	if payment.Override.Reason != "suspected double billing" || payment.Override.SetBy != "finance-admin" {
		t.Fatalf("unexpected override: %+v", payment.Override)
	}
	if !payment.Override.SetAt.Equal(testBase) {
		t.Fatalf("expected set_at from injected clock, got %v", payment.Override.SetAt)
	}
}

func TestReFlagReplacesExistingHold(t *testing.T) {
	useCase, store := newSweepFixture(testBase, []entities.Payment{pendingPayment("pay-reflag", 100, testBase)})
	ctx := context.Background()

	if err := useCase.FlagPayment(ctx, commands.FlagPaymentCommand{
		PaymentID: "pay-reflag", Reason: "first reason", Actor: "admin-a",
	}); err != nil {
		t.Fatalf("first flag failed: %v", err)
	}
	if err := useCase.FlagPayment(ctx, commands.FlagPaymentCommand{
		PaymentID: "pay-reflag", Reason: "second reason", Actor: "admin-b",
	}); err != nil {
		t.Fatalf("second flag failed: %v", err)
	}

	payment, _ := store.GetPayment(ctx, "pay-reflag")
	if payment.Override == nil || payment.Override.Reason != "second reason" || payment.Override.SetBy != "admin-b" {
		t.Fatalf("expected last flag to win, got %+v", payment.Override)
	}
}

func TestFlagPaymentRejectsBlankFields(t *testing.T) {
	useCase, _ := newSweepFixture(testBase, []entities.Payment{pendingPayment("pay-blank", 100, testBase)})
	ctx := context.Background()

	cases := []commands.FlagPaymentCommand{
		{PaymentID: "pay-blank", Reason: "", Actor: "admin"},
		{PaymentID: "pay-blank", Reason: "   ", Actor: "admin"},
		{PaymentID: "pay-blank", Reason: "reason", Actor: ""},
		{PaymentID: "", Reason: "reason", Actor: "admin"},
	}
	for i, cmd := range cases {
		if err := useCase.FlagPayment(ctx, cmd); !errors.Is(err, domainerrors.ErrInvalidFlagInput) {
			t.Fatalf("case %d: expected ErrInvalidFlagInput, got %v", i, err)
		}
	}
}

func TestUnflagWithoutHoldIsSilentNoOp(t *testing.T) {
	useCase, store := newSweepFixture(testBase, []entities.Payment{pendingPayment("pay-nohold", 100, testBase)})
	ctx := context.Background()

	if err := useCase.UnflagPayment(ctx, "pay-nohold"); err != nil {
		t.Fatalf("unflag without hold failed: %v", err)
	}

	outbox, _ := store.ListPendingOutbox(ctx, 10)
	for _, msg := range outbox {
		if msg.EventType == "payment.unflagged" {
			t.Fatalf("expected no unflagged event when nothing was cleared")
		}
	}
}

func TestUnflagClearsHoldAndEmitsEvent(t *testing.T) {
	payment := pendingPayment("pay-clear", 100, testBase)
	payment.Override = &entities.Override{Reason: "hold", SetBy: "admin", SetAt: testBase}
	useCase, store := newSweepFixture(testBase.Add(time.Hour), []entities.Payment{payment})
	ctx := context.Background()

	if err := useCase.UnflagPayment(ctx, "pay-clear"); err != nil {
		t.Fatalf("unflag failed: %v", err)
	}

	current, _ := store.GetPayment(ctx, "pay-clear")
	if current.Override != nil {
		t.Fatalf("expected override cleared")
	}
	outbox, _ := store.ListPendingOutbox(ctx, 10)
	found := false
	for _, msg := range outbox {
		if msg.EventType == "payment.unflagged" && msg.PartitionKey == "pay-clear" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected payment.unflagged event in outbox")
	}
}

func TestMarkInvoicedOnlyMovesPendingPayment(t *testing.T) {
	useCase, store := newSweepFixture(testBase, []entities.Payment{pendingPayment("pay-inv", 100, testBase)})
	ctx := context.Background()

	affected, err := useCase.MarkInvoiced(ctx, "pay-inv")
	if err != nil {
		t.Fatalf("mark invoiced failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row affected, got %d", affected)
	}
	current, _ := store.GetPayment(ctx, "pay-inv")
	if current.Status != entities.PaymentStatusInvoiced {
		t.Fatalf("expected invoiced status, got %s", current.Status)
	}

	again, err := useCase.MarkInvoiced(ctx, "pay-inv")
	if err != nil {
		t.Fatalf("repeat mark invoiced failed: %v", err)
	}
	if again != 0 {
		t.Fatalf("expected zero rows on repeat, got %d", again)
	}
}

func TestMarkFailedAndOverdueFromPending(t *testing.T) {
	useCase, store := newSweepFixture(testBase, []entities.Payment{
		pendingPayment("pay-fail", 100, testBase),
		pendingPayment("pay-late", 100, testBase),
	})
	ctx := context.Background()

	if affected, err := useCase.MarkFailed(ctx, "pay-fail"); err != nil || affected != 1 {
		t.Fatalf("mark failed: affected=%d err=%v", affected, err)
	}
	if affected, err := useCase.MarkOverdue(ctx, "pay-late"); err != nil || affected != 1 {
		t.Fatalf("mark overdue: affected=%d err=%v", affected, err)
	}

	failed, _ := store.GetPayment(ctx, "pay-fail")
	late, _ := store.GetPayment(ctx, "pay-late")
	if failed.Status != entities.PaymentStatusFailed || late.Status != entities.PaymentStatusOverdue {
		t.Fatalf("unexpected statuses: %s / %s", failed.Status, late.Status)
	}
}
