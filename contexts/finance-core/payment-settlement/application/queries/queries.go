package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "solutionshub/contexts/finance-core/payment-settlement/application"
	"solutionshub/contexts/finance-core/payment-settlement/domain/entities"
	"solutionshub/contexts/finance-core/payment-settlement/ports"
)

type UseCase struct {
	Payments ports.PaymentRepository
	Ledger   ports.LedgerRepository
	Logger   *slog.Logger
}

func (uc UseCase) GetPayment(ctx context.Context, paymentID string) (entities.Payment, error) {
	logger := application.ResolveLogger(uc.Logger)
	normalizedID := strings.TrimSpace(paymentID)
	payment, err := uc.Payments.GetPayment(ctx, normalizedID)
	if err != nil {
		logger.Warn("payment query get failed",
			"event", "payment_query_get_failed",
			"module", "finance-core/payment-settlement",
			"layer", "application",
			"payment_id", normalizedID,
			"error", err.Error(),
		)
		return entities.Payment{}, err
	}
	return payment, nil
}

func (uc UseCase) ListLedgerEntries(ctx context.Context, filter ports.LedgerFilter) ([]entities.EarningsLedgerEntry, error) {
	logger := application.ResolveLogger(uc.Logger)
	entries, err := uc.Ledger.ListEntries(ctx, filter)
	if err != nil {
		logger.Warn("ledger query list failed",
			"event", "ledger_query_list_failed",
			"module", "finance-core/payment-settlement",
			"layer", "application",
			"error", err.Error(),
		)
		return nil, err
	}
	return entries, nil
}

func (uc UseCase) ListLedgerEntriesByPayment(ctx context.Context, paymentID string) ([]entities.EarningsLedgerEntry, error) {
	return uc.Ledger.ListEntriesByPayment(ctx, strings.TrimSpace(paymentID))
}

// MonthlyReport returns every payment created in the given month plus
// the status counts used by the batch reporting views. Read-only.
func (uc UseCase) MonthlyReport(ctx context.Context, year int, month time.Month) (ports.MonthlyPaymentReport, error) {
	logger := application.ResolveLogger(uc.Logger)
	payments, err := uc.Payments.ListPaymentsByMonth(ctx, year, month)
	if err != nil {
		logger.Warn("monthly report query failed",
			"event", "monthly_report_query_failed",
			"module", "finance-core/payment-settlement",
			"layer", "application",
			"year", year,
			"month", int(month),
			"error", err.Error(),
		)
		return ports.MonthlyPaymentReport{}, err
	}

	report := ports.MonthlyPaymentReport{
		Year:     year,
		Month:    month,
		Payments: payments,
		Total:    len(payments),
	}
	for _, payment := range payments {
		switch payment.Status {
		case entities.PaymentStatusReceived:
			report.Received++
		case entities.PaymentStatusPending:
			report.Pending++
		case entities.PaymentStatusOverdue:
			report.Overdue++
		}
	}
	return report, nil
}
