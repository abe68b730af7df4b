package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"solutionshub/contexts/finance-core/payment-settlement/application/commands"
	"solutionshub/contexts/finance-core/payment-settlement/application/queries"
	"solutionshub/contexts/finance-core/payment-settlement/domain/entities"
	domainerrors "solutionshub/contexts/finance-core/payment-settlement/domain/errors"
	"solutionshub/contexts/finance-core/payment-settlement/ports"
	httptransport "solutionshub/contexts/finance-core/payment-settlement/transport/http"
)

type Handler struct {
	Commands commands.UseCase
	Queries  queries.UseCase
	Logger   *slog.Logger
}

func (h Handler) CreatePaymentHandler(
	ctx context.Context,
	req httptransport.CreatePaymentRequest,
) (httptransport.PaymentResponse, error) {
	var dueDate time.Time
	if req.DueDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			return httptransport.PaymentResponse{}, domainerrors.ErrInvalidPaymentInput
		}
		dueDate = parsed
	}
	payment, err := h.Commands.CreatePayment(ctx, commands.CreatePaymentCommand{
		PaymentID: req.PaymentID,
		Amount:    req.Amount,
		Type:      entities.PaymentType(req.Type),
		SourceRef: entities.SourceRef{
			Kind: entities.SourceKind(req.SourceKind),
			ID:   req.SourceID,
		},
		DueDate: dueDate,
	})
	if err != nil {
		return httptransport.PaymentResponse{}, err
	}
	return httptransport.PaymentResponse{
		Status: "success",
		Data:   toPaymentDTO(payment),
	}, nil
}

func (h Handler) GetPaymentHandler(
	ctx context.Context,
	paymentID string,
) (httptransport.PaymentResponse, error) {
	payment, err := h.Queries.GetPayment(ctx, paymentID)
	if err != nil {
		return httptransport.PaymentResponse{}, err
	}
	return httptransport.PaymentResponse{
		Status: "success",
		Data:   toPaymentDTO(payment),
	}, nil
}

func (h Handler) FlagPaymentHandler(
	ctx context.Context,
	paymentID string,
	req httptransport.FlagPaymentRequest,
) error {
	return h.Commands.FlagPayment(ctx, commands.FlagPaymentCommand{
		PaymentID: paymentID,
		Reason:    req.Reason,
		Actor:     req.Actor,
	})
}

func (h Handler) UnflagPaymentHandler(ctx context.Context, paymentID string) error {
	return h.Commands.UnflagPayment(ctx, paymentID)
}

func (h Handler) MarkReceivedHandler(
	ctx context.Context,
	paymentID string,
) (httptransport.MarkReceivedResponse, error) {
	settled, err := h.Commands.MarkReceived(ctx, paymentID)
	if err != nil {
		return httptransport.MarkReceivedResponse{}, err
	}
	return httptransport.MarkReceivedResponse{
		Status:  "success",
		Settled: settled,
	}, nil
}

func (h Handler) MarkInvoicedHandler(
	ctx context.Context,
	paymentID string,
) (httptransport.TransitionResponse, error) {
	affected, err := h.Commands.MarkInvoiced(ctx, paymentID)
	if err != nil {
		return httptransport.TransitionResponse{}, err
	}
	return httptransport.TransitionResponse{Status: "success", AffectedRows: affected}, nil
}

func (h Handler) MarkFailedHandler(
	ctx context.Context,
	paymentID string,
) (httptransport.TransitionResponse, error) {
	affected, err := h.Commands.MarkFailed(ctx, paymentID)
	if err != nil {
		return httptransport.TransitionResponse{}, err
	}
	return httptransport.TransitionResponse{Status: "success", AffectedRows: affected}, nil
}

func (h Handler) MarkOverdueHandler(
	ctx context.Context,
	paymentID string,
) (httptransport.TransitionResponse, error) {
	affected, err := h.Commands.MarkOverdue(ctx, paymentID)
	if err != nil {
		return httptransport.TransitionResponse{}, err
	}
	return httptransport.TransitionResponse{Status: "success", AffectedRows: affected}, nil
}

func (h Handler) RunSweepHandler(ctx context.Context) (httptransport.SweepResponse, error) {
	result, err := h.Commands.RunSettlementSweep(ctx)
	if err != nil {
		return httptransport.SweepResponse{}, err
	}
	resp := httptransport.SweepResponse{
		Status:    "success",
		Processed: result.Processed,
		Flagged:   result.Flagged,
	}
	for _, failure := range result.Failures {
		resp.Failures = append(resp.Failures, httptransport.SweepFailureDTO{
			PaymentID: failure.PaymentID,
			Reason:    failure.Reason,
		})
	}
	return resp, nil
}

func (h Handler) BulkApproveHandler(
	ctx context.Context,
	req httptransport.BulkTransitionRequest,
) (httptransport.BulkTransitionResponse, error) {
	advanced, err := h.Commands.BulkApprove(ctx, req.EntryIDs)
	if err != nil {
		return httptransport.BulkTransitionResponse{}, err
	}
	return httptransport.BulkTransitionResponse{Status: "success", AdvancedCount: advanced}, nil
}

func (h Handler) BulkMarkPaidHandler(
	ctx context.Context,
	req httptransport.BulkTransitionRequest,
) (httptransport.BulkTransitionResponse, error) {
	advanced, err := h.Commands.BulkMarkPaid(ctx, req.EntryIDs)
	if err != nil {
		return httptransport.BulkTransitionResponse{}, err
	}
	return httptransport.BulkTransitionResponse{Status: "success", AdvancedCount: advanced}, nil
}

func (h Handler) ListLedgerHandler(
	ctx context.Context,
	req httptransport.LedgerListRequest,
) (httptransport.LedgerListResponse, error) {
	filter := ports.LedgerFilter{}
	if req.Status != "" {
		status := entities.EntryStatus(req.Status)
		filter.Status = &status
	}
	if req.RecipientType != "" {
		recipientType := entities.RecipientType(req.RecipientType)
		filter.RecipientType = &recipientType
	}
	if req.Year != 0 {
		filter.Year = req.Year
		filter.Month = time.Month(req.Month)
	}
	entries, err := h.Queries.ListLedgerEntries(ctx, filter)
	if err != nil {
		return httptransport.LedgerListResponse{}, err
	}
	resp := httptransport.LedgerListResponse{
		Status: "success",
		Data:   make([]httptransport.LedgerEntryDTO, 0, len(entries)),
	}
	for _, entry := range entries {
		resp.Data = append(resp.Data, toLedgerEntryDTO(entry))
	}
	return resp, nil
}

func (h Handler) MonthlyReportHandler(
	ctx context.Context,
	year int,
	month int,
) (httptransport.MonthlyReportResponse, error) {
	report, err := h.Queries.MonthlyReport(ctx, year, time.Month(month))
	if err != nil {
		return httptransport.MonthlyReportResponse{}, err
	}
	resp := httptransport.MonthlyReportResponse{Status: "success"}
	resp.Data.Year = report.Year
	resp.Data.Month = int(report.Month)
	resp.Data.Total = report.Total
	resp.Data.Received = report.Received
	resp.Data.Pending = report.Pending
	resp.Data.Overdue = report.Overdue
	resp.Data.Payments = make([]httptransport.PaymentDTO, 0, len(report.Payments))
	for _, payment := range report.Payments {
		resp.Data.Payments = append(resp.Data.Payments, toPaymentDTO(payment))
	}
	return resp, nil
}

func toPaymentDTO(payment entities.Payment) httptransport.PaymentDTO {
	dto := httptransport.PaymentDTO{
		PaymentID:  payment.ID,
		Amount:     payment.Amount,
		Type:       string(payment.Type),
		Status:     string(payment.Status),
		SourceKind: string(payment.SourceRef.Kind),
		SourceID:   payment.SourceRef.ID,
		CreatedAt:  payment.CreatedAt.UTC().Format(time.RFC3339),
	}
	if !payment.DueDate.IsZero() {
		dto.DueDate = payment.DueDate.UTC().Format(time.RFC3339)
	}
	if payment.PaidAt != nil {
		dto.PaidAt = payment.PaidAt.UTC().Format(time.RFC3339)
	}
	if payment.Override != nil {
		dto.OverrideReason = payment.Override.Reason
		dto.OverrideSetBy = payment.Override.SetBy
		dto.OverrideSetAt = payment.Override.SetAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func toLedgerEntryDTO(entry entities.EarningsLedgerEntry) httptransport.LedgerEntryDTO {
	dto := httptransport.LedgerEntryDTO{
		EntryID:       entry.ID,
		PaymentID:     entry.PaymentID,
		RecipientType: string(entry.RecipientType),
		RecipientID:   entry.RecipientID,
		Amount:        entry.Amount,
		Percentage:    entry.Percentage,
		Status:        string(entry.Status),
	}
	if entry.PaidAt != nil {
		dto.PaidAt = entry.PaidAt.UTC().Format(time.RFC3339)
	}
	return dto
}
