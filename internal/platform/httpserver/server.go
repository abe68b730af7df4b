package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	approvalgate "solutionshub/contexts/finance-core/approval-gate"
	approvalerrors "solutionshub/contexts/finance-core/approval-gate/domain/errors"
	approvalhttp "solutionshub/contexts/finance-core/approval-gate/transport/http"
	paymentsettlement "solutionshub/contexts/finance-core/payment-settlement"
	settlementerrors "solutionshub/contexts/finance-core/payment-settlement/domain/errors"
	settlementhttp "solutionshub/contexts/finance-core/payment-settlement/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	settlement paymentsettlement.Module
	approval   approvalgate.Module
}

func New(
	settlement paymentsettlement.Module,
	approval approvalgate.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		settlement: settlement,
		approval:   approval,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/finance/v1/payments", s.handleCreatePayment)
	s.mux.HandleFunc("GET /api/finance/v1/payments/{payment_id}", s.handleGetPayment)
	s.mux.HandleFunc("POST /api/finance/v1/payments/{payment_id}/flag", s.handleFlagPayment)
	s.mux.HandleFunc("POST /api/finance/v1/payments/{payment_id}/unflag", s.handleUnflagPayment)
	s.mux.HandleFunc("POST /api/finance/v1/payments/{payment_id}/mark-received", s.handleMarkReceived)
	s.mux.HandleFunc("POST /api/finance/v1/payments/{payment_id}/mark-invoiced", s.handleMarkInvoiced)
	s.mux.HandleFunc("POST /api/finance/v1/payments/{payment_id}/mark-failed", s.handleMarkFailed)
	s.mux.HandleFunc("POST /api/finance/v1/payments/{payment_id}/mark-overdue", s.handleMarkOverdue)
	s.mux.HandleFunc("POST /api/finance/v1/sweep", s.handleRunSweep)
	s.mux.HandleFunc("GET /api/finance/v1/ledger", s.handleListLedger)
	s.mux.HandleFunc("POST /api/finance/v1/ledger/bulk-approve", s.handleBulkApprove)
	s.mux.HandleFunc("POST /api/finance/v1/ledger/bulk-mark-paid", s.handleBulkMarkPaid)
	s.mux.HandleFunc("GET /api/finance/v1/reports/monthly", s.handleMonthlyReport)

	s.mux.HandleFunc("POST /api/approval/v1/evaluate", s.handleEvaluateTier)
}

func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var req settlementhttp.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSettlementError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.settlement.Handler.CreatePaymentHandler(r.Context(), req)
	if err != nil {
		writeSettlementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetPayment(w http.ResponseWriter, r *http.Request) {
	resp, err := s.settlement.Handler.GetPaymentHandler(r.Context(), r.PathValue("payment_id"))
	if err != nil {
		writeSettlementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFlagPayment(w http.ResponseWriter, r *http.Request) {
	var req settlementhttp.FlagPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSettlementError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	if err := s.settlement.Handler.FlagPaymentHandler(r.Context(), r.PathValue("payment_id"), req); err != nil {
		writeSettlementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) handleUnflagPayment(w http.ResponseWriter, r *http.Request) {
	if err := s.settlement.Handler.UnflagPaymentHandler(r.Context(), r.PathValue("payment_id")); err != nil {
		writeSettlementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) handleMarkReceived(w http.ResponseWriter, r *http.Request) {
	resp, err := s.settlement.Handler.MarkReceivedHandler(r.Context(), r.PathValue("payment_id"))
	if err != nil {
		writeSettlementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkInvoiced(w http.ResponseWriter, r *http.Request) {
	resp, err := s.settlement.Handler.MarkInvoicedHandler(r.Context(), r.PathValue("payment_id"))
	if err != nil {
		writeSettlementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkFailed(w http.ResponseWriter, r *http.Request) {
	resp, err := s.settlement.Handler.MarkFailedHandler(r.Context(), r.PathValue("payment_id"))
	if err != nil {
		writeSettlementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkOverdue(w http.ResponseWriter, r *http.Request) {
	resp, err := s.settlement.Handler.MarkOverdueHandler(r.Context(), r.PathValue("payment_id"))
	if err != nil {
		writeSettlementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRunSweep(w http.ResponseWriter, r *http.Request) {
	resp, err := s.settlement.Handler.RunSweepHandler(r.Context())
	if err != nil {
		writeSettlementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListLedger(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := settlementhttp.LedgerListRequest{
		Status:        query.Get("status"),
		RecipientType: query.Get("recipient_type"),
	}
	var err error
	if req.Year, err = optionalIntParam(query.Get("year")); err != nil {
		writeSettlementError(w, http.StatusBadRequest, "invalid_year", "year must be an integer")
		return
	}
	if req.Month, err = optionalIntParam(query.Get("month")); err != nil {
		writeSettlementError(w, http.StatusBadRequest, "invalid_month", "month must be an integer")
		return
	}
	if req.Year != 0 && (req.Month < 1 || req.Month > 12) {
		writeSettlementError(w, http.StatusBadRequest, "invalid_month", "month must be between 1 and 12")
		return
	}

	resp, err := s.settlement.Handler.ListLedgerHandler(r.Context(), req)
	if err != nil {
		writeSettlementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBulkApprove(w http.ResponseWriter, r *http.Request) {
	var req settlementhttp.BulkTransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSettlementError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.settlement.Handler.BulkApproveHandler(r.Context(), req)
	if err != nil {
		writeSettlementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBulkMarkPaid(w http.ResponseWriter, r *http.Request) {
	var req settlementhttp.BulkTransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSettlementError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.settlement.Handler.BulkMarkPaidHandler(r.Context(), req)
	if err != nil {
		writeSettlementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	year, err := strconv.Atoi(strings.TrimSpace(query.Get("year")))
	if err != nil {
		writeSettlementError(w, http.StatusBadRequest, "invalid_year", "year must be an integer")
		return
	}
	month, err := strconv.Atoi(strings.TrimSpace(query.Get("month")))
	if err != nil || month < 1 || month > 12 {
		writeSettlementError(w, http.StatusBadRequest, "invalid_month", "month must be between 1 and 12")
		return
	}
	resp, err := s.settlement.Handler.MonthlyReportHandler(r.Context(), year, month)
	if err != nil {
		writeSettlementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEvaluateTier(w http.ResponseWriter, r *http.Request) {
	var req approvalhttp.EvaluateTierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeApprovalError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.approval.Handler.EvaluateTierHandler(r.Context(), req)
	if err != nil {
		writeApprovalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeSettlementDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, settlementerrors.ErrPaymentNotFound),
		errors.Is(err, settlementerrors.ErrEntryNotFound):
		writeSettlementError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, settlementerrors.ErrPaymentExists):
		writeSettlementError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, settlementerrors.ErrInvalidPaymentInput),
		errors.Is(err, settlementerrors.ErrInvalidFlagInput):
		writeSettlementError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, settlementerrors.ErrEmptySplitPolicy),
		errors.Is(err, settlementerrors.ErrInvalidSplitLine),
		errors.Is(err, settlementerrors.ErrPolicyPercentageSum),
		errors.Is(err, settlementerrors.ErrPolicyNotFound):
		writeSettlementError(w, http.StatusUnprocessableEntity, "policy_violation", err.Error())
	default:
		writeSettlementError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeApprovalDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, approvalerrors.ErrInvalidApprovalInput):
		writeApprovalError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, approvalerrors.ErrStaffNotFound):
		writeApprovalError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, approvalerrors.ErrApprovalNotPermitted):
		writeApprovalError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		writeApprovalError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeSettlementError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, settlementhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeApprovalError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, approvalhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func optionalIntParam(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
