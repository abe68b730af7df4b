package httpadapter

import (
	"context"
	"errors"
	"log/slog"

	"solutionshub/contexts/finance-core/approval-gate/application"
	domainerrors "solutionshub/contexts/finance-core/approval-gate/domain/errors"
	httptransport "solutionshub/contexts/finance-core/approval-gate/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// EvaluateTierHandler reports the tier a commitment requires and, when
// an actor is supplied, whether that actor may sign off at that tier.
func (h Handler) EvaluateTierHandler(
	ctx context.Context,
	req httptransport.EvaluateTierRequest,
) (httptransport.EvaluateTierResponse, error) {
	if req.Value < 0 {
		return httptransport.EvaluateTierResponse{}, domainerrors.ErrInvalidApprovalInput
	}
	tier := h.Service.EvaluateTier(req.Value)
	resp := httptransport.EvaluateTierResponse{
		Status: "success",
		Tier:   string(tier),
	}
	if req.ActorID != "" {
		err := h.Service.AuthorizeApproval(ctx, req.ActorID, req.DepartmentID, tier)
		if err != nil && !errors.Is(err, domainerrors.ErrApprovalNotPermitted) {
			return httptransport.EvaluateTierResponse{}, err
		}
		authorized := err == nil
		resp.Authorized = &authorized
	}
	return resp, nil
}
