package application

import (
	"context"
	"log/slog"
	"strings"

	"solutionshub/contexts/finance-core/approval-gate/domain/entities"
	domainerrors "solutionshub/contexts/finance-core/approval-gate/domain/errors"
	"solutionshub/contexts/finance-core/approval-gate/ports"
)

type Service struct {
	Directory ports.RoleDirectory
	// Threshold is the monetary cutoff above which only the top-level
	// approver may sign off. Injected from configuration.
	Threshold float64
	Logger    *slog.Logger
}

// EvaluateTier answers which sign-off a monetary commitment needs.
// Shared by phase-claim, assignment-claim and payment-adjacent flows.
func (s Service) EvaluateTier(value float64) entities.ApprovalTier {
	return entities.EvaluateTier(value, s.Threshold)
}

// AuthorizeApproval checks explicitly, against the role directory,
// whether an actor may sign off at the given tier for the given
// department. The department-scope rule lives here in the application
// layer on purpose.
func (s Service) AuthorizeApproval(
	ctx context.Context,
	actorID string,
	departmentID string,
	tier entities.ApprovalTier,
) error {
	logger := resolveLogger(s.Logger)
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return domainerrors.ErrInvalidApprovalInput
	}
	if tier == entities.TierNone {
		return nil
	}

	profile, err := s.Directory.GetStaffProfile(ctx, actorID)
	if err != nil {
		logger.Warn("approval authorization lookup failed",
			"event", "approval_authorization_lookup_failed",
			"module", "finance-core/approval-gate",
			"layer", "application",
			"actor_id", actorID,
			"error", err.Error(),
		)
		return err
	}

	switch tier {
	case entities.TierDepartment:
		// Institution admins may stand in for any department head.
		if profile.Role == entities.StaffRoleInstitutionAdmin {
			return nil
		}
		if profile.Role == entities.StaffRoleDepartmentHead &&
			profile.DepartmentID == strings.TrimSpace(departmentID) {
			return nil
		}
	case entities.TierTop:
		if profile.Role == entities.StaffRoleInstitutionAdmin {
			return nil
		}
	}

	logger.Warn("approval not permitted",
		"event", "approval_not_permitted",
		"module", "finance-core/approval-gate",
		"layer", "application",
		"actor_id", actorID,
		"actor_role", string(profile.Role),
		"department_id", strings.TrimSpace(departmentID),
		"tier", string(tier),
	)
	return domainerrors.ErrApprovalNotPermitted
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
