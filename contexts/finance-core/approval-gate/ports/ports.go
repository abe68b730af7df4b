package ports

import (
	"context"

	"solutionshub/contexts/finance-core/approval-gate/domain/entities"
)

// RoleDirectory resolves who a staff member is. Implementations must
// query role and department directly; approval decisions never lean on
// storage-layer implicit claims.
type RoleDirectory interface {
	GetStaffProfile(ctx context.Context, userID string) (entities.StaffProfile, error)
}
