package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"solutionshub/contexts/finance-core/approval-gate/domain/entities"
	domainerrors "solutionshub/contexts/finance-core/approval-gate/domain/errors"
	"solutionshub/contexts/finance-core/approval-gate/ports"

	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

type staffProfileModel struct {
	UserID       string `gorm:"column:user_id;primaryKey"`
	Role         string `gorm:"column:role"`
	DepartmentID string `gorm:"column:department_id"`
}

func (staffProfileModel) TableName() string {
	return "staff_profiles"
}

func (r *Repository) GetStaffProfile(ctx context.Context, userID string) (entities.StaffProfile, error) {
	var row staffProfileModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.StaffProfile{}, domainerrors.ErrStaffNotFound
		}
		r.logger.Error("staff profile lookup failed",
			"event", "approval_repo_get_profile_failed",
			"module", "finance-core/approval-gate",
			"layer", "adapter/postgres",
			"user_id", strings.TrimSpace(userID),
			"error", err.Error(),
		)
		return entities.StaffProfile{}, err
	}
	return entities.StaffProfile{
		UserID:       row.UserID,
		Role:         entities.StaffRole(row.Role),
		DepartmentID: row.DepartmentID,
	}, nil
}

var _ ports.RoleDirectory = (*Repository)(nil)
