package entities

type ApprovalTier string

const (
	// TierNone: the commitment may proceed immediately, or with
	// department-level sign-off at the caller's discretion.
	TierNone ApprovalTier = "none"
	// TierDepartment: a department-level approver must sign off.
	TierDepartment ApprovalTier = "department"
	// TierTop: only the highest-level approver may sign off.
	TierTop ApprovalTier = "top"
)

type StaffRole string

const (
	StaffRoleMember           StaffRole = "member"
	StaffRoleDepartmentHead   StaffRole = "department_head"
	StaffRoleInstitutionAdmin StaffRole = "institution_admin"
)

// StaffProfile is the directly-queried source of truth for a user's
// role and department. Approval checks read it explicitly instead of
// trusting storage-layer token claims.
type StaffProfile struct {
	UserID       string
	Role         StaffRole
	DepartmentID string
}

// EvaluateTier maps a monetary commitment to the approval tier it
// requires. The threshold is configuration, never a literal at call
// sites. A value exactly at the threshold stays below the gate.
func EvaluateTier(value, threshold float64) ApprovalTier {
	if value > threshold {
		return TierTop
	}
	return TierNone
}
