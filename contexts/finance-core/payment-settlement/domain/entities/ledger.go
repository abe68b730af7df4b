package entities

import "time"

type EntryStatus string

const (
	EntryStatusCalculated EntryStatus = "calculated"
	EntryStatusApproved   EntryStatus = "approved"
	EntryStatusPaid       EntryStatus = "paid"
)

type RecipientType string

const (
	RecipientTypeBuilder           RecipientType = "builder"
	RecipientTypeCohortMember      RecipientType = "cohort_member"
	RecipientTypeProductionLearner RecipientType = "production_learner"
	RecipientTypeDepartment        RecipientType = "department"
	RecipientTypeInstitution       RecipientType = "institution"
	RecipientTypeCouncil           RecipientType = "council"
	RecipientTypeInfrastructure    RecipientType = "infrastructure"
	RecipientTypeReferralBonus     RecipientType = "referral_bonus"
)

// EarningsLedgerEntry is one recipient's share of a settled payment.
// Entries advance calculated -> approved -> paid, one step at a time.
type EarningsLedgerEntry struct {
	ID            string
	PaymentID     string
	RecipientType RecipientType
	RecipientID   string
	Amount        float64
	Percentage    float64
	Status        EntryStatus
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func validRecipientType(value RecipientType) bool {
	switch value {
	case RecipientTypeBuilder, RecipientTypeCohortMember, RecipientTypeProductionLearner,
		RecipientTypeDepartment, RecipientTypeInstitution, RecipientTypeCouncil,
		RecipientTypeInfrastructure, RecipientTypeReferralBonus:
		return true
	default:
		return false
	}
}
