package entities

import "time"

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusInvoiced PaymentStatus = "invoiced"
	PaymentStatusReceived PaymentStatus = "received"
	PaymentStatusOverdue  PaymentStatus = "overdue"
	PaymentStatusFailed   PaymentStatus = "failed"
)

type PaymentType string

const (
	PaymentTypeAdvance         PaymentType = "advance"
	PaymentTypeMilestone       PaymentType = "milestone"
	PaymentTypeCompletion      PaymentType = "completion"
	PaymentTypeContractSigning PaymentType = "contract_signing"
	PaymentTypeDeployment      PaymentType = "deployment"
	PaymentTypeAcceptance      PaymentType = "acceptance"
	PaymentTypeMaintenanceFee  PaymentType = "maintenance_fee"
)

type SourceKind string

const (
	SourceKindPhase           SourceKind = "phase"
	SourceKindTrainingProgram SourceKind = "training_program"
	SourceKindContentOrder    SourceKind = "content_order"
)

// SourceRef links a payment to exactly one funding context. The split
// policy for the payment is resolved from this reference.
type SourceRef struct {
	Kind SourceKind
	ID   string
}

// Override is a manual review hold. While present the payment is
// ineligible for automatic settlement regardless of elapsed time.
type Override struct {
	Reason string
	SetBy  string
	SetAt  time.Time
}

type Payment struct {
	ID        string
	Amount    float64
	Type      PaymentType
	Status    PaymentStatus
	SourceRef SourceRef
	Override  *Override
	CreatedAt time.Time
	DueDate   time.Time
	PaidAt    *time.Time
	UpdatedAt time.Time
}

func (p Payment) Flagged() bool {
	return p.Override != nil
}
