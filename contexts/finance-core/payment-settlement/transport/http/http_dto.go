package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreatePaymentRequest struct {
	PaymentID  string  `json:"payment_id,omitempty"`
	Amount     float64 `json:"amount"`
	Type       string  `json:"type"`
	SourceKind string  `json:"source_kind"`
	SourceID   string  `json:"source_id"`
	DueDate    string  `json:"due_date,omitempty"`
}

type PaymentDTO struct {
	PaymentID      string  `json:"payment_id"`
	Amount         float64 `json:"amount"`
	Type           string  `json:"type"`
	Status         string  `json:"status"`
	SourceKind     string  `json:"source_kind"`
	SourceID       string  `json:"source_id"`
	OverrideReason string  `json:"override_reason,omitempty"`
	OverrideSetBy  string  `json:"override_set_by,omitempty"`
	OverrideSetAt  string  `json:"override_set_at,omitempty"`
	CreatedAt      string  `json:"created_at"`
	DueDate        string  `json:"due_date,omitempty"`
	PaidAt         string  `json:"paid_at,omitempty"`
}

type PaymentResponse struct {
	Status string     `json:"status"`
	Data   PaymentDTO `json:"data"`
}

type FlagPaymentRequest struct {
	Reason string `json:"reason"`
	Actor  string `json:"actor"`
}

type MarkReceivedResponse struct {
	Status  string `json:"status"`
	Settled bool   `json:"settled"`
}

type TransitionResponse struct {
	Status       string `json:"status"`
	AffectedRows int64  `json:"affected_rows"`
}

type SweepFailureDTO struct {
	PaymentID string `json:"payment_id"`
	Reason    string `json:"reason"`
}

type SweepResponse struct {
	Status    string            `json:"status"`
	Processed int               `json:"processed"`
	Flagged   int               `json:"flagged"`
	Failures  []SweepFailureDTO `json:"failures,omitempty"`
}

type LedgerEntryDTO struct {
	EntryID       string  `json:"entry_id"`
	PaymentID     string  `json:"payment_id"`
	RecipientType string  `json:"recipient_type"`
	RecipientID   string  `json:"recipient_id"`
	Amount        float64 `json:"amount"`
	Percentage    float64 `json:"percentage"`
	Status        string  `json:"status"`
	PaidAt        string  `json:"paid_at,omitempty"`
}

type LedgerListRequest struct {
	Status        string
	RecipientType string
	Year          int
	Month         int
}

type LedgerListResponse struct {
	Status string           `json:"status"`
	Data   []LedgerEntryDTO `json:"data"`
}

type BulkTransitionRequest struct {
	EntryIDs []string `json:"entry_ids"`
}

type BulkTransitionResponse struct {
	Status        string `json:"status"`
	AdvancedCount int64  `json:"advanced_count"`
}

type MonthlyReportResponse struct {
	Status string `json:"status"`
	Data   struct {
		Year     int          `json:"year"`
		Month    int          `json:"month"`
		Total    int          `json:"total"`
		Received int          `json:"received"`
		Pending  int          `json:"pending"`
		Overdue  int          `json:"overdue"`
		Payments []PaymentDTO `json:"payments"`
	} `json:"data"`
}
