package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type EvaluateTierRequest struct {
	Value        float64 `json:"value"`
	ActorID      string  `json:"actor_id,omitempty"`
	DepartmentID string  `json:"department_id,omitempty"`
}

type EvaluateTierResponse struct {
	Status     string `json:"status"`
	Tier       string `json:"tier"`
	Authorized *bool  `json:"authorized,omitempty"`
}
