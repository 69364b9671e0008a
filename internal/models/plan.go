package models

// ExecutionPlan pairs a sprint list with a content slot list. It is the unit
// of validation and the unit of save/replace; it is never persisted as its
// own row.
type ExecutionPlan struct {
	Sprints      []*Sprint      `json:"sprints"`
	ContentSlots []*ContentSlot `json:"content_slots"`
}

// CandidatePlan is the loosely-typed wire shape of an execution plan before
// validation.
type CandidatePlan struct {
	Sprints      []*SprintCandidate `json:"sprints"`
	ContentSlots []*SlotCandidate   `json:"content_slots"`
}

// ValidationError represents a single validation error on one field
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// SlotRejection records why one candidate slot was dropped from a batch
type SlotRejection struct {
	Index  int               `json:"index"`
	Errors []ValidationError `json:"errors"`
}

// PlanDetail is one path-tagged validation failure on a client-submitted
// plan, returned in the 400 response body
type PlanDetail struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// SaveExecutionRequest is the body of POST /v1/execution
type SaveExecutionRequest struct {
	CampaignID    string         `json:"campaignId"`
	ExecutionPlan *CandidatePlan `json:"executionPlan"`
}

// SaveExecutionResponse is the success body of POST /v1/execution
type SaveExecutionResponse struct {
	Success      bool           `json:"success"`
	Sprints      []*Sprint      `json:"sprints"`
	ContentSlots []*ContentSlot `json:"contentSlots"`
	Message      string         `json:"message"`
}

// GenerateSlotsRequest is the body of the per-sprint content slot generation
// endpoint
type GenerateSlotsRequest struct {
	WeeklyPostVolume *int `json:"weekly_post_volume"`
}
