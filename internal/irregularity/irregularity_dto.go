package irregularity

import "time"

type EscalateRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ResolveRequest struct {
	Action        string `json:"action" binding:"required"`
	AdjustedValue *int64 `json:"adjusted_value"`
	Notes         string `json:"notes" binding:"required"`
}

type ListIrregularitiesFilterRequest struct {
	Status   string `form:"status"`
	Severity string `form:"severity"`
}

type IrregularityResponse struct {
	ID           string  `json:"id"`
	PayrollRunID string  `json:"payroll_run_id"`
	DetailID     *string `json:"detail_id,omitempty"`
	Severity     string  `json:"severity"`
	Status       string  `json:"status"`
	Description  string  `json:"description"`
	LineKind     *string `json:"line_kind,omitempty"`

	EscalationReason *string    `json:"escalation_reason,omitempty"`
	EscalatedAt      *time.Time `json:"escalated_at,omitempty"`

	ResolutionAction *string    `json:"resolution_action,omitempty"`
	AdjustedValue    *int64     `json:"adjusted_value,omitempty"`
	ResolutionNotes  *string    `json:"resolution_notes,omitempty"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func ToResponse(i Irregularity) IrregularityResponse {
	resp := IrregularityResponse{
		ID:               i.ID.String(),
		PayrollRunID:     i.PayrollRunID.String(),
		Severity:         i.Severity,
		Status:           i.Status,
		Description:      i.Description,
		LineKind:         i.LineKind,
		EscalationReason: i.EscalationReason,
		EscalatedAt:      i.EscalatedAt,
		ResolutionAction: i.ResolutionAction,
		AdjustedValue:    i.AdjustedValue,
		ResolutionNotes:  i.ResolutionNotes,
		ResolvedAt:       i.ResolvedAt,
		CreatedAt:        i.CreatedAt,
	}
	if i.DetailID != nil {
		s := i.DetailID.String()
		resp.DetailID = &s
	}
	return resp
}
