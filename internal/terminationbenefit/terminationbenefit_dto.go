package terminationbenefit

import "time"

type CreateTerminationBenefitRequest struct {
	EmployeeID    string `json:"employee_id" binding:"required,uuid"`
	Kind          string `json:"kind" binding:"required,oneof=TERMINATION RESIGNATION"`
	Name          string `json:"name" binding:"required"`
	Amount        int64  `json:"amount" binding:"required"` // bertanda, tidak boleh nol
	EffectiveDate string `json:"effective_date" binding:"required,datetime=2006-01-02"`
}

type UpdateTerminationBenefitRequest struct {
	Name          *string `json:"name"`
	Amount        *int64  `json:"amount"`
	EffectiveDate *string `json:"effective_date" binding:"omitempty,datetime=2006-01-02"`
}

type RejectTerminationBenefitRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ListTerminationBenefitFilterRequest struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Kind       string `form:"kind" binding:"omitempty,oneof=TERMINATION RESIGNATION"`
}

type TerminationBenefitResponse struct {
	ID                string     `json:"id"`
	EmployeeID        string     `json:"employee_id"`
	Kind              string     `json:"kind"`
	Name              string     `json:"name"`
	Amount            int64      `json:"amount"`
	EffectiveDate     string     `json:"effective_date"`
	Status            string     `json:"status"`
	ApprovedAt        *time.Time `json:"approved_at,omitempty"`
	RejectReason      *string    `json:"reject_reason,omitempty"`
	RejectedAt        *time.Time `json:"rejected_at,omitempty"`
	DisbursedDetailID *string    `json:"disbursed_detail_id,omitempty"`
	DisbursedAt       *time.Time `json:"disbursed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func ToResponse(b TerminationBenefit) TerminationBenefitResponse {
	resp := TerminationBenefitResponse{
		ID:            b.ID.String(),
		EmployeeID:    b.EmployeeID.String(),
		Kind:          b.Kind,
		Name:          b.Name,
		Amount:        b.Amount,
		EffectiveDate: b.EffectiveDate.Format("2006-01-02"),
		Status:        b.Status,
		ApprovedAt:    b.ApprovedAt,
		RejectReason:  b.RejectReason,
		RejectedAt:    b.RejectedAt,
		DisbursedAt:   b.DisbursedAt,
		CreatedAt:     b.CreatedAt,
	}
	if b.DisbursedDetailID != nil {
		s := b.DisbursedDetailID.String()
		resp.DisbursedDetailID = &s
	}
	return resp
}
