package signingbonus

import "time"

type CreateSigningBonusRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Name       string `json:"name" binding:"required"`
	Amount     int64  `json:"amount" binding:"required,gt=0"`
	BonusDate  string `json:"bonus_date" binding:"required,datetime=2006-01-02"`
}

type UpdateSigningBonusRequest struct {
	Name      *string `json:"name"`
	Amount    *int64  `json:"amount" binding:"omitempty,gt=0"`
	BonusDate *string `json:"bonus_date" binding:"omitempty,datetime=2006-01-02"`
}

type RejectSigningBonusRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ListSigningBonusFilterRequest struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
}

type SigningBonusResponse struct {
	ID                string     `json:"id"`
	EmployeeID        string     `json:"employee_id"`
	Name              string     `json:"name"`
	Amount            int64      `json:"amount"`
	BonusDate         string     `json:"bonus_date"`
	Status            string     `json:"status"`
	ApprovedAt        *time.Time `json:"approved_at,omitempty"`
	RejectReason      *string    `json:"reject_reason,omitempty"`
	RejectedAt        *time.Time `json:"rejected_at,omitempty"`
	DisbursedDetailID *string    `json:"disbursed_detail_id,omitempty"`
	DisbursedAt       *time.Time `json:"disbursed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func ToResponse(b SigningBonus) SigningBonusResponse {
	resp := SigningBonusResponse{
		ID:           b.ID.String(),
		EmployeeID:   b.EmployeeID.String(),
		Name:         b.Name,
		Amount:       b.Amount,
		BonusDate:    b.BonusDate.Format("2006-01-02"),
		Status:       b.Status,
		ApprovedAt:   b.ApprovedAt,
		RejectReason: b.RejectReason,
		RejectedAt:   b.RejectedAt,
		DisbursedAt:  b.DisbursedAt,
		CreatedAt:    b.CreatedAt,
	}
	if b.DisbursedDetailID != nil {
		s := b.DisbursedDetailID.String()
		resp.DisbursedDetailID = &s
	}
	return resp
}
