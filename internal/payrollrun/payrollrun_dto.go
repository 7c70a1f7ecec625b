package payrollrun

import "time"

type CreatePayrollRunRequest struct {
	PeriodStart  string  `json:"period_start" binding:"required,datetime=2006-01-02"`
	PeriodEnd    string  `json:"period_end" binding:"required,datetime=2006-01-02"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
}

type UpdatePayrollRunRequest struct {
	PeriodStart  *string `json:"period_start" binding:"omitempty,datetime=2006-01-02"`
	PeriodEnd    *string `json:"period_end" binding:"omitempty,datetime=2006-01-02"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
}

type RejectRunRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type UnfreezeRunRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ListRunsFilterRequest struct {
	Status     string `form:"status" binding:"omitempty,oneof=DRAFT PENDING_MANAGER_APPROVAL APPROVED PENDING_FINANCE_APPROVAL LOCKED REJECTED"`
	PeriodFrom string `form:"period_from" binding:"omitempty,datetime=2006-01-02"`
	PeriodTo   string `form:"period_to" binding:"omitempty,datetime=2006-01-02"`
}

type PayrollRunResponse struct {
	ID           string  `json:"id"`
	RunNumber    string  `json:"run_number"`
	DepartmentID *string `json:"department_id,omitempty"`
	PeriodStart  string  `json:"period_start"`
	PeriodEnd    string  `json:"period_end"`
	Status       string  `json:"status"`
	Flagged      bool    `json:"flagged"`

	TotalGross      int64 `json:"total_gross"`
	TotalDeductions int64 `json:"total_deductions"`
	TotalNetPay     int64 `json:"total_net_pay"`
	EmployeeCount   int   `json:"employee_count"`

	SubmittedAt       *time.Time `json:"submitted_at,omitempty"`
	ManagerApprovedAt *time.Time `json:"manager_approved_at,omitempty"`
	FinanceApprovedAt *time.Time `json:"finance_approved_at,omitempty"`
	RejectReason      *string    `json:"reject_reason,omitempty"`
	RejectedAt        *time.Time `json:"rejected_at,omitempty"`
	UnfreezeReason    *string    `json:"unfreeze_reason,omitempty"`
	UnfrozenAt        *time.Time `json:"unfrozen_at,omitempty"`
	LockedAt          *time.Time `json:"locked_at,omitempty"`
	PaidAt            *time.Time `json:"paid_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type PayItemResponse struct {
	Kind     string  `json:"kind"`
	Name     string  `json:"name"`
	Amount   int64   `json:"amount"`
	RuleID   *string `json:"rule_id,omitempty"`
	SourceID *string `json:"source_id,omitempty"`
}

type EmployeeDetailResponse struct {
	ID              string            `json:"id"`
	EmployeeID      string            `json:"employee_id"`
	Earnings        []PayItemResponse `json:"earnings"`
	Deductions      []PayItemResponse `json:"deductions"`
	TotalGross      int64             `json:"total_gross"`
	TotalDeductions int64             `json:"total_deductions"`
	NetPay          int64             `json:"net_pay"`
}

func ToRunResponse(r PayrollRun) PayrollRunResponse {
	resp := PayrollRunResponse{
		ID:                r.ID.String(),
		RunNumber:         r.RunNumber,
		PeriodStart:       r.PeriodStart.Format("2006-01-02"),
		PeriodEnd:         r.PeriodEnd.Format("2006-01-02"),
		Status:            r.Status,
		Flagged:           r.Flagged,
		TotalGross:        r.TotalGross,
		TotalDeductions:   r.TotalDeductions,
		TotalNetPay:       r.TotalNetPay,
		EmployeeCount:     r.EmployeeCount,
		SubmittedAt:       r.SubmittedAt,
		ManagerApprovedAt: r.ManagerApprovedAt,
		FinanceApprovedAt: r.FinanceApprovedAt,
		RejectReason:      r.RejectReason,
		RejectedAt:        r.RejectedAt,
		UnfreezeReason:    r.UnfreezeReason,
		UnfrozenAt:        r.UnfrozenAt,
		LockedAt:          r.LockedAt,
		PaidAt:            r.PaidAt,
		CreatedAt:         r.CreatedAt,
	}
	if r.DepartmentID != nil {
		s := r.DepartmentID.String()
		resp.DepartmentID = &s
	}
	return resp
}

func ToDetailResponse(d EmployeeDetail) EmployeeDetailResponse {
	resp := EmployeeDetailResponse{
		ID:              d.ID.String(),
		EmployeeID:      d.EmployeeID.String(),
		Earnings:        make([]PayItemResponse, 0),
		Deductions:      make([]PayItemResponse, 0),
		TotalGross:      d.TotalGross,
		TotalDeductions: d.TotalDeductions,
		NetPay:          d.NetPay,
	}
	for _, item := range d.Items {
		ir := PayItemResponse{
			Kind:   item.Kind,
			Name:   item.Name,
			Amount: item.Amount,
		}
		if item.RuleID != nil {
			s := item.RuleID.String()
			ir.RuleID = &s
		}
		if item.SourceID != nil {
			s := item.SourceID.String()
			ir.SourceID = &s
		}
		if item.Category == CategoryDeduction {
			resp.Deductions = append(resp.Deductions, ir)
		} else {
			resp.Earnings = append(resp.Earnings, ir)
		}
	}
	return resp
}
