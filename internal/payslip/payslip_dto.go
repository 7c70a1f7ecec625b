package payslip

import (
	"encoding/json"
	"time"
)

type DisputePayslipRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type PayslipResponse struct {
	ID           string `json:"id"`
	PayrollRunID string `json:"payroll_run_id"`
	EmployeeID   string `json:"employee_id"`

	Breakdown json.RawMessage `json:"breakdown"`

	TotalGross      int64 `json:"total_gross"`
	TotalDeductions int64 `json:"total_deductions"`
	NetPay          int64 `json:"net_pay"`

	PaymentStatus string     `json:"payment_status"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	DisputeReason *string    `json:"dispute_reason,omitempty"`
	DisputedAt    *time.Time `json:"disputed_at,omitempty"`

	PdfURL      *string   `json:"pdf_url,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// GenerationReport merangkum hasil generate satu run: idempoten per karyawan,
// kegagalan parsial dilaporkan tanpa membatalkan payslip yang berhasil.
type GenerationReport struct {
	PayrollRunID string              `json:"payroll_run_id"`
	Generated    int                 `json:"generated"`
	Skipped      int                 `json:"skipped"`
	Failed       []GenerationFailure `json:"failed,omitempty"`
}

type GenerationFailure struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

func ToPayslipResponse(p Payslip) PayslipResponse {
	return PayslipResponse{
		ID:              p.ID.String(),
		PayrollRunID:    p.PayrollRunID.String(),
		EmployeeID:      p.EmployeeID.String(),
		Breakdown:       json.RawMessage(p.Breakdown),
		TotalGross:      p.TotalGross,
		TotalDeductions: p.TotalDeductions,
		NetPay:          p.NetPay,
		PaymentStatus:   p.PaymentStatus,
		PaidAt:          p.PaidAt,
		DisputeReason:   p.DisputeReason,
		DisputedAt:      p.DisputedAt,
		PdfURL:          p.PdfURL,
		GeneratedAt:     p.GeneratedAt,
	}
}
