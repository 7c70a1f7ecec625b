package events

import "time"

const PayrollRunLockedTopic = "payroll.run.locked.v1"

// Diterbitkan setelah finance approve mengunci run. Konsumer payslip memakai
// event ini untuk membangkitkan slip gaji di luar transaksi HTTP.
type PayrollRunLockedEvent struct {
	EventType    string    `json:"event_type"`
	PayrollRunID string    `json:"payroll_run_id"`
	CompanyID    string    `json:"company_id"`
	LockedBy     string    `json:"locked_by"`
	OccurredAt   time.Time `json:"occurred_at"`
}
