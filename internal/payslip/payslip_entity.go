package payslip

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentPending  = "PENDING"
	PaymentPaid     = "PAID"
	PaymentDisputed = "DISPUTED"
)

// Payslip adalah artefak immutable per karyawan per run. Breakdown dibekukan
// sebagai JSON saat run dikunci; unfreeze run tidak menyentuh payslip yang
// sudah terbit. Satu-satunya yang boleh berubah adalah status pembayaran.
type Payslip struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;index"`
	PayrollRunID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payslips_run_employee"`
	DetailID     uuid.UUID `gorm:"type:uuid;not null"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_payslips_run_employee"`

	Breakdown []byte `gorm:"type:jsonb;not null"`

	TotalGross      int64 `gorm:"type:bigint;not null"`
	TotalDeductions int64 `gorm:"type:bigint;not null"`
	NetPay          int64 `gorm:"type:bigint;not null"`

	PaymentStatus string     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	PaidBy        *uuid.UUID `gorm:"type:uuid"`
	PaidAt        *time.Time

	DisputeReason *string    `gorm:"type:text"`
	DisputedBy    *uuid.UUID `gorm:"type:uuid"`
	DisputedAt    *time.Time

	PdfURL      *string `gorm:"type:text"`
	GeneratedAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentDisputed:
		return true
	}
	return false
}
