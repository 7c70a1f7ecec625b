package payrollrun

import (
	"time"

	"go-payroll/internal/employee"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusDraft          = "DRAFT"
	StatusPendingManager = "PENDING_MANAGER_APPROVAL"
	StatusApproved       = "APPROVED"
	StatusPendingFinance = "PENDING_FINANCE_APPROVAL"
	StatusLocked         = "LOCKED"
	StatusRejected       = "REJECTED"
)

const (
	CategoryEarning   = "EARNING"
	CategoryDeduction = "DEDUCTION"
)

// PayrollRun adalah agregat batch per periode. Version dipakai sebagai
// optimistic lock: setiap transisi state menulis WHERE version = ? sehingga
// dua approver yang balapan tidak bisa sama-sama menang.
type PayrollRun struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	RunNumber    string     `gorm:"type:varchar(40);not null;uniqueIndex:uq_payroll_runs_company_number,where:deleted_at IS NULL"`
	DepartmentID *uuid.UUID `gorm:"type:uuid"` // nil = seluruh perusahaan
	PeriodStart  time.Time  `gorm:"type:date;not null"`
	PeriodEnd    time.Time  `gorm:"type:date;not null"`
	Status       string     `gorm:"type:varchar(30);not null;default:'DRAFT'"`
	Version      int        `gorm:"type:int;not null;default:1"`

	// Flagged menandai ada temuan HIGH/CRITICAL saat submit; run tetap masuk
	// antrian approval tapi butuh keputusan override eksplisit.
	Flagged bool `gorm:"not null;default:false"`

	TotalGross      int64 `gorm:"type:bigint;not null;default:0"`
	TotalDeductions int64 `gorm:"type:bigint;not null;default:0"`
	TotalNetPay     int64 `gorm:"type:bigint;not null;default:0"`
	EmployeeCount   int   `gorm:"type:int;not null;default:0"`

	SubmittedBy *uuid.UUID `gorm:"type:uuid"`
	SubmittedAt *time.Time

	ManagerApprovedBy *uuid.UUID `gorm:"type:uuid"`
	ManagerApprovedAt *time.Time

	FinanceApprovedBy *uuid.UUID `gorm:"type:uuid"`
	FinanceApprovedAt *time.Time

	RejectedBy   *uuid.UUID `gorm:"type:uuid"`
	RejectReason *string    `gorm:"type:text"`
	RejectedAt   *time.Time

	UnfrozenBy     *uuid.UUID `gorm:"type:uuid"`
	UnfreezeReason *string    `gorm:"type:text"`
	UnfrozenAt     *time.Time

	LockedAt *time.Time
	PaidAt   *time.Time

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Employees []RunEmployee `gorm:"foreignKey:PayrollRunID"`
}

// RunEmployee membekukan populasi + master data karyawan saat run dibuat.
// Populasi TIDAK di-query ulang di transisi berikutnya; hanya edit di
// DRAFT/REJECTED yang mengambil snapshot baru.
type RunEmployee struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollRunID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	EmployeeID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	DepartmentID    *uuid.UUID `gorm:"type:uuid"`
	FullName        string     `gorm:"type:varchar(160);not null"`
	BaseSalary      int64      `gorm:"type:bigint;not null"`
	PayGrade        string     `gorm:"type:varchar(30);not null"`
	Jurisdiction    string     `gorm:"type:varchar(60);not null"`
	ContractType    string     `gorm:"type:varchar(20);not null"`
	HireDate        time.Time  `gorm:"type:date;not null"`
	TerminationDate *time.Time `gorm:"type:date"`
	CreatedAt       time.Time
}

// Snapshot mengembalikan bentuk yang dimengerti kalkulator.
func (e RunEmployee) Snapshot(companyID uuid.UUID) employee.Snapshot {
	return employee.Snapshot{
		EmployeeID:      e.EmployeeID,
		CompanyID:       companyID,
		DepartmentID:    e.DepartmentID,
		FullName:        e.FullName,
		BaseSalary:      e.BaseSalary,
		PayGrade:        e.PayGrade,
		Jurisdiction:    e.Jurisdiction,
		ContractType:    e.ContractType,
		HireDate:        e.HireDate,
		TerminationDate: e.TerminationDate,
	}
}

// EmployeeDetail menyimpan hasil kalkulasi satu karyawan dalam satu run.
// Invariant: NetPay == TotalGross - TotalDeductions, dan total selalu sama
// dengan penjumlahan Items-nya.
type EmployeeDetail struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	PayrollRunID    uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID      uuid.UUID `gorm:"type:uuid;not null;index"`
	TotalGross      int64     `gorm:"type:bigint;not null"`
	TotalDeductions int64     `gorm:"type:bigint;not null"`
	NetPay          int64     `gorm:"type:bigint;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []PayItem `gorm:"foreignKey:DetailID"`
}

type PayItem struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DetailID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Category string     `gorm:"type:varchar(12);not null"` // EARNING / DEDUCTION
	Kind     string     `gorm:"type:varchar(40);not null"`
	Name     string     `gorm:"type:varchar(160);not null"`
	Amount   int64      `gorm:"type:bigint;not null"`
	RuleID   *uuid.UUID `gorm:"type:uuid"` // aturan pajak/asuransi yang dipakai
	SourceID *uuid.UUID `gorm:"type:uuid"` // baris sub-ledger asal
}

func (r PayrollRun) Editable() bool {
	return r.Status == StatusDraft || r.Status == StatusRejected
}

func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPendingManager, StatusApproved,
		StatusPendingFinance, StatusLocked, StatusRejected:
		return true
	}
	return false
}
