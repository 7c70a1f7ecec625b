package employee

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot adalah potret read-only master data karyawan pada satu titik waktu.
// Engine payroll tidak pernah menulis ke modul kepegawaian; semua kalkulasi
// bekerja dari snapshot yang diambil saat run dibuat.
type Snapshot struct {
	EmployeeID      uuid.UUID
	CompanyID       uuid.UUID
	DepartmentID    *uuid.UUID
	FullName        string
	BaseSalary      int64 // satuan terkecil, dari riwayat gaji efektif terakhir
	PayGrade        string
	Jurisdiction    string
	ContractType    string
	HireDate        time.Time
	TerminationDate *time.Time
}

const (
	ContractPermanent = "PERMANENT"
	ContractFixedTerm = "FIXED_TERM"
)

// ActiveDaysInPeriod menghitung hari kontrak aktif di dalam periode untuk
// prorata gaji pokok (join/keluar di tengah periode).
func (s Snapshot) ActiveDaysInPeriod(periodStart, periodEnd time.Time) int {
	start := periodStart
	if s.HireDate.After(start) {
		start = s.HireDate
	}
	end := periodEnd
	if s.TerminationDate != nil && s.TerminationDate.Before(end) {
		end = *s.TerminationDate
	}
	if start.After(end) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// TerminatesInPeriod reports whether this is the employee's final period.
func (s Snapshot) TerminatesInPeriod(periodStart, periodEnd time.Time) bool {
	if s.TerminationDate == nil {
		return false
	}
	return !s.TerminationDate.Before(periodStart) && !s.TerminationDate.After(periodEnd)
}
