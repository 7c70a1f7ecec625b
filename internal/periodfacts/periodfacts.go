package periodfacts

import (
	"time"

	"github.com/google/uuid"
)

// Facts adalah agregat read-only dari modul cuti dan kehadiran untuk satu
// karyawan dalam satu periode gaji. Engine hanya membaca; modul lain yang
// memiliki datanya.
type Facts struct {
	EmployeeID      uuid.UUID
	UnpaidLeaveDays int
	Penalties       []Penalty
}

// Penalty adalah potongan kedisiplinan/misconduct yang sudah final untuk
// periode tersebut.
type Penalty struct {
	Name   string
	Amount int64 // satuan terkecil
}

type Period struct {
	Start time.Time
	End   time.Time
}
