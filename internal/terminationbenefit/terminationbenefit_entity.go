package terminationbenefit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"

	KindTermination = "TERMINATION"
	KindResignation = "RESIGNATION"
)

// TerminationBenefit dibayar (atau dipotong) di periode terakhir karyawan.
// Amount bertanda: positif berarti tambahan (pesangon), negatif berarti
// potongan (mis. clawback masa pemberitahuan yang tidak dipenuhi).
type TerminationBenefit struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind          string    `gorm:"type:varchar(20);not null;default:'TERMINATION'"`
	Name          string    `gorm:"type:varchar(120);not null"`
	Amount        int64     `gorm:"type:bigint;not null"`
	EffectiveDate time.Time `gorm:"type:date;not null"`
	Status        string    `gorm:"type:varchar(20);not null;default:'PENDING'"`

	ApprovedBy *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt *time.Time

	RejectReason *string    `gorm:"type:text"`
	RejectedBy   *uuid.UUID `gorm:"type:uuid"`
	RejectedAt   *time.Time

	DisbursedDetailID *uuid.UUID `gorm:"type:uuid"`
	DisbursedAt       *time.Time

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (b TerminationBenefit) IsDisbursed() bool {
	return b.DisbursedDetailID != nil
}

func ValidKind(k string) bool {
	return k == KindTermination || k == KindResignation
}
