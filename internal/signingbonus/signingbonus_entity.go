package signingbonus

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// SigningBonus hidup di luar state machine run: disetujui lebih dulu, lalu
// dibawa masuk ke run yang periodenya memuat BonusDate. DisbursedDetailID
// menunjuk line detail tempat bonus benar-benar dibayar; sekali terisi tidak
// boleh berubah lagi supaya tidak dobel bayar.
type SigningBonus struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"type:varchar(120);not null"`
	Amount     int64     `gorm:"type:bigint;not null"`
	BonusDate  time.Time `gorm:"type:date;not null"`
	Status     string    `gorm:"type:varchar(20);not null;default:'PENDING'"`

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

func (b SigningBonus) IsDisbursed() bool {
	return b.DisbursedDetailID != nil
}
