package irregularity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SeverityInfo     = "INFO"
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"

	StatusPending   = "PENDING"
	StatusEscalated = "ESCALATED"
	StatusResolved  = "RESOLVED"
	StatusRejected  = "REJECTED"

	ActionApproved = "APPROVED"
	ActionRejected = "REJECTED"
	ActionExcluded = "EXCLUDED"
	ActionAdjusted = "ADJUSTED"
)

type Irregularity struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	PayrollRunID uuid.UUID  `gorm:"type:uuid;not null;index"`
	DetailID     *uuid.UUID `gorm:"type:uuid;index"` // detail karyawan terkait, kalau ada
	Severity     string     `gorm:"type:varchar(20);not null"`
	Status       string     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Description  string     `gorm:"type:text;not null"`
	LineKind     *string    `gorm:"type:varchar(40)"` // jenis line yang bisa dikoreksi via ADJUSTED

	EscalatedBy      *uuid.UUID `gorm:"type:uuid"`
	EscalationReason *string    `gorm:"type:text"`
	EscalatedAt      *time.Time

	ResolutionAction *string    `gorm:"type:varchar(20)"`
	AdjustedValue    *int64     `gorm:"type:bigint"` // satuan terkecil
	ResolutionNotes  *string    `gorm:"type:text"`
	ResolvedBy       *uuid.UUID `gorm:"type:uuid"`
	ResolvedAt       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Blocking: PENDING/ESCALATED dengan severity HIGH/CRITICAL menahan lock run.
func (i Irregularity) IsBlocking() bool {
	open := i.Status == StatusPending || i.Status == StatusEscalated
	severe := i.Severity == SeverityHigh || i.Severity == SeverityCritical
	return open && severe
}

func (i Irregularity) IsTerminal() bool {
	return i.Status == StatusResolved || i.Status == StatusRejected
}

func ValidSeverity(s string) bool {
	switch s {
	case SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

func ValidResolutionAction(a string) bool {
	switch a {
	case ActionApproved, ActionRejected, ActionExcluded, ActionAdjusted:
		return true
	}
	return false
}
