package payrule

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tabel aturan bersifat versioned + effective-dated dan immutable: perubahan
// tarif selalu berupa baris versi baru, tidak pernah update in-place, supaya
// run yang sedang berjalan tidak berubah hasilnya di tengah jalan.

const (
	TaxModeProgressive = "PROGRESSIVE"
	TaxModeFlat        = "FLAT"

	InsuranceKindPercent = "PERCENT"
	InsuranceKindFixed   = "FIXED"
)

type TaxRule struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_tax_rules_company_jurisdiction"`
	Jurisdiction  string     `gorm:"type:varchar(60);not null;index:idx_tax_rules_company_jurisdiction"`
	Name          string     `gorm:"type:varchar(120);not null"`
	Mode          string     `gorm:"type:varchar(20);not null;default:'PROGRESSIVE'"`
	EffectiveFrom time.Time  `gorm:"type:date;not null"`
	EffectiveTo   *time.Time `gorm:"type:date"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Brackets []TaxBracket `gorm:"foreignKey:TaxRuleID"`
}

type TaxBracket struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TaxRuleID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	LowerBound  int64           `gorm:"type:bigint;not null;default:0"`
	UpperBound  *int64          `gorm:"type:bigint"` // NULL = bracket teratas
	RatePercent decimal.Decimal `gorm:"type:numeric(7,4);not null"`
	CreatedAt   time.Time
}

type InsuranceRule struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_insurance_rules_company_jurisdiction"`
	Jurisdiction  string          `gorm:"type:varchar(60);not null;index:idx_insurance_rules_company_jurisdiction"`
	Name          string          `gorm:"type:varchar(120);not null"`
	Kind          string          `gorm:"type:varchar(20);not null;default:'PERCENT'"`
	RatePercent   decimal.Decimal `gorm:"type:numeric(7,4);not null;default:0"`
	FixedAmount   int64           `gorm:"type:bigint;not null;default:0"`
	EffectiveFrom time.Time       `gorm:"type:date;not null"`
	EffectiveTo   *time.Time      `gorm:"type:date"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type PayGradeRule struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID           uuid.UUID  `gorm:"type:uuid;not null;index:idx_pay_grade_rules_company_grade"`
	Grade               string     `gorm:"type:varchar(30);not null;index:idx_pay_grade_rules_company_grade"`
	StandardWorkingDays int        `gorm:"type:int;not null;default:20"`
	EffectiveFrom       time.Time  `gorm:"type:date;not null"`
	EffectiveTo         *time.Time `gorm:"type:date"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Allowances []AllowanceRule `gorm:"foreignKey:PayGradeRuleID"`
}

type AllowanceRule struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayGradeRuleID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name           string    `gorm:"type:varchar(120);not null"`
	Amount         int64     `gorm:"type:bigint;not null;default:0"`
	CreatedAt      time.Time
}

// Bundle adalah hasil resolve untuk satu karyawan + periode: versi aturan yang
// berlaku, sudah final, siap dipakai kalkulator tanpa I/O lagi.
type Bundle struct {
	Tax        TaxRule
	Insurances []InsuranceRule
	PayGrade   PayGradeRule

	// StaleRules berisi nama aturan yang versinya lebih tua dari satu siklus
	// penuh sebelum periode; detektor menjadikannya temuan MEDIUM.
	StaleRules []string
}
