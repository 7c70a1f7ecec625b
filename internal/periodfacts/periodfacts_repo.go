package periodfacts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=periodfacts_repo.go -destination=mock/periodfacts_repo_mock.go -package=mock
type Repository interface {
	GetFacts(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) (Facts, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetFacts(
	ctx context.Context,
	companyID, employeeID string,
	periodStart, periodEnd time.Time,
) (Facts, error) {
	facts := Facts{EmployeeID: uuid.MustParse(employeeID)}

	// Hari cuti tak berbayar = total hari APPROVED UNPAID yang overlap dengan
	// periode, dipotong ke batas periode.
	var unpaidDays int
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(
			(LEAST(end_date, ?::date) - GREATEST(start_date, ?::date)) + 1
		), 0)
		FROM leaves
		WHERE company_id = ?
		  AND employee_id = ?
		  AND leave_type = 'UNPAID'
		  AND status = 'APPROVED'
		  AND deleted_at IS NULL
		  AND NOT (end_date < ? OR start_date > ?)
	`, periodEnd, periodStart, companyID, employeeID, periodStart, periodEnd).
		Scan(&unpaidDays).Error
	if err != nil {
		return Facts{}, err
	}
	facts.UnpaidLeaveDays = unpaidDays

	var penalties []Penalty
	err = r.db.WithContext(ctx).Raw(`
		SELECT name, amount
		FROM disciplinary_penalties
		WHERE company_id = ?
		  AND employee_id = ?
		  AND incurred_on BETWEEN ? AND ?
		  AND deleted_at IS NULL
		ORDER BY incurred_on ASC
	`, companyID, employeeID, periodStart, periodEnd).
		Scan(&penalties).Error
	if err != nil {
		return Facts{}, err
	}
	facts.Penalties = penalties

	return facts, nil
}
