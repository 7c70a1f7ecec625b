package terminationbenefit

import (
	"context"
	"time"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=terminationbenefit_repo.go -destination=mock/terminationbenefit_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, benefit *TerminationBenefit) error
	FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]TerminationBenefit, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*TerminationBenefit, error)
	Update(ctx context.Context, benefit *TerminationBenefit) error
	Delete(ctx context.Context, companyID, id string) error

	FindApprovedUndisbursed(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) ([]TerminationBenefit, error)
	MarkDisbursed(ctx context.Context, id, detailID string, at time.Time) (bool, error)
}

type ListFilter struct {
	EmployeeID string
	Status     string
	Kind       string
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, benefit *TerminationBenefit) error {
	return r.db.WithContext(ctx).Create(benefit).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]TerminationBenefit, error) {
	q := r.db.WithContext(ctx).Scopes(tenant.Scope(companyID))
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Kind != "" {
		q = q.Where("kind = ?", filter.Kind)
	}

	var benefits []TerminationBenefit
	err := q.Order("effective_date DESC").Find(&benefits).Error
	return benefits, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*TerminationBenefit, error) {
	var benefit TerminationBenefit
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&benefit, "id = ?", id).Error
	return &benefit, err
}

func (r *repository) Update(ctx context.Context, benefit *TerminationBenefit) error {
	return r.db.WithContext(ctx).Save(benefit).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&TerminationBenefit{}, "id = ?", id).Error
}

func (r *repository) FindApprovedUndisbursed(
	ctx context.Context,
	companyID, employeeID string,
	periodStart, periodEnd time.Time,
) ([]TerminationBenefit, error) {
	var benefits []TerminationBenefit
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusApproved).
		Where("disbursed_detail_id IS NULL").
		Where("effective_date BETWEEN ? AND ?", periodStart, periodEnd).
		Order("effective_date ASC").
		Find(&benefits).Error
	return benefits, err
}

func (r *repository) MarkDisbursed(ctx context.Context, id, detailID string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&TerminationBenefit{}).
		Where("id = ?", id).
		Where("disbursed_detail_id IS NULL OR disbursed_detail_id = ?", detailID).
		Updates(map[string]any{
			"disbursed_detail_id": detailID,
			"disbursed_at":        at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
