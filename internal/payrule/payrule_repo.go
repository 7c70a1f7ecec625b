package payrule

import (
	"context"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payrule_repo.go -destination=mock/payrule_repo_mock.go -package=mock
type Repository interface {
	ListTaxRules(ctx context.Context, companyID, jurisdiction string) ([]TaxRule, error)
	ListInsuranceRules(ctx context.Context, companyID, jurisdiction string) ([]InsuranceRule, error)
	ListPayGradeRules(ctx context.Context, companyID, grade string) ([]PayGradeRule, error)

	// Listing untuk endpoint read-only.
	ListAllTaxRules(ctx context.Context, companyID string) ([]TaxRule, error)
	ListAllInsuranceRules(ctx context.Context, companyID string) ([]InsuranceRule, error)
	ListAllPayGradeRules(ctx context.Context, companyID string) ([]PayGradeRule, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListTaxRules(ctx context.Context, companyID, jurisdiction string) ([]TaxRule, error) {
	var rules []TaxRule
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("jurisdiction = ?", jurisdiction).
		Preload("Brackets", func(db *gorm.DB) *gorm.DB {
			return db.Order("lower_bound ASC")
		}).
		Order("effective_from DESC").
		Find(&rules).Error
	return rules, err
}

func (r *repository) ListInsuranceRules(ctx context.Context, companyID, jurisdiction string) ([]InsuranceRule, error) {
	var rules []InsuranceRule
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("jurisdiction = ?", jurisdiction).
		Order("effective_from DESC").
		Find(&rules).Error
	return rules, err
}

func (r *repository) ListPayGradeRules(ctx context.Context, companyID, grade string) ([]PayGradeRule, error) {
	var rules []PayGradeRule
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("grade = ?", grade).
		Preload("Allowances").
		Order("effective_from DESC").
		Find(&rules).Error
	return rules, err
}

func (r *repository) ListAllTaxRules(ctx context.Context, companyID string) ([]TaxRule, error) {
	var rules []TaxRule
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Brackets", func(db *gorm.DB) *gorm.DB {
			return db.Order("lower_bound ASC")
		}).
		Order("jurisdiction ASC, effective_from DESC").
		Find(&rules).Error
	return rules, err
}

func (r *repository) ListAllInsuranceRules(ctx context.Context, companyID string) ([]InsuranceRule, error) {
	var rules []InsuranceRule
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("jurisdiction ASC, effective_from DESC").
		Find(&rules).Error
	return rules, err
}

func (r *repository) ListAllPayGradeRules(ctx context.Context, companyID string) ([]PayGradeRule, error) {
	var rules []PayGradeRule
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Allowances").
		Order("grade ASC, effective_from DESC").
		Find(&rules).Error
	return rules, err
}
