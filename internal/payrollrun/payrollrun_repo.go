package payrollrun

import (
	"context"
	"time"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payrollrun_repo.go -destination=mock/payrollrun_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, run *PayrollRun) error
	FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]PayrollRun, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollRun, error)

	// UpdateWithVersion menulis seluruh field mutable dengan guard optimistic
	// lock; false berarti writer lain sudah menang duluan.
	UpdateWithVersion(ctx context.Context, run *PayrollRun) (bool, error)
	Delete(ctx context.Context, companyID, id string) error

	FindEmployees(ctx context.Context, runID string) ([]RunEmployee, error)
	ReplaceEmployees(ctx context.Context, runID string, employees []RunEmployee) error

	FindDetails(ctx context.Context, runID string) ([]EmployeeDetail, error)
	FindDetailByID(ctx context.Context, runID, detailID string) (*EmployeeDetail, error)
	ReplaceDetails(ctx context.Context, runID string, details []EmployeeDetail) error
	UpdateItemAmount(ctx context.Context, itemID string, amount int64) error
	UpdateDetailTotals(ctx context.Context, detail *EmployeeDetail) error

	// SumDetailTotals menghitung ulang agregat run dari penjumlahan detail,
	// bukan patch inkremental, supaya total tidak pernah drift.
	SumDetailTotals(ctx context.Context, runID string) (DetailTotals, error)
}

type ListFilter struct {
	Status     string
	PeriodFrom *time.Time
	PeriodTo   *time.Time
}

type DetailTotals struct {
	TotalGross      int64
	TotalDeductions int64
	TotalNetPay     int64
	EmployeeCount   int
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

func (r *repository) Create(ctx context.Context, run *PayrollRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]PayrollRun, error) {
	q := r.db.WithContext(ctx).Scopes(tenant.Scope(companyID))
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PeriodFrom != nil {
		q = q.Where("period_end >= ?", *filter.PeriodFrom)
	}
	if filter.PeriodTo != nil {
		q = q.Where("period_start <= ?", *filter.PeriodTo)
	}

	var runs []PayrollRun
	err := q.Order("period_start DESC, run_number DESC").Find(&runs).Error
	return runs, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollRun, error) {
	var run PayrollRun
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&run, "id = ?", id).Error
	return &run, err
}

func (r *repository) UpdateWithVersion(ctx context.Context, run *PayrollRun) (bool, error) {
	currentVersion := run.Version
	run.Version++

	res := r.db.WithContext(ctx).
		Model(&PayrollRun{}).
		Where("id = ? AND version = ?", run.ID, currentVersion).
		Select(
			"status", "version", "flagged",
			"total_gross", "total_deductions", "total_net_pay", "employee_count",
			"department_id", "period_start", "period_end",
			"submitted_by", "submitted_at",
			"manager_approved_by", "manager_approved_at",
			"finance_approved_by", "finance_approved_at",
			"rejected_by", "reject_reason", "rejected_at",
			"unfrozen_by", "unfreeze_reason", "unfrozen_at",
			"locked_at", "paid_at", "updated_at",
		).
		Updates(run)
	if res.Error != nil {
		run.Version = currentVersion
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		run.Version = currentVersion
		return false, nil
	}
	return true, nil
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&PayrollRun{}, "id = ?", id).Error
}

func (r *repository) FindEmployees(ctx context.Context, runID string) ([]RunEmployee, error) {
	var employees []RunEmployee
	err := r.db.WithContext(ctx).
		Where("payroll_run_id = ?", runID).
		Order("full_name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) ReplaceEmployees(ctx context.Context, runID string, employees []RunEmployee) error {
	if err := r.db.WithContext(ctx).
		Where("payroll_run_id = ?", runID).
		Delete(&RunEmployee{}).Error; err != nil {
		return err
	}
	if len(employees) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&employees).Error
}

func (r *repository) FindDetails(ctx context.Context, runID string) ([]EmployeeDetail, error) {
	var details []EmployeeDetail
	err := r.db.WithContext(ctx).
		Where("payroll_run_id = ?", runID).
		Preload("Items").
		Order("created_at ASC").
		Find(&details).Error
	return details, err
}

func (r *repository) FindDetailByID(ctx context.Context, runID, detailID string) (*EmployeeDetail, error) {
	var detail EmployeeDetail
	err := r.db.WithContext(ctx).
		Where("payroll_run_id = ?", runID).
		Preload("Items").
		First(&detail, "id = ?", detailID).Error
	return &detail, err
}

func (r *repository) ReplaceDetails(ctx context.Context, runID string, details []EmployeeDetail) error {
	// Hapus item dulu baru detail; kalkulasi ulang selalu menulis set utuh.
	err := r.db.WithContext(ctx).Exec(`
		DELETE FROM pay_items
		WHERE detail_id IN (SELECT id FROM employee_details WHERE payroll_run_id = ?)
	`, runID).Error
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).
		Where("payroll_run_id = ?", runID).
		Delete(&EmployeeDetail{}).Error; err != nil {
		return err
	}
	if len(details) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&details).Error
}

func (r *repository) UpdateItemAmount(ctx context.Context, itemID string, amount int64) error {
	return r.db.WithContext(ctx).
		Model(&PayItem{}).
		Where("id = ?", itemID).
		Update("amount", amount).Error
}

func (r *repository) UpdateDetailTotals(ctx context.Context, detail *EmployeeDetail) error {
	return r.db.WithContext(ctx).
		Model(&EmployeeDetail{}).
		Where("id = ?", detail.ID).
		Updates(map[string]any{
			"total_gross":      detail.TotalGross,
			"total_deductions": detail.TotalDeductions,
			"net_pay":          detail.NetPay,
		}).Error
}

func (r *repository) SumDetailTotals(ctx context.Context, runID string) (DetailTotals, error) {
	var totals DetailTotals
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(total_gross), 0)      AS total_gross,
			COALESCE(SUM(total_deductions), 0) AS total_deductions,
			COALESCE(SUM(net_pay), 0)          AS total_net_pay,
			COUNT(*)                           AS employee_count
		FROM employee_details
		WHERE payroll_run_id = ?
	`, runID).Scan(&totals).Error
	return totals, err
}
