package irregularity

import (
	"context"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=irregularity_repo.go -destination=mock/irregularity_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateBatch(ctx context.Context, items []Irregularity) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Irregularity, error)
	FindByRun(ctx context.Context, companyID, runID string, filter ListFilter) ([]Irregularity, error)
	Update(ctx context.Context, item *Irregularity) error

	// CountBlocking menghitung PENDING/ESCALATED dengan severity HIGH/CRITICAL.
	CountBlocking(ctx context.Context, companyID, runID string) (int64, error)
	CountUnresolvedCritical(ctx context.Context, companyID, runID string) (int64, error)

	// DeleteOpenByRun membersihkan temuan PENDING lama sebelum kalkulasi ulang;
	// yang sudah dieskalasi atau selesai tetap tinggal sebagai jejak audit.
	DeleteOpenByRun(ctx context.Context, companyID, runID string) error
}

type ListFilter struct {
	Status   string
	Severity string
	// ExcludeEscalated menyembunyikan item ESCALATED dari aktor non-manajer.
	ExcludeEscalated bool
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

func (r *repository) CreateBatch(ctx context.Context, items []Irregularity) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Irregularity, error) {
	var item Irregularity
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&item, "id = ?", id).Error
	return &item, err
}

func (r *repository) FindByRun(ctx context.Context, companyID, runID string, filter ListFilter) ([]Irregularity, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("payroll_run_id = ?", runID)

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Severity != "" {
		q = q.Where("severity = ?", filter.Severity)
	}
	if filter.ExcludeEscalated {
		q = q.Where("status <> ?", StatusEscalated)
	}

	var items []Irregularity
	err := q.Order("created_at ASC").Find(&items).Error
	return items, err
}

func (r *repository) Update(ctx context.Context, item *Irregularity) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *repository) CountBlocking(ctx context.Context, companyID, runID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Irregularity{}).
		Scopes(tenant.Scope(companyID)).
		Where("payroll_run_id = ?", runID).
		Where("status IN ?", []string{StatusPending, StatusEscalated}).
		Where("severity IN ?", []string{SeverityHigh, SeverityCritical}).
		Count(&count).Error
	return count, err
}

func (r *repository) CountUnresolvedCritical(ctx context.Context, companyID, runID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Irregularity{}).
		Scopes(tenant.Scope(companyID)).
		Where("payroll_run_id = ?", runID).
		Where("status IN ?", []string{StatusPending, StatusEscalated}).
		Where("severity = ?", SeverityCritical).
		Count(&count).Error
	return count, err
}

func (r *repository) DeleteOpenByRun(ctx context.Context, companyID, runID string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("payroll_run_id = ?", runID).
		Where("status = ?", StatusPending).
		Delete(&Irregularity{}).Error
}
