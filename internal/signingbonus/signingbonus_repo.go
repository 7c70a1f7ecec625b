package signingbonus

import (
	"context"
	"time"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=signingbonus_repo.go -destination=mock/signingbonus_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, bonus *SigningBonus) error
	FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]SigningBonus, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*SigningBonus, error)
	Update(ctx context.Context, bonus *SigningBonus) error
	Delete(ctx context.Context, companyID, id string) error

	// FindApprovedUndisbursed mengambil bonus APPROVED yang tanggalnya jatuh di
	// periode dan belum pernah dibayar, sebagai input kalkulasi.
	FindApprovedUndisbursed(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) ([]SigningBonus, error)

	// MarkDisbursed menulis referensi detail secara kondisional. Baris yang
	// sudah terikat ke detail LAIN tidak tersentuh dan mengembalikan false;
	// menandai ulang dengan detail yang sama idempoten (relock setelah
	// unfreeze memutar ulang penandaan atas detail yang tidak berubah).
	MarkDisbursed(ctx context.Context, id, detailID string, at time.Time) (bool, error)
}

type ListFilter struct {
	EmployeeID string
	Status     string
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

func (r *repository) Create(ctx context.Context, bonus *SigningBonus) error {
	return r.db.WithContext(ctx).Create(bonus).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]SigningBonus, error) {
	q := r.db.WithContext(ctx).Scopes(tenant.Scope(companyID))
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var bonuses []SigningBonus
	err := q.Order("bonus_date DESC").Find(&bonuses).Error
	return bonuses, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*SigningBonus, error) {
	var bonus SigningBonus
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&bonus, "id = ?", id).Error
	return &bonus, err
}

func (r *repository) Update(ctx context.Context, bonus *SigningBonus) error {
	return r.db.WithContext(ctx).Save(bonus).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&SigningBonus{}, "id = ?", id).Error
}

func (r *repository) FindApprovedUndisbursed(
	ctx context.Context,
	companyID, employeeID string,
	periodStart, periodEnd time.Time,
) ([]SigningBonus, error) {
	var bonuses []SigningBonus
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusApproved).
		Where("disbursed_detail_id IS NULL").
		Where("bonus_date BETWEEN ? AND ?", periodStart, periodEnd).
		Order("bonus_date ASC").
		Find(&bonuses).Error
	return bonuses, err
}

func (r *repository) MarkDisbursed(ctx context.Context, id, detailID string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&SigningBonus{}).
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
