package payslip

import (
	"context"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payslip_repo.go -destination=mock/payslip_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, slip *Payslip) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Payslip, error)
	FindByRunAndEmployee(ctx context.Context, runID, employeeID string) (*Payslip, error)
	ListByRun(ctx context.Context, companyID, runID string) ([]Payslip, error)
	ListByEmployee(ctx context.Context, companyID, employeeID string) ([]Payslip, error)
	UpdatePayment(ctx context.Context, slip *Payslip) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, slip *Payslip) error {
	return r.db.WithContext(ctx).Create(slip).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Payslip, error) {
	var slip Payslip
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&slip, "id = ?", id).Error
	return &slip, err
}

func (r *repository) FindByRunAndEmployee(ctx context.Context, runID, employeeID string) (*Payslip, error) {
	var slip Payslip
	err := r.db.WithContext(ctx).
		Where("payroll_run_id = ? AND employee_id = ?", runID, employeeID).
		First(&slip).Error
	return &slip, err
}

func (r *repository) ListByRun(ctx context.Context, companyID, runID string) ([]Payslip, error) {
	var slips []Payslip
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("payroll_run_id = ?", runID).
		Order("created_at ASC").
		Find(&slips).Error
	return slips, err
}

func (r *repository) ListByEmployee(ctx context.Context, companyID, employeeID string) ([]Payslip, error) {
	var slips []Payslip
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&slips).Error
	return slips, err
}

// UpdatePayment hanya menyentuh kolom status pembayaran; breakdown dan angka
// payslip tidak pernah ditulis ulang setelah terbit.
func (r *repository) UpdatePayment(ctx context.Context, slip *Payslip) error {
	return r.db.WithContext(ctx).
		Model(&Payslip{}).
		Where("id = ?", slip.ID).
		Updates(map[string]any{
			"payment_status": slip.PaymentStatus,
			"paid_by":        slip.PaidBy,
			"paid_at":        slip.PaidAt,
			"dispute_reason": slip.DisputeReason,
			"disputed_by":    slip.DisputedBy,
			"disputed_at":    slip.DisputedAt,
		}).Error
}
