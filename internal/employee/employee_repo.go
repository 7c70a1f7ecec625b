package employee

import (
	"context"
	"time"

	"go-payroll/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	GetSnapshot(ctx context.Context, companyID, employeeID string, asOf time.Time) (*Snapshot, error)
	ListActiveForScope(ctx context.Context, companyID string, departmentID *string, periodStart, periodEnd time.Time) ([]Snapshot, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// employeeRow mem-proyeksikan tabel employees milik modul kepegawaian.
type employeeRow struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID       uuid.UUID  `gorm:"type:uuid"`
	DepartmentID    *uuid.UUID `gorm:"type:uuid"`
	FullName        string     `gorm:"column:full_name"`
	PayGrade        string     `gorm:"column:pay_grade"`
	Jurisdiction    string     `gorm:"column:jurisdiction"`
	ContractType    string     `gorm:"column:contract_type"`
	HireDate        time.Time  `gorm:"column:hire_date;type:date"`
	TerminationDate *time.Time `gorm:"column:termination_date;type:date"`
}

func (employeeRow) TableName() string {
	return "employees"
}

func (r *repository) GetSnapshot(ctx context.Context, companyID, employeeID string, asOf time.Time) (*Snapshot, error) {
	var row employeeRow
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("deleted_at IS NULL").
		First(&row, "id = ?", employeeID).Error
	if err != nil {
		return nil, err
	}

	baseSalary, err := r.effectiveBaseSalary(ctx, companyID, employeeID, asOf)
	if err != nil {
		return nil, err
	}

	snap := mapToSnapshot(row, baseSalary)
	return &snap, nil
}

func (r *repository) ListActiveForScope(
	ctx context.Context,
	companyID string,
	departmentID *string,
	periodStart, periodEnd time.Time,
) ([]Snapshot, error) {
	db := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("deleted_at IS NULL").
		Where("hire_date <= ?", periodEnd).
		Where("termination_date IS NULL OR termination_date >= ?", periodStart)

	if departmentID != nil && *departmentID != "" {
		db = db.Where("department_id = ?", *departmentID)
	}

	var rows []employeeRow
	if err := db.Order("full_name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	snapshots := make([]Snapshot, 0, len(rows))
	for _, row := range rows {
		baseSalary, err := r.effectiveBaseSalary(ctx, companyID, row.ID.String(), periodEnd)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, mapToSnapshot(row, baseSalary))
	}

	return snapshots, nil
}

// effectiveBaseSalary mengambil baris riwayat gaji dengan effective_date
// terakhir yang tidak melewati asOf (last-write-wins by effective date).
func (r *repository) effectiveBaseSalary(ctx context.Context, companyID, employeeID string, asOf time.Time) (int64, error) {
	var baseSalary int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(s.base_salary, 0)
		FROM employee_salaries s
		JOIN employees e ON e.id = s.employee_id
		WHERE e.company_id = ? AND s.employee_id = ? AND s.effective_date <= ?
		ORDER BY s.effective_date DESC
		LIMIT 1
	`, companyID, employeeID, asOf).Scan(&baseSalary).Error
	return baseSalary, err
}

func mapToSnapshot(row employeeRow, baseSalary int64) Snapshot {
	return Snapshot{
		EmployeeID:      row.ID,
		CompanyID:       row.CompanyID,
		DepartmentID:    row.DepartmentID,
		FullName:        row.FullName,
		BaseSalary:      baseSalary,
		PayGrade:        row.PayGrade,
		Jurisdiction:    row.Jurisdiction,
		ContractType:    row.ContractType,
		HireDate:        row.HireDate,
		TerminationDate: row.TerminationDate,
	}
}
