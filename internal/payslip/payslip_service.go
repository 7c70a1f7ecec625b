package payslip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-payroll/internal/payrollrun"
	paysliperrors "go-payroll/internal/payslip/errors"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func isDuplicatePayslip(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_payslips_run_employee"
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value") && strings.Contains(msg, "uq_payslips_run_employee")
}

//go:generate mockgen -source=payslip_service.go -destination=mock/payslip_service_mock.go -package=mock
type Service interface {
	// GenerateForRun menerbitkan payslip untuk semua detail di run yang sudah
	// LOCKED. Idempoten: karyawan yang sudah punya payslip dilewati, dan
	// kegagalan satu karyawan tidak menggagalkan sisanya.
	GenerateForRun(ctx context.Context, companyID, runID string) (GenerationReport, error)

	GetByID(ctx context.Context, companyID, id string) (PayslipResponse, error)
	ListByRun(ctx context.Context, companyID, runID string) ([]PayslipResponse, error)
	ListByEmployee(ctx context.Context, companyID, employeeID string) ([]PayslipResponse, error)
	MarkPaid(ctx context.Context, companyID, actorID, id string) (PayslipResponse, error)
	Dispute(ctx context.Context, companyID, actorID, id string, req DisputePayslipRequest) (PayslipResponse, error)
	Download(ctx context.Context, companyID, id string) (string, error)
}

type service struct {
	repo Repository
	runs payrollrun.Repository
	log  *zap.Logger
}

func NewService(repo Repository, runs payrollrun.Repository) Service {
	return &service{
		repo: repo,
		runs: runs,
		log:  zap.L().Named("payslip_service"),
	}
}

func storageDir() string {
	if dir := os.Getenv("PAYSLIP_STORAGE_DIR"); dir != "" {
		return dir
	}
	return "./storage/payslips"
}

func publicBaseURL() string {
	if base := os.Getenv("PAYSLIP_PUBLIC_BASE_URL"); base != "" {
		return base
	}
	return "/files/payslips"
}

func (s *service) GenerateForRun(ctx context.Context, companyID, runID string) (GenerationReport, error) {
	run, err := s.runs.FindByIDAndCompany(ctx, companyID, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GenerationReport{}, apperror.InvalidField("payroll run id")
		}
		return GenerationReport{}, err
	}
	if run.Status != payrollrun.StatusLocked {
		return GenerationReport{}, paysliperrors.ErrRunNotLocked
	}

	details, err := s.runs.FindDetails(ctx, runID)
	if err != nil {
		return GenerationReport{}, err
	}

	if err := os.MkdirAll(storageDir(), 0o755); err != nil {
		return GenerationReport{}, err
	}

	report := GenerationReport{PayrollRunID: runID}
	for _, detail := range details {
		employeeID := detail.EmployeeID.String()

		if _, err := s.repo.FindByRunAndEmployee(ctx, runID, employeeID); err == nil {
			report.Skipped++
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			report.Failed = append(report.Failed, GenerationFailure{EmployeeID: employeeID, Reason: err.Error()})
			continue
		}

		slip, err := s.buildPayslip(run, detail)
		if err != nil {
			report.Failed = append(report.Failed, GenerationFailure{EmployeeID: employeeID, Reason: err.Error()})
			continue
		}
		if err := s.repo.Create(ctx, slip); err != nil {
			// Generate bisa balapan dengan consumer; yang kalah insert cukup
			// dihitung sebagai skip, bukan kegagalan.
			if isDuplicatePayslip(err) {
				report.Skipped++
				continue
			}
			report.Failed = append(report.Failed, GenerationFailure{EmployeeID: employeeID, Reason: err.Error()})
			continue
		}
		report.Generated++
	}

	s.log.Info("payslip generation finished",
		zap.String("run_id", runID),
		zap.Int("generated", report.Generated),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", len(report.Failed)),
	)

	return report, nil
}

func (s *service) buildPayslip(run *payrollrun.PayrollRun, detail payrollrun.EmployeeDetail) (*Payslip, error) {
	breakdown, err := json.Marshal(payrollrun.ToDetailResponse(detail))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	slip := &Payslip{
		CompanyID:       run.CompanyID,
		PayrollRunID:    run.ID,
		DetailID:        detail.ID,
		EmployeeID:      detail.EmployeeID,
		Breakdown:       breakdown,
		TotalGross:      detail.TotalGross,
		TotalDeductions: detail.TotalDeductions,
		NetPay:          detail.NetPay,
		PaymentStatus:   PaymentPending,
		GeneratedAt:     now,
	}

	pdf, err := buildPayslipPDF(payslipLines(run, detail))
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("payslip_%s.pdf", detail.ID)
	if err := os.WriteFile(filepath.Join(storageDir(), filename), pdf, 0o644); err != nil {
		return nil, err
	}
	url := strings.TrimRight(publicBaseURL(), "/") + "/" + filename
	slip.PdfURL = &url

	return slip, nil
}

func payslipLines(run *payrollrun.PayrollRun, detail payrollrun.EmployeeDetail) []string {
	lines := []string{
		fmt.Sprintf("Payslip %s", run.RunNumber),
		fmt.Sprintf("Period %s - %s", run.PeriodStart.Format("2006-01-02"), run.PeriodEnd.Format("2006-01-02")),
		fmt.Sprintf("Employee %s", detail.EmployeeID),
		"",
	}
	for _, item := range detail.Items {
		lines = append(lines, fmt.Sprintf("%-10s %-28s %14s",
			item.Category, item.Name, money.FromMinorUnits(item.Amount).StringFixed(2)))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("Total Gross      %14s", money.FromMinorUnits(detail.TotalGross).StringFixed(2)),
		fmt.Sprintf("Total Deductions %14s", money.FromMinorUnits(detail.TotalDeductions).StringFixed(2)),
		fmt.Sprintf("Net Pay          %14s", money.FromMinorUnits(detail.NetPay).StringFixed(2)),
	)
	return lines
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (PayslipResponse, error) {
	slip, err := s.findPayslip(ctx, companyID, id)
	if err != nil {
		return PayslipResponse{}, err
	}
	return ToPayslipResponse(*slip), nil
}

func (s *service) ListByRun(ctx context.Context, companyID, runID string) ([]PayslipResponse, error) {
	slips, err := s.repo.ListByRun(ctx, companyID, runID)
	if err != nil {
		return nil, err
	}
	resp := make([]PayslipResponse, 0, len(slips))
	for _, slip := range slips {
		resp = append(resp, ToPayslipResponse(slip))
	}
	return resp, nil
}

func (s *service) ListByEmployee(ctx context.Context, companyID, employeeID string) ([]PayslipResponse, error) {
	slips, err := s.repo.ListByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	resp := make([]PayslipResponse, 0, len(slips))
	for _, slip := range slips {
		resp = append(resp, ToPayslipResponse(slip))
	}
	return resp, nil
}

func (s *service) MarkPaid(ctx context.Context, companyID, actorID, id string) (PayslipResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PayslipResponse{}, apperror.InvalidField("actor id")
	}

	slip, err := s.findPayslip(ctx, companyID, id)
	if err != nil {
		return PayslipResponse{}, err
	}
	if slip.PaymentStatus == PaymentPaid {
		return PayslipResponse{}, paysliperrors.ErrAlreadyPaid
	}

	// Dispute yang ditandai paid dianggap selesai; alasannya tetap tersimpan.
	now := time.Now()
	slip.PaymentStatus = PaymentPaid
	slip.PaidBy = &actorUUID
	slip.PaidAt = &now

	if err := s.repo.UpdatePayment(ctx, slip); err != nil {
		return PayslipResponse{}, err
	}
	return ToPayslipResponse(*slip), nil
}

func (s *service) Dispute(
	ctx context.Context,
	companyID, actorID, id string,
	req DisputePayslipRequest,
) (PayslipResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return PayslipResponse{}, paysliperrors.ErrDisputeReasonRequired
	}

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PayslipResponse{}, apperror.InvalidField("actor id")
	}

	slip, err := s.findPayslip(ctx, companyID, id)
	if err != nil {
		return PayslipResponse{}, err
	}
	if slip.PaymentStatus == PaymentDisputed {
		return PayslipResponse{}, paysliperrors.ErrAlreadyDisputed
	}

	now := time.Now()
	slip.PaymentStatus = PaymentDisputed
	slip.DisputeReason = &reason
	slip.DisputedBy = &actorUUID
	slip.DisputedAt = &now

	if err := s.repo.UpdatePayment(ctx, slip); err != nil {
		return PayslipResponse{}, err
	}

	s.log.Warn("payslip disputed",
		zap.String("payslip_id", id),
		zap.String("disputed_by", actorID),
	)

	return ToPayslipResponse(*slip), nil
}

func (s *service) Download(ctx context.Context, companyID, id string) (string, error) {
	slip, err := s.findPayslip(ctx, companyID, id)
	if err != nil {
		return "", err
	}
	if slip.PdfURL == nil {
		return "", paysliperrors.ErrPdfNotAvailable
	}

	path := filepath.Join(storageDir(), filepath.Base(*slip.PdfURL))
	if _, err := os.Stat(path); err != nil {
		return "", paysliperrors.ErrPdfNotAvailable
	}
	return path, nil
}

func (s *service) findPayslip(ctx context.Context, companyID, id string) (*Payslip, error) {
	slip, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, paysliperrors.ErrPayslipNotFound
		}
		return nil, err
	}
	return slip, nil
}
