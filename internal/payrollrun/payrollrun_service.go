package payrollrun

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-payroll/internal/bootstrap"
	"go-payroll/internal/employee"
	"go-payroll/internal/irregularity"
	kafkaoutbox "go-payroll/internal/messaging/kafka"
	"go-payroll/internal/events"
	"go-payroll/internal/paycalc"
	payrollrunerrors "go-payroll/internal/payrollrun/errors"
	"go-payroll/internal/payrule"
	"go-payroll/internal/periodfacts"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/counter"
	"go-payroll/internal/signingbonus"
	"go-payroll/internal/terminationbenefit"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Banyaknya kalkulasi karyawan yang berjalan paralel saat submit. Kalkulasi
// murni CPU ringan; angka ini lebih membatasi beban query fakta per karyawan.
const calcParallelism = 8

//go:generate mockgen -source=payrollrun_service.go -destination=mock/payrollrun_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreatePayrollRunRequest) (PayrollRunResponse, error)
	GetAll(ctx context.Context, companyID string, filter ListRunsFilterRequest) ([]PayrollRunResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PayrollRunResponse, error)
	GetDetails(ctx context.Context, companyID, id string) ([]EmployeeDetailResponse, error)
	Update(ctx context.Context, companyID, actorID, id string, req UpdatePayrollRunRequest) (PayrollRunResponse, error)
	Submit(ctx context.Context, companyID, actorID, id string) (PayrollRunResponse, error)
	ApproveManager(ctx context.Context, companyID, actorID, id string) (PayrollRunResponse, error)
	ApproveFinance(ctx context.Context, companyID, actorID, id string) (PayrollRunResponse, error)
	Reject(ctx context.Context, companyID, actorID, id string, req RejectRunRequest) (PayrollRunResponse, error)
	Unfreeze(ctx context.Context, companyID, actorID, id string, req UnfreezeRunRequest) (PayrollRunResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

// Dependencies mengikat orkestrator ke kolaborator read-only dan sub-ledger.
type Dependencies struct {
	Runs           Repository
	Employees      employee.Repository
	Facts          periodfacts.Repository
	Rules          payrule.Service
	Bonuses        signingbonus.Repository
	Benefits       terminationbenefit.Repository
	Irregularities irregularity.Repository
	Outbox         kafkaoutbox.OutboxRepository
	Counters       counter.Repository

	// Audit opsional; nil berarti transisi state tidak dicatat ke audit trail.
	Audit bootstrap.AuditLogger
}

type service struct {
	db   *gorm.DB
	deps Dependencies
	log  *zap.Logger
}

func NewService(db *gorm.DB, deps Dependencies) Service {
	return &service{
		db:   db,
		deps: deps,
		log:  zap.L().Named("payrollrun_service"),
	}
}

func (s *service) audit(ctx context.Context, action string, run *PayrollRun, actorID string) {
	if s.deps.Audit == nil {
		return
	}
	s.deps.Audit.Log(ctx, bootstrap.AuditLog{
		Action:  action,
		Message: fmt.Sprintf("payroll run %s -> %s", run.RunNumber, run.Status),
		Meta: map[string]any{
			"run_id":   run.ID.String(),
			"actor_id": actorID,
			"status":   run.Status,
		},
	})
}

func (s *service) Create(
	ctx context.Context,
	companyID, actorID string,
	req CreatePayrollRunRequest,
) (PayrollRunResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return PayrollRunResponse{}, apperror.InvalidField("company id")
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PayrollRunResponse{}, apperror.InvalidField("actor id")
	}

	periodStart, periodEnd, err := parsePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return PayrollRunResponse{}, err
	}

	var departmentUUID *uuid.UUID
	if req.DepartmentID != nil && *req.DepartmentID != "" {
		parsed, err := uuid.Parse(*req.DepartmentID)
		if err != nil {
			return PayrollRunResponse{}, apperror.InvalidField("department id")
		}
		departmentUUID = &parsed
	}

	// Populasi dibekukan sekarang; transisi berikutnya tidak meng-query ulang.
	snapshots, err := s.deps.Employees.ListActiveForScope(ctx, companyID, req.DepartmentID, periodStart, periodEnd)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	if len(snapshots) == 0 {
		return PayrollRunResponse{}, payrollrunerrors.ErrEmptyPopulation
	}

	seq, err := s.deps.Counters.GetNextValue(ctx, companyID, counter.TypePayrollRun)
	if err != nil {
		return PayrollRunResponse{}, err
	}

	run := PayrollRun{
		CompanyID:     companyUUID,
		RunNumber:     fmt.Sprintf("RUN-%s-%04d", periodStart.Format("2006-01"), seq),
		DepartmentID:  departmentUUID,
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
		Status:        StatusDraft,
		Version:       1,
		EmployeeCount: len(snapshots),
		CreatedBy:     actorUUID,
		Employees:     toRunEmployees(snapshots),
	}

	if err := s.deps.Runs.Create(ctx, &run); err != nil {
		return PayrollRunResponse{}, err
	}

	s.log.Info("payroll run created",
		zap.String("run_id", run.ID.String()),
		zap.String("run_number", run.RunNumber),
		zap.Int("employee_count", len(snapshots)),
	)

	return ToRunResponse(run), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, filter ListRunsFilterRequest) ([]PayrollRunResponse, error) {
	if filter.Status != "" && !ValidStatus(filter.Status) {
		return nil, apperror.InvalidField("status")
	}

	listFilter := ListFilter{Status: filter.Status}
	if filter.PeriodFrom != "" {
		from, err := time.Parse("2006-01-02", filter.PeriodFrom)
		if err != nil {
			return nil, apperror.InvalidField("period from")
		}
		listFilter.PeriodFrom = &from
	}
	if filter.PeriodTo != "" {
		to, err := time.Parse("2006-01-02", filter.PeriodTo)
		if err != nil {
			return nil, apperror.InvalidField("period to")
		}
		listFilter.PeriodTo = &to
	}

	runs, err := s.deps.Runs.FindAllByCompany(ctx, companyID, listFilter)
	if err != nil {
		return nil, err
	}

	resp := make([]PayrollRunResponse, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, ToRunResponse(run))
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (PayrollRunResponse, error) {
	run, err := s.findRun(ctx, companyID, id)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	return ToRunResponse(*run), nil
}

func (s *service) GetDetails(ctx context.Context, companyID, id string) ([]EmployeeDetailResponse, error) {
	if _, err := s.findRun(ctx, companyID, id); err != nil {
		return nil, err
	}

	details, err := s.deps.Runs.FindDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := make([]EmployeeDetailResponse, 0, len(details))
	for _, d := range details {
		resp = append(resp, ToDetailResponse(d))
	}
	return resp, nil
}

func (s *service) Update(
	ctx context.Context,
	companyID, actorID, id string,
	req UpdatePayrollRunRequest,
) (PayrollRunResponse, error) {
	run, err := s.findRun(ctx, companyID, id)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	if !run.Editable() {
		return PayrollRunResponse{}, payrollrunerrors.ErrEditOnlyWhenEditable
	}

	if req.PeriodStart != nil {
		start, err := time.Parse("2006-01-02", *req.PeriodStart)
		if err != nil {
			return PayrollRunResponse{}, apperror.InvalidField("period start")
		}
		run.PeriodStart = start
	}
	if req.PeriodEnd != nil {
		end, err := time.Parse("2006-01-02", *req.PeriodEnd)
		if err != nil {
			return PayrollRunResponse{}, apperror.InvalidField("period end")
		}
		run.PeriodEnd = end
	}
	if run.PeriodEnd.Before(run.PeriodStart) {
		return PayrollRunResponse{}, payrollrunerrors.ErrPeriodInvalid
	}

	var departmentFilter *string
	if req.DepartmentID != nil {
		if *req.DepartmentID == "" {
			run.DepartmentID = nil
		} else {
			parsed, err := uuid.Parse(*req.DepartmentID)
			if err != nil {
				return PayrollRunResponse{}, apperror.InvalidField("department id")
			}
			run.DepartmentID = &parsed
		}
	}
	if run.DepartmentID != nil {
		sDept := run.DepartmentID.String()
		departmentFilter = &sDept
	}

	// Edit scope/periode mengambil snapshot populasi baru dan membatalkan hasil
	// kalkulasi lama; angka fresh baru muncul lagi saat submit.
	snapshots, err := s.deps.Employees.ListActiveForScope(ctx, companyID, departmentFilter, run.PeriodStart, run.PeriodEnd)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	if len(snapshots) == 0 {
		return PayrollRunResponse{}, payrollrunerrors.ErrEmptyPopulation
	}

	run.EmployeeCount = len(snapshots)
	run.TotalGross = 0
	run.TotalDeductions = 0
	run.TotalNetPay = 0
	run.Flagged = false

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.deps.Runs.WithTx(tx)
		if err := qtx.ReplaceEmployees(ctx, id, toRunEmployeesFor(run.ID, snapshots)); err != nil {
			return err
		}
		if err := qtx.ReplaceDetails(ctx, id, nil); err != nil {
			return err
		}
		if err := s.deps.Irregularities.WithTx(tx).DeleteOpenByRun(ctx, companyID, id); err != nil {
			return err
		}

		ok, err := qtx.UpdateWithVersion(ctx, run)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.ErrStateConflict
		}
		return nil
	})
	if err != nil {
		return PayrollRunResponse{}, err
	}

	return ToRunResponse(*run), nil
}

func (s *service) Submit(ctx context.Context, companyID, actorID, id string) (PayrollRunResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PayrollRunResponse{}, apperror.InvalidField("actor id")
	}

	run, err := s.findRun(ctx, companyID, id)
	if err != nil {
		return PayrollRunResponse{}, err
	}

	// Run yang sudah lolos manajer dikirim lanjut ke finance tanpa kalkulasi
	// ulang; angka yang disetujui manajer adalah angka yang dikunci finance.
	if run.Status == StatusApproved {
		return s.forwardToFinance(ctx, run, actorUUID)
	}

	if !run.Editable() {
		return PayrollRunResponse{}, payrollrunerrors.ErrSubmitNotAllowed
	}

	employees, err := s.deps.Runs.FindEmployees(ctx, id)
	if err != nil {
		return PayrollRunResponse{}, err
	}

	// Fan-out per karyawan dengan join barrier: seluruh hasil harus terkumpul
	// sebelum run berpindah state. Kegagalan infra membatalkan submit utuh dan
	// run tetap di state semula; kegagalan konfigurasi per karyawan ditangkap
	// sebagai irregularity CRITICAL, bukan pembatalan batch.
	results := make([]calcResult, len(employees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(calcParallelism)
	for i, emp := range employees {
		i, emp := i, emp
		g.Go(func() error {
			res, err := s.computeEmployee(gctx, companyID, run, emp)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return PayrollRunResponse{}, err
	}

	details := make([]EmployeeDetail, 0, len(results))
	var irregs []irregularity.Irregularity
	flagged := false
	var totalGross, totalDeductions, totalNet int64

	for _, res := range results {
		details = append(details, res.detail)
		totalGross += res.detail.TotalGross
		totalDeductions += res.detail.TotalDeductions
		totalNet += res.detail.NetPay

		for _, f := range res.findings {
			if f.Severity == paycalc.SeverityHigh || f.Severity == paycalc.SeverityCritical {
				flagged = true
			}
			irregs = append(irregs, toIrregularity(run, res.detail.ID, f))
		}
	}

	now := time.Now()
	run.Status = StatusPendingManager
	run.Flagged = flagged
	run.TotalGross = totalGross
	run.TotalDeductions = totalDeductions
	run.TotalNetPay = totalNet
	run.EmployeeCount = len(details)
	run.SubmittedBy = &actorUUID
	run.SubmittedAt = &now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.deps.Runs.WithTx(tx)
		if err := qtx.ReplaceDetails(ctx, id, details); err != nil {
			return err
		}

		qirr := s.deps.Irregularities.WithTx(tx)
		if err := qirr.DeleteOpenByRun(ctx, companyID, id); err != nil {
			return err
		}
		if err := qirr.CreateBatch(ctx, irregs); err != nil {
			return err
		}

		ok, err := qtx.UpdateWithVersion(ctx, run)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.ErrStateConflict
		}
		return nil
	})
	if err != nil {
		return PayrollRunResponse{}, err
	}

	s.log.Info("payroll run submitted",
		zap.String("run_id", id),
		zap.Int("employee_count", len(details)),
		zap.Int("irregularities", len(irregs)),
		zap.Bool("flagged", flagged),
	)
	s.audit(ctx, "PAYROLL_RUN_SUBMIT", run, actorID)

	return ToRunResponse(*run), nil
}

type calcResult struct {
	detail   EmployeeDetail
	findings []paycalc.Finding
}

func (s *service) computeEmployee(
	ctx context.Context,
	companyID string,
	run *PayrollRun,
	emp RunEmployee,
) (calcResult, error) {
	snap := emp.Snapshot(run.CompanyID)
	period := periodfacts.Period{Start: run.PeriodStart, End: run.PeriodEnd}

	bundle, err := s.deps.Rules.Resolve(ctx, companyID, snap, run.PeriodStart, run.PeriodEnd)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == apperror.CodeConfigMissing {
			// Konfigurasi hilang tidak men-skip karyawan: detail best-effort
			// (gaji pokok saja) tetap ditulis, dengan temuan CRITICAL.
			bd := paycalc.Compute(paycalc.Input{Snapshot: snap, Period: period})
			return calcResult{
				detail: buildDetail(run.ID, snap.EmployeeID, bd),
				findings: []paycalc.Finding{{
					Severity:    paycalc.SeverityCritical,
					Description: fmt.Sprintf("configuration missing for employee %s: %s", snap.EmployeeID, appErr.Message),
				}},
			}, nil
		}
		return calcResult{}, err
	}

	facts, err := s.deps.Facts.GetFacts(ctx, companyID, snap.EmployeeID.String(), run.PeriodStart, run.PeriodEnd)
	if err != nil {
		return calcResult{}, err
	}

	bonuses, err := s.deps.Bonuses.FindApprovedUndisbursed(ctx, companyID, snap.EmployeeID.String(), run.PeriodStart, run.PeriodEnd)
	if err != nil {
		return calcResult{}, err
	}
	benefits, err := s.deps.Benefits.FindApprovedUndisbursed(ctx, companyID, snap.EmployeeID.String(), run.PeriodStart, run.PeriodEnd)
	if err != nil {
		return calcResult{}, err
	}

	in := paycalc.Input{
		Snapshot: snap,
		Bundle:   bundle,
		Facts:    facts,
		Period:   period,
	}
	for _, b := range bonuses {
		in.SigningBonuses = append(in.SigningBonuses, paycalc.ExtraLine{
			SourceID: b.ID, Name: b.Name, Amount: b.Amount,
		})
	}
	for _, b := range benefits {
		in.TerminationBenefits = append(in.TerminationBenefits, paycalc.ExtraLine{
			SourceID: b.ID, Name: b.Name, Amount: b.Amount,
		})
	}

	bd := paycalc.Compute(in)
	findings := paycalc.Inspect(bd, bundle)

	// Periode terakhir karyawan tanpa benefit terminasi ter-approve biasanya
	// berarti HR belum memproses pesangonnya. Advisory saja.
	if snap.TerminatesInPeriod(run.PeriodStart, run.PeriodEnd) && len(benefits) == 0 {
		findings = append(findings, paycalc.Finding{
			Severity:    paycalc.SeverityInfo,
			Description: fmt.Sprintf("employee %s terminates in this period without an approved termination benefit", snap.EmployeeID),
		})
	}

	return calcResult{
		detail:   buildDetail(run.ID, snap.EmployeeID, bd),
		findings: findings,
	}, nil
}

func (s *service) forwardToFinance(ctx context.Context, run *PayrollRun, actorUUID uuid.UUID) (PayrollRunResponse, error) {
	now := time.Now()
	run.Status = StatusPendingFinance
	run.SubmittedBy = &actorUUID
	run.SubmittedAt = &now

	ok, err := s.deps.Runs.UpdateWithVersion(ctx, run)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	if !ok {
		return PayrollRunResponse{}, apperror.ErrStateConflict
	}

	s.audit(ctx, "PAYROLL_RUN_SUBMIT", run, actorUUID.String())
	return ToRunResponse(*run), nil
}

func (s *service) ApproveManager(ctx context.Context, companyID, actorID, id string) (PayrollRunResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PayrollRunResponse{}, apperror.InvalidField("actor id")
	}

	run, err := s.findRun(ctx, companyID, id)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	if run.Status != StatusPendingManager {
		return PayrollRunResponse{}, payrollrunerrors.ErrNotPendingManager
	}

	critical, err := s.deps.Irregularities.CountUnresolvedCritical(ctx, companyID, id)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	if critical > 0 {
		return PayrollRunResponse{}, payrollrunerrors.ErrUnresolvedCritical
	}

	now := time.Now()
	run.Status = StatusApproved
	run.ManagerApprovedBy = &actorUUID
	run.ManagerApprovedAt = &now

	ok, err := s.deps.Runs.UpdateWithVersion(ctx, run)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	if !ok {
		return PayrollRunResponse{}, apperror.ErrStateConflict
	}

	s.log.Info("payroll run approved by manager",
		zap.String("run_id", id),
		zap.String("approved_by", actorID),
	)
	s.audit(ctx, "PAYROLL_RUN_APPROVE_MANAGER", run, actorID)

	return ToRunResponse(*run), nil
}

func (s *service) ApproveFinance(ctx context.Context, companyID, actorID, id string) (PayrollRunResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PayrollRunResponse{}, apperror.InvalidField("actor id")
	}

	run, err := s.findRun(ctx, companyID, id)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	if run.Status != StatusPendingFinance {
		return PayrollRunResponse{}, payrollrunerrors.ErrNotPendingFinance
	}

	blocking, err := s.deps.Irregularities.CountBlocking(ctx, companyID, id)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	if blocking > 0 {
		return PayrollRunResponse{}, payrollrunerrors.ErrBlockingIrregularities
	}

	details, err := s.deps.Runs.FindDetails(ctx, id)
	if err != nil {
		return PayrollRunResponse{}, err
	}

	now := time.Now()
	run.Status = StatusLocked
	run.FinanceApprovedBy = &actorUUID
	run.FinanceApprovedAt = &now
	run.LockedAt = &now
	run.PaidAt = &now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.markDisbursements(ctx, tx, details, now); err != nil {
			return err
		}
		if err := s.queueRunLockedEvent(ctx, tx, companyID, actorID, run); err != nil {
			return err
		}

		ok, err := s.deps.Runs.WithTx(tx).UpdateWithVersion(ctx, run)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.ErrStateConflict
		}
		return nil
	})
	if err != nil {
		return PayrollRunResponse{}, err
	}

	s.log.Info("payroll run locked",
		zap.String("run_id", id),
		zap.String("approved_by", actorID),
		zap.Int64("total_net_pay", run.TotalNetPay),
	)
	s.audit(ctx, "PAYROLL_RUN_LOCK", run, actorID)

	return ToRunResponse(*run), nil
}

// markDisbursements mengikat setiap line bonus/benefit ke detail pembayarnya.
// Guard kondisional di repo memastikan satu baris sub-ledger hanya bisa
// dibayar sekali, run mana pun yang menang. Relock setelah unfreeze memutar
// ulang penandaan atas detail yang sama; repo memperlakukannya idempoten.
func (s *service) markDisbursements(ctx context.Context, tx *gorm.DB, details []EmployeeDetail, at time.Time) error {
	bonuses := s.deps.Bonuses.WithTx(tx)
	benefits := s.deps.Benefits.WithTx(tx)

	for _, detail := range details {
		for _, item := range detail.Items {
			if item.SourceID == nil {
				continue
			}
			switch item.Kind {
			case paycalc.KindSigningBonus:
				ok, err := bonuses.MarkDisbursed(ctx, item.SourceID.String(), detail.ID.String(), at)
				if err != nil {
					return err
				}
				if !ok {
					return payrollrunerrors.ErrDuplicateDisbursement
				}
			case paycalc.KindTerminationBenefit:
				ok, err := benefits.MarkDisbursed(ctx, item.SourceID.String(), detail.ID.String(), at)
				if err != nil {
					return err
				}
				if !ok {
					return payrollrunerrors.ErrDuplicateDisbursement
				}
			}
		}
	}
	return nil
}

func (s *service) queueRunLockedEvent(ctx context.Context, tx *gorm.DB, companyID, actorID string, run *PayrollRun) error {
	payload, err := json.Marshal(events.PayrollRunLockedEvent{
		EventType:    "payroll_run_locked",
		PayrollRunID: run.ID.String(),
		CompanyID:    companyID,
		LockedBy:     actorID,
		OccurredAt:   time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	event := kafkaoutbox.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payroll_run",
		AggregateID:   run.ID.String(),
		EventType:     "payroll_run_locked",
		Topic:         events.PayrollRunLockedTopic,
		Payload:       payload,
		Status:        kafkaoutbox.OutboxStatusPending,
	}
	if err := kafkaoutbox.ValidateOutboxEvent(event); err != nil {
		return err
	}
	return s.deps.Outbox.WithTx(tx).Create(ctx, event)
}

func (s *service) Reject(
	ctx context.Context,
	companyID, actorID, id string,
	req RejectRunRequest,
) (PayrollRunResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return PayrollRunResponse{}, payrollrunerrors.ErrRejectReasonRequired
	}

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PayrollRunResponse{}, apperror.InvalidField("actor id")
	}

	run, err := s.findRun(ctx, companyID, id)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	if run.Status != StatusPendingManager && run.Status != StatusPendingFinance {
		return PayrollRunResponse{}, payrollrunerrors.ErrRejectNotAllowed
	}

	now := time.Now()
	run.Status = StatusRejected
	run.RejectedBy = &actorUUID
	run.RejectReason = &reason
	run.RejectedAt = &now

	ok, err := s.deps.Runs.UpdateWithVersion(ctx, run)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	if !ok {
		return PayrollRunResponse{}, apperror.ErrStateConflict
	}

	s.log.Info("payroll run rejected",
		zap.String("run_id", id),
		zap.String("rejected_by", actorID),
	)
	s.audit(ctx, "PAYROLL_RUN_REJECT", run, actorID)

	return ToRunResponse(*run), nil
}

func (s *service) Unfreeze(
	ctx context.Context,
	companyID, actorID, id string,
	req UnfreezeRunRequest,
) (PayrollRunResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return PayrollRunResponse{}, payrollrunerrors.ErrUnfreezeReasonRequired
	}

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PayrollRunResponse{}, apperror.InvalidField("actor id")
	}

	run, err := s.findRun(ctx, companyID, id)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	if run.Status != StatusLocked {
		return PayrollRunResponse{}, payrollrunerrors.ErrNotLocked
	}

	// Payslip yang sudah terbit dibiarkan; rekonsiliasinya urusan manual.
	now := time.Now()
	run.Status = StatusApproved
	run.UnfrozenBy = &actorUUID
	run.UnfreezeReason = &reason
	run.UnfrozenAt = &now
	run.LockedAt = nil
	run.PaidAt = nil

	ok, err := s.deps.Runs.UpdateWithVersion(ctx, run)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	if !ok {
		return PayrollRunResponse{}, apperror.ErrStateConflict
	}

	s.log.Warn("payroll run unfrozen",
		zap.String("run_id", id),
		zap.String("unfrozen_by", actorID),
		zap.String("reason", reason),
	)
	s.audit(ctx, "PAYROLL_RUN_UNFREEZE", run, actorID)

	return ToRunResponse(*run), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	run, err := s.findRun(ctx, companyID, id)
	if err != nil {
		return err
	}
	if run.Status != StatusDraft {
		return payrollrunerrors.ErrDeleteOnlyDraft
	}
	return s.deps.Runs.Delete(ctx, companyID, id)
}

func (s *service) findRun(ctx context.Context, companyID, id string) (*PayrollRun, error) {
	run, err := s.deps.Runs.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollrunerrors.ErrRunNotFound
		}
		return nil, err
	}
	return run, nil
}

func parsePeriod(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.InvalidField("period start")
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.InvalidField("period end")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, payrollrunerrors.ErrPeriodInvalid
	}
	return start, end, nil
}

func toRunEmployees(snapshots []employee.Snapshot) []RunEmployee {
	employees := make([]RunEmployee, 0, len(snapshots))
	for _, snap := range snapshots {
		employees = append(employees, RunEmployee{
			EmployeeID:      snap.EmployeeID,
			DepartmentID:    snap.DepartmentID,
			FullName:        snap.FullName,
			BaseSalary:      snap.BaseSalary,
			PayGrade:        snap.PayGrade,
			Jurisdiction:    snap.Jurisdiction,
			ContractType:    snap.ContractType,
			HireDate:        snap.HireDate,
			TerminationDate: snap.TerminationDate,
		})
	}
	return employees
}

func toRunEmployeesFor(runID uuid.UUID, snapshots []employee.Snapshot) []RunEmployee {
	employees := toRunEmployees(snapshots)
	for i := range employees {
		employees[i].PayrollRunID = runID
	}
	return employees
}

func buildDetail(runID, employeeID uuid.UUID, bd paycalc.Breakdown) EmployeeDetail {
	detail := EmployeeDetail{
		ID:              uuid.New(),
		PayrollRunID:    runID,
		EmployeeID:      employeeID,
		TotalGross:      bd.TotalGross,
		TotalDeductions: bd.TotalDeductions,
		NetPay:          bd.NetPay,
	}
	for _, l := range bd.Earnings {
		detail.Items = append(detail.Items, PayItem{
			DetailID: detail.ID,
			Category: CategoryEarning,
			Kind:     l.Kind,
			Name:     l.Name,
			Amount:   l.Amount,
			RuleID:   l.RuleID,
			SourceID: l.SourceID,
		})
	}
	for _, l := range bd.Deductions {
		detail.Items = append(detail.Items, PayItem{
			DetailID: detail.ID,
			Category: CategoryDeduction,
			Kind:     l.Kind,
			Name:     l.Name,
			Amount:   l.Amount,
			RuleID:   l.RuleID,
			SourceID: l.SourceID,
		})
	}
	return detail
}

func toIrregularity(run *PayrollRun, detailID uuid.UUID, f paycalc.Finding) irregularity.Irregularity {
	item := irregularity.Irregularity{
		CompanyID:    run.CompanyID,
		PayrollRunID: run.ID,
		DetailID:     &detailID,
		Severity:     f.Severity,
		Status:       irregularity.StatusPending,
		Description:  f.Description,
	}
	if f.LineKind != "" {
		kind := f.LineKind
		item.LineKind = &kind
	}
	return item
}
