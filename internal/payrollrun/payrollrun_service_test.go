package payrollrun

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-payroll/internal/bootstrap"
	"go-payroll/internal/employee"
	"go-payroll/internal/irregularity"
	kafkaoutbox "go-payroll/internal/messaging/kafka"
	"go-payroll/internal/events"
	"go-payroll/internal/paycalc"
	payrollrunerrors "go-payroll/internal/payrollrun/errors"
	payruleerrors "go-payroll/internal/payrule/errors"
	"go-payroll/internal/payrule"
	"go-payroll/internal/periodfacts"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/signingbonus"
	"go-payroll/internal/terminationbenefit"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeRunRepo struct {
	findByIDFn          func(ctx context.Context, companyID, id string) (*PayrollRun, error)
	createFn            func(ctx context.Context, run *PayrollRun) error
	updateWithVersionFn func(ctx context.Context, run *PayrollRun) (bool, error)
	findEmployeesFn     func(ctx context.Context, runID string) ([]RunEmployee, error)
	findDetailsFn       func(ctx context.Context, runID string) ([]EmployeeDetail, error)

	replacedDetails   []EmployeeDetail
	replacedEmployees []RunEmployee
	deleted           bool
}

func (f *fakeRunRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRunRepo) Create(ctx context.Context, run *PayrollRun) error {
	if f.createFn != nil {
		return f.createFn(ctx, run)
	}
	run.ID = uuid.New()
	return nil
}

func (f *fakeRunRepo) FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]PayrollRun, error) {
	return nil, nil
}

func (f *fakeRunRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollRun, error) {
	return f.findByIDFn(ctx, companyID, id)
}

func (f *fakeRunRepo) UpdateWithVersion(ctx context.Context, run *PayrollRun) (bool, error) {
	if f.updateWithVersionFn != nil {
		return f.updateWithVersionFn(ctx, run)
	}
	return true, nil
}

func (f *fakeRunRepo) Delete(ctx context.Context, companyID, id string) error {
	f.deleted = true
	return nil
}

func (f *fakeRunRepo) FindEmployees(ctx context.Context, runID string) ([]RunEmployee, error) {
	return f.findEmployeesFn(ctx, runID)
}

func (f *fakeRunRepo) ReplaceEmployees(ctx context.Context, runID string, employees []RunEmployee) error {
	f.replacedEmployees = employees
	return nil
}

func (f *fakeRunRepo) FindDetails(ctx context.Context, runID string) ([]EmployeeDetail, error) {
	if f.findDetailsFn != nil {
		return f.findDetailsFn(ctx, runID)
	}
	return nil, nil
}

func (f *fakeRunRepo) FindDetailByID(ctx context.Context, runID, detailID string) (*EmployeeDetail, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRunRepo) ReplaceDetails(ctx context.Context, runID string, details []EmployeeDetail) error {
	f.replacedDetails = details
	return nil
}

func (f *fakeRunRepo) UpdateItemAmount(ctx context.Context, itemID string, amount int64) error {
	return nil
}

func (f *fakeRunRepo) UpdateDetailTotals(ctx context.Context, detail *EmployeeDetail) error {
	return nil
}

func (f *fakeRunRepo) SumDetailTotals(ctx context.Context, runID string) (DetailTotals, error) {
	return DetailTotals{}, nil
}

type fakeEmployeeRepo struct {
	listFn func(ctx context.Context, companyID string, departmentID *string, periodStart, periodEnd time.Time) ([]employee.Snapshot, error)
}

func (f *fakeEmployeeRepo) GetSnapshot(ctx context.Context, companyID, employeeID string, asOf time.Time) (*employee.Snapshot, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepo) ListActiveForScope(ctx context.Context, companyID string, departmentID *string, periodStart, periodEnd time.Time) ([]employee.Snapshot, error) {
	return f.listFn(ctx, companyID, departmentID, periodStart, periodEnd)
}

type fakeFactsRepo struct {
	getFn func(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) (periodfacts.Facts, error)
}

func (f *fakeFactsRepo) GetFacts(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) (periodfacts.Facts, error) {
	if f.getFn != nil {
		return f.getFn(ctx, companyID, employeeID, periodStart, periodEnd)
	}
	return periodfacts.Facts{}, nil
}

type fakeRuleService struct {
	resolveFn func(ctx context.Context, companyID string, snap employee.Snapshot, periodStart, periodEnd time.Time) (payrule.Bundle, error)
}

func (f *fakeRuleService) Resolve(ctx context.Context, companyID string, snap employee.Snapshot, periodStart, periodEnd time.Time) (payrule.Bundle, error) {
	return f.resolveFn(ctx, companyID, snap, periodStart, periodEnd)
}

func (f *fakeRuleService) GetTaxRules(ctx context.Context, companyID string) ([]payrule.TaxRuleResponse, error) {
	return nil, nil
}

func (f *fakeRuleService) GetInsuranceRules(ctx context.Context, companyID string) ([]payrule.InsuranceRuleResponse, error) {
	return nil, nil
}

func (f *fakeRuleService) GetPayGradeRules(ctx context.Context, companyID string) ([]payrule.PayGradeRuleResponse, error) {
	return nil, nil
}

type fakeBonusRepo struct {
	findFn          func(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) ([]signingbonus.SigningBonus, error)
	markDisbursedFn func(ctx context.Context, id, detailID string, at time.Time) (bool, error)
	disbursed       []string
}

func (f *fakeBonusRepo) WithTx(tx *gorm.DB) signingbonus.Repository { return f }

func (f *fakeBonusRepo) Create(ctx context.Context, bonus *signingbonus.SigningBonus) error {
	return nil
}

func (f *fakeBonusRepo) FindAllByCompany(ctx context.Context, companyID string, filter signingbonus.ListFilter) ([]signingbonus.SigningBonus, error) {
	return nil, nil
}

func (f *fakeBonusRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*signingbonus.SigningBonus, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBonusRepo) Update(ctx context.Context, bonus *signingbonus.SigningBonus) error {
	return nil
}

func (f *fakeBonusRepo) Delete(ctx context.Context, companyID, id string) error { return nil }

func (f *fakeBonusRepo) FindApprovedUndisbursed(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) ([]signingbonus.SigningBonus, error) {
	if f.findFn != nil {
		return f.findFn(ctx, companyID, employeeID, periodStart, periodEnd)
	}
	return nil, nil
}

func (f *fakeBonusRepo) MarkDisbursed(ctx context.Context, id, detailID string, at time.Time) (bool, error) {
	f.disbursed = append(f.disbursed, id)
	if f.markDisbursedFn != nil {
		return f.markDisbursedFn(ctx, id, detailID, at)
	}
	return true, nil
}

type fakeBenefitRepo struct {
	findFn    func(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) ([]terminationbenefit.TerminationBenefit, error)
	disbursed []string
}

func (f *fakeBenefitRepo) WithTx(tx *gorm.DB) terminationbenefit.Repository { return f }

func (f *fakeBenefitRepo) Create(ctx context.Context, benefit *terminationbenefit.TerminationBenefit) error {
	return nil
}

func (f *fakeBenefitRepo) FindAllByCompany(ctx context.Context, companyID string, filter terminationbenefit.ListFilter) ([]terminationbenefit.TerminationBenefit, error) {
	return nil, nil
}

func (f *fakeBenefitRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*terminationbenefit.TerminationBenefit, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBenefitRepo) Update(ctx context.Context, benefit *terminationbenefit.TerminationBenefit) error {
	return nil
}

func (f *fakeBenefitRepo) Delete(ctx context.Context, companyID, id string) error { return nil }

func (f *fakeBenefitRepo) FindApprovedUndisbursed(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) ([]terminationbenefit.TerminationBenefit, error) {
	if f.findFn != nil {
		return f.findFn(ctx, companyID, employeeID, periodStart, periodEnd)
	}
	return nil, nil
}

func (f *fakeBenefitRepo) MarkDisbursed(ctx context.Context, id, detailID string, at time.Time) (bool, error) {
	f.disbursed = append(f.disbursed, id)
	return true, nil
}

type fakeIrregRepo struct {
	countBlockingFn func(ctx context.Context, companyID, runID string) (int64, error)
	countCriticalFn func(ctx context.Context, companyID, runID string) (int64, error)
	created         []irregularity.Irregularity
	deletedOpen     bool
}

func (f *fakeIrregRepo) WithTx(tx *gorm.DB) irregularity.Repository { return f }

func (f *fakeIrregRepo) CreateBatch(ctx context.Context, items []irregularity.Irregularity) error {
	f.created = append(f.created, items...)
	return nil
}

func (f *fakeIrregRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*irregularity.Irregularity, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeIrregRepo) FindByRun(ctx context.Context, companyID, runID string, filter irregularity.ListFilter) ([]irregularity.Irregularity, error) {
	return nil, nil
}

func (f *fakeIrregRepo) Update(ctx context.Context, item *irregularity.Irregularity) error {
	return nil
}

func (f *fakeIrregRepo) CountBlocking(ctx context.Context, companyID, runID string) (int64, error) {
	if f.countBlockingFn != nil {
		return f.countBlockingFn(ctx, companyID, runID)
	}
	return 0, nil
}

func (f *fakeIrregRepo) CountUnresolvedCritical(ctx context.Context, companyID, runID string) (int64, error) {
	if f.countCriticalFn != nil {
		return f.countCriticalFn(ctx, companyID, runID)
	}
	return 0, nil
}

func (f *fakeIrregRepo) DeleteOpenByRun(ctx context.Context, companyID, runID string) error {
	f.deletedOpen = true
	return nil
}

type fakeOutboxRepo struct {
	created []kafkaoutbox.OutboxEvent
}

func (f *fakeOutboxRepo) WithTx(tx *gorm.DB) kafkaoutbox.OutboxRepository { return f }

func (f *fakeOutboxRepo) Create(ctx context.Context, event kafkaoutbox.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepo) ListPending(ctx context.Context, limit int) ([]kafkaoutbox.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type fakeCounterRepo struct {
	next int64
}

func (f *fakeCounterRepo) GetNextValue(ctx context.Context, companyID string, counterType string) (int64, error) {
	return f.next, nil
}

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)

	return db, mock
}

type fakeAuditLogger struct {
	entries []bootstrap.AuditLog
}

func (f *fakeAuditLogger) Log(_ context.Context, entry bootstrap.AuditLog) {
	f.entries = append(f.entries, entry)
}

type testHarness struct {
	runs     *fakeRunRepo
	irregs   *fakeIrregRepo
	bonuses  *fakeBonusRepo
	benefits *fakeBenefitRepo
	outbox   *fakeOutboxRepo
	rules    *fakeRuleService
	facts    *fakeFactsRepo
	people   *fakeEmployeeRepo
	audits   *fakeAuditLogger
	mock     sqlmock.Sqlmock
	svc      Service
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	db, mock := newTestDB(t)

	h := &testHarness{
		runs:     &fakeRunRepo{},
		irregs:   &fakeIrregRepo{},
		bonuses:  &fakeBonusRepo{},
		benefits: &fakeBenefitRepo{},
		outbox:   &fakeOutboxRepo{},
		rules:    &fakeRuleService{},
		facts:    &fakeFactsRepo{},
		people:   &fakeEmployeeRepo{},
		audits:   &fakeAuditLogger{},
		mock:     mock,
	}
	h.svc = NewService(db, Dependencies{
		Runs:           h.runs,
		Employees:      h.people,
		Facts:          h.facts,
		Rules:          h.rules,
		Bonuses:        h.bonuses,
		Benefits:       h.benefits,
		Irregularities: h.irregs,
		Outbox:         h.outbox,
		Counters:       &fakeCounterRepo{next: 7},
		Audit:          h.audits,
	})
	return h
}

func simpleBundle() payrule.Bundle {
	return payrule.Bundle{
		Tax: payrule.TaxRule{
			ID:   uuid.New(),
			Name: "Income Tax",
			Mode: payrule.TaxModeProgressive,
			Brackets: []payrule.TaxBracket{
				{LowerBound: 0, RatePercent: decimal.NewFromInt(10)},
			},
		},
		PayGrade: payrule.PayGradeRule{
			Grade:               "G1",
			StandardWorkingDays: 20,
		},
	}
}

func draftRun() *PayrollRun {
	return &PayrollRun{
		ID:          uuid.New(),
		CompanyID:   uuid.New(),
		RunNumber:   "RUN-2025-01-0007",
		PeriodStart: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		Status:      StatusDraft,
		Version:     1,
		CreatedBy:   uuid.New(),
	}
}

func runEmployee(baseSalary int64) RunEmployee {
	return RunEmployee{
		ID:           uuid.New(),
		EmployeeID:   uuid.New(),
		FullName:     "Raka Pratama",
		BaseSalary:   baseSalary,
		PayGrade:     "G1",
		Jurisdiction: "ID-JK",
		ContractType: employee.ContractPermanent,
		HireDate:     time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreate_RunNumberFromCounter(t *testing.T) {
	h := newHarness(t)
	h.people.listFn = func(ctx context.Context, companyID string, departmentID *string, periodStart, periodEnd time.Time) ([]employee.Snapshot, error) {
		return []employee.Snapshot{{EmployeeID: uuid.New(), FullName: "Sinta Dewi", BaseSalary: 300000}}, nil
	}

	resp, err := h.svc.Create(context.Background(), uuid.NewString(), uuid.NewString(), CreatePayrollRunRequest{
		PeriodStart: "2025-01-01",
		PeriodEnd:   "2025-01-31",
	})

	assert.NoError(t, err)
	assert.Equal(t, "RUN-2025-01-0007", resp.RunNumber)
	assert.Equal(t, StatusDraft, resp.Status)
	assert.Equal(t, 1, resp.EmployeeCount)
}

func TestCreate_EmptyPopulationRejected(t *testing.T) {
	h := newHarness(t)
	h.people.listFn = func(ctx context.Context, companyID string, departmentID *string, periodStart, periodEnd time.Time) ([]employee.Snapshot, error) {
		return nil, nil
	}

	_, err := h.svc.Create(context.Background(), uuid.NewString(), uuid.NewString(), CreatePayrollRunRequest{
		PeriodStart: "2025-01-01",
		PeriodEnd:   "2025-01-31",
	})

	assert.ErrorIs(t, err, payrollrunerrors.ErrEmptyPopulation)
}

func TestCreate_PeriodEndBeforeStart(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Create(context.Background(), uuid.NewString(), uuid.NewString(), CreatePayrollRunRequest{
		PeriodStart: "2025-01-31",
		PeriodEnd:   "2025-01-01",
	})

	assert.ErrorIs(t, err, payrollrunerrors.ErrPeriodInvalid)
}

func TestGetAll_UnknownStatusFilterRejected(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.GetAll(context.Background(), uuid.NewString(), ListRunsFilterRequest{Status: "PAID"})

	var appErr *apperror.AppError
	if assert.ErrorAs(t, err, &appErr) {
		assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	}
}

func TestSubmit_HappyPathMovesToPendingManager(t *testing.T) {
	h := newHarness(t)
	run := draftRun()
	h.runs.findByIDFn = func(ctx context.Context, companyID, id string) (*PayrollRun, error) {
		return run, nil
	}
	h.runs.findEmployeesFn = func(ctx context.Context, runID string) ([]RunEmployee, error) {
		return []RunEmployee{runEmployee(300000), runEmployee(500000)}, nil
	}
	h.rules.resolveFn = func(ctx context.Context, companyID string, snap employee.Snapshot, periodStart, periodEnd time.Time) (payrule.Bundle, error) {
		return simpleBundle(), nil
	}

	h.mock.ExpectBegin()
	h.mock.ExpectCommit()

	resp, err := h.svc.Submit(context.Background(), run.CompanyID.String(), uuid.NewString(), run.ID.String())

	assert.NoError(t, err)
	assert.Equal(t, StatusPendingManager, resp.Status)
	assert.False(t, resp.Flagged)
	assert.Len(t, h.runs.replacedDetails, 2)
	assert.True(t, h.irregs.deletedOpen)

	// Total run harus persis penjumlahan detail per karyawan.
	var gross, deductions, net int64
	for _, d := range h.runs.replacedDetails {
		gross += d.TotalGross
		deductions += d.TotalDeductions
		net += d.NetPay
		assert.Equal(t, d.TotalGross-d.TotalDeductions, d.NetPay)
	}
	assert.Equal(t, gross, resp.TotalGross)
	assert.Equal(t, deductions, resp.TotalDeductions)
	assert.Equal(t, net, resp.TotalNetPay)
	assert.Equal(t, int64(800000), resp.TotalGross)
	assert.Equal(t, int64(80000), resp.TotalDeductions)
}

func TestSubmit_TerminationWithoutBenefitGetsAdvisory(t *testing.T) {
	h := newHarness(t)
	run := draftRun()
	term := run.PeriodEnd
	emp := runEmployee(300000)
	emp.TerminationDate = &term

	h.runs.findByIDFn = func(ctx context.Context, companyID, id string) (*PayrollRun, error) {
		return run, nil
	}
	h.runs.findEmployeesFn = func(ctx context.Context, runID string) ([]RunEmployee, error) {
		return []RunEmployee{emp}, nil
	}
	h.rules.resolveFn = func(ctx context.Context, companyID string, snap employee.Snapshot, periodStart, periodEnd time.Time) (payrule.Bundle, error) {
		return simpleBundle(), nil
	}

	h.mock.ExpectBegin()
	h.mock.ExpectCommit()

	resp, err := h.svc.Submit(context.Background(), run.CompanyID.String(), uuid.NewString(), run.ID.String())

	assert.NoError(t, err)
	// Periode terakhir tanpa benefit terminasi ter-approve: advisory INFO,
	// bukan blocker, jadi run tidak ter-flag.
	assert.False(t, resp.Flagged)
	if assert.Len(t, h.irregs.created, 1) {
		assert.Equal(t, paycalc.SeverityInfo, h.irregs.created[0].Severity)
		assert.Contains(t, h.irregs.created[0].Description, "termination benefit")
	}
}

func TestSubmit_ConfigMissingWritesBestEffortAndCritical(t *testing.T) {
	h := newHarness(t)
	run := draftRun()
	h.runs.findByIDFn = func(ctx context.Context, companyID, id string) (*PayrollRun, error) {
		return run, nil
	}
	h.runs.findEmployeesFn = func(ctx context.Context, runID string) ([]RunEmployee, error) {
		return []RunEmployee{runEmployee(300000)}, nil
	}
	h.rules.resolveFn = func(ctx context.Context, companyID string, snap employee.Snapshot, periodStart, periodEnd time.Time) (payrule.Bundle, error) {
		return payrule.Bundle{}, payruleerrors.ErrTaxRuleMissing
	}

	h.mock.ExpectBegin()
	h.mock.ExpectCommit()

	resp, err := h.svc.Submit(context.Background(), run.CompanyID.String(), uuid.NewString(), run.ID.String())

	assert.NoError(t, err)
	assert.Equal(t, StatusPendingManager, resp.Status)
	assert.True(t, resp.Flagged)

	// Detail best-effort tetap ditulis: HANYA gaji pokok. Tanpa bundle aturan
	// tidak boleh ada line pajak/asuransi yang menunjuk rule nil.
	assert.Len(t, h.runs.replacedDetails, 1)
	assert.Equal(t, int64(300000), h.runs.replacedDetails[0].TotalGross)
	assert.Equal(t, int64(0), h.runs.replacedDetails[0].TotalDeductions)
	if assert.Len(t, h.runs.replacedDetails[0].Items, 1) {
		assert.Equal(t, paycalc.KindBaseSalary, h.runs.replacedDetails[0].Items[0].Kind)
	}

	assert.Len(t, h.irregs.created, 1)
	assert.Equal(t, paycalc.SeverityCritical, h.irregs.created[0].Severity)
	assert.Equal(t, irregularity.StatusPending, h.irregs.created[0].Status)
	assert.NotNil(t, h.irregs.created[0].DetailID)
}

func TestSubmit_InfraErrorAbortsWholeRun(t *testing.T) {
	h := newHarness(t)
	run := draftRun()
	h.runs.findByIDFn = func(ctx context.Context, companyID, id string) (*PayrollRun, error) {
		return run, nil
	}
	h.runs.findEmployeesFn = func(ctx context.Context, runID string) ([]RunEmployee, error) {
		return []RunEmployee{runEmployee(300000)}, nil
	}
	h.rules.resolveFn = func(ctx context.Context, companyID string, snap employee.Snapshot, periodStart, periodEnd time.Time) (payrule.Bundle, error) {
		return simpleBundle(), nil
	}
	h.facts.getFn = func(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) (periodfacts.Facts, error) {
		return periodfacts.Facts{}, errors.New("attendance store unavailable")
	}

	_, err := h.svc.Submit(context.Background(), run.CompanyID.String(), uuid.NewString(), run.ID.String())

	assert.Error(t, err)
	assert.Empty(t, h.runs.replacedDetails)
	assert.Equal(t, StatusDraft, run.Status)
}

func TestSubmit_VersionConflictReturnsStateConflict(t *testing.T) {
	h := newHarness(t)
	run := draftRun()
	h.runs.findByIDFn = func(ctx context.Context, companyID, id string) (*PayrollRun, error) {
		return run, nil
	}
	h.runs.findEmployeesFn = func(ctx context.Context, runID string) ([]RunEmployee, error) {
		return []RunEmployee{runEmployee(300000)}, nil
	}
	h.rules.resolveFn = func(ctx context.Context, companyID string, snap employee.Snapshot, periodStart, periodEnd time.Time) (payrule.Bundle, error) {
		return simpleBundle(), nil
	}
	h.runs.updateWithVersionFn = func(ctx context.Context, run *PayrollRun) (bool, error) {
		return false, nil
	}

	h.mock.ExpectBegin()
	h.mock.ExpectRollback()

	_, err := h.svc.Submit(context.Background(), run.CompanyID.String(), uuid.NewString(), run.ID.String())

	assert.ErrorIs(t, err, apperror.ErrStateConflict)
}

func TestSubmit_FromApprovedForwardsWithoutRecalc(t *testing.T) {
	h := newHarness(t)
	run := draftRun()
	run.Status = StatusApproved
	h.runs.findByIDFn = func(ctx context.Context, companyID, id string) (*PayrollRun, error) {
		return run, nil
	}
	h.runs.findEmployeesFn = func(ctx context.Context, runID string) ([]RunEmployee, error) {
		t.Fatal("forwarding to finance must not recalculate")
		return nil, nil
	}

	resp, err := h.svc.Submit(context.Background(), run.CompanyID.String(), uuid.NewString(), run.ID.String())

	assert.NoError(t, err)
	assert.Equal(t, StatusPendingFinance, resp.Status)
}

func TestSubmit_LockedRunRejected(t *testing.T) {
	h := newHarness(t)
	run := draftRun()
	run.Status = StatusLocked
	h.runs.findByIDFn = func(ctx context.Context, companyID, id string) (*PayrollRun, error) {
		return run, nil
	}

	_, err := h.svc.Submit(context.Background(), run.CompanyID.String(), uuid.NewString(), run.ID.String())

	assert.ErrorIs(t, err, payrollrunerrors.ErrSubmitNotAllowed)
}

func TestApproveManager_BlockedByUnresolvedCritical(t *testing.T) {
	h := newHarness(t)
	run := draftRun()
	run.Status = StatusPendingManager
	h.runs.findByIDFn = func(ctx context.Context, companyID, id string) (*PayrollRun, error) {
		return run, nil
	}
	h.irregs.countCriticalFn = func(ctx context.Context, companyID, runID string) (int64, error) {
		return 1, nil
	}

	_, err := h.svc.ApproveManager(context.Background(), run.CompanyID.String(), uuid.NewString(), run.ID.String())

	assert.ErrorIs(t, err, payrollrunerrors.ErrUnresolvedCritical)
}

func TestApproveManager_Success(t *testing.T) {
	h := newHarness(t)
	run := draftRun()
	run.Status = StatusPendingManager
	h.runs.findByIDFn = func(ctx context.Context, companyID, id string) (*PayrollRun, error) {
		return run, nil
	}

	resp, err := h.svc.ApproveManager(context.Background(), run.CompanyID.String(), uuid.NewString(), run.ID.String())

	assert.NoError(t, err)
	assert.Equal(t, StatusApproved, resp.Status)
	assert.NotNil(t, resp.ManagerApprovedAt)
	if assert.Len(t, h.audits.entries, 1) {
		assert.Equal(t, "PAYROLL_RUN_APPROVE_MANAGER", h.audits.entries[0].Action)
		assert.Equal(t, run.ID.String(), h.audits.entries[0].Meta["run_id"])
	}
}

func TestApproveManager_WrongState(t *testing.T) {
	h := newHarness(t)
	run := draftRun()
	h.runs.findByIDFn = func(ctx context.Context, companyID, id string) (*PayrollRun, error) {
		return run, nil
	}

	_, err := h.svc.ApproveManager(context.Background(), run.CompanyID.String(), uuid.NewString(), run.ID.String())

	assert.ErrorIs(t, err, payrollrunerrors.ErrNotPendingManager)
}

func TestApproveManager_VersionConflictReturnsStateConflict(t *testing.T) {
	h := newHarness(t)
	run := draftRun()
	run.Status = StatusPendingManager
	h.runs.findByIDFn = func(ctx context.Context, companyID, id string) (*PayrollRun, error) {
		return run, nil
	}
	// Penulis lain menang duluan: UPDATE berkondisi versi tidak mengenai baris.
	h.runs.updateWithVersionFn = func(ctx context.Context, r *PayrollRun) (bool, error) {
		return false, nil
	}

	_, err := h.svc.ApproveManager(context.Background(), run.CompanyID.String(), uuid.NewString(), run.ID.String())

	assert.ErrorIs(t, err, apperror.ErrStateConflict)
}

func TestApproveFinance_BlockedByOpenHighOrCritical(t *testing.T) {
	h := newHarness(t)
	run := draftRun()
	run.Status = StatusPendingFinance
	h.runs.findByIDFn = func(ctx context.Context, companyID, id string) (*PayrollRun, error) {
		return run, nil
	}
	h.irregs.countBlockingFn = func(ctx context.Context, companyID, runID string) (int64, error) {
		return 2, nil
	}

	_, err := h.svc.ApproveFinance(context.Background(), run.CompanyID.String(), uuid.NewString(), run.ID.String())

	assert.ErrorIs(t, err, payrollrunerrors.ErrBlockingIrregularities)
}

func TestApproveFinance_LocksAndDisbursesSubLedgers(t *testing.T) {
	h := newHarness(t)
	run := draftRun()
	run.Status = StatusPendingFinance

	bonusID := uuid.New()
	benefitID := uuid.New()
	detailID := uuid.New()

	h.runs.findByIDFn = func(ctx context.Context, companyID, id string) (*PayrollRun, error) {
		return run, nil
	}
	h.runs.findDetailsFn = func(ctx context.Context, runID string) ([]EmployeeDetail, error) {
		return []EmployeeDetail{{
			ID: detailID,
			Items: []PayItem{
				{Kind: paycalc.KindBaseSalary, Amount: 300000},
				{Kind: paycalc.KindSigningBonus, Amount: 50000, SourceID: &bonusID},
				{Kind: paycalc.KindTerminationBenefit, Amount: 80000, SourceID: &benefitID},
			},
		}}, nil
	}

	h.mock.ExpectBegin()
	h.mock.ExpectCommit()

	resp, err := h.svc.ApproveFinance(context.Background(), run.CompanyID.String(), uuid.NewString(), run.ID.String())

	assert.NoError(t, err)
	assert.Equal(t, StatusLocked, resp.Status)
	assert.NotNil(t, resp.LockedAt)
	assert.NotNil(t, resp.PaidAt)
	assert.Equal(t, []string{bonusID.String()}, h.bonuses.disbursed)
	assert.Equal(t, []string{benefitID.String()}, h.benefits.disbursed)

	assert.Len(t, h.outbox.created, 1)
	assert.Equal(t, events.PayrollRunLockedTopic, h.outbox.created[0].Topic)
	assert.Equal(t, run.ID.String(), h.outbox.created[0].AggregateID)
}

func TestApproveFinance_DuplicateDisbursementRollsBack(t *testing.T) {
	h := newHarness(t)
	run := draftRun()
	run.Status = StatusPendingFinance

	bonusID := uuid.New()
	h.runs.findByIDFn = func(ctx context.Context, companyID, id string) (*PayrollRun, error) {
		return run, nil
	}
	h.runs.findDetailsFn = func(ctx context.Context, runID string) ([]EmployeeDetail, error) {
		return []EmployeeDetail{{
			ID:    uuid.New(),
			Items: []PayItem{{Kind: paycalc.KindSigningBonus, Amount: 50000, SourceID: &bonusID}},
		}}, nil
	}
	h.bonuses.markDisbursedFn = func(ctx context.Context, id, detailID string, at time.Time) (bool, error) {
		return false, nil
	}

	h.mock.ExpectBegin()
	h.mock.ExpectRollback()

	_, err := h.svc.ApproveFinance(context.Background(), run.CompanyID.String(), uuid.NewString(), run.ID.String())

	assert.ErrorIs(t, err, payrollrunerrors.ErrDuplicateDisbursement)
	assert.Empty(t, h.outbox.created)
}

func TestApproveFinance_RelockAfterUnfreeze(t *testing.T) {
	h := newHarness(t)
	run := draftRun()
	run.Status = StatusPendingFinance

	bonusID := uuid.New()
	detailID := uuid.New()
	h.runs.findByIDFn = func(ctx context.Context, companyID, id string) (*PayrollRun, error) {
		return run, nil
	}
	h.runs.findDetailsFn = func(ctx context.Context, runID string) ([]EmployeeDetail, error) {
		return []EmployeeDetail{{
			ID:    detailID,
			Items: []PayItem{{Kind: paycalc.KindSigningBonus, Amount: 50000, SourceID: &bonusID}},
		}}, nil
	}

	// Cermin kontrak UPDATE kondisional repo: baris bebas atau sudah terikat
	// ke detail yang sama berhasil, terikat ke detail lain gagal.
	bound := map[string]string{}
	h.bonuses.markDisbursedFn = func(ctx context.Context, id, dID string, at time.Time) (bool, error) {
		if prev, ok := bound[id]; ok && prev != dID {
			return false, nil
		}
		bound[id] = dID
		return true, nil
	}

	h.mock.ExpectBegin()
	h.mock.ExpectCommit()
	_, err := h.svc.ApproveFinance(context.Background(), run.CompanyID.String(), uuid.NewString(), run.ID.String())
	assert.NoError(t, err)

	_, err = h.svc.Unfreeze(context.Background(), run.CompanyID.String(), uuid.NewString(), run.ID.String(), UnfreezeRunRequest{Reason: "bank file rejected"})
	assert.NoError(t, err)

	_, err = h.svc.Submit(context.Background(), run.CompanyID.String(), uuid.NewString(), run.ID.String())
	assert.NoError(t, err)

	// Detail tidak dihitung ulang, jadi kunci kedua memutar ulang penandaan
	// atas pasangan bonus-detail yang sama dan harus tetap berhasil.
	h.mock.ExpectBegin()
	h.mock.ExpectCommit()
	resp, err := h.svc.ApproveFinance(context.Background(), run.CompanyID.String(), uuid.NewString(), run.ID.String())

	assert.NoError(t, err)
	assert.Equal(t, StatusLocked, resp.Status)
	assert.Equal(t, detailID.String(), bound[bonusID.String()])
}

func TestReject_ReasonRequired(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Reject(context.Background(), uuid.NewString(), uuid.NewString(), uuid.NewString(), RejectRunRequest{Reason: "  "})

	assert.ErrorIs(t, err, payrollrunerrors.ErrRejectReasonRequired)
}

func TestReject_FromEitherPendingState(t *testing.T) {
	for _, status := range []string{StatusPendingManager, StatusPendingFinance} {
		h := newHarness(t)
		run := draftRun()
		run.Status = status
		h.runs.findByIDFn = func(ctx context.Context, companyID, id string) (*PayrollRun, error) {
			return run, nil
		}

		resp, err := h.svc.Reject(context.Background(), run.CompanyID.String(), uuid.NewString(), run.ID.String(), RejectRunRequest{Reason: "allowance mismatch"})

		assert.NoError(t, err)
		assert.Equal(t, StatusRejected, resp.Status)
		assert.NotNil(t, resp.RejectReason)
	}
}

func TestReject_DraftNotAllowed(t *testing.T) {
	h := newHarness(t)
	run := draftRun()
	h.runs.findByIDFn = func(ctx context.Context, companyID, id string) (*PayrollRun, error) {
		return run, nil
	}

	_, err := h.svc.Reject(context.Background(), run.CompanyID.String(), uuid.NewString(), run.ID.String(), RejectRunRequest{Reason: "x"})

	assert.ErrorIs(t, err, payrollrunerrors.ErrRejectNotAllowed)
}

func TestUnfreeze_ReasonRequired(t *testing.T) {
	h := newHarness(t)
	run := draftRun()
	run.Status = StatusLocked
	h.runs.findByIDFn = func(ctx context.Context, companyID, id string) (*PayrollRun, error) {
		return run, nil
	}
	h.runs.updateWithVersionFn = func(ctx context.Context, r *PayrollRun) (bool, error) {
		t.Fatal("run tidak boleh tersentuh saat alasan kosong")
		return false, nil
	}

	_, err := h.svc.Unfreeze(context.Background(), run.CompanyID.String(), uuid.NewString(), run.ID.String(), UnfreezeRunRequest{Reason: "   "})

	assert.ErrorIs(t, err, payrollrunerrors.ErrUnfreezeReasonRequired)
	assert.Equal(t, StatusLocked, run.Status)
}

func TestUnfreeze_OnlyLockedRun(t *testing.T) {
	h := newHarness(t)
	run := draftRun()
	run.Status = StatusApproved
	h.runs.findByIDFn = func(ctx context.Context, companyID, id string) (*PayrollRun, error) {
		return run, nil
	}

	_, err := h.svc.Unfreeze(context.Background(), run.CompanyID.String(), uuid.NewString(), run.ID.String(), UnfreezeRunRequest{Reason: "late correction"})

	assert.ErrorIs(t, err, payrollrunerrors.ErrNotLocked)
}

func TestUnfreeze_RevertsToApproved(t *testing.T) {
	h := newHarness(t)
	run := draftRun()
	run.Status = StatusLocked
	now := time.Now()
	run.LockedAt = &now
	run.PaidAt = &now
	h.runs.findByIDFn = func(ctx context.Context, companyID, id string) (*PayrollRun, error) {
		return run, nil
	}

	resp, err := h.svc.Unfreeze(context.Background(), run.CompanyID.String(), uuid.NewString(), run.ID.String(), UnfreezeRunRequest{Reason: "late correction"})

	assert.NoError(t, err)
	assert.Equal(t, StatusApproved, resp.Status)
	assert.Nil(t, resp.LockedAt)
	assert.Nil(t, resp.PaidAt)
	assert.NotNil(t, resp.UnfreezeReason)
}

func TestDelete_OnlyDraft(t *testing.T) {
	h := newHarness(t)
	run := draftRun()
	run.Status = StatusPendingManager
	h.runs.findByIDFn = func(ctx context.Context, companyID, id string) (*PayrollRun, error) {
		return run, nil
	}

	err := h.svc.Delete(context.Background(), run.CompanyID.String(), run.ID.String())

	assert.ErrorIs(t, err, payrollrunerrors.ErrDeleteOnlyDraft)
	assert.False(t, h.runs.deleted)
}
