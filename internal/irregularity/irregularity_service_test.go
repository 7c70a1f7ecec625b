package irregularity

import (
	"context"
	"testing"

	irregularityerrors "go-payroll/internal/irregularity/errors"
	"go-payroll/internal/rbac"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeIrregularityRepo struct {
	findByIDFn      func(ctx context.Context, companyID, id string) (*Irregularity, error)
	findByRunFn     func(ctx context.Context, companyID, runID string, filter ListFilter) ([]Irregularity, error)
	updateFn        func(ctx context.Context, item *Irregularity) error
	countBlockingFn func(ctx context.Context, companyID, runID string) (int64, error)
}

func (f *fakeIrregularityRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeIrregularityRepo) CreateBatch(ctx context.Context, items []Irregularity) error {
	return nil
}

func (f *fakeIrregularityRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Irregularity, error) {
	return f.findByIDFn(ctx, companyID, id)
}

func (f *fakeIrregularityRepo) FindByRun(ctx context.Context, companyID, runID string, filter ListFilter) ([]Irregularity, error) {
	return f.findByRunFn(ctx, companyID, runID, filter)
}

func (f *fakeIrregularityRepo) Update(ctx context.Context, item *Irregularity) error {
	return f.updateFn(ctx, item)
}

func (f *fakeIrregularityRepo) CountBlocking(ctx context.Context, companyID, runID string) (int64, error) {
	if f.countBlockingFn != nil {
		return f.countBlockingFn(ctx, companyID, runID)
	}
	return 0, nil
}

func (f *fakeIrregularityRepo) CountUnresolvedCritical(ctx context.Context, companyID, runID string) (int64, error) {
	return 0, nil
}

func (f *fakeIrregularityRepo) DeleteOpenByRun(ctx context.Context, companyID, runID string) error {
	return nil
}

type fakeRunLedger struct {
	locked        bool
	lockedErr     error
	applied       bool
	appliedDetail string
	appliedKind   string
	appliedValue  int64
}

func (f *fakeRunLedger) RunLocked(ctx context.Context, companyID, runID string) (bool, error) {
	return f.locked, f.lockedErr
}

func (f *fakeRunLedger) ApplyAdjustment(ctx context.Context, tx *gorm.DB, companyID, runID, detailID, lineKind string, adjustedValue int64) error {
	f.applied = true
	f.appliedDetail = detailID
	f.appliedKind = lineKind
	f.appliedValue = adjustedValue
	return nil
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

func pendingItem(severity string) *Irregularity {
	return &Irregularity{
		ID:           uuid.New(),
		CompanyID:    uuid.New(),
		PayrollRunID: uuid.New(),
		Severity:     severity,
		Status:       StatusPending,
		Description:  "net pay is negative",
	}
}

func escalatedItem(severity string) *Irregularity {
	item := pendingItem(severity)
	item.Status = StatusEscalated
	return item
}

func TestEscalate_RequiresReason(t *testing.T) {
	db, _ := newTestDB(t)
	svc := NewService(db, &fakeIrregularityRepo{}, &fakeRunLedger{})

	_, err := svc.Escalate(context.Background(), uuid.NewString(), uuid.NewString(), uuid.NewString(), EscalateRequest{Reason: "   "})

	assert.ErrorIs(t, err, irregularityerrors.ErrEscalationReasonRequired)
}

func TestEscalate_PendingBecomesEscalated(t *testing.T) {
	db, _ := newTestDB(t)
	item := pendingItem(SeverityHigh)

	var saved *Irregularity
	repo := &fakeIrregularityRepo{
		findByIDFn: func(ctx context.Context, companyID, id string) (*Irregularity, error) {
			return item, nil
		},
		updateFn: func(ctx context.Context, i *Irregularity) error {
			saved = i
			return nil
		},
	}
	svc := NewService(db, repo, &fakeRunLedger{})

	resp, err := svc.Escalate(context.Background(), item.CompanyID.String(), uuid.NewString(), item.ID.String(), EscalateRequest{Reason: "needs manager review"})

	assert.NoError(t, err)
	assert.Equal(t, StatusEscalated, resp.Status)
	assert.NotNil(t, saved)
	assert.NotNil(t, saved.EscalatedAt)
	assert.Equal(t, "needs manager review", *saved.EscalationReason)
}

func TestEscalate_OnlyFromPending(t *testing.T) {
	db, _ := newTestDB(t)
	item := escalatedItem(SeverityHigh)
	repo := &fakeIrregularityRepo{
		findByIDFn: func(ctx context.Context, companyID, id string) (*Irregularity, error) {
			return item, nil
		},
	}
	svc := NewService(db, repo, &fakeRunLedger{})

	_, err := svc.Escalate(context.Background(), item.CompanyID.String(), uuid.NewString(), item.ID.String(), EscalateRequest{Reason: "again"})

	assert.ErrorIs(t, err, irregularityerrors.ErrNotEscalatable)
}

func TestResolve_RequiresNotes(t *testing.T) {
	db, _ := newTestDB(t)
	svc := NewService(db, &fakeIrregularityRepo{}, &fakeRunLedger{})

	_, err := svc.Resolve(context.Background(), uuid.NewString(), uuid.NewString(), uuid.NewString(), ResolveRequest{Action: ActionApproved, Notes: ""})

	assert.ErrorIs(t, err, irregularityerrors.ErrResolutionNotesRequired)
}

func TestResolve_RejectsUnknownAction(t *testing.T) {
	db, _ := newTestDB(t)
	svc := NewService(db, &fakeIrregularityRepo{}, &fakeRunLedger{})

	_, err := svc.Resolve(context.Background(), uuid.NewString(), uuid.NewString(), uuid.NewString(), ResolveRequest{Action: "SHRUGGED", Notes: "ok"})

	assert.ErrorIs(t, err, irregularityerrors.ErrInvalidResolutionAction)
}

func TestResolve_SevereMustBeEscalatedFirst(t *testing.T) {
	db, _ := newTestDB(t)
	item := pendingItem(SeverityCritical)
	repo := &fakeIrregularityRepo{
		findByIDFn: func(ctx context.Context, companyID, id string) (*Irregularity, error) {
			return item, nil
		},
	}
	svc := NewService(db, repo, &fakeRunLedger{})

	_, err := svc.Resolve(context.Background(), item.CompanyID.String(), uuid.NewString(), item.ID.String(), ResolveRequest{Action: ActionApproved, Notes: "reviewed"})

	assert.ErrorIs(t, err, irregularityerrors.ErrMustEscalateFirst)
}

func TestResolve_LowSeverityDirectlyFromPending(t *testing.T) {
	db, mock := newTestDB(t)
	item := pendingItem(SeverityLow)
	repo := &fakeIrregularityRepo{
		findByIDFn: func(ctx context.Context, companyID, id string) (*Irregularity, error) {
			return item, nil
		},
		updateFn: func(ctx context.Context, i *Irregularity) error { return nil },
	}
	svc := NewService(db, repo, &fakeRunLedger{})

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Resolve(context.Background(), item.CompanyID.String(), uuid.NewString(), item.ID.String(), ResolveRequest{Action: ActionApproved, Notes: "explained by prorate"})

	assert.NoError(t, err)
	assert.Equal(t, StatusResolved, resp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_BlockedWhenRunLocked(t *testing.T) {
	db, _ := newTestDB(t)
	item := escalatedItem(SeverityHigh)
	repo := &fakeIrregularityRepo{
		findByIDFn: func(ctx context.Context, companyID, id string) (*Irregularity, error) {
			return item, nil
		},
	}
	svc := NewService(db, repo, &fakeRunLedger{locked: true})

	_, err := svc.Resolve(context.Background(), item.CompanyID.String(), uuid.NewString(), item.ID.String(), ResolveRequest{Action: ActionApproved, Notes: "late review"})

	assert.ErrorIs(t, err, irregularityerrors.ErrRunLocked)
}

func TestResolve_TerminalIsConflict(t *testing.T) {
	db, _ := newTestDB(t)
	item := pendingItem(SeverityLow)
	item.Status = StatusResolved
	repo := &fakeIrregularityRepo{
		findByIDFn: func(ctx context.Context, companyID, id string) (*Irregularity, error) {
			return item, nil
		},
	}
	svc := NewService(db, repo, &fakeRunLedger{})

	_, err := svc.Resolve(context.Background(), item.CompanyID.String(), uuid.NewString(), item.ID.String(), ResolveRequest{Action: ActionApproved, Notes: "twice"})

	assert.ErrorIs(t, err, irregularityerrors.ErrAlreadyTerminal)
}

func TestResolve_AdjustedRequiresValue(t *testing.T) {
	db, _ := newTestDB(t)
	item := escalatedItem(SeverityHigh)
	repo := &fakeIrregularityRepo{
		findByIDFn: func(ctx context.Context, companyID, id string) (*Irregularity, error) {
			return item, nil
		},
	}
	svc := NewService(db, repo, &fakeRunLedger{})

	_, err := svc.Resolve(context.Background(), item.CompanyID.String(), uuid.NewString(), item.ID.String(), ResolveRequest{Action: ActionAdjusted, Notes: "fix the tax line"})

	assert.ErrorIs(t, err, irregularityerrors.ErrAdjustedValueRequired)
}

func TestResolve_AdjustedRequiresDetailLine(t *testing.T) {
	db, _ := newTestDB(t)
	item := escalatedItem(SeverityHigh) // tanpa DetailID/LineKind
	repo := &fakeIrregularityRepo{
		findByIDFn: func(ctx context.Context, companyID, id string) (*Irregularity, error) {
			return item, nil
		},
	}
	svc := NewService(db, repo, &fakeRunLedger{})
	value := int64(12000)

	_, err := svc.Resolve(context.Background(), item.CompanyID.String(), uuid.NewString(), item.ID.String(), ResolveRequest{Action: ActionAdjusted, AdjustedValue: &value, Notes: "fix"})

	assert.ErrorIs(t, err, irregularityerrors.ErrNotAdjustable)
}

func TestResolve_AdjustedAppliesValueToLedger(t *testing.T) {
	db, mock := newTestDB(t)
	item := escalatedItem(SeverityHigh)
	detailID := uuid.New()
	lineKind := "TAX"
	item.DetailID = &detailID
	item.LineKind = &lineKind

	repo := &fakeIrregularityRepo{
		findByIDFn: func(ctx context.Context, companyID, id string) (*Irregularity, error) {
			return item, nil
		},
		updateFn: func(ctx context.Context, i *Irregularity) error { return nil },
	}
	ledger := &fakeRunLedger{}
	svc := NewService(db, repo, ledger)
	value := int64(12000)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Resolve(context.Background(), item.CompanyID.String(), uuid.NewString(), item.ID.String(), ResolveRequest{Action: ActionAdjusted, AdjustedValue: &value, Notes: "tax recomputed by hand"})

	assert.NoError(t, err)
	assert.True(t, ledger.applied)
	assert.Equal(t, detailID.String(), ledger.appliedDetail)
	assert.Equal(t, "TAX", ledger.appliedKind)
	assert.Equal(t, int64(12000), ledger.appliedValue)
	assert.Equal(t, StatusResolved, resp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_RejectedActionSetsRejectedStatus(t *testing.T) {
	db, mock := newTestDB(t)
	item := escalatedItem(SeverityCritical)
	repo := &fakeIrregularityRepo{
		findByIDFn: func(ctx context.Context, companyID, id string) (*Irregularity, error) {
			return item, nil
		},
		updateFn: func(ctx context.Context, i *Irregularity) error { return nil },
	}
	svc := NewService(db, repo, &fakeRunLedger{})

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Resolve(context.Background(), item.CompanyID.String(), uuid.NewString(), item.ID.String(), ResolveRequest{Action: ActionRejected, Notes: "false positive"})

	assert.NoError(t, err)
	assert.Equal(t, StatusRejected, resp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByRun_SpecialistDoesNotSeeEscalated(t *testing.T) {
	db, _ := newTestDB(t)
	var gotFilter ListFilter
	repo := &fakeIrregularityRepo{
		findByRunFn: func(ctx context.Context, companyID, runID string, filter ListFilter) ([]Irregularity, error) {
			gotFilter = filter
			return nil, nil
		},
	}
	svc := NewService(db, repo, &fakeRunLedger{})

	_, err := svc.GetByRun(context.Background(), uuid.NewString(), uuid.NewString(), rbac.RolePayrollSpecialist, ListIrregularitiesFilterRequest{})

	assert.NoError(t, err)
	assert.True(t, gotFilter.ExcludeEscalated)
}

func TestGetByRun_ManagerSeesEscalated(t *testing.T) {
	db, _ := newTestDB(t)
	var gotFilter ListFilter
	repo := &fakeIrregularityRepo{
		findByRunFn: func(ctx context.Context, companyID, runID string, filter ListFilter) ([]Irregularity, error) {
			gotFilter = filter
			return nil, nil
		},
	}
	svc := NewService(db, repo, &fakeRunLedger{})

	_, err := svc.GetByRun(context.Background(), uuid.NewString(), uuid.NewString(), rbac.RolePayrollManager, ListIrregularitiesFilterRequest{})

	assert.NoError(t, err)
	assert.False(t, gotFilter.ExcludeEscalated)
}
