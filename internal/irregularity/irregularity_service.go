package irregularity

import (
	"context"
	"errors"
	"strings"
	"time"

	irregularityerrors "go-payroll/internal/irregularity/errors"
	"go-payroll/internal/rbac"
	"go-payroll/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RunLedger adalah jembatan ke run pemilik tanpa import silang: implementasinya
// tinggal di paket payroll run. Penyesuaian ADJUSTED ditulis balik ke line item
// detail terkait dan total run dihitung ulang dari penjumlahan detailnya.
type RunLedger interface {
	RunLocked(ctx context.Context, companyID, runID string) (bool, error)
	ApplyAdjustment(ctx context.Context, tx *gorm.DB, companyID, runID, detailID, lineKind string, adjustedValue int64) error
}

//go:generate mockgen -source=irregularity_service.go -destination=mock/irregularity_service_mock.go -package=mock
type Service interface {
	GetByRun(ctx context.Context, companyID, runID, actorRole string, filter ListIrregularitiesFilterRequest) ([]IrregularityResponse, error)
	GetByID(ctx context.Context, companyID, id string) (IrregularityResponse, error)
	Escalate(ctx context.Context, companyID, actorID, id string, req EscalateRequest) (IrregularityResponse, error)
	Resolve(ctx context.Context, companyID, actorID, id string, req ResolveRequest) (IrregularityResponse, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	ledger RunLedger
	log    *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, ledger RunLedger) Service {
	return &service{
		db:     db,
		repo:   repo,
		ledger: ledger,
		log:    zap.L().Named("irregularity_service"),
	}
}

func (s *service) GetByRun(
	ctx context.Context,
	companyID, runID, actorRole string,
	filter ListIrregularitiesFilterRequest,
) ([]IrregularityResponse, error) {
	listFilter := ListFilter{
		Status:   filter.Status,
		Severity: filter.Severity,
		// Item yang sudah dieskalasi hanya terlihat untuk level manajer ke atas.
		ExcludeEscalated: !rbac.IsManagerLevel(actorRole),
	}

	items, err := s.repo.FindByRun(ctx, companyID, runID, listFilter)
	if err != nil {
		return nil, err
	}

	resp := make([]IrregularityResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, ToResponse(item))
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (IrregularityResponse, error) {
	item, err := s.findItem(ctx, companyID, id)
	if err != nil {
		return IrregularityResponse{}, err
	}
	return ToResponse(*item), nil
}

func (s *service) Escalate(
	ctx context.Context,
	companyID, actorID, id string,
	req EscalateRequest,
) (IrregularityResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return IrregularityResponse{}, irregularityerrors.ErrEscalationReasonRequired
	}

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return IrregularityResponse{}, apperror.InvalidField("actor id")
	}

	item, err := s.findItem(ctx, companyID, id)
	if err != nil {
		return IrregularityResponse{}, err
	}
	if item.Status != StatusPending {
		return IrregularityResponse{}, irregularityerrors.ErrNotEscalatable
	}

	now := time.Now()
	item.Status = StatusEscalated
	item.EscalatedBy = &actorUUID
	item.EscalationReason = &reason
	item.EscalatedAt = &now

	if err := s.repo.Update(ctx, item); err != nil {
		return IrregularityResponse{}, err
	}

	s.log.Info("irregularity escalated",
		zap.String("irregularity_id", id),
		zap.String("severity", item.Severity),
		zap.String("escalated_by", actorID),
	)

	return ToResponse(*item), nil
}

func (s *service) Resolve(
	ctx context.Context,
	companyID, actorID, id string,
	req ResolveRequest,
) (IrregularityResponse, error) {
	notes := strings.TrimSpace(req.Notes)
	if notes == "" {
		return IrregularityResponse{}, irregularityerrors.ErrResolutionNotesRequired
	}
	if !ValidResolutionAction(req.Action) {
		return IrregularityResponse{}, irregularityerrors.ErrInvalidResolutionAction
	}

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return IrregularityResponse{}, apperror.InvalidField("actor id")
	}

	item, err := s.findItem(ctx, companyID, id)
	if err != nil {
		return IrregularityResponse{}, err
	}
	if item.IsTerminal() {
		return IrregularityResponse{}, irregularityerrors.ErrAlreadyTerminal
	}

	severe := item.Severity == SeverityHigh || item.Severity == SeverityCritical
	if severe && item.Status != StatusEscalated {
		return IrregularityResponse{}, irregularityerrors.ErrMustEscalateFirst
	}

	locked, err := s.ledger.RunLocked(ctx, companyID, item.PayrollRunID.String())
	if err != nil {
		return IrregularityResponse{}, err
	}
	if locked {
		return IrregularityResponse{}, irregularityerrors.ErrRunLocked
	}

	if req.Action == ActionAdjusted {
		if req.AdjustedValue == nil {
			return IrregularityResponse{}, irregularityerrors.ErrAdjustedValueRequired
		}
		if item.DetailID == nil || item.LineKind == nil {
			return IrregularityResponse{}, irregularityerrors.ErrNotAdjustable
		}
	}

	now := time.Now()
	status := StatusResolved
	if req.Action == ActionRejected {
		status = StatusRejected
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.Action == ActionAdjusted {
			err := s.ledger.ApplyAdjustment(
				ctx, tx,
				companyID,
				item.PayrollRunID.String(),
				item.DetailID.String(),
				*item.LineKind,
				*req.AdjustedValue,
			)
			if err != nil {
				return err
			}
		}

		item.Status = status
		item.ResolutionAction = &req.Action
		item.AdjustedValue = req.AdjustedValue
		item.ResolutionNotes = &notes
		item.ResolvedBy = &actorUUID
		item.ResolvedAt = &now

		return s.repo.WithTx(tx).Update(ctx, item)
	})
	if err != nil {
		return IrregularityResponse{}, err
	}

	s.log.Info("irregularity resolved",
		zap.String("irregularity_id", id),
		zap.String("action", req.Action),
		zap.String("resolved_by", actorID),
	)

	// Menutup irregularity terakhir yang blocking TIDAK memajukan state run;
	// lock tetap aksi eksplisit manusia.
	return ToResponse(*item), nil
}

func (s *service) findItem(ctx context.Context, companyID, id string) (*Irregularity, error) {
	item, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, irregularityerrors.ErrIrregularityNotFound
		}
		return nil, err
	}
	return item, nil
}
