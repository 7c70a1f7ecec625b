package signingbonus

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-payroll/internal/shared/apperror"
	signingbonuserrors "go-payroll/internal/signingbonus/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=signingbonus_service.go -destination=mock/signingbonus_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateSigningBonusRequest) (SigningBonusResponse, error)
	GetAll(ctx context.Context, companyID string, filter ListSigningBonusFilterRequest) ([]SigningBonusResponse, error)
	GetByID(ctx context.Context, companyID, id string) (SigningBonusResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateSigningBonusRequest) (SigningBonusResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string) (SigningBonusResponse, error)
	Reject(ctx context.Context, companyID, actorID, id string, req RejectSigningBonusRequest) (SigningBonusResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		log:  zap.L().Named("signingbonus_service"),
	}
}

func (s *service) Create(
	ctx context.Context,
	companyID, actorID string,
	req CreateSigningBonusRequest,
) (SigningBonusResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return SigningBonusResponse{}, apperror.InvalidField("company id")
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return SigningBonusResponse{}, apperror.InvalidField("actor id")
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return SigningBonusResponse{}, apperror.InvalidField("employee id")
	}
	bonusDate, err := time.Parse("2006-01-02", req.BonusDate)
	if err != nil {
		return SigningBonusResponse{}, apperror.InvalidField("bonus date")
	}

	bonus := SigningBonus{
		CompanyID:  companyUUID,
		EmployeeID: employeeUUID,
		Name:       req.Name,
		Amount:     req.Amount,
		BonusDate:  bonusDate,
		Status:     StatusPending,
		CreatedBy:  actorUUID,
	}

	if err := s.repo.Create(ctx, &bonus); err != nil {
		return SigningBonusResponse{}, err
	}

	s.log.Info("signing bonus created",
		zap.String("bonus_id", bonus.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Int64("amount", req.Amount),
	)

	return ToResponse(bonus), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, filter ListSigningBonusFilterRequest) ([]SigningBonusResponse, error) {
	bonuses, err := s.repo.FindAllByCompany(ctx, companyID, ListFilter{
		EmployeeID: filter.EmployeeID,
		Status:     filter.Status,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]SigningBonusResponse, 0, len(bonuses))
	for _, b := range bonuses {
		resp = append(resp, ToResponse(b))
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (SigningBonusResponse, error) {
	bonus, err := s.findBonus(ctx, companyID, id)
	if err != nil {
		return SigningBonusResponse{}, err
	}
	return ToResponse(*bonus), nil
}

func (s *service) Update(
	ctx context.Context,
	companyID, id string,
	req UpdateSigningBonusRequest,
) (SigningBonusResponse, error) {
	bonus, err := s.findBonus(ctx, companyID, id)
	if err != nil {
		return SigningBonusResponse{}, err
	}
	// Setelah APPROVED nilainya beku; koreksi berjalan lewat jalur reject +
	// pembuatan baris baru.
	if bonus.Status == StatusApproved {
		return SigningBonusResponse{}, signingbonuserrors.ErrEditAfterApproval
	}

	if req.Name != nil {
		bonus.Name = *req.Name
	}
	if req.Amount != nil {
		bonus.Amount = *req.Amount
	}
	if req.BonusDate != nil {
		bonusDate, err := time.Parse("2006-01-02", *req.BonusDate)
		if err != nil {
			return SigningBonusResponse{}, apperror.InvalidField("bonus date")
		}
		bonus.BonusDate = bonusDate
	}

	if err := s.repo.Update(ctx, bonus); err != nil {
		return SigningBonusResponse{}, err
	}
	return ToResponse(*bonus), nil
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id string) (SigningBonusResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return SigningBonusResponse{}, apperror.InvalidField("actor id")
	}

	bonus, err := s.findBonus(ctx, companyID, id)
	if err != nil {
		return SigningBonusResponse{}, err
	}
	// Approve kedua kali bukan no-op diam-diam: konflik eksplisit, karena
	// approve ulang adalah jalur menuju dobel bayar.
	if bonus.Status == StatusApproved {
		return SigningBonusResponse{}, signingbonuserrors.ErrDuplicateDisbursement
	}
	if bonus.Status == StatusRejected {
		return SigningBonusResponse{}, signingbonuserrors.ErrAlreadyDecided
	}

	now := time.Now()
	bonus.Status = StatusApproved
	bonus.ApprovedBy = &actorUUID
	bonus.ApprovedAt = &now

	if err := s.repo.Update(ctx, bonus); err != nil {
		return SigningBonusResponse{}, err
	}

	s.log.Info("signing bonus approved",
		zap.String("bonus_id", id),
		zap.String("approved_by", actorID),
	)

	return ToResponse(*bonus), nil
}

func (s *service) Reject(
	ctx context.Context,
	companyID, actorID, id string,
	req RejectSigningBonusRequest,
) (SigningBonusResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return SigningBonusResponse{}, signingbonuserrors.ErrRejectReasonRequired
	}

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return SigningBonusResponse{}, apperror.InvalidField("actor id")
	}

	bonus, err := s.findBonus(ctx, companyID, id)
	if err != nil {
		return SigningBonusResponse{}, err
	}
	if bonus.Status != StatusPending {
		return SigningBonusResponse{}, signingbonuserrors.ErrAlreadyDecided
	}

	now := time.Now()
	bonus.Status = StatusRejected
	bonus.RejectReason = &reason
	bonus.RejectedBy = &actorUUID
	bonus.RejectedAt = &now

	if err := s.repo.Update(ctx, bonus); err != nil {
		return SigningBonusResponse{}, err
	}

	return ToResponse(*bonus), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	bonus, err := s.findBonus(ctx, companyID, id)
	if err != nil {
		return err
	}
	if bonus.IsDisbursed() {
		return signingbonuserrors.ErrAlreadyDisbursed
	}
	return s.repo.Delete(ctx, companyID, id)
}

func (s *service) findBonus(ctx context.Context, companyID, id string) (*SigningBonus, error) {
	bonus, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, signingbonuserrors.ErrBonusNotFound
		}
		return nil, err
	}
	return bonus, nil
}
