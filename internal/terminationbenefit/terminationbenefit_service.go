package terminationbenefit

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-payroll/internal/shared/apperror"
	terminationbenefiterrors "go-payroll/internal/terminationbenefit/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=terminationbenefit_service.go -destination=mock/terminationbenefit_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateTerminationBenefitRequest) (TerminationBenefitResponse, error)
	GetAll(ctx context.Context, companyID string, filter ListTerminationBenefitFilterRequest) ([]TerminationBenefitResponse, error)
	GetByID(ctx context.Context, companyID, id string) (TerminationBenefitResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateTerminationBenefitRequest) (TerminationBenefitResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string) (TerminationBenefitResponse, error)
	Reject(ctx context.Context, companyID, actorID, id string, req RejectTerminationBenefitRequest) (TerminationBenefitResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		log:  zap.L().Named("terminationbenefit_service"),
	}
}

func (s *service) Create(
	ctx context.Context,
	companyID, actorID string,
	req CreateTerminationBenefitRequest,
) (TerminationBenefitResponse, error) {
	if req.Amount == 0 {
		return TerminationBenefitResponse{}, terminationbenefiterrors.ErrZeroAmount
	}

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return TerminationBenefitResponse{}, apperror.InvalidField("company id")
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return TerminationBenefitResponse{}, apperror.InvalidField("actor id")
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return TerminationBenefitResponse{}, apperror.InvalidField("employee id")
	}
	effectiveDate, err := time.Parse("2006-01-02", req.EffectiveDate)
	if err != nil {
		return TerminationBenefitResponse{}, apperror.InvalidField("effective date")
	}

	benefit := TerminationBenefit{
		CompanyID:     companyUUID,
		EmployeeID:    employeeUUID,
		Kind:          req.Kind,
		Name:          req.Name,
		Amount:        req.Amount,
		EffectiveDate: effectiveDate,
		Status:        StatusPending,
		CreatedBy:     actorUUID,
	}

	if err := s.repo.Create(ctx, &benefit); err != nil {
		return TerminationBenefitResponse{}, err
	}

	s.log.Info("termination benefit created",
		zap.String("benefit_id", benefit.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.String("kind", req.Kind),
		zap.Int64("amount", req.Amount),
	)

	return ToResponse(benefit), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, filter ListTerminationBenefitFilterRequest) ([]TerminationBenefitResponse, error) {
	benefits, err := s.repo.FindAllByCompany(ctx, companyID, ListFilter{
		EmployeeID: filter.EmployeeID,
		Status:     filter.Status,
		Kind:       filter.Kind,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]TerminationBenefitResponse, 0, len(benefits))
	for _, b := range benefits {
		resp = append(resp, ToResponse(b))
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (TerminationBenefitResponse, error) {
	benefit, err := s.findBenefit(ctx, companyID, id)
	if err != nil {
		return TerminationBenefitResponse{}, err
	}
	return ToResponse(*benefit), nil
}

func (s *service) Update(
	ctx context.Context,
	companyID, id string,
	req UpdateTerminationBenefitRequest,
) (TerminationBenefitResponse, error) {
	benefit, err := s.findBenefit(ctx, companyID, id)
	if err != nil {
		return TerminationBenefitResponse{}, err
	}
	if benefit.Status == StatusApproved {
		return TerminationBenefitResponse{}, terminationbenefiterrors.ErrEditAfterApproval
	}

	if req.Name != nil {
		benefit.Name = *req.Name
	}
	if req.Amount != nil {
		if *req.Amount == 0 {
			return TerminationBenefitResponse{}, terminationbenefiterrors.ErrZeroAmount
		}
		benefit.Amount = *req.Amount
	}
	if req.EffectiveDate != nil {
		effectiveDate, err := time.Parse("2006-01-02", *req.EffectiveDate)
		if err != nil {
			return TerminationBenefitResponse{}, apperror.InvalidField("effective date")
		}
		benefit.EffectiveDate = effectiveDate
	}

	if err := s.repo.Update(ctx, benefit); err != nil {
		return TerminationBenefitResponse{}, err
	}
	return ToResponse(*benefit), nil
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id string) (TerminationBenefitResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return TerminationBenefitResponse{}, apperror.InvalidField("actor id")
	}

	benefit, err := s.findBenefit(ctx, companyID, id)
	if err != nil {
		return TerminationBenefitResponse{}, err
	}
	if benefit.Status == StatusApproved {
		return TerminationBenefitResponse{}, terminationbenefiterrors.ErrDuplicateDisbursement
	}
	if benefit.Status == StatusRejected {
		return TerminationBenefitResponse{}, terminationbenefiterrors.ErrAlreadyDecided
	}

	now := time.Now()
	benefit.Status = StatusApproved
	benefit.ApprovedBy = &actorUUID
	benefit.ApprovedAt = &now

	if err := s.repo.Update(ctx, benefit); err != nil {
		return TerminationBenefitResponse{}, err
	}

	s.log.Info("termination benefit approved",
		zap.String("benefit_id", id),
		zap.String("approved_by", actorID),
	)

	return ToResponse(*benefit), nil
}

func (s *service) Reject(
	ctx context.Context,
	companyID, actorID, id string,
	req RejectTerminationBenefitRequest,
) (TerminationBenefitResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return TerminationBenefitResponse{}, terminationbenefiterrors.ErrRejectReasonRequired
	}

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return TerminationBenefitResponse{}, apperror.InvalidField("actor id")
	}

	benefit, err := s.findBenefit(ctx, companyID, id)
	if err != nil {
		return TerminationBenefitResponse{}, err
	}
	if benefit.Status != StatusPending {
		return TerminationBenefitResponse{}, terminationbenefiterrors.ErrAlreadyDecided
	}

	now := time.Now()
	benefit.Status = StatusRejected
	benefit.RejectReason = &reason
	benefit.RejectedBy = &actorUUID
	benefit.RejectedAt = &now

	if err := s.repo.Update(ctx, benefit); err != nil {
		return TerminationBenefitResponse{}, err
	}

	return ToResponse(*benefit), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	benefit, err := s.findBenefit(ctx, companyID, id)
	if err != nil {
		return err
	}
	if benefit.IsDisbursed() {
		return terminationbenefiterrors.ErrAlreadyDisbursed
	}
	return s.repo.Delete(ctx, companyID, id)
}

func (s *service) findBenefit(ctx context.Context, companyID, id string) (*TerminationBenefit, error) {
	benefit, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, terminationbenefiterrors.ErrBenefitNotFound
		}
		return nil, err
	}
	return benefit, nil
}
