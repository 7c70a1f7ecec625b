package payrule

import (
	"context"
	"time"

	"go-payroll/internal/employee"
	payruleerrors "go-payroll/internal/payrule/errors"

	"go.uber.org/zap"
)

//go:generate mockgen -source=payrule_service.go -destination=mock/payrule_service_mock.go -package=mock
type Service interface {
	// Resolve memilih versi aturan yang berlaku untuk satu karyawan pada satu
	// periode. Tidak pernah mengembalikan default nol: aturan hilang = error.
	Resolve(ctx context.Context, companyID string, snap employee.Snapshot, periodStart, periodEnd time.Time) (Bundle, error)

	GetTaxRules(ctx context.Context, companyID string) ([]TaxRuleResponse, error)
	GetInsuranceRules(ctx context.Context, companyID string) ([]InsuranceRuleResponse, error)
	GetPayGradeRules(ctx context.Context, companyID string) ([]PayGradeRuleResponse, error)
}

type service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		log:  zap.L().Named("payrule_service"),
	}
}

func (s *service) Resolve(
	ctx context.Context,
	companyID string,
	snap employee.Snapshot,
	periodStart, periodEnd time.Time,
) (Bundle, error) {
	if snap.Jurisdiction == "" {
		return Bundle{}, payruleerrors.ErrInvalidJurisdiction
	}

	var bundle Bundle

	taxRules, err := s.repo.ListTaxRules(ctx, companyID, snap.Jurisdiction)
	if err != nil {
		return Bundle{}, err
	}
	tax, ok := pickTaxRule(taxRules, periodStart, periodEnd)
	if !ok {
		s.log.Warn("tax rule missing",
			zap.String("company_id", companyID),
			zap.String("jurisdiction", snap.Jurisdiction),
		)
		return Bundle{}, payruleerrors.ErrTaxRuleMissing
	}
	bundle.Tax = tax

	insRules, err := s.repo.ListInsuranceRules(ctx, companyID, snap.Jurisdiction)
	if err != nil {
		return Bundle{}, err
	}
	insurances := pickInsuranceRules(insRules, periodStart, periodEnd)
	if len(insurances) == 0 {
		s.log.Warn("insurance rule missing",
			zap.String("company_id", companyID),
			zap.String("jurisdiction", snap.Jurisdiction),
		)
		return Bundle{}, payruleerrors.ErrInsuranceRuleMissing
	}
	bundle.Insurances = insurances

	gradeRules, err := s.repo.ListPayGradeRules(ctx, companyID, snap.PayGrade)
	if err != nil {
		return Bundle{}, err
	}
	grade, ok := pickPayGradeRule(gradeRules, periodStart, periodEnd)
	if !ok {
		s.log.Warn("pay grade rule missing",
			zap.String("company_id", companyID),
			zap.String("pay_grade", snap.PayGrade),
		)
		return Bundle{}, payruleerrors.ErrPayGradeRuleMissing
	}
	bundle.PayGrade = grade

	staleCutoff := periodStart.AddDate(0, -1, 0)
	if bundle.Tax.EffectiveFrom.Before(staleCutoff) {
		bundle.StaleRules = append(bundle.StaleRules, bundle.Tax.Name)
	}
	for _, ins := range bundle.Insurances {
		if ins.EffectiveFrom.Before(staleCutoff) {
			bundle.StaleRules = append(bundle.StaleRules, ins.Name)
		}
	}
	if bundle.PayGrade.EffectiveFrom.Before(staleCutoff) {
		bundle.StaleRules = append(bundle.StaleRules, "pay grade "+bundle.PayGrade.Grade)
	}

	return bundle, nil
}

// covers melaporkan apakah rentang efektif [from, to] memuat seluruh periode.
func covers(from time.Time, to *time.Time, periodStart, periodEnd time.Time) bool {
	if from.After(periodStart) {
		return false
	}
	if to != nil && to.Before(periodEnd) {
		return false
	}
	return true
}

// Kalau lebih dari satu versi berlaku (rentang overlap), yang menang adalah
// effective_from paling baru.
func pickTaxRule(rules []TaxRule, periodStart, periodEnd time.Time) (TaxRule, bool) {
	var best TaxRule
	found := false
	for _, r := range rules {
		if !covers(r.EffectiveFrom, r.EffectiveTo, periodStart, periodEnd) {
			continue
		}
		if !found || r.EffectiveFrom.After(best.EffectiveFrom) {
			best = r
			found = true
		}
	}
	return best, found
}

func pickPayGradeRule(rules []PayGradeRule, periodStart, periodEnd time.Time) (PayGradeRule, bool) {
	var best PayGradeRule
	found := false
	for _, r := range rules {
		if !covers(r.EffectiveFrom, r.EffectiveTo, periodStart, periodEnd) {
			continue
		}
		if !found || r.EffectiveFrom.After(best.EffectiveFrom) {
			best = r
			found = true
		}
	}
	return best, found
}

// Asuransi bisa lebih dari satu program (kesehatan, pensiun, dst); per nama
// program dipilih versi terbarunya.
func pickInsuranceRules(rules []InsuranceRule, periodStart, periodEnd time.Time) []InsuranceRule {
	byName := map[string]InsuranceRule{}
	var order []string
	for _, r := range rules {
		if !covers(r.EffectiveFrom, r.EffectiveTo, periodStart, periodEnd) {
			continue
		}
		cur, ok := byName[r.Name]
		if !ok {
			byName[r.Name] = r
			order = append(order, r.Name)
			continue
		}
		if r.EffectiveFrom.After(cur.EffectiveFrom) {
			byName[r.Name] = r
		}
	}

	picked := make([]InsuranceRule, 0, len(order))
	for _, name := range order {
		picked = append(picked, byName[name])
	}
	return picked
}

func (s *service) GetTaxRules(ctx context.Context, companyID string) ([]TaxRuleResponse, error) {
	rules, err := s.repo.ListAllTaxRules(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]TaxRuleResponse, 0, len(rules))
	for _, r := range rules {
		resp = append(resp, ToTaxRuleResponse(r))
	}
	return resp, nil
}

func (s *service) GetInsuranceRules(ctx context.Context, companyID string) ([]InsuranceRuleResponse, error) {
	rules, err := s.repo.ListAllInsuranceRules(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]InsuranceRuleResponse, 0, len(rules))
	for _, r := range rules {
		resp = append(resp, ToInsuranceRuleResponse(r))
	}
	return resp, nil
}

func (s *service) GetPayGradeRules(ctx context.Context, companyID string) ([]PayGradeRuleResponse, error) {
	rules, err := s.repo.ListAllPayGradeRules(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]PayGradeRuleResponse, 0, len(rules))
	for _, r := range rules {
		resp = append(resp, ToPayGradeRuleResponse(r))
	}
	return resp, nil
}
