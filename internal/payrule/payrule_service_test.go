package payrule

import (
	"context"
	"testing"
	"time"

	"go-payroll/internal/employee"
	payruleerrors "go-payroll/internal/payrule/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeRuleRepo struct {
	taxRules       []TaxRule
	insuranceRules []InsuranceRule
	payGradeRules  []PayGradeRule
	err            error
}

func (f *fakeRuleRepo) ListTaxRules(ctx context.Context, companyID, jurisdiction string) ([]TaxRule, error) {
	return f.taxRules, f.err
}

func (f *fakeRuleRepo) ListInsuranceRules(ctx context.Context, companyID, jurisdiction string) ([]InsuranceRule, error) {
	return f.insuranceRules, f.err
}

func (f *fakeRuleRepo) ListPayGradeRules(ctx context.Context, companyID, grade string) ([]PayGradeRule, error) {
	return f.payGradeRules, f.err
}

func (f *fakeRuleRepo) ListAllTaxRules(ctx context.Context, companyID string) ([]TaxRule, error) {
	return f.taxRules, f.err
}

func (f *fakeRuleRepo) ListAllInsuranceRules(ctx context.Context, companyID string) ([]InsuranceRule, error) {
	return f.insuranceRules, f.err
}

func (f *fakeRuleRepo) ListAllPayGradeRules(ctx context.Context, companyID string) ([]PayGradeRule, error) {
	return f.payGradeRules, f.err
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func testSnapshot() employee.Snapshot {
	return employee.Snapshot{
		Jurisdiction: "ID-JKT",
		PayGrade:     "G3",
	}
}

func baseRepo() *fakeRuleRepo {
	return &fakeRuleRepo{
		taxRules: []TaxRule{
			{
				Name:          "PPh21 2025",
				Mode:          TaxModeProgressive,
				EffectiveFrom: date(2025, 1, 1),
				Brackets: []TaxBracket{
					{LowerBound: 0, RatePercent: decimal.NewFromInt(5)},
				},
			},
		},
		insuranceRules: []InsuranceRule{
			{
				Name:          "BPJS Kesehatan",
				Kind:          InsuranceKindPercent,
				RatePercent:   decimal.NewFromInt(1),
				EffectiveFrom: date(2025, 1, 1),
			},
		},
		payGradeRules: []PayGradeRule{
			{
				Grade:               "G3",
				StandardWorkingDays: 20,
				EffectiveFrom:       date(2025, 1, 1),
			},
		},
	}
}

func TestResolve_Success(t *testing.T) {
	svc := NewService(baseRepo())

	bundle, err := svc.Resolve(context.Background(), "company-1", testSnapshot(), date(2025, 3, 1), date(2025, 3, 31))

	assert.NoError(t, err)
	assert.Equal(t, "PPh21 2025", bundle.Tax.Name)
	assert.Len(t, bundle.Insurances, 1)
	assert.Equal(t, 20, bundle.PayGrade.StandardWorkingDays)
}

func TestResolve_OverlappingVersionsLatestWins(t *testing.T) {
	repo := baseRepo()
	repo.taxRules = []TaxRule{
		{Name: "PPh21 2024", EffectiveFrom: date(2024, 1, 1)},
		{Name: "PPh21 2025", EffectiveFrom: date(2025, 1, 1)},
	}
	svc := NewService(repo)

	bundle, err := svc.Resolve(context.Background(), "company-1", testSnapshot(), date(2025, 3, 1), date(2025, 3, 31))

	assert.NoError(t, err)
	assert.Equal(t, "PPh21 2025", bundle.Tax.Name)
}

func TestResolve_ExpiredRuleNotApplicable(t *testing.T) {
	repo := baseRepo()
	repo.taxRules = []TaxRule{
		{Name: "PPh21 2024", EffectiveFrom: date(2024, 1, 1), EffectiveTo: datePtr(2024, 12, 31)},
	}
	svc := NewService(repo)

	_, err := svc.Resolve(context.Background(), "company-1", testSnapshot(), date(2025, 3, 1), date(2025, 3, 31))

	assert.ErrorIs(t, err, payruleerrors.ErrTaxRuleMissing)
}

func TestResolve_MissingInsuranceRule(t *testing.T) {
	repo := baseRepo()
	repo.insuranceRules = nil
	svc := NewService(repo)

	_, err := svc.Resolve(context.Background(), "company-1", testSnapshot(), date(2025, 3, 1), date(2025, 3, 31))

	assert.ErrorIs(t, err, payruleerrors.ErrInsuranceRuleMissing)
}

func TestResolve_MissingPayGradeRule(t *testing.T) {
	repo := baseRepo()
	repo.payGradeRules = nil
	svc := NewService(repo)

	_, err := svc.Resolve(context.Background(), "company-1", testSnapshot(), date(2025, 3, 1), date(2025, 3, 31))

	assert.ErrorIs(t, err, payruleerrors.ErrPayGradeRuleMissing)
}

func TestResolve_MultipleInsuranceProgramsLatestPerName(t *testing.T) {
	repo := baseRepo()
	repo.insuranceRules = []InsuranceRule{
		{Name: "BPJS Kesehatan", RatePercent: decimal.NewFromInt(1), EffectiveFrom: date(2024, 6, 1)},
		{Name: "BPJS Kesehatan", RatePercent: decimal.NewFromInt(2), EffectiveFrom: date(2025, 1, 1)},
		{Name: "BPJS Ketenagakerjaan", RatePercent: decimal.NewFromInt(3), EffectiveFrom: date(2025, 1, 1)},
	}
	svc := NewService(repo)

	bundle, err := svc.Resolve(context.Background(), "company-1", testSnapshot(), date(2025, 3, 1), date(2025, 3, 31))

	assert.NoError(t, err)
	assert.Len(t, bundle.Insurances, 2)
	for _, ins := range bundle.Insurances {
		if ins.Name == "BPJS Kesehatan" {
			assert.True(t, ins.RatePercent.Equal(decimal.NewFromInt(2)))
		}
	}
}

func TestResolve_StaleRuleFlagged(t *testing.T) {
	repo := baseRepo()
	repo.taxRules = []TaxRule{
		{Name: "PPh21 Lama", EffectiveFrom: date(2024, 1, 1)},
	}
	svc := NewService(repo)

	bundle, err := svc.Resolve(context.Background(), "company-1", testSnapshot(), date(2025, 3, 1), date(2025, 3, 31))

	assert.NoError(t, err)
	assert.Contains(t, bundle.StaleRules, "PPh21 Lama")
}

func TestResolve_FreshRuleNotFlagged(t *testing.T) {
	svc := NewService(baseRepo())

	bundle, err := svc.Resolve(context.Background(), "company-1", testSnapshot(), date(2025, 1, 1), date(2025, 1, 31))

	assert.NoError(t, err)
	assert.Empty(t, bundle.StaleRules)
}
