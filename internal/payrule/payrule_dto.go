package payrule

import "time"

type TaxBracketResponse struct {
	LowerBound  int64  `json:"lower_bound"`
	UpperBound  *int64 `json:"upper_bound,omitempty"`
	RatePercent string `json:"rate_percent"`
}

type TaxRuleResponse struct {
	ID            string               `json:"id"`
	Jurisdiction  string               `json:"jurisdiction"`
	Name          string               `json:"name"`
	Mode          string               `json:"mode"`
	EffectiveFrom string               `json:"effective_from"`
	EffectiveTo   *string              `json:"effective_to,omitempty"`
	Brackets      []TaxBracketResponse `json:"brackets"`
}

type InsuranceRuleResponse struct {
	ID            string  `json:"id"`
	Jurisdiction  string  `json:"jurisdiction"`
	Name          string  `json:"name"`
	Kind          string  `json:"kind"`
	RatePercent   string  `json:"rate_percent"`
	FixedAmount   int64   `json:"fixed_amount"`
	EffectiveFrom string  `json:"effective_from"`
	EffectiveTo   *string `json:"effective_to,omitempty"`
}

type AllowanceRuleResponse struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

type PayGradeRuleResponse struct {
	ID                  string                  `json:"id"`
	Grade               string                  `json:"grade"`
	StandardWorkingDays int                     `json:"standard_working_days"`
	EffectiveFrom       string                  `json:"effective_from"`
	EffectiveTo         *string                 `json:"effective_to,omitempty"`
	Allowances          []AllowanceRuleResponse `json:"allowances"`
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

func ToTaxRuleResponse(r TaxRule) TaxRuleResponse {
	brackets := make([]TaxBracketResponse, 0, len(r.Brackets))
	for _, b := range r.Brackets {
		brackets = append(brackets, TaxBracketResponse{
			LowerBound:  b.LowerBound,
			UpperBound:  b.UpperBound,
			RatePercent: b.RatePercent.String(),
		})
	}
	return TaxRuleResponse{
		ID:            r.ID.String(),
		Jurisdiction:  r.Jurisdiction,
		Name:          r.Name,
		Mode:          r.Mode,
		EffectiveFrom: formatDate(r.EffectiveFrom),
		EffectiveTo:   formatDatePtr(r.EffectiveTo),
		Brackets:      brackets,
	}
}

func ToInsuranceRuleResponse(r InsuranceRule) InsuranceRuleResponse {
	return InsuranceRuleResponse{
		ID:            r.ID.String(),
		Jurisdiction:  r.Jurisdiction,
		Name:          r.Name,
		Kind:          r.Kind,
		RatePercent:   r.RatePercent.String(),
		FixedAmount:   r.FixedAmount,
		EffectiveFrom: formatDate(r.EffectiveFrom),
		EffectiveTo:   formatDatePtr(r.EffectiveTo),
	}
}

func ToPayGradeRuleResponse(r PayGradeRule) PayGradeRuleResponse {
	allowances := make([]AllowanceRuleResponse, 0, len(r.Allowances))
	for _, a := range r.Allowances {
		allowances = append(allowances, AllowanceRuleResponse{Name: a.Name, Amount: a.Amount})
	}
	return PayGradeRuleResponse{
		ID:                  r.ID.String(),
		Grade:               r.Grade,
		StandardWorkingDays: r.StandardWorkingDays,
		EffectiveFrom:       formatDate(r.EffectiveFrom),
		EffectiveTo:         formatDatePtr(r.EffectiveTo),
		Allowances:          allowances,
	}
}
