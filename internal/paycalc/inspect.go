package paycalc

import (
	"fmt"

	"go-payroll/internal/payrule"
)

const (
	SeverityInfo     = "INFO"
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

// Finding adalah temuan detektor atas satu breakdown. Sifatnya metadata
// advisory/blocking; detektor tidak pernah mengubah breakdown yang diperiksa.
type Finding struct {
	Severity    string
	Description string
	// LineKind terisi kalau temuan menunjuk satu jenis line tertentu, supaya
	// resolusi ADJUSTED tahu line mana yang boleh dikoreksi.
	LineKind string
}

// Inspect memindai hasil kalkulasi terhadap aturan yang dipakai menghitungnya.
func Inspect(bd Breakdown, bundle payrule.Bundle) []Finding {
	var findings []Finding

	if bd.NetPay < 0 {
		findings = append(findings, Finding{
			Severity:    SeverityCritical,
			Description: fmt.Sprintf("net pay is negative (%d)", bd.NetPay),
		})
	}

	for kind, total := range deductionTotalsByKind(bd) {
		if total > bd.TotalGross {
			findings = append(findings, Finding{
				Severity:    SeverityHigh,
				Description: fmt.Sprintf("%s deductions (%d) exceed gross earnings (%d)", kind, total, bd.TotalGross),
				LineKind:    kind,
			})
		}
	}

	for _, name := range bundle.StaleRules {
		findings = append(findings, Finding{
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("rule %q is older than one full pay cycle", name),
		})
	}

	findings = append(findings, zeroLineFindings(bd, bundle)...)

	return findings
}

func deductionTotalsByKind(bd Breakdown) map[string]int64 {
	totals := map[string]int64{}
	for _, l := range bd.Deductions {
		totals[l.Kind] += l.Amount
	}
	return totals
}

// Line bernilai nol padahal aturannya non-nol biasanya tanda data master atau
// konfigurasi belum lengkap. Advisory saja (LOW).
func zeroLineFindings(bd Breakdown, bundle payrule.Bundle) []Finding {
	var findings []Finding

	taxExpected := bd.TotalGross > 0 && hasNonZeroBracket(bundle.Tax)
	insuranceRates := map[string]bool{}
	for _, ins := range bundle.Insurances {
		nonZero := ins.Kind == payrule.InsuranceKindFixed && ins.FixedAmount > 0 ||
			ins.Kind == payrule.InsuranceKindPercent && !ins.RatePercent.IsZero() && bd.TotalGross > 0
		insuranceRates[ins.Name] = nonZero
	}

	for _, l := range bd.Deductions {
		if l.Amount != 0 {
			continue
		}
		switch l.Kind {
		case KindTax:
			if taxExpected {
				findings = append(findings, Finding{
					Severity:    SeverityLow,
					Description: fmt.Sprintf("tax line %q is zero while a non-zero rule applies", l.Name),
					LineKind:    KindTax,
				})
			}
		case KindInsurance:
			if insuranceRates[l.Name] {
				findings = append(findings, Finding{
					Severity:    SeverityLow,
					Description: fmt.Sprintf("insurance line %q is zero while a non-zero rule applies", l.Name),
					LineKind:    KindInsurance,
				})
			}
		}
	}

	for _, l := range bd.Earnings {
		if l.Kind == KindBaseSalary && l.Amount == 0 {
			findings = append(findings, Finding{
				Severity:    SeverityLow,
				Description: "base salary line is zero",
				LineKind:    KindBaseSalary,
			})
		}
	}

	return findings
}

func hasNonZeroBracket(rule payrule.TaxRule) bool {
	for _, b := range rule.Brackets {
		if !b.RatePercent.IsZero() {
			return true
		}
	}
	return false
}
