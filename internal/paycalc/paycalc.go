package paycalc

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-payroll/internal/employee"
	"go-payroll/internal/payrule"
	"go-payroll/internal/periodfacts"
	"go-payroll/internal/shared/money"
)

// Kalkulator murni: tanpa I/O, deterministik. Semua data sudah diambil oleh
// orkestrator sebelum Compute dipanggil, jadi hasil bisa direproduksi dari
// input yang sama.

const (
	KindBaseSalary         = "BASE_SALARY"
	KindAllowance          = "ALLOWANCE"
	KindSigningBonus       = "SIGNING_BONUS"
	KindTerminationBenefit = "TERMINATION_BENEFIT"
	KindRefund             = "REFUND"

	KindTax         = "TAX"
	KindInsurance   = "INSURANCE"
	KindPenalty     = "PENALTY"
	KindUnpaidLeave = "UNPAID_LEAVE"
)

// ExtraLine adalah nominal yang sudah disetujui di sub-ledger (signing bonus,
// benefit terminasi, refund) dan dibawa masuk ke run oleh orkestrator.
type ExtraLine struct {
	SourceID uuid.UUID
	Name     string
	Amount   int64 // signed; benefit terminasi boleh negatif (clawback)
}

type Line struct {
	Kind     string
	Name     string
	Amount   int64
	RuleID   *uuid.UUID // referensi aturan untuk line pajak/asuransi
	SourceID *uuid.UUID // referensi baris sub-ledger untuk bonus/benefit/refund
}

type Breakdown struct {
	Earnings        []Line
	Deductions      []Line
	TotalGross      int64
	TotalDeductions int64
	NetPay          int64
}

type Input struct {
	Snapshot            employee.Snapshot
	Bundle              payrule.Bundle
	Facts               periodfacts.Facts
	SigningBonuses      []ExtraLine
	TerminationBenefits []ExtraLine
	Refunds             []ExtraLine
	Period              periodfacts.Period
}

// Compute menghasilkan rincian gaji satu karyawan untuk satu periode.
// Setiap line dibulatkan half-up SEKALI, lalu total dijumlahkan dari line yang
// sudah bulat. Net pay negatif diteruskan apa adanya, tidak di-clamp; detektor
// yang memutuskan tindak lanjutnya.
func Compute(in Input) Breakdown {
	var bd Breakdown

	periodDays := dayCount(in.Period)
	activeDays := in.Snapshot.ActiveDaysInPeriod(in.Period.Start, in.Period.End)

	base := money.ProrateByDays(in.Snapshot.BaseSalary, activeDays, periodDays)
	bd.Earnings = append(bd.Earnings, Line{Kind: KindBaseSalary, Name: "Base Salary", Amount: base})

	for _, a := range in.Bundle.PayGrade.Allowances {
		bd.Earnings = append(bd.Earnings, Line{Kind: KindAllowance, Name: a.Name, Amount: a.Amount})
	}

	for _, b := range in.SigningBonuses {
		src := b.SourceID
		bd.Earnings = append(bd.Earnings, Line{Kind: KindSigningBonus, Name: b.Name, Amount: b.Amount, SourceID: &src})
	}
	for _, b := range in.TerminationBenefits {
		src := b.SourceID
		bd.Earnings = append(bd.Earnings, Line{Kind: KindTerminationBenefit, Name: b.Name, Amount: b.Amount, SourceID: &src})
	}
	for _, r := range in.Refunds {
		src := r.SourceID
		bd.Earnings = append(bd.Earnings, Line{Kind: KindRefund, Name: r.Name, Amount: r.Amount, SourceID: &src})
	}

	for _, l := range bd.Earnings {
		bd.TotalGross += l.Amount
	}

	taxable := bd.TotalGross

	// Tanpa aturan pajak ter-resolve (jalur best-effort saat konfigurasi
	// hilang) tidak ada line pajak; jangan tulis line yang menunjuk rule nil.
	if in.Bundle.Tax.ID != uuid.Nil {
		taxRuleID := in.Bundle.Tax.ID
		bd.Deductions = append(bd.Deductions, Line{
			Kind:   KindTax,
			Name:   in.Bundle.Tax.Name,
			Amount: computeTax(in.Bundle.Tax, taxable),
			RuleID: &taxRuleID,
		})
	}

	for _, ins := range in.Bundle.Insurances {
		ruleID := ins.ID
		var amount int64
		switch ins.Kind {
		case payrule.InsuranceKindFixed:
			amount = ins.FixedAmount
		default:
			amount = money.Percent(taxable, ins.RatePercent)
		}
		bd.Deductions = append(bd.Deductions, Line{
			Kind:   KindInsurance,
			Name:   ins.Name,
			Amount: amount,
			RuleID: &ruleID,
		})
	}

	for _, p := range in.Facts.Penalties {
		bd.Deductions = append(bd.Deductions, Line{Kind: KindPenalty, Name: p.Name, Amount: p.Amount})
	}

	if in.Facts.UnpaidLeaveDays > 0 {
		amount := money.UnpaidLeaveDeduction(
			in.Snapshot.BaseSalary,
			in.Facts.UnpaidLeaveDays,
			in.Bundle.PayGrade.StandardWorkingDays,
		)
		bd.Deductions = append(bd.Deductions, Line{Kind: KindUnpaidLeave, Name: "Unpaid Leave", Amount: amount})
	}

	for _, l := range bd.Deductions {
		bd.TotalDeductions += l.Amount
	}

	bd.NetPay = bd.TotalGross - bd.TotalDeductions
	return bd
}

func dayCount(p periodfacts.Period) int {
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

// computeTax mengikuti semantik bracket yang terkonfigurasi: PROGRESSIVE
// dihitung marginal per bracket, FLAT memakai tarif bracket tempat taxable
// jatuh untuk seluruh taxable. Hasil dibulatkan sekali untuk satu line.
func computeTax(rule payrule.TaxRule, taxable int64) int64 {
	if taxable <= 0 || len(rule.Brackets) == 0 {
		return 0
	}

	if rule.Mode == payrule.TaxModeFlat {
		for _, b := range rule.Brackets {
			if taxable < b.LowerBound {
				continue
			}
			if b.UpperBound != nil && taxable > *b.UpperBound {
				continue
			}
			return money.Percent(taxable, b.RatePercent)
		}
		// Di atas bracket tertinggi yang punya batas atas: pakai tarif terakhir.
		last := rule.Brackets[len(rule.Brackets)-1]
		return money.Percent(taxable, last.RatePercent)
	}

	total := decimal.Zero
	for _, b := range rule.Brackets {
		if taxable <= b.LowerBound {
			continue
		}
		upper := taxable
		if b.UpperBound != nil && *b.UpperBound < taxable {
			upper = *b.UpperBound
		}
		portion := upper - b.LowerBound
		if portion <= 0 {
			continue
		}
		total = total.Add(
			money.FromMinorUnits(portion).
				Mul(b.RatePercent).
				Div(decimal.NewFromInt(100)),
		)
	}
	return money.ToMinorUnits(total)
}
