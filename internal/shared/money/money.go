package money

import "github.com/shopspring/decimal"

// Semua nominal disimpan dalam satuan terkecil mata uang (mis: sen) sebagai
// int64 untuk hindari floating error. Aritmatika berjalan di decimal dan
// setiap line item dibulatkan half-up ke satuan terkecil SEBELUM dijumlahkan,
// supaya total yang tampil selalu sama dengan penjumlahan barisnya.

const minorUnitExponent = 2

var minorUnitFactor = decimal.New(1, minorUnitExponent)

// FromMinorUnits converts a stored amount into its decimal value.
func FromMinorUnits(v int64) decimal.Decimal {
	return decimal.New(v, -minorUnitExponent)
}

// ToMinorUnits rounds half-up to the currency's minor unit.
// Half-up, bukan half-away-from-zero: -2.505 menjadi -2.50, bukan -2.51.
func ToMinorUnits(d decimal.Decimal) int64 {
	scaled := d.Mul(minorUnitFactor)
	half := decimal.New(5, -1)
	return scaled.Add(half).Floor().IntPart()
}

// MulRounded multiplies a stored amount by a decimal factor and rounds the
// result back to minor units.
func MulRounded(amount int64, factor decimal.Decimal) int64 {
	return ToMinorUnits(FromMinorUnits(amount).Mul(factor))
}

// Percent applies pct (e.g. 2.5 for 2.5%) to a stored amount.
func Percent(amount int64, pct decimal.Decimal) int64 {
	return ToMinorUnits(FromMinorUnits(amount).Mul(pct).Div(decimal.NewFromInt(100)))
}

// ProrateByDays scales an amount by activeDays/periodDays.
func ProrateByDays(amount int64, activeDays, periodDays int) int64 {
	if periodDays <= 0 || activeDays >= periodDays {
		return amount
	}
	if activeDays <= 0 {
		return 0
	}
	ratio := decimal.NewFromInt(int64(activeDays)).Div(decimal.NewFromInt(int64(periodDays)))
	return MulRounded(amount, ratio)
}

// DailyRate returns baseSalary / standardWorkingDays as an unrounded decimal.
// Pembulatan dilakukan di line item pemakainya, bukan di sini.
func DailyRate(baseSalary int64, standardWorkingDays int) decimal.Decimal {
	if standardWorkingDays <= 0 {
		return decimal.Zero
	}
	return FromMinorUnits(baseSalary).Div(decimal.NewFromInt(int64(standardWorkingDays)))
}

// UnpaidLeaveDeduction = unpaidDays x dailyRate, rounded to minor units.
func UnpaidLeaveDeduction(baseSalary int64, unpaidDays, standardWorkingDays int) int64 {
	if unpaidDays <= 0 {
		return 0
	}
	rate := DailyRate(baseSalary, standardWorkingDays)
	return ToMinorUnits(rate.Mul(decimal.NewFromInt(int64(unpaidDays))))
}
