package money_test

import (
	"testing"

	"go-payroll/internal/shared/money"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToMinorUnits_RoundHalfUp(t *testing.T) {
	assert.Equal(t, int64(251), money.ToMinorUnits(decimal.RequireFromString("2.505")))
	assert.Equal(t, int64(250), money.ToMinorUnits(decimal.RequireFromString("2.504")))
	// half-up, not half-away-from-zero
	assert.Equal(t, int64(-250), money.ToMinorUnits(decimal.RequireFromString("-2.505")))
	assert.Equal(t, int64(-251), money.ToMinorUnits(decimal.RequireFromString("-2.506")))
}

func TestUnpaidLeaveDeduction(t *testing.T) {
	// 2 hari x (3000.00 / 20) = 300.00
	got := money.UnpaidLeaveDeduction(300000, 2, 20)
	assert.Equal(t, int64(30000), got)
}

func TestUnpaidLeaveDeduction_NonTerminatingRate(t *testing.T) {
	// 1000.00 / 3 hari kerja tidak terminating; hasil line tetap dibulatkan sekali
	got := money.UnpaidLeaveDeduction(100000, 1, 3)
	assert.Equal(t, int64(33333), got)
}

func TestProrateByDays(t *testing.T) {
	assert.Equal(t, int64(150000), money.ProrateByDays(300000, 14, 28))
	assert.Equal(t, int64(300000), money.ProrateByDays(300000, 28, 28))
	assert.Equal(t, int64(0), money.ProrateByDays(300000, 0, 28))
	// join mid-period, non-terminating ratio rounds half-up
	assert.Equal(t, int64(96774), money.ProrateByDays(300000, 10, 31))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, int64(7500), money.Percent(300000, decimal.RequireFromString("2.5")))
}
