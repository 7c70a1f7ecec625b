package payrollrun

import (
	"context"
	"errors"

	payrollrunerrors "go-payroll/internal/payrollrun/errors"
	"go-payroll/internal/shared/apperror"

	"gorm.io/gorm"
)

// Ledger adalah jembatan bagi resolusi irregularity untuk menyentuh angka run
// tanpa import balik ke service run. Penyesuaian satu line selalu diikuti
// kalkulasi ulang total detail dan total run dari bawah ke atas.
type Ledger struct {
	repo Repository
}

func NewLedger(repo Repository) *Ledger {
	return &Ledger{repo: repo}
}

func (l *Ledger) RunLocked(ctx context.Context, companyID, runID string) (bool, error) {
	run, err := l.repo.FindByIDAndCompany(ctx, companyID, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, payrollrunerrors.ErrRunNotFound
		}
		return false, err
	}
	return run.Status == StatusLocked, nil
}

func (l *Ledger) ApplyAdjustment(
	ctx context.Context,
	tx *gorm.DB,
	companyID, runID, detailID, lineKind string,
	adjustedValue int64,
) error {
	qtx := l.repo.WithTx(tx)

	run, err := qtx.FindByIDAndCompany(ctx, companyID, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return payrollrunerrors.ErrRunNotFound
		}
		return err
	}

	detail, err := qtx.FindDetailByID(ctx, runID, detailID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return payrollrunerrors.ErrDetailNotFound
		}
		return err
	}

	adjusted := false
	for i := range detail.Items {
		if detail.Items[i].Kind != lineKind {
			continue
		}
		if err := qtx.UpdateItemAmount(ctx, detail.Items[i].ID.String(), adjustedValue); err != nil {
			return err
		}
		detail.Items[i].Amount = adjustedValue
		adjusted = true
		break
	}
	if !adjusted {
		return payrollrunerrors.ErrLineNotAdjustable
	}

	var gross, deductions int64
	for _, item := range detail.Items {
		switch item.Category {
		case CategoryEarning:
			gross += item.Amount
		case CategoryDeduction:
			deductions += item.Amount
		}
	}
	detail.TotalGross = gross
	detail.TotalDeductions = deductions
	detail.NetPay = gross - deductions
	if err := qtx.UpdateDetailTotals(ctx, detail); err != nil {
		return err
	}

	totals, err := qtx.SumDetailTotals(ctx, runID)
	if err != nil {
		return err
	}
	run.TotalGross = totals.TotalGross
	run.TotalDeductions = totals.TotalDeductions
	run.TotalNetPay = totals.TotalNetPay

	ok, err := qtx.UpdateWithVersion(ctx, run)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.ErrStateConflict
	}
	return nil
}
