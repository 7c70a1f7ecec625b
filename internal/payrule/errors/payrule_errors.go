package payruleerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

// Konfigurasi yang hilang TIDAK boleh di-default-kan ke nol; pemanggil wajib
// mengubahnya jadi irregularity CRITICAL pada detail karyawan terkait.
var (
	ErrTaxRuleMissing = apperror.New(
		apperror.CodeConfigMissing,
		"no applicable tax rule for jurisdiction and period",
		http.StatusUnprocessableEntity,
	)
	ErrInsuranceRuleMissing = apperror.New(
		apperror.CodeConfigMissing,
		"no applicable insurance rule for jurisdiction and period",
		http.StatusUnprocessableEntity,
	)
	ErrPayGradeRuleMissing = apperror.New(
		apperror.CodeConfigMissing,
		"no applicable pay grade rule for grade and period",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidJurisdiction = apperror.New(
		apperror.CodeInvalidInput,
		"jurisdiction is required",
		http.StatusBadRequest,
	)
)
