package terminationbenefiterrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrBenefitNotFound = apperror.New(
		apperror.CodeNotFound,
		"termination benefit not found",
		http.StatusNotFound,
	)
	ErrEditAfterApproval = apperror.New(
		apperror.CodeInvalidState,
		"an approved termination benefit can no longer be edited",
		http.StatusConflict,
	)
	ErrDuplicateDisbursement = apperror.New(
		apperror.CodeConflict,
		"termination benefit is already approved; approving again would double-pay",
		http.StatusConflict,
	)
	ErrAlreadyDecided = apperror.New(
		apperror.CodeInvalidState,
		"termination benefit has already been decided",
		http.StatusConflict,
	)
	ErrRejectReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reject reason is required",
		http.StatusBadRequest,
	)
	ErrZeroAmount = apperror.New(
		apperror.CodeInvalidInput,
		"amount must not be zero",
		http.StatusBadRequest,
	)
	ErrAlreadyDisbursed = apperror.New(
		apperror.CodeConflict,
		"termination benefit has already been disbursed through a payroll run",
		http.StatusConflict,
	)
)
