package signingbonuserrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrBonusNotFound = apperror.New(
		apperror.CodeNotFound,
		"signing bonus not found",
		http.StatusNotFound,
	)
	ErrEditAfterApproval = apperror.New(
		apperror.CodeInvalidState,
		"an approved signing bonus can no longer be edited",
		http.StatusConflict,
	)
	ErrDuplicateDisbursement = apperror.New(
		apperror.CodeConflict,
		"signing bonus is already approved; approving again would double-pay",
		http.StatusConflict,
	)
	ErrAlreadyDecided = apperror.New(
		apperror.CodeInvalidState,
		"signing bonus has already been decided",
		http.StatusConflict,
	)
	ErrRejectReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reject reason is required",
		http.StatusBadRequest,
	)
	ErrAlreadyDisbursed = apperror.New(
		apperror.CodeConflict,
		"signing bonus has already been disbursed through a payroll run",
		http.StatusConflict,
	)
)
