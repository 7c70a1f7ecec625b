package paysliperrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrPayslipNotFound = apperror.New(
		apperror.CodeNotFound,
		"payslip not found",
		http.StatusNotFound,
	)
	ErrRunNotLocked = apperror.New(
		apperror.CodeInvalidState,
		"payslips can only be generated for a locked run",
		http.StatusConflict,
	)
	ErrAlreadyPaid = apperror.New(
		apperror.CodeInvalidState,
		"payslip is already marked as paid",
		http.StatusConflict,
	)
	ErrAlreadyDisputed = apperror.New(
		apperror.CodeInvalidState,
		"payslip is already under dispute",
		http.StatusConflict,
	)
	ErrDisputeReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"dispute reason is required",
		http.StatusBadRequest,
	)
	ErrPdfNotAvailable = apperror.New(
		apperror.CodeNotFound,
		"payslip document has not been rendered",
		http.StatusNotFound,
	)
)
