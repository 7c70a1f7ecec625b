package irregularityerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrIrregularityNotFound = apperror.New(
		apperror.CodeNotFound,
		"irregularity not found",
		http.StatusNotFound,
	)
	ErrEscalationReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"escalation reason is required",
		http.StatusBadRequest,
	)
	ErrResolutionNotesRequired = apperror.New(
		apperror.CodeInvalidInput,
		"resolution notes are required",
		http.StatusBadRequest,
	)
	ErrInvalidResolutionAction = apperror.New(
		apperror.CodeInvalidInput,
		"resolution action must be APPROVED, REJECTED, EXCLUDED or ADJUSTED",
		http.StatusBadRequest,
	)
	ErrAdjustedValueRequired = apperror.New(
		apperror.CodeInvalidInput,
		"adjusted value is required for an ADJUSTED resolution",
		http.StatusBadRequest,
	)
	ErrNotAdjustable = apperror.New(
		apperror.CodeInvalidInput,
		"irregularity does not reference an adjustable detail line",
		http.StatusBadRequest,
	)
	ErrAlreadyTerminal = apperror.New(
		apperror.CodeInvalidState,
		"irregularity is already resolved or rejected",
		http.StatusConflict,
	)
	ErrNotEscalatable = apperror.New(
		apperror.CodeInvalidState,
		"only a pending irregularity can be escalated",
		http.StatusConflict,
	)
	ErrMustEscalateFirst = apperror.New(
		apperror.CodeInvalidState,
		"high and critical irregularities must be escalated before resolution",
		http.StatusConflict,
	)
	ErrRunLocked = apperror.New(
		apperror.CodeConflict,
		"the owning payroll run is locked",
		http.StatusConflict,
	)
)
