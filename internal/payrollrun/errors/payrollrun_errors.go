package payrollrunerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrRunNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll run not found",
		http.StatusNotFound,
	)
	ErrDetailNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll run detail not found",
		http.StatusNotFound,
	)
	ErrPeriodInvalid = apperror.New(
		apperror.CodeInvalidInput,
		"period end must not be before period start",
		http.StatusBadRequest,
	)
	ErrEmptyPopulation = apperror.New(
		apperror.CodeInvalidInput,
		"no active employees match the run scope and period",
		http.StatusBadRequest,
	)
	ErrEditOnlyWhenEditable = apperror.New(
		apperror.CodeInvalidState,
		"payroll run can only be edited in DRAFT or REJECTED state",
		http.StatusConflict,
	)
	ErrSubmitNotAllowed = apperror.New(
		apperror.CodeInvalidState,
		"payroll run cannot be submitted from its current state",
		http.StatusConflict,
	)
	ErrNotPendingManager = apperror.New(
		apperror.CodeInvalidState,
		"payroll run is not waiting for manager approval",
		http.StatusConflict,
	)
	ErrNotPendingFinance = apperror.New(
		apperror.CodeInvalidState,
		"payroll run is not waiting for finance approval",
		http.StatusConflict,
	)
	ErrRejectNotAllowed = apperror.New(
		apperror.CodeInvalidState,
		"only a run waiting for approval can be rejected",
		http.StatusConflict,
	)
	ErrNotLocked = apperror.New(
		apperror.CodeInvalidState,
		"only a locked run can be unfrozen",
		http.StatusConflict,
	)
	ErrDeleteOnlyDraft = apperror.New(
		apperror.CodeInvalidState,
		"only a draft run can be deleted",
		http.StatusConflict,
	)
	ErrRejectReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reject reason is required",
		http.StatusBadRequest,
	)
	ErrUnfreezeReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"unfreeze reason is required",
		http.StatusBadRequest,
	)

	// Guard approval: manager tidak boleh approve dengan CRITICAL terbuka,
	// finance tidak boleh mengunci dengan HIGH/CRITICAL terbuka.
	ErrUnresolvedCritical = apperror.New(
		apperror.CodeApprovalGuard,
		"run has unresolved critical irregularities",
		http.StatusConflict,
	)
	ErrBlockingIrregularities = apperror.New(
		apperror.CodeApprovalGuard,
		"run cannot be locked while high or critical irregularities remain open",
		http.StatusConflict,
	)
	ErrDuplicateDisbursement = apperror.New(
		apperror.CodeConflict,
		"a bonus or benefit in this run was already disbursed elsewhere",
		http.StatusConflict,
	)
	ErrLineNotAdjustable = apperror.New(
		apperror.CodeInvalidInput,
		"detail has no line of the requested kind to adjust",
		http.StatusBadRequest,
	)
)
