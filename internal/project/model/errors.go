package model

import "errors"

var (
	// ErrProjectNotFound indicates that the requested project does not exist
	// or is not visible to the caller.
	ErrProjectNotFound = errors.New("project not found")
	// ErrForbidden indicates a role or ownership violation.
	ErrForbidden = errors.New("caller is not allowed to perform this operation")
	// ErrInvalidStateTransition indicates the project or bid state does not
	// permit the requested action.
	ErrInvalidStateTransition = errors.New("illegal state transition")
	// ErrInvalidInput indicates a missing or malformed request field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrMissingJustification indicates the close reason requires
	// justification text.
	ErrMissingJustification = errors.New("justification text is required for this close reason")
	// ErrReportMemberNotClose indicates the report_member code was sent to
	// the close operation instead of remove-participant.
	ErrReportMemberNotClose = errors.New("reporting a participant uses the remove-participant operation, not close")
	// ErrInvalidBudget indicates budget_min exceeds budget_max or an amount
	// is not positive.
	ErrInvalidBudget = errors.New("budget range is invalid")
	// ErrUnavailable indicates a transient persistence failure that survived
	// the internal retry.
	ErrUnavailable = errors.New("storage temporarily unavailable")
)
