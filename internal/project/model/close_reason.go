package model

// CloseReason is a close request code selecting the terminal state.
type CloseReason string

// Close reason codes accepted by the close operation.
const (
	CloseCompleted            CloseReason = "completed"
	ClosePartiallyCompleted   CloseReason = "partially_completed"
	CloseNotCompleted         CloseReason = "not_completed"
	CloseUnpaid               CloseReason = "unpaid"
	CloseNoBudget             CloseReason = "cancelled_no_budget"
	CloseNoAgreement          CloseReason = "cancelled_no_agreement"
	CloseNotCompletedByMember CloseReason = "not_completed_by_member"

	// CloseReportMember is recognized but never closes the project: reporting
	// a non-performing participant routes to the remove-participant
	// operation instead.
	CloseReportMember CloseReason = "report_member"
)

// TargetState returns the terminal state the reason code closes into.
func (r CloseReason) TargetState() (State, bool) {
	switch r {
	case CloseCompleted:
		return StateCompleted, true
	case ClosePartiallyCompleted:
		return StatePartiallyCompleted, true
	case CloseNotCompleted:
		return StateNotCompleted, true
	case CloseUnpaid:
		return StateUnpaid, true
	case CloseNoBudget:
		return StateCancelledNoBudget, true
	case CloseNoAgreement:
		return StateCancelledNoAgreement, true
	case CloseNotCompletedByMember:
		return StateNotCompletedByMember, true
	}
	return "", false
}

// RequiresJustification reports whether the code needs justification text.
func (r CloseReason) RequiresJustification() bool {
	return r != CloseCompleted
}
