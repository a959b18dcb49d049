package model

import "github.com/teamlance/engagements/internal/auth"

// Operation is a project-scoped operation subject to the role guard.
type Operation string

// Guarded operations.
const (
	OpView              Operation = "view"
	OpPublish           Operation = "publish"
	OpPlan              Operation = "plan"
	OpStart             Operation = "start"
	OpAdvance           Operation = "advance"
	OpRepublish         Operation = "republish"
	OpCloseCall         Operation = "close_call"
	OpClose             Operation = "close"
	OpCancelEarly       Operation = "cancel_early"
	OpDelete            Operation = "delete"
	OpRemoveParticipant Operation = "remove_participant"
)

// CanPerform is the pure role/ownership guard for project operations. It
// checks who may act, not whether the current state permits the action;
// state legality is decided by the service inside the transaction.
func CanPerform(c auth.Caller, p *Project, op Operation) bool {
	switch op {
	case OpView:
		if c.IsAdmin() || p.IsOwner(c) {
			return true
		}
		// Member-owned private projects are hidden from everyone else.
		return !(p.OwnerKind == OwnerMember && p.Visibility == VisibilityPrivate)

	case OpPublish, OpPlan, OpStart, OpAdvance, OpRepublish, OpCloseCall, OpCancelEarly:
		return p.IsOwner(c)

	case OpClose, OpRemoveParticipant:
		return c.IsAdmin() || p.IsOwner(c)

	case OpDelete:
		if c.IsAdmin() {
			return true
		}
		return p.IsOwner(c) && p.State.IsCancelled()
	}
	return false
}
