// Package model provides domain models, lifecycle states and guard logic
// for the project module.
package model

import (
	"time"

	"gorm.io/gorm"

	"github.com/teamlance/engagements/internal/auth"
)

// State is a project lifecycle state.
type State string

// Lifecycle states, in phase order.
const (
	StateDraft            State = "draft"
	StatePublished        State = "published"
	StateAssigned         State = "assigned"
	StatePlanned          State = "planned"
	StateStarted          State = "started"
	StateInProgress       State = "in_progress"
	StateInImplementation State = "in_implementation"
	StateInTesting        State = "in_testing"

	StateCompleted            State = "completed"
	StatePartiallyCompleted   State = "partially_completed"
	StateNotCompleted         State = "not_completed"
	StateCancelled            State = "cancelled"
	StateCancelledNoAgreement State = "cancelled_no_agreement"
	StateCancelledNoBudget    State = "cancelled_no_budget"
	StateUnpaid               State = "unpaid"
	StateNotCompletedByMember State = "not_completed_by_member"
)

// IsTerminal reports whether no further transition is legal from s.
func (s State) IsTerminal() bool {
	switch s {
	case StateCompleted, StatePartiallyCompleted, StateNotCompleted,
		StateCancelled, StateCancelledNoAgreement, StateCancelledNoBudget,
		StateUnpaid, StateNotCompletedByMember:
		return true
	}
	return false
}

// IsActive reports whether the project is in an active working state.
func (s State) IsActive() bool {
	switch s {
	case StateStarted, StateInProgress, StateInImplementation, StateInTesting:
		return true
	}
	return false
}

// IsCancelled reports whether s is one of the cancelled terminal variants.
func (s State) IsCancelled() bool {
	switch s {
	case StateCancelled, StateCancelledNoAgreement, StateCancelledNoBudget:
		return true
	}
	return false
}

// NextStage returns the active stage following s, for the advance operation.
func (s State) NextStage() (State, bool) {
	switch s {
	case StateStarted:
		return StateInProgress, true
	case StateInProgress:
		return StateInImplementation, true
	case StateInImplementation:
		return StateInTesting, true
	}
	return "", false
}

// OwnerKind distinguishes client-owned from member-owned projects.
type OwnerKind string

// Owner kinds.
const (
	OwnerClient OwnerKind = "client"
	OwnerMember OwnerKind = "member"
)

// Visibility controls whether a member-owned project accepts public bids.
type Visibility string

// Visibility values.
const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// ClosedBy records which side drove the project into a terminal state.
type ClosedBy string

// ClosedBy values. ClosedByTeam covers system-driven closures
// (auto-completion, consensus cancellation) and administrator action.
const (
	ClosedByClient ClosedBy = "client"
	ClosedByTeam   ClosedBy = "team"
	ClosedByMember ClosedBy = "member"
)

// Project represents a project entity in the system.
// Matches the projects table schema.
type Project struct {
	ProjectID          string     `gorm:"primaryKey;column:project_id;type:varchar(36)"                   json:"project_id"`
	OwnerKind          OwnerKind  `gorm:"column:owner_kind;type:varchar(16);not null"                     json:"owner_kind"`
	ClientID           *string    `gorm:"column:client_id;type:varchar(255);index:idx_projects_client_id" json:"client_id,omitempty"`
	MemberID           *string    `gorm:"column:member_id;type:varchar(255);index:idx_projects_member_id" json:"member_id,omitempty"`
	Title              string     `gorm:"column:title;type:varchar(255);not null"                         json:"title"`
	Description        string     `gorm:"column:description;type:text;not null"                           json:"description"`
	BudgetMin          *float64   `gorm:"column:budget_min;type:numeric"                                  json:"budget_min,omitempty"`
	BudgetMax          *float64   `gorm:"column:budget_max;type:numeric"                                  json:"budget_max,omitempty"`
	Deadline           *time.Time `gorm:"column:deadline;type:timestamptz"                                json:"deadline,omitempty"`
	State              State      `gorm:"column:state;type:varchar(32);not null;index:idx_projects_state" json:"state"`
	Visibility         Visibility `gorm:"column:visibility;type:varchar(16);not null;default:'public'"    json:"visibility"`
	ReopenedForBidding bool       `gorm:"column:reopened_for_bidding;type:boolean;not null;default:false" json:"reopened_for_bidding"`
	ClosureReason      *string    `gorm:"column:closure_reason;type:text"                                 json:"closure_reason,omitempty"`
	ClosedBy           *ClosedBy  `gorm:"column:closed_by;type:varchar(16)"                               json:"closed_by,omitempty"`
	CreatedAt          time.Time  `gorm:"column:created_at;type:timestamptz;not null"                     json:"created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;type:timestamptz;not null"                     json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Project) TableName() string {
	return "projects"
}

// BeforeUpdate updates the UpdatedAt timestamp before saving.
func (p *Project) BeforeUpdate(tx *gorm.DB) error {
	p.UpdatedAt = time.Now()
	return nil
}

// IsOwner reports whether the caller owns the project.
func (p *Project) IsOwner(c auth.Caller) bool {
	switch p.OwnerKind {
	case OwnerClient:
		return c.IsClient() && p.ClientID != nil && *p.ClientID == c.ClientID
	case OwnerMember:
		return c.IsMember() && p.MemberID != nil && *p.MemberID == c.MemberID
	}
	return false
}

// OwnerParticipantID returns the stable participant identifier of the owner.
func (p *Project) OwnerParticipantID() string {
	if p.OwnerKind == OwnerClient && p.ClientID != nil {
		return *p.ClientID
	}
	if p.OwnerKind == OwnerMember && p.MemberID != nil {
		return *p.MemberID
	}
	return ""
}

// OpenForBidding reports whether the project currently accepts new bids.
func (p *Project) OpenForBidding() bool {
	if p.State == StatePublished || p.State == StateAssigned {
		return true
	}
	return p.State == StateInProgress && p.ReopenedForBidding
}

// Close moves the project into the given terminal state.
func (p *Project) Close(target State, reason string, by ClosedBy) {
	p.State = target
	p.ClosedBy = &by
	if reason != "" {
		p.ClosureReason = &reason
	}
	p.ReopenedForBidding = false
}
