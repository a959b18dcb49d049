// Package model provides domain models and DTOs for the bid module.
package model

import (
	"time"

	"gorm.io/gorm"
)

// Bid states.
const (
	// StatePending: submitted, awaiting owner action.
	StatePending = "pending"
	// StateAccepted: owner accepted with an agreed amount; the member's
	// confirmation decides whether the bid enters the roster.
	StateAccepted = "accepted"
	// StateRejected: declined; a rejected bid may be revised and resubmitted.
	StateRejected = "rejected"
	// StateReported: participant removed for non-performance. Terminal; the
	// member may not re-bid on this project.
	StateReported = "reported"
)

// Bid represents a member's offer to perform a project.
// Matches the bids table schema. At most one bid exists per
// (project, member) pair.
type Bid struct {
	BidID                string     `gorm:"primaryKey;column:bid_id;type:varchar(36)"                                       json:"bid_id"`
	ProjectID            string     `gorm:"column:project_id;type:varchar(36);not null;uniqueIndex:idx_bids_project_member" json:"project_id"`
	MemberID             string     `gorm:"column:member_id;type:varchar(255);not null;uniqueIndex:idx_bids_project_member" json:"member_id"`
	Proposal             string     `gorm:"column:proposal;type:text;not null"                                              json:"proposal"`
	Price                float64    `gorm:"column:price;type:numeric;not null"                                              json:"price"`
	EstimatedDays        *int       `gorm:"column:estimated_days"                                                           json:"estimated_days,omitempty"`
	State                string     `gorm:"column:state;type:varchar(16);not null;index:idx_bids_state"                     json:"state"`
	AgreedAmount         *float64   `gorm:"column:agreed_amount;type:numeric"                                               json:"agreed_amount,omitempty"`
	MemberConfirmed      *bool      `gorm:"column:member_confirmed"                                                         json:"member_confirmed,omitempty"`
	ConfirmedAt          *time.Time `gorm:"column:confirmed_at;type:timestamptz"                                            json:"confirmed_at,omitempty"`
	WorkFinished         bool       `gorm:"column:work_finished;type:boolean;not null;default:false"                        json:"work_finished"`
	WorkFinishedAt       *time.Time `gorm:"column:work_finished_at;type:timestamptz"                                        json:"work_finished_at,omitempty"`
	RemovalJustification *string    `gorm:"column:removal_justification;type:text"                                          json:"removal_justification,omitempty"`
	CreatedAt            time.Time  `gorm:"column:created_at;type:timestamptz;not null"                                     json:"created_at"`
	UpdatedAt            time.Time  `gorm:"column:updated_at;type:timestamptz;not null"                                     json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Bid) TableName() string {
	return "bids"
}

// BeforeUpdate updates the UpdatedAt timestamp before saving.
func (b *Bid) BeforeUpdate(tx *gorm.DB) error {
	b.UpdatedAt = time.Now()
	return nil
}

// AwaitingResponse reports whether the member still has to respond to the
// accepted terms.
func (b *Bid) AwaitingResponse() bool {
	return b.State == StateAccepted && b.MemberConfirmed == nil
}

// Declined reports whether the member rejected the accepted terms.
func (b *Bid) Declined() bool {
	return b.State == StateAccepted && b.MemberConfirmed != nil && !*b.MemberConfirmed
}
