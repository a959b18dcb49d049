// Package model provides domain models and DTOs for the cancellation module.
package model

import (
	"time"
)

// Request statuses.
const (
	StatusOpen      = "open"
	StatusCancelled = "cancelled"
	StatusRejected  = "rejected"
)

// Vote choices.
const (
	VoteConfirm = "confirm"
	VoteReject  = "reject"
)

// MinReasonLength is the minimum length of a cancellation reason.
const MinReasonLength = 5

// Request represents a cancellation consensus request. At most one request
// is open per project at a time.
// Matches the cancellation_requests table schema.
type Request struct {
	RequestID     string     `gorm:"primaryKey;column:request_id;type:varchar(36)"                           json:"request_id"`
	ProjectID     string     `gorm:"column:project_id;type:varchar(36);not null;index:idx_cancel_project_id" json:"project_id"`
	CreatedBy     string     `gorm:"column:created_by;type:varchar(255);not null"                            json:"created_by"`
	CreatedByRole string     `gorm:"column:created_by_role;type:varchar(32);not null"                        json:"created_by_role"`
	Reason        string     `gorm:"column:reason;type:text;not null"                                        json:"reason"`
	Status        string     `gorm:"column:status;type:varchar(16);not null;index:idx_cancel_status"         json:"status"`
	CreatedAt     time.Time  `gorm:"column:created_at;type:timestamptz;not null"                             json:"created_at"`
	ResolvedAt    *time.Time `gorm:"column:resolved_at;type:timestamptz"                                     json:"resolved_at,omitempty"`
}

// TableName specifies the table name for GORM.
func (Request) TableName() string {
	return "cancellation_requests"
}

// Vote represents one participant's vote on a cancellation request. Votes
// are keyed by a stable participant identifier, never by role name: two team
// members share a role but vote independently.
// Matches the cancellation_votes table schema.
type Vote struct {
	VoteID    string    `gorm:"primaryKey;column:vote_id;type:varchar(36)"                                      json:"vote_id"`
	RequestID string    `gorm:"column:request_id;type:varchar(36);not null;uniqueIndex:idx_votes_request_voter" json:"request_id"`
	VoterID   string    `gorm:"column:voter_id;type:varchar(255);not null;uniqueIndex:idx_votes_request_voter"  json:"voter_id"`
	VoterRole string    `gorm:"column:voter_role;type:varchar(32);not null"                                     json:"voter_role"`
	Vote      string    `gorm:"column:vote;type:varchar(16);not null"                                           json:"vote"`
	Comment   *string   `gorm:"column:comment;type:text"                                                        json:"comment,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;not null"                                     json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Vote) TableName() string {
	return "cancellation_votes"
}

// Participant is an eligible voter: the project owner or a confirmed roster
// member. The eligible set is recomputed from the current roster at every
// evaluation, never frozen at request creation.
type Participant struct {
	ID   string
	Role string
}

// AllConfirmed reports whether every eligible participant has a confirm
// vote. Votes from participants no longer eligible are ignored.
func AllConfirmed(eligible []Participant, votes []Vote) bool {
	if len(eligible) == 0 {
		return false
	}
	confirmed := make(map[string]bool, len(votes))
	for _, v := range votes {
		if v.Vote == VoteConfirm {
			confirmed[v.VoterID] = true
		}
	}
	for _, p := range eligible {
		if !confirmed[p.ID] {
			return false
		}
	}
	return true
}

// IsEligible reports whether the participant id is in the eligible set.
func IsEligible(eligible []Participant, id string) bool {
	for _, p := range eligible {
		if p.ID == id {
			return true
		}
	}
	return false
}
