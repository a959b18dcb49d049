// Package model provides DTOs and errors for the roster module.
package model

import "errors"

var (
	// ErrNotParticipant indicates the member has no confirmed roster entry.
	ErrNotParticipant = errors.New("member is not a confirmed participant of this project")
	// ErrMissingJustification indicates the removal justification is empty.
	ErrMissingJustification = errors.New("justification text is required")
)

// RemoveParticipantRequest represents the request to remove a participant.
type RemoveParticipantRequest struct {
	BidID         string `json:"bid_id"        binding:"required"`
	Justification string `json:"justification" binding:"required"`
}

// FinishWorkResponse represents the result of a finish-work toggle.
type FinishWorkResponse struct {
	WorkFinished bool `json:"work_finished"`
	// AutoCompleted reports that this flip was the last one and the project
	// transitioned to completed.
	AutoCompleted bool   `json:"auto_completed"`
	ProjectState  string `json:"project_state"`
}
