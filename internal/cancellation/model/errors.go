package model

import "errors"

var (
	// ErrRequestNotFound indicates no open cancellation request exists.
	ErrRequestNotFound = errors.New("no open cancellation request")
	// ErrRequestAlreadyOpen indicates an open request already exists for the
	// project.
	ErrRequestAlreadyOpen = errors.New("a cancellation request is already open")
	// ErrDuplicateVote indicates the participant has already voted.
	ErrDuplicateVote = errors.New("participant has already voted")
	// ErrNotParticipant indicates the caller is not an eligible voter.
	ErrNotParticipant = errors.New("caller is not a participant of this project")
	// ErrReasonTooShort indicates the reason is under the minimum length.
	ErrReasonTooShort = errors.New("cancellation reason must be at least 5 characters")
	// ErrNotCreator indicates a withdraw attempt by someone other than the
	// request creator.
	ErrNotCreator = errors.New("only the request creator may withdraw it")
	// ErrVotesAlreadyCast indicates a withdraw attempt after other
	// participants have voted.
	ErrVotesAlreadyCast = errors.New("request cannot be withdrawn once others have voted")
	// ErrInvalidChoice indicates a vote value other than confirm or reject.
	ErrInvalidChoice = errors.New("vote must be confirm or reject")
)
