package model

import "errors"

var (
	// ErrBidNotFound indicates that the requested bid does not exist.
	ErrBidNotFound = errors.New("bid not found")
	// ErrDuplicateBid indicates the member already has a live bid on the project.
	ErrDuplicateBid = errors.New("member already has a bid on this project")
	// ErrNotOpenForBidding indicates the project does not accept bids in its
	// current state.
	ErrNotOpenForBidding = errors.New("project is not open for bidding")
	// ErrOwnProject indicates the owner tried to bid on their own project.
	ErrOwnProject = errors.New("owner cannot bid on own project")
	// ErrNotAwaitingResponse indicates the bid is not an accepted bid
	// awaiting the member's response.
	ErrNotAwaitingResponse = errors.New("bid is not awaiting a member response")
	// ErrNotDeclined indicates resend was requested for a bid the member has
	// not declined.
	ErrNotDeclined = errors.New("bid was not declined by the member")
	// ErrInvalidAmount indicates a price or agreed amount is not positive.
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrMemberRemoved indicates the member was removed from the project and
	// may not re-bid.
	ErrMemberRemoved = errors.New("member was removed from this project")
)
