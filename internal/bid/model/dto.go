package model

import "time"

// SubmitBidRequest represents the request to submit a bid on a project.
type SubmitBidRequest struct {
	Proposal      string  `json:"proposal" binding:"required"`
	Price         float64 `json:"price"    binding:"required"`
	EstimatedDays *int    `json:"estimated_days"`
}

// OwnerBidActionRequest represents the owner's accept/reject/resend action
// (PATCH /projects/:id/bids). Amount is required by accept and resend and
// ignored by reject.
type OwnerBidActionRequest struct {
	BidID  string  `json:"bid_id" binding:"required"`
	Action string  `json:"action" binding:"required"`
	Amount float64 `json:"amount"`
}

// RespondToBidRequest represents the member's response to accepted terms.
type RespondToBidRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

// BidResponse represents a bid in API responses.
type BidResponse struct {
	BidID           string   `json:"bid_id"`
	ProjectID       string   `json:"project_id"`
	MemberID        string   `json:"member_id"`
	Proposal        string   `json:"proposal"`
	Price           float64  `json:"price"`
	EstimatedDays   *int     `json:"estimated_days,omitempty"`
	State           string   `json:"state"`
	AgreedAmount    *float64 `json:"agreed_amount,omitempty"`
	MemberConfirmed *bool    `json:"member_confirmed,omitempty"`
	ConfirmedAt     string   `json:"confirmed_at,omitempty"`
	CreatedAt       string   `json:"created_at"`
}

// NewBidResponse builds the API representation of a bid.
func NewBidResponse(b *Bid) *BidResponse {
	resp := &BidResponse{
		BidID:           b.BidID,
		ProjectID:       b.ProjectID,
		MemberID:        b.MemberID,
		Proposal:        b.Proposal,
		Price:           b.Price,
		EstimatedDays:   b.EstimatedDays,
		State:           b.State,
		AgreedAmount:    b.AgreedAmount,
		MemberConfirmed: b.MemberConfirmed,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
	}
	if b.ConfirmedAt != nil {
		resp.ConfirmedAt = b.ConfirmedAt.Format(time.RFC3339)
	}
	return resp
}

// RespondResponse represents the result of a member's response.
type RespondResponse struct {
	Bid *BidResponse `json:"bid"`
	// ProjectState is the project state after the response; a first
	// confirmation moves a published project to assigned.
	ProjectState string `json:"project_state"`
}
