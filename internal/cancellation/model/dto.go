package model

import "time"

// CreateRequestRequest represents the request to open a cancellation request.
type CreateRequestRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// VoteRequest represents a participant's vote.
type VoteRequest struct {
	Choice  string `json:"choice" binding:"required"`
	Comment string `json:"comment"`
}

// VoteResponse represents a vote in API responses.
type VoteResponse struct {
	VoterID   string `json:"voter_id"`
	VoterRole string `json:"voter_role"`
	Vote      string `json:"vote"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"created_at"`
}

// RequestResponse represents a cancellation request in API responses.
type RequestResponse struct {
	RequestID     string         `json:"request_id"`
	ProjectID     string         `json:"project_id"`
	CreatedBy     string         `json:"created_by"`
	CreatedByRole string         `json:"created_by_role"`
	Reason        string         `json:"reason"`
	Status        string         `json:"status"`
	Votes         []VoteResponse `json:"votes"`
	ProjectState  string         `json:"project_state"`
	CreatedAt     string         `json:"created_at"`
}

// NewRequestResponse builds the API representation of a request.
func NewRequestResponse(r *Request, votes []Vote, projectState string) *RequestResponse {
	resp := &RequestResponse{
		RequestID:     r.RequestID,
		ProjectID:     r.ProjectID,
		CreatedBy:     r.CreatedBy,
		CreatedByRole: r.CreatedByRole,
		Reason:        r.Reason,
		Status:        r.Status,
		Votes:         make([]VoteResponse, 0, len(votes)),
		ProjectState:  projectState,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
	for _, v := range votes {
		vr := VoteResponse{
			VoterID:   v.VoterID,
			VoterRole: v.VoterRole,
			Vote:      v.Vote,
			CreatedAt: v.CreatedAt.Format(time.RFC3339),
		}
		if v.Comment != nil {
			vr.Comment = *v.Comment
		}
		resp.Votes = append(resp.Votes, vr)
	}
	return resp
}
