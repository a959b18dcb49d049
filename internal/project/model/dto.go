package model

import "time"

// CreateProjectRequest represents the request to create a draft project.
type CreateProjectRequest struct {
	Title       string     `json:"title"       binding:"required"`
	Description string     `json:"description" binding:"required"`
	BudgetMin   *float64   `json:"budget_min"`
	BudgetMax   *float64   `json:"budget_max"`
	Deadline    *time.Time `json:"deadline"`
	Visibility  string     `json:"visibility"`
}

// UpdateProjectRequest represents the lifecycle action request
// (PATCH /projects/:id).
type UpdateProjectRequest struct {
	Action string `json:"action" binding:"required"`
	// Title and Description are required by the republish action.
	Title       string `json:"title"`
	Description string `json:"description"`
	// Reason is the optional free-text reason for early cancellation.
	Reason string `json:"reason"`
}

// CloseProjectRequest represents the request to close an active project.
type CloseProjectRequest struct {
	Reason        string `json:"reason" binding:"required"`
	Justification string `json:"justification"`
}

// ProjectResponse represents a project in API responses.
type ProjectResponse struct {
	ProjectID          string     `json:"project_id"`
	OwnerKind          string     `json:"owner_kind"`
	ClientID           string     `json:"client_id,omitempty"`
	MemberID           string     `json:"member_id,omitempty"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	BudgetMin          *float64   `json:"budget_min,omitempty"`
	BudgetMax          *float64   `json:"budget_max,omitempty"`
	Deadline           *time.Time `json:"deadline,omitempty"`
	State              string     `json:"state"`
	Visibility         string     `json:"visibility"`
	ReopenedForBidding bool       `json:"reopened_for_bidding"`
	ClosureReason      string     `json:"closure_reason,omitempty"`
	ClosedBy           string     `json:"closed_by,omitempty"`
	CreatedAt          string     `json:"created_at"`
}

// NewProjectResponse builds the API representation of a project.
func NewProjectResponse(p *Project) *ProjectResponse {
	resp := &ProjectResponse{
		ProjectID:          p.ProjectID,
		OwnerKind:          string(p.OwnerKind),
		Title:              p.Title,
		Description:        p.Description,
		BudgetMin:          p.BudgetMin,
		BudgetMax:          p.BudgetMax,
		Deadline:           p.Deadline,
		State:              string(p.State),
		Visibility:         string(p.Visibility),
		ReopenedForBidding: p.ReopenedForBidding,
		CreatedAt:          p.CreatedAt.Format(time.RFC3339),
	}
	if p.ClientID != nil {
		resp.ClientID = *p.ClientID
	}
	if p.MemberID != nil {
		resp.MemberID = *p.MemberID
	}
	if p.ClosureReason != nil {
		resp.ClosureReason = *p.ClosureReason
	}
	if p.ClosedBy != nil {
		resp.ClosedBy = string(*p.ClosedBy)
	}
	return resp
}
