// Package model provides domain models and DTOs for the requirement module.
package model

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Requirement represents a checklist item attached to a project.
// Matches the requirements table schema.
type Requirement struct {
	RequirementID string    `gorm:"primaryKey;column:requirement_id;type:varchar(36)"                          json:"requirement_id"`
	ProjectID     string    `gorm:"column:project_id;type:varchar(36);not null;index:idx_requirements_project" json:"project_id"`
	Title         string    `gorm:"column:title;type:varchar(255);not null"                                    json:"title"`
	Description   *string   `gorm:"column:description;type:text"                                               json:"description,omitempty"`
	Cost          *float64  `gorm:"column:cost;type:numeric"                                                   json:"cost,omitempty"`
	Completed     bool      `gorm:"column:completed;type:boolean;not null;default:false"                       json:"completed"`
	CompletedBy   *string   `gorm:"column:completed_by;type:varchar(255)"                                      json:"completed_by,omitempty"`
	AuthorRole    string    `gorm:"column:author_role;type:varchar(16);not null"                               json:"author_role"`
	AuthorID      string    `gorm:"column:author_id;type:varchar(255);not null"                                json:"author_id"`
	IsAdditional  bool      `gorm:"column:is_additional;type:boolean;not null;default:false"                   json:"is_additional"`
	CreatedAt     time.Time `gorm:"column:created_at;type:timestamptz;not null"                                json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;type:timestamptz;not null"                                json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Requirement) TableName() string {
	return "requirements"
}

// BeforeUpdate updates the UpdatedAt timestamp before saving.
func (r *Requirement) BeforeUpdate(tx *gorm.DB) error {
	r.UpdatedAt = time.Now()
	return nil
}

// Author roles.
const (
	AuthorClient = "client"
	AuthorMember = "member"
)

var (
	// ErrRequirementNotFound indicates the requested requirement does not exist.
	ErrRequirementNotFound = errors.New("requirement not found")
	// ErrInvalidCost indicates a non-positive cost value.
	ErrInvalidCost = errors.New("cost must be greater than zero")
)

// AddRequirementRequest represents the request to add a requirement.
type AddRequirementRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description *string  `json:"description"`
	Cost        *float64 `json:"cost"`
}

// UpdateRequirementRequest represents the request to update or toggle a
// requirement (PATCH /projects/:id/requirements/:reqId).
type UpdateRequirementRequest struct {
	// Action "toggle" flips the completed flag; empty action edits fields.
	Action      string   `json:"action"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Cost        *float64 `json:"cost"`
}

// RequirementResponse represents a requirement in API responses.
type RequirementResponse struct {
	RequirementID string   `json:"requirement_id"`
	ProjectID     string   `json:"project_id"`
	Title         string   `json:"title"`
	Description   *string  `json:"description,omitempty"`
	Cost          *float64 `json:"cost,omitempty"`
	Completed     bool     `json:"completed"`
	CompletedBy   string   `json:"completed_by,omitempty"`
	AuthorRole    string   `json:"author_role"`
	AuthorID      string   `json:"author_id"`
	IsAdditional  bool     `json:"is_additional"`
	CreatedAt     string   `json:"created_at"`
}

// NewRequirementResponse builds the API representation of a requirement.
func NewRequirementResponse(r *Requirement) *RequirementResponse {
	resp := &RequirementResponse{
		RequirementID: r.RequirementID,
		ProjectID:     r.ProjectID,
		Title:         r.Title,
		Description:   r.Description,
		Cost:          r.Cost,
		Completed:     r.Completed,
		AuthorRole:    r.AuthorRole,
		AuthorID:      r.AuthorID,
		IsAdditional:  r.IsAdditional,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
	if r.CompletedBy != nil {
		resp.CompletedBy = *r.CompletedBy
	}
	return resp
}
