// Package repository provides the data access layer for the requirement module.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	requirementModel "github.com/teamlance/engagements/internal/requirement/model"
)

// Repository defines the interface for requirement data access operations.
type Repository interface {
	// Create persists a new requirement.
	Create(ctx context.Context, r *requirementModel.Requirement) error

	// GetByID finds a requirement by id within a project.
	GetByID(ctx context.Context, projectID, requirementID string) (*requirementModel.Requirement, error)

	// ListByProject returns all requirements of a project, oldest first.
	ListByProject(ctx context.Context, projectID string) ([]requirementModel.Requirement, error)

	// Save persists changes to an existing requirement.
	Save(ctx context.Context, r *requirementModel.Requirement) error

	// Delete removes a requirement.
	Delete(ctx context.Context, projectID, requirementID string) error
}

type repository struct {
	db *gorm.DB
}

// New creates a new requirement repository instance.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req *requirementModel.Requirement) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) GetByID(
	ctx context.Context,
	projectID, requirementID string,
) (*requirementModel.Requirement, error) {
	var req requirementModel.Requirement
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND requirement_id = ?", projectID, requirementID).
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, requirementModel.ErrRequirementNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *repository) ListByProject(
	ctx context.Context,
	projectID string,
) ([]requirementModel.Requirement, error) {
	var reqs []requirementModel.Requirement
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	if reqs == nil {
		return []requirementModel.Requirement{}, nil
	}
	return reqs, nil
}

func (r *repository) Save(ctx context.Context, req *requirementModel.Requirement) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *repository) Delete(ctx context.Context, projectID, requirementID string) error {
	result := r.db.WithContext(ctx).
		Where("project_id = ? AND requirement_id = ?", projectID, requirementID).
		Delete(&requirementModel.Requirement{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return requirementModel.ErrRequirementNotFound
	}
	return nil
}
