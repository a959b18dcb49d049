// Package repository provides the data access layer for the project module.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	projectModel "github.com/teamlance/engagements/internal/project/model"
)

// Repository defines the interface for project data access operations.
type Repository interface {
	// Create persists a new project.
	Create(ctx context.Context, p *projectModel.Project) error

	// GetByID finds a project by its id.
	GetByID(ctx context.Context, projectID string) (*projectModel.Project, error)

	// ListByClient returns projects owned by a client, newest first.
	ListByClient(ctx context.Context, clientID string) ([]projectModel.Project, error)

	// ListByMember returns projects owned by a member, newest first.
	ListByMember(ctx context.Context, memberID string) ([]projectModel.Project, error)

	// Save persists changes to an existing project.
	Save(ctx context.Context, p *projectModel.Project) error

	// Delete removes the project row and all rows that reference it.
	Delete(ctx context.Context, projectID string) error
}

type repository struct {
	db *gorm.DB
}

// New creates a new project repository instance.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *projectModel.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) GetByID(ctx context.Context, projectID string) (*projectModel.Project, error) {
	var p projectModel.Project
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, projectModel.ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListByClient(ctx context.Context, clientID string) ([]projectModel.Project, error) {
	return r.listBy(ctx, "client_id = ? AND owner_kind = ?", clientID, projectModel.OwnerClient)
}

func (r *repository) ListByMember(ctx context.Context, memberID string) ([]projectModel.Project, error) {
	return r.listBy(ctx, "member_id = ? AND owner_kind = ?", memberID, projectModel.OwnerMember)
}

func (r *repository) listBy(ctx context.Context, query string, args ...any) ([]projectModel.Project, error) {
	var projects []projectModel.Project
	err := r.db.WithContext(ctx).
		Where(query, args...).
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	if projects == nil {
		return []projectModel.Project{}, nil
	}
	return projects, nil
}

func (r *repository) Save(ctx context.Context, p *projectModel.Project) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete removes the project and its dependent rows in one statement batch.
// Child tables go first so the delete also works without FK cascade support.
func (r *repository) Delete(ctx context.Context, projectID string) error {
	db := r.db.WithContext(ctx)
	for _, stmt := range []string{
		"DELETE FROM cancellation_votes WHERE request_id IN (SELECT request_id FROM cancellation_requests WHERE project_id = ?)",
		"DELETE FROM cancellation_requests WHERE project_id = ?",
		"DELETE FROM requirements WHERE project_id = ?",
		"DELETE FROM bids WHERE project_id = ?",
	} {
		if err := db.Exec(stmt, projectID).Error; err != nil {
			return err
		}
	}
	result := db.Exec("DELETE FROM projects WHERE project_id = ?", projectID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return projectModel.ErrProjectNotFound
	}
	return nil
}
