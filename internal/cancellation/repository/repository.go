// Package repository provides the data access layer for the cancellation module.
package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	cancellationModel "github.com/teamlance/engagements/internal/cancellation/model"
)

// Repository defines the interface for cancellation data access operations.
type Repository interface {
	// GetOpenByProject returns the open request for a project, or
	// ErrRequestNotFound.
	GetOpenByProject(ctx context.Context, projectID string) (*cancellationModel.Request, error)

	// Create persists a new request.
	Create(ctx context.Context, r *cancellationModel.Request) error

	// Resolve marks the request cancelled or rejected.
	Resolve(ctx context.Context, requestID, status string, at time.Time) error

	// ResolveOpenForProject discards the project's open request, if any,
	// dropping its votes. No-op when no request is open.
	ResolveOpenForProject(ctx context.Context, projectID, status string, at time.Time) error

	// Delete removes a request and its votes (withdrawal).
	Delete(ctx context.Context, requestID string) error

	// GetVotes returns all votes on a request, oldest first.
	GetVotes(ctx context.Context, requestID string) ([]cancellationModel.Vote, error)

	// CreateVote records a participant's vote.
	CreateVote(ctx context.Context, v *cancellationModel.Vote) error

	// DeleteVotes discards all votes on a request.
	DeleteVotes(ctx context.Context, requestID string) error
}

type repository struct {
	db *gorm.DB
}

// New creates a new cancellation repository instance.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOpenByProject(
	ctx context.Context,
	projectID string,
) (*cancellationModel.Request, error) {
	var req cancellationModel.Request
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND status = ?", projectID, cancellationModel.StatusOpen).
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cancellationModel.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *repository) Create(ctx context.Context, req *cancellationModel.Request) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) Resolve(ctx context.Context, requestID, status string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&cancellationModel.Request{}).
		Where("request_id = ?", requestID).
		Updates(map[string]interface{}{
			"status":      status,
			"resolved_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return cancellationModel.ErrRequestNotFound
	}
	return nil
}

func (r *repository) ResolveOpenForProject(
	ctx context.Context,
	projectID, status string,
	at time.Time,
) error {
	req, err := r.GetOpenByProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, cancellationModel.ErrRequestNotFound) {
			return nil
		}
		return err
	}
	if err := r.DeleteVotes(ctx, req.RequestID); err != nil {
		return err
	}
	return r.Resolve(ctx, req.RequestID, status, at)
}

func (r *repository) Delete(ctx context.Context, requestID string) error {
	if err := r.DeleteVotes(ctx, requestID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Delete(&cancellationModel.Request{}).Error
}

func (r *repository) GetVotes(
	ctx context.Context,
	requestID string,
) ([]cancellationModel.Vote, error) {
	var votes []cancellationModel.Vote
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&votes).Error
	if err != nil {
		return nil, err
	}
	if votes == nil {
		return []cancellationModel.Vote{}, nil
	}
	return votes, nil
}

func (r *repository) CreateVote(ctx context.Context, v *cancellationModel.Vote) error {
	err := r.db.WithContext(ctx).Create(v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateError(err) {
			return cancellationModel.ErrDuplicateVote
		}
		return err
	}
	return nil
}

func (r *repository) DeleteVotes(ctx context.Context, requestID string) error {
	return r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Delete(&cancellationModel.Vote{}).Error
}

// isDuplicateError checks if error is a unique constraint violation.
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, pattern := range []string{"duplicate key", "UNIQUE constraint"} {
		if len(msg) >= len(pattern) && containsSubstring(msg, pattern) {
			return true
		}
	}
	return false
}

func containsSubstring(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
