// Package repository provides the data access layer for the bid module.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	bidModel "github.com/teamlance/engagements/internal/bid/model"
)

// Repository defines the interface for bid data access operations.
type Repository interface {
	// Create persists a new bid.
	Create(ctx context.Context, b *bidModel.Bid) error

	// GetByID finds a bid by id within a project.
	GetByID(ctx context.Context, projectID, bidID string) (*bidModel.Bid, error)

	// GetByProjectAndMember finds the member's bid on a project, if any.
	GetByProjectAndMember(ctx context.Context, projectID, memberID string) (*bidModel.Bid, error)

	// ListByProject returns all bids on a project, oldest first.
	ListByProject(ctx context.Context, projectID string) ([]bidModel.Bid, error)

	// Save persists changes to an existing bid.
	Save(ctx context.Context, b *bidModel.Bid) error

	// GetRoster derives the participation roster from the project's
	// accepted bids.
	GetRoster(ctx context.Context, projectID string) ([]bidModel.RosterEntry, error)
}

type repository struct {
	db *gorm.DB
}

// New creates a new bid repository instance.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *bidModel.Bid) error {
	err := r.db.WithContext(ctx).Create(b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateError(err) {
			return bidModel.ErrDuplicateBid
		}
		return err
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, projectID, bidID string) (*bidModel.Bid, error) {
	var b bidModel.Bid
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND bid_id = ?", projectID, bidID).
		First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bidModel.ErrBidNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) GetByProjectAndMember(
	ctx context.Context,
	projectID, memberID string,
) (*bidModel.Bid, error) {
	var b bidModel.Bid
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND member_id = ?", projectID, memberID).
		First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bidModel.ErrBidNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListByProject(ctx context.Context, projectID string) ([]bidModel.Bid, error) {
	var bids []bidModel.Bid
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&bids).Error
	if err != nil {
		return nil, err
	}
	if bids == nil {
		return []bidModel.Bid{}, nil
	}
	return bids, nil
}

func (r *repository) Save(ctx context.Context, b *bidModel.Bid) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *repository) GetRoster(
	ctx context.Context,
	projectID string,
) ([]bidModel.RosterEntry, error) {
	bids, err := r.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return bidModel.RosterFromBids(bids), nil
}

// isDuplicateError checks if error is a unique constraint violation.
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		containsAny(msg, "duplicate key", "UNIQUE constraint")
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if contains(s, sub) {
			return true
		}
	}
	return false
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
