// Package service provides the business logic layer for the roster module:
// per-member work completion and participant removal.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/teamlance/engagements/internal/auth"
	bidModel "github.com/teamlance/engagements/internal/bid/model"
	bidRepository "github.com/teamlance/engagements/internal/bid/repository"
	cancellationModel "github.com/teamlance/engagements/internal/cancellation/model"
	cancellationRepository "github.com/teamlance/engagements/internal/cancellation/repository"
	"github.com/teamlance/engagements/internal/database/database"
	"github.com/teamlance/engagements/internal/notify"
	projectModel "github.com/teamlance/engagements/internal/project/model"
	rosterModel "github.com/teamlance/engagements/internal/roster/model"
)

// Service defines the interface for roster business logic operations.
type Service interface {
	// Get returns the derived participation roster of a project.
	Get(ctx context.Context, caller auth.Caller, projectID string) ([]bidModel.RosterEntry, error)

	// FinishWork toggles the caller's work-finished flag and auto-completes
	// the project when every roster entry has finished.
	FinishWork(
		ctx context.Context,
		caller auth.Caller,
		projectID string,
	) (*rosterModel.FinishWorkResponse, error)

	// RemoveParticipant reports and removes a participant from the roster.
	RemoveParticipant(
		ctx context.Context,
		caller auth.Caller,
		projectID string,
		req *rosterModel.RemoveParticipantRequest,
	) error
}

type service struct {
	bids       bidRepository.Repository
	db         *gorm.DB
	logger     *zap.SugaredLogger
	dispatcher notify.Dispatcher
}

// New creates a new roster service instance.
func New(
	bids bidRepository.Repository,
	db *gorm.DB,
	logger *zap.SugaredLogger,
	dispatcher notify.Dispatcher,
) Service {
	return &service{
		bids:       bids,
		db:         db,
		logger:     logger,
		dispatcher: dispatcher,
	}
}

func (s *service) Get(
	ctx context.Context,
	caller auth.Caller,
	projectID string,
) ([]bidModel.RosterEntry, error) {
	var p projectModel.Project
	if err := s.db.WithContext(ctx).Where("project_id = ?", projectID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, projectModel.ErrProjectNotFound
		}
		return nil, err
	}
	if !projectModel.CanPerform(caller, &p, projectModel.OpView) {
		return nil, projectModel.ErrForbidden
	}
	return s.bids.GetRoster(ctx, projectID)
}

// FinishWork is an idempotent toggle: calling it twice returns the flag to
// its original value. The all-finished check runs inside the same critical
// section as the flip so two concurrent last finishers cannot both skip, or
// both trigger, the completion transition.
func (s *service) FinishWork(
	ctx context.Context,
	caller auth.Caller,
	projectID string,
) (*rosterModel.FinishWorkResponse, error) {
	if !caller.IsMember() {
		return nil, projectModel.ErrForbidden
	}

	var result rosterModel.FinishWorkResponse
	err := database.RunInProjectTx(ctx, s.db, projectID, func(tx *gorm.DB, p *projectModel.Project) error {
		if !p.State.IsActive() {
			return projectModel.ErrInvalidStateTransition
		}

		txBids := bidRepository.New(tx)
		b, err := txBids.GetByProjectAndMember(ctx, projectID, caller.MemberID)
		if err != nil {
			if errors.Is(err, bidModel.ErrBidNotFound) {
				return rosterModel.ErrNotParticipant
			}
			return err
		}
		if b.State != bidModel.StateAccepted || b.MemberConfirmed == nil || !*b.MemberConfirmed {
			return rosterModel.ErrNotParticipant
		}

		b.WorkFinished = !b.WorkFinished
		if b.WorkFinished {
			now := time.Now()
			b.WorkFinishedAt = &now
		} else {
			b.WorkFinishedAt = nil
		}
		if err := txBids.Save(ctx, b); err != nil {
			return err
		}

		result.WorkFinished = b.WorkFinished

		roster, err := txBids.GetRoster(ctx, projectID)
		if err != nil {
			return err
		}
		if bidModel.AllFinished(roster) {
			p.Close(projectModel.StateCompleted, "all participants finished work", projectModel.ClosedByTeam)
			if err := tx.Save(p).Error; err != nil {
				return err
			}
			// Completion supersedes any open cancellation request.
			if err := cancellationRepository.New(tx).ResolveOpenForProject(
				ctx, projectID, cancellationModel.StatusRejected, time.Now()); err != nil {
				return err
			}
			result.AutoCompleted = true
		}
		result.ProjectState = string(p.State)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.AutoCompleted {
		go s.dispatcher.Dispatch(context.Background(), notify.Event{
			Type:      notify.EventProjectCompleted,
			ProjectID: projectID,
			Detail:    "auto-completed: all participants finished work",
		})
	}

	return &result, nil
}

func (s *service) RemoveParticipant(
	ctx context.Context,
	caller auth.Caller,
	projectID string,
	req *rosterModel.RemoveParticipantRequest,
) error {
	if req.Justification == "" {
		return rosterModel.ErrMissingJustification
	}

	var removedMember string
	err := database.RunInProjectTx(ctx, s.db, projectID, func(tx *gorm.DB, p *projectModel.Project) error {
		if !projectModel.CanPerform(caller, p, projectModel.OpRemoveParticipant) {
			return projectModel.ErrForbidden
		}
		if !p.State.IsActive() {
			return projectModel.ErrInvalidStateTransition
		}

		txBids := bidRepository.New(tx)
		b, err := txBids.GetByID(ctx, projectID, req.BidID)
		if err != nil {
			return err
		}
		if b.State != bidModel.StateAccepted {
			return projectModel.ErrInvalidStateTransition
		}

		// Reported is distinct from a normal rejection: it is terminal and
		// blocks re-bidding.
		b.State = bidModel.StateReported
		b.RemovalJustification = &req.Justification
		b.WorkFinished = false
		b.WorkFinishedAt = nil
		removedMember = b.MemberID
		return txBids.Save(ctx, b)
	})
	if err != nil {
		return err
	}

	go s.dispatcher.Dispatch(context.Background(), notify.Event{
		Type:      notify.EventParticipantRemoved,
		ProjectID: projectID,
		Subject:   removedMember,
		Detail:    req.Justification,
	})

	return nil
}
