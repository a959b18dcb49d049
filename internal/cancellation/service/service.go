// Package service provides the business logic layer for the cancellation
// module: the unanimous-consent cancellation protocol.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/teamlance/engagements/internal/auth"
	bidRepository "github.com/teamlance/engagements/internal/bid/repository"
	cancellationModel "github.com/teamlance/engagements/internal/cancellation/model"
	"github.com/teamlance/engagements/internal/cancellation/repository"
	"github.com/teamlance/engagements/internal/database/database"
	"github.com/teamlance/engagements/internal/notify"
	projectModel "github.com/teamlance/engagements/internal/project/model"
)

// Service defines the interface for cancellation business logic operations.
type Service interface {
	// Create opens a cancellation request; the creator's confirm vote is
	// recorded at creation time.
	Create(
		ctx context.Context,
		caller auth.Caller,
		projectID string,
		reason string,
	) (*cancellationModel.RequestResponse, error)

	// Vote records a participant's vote and resolves the request when the
	// outcome is decided.
	Vote(
		ctx context.Context,
		caller auth.Caller,
		projectID string,
		choice, comment string,
	) (*cancellationModel.RequestResponse, error)

	// Withdraw discards an open request while the creator is the sole voter.
	Withdraw(ctx context.Context, caller auth.Caller, projectID string) error

	// Get returns the open request with its votes.
	Get(
		ctx context.Context,
		caller auth.Caller,
		projectID string,
	) (*cancellationModel.RequestResponse, error)
}

type service struct {
	repo       repository.Repository
	bids       bidRepository.Repository
	db         *gorm.DB
	logger     *zap.SugaredLogger
	dispatcher notify.Dispatcher
}

// New creates a new cancellation service instance.
func New(
	repo repository.Repository,
	bids bidRepository.Repository,
	db *gorm.DB,
	logger *zap.SugaredLogger,
	dispatcher notify.Dispatcher,
) Service {
	return &service{
		repo:       repo,
		bids:       bids,
		db:         db,
		logger:     logger,
		dispatcher: dispatcher,
	}
}

func (s *service) Create(
	ctx context.Context,
	caller auth.Caller,
	projectID string,
	reason string,
) (*cancellationModel.RequestResponse, error) {
	if len(reason) < cancellationModel.MinReasonLength {
		return nil, cancellationModel.ErrReasonTooShort
	}

	var (
		result       *cancellationModel.Request
		votes        []cancellationModel.Vote
		projectState projectModel.State
		resolved     bool
	)
	err := database.RunInProjectTx(ctx, s.db, projectID, func(tx *gorm.DB, p *projectModel.Project) error {
		if !p.State.IsActive() {
			return projectModel.ErrInvalidStateTransition
		}

		txRepo := repository.New(tx)
		txBids := bidRepository.New(tx)

		if _, err := txRepo.GetOpenByProject(ctx, projectID); err == nil {
			return cancellationModel.ErrRequestAlreadyOpen
		} else if !errors.Is(err, cancellationModel.ErrRequestNotFound) {
			return err
		}

		eligible, err := s.currentEligible(ctx, txBids, p)
		if err != nil {
			return err
		}
		creatorID := caller.ParticipantID()
		if !cancellationModel.IsEligible(eligible, creatorID) {
			return cancellationModel.ErrNotParticipant
		}

		now := time.Now()
		req := &cancellationModel.Request{
			RequestID:     uuid.NewString(),
			ProjectID:     projectID,
			CreatedBy:     creatorID,
			CreatedByRole: string(caller.Role),
			Reason:        reason,
			Status:        cancellationModel.StatusOpen,
			CreatedAt:     now,
		}
		if err := txRepo.Create(ctx, req); err != nil {
			return err
		}

		// The creator's own vote is a confirm, recorded at creation time.
		creatorVote := &cancellationModel.Vote{
			VoteID:    uuid.NewString(),
			RequestID: req.RequestID,
			VoterID:   creatorID,
			VoterRole: string(caller.Role),
			Vote:      cancellationModel.VoteConfirm,
			CreatedAt: now,
		}
		if err := txRepo.CreateVote(ctx, creatorVote); err != nil {
			return err
		}

		votes = []cancellationModel.Vote{*creatorVote}

		// A sole participant resolves immediately.
		if cancellationModel.AllConfirmed(eligible, votes) {
			if err := s.resolveCancelled(ctx, txRepo, tx, req, p, now); err != nil {
				return err
			}
			resolved = true
		}

		result = req
		projectState = p.State
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resolved {
		s.dispatchCancelled(projectID, result.Reason)
	}

	return cancellationModel.NewRequestResponse(result, votes, string(projectState)), nil
}

func (s *service) Vote(
	ctx context.Context,
	caller auth.Caller,
	projectID string,
	choice, comment string,
) (*cancellationModel.RequestResponse, error) {
	if choice != cancellationModel.VoteConfirm && choice != cancellationModel.VoteReject {
		return nil, cancellationModel.ErrInvalidChoice
	}

	var (
		result       *cancellationModel.Request
		votes        []cancellationModel.Vote
		projectState projectModel.State
		cancelled    bool
	)
	err := database.RunInProjectTx(ctx, s.db, projectID, func(tx *gorm.DB, p *projectModel.Project) error {
		// A project that left active work cannot be cancelled by consensus
		// anymore, no matter how a lingering request got here.
		if !p.State.IsActive() {
			return projectModel.ErrInvalidStateTransition
		}

		txRepo := repository.New(tx)
		txBids := bidRepository.New(tx)

		req, err := txRepo.GetOpenByProject(ctx, projectID)
		if err != nil {
			return err
		}

		eligible, err := s.currentEligible(ctx, txBids, p)
		if err != nil {
			return err
		}
		voterID := caller.ParticipantID()
		if !cancellationModel.IsEligible(eligible, voterID) {
			return cancellationModel.ErrNotParticipant
		}

		existing, err := txRepo.GetVotes(ctx, req.RequestID)
		if err != nil {
			return err
		}
		for _, v := range existing {
			if v.VoterID == voterID {
				return cancellationModel.ErrDuplicateVote
			}
		}

		now := time.Now()
		vote := &cancellationModel.Vote{
			VoteID:    uuid.NewString(),
			RequestID: req.RequestID,
			VoterID:   voterID,
			VoterRole: string(caller.Role),
			Vote:      choice,
			CreatedAt: now,
		}
		if comment != "" {
			vote.Comment = &comment
		}
		if err := txRepo.CreateVote(ctx, vote); err != nil {
			return err
		}

		if choice == cancellationModel.VoteReject {
			// A single reject resolves the request; votes are discarded so a
			// fresh request can be opened later.
			if err := txRepo.DeleteVotes(ctx, req.RequestID); err != nil {
				return err
			}
			if err := txRepo.Resolve(ctx, req.RequestID, cancellationModel.StatusRejected, now); err != nil {
				return err
			}
			req.Status = cancellationModel.StatusRejected
			req.ResolvedAt = &now
			votes = []cancellationModel.Vote{}
			result = req
			projectState = p.State
			return nil
		}

		all := append(existing, *vote)
		if cancellationModel.AllConfirmed(eligible, all) {
			if err := s.resolveCancelled(ctx, txRepo, tx, req, p, now); err != nil {
				return err
			}
			cancelled = true
		}

		votes = all
		result = req
		projectState = p.State
		return nil
	})
	if err != nil {
		return nil, err
	}

	if cancelled {
		s.dispatchCancelled(projectID, result.Reason)
	}

	return cancellationModel.NewRequestResponse(result, votes, string(projectState)), nil
}

func (s *service) Withdraw(ctx context.Context, caller auth.Caller, projectID string) error {
	return database.RunInProjectTx(ctx, s.db, projectID, func(tx *gorm.DB, p *projectModel.Project) error {
		txRepo := repository.New(tx)

		req, err := txRepo.GetOpenByProject(ctx, projectID)
		if err != nil {
			return err
		}
		if req.CreatedBy != caller.ParticipantID() {
			return cancellationModel.ErrNotCreator
		}

		votes, err := txRepo.GetVotes(ctx, req.RequestID)
		if err != nil {
			return err
		}
		// Withdrawal is only possible while the creator's own confirm is the
		// sole vote.
		if len(votes) != 1 || votes[0].VoterID != req.CreatedBy {
			return cancellationModel.ErrVotesAlreadyCast
		}

		return txRepo.Delete(ctx, req.RequestID)
	})
}

func (s *service) Get(
	ctx context.Context,
	caller auth.Caller,
	projectID string,
) (*cancellationModel.RequestResponse, error) {
	var (
		result       *cancellationModel.Request
		votes        []cancellationModel.Vote
		projectState projectModel.State
	)
	err := database.RunInProjectTx(ctx, s.db, projectID, func(tx *gorm.DB, p *projectModel.Project) error {
		txRepo := repository.New(tx)
		txBids := bidRepository.New(tx)

		req, err := txRepo.GetOpenByProject(ctx, projectID)
		if err != nil {
			return err
		}

		eligible, err := s.currentEligible(ctx, txBids, p)
		if err != nil {
			return err
		}
		if !caller.IsAdmin() && !cancellationModel.IsEligible(eligible, caller.ParticipantID()) {
			return projectModel.ErrForbidden
		}

		votes, err = txRepo.GetVotes(ctx, req.RequestID)
		if err != nil {
			return err
		}
		result = req
		projectState = p.State
		return nil
	})
	if err != nil {
		return nil, err
	}

	return cancellationModel.NewRequestResponse(result, votes, string(projectState)), nil
}

// currentEligible computes the eligible-voter set from the current roster:
// the owner plus every confirmed roster member. Recomputed at every
// evaluation so removed participants drop out of the unanimity requirement.
func (s *service) currentEligible(
	ctx context.Context,
	bids bidRepository.Repository,
	p *projectModel.Project,
) ([]cancellationModel.Participant, error) {
	roster, err := bids.GetRoster(ctx, p.ProjectID)
	if err != nil {
		return nil, err
	}

	eligible := make([]cancellationModel.Participant, 0, len(roster)+1)
	ownerRole := auth.RoleClient
	if p.OwnerKind == projectModel.OwnerMember {
		ownerRole = auth.RoleMember
	}
	if ownerID := p.OwnerParticipantID(); ownerID != "" {
		eligible = append(eligible, cancellationModel.Participant{
			ID:   ownerID,
			Role: string(ownerRole),
		})
	}
	for _, e := range roster {
		if e.Confirmed() {
			eligible = append(eligible, cancellationModel.Participant{
				ID:   e.MemberID,
				Role: string(auth.RoleMember),
			})
		}
	}
	return eligible, nil
}

// resolveCancelled marks the request cancelled and drives the project into
// the cancelled terminal state within the same transaction.
func (s *service) resolveCancelled(
	ctx context.Context,
	txRepo repository.Repository,
	tx *gorm.DB,
	req *cancellationModel.Request,
	p *projectModel.Project,
	at time.Time,
) error {
	if err := txRepo.Resolve(ctx, req.RequestID, cancellationModel.StatusCancelled, at); err != nil {
		return err
	}
	req.Status = cancellationModel.StatusCancelled
	req.ResolvedAt = &at

	p.Close(projectModel.StateCancelled, req.Reason, projectModel.ClosedByTeam)
	return tx.Save(p).Error
}

func (s *service) dispatchCancelled(projectID, reason string) {
	go s.dispatcher.Dispatch(context.Background(), notify.Event{
		Type:      notify.EventProjectStateChanged,
		ProjectID: projectID,
		Detail:    "cancelled by unanimous consent: " + reason,
	})
}
