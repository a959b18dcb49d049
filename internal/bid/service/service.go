// Package service provides the business logic layer for the bid module:
// the bid ledger and its negotiation sub-protocol.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/teamlance/engagements/internal/auth"
	bidModel "github.com/teamlance/engagements/internal/bid/model"
	"github.com/teamlance/engagements/internal/bid/repository"
	"github.com/teamlance/engagements/internal/database/database"
	"github.com/teamlance/engagements/internal/notify"
	projectModel "github.com/teamlance/engagements/internal/project/model"
)

// Service defines the interface for bid business logic operations.
type Service interface {
	// Submit creates (or revives a rejected) bid on a project open for bidding.
	Submit(
		ctx context.Context,
		caller auth.Caller,
		projectID string,
		req *bidModel.SubmitBidRequest,
	) (*bidModel.BidResponse, error)

	// Accept marks a pending bid accepted with the agreed amount.
	Accept(
		ctx context.Context,
		caller auth.Caller,
		projectID, bidID string,
		amount float64,
	) (*bidModel.BidResponse, error)

	// Reject declines a pending bid; the member may revise and resubmit.
	Reject(
		ctx context.Context,
		caller auth.Caller,
		projectID, bidID string,
	) (*bidModel.BidResponse, error)

	// Resend re-offers revised terms after the member declined.
	Resend(
		ctx context.Context,
		caller auth.Caller,
		projectID, bidID string,
		amount float64,
	) (*bidModel.BidResponse, error)

	// Respond records the member's answer to accepted terms.
	Respond(
		ctx context.Context,
		caller auth.Caller,
		projectID, bidID string,
		accept bool,
	) (*bidModel.RespondResponse, error)

	// ListByProject returns the bids visible to the caller.
	ListByProject(
		ctx context.Context,
		caller auth.Caller,
		projectID string,
	) ([]bidModel.BidResponse, error)
}

type service struct {
	repo       repository.Repository
	db         *gorm.DB
	logger     *zap.SugaredLogger
	dispatcher notify.Dispatcher
}

// New creates a new bid service instance.
func New(
	repo repository.Repository,
	db *gorm.DB,
	logger *zap.SugaredLogger,
	dispatcher notify.Dispatcher,
) Service {
	return &service{
		repo:       repo,
		db:         db,
		logger:     logger,
		dispatcher: dispatcher,
	}
}

func (s *service) Submit(
	ctx context.Context,
	caller auth.Caller,
	projectID string,
	req *bidModel.SubmitBidRequest,
) (*bidModel.BidResponse, error) {
	if !caller.IsMember() {
		return nil, projectModel.ErrForbidden
	}
	if req.Price <= 0 {
		return nil, bidModel.ErrInvalidAmount
	}
	if req.EstimatedDays != nil && *req.EstimatedDays <= 0 {
		return nil, fmt.Errorf("%w: estimated_days must be positive", projectModel.ErrInvalidInput)
	}

	var result *bidModel.Bid
	err := database.RunInProjectTx(ctx, s.db, projectID, func(tx *gorm.DB, p *projectModel.Project) error {
		if !p.OpenForBidding() {
			return bidModel.ErrNotOpenForBidding
		}
		if p.OwnerKind == projectModel.OwnerMember && p.MemberID != nil && *p.MemberID == caller.MemberID {
			return bidModel.ErrOwnProject
		}

		txRepo := repository.New(tx)
		existing, err := txRepo.GetByProjectAndMember(ctx, projectID, caller.MemberID)
		if err != nil && !errors.Is(err, bidModel.ErrBidNotFound) {
			return err
		}

		if existing != nil {
			switch existing.State {
			case bidModel.StateReported:
				return bidModel.ErrMemberRemoved
			case bidModel.StateRejected:
				// A rejected bid is revised in place rather than duplicated.
				existing.Proposal = req.Proposal
				existing.Price = req.Price
				existing.EstimatedDays = req.EstimatedDays
				existing.State = bidModel.StatePending
				existing.AgreedAmount = nil
				existing.MemberConfirmed = nil
				existing.ConfirmedAt = nil
				result = existing
				return txRepo.Save(ctx, existing)
			default:
				return bidModel.ErrDuplicateBid
			}
		}

		b := &bidModel.Bid{
			BidID:         uuid.NewString(),
			ProjectID:     projectID,
			MemberID:      caller.MemberID,
			Proposal:      req.Proposal,
			Price:         req.Price,
			EstimatedDays: req.EstimatedDays,
			State:         bidModel.StatePending,
			CreatedAt:     time.Now(),
		}
		result = b
		return txRepo.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	return bidModel.NewBidResponse(result), nil
}

func (s *service) Accept(
	ctx context.Context,
	caller auth.Caller,
	projectID, bidID string,
	amount float64,
) (*bidModel.BidResponse, error) {
	if amount <= 0 {
		return nil, bidModel.ErrInvalidAmount
	}

	var result *bidModel.Bid
	err := database.RunInProjectTx(ctx, s.db, projectID, func(tx *gorm.DB, p *projectModel.Project) error {
		if !p.IsOwner(caller) {
			return projectModel.ErrForbidden
		}
		if !p.OpenForBidding() {
			return bidModel.ErrNotOpenForBidding
		}

		txRepo := repository.New(tx)
		b, err := txRepo.GetByID(ctx, projectID, bidID)
		if err != nil {
			return err
		}
		if b.State != bidModel.StatePending {
			return projectModel.ErrInvalidStateTransition
		}

		b.State = bidModel.StateAccepted
		b.AgreedAmount = &amount
		b.MemberConfirmed = nil
		b.ConfirmedAt = nil
		result = b
		return txRepo.Save(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	go s.dispatcher.Dispatch(context.Background(), notify.Event{
		Type:      notify.EventBidAccepted,
		ProjectID: projectID,
		Subject:   result.MemberID,
		Detail:    fmt.Sprintf("bid accepted at %.2f", amount),
	})

	return bidModel.NewBidResponse(result), nil
}

func (s *service) Reject(
	ctx context.Context,
	caller auth.Caller,
	projectID, bidID string,
) (*bidModel.BidResponse, error) {
	var result *bidModel.Bid
	err := database.RunInProjectTx(ctx, s.db, projectID, func(tx *gorm.DB, p *projectModel.Project) error {
		if !p.IsOwner(caller) {
			return projectModel.ErrForbidden
		}
		if p.State.IsTerminal() {
			return projectModel.ErrInvalidStateTransition
		}

		txRepo := repository.New(tx)
		b, err := txRepo.GetByID(ctx, projectID, bidID)
		if err != nil {
			return err
		}
		if b.State != bidModel.StatePending {
			return projectModel.ErrInvalidStateTransition
		}

		b.State = bidModel.StateRejected
		result = b
		return txRepo.Save(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	go s.dispatcher.Dispatch(context.Background(), notify.Event{
		Type:      notify.EventBidRejected,
		ProjectID: projectID,
		Subject:   result.MemberID,
		Detail:    "bid rejected",
	})

	return bidModel.NewBidResponse(result), nil
}

func (s *service) Resend(
	ctx context.Context,
	caller auth.Caller,
	projectID, bidID string,
	amount float64,
) (*bidModel.BidResponse, error) {
	if amount <= 0 {
		return nil, bidModel.ErrInvalidAmount
	}

	var result *bidModel.Bid
	err := database.RunInProjectTx(ctx, s.db, projectID, func(tx *gorm.DB, p *projectModel.Project) error {
		if !p.IsOwner(caller) {
			return projectModel.ErrForbidden
		}
		if p.State.IsTerminal() {
			return projectModel.ErrInvalidStateTransition
		}

		txRepo := repository.New(tx)
		b, err := txRepo.GetByID(ctx, projectID, bidID)
		if err != nil {
			return err
		}
		if !b.Declined() {
			return bidModel.ErrNotDeclined
		}

		b.AgreedAmount = &amount
		b.MemberConfirmed = nil
		b.ConfirmedAt = nil
		result = b
		return txRepo.Save(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	go s.dispatcher.Dispatch(context.Background(), notify.Event{
		Type:      notify.EventBidResent,
		ProjectID: projectID,
		Subject:   result.MemberID,
		Detail:    fmt.Sprintf("revised offer at %.2f", amount),
	})

	return bidModel.NewBidResponse(result), nil
}

func (s *service) Respond(
	ctx context.Context,
	caller auth.Caller,
	projectID, bidID string,
	accept bool,
) (*bidModel.RespondResponse, error) {
	if !caller.IsMember() {
		return nil, projectModel.ErrForbidden
	}

	var (
		result       *bidModel.Bid
		projectState projectModel.State
		stateChanged bool
	)
	err := database.RunInProjectTx(ctx, s.db, projectID, func(tx *gorm.DB, p *projectModel.Project) error {
		if p.State.IsTerminal() {
			return projectModel.ErrInvalidStateTransition
		}

		txRepo := repository.New(tx)
		b, err := txRepo.GetByID(ctx, projectID, bidID)
		if err != nil {
			return err
		}
		if b.MemberID != caller.MemberID {
			return projectModel.ErrForbidden
		}
		if !b.AwaitingResponse() {
			return bidModel.ErrNotAwaitingResponse
		}

		now := time.Now()
		b.MemberConfirmed = &accept
		b.ConfirmedAt = &now
		if err := txRepo.Save(ctx, b); err != nil {
			return err
		}

		// The first confirmed participant moves a published project to
		// assigned.
		if accept && p.State == projectModel.StatePublished {
			p.State = projectModel.StateAssigned
			if err := tx.Save(p).Error; err != nil {
				return err
			}
			stateChanged = true
		}

		result = b
		projectState = p.State
		return nil
	})
	if err != nil {
		return nil, err
	}

	if stateChanged {
		go s.dispatcher.Dispatch(context.Background(), notify.Event{
			Type:      notify.EventProjectStateChanged,
			ProjectID: projectID,
			Detail:    string(projectModel.StateAssigned),
		})
	}

	return &bidModel.RespondResponse{
		Bid:          bidModel.NewBidResponse(result),
		ProjectState: string(projectState),
	}, nil
}

func (s *service) ListByProject(
	ctx context.Context,
	caller auth.Caller,
	projectID string,
) ([]bidModel.BidResponse, error) {
	var p projectModel.Project
	if err := s.db.WithContext(ctx).Where("project_id = ?", projectID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, projectModel.ErrProjectNotFound
		}
		return nil, err
	}

	bids, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	seeAll := caller.IsAdmin() || p.IsOwner(caller)
	responses := make([]bidModel.BidResponse, 0, len(bids))
	for i := range bids {
		b := &bids[i]
		if !seeAll && b.MemberID != caller.MemberID {
			continue
		}
		responses = append(responses, *bidModel.NewBidResponse(b))
	}
	return responses, nil
}
