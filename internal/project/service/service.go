// Package service provides the business logic layer for the project module:
// the lifecycle state machine and its owner-driven transitions.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/teamlance/engagements/internal/auth"
	bidRepository "github.com/teamlance/engagements/internal/bid/repository"
	cancellationModel "github.com/teamlance/engagements/internal/cancellation/model"
	cancellationRepository "github.com/teamlance/engagements/internal/cancellation/repository"
	"github.com/teamlance/engagements/internal/database/database"
	"github.com/teamlance/engagements/internal/notify"
	projectModel "github.com/teamlance/engagements/internal/project/model"
	"github.com/teamlance/engagements/internal/project/repository"
)

// Service defines the interface for project business logic operations.
type Service interface {
	// Create registers a new draft project owned by the caller.
	Create(
		ctx context.Context,
		caller auth.Caller,
		req *projectModel.CreateProjectRequest,
	) (*projectModel.ProjectResponse, error)

	// Get returns a project visible to the caller.
	Get(ctx context.Context, caller auth.Caller, projectID string) (*projectModel.ProjectResponse, error)

	// ListByOwner returns the caller's own projects.
	ListByOwner(ctx context.Context, caller auth.Caller) ([]projectModel.ProjectResponse, error)

	// Publish moves a draft project into bidding.
	Publish(ctx context.Context, caller auth.Caller, projectID string) (*projectModel.ProjectResponse, error)

	// Plan locks the team in: published|assigned to planned, full roster
	// confirmation required.
	Plan(ctx context.Context, caller auth.Caller, projectID string) (*projectModel.ProjectResponse, error)

	// Start begins active work: planned to started.
	Start(ctx context.Context, caller auth.Caller, projectID string) (*projectModel.ProjectResponse, error)

	// Advance moves to the next active stage.
	Advance(ctx context.Context, caller auth.Caller, projectID string) (*projectModel.ProjectResponse, error)

	// Republish reopens an in-progress project for additional bids.
	Republish(
		ctx context.Context,
		caller auth.Caller,
		projectID, title, description string,
	) (*projectModel.ProjectResponse, error)

	// CloseCall stops accepting additional bids after a republish.
	CloseCall(ctx context.Context, caller auth.Caller, projectID string) (*projectModel.ProjectResponse, error)

	// Close drives an active project into a terminal state by reason code.
	Close(
		ctx context.Context,
		caller auth.Caller,
		projectID string,
		req *projectModel.CloseProjectRequest,
	) (*projectModel.ProjectResponse, error)

	// CancelEarly cancels a project that never reached active work.
	CancelEarly(
		ctx context.Context,
		caller auth.Caller,
		projectID, reason string,
	) (*projectModel.ProjectResponse, error)

	// Delete removes a project and everything attached to it.
	Delete(ctx context.Context, caller auth.Caller, projectID string) error
}

type service struct {
	repo       repository.Repository
	db         *gorm.DB
	logger     *zap.SugaredLogger
	dispatcher notify.Dispatcher
}

// New creates a new project service instance.
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

func (s *service) Create(
	ctx context.Context,
	caller auth.Caller,
	req *projectModel.CreateProjectRequest,
) (*projectModel.ProjectResponse, error) {
	if !caller.IsClient() && !caller.IsMember() {
		return nil, projectModel.ErrForbidden
	}
	if req.BudgetMin != nil && *req.BudgetMin < 0 {
		return nil, projectModel.ErrInvalidBudget
	}
	if req.BudgetMax != nil && *req.BudgetMax < 0 {
		return nil, projectModel.ErrInvalidBudget
	}
	if req.BudgetMin != nil && req.BudgetMax != nil && *req.BudgetMin > *req.BudgetMax {
		return nil, projectModel.ErrInvalidBudget
	}

	visibility := projectModel.VisibilityPublic
	if req.Visibility == string(projectModel.VisibilityPrivate) {
		visibility = projectModel.VisibilityPrivate
	}

	p := &projectModel.Project{
		ProjectID:   uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		BudgetMin:   req.BudgetMin,
		BudgetMax:   req.BudgetMax,
		Deadline:    req.Deadline,
		State:       projectModel.StateDraft,
		Visibility:  visibility,
		CreatedAt:   time.Now(),
	}
	if caller.IsClient() {
		p.OwnerKind = projectModel.OwnerClient
		clientID := caller.ClientID
		p.ClientID = &clientID
	} else {
		p.OwnerKind = projectModel.OwnerMember
		memberID := caller.MemberID
		p.MemberID = &memberID
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return projectModel.NewProjectResponse(p), nil
}

func (s *service) Get(
	ctx context.Context,
	caller auth.Caller,
	projectID string,
) (*projectModel.ProjectResponse, error) {
	p, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !projectModel.CanPerform(caller, p, projectModel.OpView) {
		return nil, projectModel.ErrForbidden
	}
	return projectModel.NewProjectResponse(p), nil
}

func (s *service) ListByOwner(
	ctx context.Context,
	caller auth.Caller,
) ([]projectModel.ProjectResponse, error) {
	var (
		projects []projectModel.Project
		err      error
	)
	switch {
	case caller.IsClient():
		projects, err = s.repo.ListByClient(ctx, caller.ClientID)
	case caller.IsMember():
		projects, err = s.repo.ListByMember(ctx, caller.MemberID)
	default:
		return nil, projectModel.ErrForbidden
	}
	if err != nil {
		return nil, err
	}

	responses := make([]projectModel.ProjectResponse, 0, len(projects))
	for i := range projects {
		responses = append(responses, *projectModel.NewProjectResponse(&projects[i]))
	}
	return responses, nil
}

func (s *service) Publish(
	ctx context.Context,
	caller auth.Caller,
	projectID string,
) (*projectModel.ProjectResponse, error) {
	return s.transition(ctx, caller, projectID, projectModel.OpPublish,
		func(tx *gorm.DB, p *projectModel.Project) error {
			if p.State != projectModel.StateDraft {
				return projectModel.ErrInvalidStateTransition
			}
			p.State = projectModel.StatePublished
			return nil
		})
}

func (s *service) Plan(
	ctx context.Context,
	caller auth.Caller,
	projectID string,
) (*projectModel.ProjectResponse, error) {
	return s.transition(ctx, caller, projectID, projectModel.OpPlan,
		func(tx *gorm.DB, p *projectModel.Project) error {
			if p.State != projectModel.StatePublished && p.State != projectModel.StateAssigned {
				return projectModel.ErrInvalidStateTransition
			}
			roster, err := bidRepository.New(tx).GetRoster(ctx, p.ProjectID)
			if err != nil {
				return err
			}
			if len(roster) == 0 {
				return projectModel.ErrInvalidStateTransition
			}
			for _, e := range roster {
				if !e.Confirmed() {
					return projectModel.ErrInvalidStateTransition
				}
			}
			p.State = projectModel.StatePlanned
			return nil
		})
}

func (s *service) Start(
	ctx context.Context,
	caller auth.Caller,
	projectID string,
) (*projectModel.ProjectResponse, error) {
	return s.transition(ctx, caller, projectID, projectModel.OpStart,
		func(tx *gorm.DB, p *projectModel.Project) error {
			if p.State != projectModel.StatePlanned {
				return projectModel.ErrInvalidStateTransition
			}
			p.State = projectModel.StateStarted
			return nil
		})
}

func (s *service) Advance(
	ctx context.Context,
	caller auth.Caller,
	projectID string,
) (*projectModel.ProjectResponse, error) {
	return s.transition(ctx, caller, projectID, projectModel.OpAdvance,
		func(tx *gorm.DB, p *projectModel.Project) error {
			next, ok := p.State.NextStage()
			if !ok {
				return projectModel.ErrInvalidStateTransition
			}
			p.State = next
			return nil
		})
}

func (s *service) Republish(
	ctx context.Context,
	caller auth.Caller,
	projectID, title, description string,
) (*projectModel.ProjectResponse, error) {
	if title == "" || description == "" {
		return nil, projectModel.ErrInvalidInput
	}
	return s.transition(ctx, caller, projectID, projectModel.OpRepublish,
		func(tx *gorm.DB, p *projectModel.Project) error {
			if p.State != projectModel.StateInProgress || p.ReopenedForBidding {
				return projectModel.ErrInvalidStateTransition
			}
			p.Title = title
			p.Description = description
			p.ReopenedForBidding = true
			return nil
		})
}

func (s *service) CloseCall(
	ctx context.Context,
	caller auth.Caller,
	projectID string,
) (*projectModel.ProjectResponse, error) {
	return s.transition(ctx, caller, projectID, projectModel.OpCloseCall,
		func(tx *gorm.DB, p *projectModel.Project) error {
			if !p.ReopenedForBidding {
				return projectModel.ErrInvalidStateTransition
			}
			p.ReopenedForBidding = false
			return nil
		})
}

func (s *service) Close(
	ctx context.Context,
	caller auth.Caller,
	projectID string,
	req *projectModel.CloseProjectRequest,
) (*projectModel.ProjectResponse, error) {
	reason := projectModel.CloseReason(req.Reason)
	if reason == projectModel.CloseReportMember {
		return nil, projectModel.ErrReportMemberNotClose
	}
	target, ok := reason.TargetState()
	if !ok {
		return nil, projectModel.ErrInvalidInput
	}
	if reason.RequiresJustification() && req.Justification == "" {
		return nil, projectModel.ErrMissingJustification
	}

	closedBy := projectModel.ClosedByTeam
	if caller.IsClient() {
		closedBy = projectModel.ClosedByClient
	} else if caller.IsMember() {
		closedBy = projectModel.ClosedByMember
	}

	closure := req.Justification
	if closure == "" {
		closure = req.Reason
	}

	return s.transition(ctx, caller, projectID, projectModel.OpClose,
		func(tx *gorm.DB, p *projectModel.Project) error {
			if !p.State.IsActive() {
				return projectModel.ErrInvalidStateTransition
			}
			p.Close(target, closure, closedBy)
			// An open cancellation request is moot once the project is
			// terminal; discard it so no late vote can act on it.
			return cancellationRepository.New(tx).ResolveOpenForProject(
				ctx, p.ProjectID, cancellationModel.StatusRejected, time.Now())
		})
}

func (s *service) CancelEarly(
	ctx context.Context,
	caller auth.Caller,
	projectID, reason string,
) (*projectModel.ProjectResponse, error) {
	closedBy := projectModel.ClosedByTeam
	if caller.IsClient() {
		closedBy = projectModel.ClosedByClient
	} else if caller.IsMember() {
		closedBy = projectModel.ClosedByMember
	}

	return s.transition(ctx, caller, projectID, projectModel.OpCancelEarly,
		func(tx *gorm.DB, p *projectModel.Project) error {
			switch p.State {
			case projectModel.StateDraft, projectModel.StatePublished,
				projectModel.StateAssigned, projectModel.StatePlanned:
				p.Close(projectModel.StateCancelled, reason, closedBy)
				return nil
			}
			return projectModel.ErrInvalidStateTransition
		})
}

func (s *service) Delete(ctx context.Context, caller auth.Caller, projectID string) error {
	return database.RunInProjectTx(ctx, s.db, projectID, func(tx *gorm.DB, p *projectModel.Project) error {
		if !projectModel.CanPerform(caller, p, projectModel.OpDelete) {
			return projectModel.ErrForbidden
		}
		return repository.New(tx).Delete(ctx, p.ProjectID)
	})
}

// transition runs a guarded state mutation inside the project's critical
// section and dispatches a state-change notification after commit.
func (s *service) transition(
	ctx context.Context,
	caller auth.Caller,
	projectID string,
	op projectModel.Operation,
	mutate func(tx *gorm.DB, p *projectModel.Project) error,
) (*projectModel.ProjectResponse, error) {
	var (
		result *projectModel.Project
		before projectModel.State
	)
	err := database.RunInProjectTx(ctx, s.db, projectID, func(tx *gorm.DB, p *projectModel.Project) error {
		if !projectModel.CanPerform(caller, p, op) {
			return projectModel.ErrForbidden
		}
		if p.State.IsTerminal() {
			return projectModel.ErrInvalidStateTransition
		}
		before = p.State
		if err := mutate(tx, p); err != nil {
			return err
		}
		result = p
		return tx.Save(p).Error
	})
	if err != nil {
		return nil, err
	}

	if result.State != before {
		go s.dispatcher.Dispatch(context.Background(), notify.Event{
			Type:      notify.EventProjectStateChanged,
			ProjectID: projectID,
			Subject:   string(result.State),
			Detail:    string(op),
		})
	}

	return projectModel.NewProjectResponse(result), nil
}
