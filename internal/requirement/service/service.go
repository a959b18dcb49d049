// Package service provides the business logic layer for the requirement
// module: role- and state-gated checklist management.
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
	"github.com/teamlance/engagements/internal/database/database"
	"github.com/teamlance/engagements/internal/notify"
	projectModel "github.com/teamlance/engagements/internal/project/model"
	requirementModel "github.com/teamlance/engagements/internal/requirement/model"
	"github.com/teamlance/engagements/internal/requirement/repository"
)

// Service defines the interface for requirement business logic operations.
type Service interface {
	// Add creates a requirement on a project.
	Add(
		ctx context.Context,
		caller auth.Caller,
		projectID string,
		req *requirementModel.AddRequirementRequest,
	) (*requirementModel.RequirementResponse, error)

	// Update edits a requirement's fields.
	Update(
		ctx context.Context,
		caller auth.Caller,
		projectID, requirementID string,
		req *requirementModel.UpdateRequirementRequest,
	) (*requirementModel.RequirementResponse, error)

	// ToggleCompleted flips the completed flag, attributing the completer.
	ToggleCompleted(
		ctx context.Context,
		caller auth.Caller,
		projectID, requirementID string,
	) (*requirementModel.RequirementResponse, error)

	// Delete removes a requirement.
	Delete(ctx context.Context, caller auth.Caller, projectID, requirementID string) error

	// ListByProject returns all requirements of a project.
	ListByProject(
		ctx context.Context,
		caller auth.Caller,
		projectID string,
	) ([]requirementModel.RequirementResponse, error)
}

type service struct {
	repo       repository.Repository
	db         *gorm.DB
	logger     *zap.SugaredLogger
	dispatcher notify.Dispatcher
}

// New creates a new requirement service instance.
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

func (s *service) Add(
	ctx context.Context,
	caller auth.Caller,
	projectID string,
	req *requirementModel.AddRequirementRequest,
) (*requirementModel.RequirementResponse, error) {
	if req.Cost != nil && *req.Cost <= 0 {
		return nil, requirementModel.ErrInvalidCost
	}

	var result *requirementModel.Requirement
	err := database.RunInProjectTx(ctx, s.db, projectID, func(tx *gorm.DB, p *projectModel.Project) error {
		if p.State.IsTerminal() {
			return projectModel.ErrInvalidStateTransition
		}
		allowed, err := s.canAuthor(ctx, tx, caller, p)
		if err != nil {
			return err
		}
		if !allowed {
			return projectModel.ErrForbidden
		}

		authorRole := requirementModel.AuthorClient
		authorID := caller.ClientID
		if caller.IsMember() {
			authorRole = requirementModel.AuthorMember
			authorID = caller.MemberID
		} else if caller.IsAdmin() {
			authorID = caller.UserID
		}

		r := &requirementModel.Requirement{
			RequirementID: uuid.NewString(),
			ProjectID:     projectID,
			Title:         req.Title,
			Description:   req.Description,
			Cost:          req.Cost,
			AuthorRole:    authorRole,
			AuthorID:      authorID,
			// Requirements raised after work started are additional scope.
			IsAdditional: p.State.IsActive(),
			CreatedAt:    time.Now(),
		}
		result = r
		return repository.New(tx).Create(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	return requirementModel.NewRequirementResponse(result), nil
}

func (s *service) Update(
	ctx context.Context,
	caller auth.Caller,
	projectID, requirementID string,
	req *requirementModel.UpdateRequirementRequest,
) (*requirementModel.RequirementResponse, error) {
	if req.Cost != nil && *req.Cost <= 0 {
		return nil, requirementModel.ErrInvalidCost
	}

	var result *requirementModel.Requirement
	err := database.RunInProjectTx(ctx, s.db, projectID, func(tx *gorm.DB, p *projectModel.Project) error {
		if p.State.IsTerminal() {
			return projectModel.ErrInvalidStateTransition
		}

		txRepo := repository.New(tx)
		r, err := txRepo.GetByID(ctx, projectID, requirementID)
		if err != nil {
			return err
		}
		if !s.canEdit(caller, p, r) {
			return projectModel.ErrForbidden
		}

		if req.Title != nil {
			r.Title = *req.Title
		}
		if req.Description != nil {
			r.Description = req.Description
		}
		if req.Cost != nil {
			r.Cost = req.Cost
		}
		result = r
		return txRepo.Save(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	return requirementModel.NewRequirementResponse(result), nil
}

func (s *service) ToggleCompleted(
	ctx context.Context,
	caller auth.Caller,
	projectID, requirementID string,
) (*requirementModel.RequirementResponse, error) {
	if !caller.IsMember() {
		return nil, projectModel.ErrForbidden
	}

	var (
		result    *requirementModel.Requirement
		completed bool
	)
	err := database.RunInProjectTx(ctx, s.db, projectID, func(tx *gorm.DB, p *projectModel.Project) error {
		if !p.State.IsActive() {
			return projectModel.ErrInvalidStateTransition
		}

		onTeam, err := s.onTeam(ctx, tx, caller, p)
		if err != nil {
			return err
		}
		if !onTeam {
			return projectModel.ErrForbidden
		}

		txRepo := repository.New(tx)
		r, err := txRepo.GetByID(ctx, projectID, requirementID)
		if err != nil {
			return err
		}

		r.Completed = !r.Completed
		if r.Completed {
			memberID := caller.MemberID
			r.CompletedBy = &memberID
		} else {
			r.CompletedBy = nil
		}
		result = r
		completed = r.Completed
		return txRepo.Save(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	if completed {
		go s.dispatcher.Dispatch(context.Background(), notify.Event{
			Type:      notify.EventRequirementCompleted,
			ProjectID: projectID,
			Subject:   result.RequirementID,
			Detail:    result.Title,
		})
	}

	return requirementModel.NewRequirementResponse(result), nil
}

func (s *service) Delete(
	ctx context.Context,
	caller auth.Caller,
	projectID, requirementID string,
) error {
	return database.RunInProjectTx(ctx, s.db, projectID, func(tx *gorm.DB, p *projectModel.Project) error {
		if p.State.IsTerminal() {
			return projectModel.ErrInvalidStateTransition
		}

		if !caller.IsAdmin() {
			onTeam, err := s.onTeam(ctx, tx, caller, p)
			if err != nil {
				return err
			}
			if !onTeam {
				return projectModel.ErrForbidden
			}
		}

		return repository.New(tx).Delete(ctx, projectID, requirementID)
	})
}

func (s *service) ListByProject(
	ctx context.Context,
	caller auth.Caller,
	projectID string,
) ([]requirementModel.RequirementResponse, error) {
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

	reqs, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	responses := make([]requirementModel.RequirementResponse, 0, len(reqs))
	for i := range reqs {
		responses = append(responses, *requirementModel.NewRequirementResponse(&reqs[i]))
	}
	return responses, nil
}

// canAuthor decides who may add a requirement in the current state:
// administrators always, team members only while the project is planned,
// the client owner in any non-terminal state except in_progress.
func (s *service) canAuthor(
	ctx context.Context,
	tx *gorm.DB,
	caller auth.Caller,
	p *projectModel.Project,
) (bool, error) {
	if caller.IsAdmin() {
		return true, nil
	}
	if caller.IsClient() {
		return p.IsOwner(caller) && p.State != projectModel.StateInProgress, nil
	}
	if caller.IsMember() {
		if p.OwnerKind == projectModel.OwnerMember && p.IsOwner(caller) {
			return p.State != projectModel.StateInProgress, nil
		}
		if p.State != projectModel.StatePlanned {
			return false, nil
		}
		return s.onTeam(ctx, tx, caller, p)
	}
	return false, nil
}

// canEdit decides who may update a requirement's fields.
func (s *service) canEdit(
	caller auth.Caller,
	p *projectModel.Project,
	r *requirementModel.Requirement,
) bool {
	if caller.IsAdmin() {
		return true
	}
	if caller.IsMember() && r.AuthorRole == requirementModel.AuthorMember {
		return r.AuthorID == caller.MemberID && p.State == projectModel.StatePlanned
	}
	if caller.IsClient() && r.AuthorRole == requirementModel.AuthorClient {
		return r.AuthorID == caller.ClientID && p.State != projectModel.StateInProgress
	}
	return false
}

// onTeam reports whether the caller is the member owner or a confirmed
// roster member of the project.
func (s *service) onTeam(
	ctx context.Context,
	tx *gorm.DB,
	caller auth.Caller,
	p *projectModel.Project,
) (bool, error) {
	if !caller.IsMember() {
		return false, nil
	}
	if p.OwnerKind == projectModel.OwnerMember && p.IsOwner(caller) {
		return true, nil
	}
	roster, err := bidRepository.New(tx).GetRoster(ctx, p.ProjectID)
	if err != nil {
		return false, err
	}
	for _, e := range roster {
		if e.Confirmed() && e.MemberID == caller.MemberID {
			return true, nil
		}
	}
	return false, nil
}
