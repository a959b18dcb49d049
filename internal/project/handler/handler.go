// Package handler provides HTTP handlers for project endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/teamlance/engagements/internal/auth"
	projectModel "github.com/teamlance/engagements/internal/project/model"
	"github.com/teamlance/engagements/internal/project/service"
)

// Handler handles HTTP requests for project endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new project handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// CreateProject handles POST /projects.
func (h *Handler) CreateProject(c *gin.Context) {
	caller, ok := auth.FromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHENTICATED", "caller identity is missing", http.StatusUnauthorized)
		return
	}

	var req projectModel.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), caller, &req)
	if err != nil {
		h.logError("create project", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": resp})
}

// GetProject handles GET /projects/:id.
func (h *Handler) GetProject(c *gin.Context) {
	caller, ok := auth.FromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHENTICATED", "caller identity is missing", http.StatusUnauthorized)
		return
	}

	resp, err := h.service.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		h.logError("get project", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": resp})
}

// ListProjects handles GET /projects.
func (h *Handler) ListProjects(c *gin.Context) {
	caller, ok := auth.FromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHENTICATED", "caller identity is missing", http.StatusUnauthorized)
		return
	}

	resp, err := h.service.ListByOwner(c.Request.Context(), caller)
	if err != nil {
		h.logError("list projects", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": resp})
}

// UpdateProject handles PATCH /projects/:id lifecycle actions.
func (h *Handler) UpdateProject(c *gin.Context) {
	caller, ok := auth.FromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHENTICATED", "caller identity is missing", http.StatusUnauthorized)
		return
	}

	var req projectModel.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")

	var (
		resp *projectModel.ProjectResponse
		err  error
	)
	switch req.Action {
	case "publish":
		resp, err = h.service.Publish(ctx, caller, id)
	case "plan":
		resp, err = h.service.Plan(ctx, caller, id)
	case "start":
		resp, err = h.service.Start(ctx, caller, id)
	case "advance":
		resp, err = h.service.Advance(ctx, caller, id)
	case "republish":
		resp, err = h.service.Republish(ctx, caller, id, req.Title, req.Description)
	case "close_call":
		resp, err = h.service.CloseCall(ctx, caller, id)
	case "cancel":
		resp, err = h.service.CancelEarly(ctx, caller, id, req.Reason)
	default:
		errorResponse(c, "INVALID_REQUEST", "unknown lifecycle action", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logError("project "+req.Action, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": resp})
}

// CloseProject handles POST /projects/:id/complete.
func (h *Handler) CloseProject(c *gin.Context) {
	caller, ok := auth.FromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHENTICATED", "caller identity is missing", http.StatusUnauthorized)
		return
	}

	var req projectModel.CloseProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Close(c.Request.Context(), caller, c.Param("id"), &req)
	if err != nil {
		h.logError("close project", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": resp})
}

// DeleteProject handles DELETE /projects/:id.
func (h *Handler) DeleteProject(c *gin.Context) {
	caller, ok := auth.FromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHENTICATED", "caller identity is missing", http.StatusUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		h.logError("delete project", err)
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) logError(op string, err error) {
	h.logger.Debugw("project operation failed", "op", op, "error", err)
}
