// Package handler provides HTTP handlers for requirement endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/teamlance/engagements/internal/auth"
	requirementModel "github.com/teamlance/engagements/internal/requirement/model"
	"github.com/teamlance/engagements/internal/requirement/service"
)

// Handler handles HTTP requests for requirement endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new requirement handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// AddRequirement handles POST /projects/:id/requirements.
func (h *Handler) AddRequirement(c *gin.Context) {
	caller, ok := auth.FromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHENTICATED", "caller identity is missing", http.StatusUnauthorized)
		return
	}

	var req requirementModel.AddRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Add(c.Request.Context(), caller, c.Param("id"), &req)
	if err != nil {
		h.logError("add requirement", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"requirement": resp})
}

// UpdateRequirement handles PATCH /projects/:id/requirements/:reqId.
// An "action":"toggle" body flips the completed flag; any other body edits
// the requirement's fields.
func (h *Handler) UpdateRequirement(c *gin.Context) {
	caller, ok := auth.FromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHENTICATED", "caller identity is missing", http.StatusUnauthorized)
		return
	}

	var req requirementModel.UpdateRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	var (
		resp *requirementModel.RequirementResponse
		err  error
	)
	switch req.Action {
	case "toggle":
		resp, err = h.service.ToggleCompleted(c.Request.Context(), caller, c.Param("id"), c.Param("reqId"))
	case "":
		resp, err = h.service.Update(c.Request.Context(), caller, c.Param("id"), c.Param("reqId"), &req)
	default:
		errorResponse(c, "INVALID_REQUEST", "action must be toggle or omitted", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logError("update requirement", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requirement": resp})
}

// DeleteRequirement handles DELETE /projects/:id/requirements/:reqId.
func (h *Handler) DeleteRequirement(c *gin.Context) {
	caller, ok := auth.FromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHENTICATED", "caller identity is missing", http.StatusUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), caller, c.Param("id"), c.Param("reqId")); err != nil {
		h.logError("delete requirement", err)
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListRequirements handles GET /projects/:id/requirements.
func (h *Handler) ListRequirements(c *gin.Context) {
	caller, ok := auth.FromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHENTICATED", "caller identity is missing", http.StatusUnauthorized)
		return
	}

	resp, err := h.service.ListByProject(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		h.logError("list requirements", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requirements": resp})
}

func (h *Handler) logError(op string, err error) {
	h.logger.Debugw("requirement operation failed", "op", op, "error", err)
}
