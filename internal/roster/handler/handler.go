// Package handler provides HTTP handlers for roster endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/teamlance/engagements/internal/auth"
	rosterModel "github.com/teamlance/engagements/internal/roster/model"
	"github.com/teamlance/engagements/internal/roster/service"
)

// Handler handles HTTP requests for roster endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new roster handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// GetRoster handles GET /projects/:id/roster.
func (h *Handler) GetRoster(c *gin.Context) {
	caller, ok := auth.FromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHENTICATED", "caller identity is missing", http.StatusUnauthorized)
		return
	}

	roster, err := h.service.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"roster": roster})
}

// FinishWork handles POST /projects/:id/finish-work.
func (h *Handler) FinishWork(c *gin.Context) {
	caller, ok := auth.FromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHENTICATED", "caller identity is missing", http.StatusUnauthorized)
		return
	}

	resp, err := h.service.FinishWork(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		h.logger.Debugw("finish work failed", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RemoveParticipant handles POST /projects/:id/remove-participant.
func (h *Handler) RemoveParticipant(c *gin.Context) {
	caller, ok := auth.FromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHENTICATED", "caller identity is missing", http.StatusUnauthorized)
		return
	}

	var req rosterModel.RemoveParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.RemoveParticipant(c.Request.Context(), caller, c.Param("id"), &req); err != nil {
		h.logger.Debugw("remove participant failed", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": true})
}
