// Package handler provides HTTP handlers for cancellation endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/teamlance/engagements/internal/auth"
	cancellationModel "github.com/teamlance/engagements/internal/cancellation/model"
	"github.com/teamlance/engagements/internal/cancellation/service"
)

// Handler handles HTTP requests for cancellation endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new cancellation handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// GetRequest handles GET /projects/:id/cancellation-request.
func (h *Handler) GetRequest(c *gin.Context) {
	caller, ok := auth.FromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHENTICATED", "caller identity is missing", http.StatusUnauthorized)
		return
	}

	resp, err := h.service.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": resp})
}

// CreateRequest handles POST /projects/:id/cancellation-request.
func (h *Handler) CreateRequest(c *gin.Context) {
	caller, ok := auth.FromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHENTICATED", "caller identity is missing", http.StatusUnauthorized)
		return
	}

	var req cancellationModel.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), caller, c.Param("id"), req.Reason)
	if err != nil {
		h.logger.Debugw("create cancellation request failed", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"request": resp})
}

// Vote handles POST /projects/:id/cancellation-request/vote.
func (h *Handler) Vote(c *gin.Context) {
	caller, ok := auth.FromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHENTICATED", "caller identity is missing", http.StatusUnauthorized)
		return
	}

	var req cancellationModel.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Vote(c.Request.Context(), caller, c.Param("id"), req.Choice, req.Comment)
	if err != nil {
		h.logger.Debugw("cancellation vote failed", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": resp})
}

// Withdraw handles POST /projects/:id/cancellation-request/withdraw and
// DELETE /projects/:id/cancellation-request.
func (h *Handler) Withdraw(c *gin.Context) {
	caller, ok := auth.FromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHENTICATED", "caller identity is missing", http.StatusUnauthorized)
		return
	}

	if err := h.service.Withdraw(c.Request.Context(), caller, c.Param("id")); err != nil {
		h.logger.Debugw("withdraw cancellation request failed", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"withdrawn": true})
}
