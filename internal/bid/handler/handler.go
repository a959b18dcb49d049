// Package handler provides HTTP handlers for bid endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/teamlance/engagements/internal/auth"
	bidModel "github.com/teamlance/engagements/internal/bid/model"
	"github.com/teamlance/engagements/internal/bid/service"
)

// Handler handles HTTP requests for bid endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new bid handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// SubmitBid handles POST /projects/:id/bids.
func (h *Handler) SubmitBid(c *gin.Context) {
	caller, ok := auth.FromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHENTICATED", "caller identity is missing", http.StatusUnauthorized)
		return
	}

	var req bidModel.SubmitBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), caller, c.Param("id"), &req)
	if err != nil {
		h.logError("submit bid", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bid": resp})
}

// OwnerBidAction handles PATCH /projects/:id/bids ({action: accept|reject|resend}).
func (h *Handler) OwnerBidAction(c *gin.Context) {
	caller, ok := auth.FromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHENTICATED", "caller identity is missing", http.StatusUnauthorized)
		return
	}

	var req bidModel.OwnerBidActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	var (
		resp *bidModel.BidResponse
		err  error
	)
	switch req.Action {
	case "accept":
		resp, err = h.service.Accept(c.Request.Context(), caller, c.Param("id"), req.BidID, req.Amount)
	case "reject":
		resp, err = h.service.Reject(c.Request.Context(), caller, c.Param("id"), req.BidID)
	case "resend":
		resp, err = h.service.Resend(c.Request.Context(), caller, c.Param("id"), req.BidID, req.Amount)
	default:
		errorResponse(c, "INVALID_REQUEST", "action must be accept, reject or resend", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logError("bid "+req.Action, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bid": resp})
}

// RespondToBid handles POST /projects/:id/bids/:bidId/respond.
func (h *Handler) RespondToBid(c *gin.Context) {
	caller, ok := auth.FromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHENTICATED", "caller identity is missing", http.StatusUnauthorized)
		return
	}

	var req bidModel.RespondToBidRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Accept == nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Respond(c.Request.Context(), caller, c.Param("id"), c.Param("bidId"), *req.Accept)
	if err != nil {
		h.logError("respond to bid", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListBids handles GET /projects/:id/bids.
func (h *Handler) ListBids(c *gin.Context) {
	caller, ok := auth.FromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHENTICATED", "caller identity is missing", http.StatusUnauthorized)
		return
	}

	resp, err := h.service.ListByProject(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		h.logError("list bids", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bids": resp})
}

func (h *Handler) logError(op string, err error) {
	h.logger.Debugw("bid operation failed", "op", op, "error", err)
}
