package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	bidModel "github.com/teamlance/engagements/internal/bid/model"
	projectModel "github.com/teamlance/engagements/internal/project/model"
)

// ErrorResponse represents the error response structure.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// errorResponse creates an error response.
func errorResponse(c *gin.Context, code string, message string, statusCode int) {
	resp := ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	c.JSON(statusCode, resp)
}

// respondError maps service errors to HTTP responses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, projectModel.ErrProjectNotFound):
		errorResponse(c, "NOT_FOUND", "project not found", http.StatusNotFound)
	case errors.Is(err, bidModel.ErrBidNotFound):
		errorResponse(c, "NOT_FOUND", "bid not found", http.StatusNotFound)
	case errors.Is(err, projectModel.ErrForbidden):
		errorResponse(c, "FORBIDDEN", "caller is not allowed to perform this action", http.StatusForbidden)
	case errors.Is(err, bidModel.ErrDuplicateBid):
		errorResponse(c, "CONFLICT", "member already has a bid on this project", http.StatusConflict)
	case errors.Is(err, bidModel.ErrMemberRemoved):
		errorResponse(c, "CONFLICT", "removed members cannot re-bid on this project", http.StatusConflict)
	case errors.Is(err, bidModel.ErrNotOpenForBidding):
		errorResponse(c, "INVALID_STATE", "project is not open for bidding", http.StatusConflict)
	case errors.Is(err, bidModel.ErrNotAwaitingResponse):
		errorResponse(c, "INVALID_STATE", "bid is not awaiting a member response", http.StatusConflict)
	case errors.Is(err, bidModel.ErrNotDeclined):
		errorResponse(c, "INVALID_STATE", "bid was not declined by the member", http.StatusConflict)
	case errors.Is(err, projectModel.ErrInvalidStateTransition):
		errorResponse(c, "INVALID_STATE", "project state does not permit this action", http.StatusConflict)
	case errors.Is(err, bidModel.ErrOwnProject):
		errorResponse(c, "INVALID_REQUEST", "owner cannot bid on own project", http.StatusBadRequest)
	case errors.Is(err, bidModel.ErrInvalidAmount):
		errorResponse(c, "INVALID_REQUEST", "amount must be greater than zero", http.StatusBadRequest)
	case errors.Is(err, projectModel.ErrInvalidInput):
		errorResponse(c, "INVALID_REQUEST", err.Error(), http.StatusBadRequest)
	case errors.Is(err, projectModel.ErrUnavailable):
		errorResponse(c, "UNAVAILABLE", "storage temporarily unavailable", http.StatusServiceUnavailable)
	default:
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
	}
}
