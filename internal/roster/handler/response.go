package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	bidModel "github.com/teamlance/engagements/internal/bid/model"
	projectModel "github.com/teamlance/engagements/internal/project/model"
	rosterModel "github.com/teamlance/engagements/internal/roster/model"
)

// ErrorResponse represents the error response structure.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

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
	case errors.Is(err, rosterModel.ErrNotParticipant):
		errorResponse(c, "FORBIDDEN", "member is not a confirmed participant", http.StatusForbidden)
	case errors.Is(err, rosterModel.ErrMissingJustification):
		errorResponse(c, "INVALID_REQUEST", "justification text is required", http.StatusBadRequest)
	case errors.Is(err, projectModel.ErrInvalidStateTransition):
		errorResponse(c, "INVALID_STATE", "project state does not permit this action", http.StatusConflict)
	case errors.Is(err, projectModel.ErrUnavailable):
		errorResponse(c, "UNAVAILABLE", "storage temporarily unavailable", http.StatusServiceUnavailable)
	default:
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
	}
}
