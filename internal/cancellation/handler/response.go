package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	cancellationModel "github.com/teamlance/engagements/internal/cancellation/model"
	projectModel "github.com/teamlance/engagements/internal/project/model"
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
	case errors.Is(err, cancellationModel.ErrRequestNotFound):
		errorResponse(c, "NOT_FOUND", "no open cancellation request", http.StatusNotFound)
	case errors.Is(err, projectModel.ErrForbidden):
		errorResponse(c, "FORBIDDEN", "caller is not allowed to perform this action", http.StatusForbidden)
	case errors.Is(err, cancellationModel.ErrNotParticipant):
		errorResponse(c, "FORBIDDEN", "caller is not a participant of this project", http.StatusForbidden)
	case errors.Is(err, cancellationModel.ErrNotCreator):
		errorResponse(c, "FORBIDDEN", "only the request creator may withdraw it", http.StatusForbidden)
	case errors.Is(err, cancellationModel.ErrRequestAlreadyOpen):
		errorResponse(c, "CONFLICT", "a cancellation request is already open", http.StatusConflict)
	case errors.Is(err, cancellationModel.ErrDuplicateVote):
		errorResponse(c, "CONFLICT", "participant has already voted", http.StatusConflict)
	case errors.Is(err, cancellationModel.ErrVotesAlreadyCast):
		errorResponse(c, "CONFLICT", "request cannot be withdrawn once others have voted", http.StatusConflict)
	case errors.Is(err, projectModel.ErrInvalidStateTransition):
		errorResponse(c, "INVALID_STATE", "project state does not permit this action", http.StatusConflict)
	case errors.Is(err, cancellationModel.ErrReasonTooShort):
		errorResponse(c, "INVALID_REQUEST", "cancellation reason must be at least 5 characters", http.StatusBadRequest)
	case errors.Is(err, cancellationModel.ErrInvalidChoice):
		errorResponse(c, "INVALID_REQUEST", "vote must be confirm or reject", http.StatusBadRequest)
	case errors.Is(err, projectModel.ErrUnavailable):
		errorResponse(c, "UNAVAILABLE", "storage temporarily unavailable", http.StatusServiceUnavailable)
	default:
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
	}
}
