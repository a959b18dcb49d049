package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

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
	case errors.Is(err, projectModel.ErrForbidden):
		errorResponse(c, "FORBIDDEN", "caller is not allowed to perform this action", http.StatusForbidden)
	case errors.Is(err, projectModel.ErrInvalidStateTransition):
		errorResponse(c, "INVALID_STATE", "project state does not permit this action", http.StatusConflict)
	case errors.Is(err, projectModel.ErrMissingJustification):
		errorResponse(c, "INVALID_REQUEST", "justification is required for this close reason", http.StatusBadRequest)
	case errors.Is(err, projectModel.ErrReportMemberNotClose):
		errorResponse(c, "INVALID_REQUEST", "use remove-participant to report a project member", http.StatusBadRequest)
	case errors.Is(err, projectModel.ErrInvalidBudget):
		errorResponse(c, "INVALID_REQUEST", "budget range is invalid", http.StatusBadRequest)
	case errors.Is(err, projectModel.ErrInvalidInput):
		errorResponse(c, "INVALID_REQUEST", err.Error(), http.StatusBadRequest)
	case errors.Is(err, projectModel.ErrUnavailable):
		errorResponse(c, "UNAVAILABLE", "storage temporarily unavailable", http.StatusServiceUnavailable)
	default:
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
	}
}
