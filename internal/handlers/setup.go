package handlers

import (
	"errors"
	"net/http"

	"mzansicare/internal/facility"
	"mzansicare/internal/queue"
	"mzansicare/internal/response"

	"github.com/gin-gonic/gin"
)

var (
	Queue      *queue.Service
	Facilities *facility.Directory
)

// Setup wires the shared services into the handler package. Called once from
// main before routes are registered.
func Setup(q *queue.Service, dir *facility.Directory) {
	Queue = q
	Facilities = dir
}

// writeQueueError maps the core error taxonomy onto HTTP codes and the
// standard error envelope.
func writeQueueError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, queue.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{
			Code:    "UNAUTHENTICATED",
			Message: "Please sign in",
		})
	case errors.Is(err, queue.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "INVALID_ARGUMENT",
			Message: "Invalid request",
			Details: err.Error(),
		})
	case errors.Is(err, queue.ErrNotFound):
		c.JSON(http.StatusNotFound, response.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Not found",
			Details: err.Error(),
		})
	case errors.Is(err, queue.ErrFailedPrecondition):
		c.JSON(http.StatusPreconditionFailed, response.ErrorResponse{
			Code:    "FAILED_PRECONDITION",
			Message: "Request cannot be applied in the current state",
			Details: err.Error(),
		})
	case errors.Is(err, queue.ErrConflict):
		c.JSON(http.StatusConflict, response.ErrorResponse{
			Code:    "CONFLICT",
			Message: "Concurrent update, please try again",
		})
	default:
		c.JSON(http.StatusServiceUnavailable, response.ErrorResponse{
			Code:    "STORE_UNAVAILABLE",
			Message: "Service temporarily unavailable",
			Details: err.Error(),
		})
	}
}
