package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/vidgen-api/internal/domain"
	"github.com/phrazzld/vidgen-api/internal/task"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Bad request errors
	case errors.Is(err, domain.ErrEmptyPrompt),
		errors.Is(err, domain.ErrEmptyTaskID),
		errors.Is(err, domain.ErrUnsafeTaskID):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, task.ErrTaskNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, task.ErrTaskExists):
		return http.StatusConflict

	// Capacity errors
	case errors.Is(err, task.ErrTooManyTasks):
		return http.StatusTooManyRequests

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, domain.ErrEmptyPrompt):
		return "Prompt cannot be empty"

	case errors.Is(err, domain.ErrEmptyTaskID):
		return "Task ID cannot be empty"

	case errors.Is(err, domain.ErrUnsafeTaskID):
		return "Task ID may only contain letters, digits, '.', '_' and '-'"

	case errors.Is(err, task.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, task.ErrTaskExists):
		return "A task with this ID already exists"

	case errors.Is(err, task.ErrTooManyTasks):
		return "Too many tasks in flight, try again later"

	default:
		return "An unexpected error occurred"
	}
}
