package common

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidID    = errors.New("invalid id")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrRateLimited  = errors.New("too many requests")
)

// ValidationError reports bad caller input. Message is safe to return to clients.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError without a field.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// FieldError builds a ValidationError for a single field.
func FieldError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFound wraps ErrNotFound with the resource name so the message reads "Job not found".
func NotFound(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Classify maps an error to an HTTP status, an error code and a client-safe message.
// Anything outside the taxonomy is INTERNAL_ERROR and its text is not exposed.
func Classify(err error) (int, ErrorResponse) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, ErrorResponse{Error: "VALIDATION_ERROR", Message: verr.Error()}
	case errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest, ErrorResponse{Error: "INVALID_ID", Message: err.Error()}
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, ErrorResponse{Error: "UNAUTHORIZED", Message: err.Error()}
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, ErrorResponse{Error: "FORBIDDEN", Message: err.Error()}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, ErrorResponse{Error: "RATE_LIMITED", Message: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "INTERNAL_ERROR", Message: "Internal server error"}
	}
}
