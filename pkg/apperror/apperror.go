package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Sentinel kinds. Every AppError unwraps to exactly one of them.
var (
	ErrNotFound     = errors.New("not found")
	ErrPermission   = errors.New("permission denied")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal server error")
	ErrUnauthorized = errors.New("unauthorized")
)

var statusByKind = []struct {
	kind   error
	status int
}{
	{ErrNotFound, http.StatusNotFound},
	{ErrInvalidInput, http.StatusBadRequest},
	{ErrUnauthorized, http.StatusUnauthorized},
	{ErrPermission, http.StatusForbidden},
}

// AppError carries a client-safe Message next to the operator-facing Details and Cause.
type AppError struct {
	BaseError error
	Message   string
	Details   string
	Err       error
}

func (e *AppError) Error() string {
	msg := e.BaseError.Error() + ": " + e.Message
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.BaseError
}

func NewAppError(kind error, msg, details string, cause error) *AppError {
	return &AppError{BaseError: kind, Message: msg, Details: details, Err: cause}
}

func NewNotFound(resource, id string) *AppError {
	return NewAppError(ErrNotFound, resource+" not found", fmt.Sprintf("no %s %q", resource, id), nil)
}

func NewInvalidInput(details string, cause error) *AppError {
	return NewAppError(ErrInvalidInput, "Invalid input provided", details, cause)
}

func NewInternal(details string, cause error) *AppError {
	return NewAppError(ErrInternal, "An internal server error occurred", details, cause)
}

func NewUnauthorized(details string, cause error) *AppError {
	return NewAppError(ErrUnauthorized, "Invalid credentials", details, cause)
}

func NewPermissionDenied(details string) *AppError {
	return NewAppError(ErrPermission, "Permission denied", details, nil)
}

// ToHTTPStatus maps err to the status of its kind, 500 when it has none.
func ToHTTPStatus(err error) int {
	for _, m := range statusByKind {
		if errors.Is(err, m.kind) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// ToJSON is the response body. Details and Err stay in the logs.
func (e *AppError) ToJSON() gin.H {
	return gin.H{
		"error":   e.BaseError.Error(),
		"message": e.Message,
	}
}
