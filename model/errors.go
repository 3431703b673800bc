package model

import "fmt"

// Standard error codes.
const (
	ErrBadRequest    = "BAD_REQUEST"
	ErrUnauthorized  = "UNAUTHORIZED"
	ErrForbidden     = "FORBIDDEN"
	ErrNotFound      = "NOT_FOUND"
	ErrConflict      = "CONFLICT"
	ErrInternalError = "INTERNAL_ERROR"
)

// Distribution-specific error codes.
const (
	ErrEmptySource       = "EMPTY_SOURCE"
	ErrNoEligibleWorkers = "NO_ELIGIBLE_WORKERS"
	ErrPersistence       = "PERSISTENCE_ERROR"
	ErrInvalidStatus     = "INVALID_STATUS"
	ErrInvalidCount      = "INVALID_COUNT"
)

// ErrorEnvelope is the standard error response envelope returned by the API.
// It implements the error interface.
type ErrorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ErrorEnvelope) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewBadRequestError returns a BAD_REQUEST error.
func NewBadRequestError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrBadRequest, Message: msg}
}

// NewUnauthorizedError returns an UNAUTHORIZED error.
func NewUnauthorizedError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrUnauthorized, Message: msg}
}

// NewForbiddenError returns a FORBIDDEN error.
func NewForbiddenError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrForbidden, Message: msg}
}

// NewNotFoundError returns a NOT_FOUND error.
func NewNotFoundError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrNotFound, Message: msg}
}

// NewConflictError returns a CONFLICT error.
func NewConflictError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrConflict, Message: msg}
}

// NewInternalError returns an INTERNAL_ERROR.
func NewInternalError() *ErrorEnvelope {
	return &ErrorEnvelope{
		Code:    ErrInternalError,
		Message: "An unexpected error occurred",
	}
}

// NewEmptySourceError returns an EMPTY_SOURCE error.
func NewEmptySourceError() *ErrorEnvelope {
	return &ErrorEnvelope{
		Code:    ErrEmptySource,
		Message: "The uploaded record set contains no items",
	}
}

// NewNoEligibleWorkersError returns a NO_ELIGIBLE_WORKERS error.
func NewNoEligibleWorkersError() *ErrorEnvelope {
	return &ErrorEnvelope{
		Code:    ErrNoEligibleWorkers,
		Message: "No active agents are available to receive work",
	}
}

// NewPersistenceError returns a PERSISTENCE_ERROR describing the failed write.
func NewPersistenceError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrPersistence, Message: msg}
}

// NewInvalidStatusError returns an INVALID_STATUS error naming the rejected value.
func NewInvalidStatusError(status string) *ErrorEnvelope {
	return &ErrorEnvelope{
		Code:    ErrInvalidStatus,
		Message: fmt.Sprintf("status %q is not one of pending, in-progress, completed", status),
	}
}

// NewInvalidCountError returns an INVALID_COUNT error.
func NewInvalidCountError(count int) *ErrorEnvelope {
	return &ErrorEnvelope{
		Code:    ErrInvalidCount,
		Message: fmt.Sprintf("completed count %d cannot be negative", count),
	}
}
