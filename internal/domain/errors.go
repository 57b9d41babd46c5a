package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors of the chat core.
var (
	// ErrValidation marks a malformed chat request, surfaced before any
	// upstream call.
	ErrValidation = errors.New("invalid request")
	// ErrUpstream marks a conversation-create or image-upload failure.
	ErrUpstream = errors.New("upstream error")
	// ErrInternal marks an unexpected internal failure.
	ErrInternal = errors.New("internal error")
)

// DomainError carries a stable code and a caller-safe message alongside
// the wrapped cause.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// UserMessage returns the caller-safe message without internal detail.
func (e *DomainError) UserMessage() string {
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a request validation error.
func NewValidationError(message string) error {
	return &DomainError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Err:     ErrValidation,
	}
}

// NewUpstreamError wraps a failure from the upstream collaborator. The
// operation name is part of the caller-safe message; the cause is kept for
// logs only.
func NewUpstreamError(op string, err error) error {
	return &DomainError{
		Code:    "UPSTREAM_ERROR",
		Message: fmt.Sprintf("upstream %s failed", op),
		Err:     fmt.Errorf("%w: %w", ErrUpstream, err),
	}
}

// NewInternalError wraps an unexpected failure without exposing detail.
func NewInternalError(err error) error {
	return &DomainError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Err:     fmt.Errorf("%w: %v", ErrInternal, err),
	}
}

// IsValidation reports whether err is a request validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUpstream reports whether err is an upstream collaborator error.
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream)
}

// IsInternal reports whether err is an internal error.
func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}
