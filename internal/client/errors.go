// Package client talks to the seed services the registration engine relies
// on: stage-based messaging, the identity store and the message sender.
package client

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Category is the normalized failure taxonomy for collaborator calls.
type Category string

const (
	// CategoryTimeout means the call ran past its deadline.
	CategoryTimeout Category = "timeout"
	// CategoryNotFound means the requested descriptor does not exist.
	CategoryNotFound Category = "not_found"
	// CategoryBadData means the service answered with something unusable.
	CategoryBadData Category = "bad_data"
	// CategoryUnavailable means the service could not be reached or failed.
	CategoryUnavailable Category = "unavailable"
	// CategoryInternal covers everything else.
	CategoryInternal Category = "internal"
)

// Error wraps a collaborator failure with its category.
type Error struct {
	Category   Category
	Service    string
	Message    string
	Underlying error
	Retryable  bool
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", e.Service, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Service, e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// NewError builds an Error; timeouts and unavailability are retryable.
func NewError(category Category, service, message string, underlying error) *Error {
	return &Error{
		Category:   category,
		Service:    service,
		Message:    message,
		Underlying: underlying,
		Retryable:  category == CategoryTimeout || category == CategoryUnavailable,
	}
}

// IsRetryable reports whether err is a transient collaborator failure.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

// CategoryOf extracts the category of err, classifying bare context and
// network errors on the way.
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CategoryTimeout
	}
	return CategoryInternal
}

// Requeueable reports whether a failed run is worth running again later.
// Missing descriptors qualify because the messaging service may still be
// loading its message sets.
func Requeueable(err error) bool {
	switch CategoryOf(err) {
	case CategoryTimeout, CategoryUnavailable, CategoryNotFound:
		return true
	}
	return false
}
