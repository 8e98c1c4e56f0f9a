package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidState is returned when an operation is forbidden in the
	// contract's current status.
	ErrInvalidState = errors.New("invalid state")
	// ErrStorage wraps failures of the underlying store.
	ErrStorage = errors.New("storage error")
)
