package store

import "errors"

// Predefined errors for the store layer.
var (
	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict indicates a uniqueness constraint was violated, e.g. a second
	// vote on the same step.
	ErrConflict = errors.New("conflict")

	// ErrInvalidReference indicates a foreign key points at a missing row.
	ErrInvalidReference = errors.New("invalid reference")
)
