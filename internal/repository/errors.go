package repository

import "errors"

var (
	// ErrDuplicateAlert is returned when an active watch with the same
	// (requester, class, name, threshold) already exists.
	ErrDuplicateAlert = errors.New("duplicate alert")

	// ErrNotFound means the provider had no usable data for the identifier.
	ErrNotFound = errors.New("asset not found")

	// ErrProvider wraps transient transport or decode failures from a
	// provider. Callers treat it as retriable on the next cycle.
	ErrProvider = errors.New("provider error")
)
