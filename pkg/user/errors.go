package user

import "errors"

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when creating a record with an email already in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrVersionConflict is returned when a concurrent writer kept winning the update race.
	ErrVersionConflict = errors.New("user was modified concurrently")
)
