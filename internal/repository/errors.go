package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup or mutation matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert or update violates a unique index.
	ErrDuplicate = errors.New("duplicate record")
)

// ErrActiveLoanExists is returned when a user already holds an unreturned loan.
var ErrActiveLoanExists = errors.New("user already has an active loan")
