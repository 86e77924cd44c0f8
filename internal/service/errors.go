package service

import (
	"errors"
	"strings"
)

var (
	// ErrValidation marks missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidOTP is returned when a code is missing, expired or wrong.
	ErrInvalidOTP = errors.New("invalid or expired OTP")
	// ErrActiveLoan is returned when a user borrows while holding an
	// unreturned book.
	ErrActiveLoan = errors.New("must return current borrowed book before borrowing another")
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStorage wraps failures of the relational store or redis.
	ErrStorage = errors.New("storage error")
	// ErrTransport wraps mail delivery failures.
	ErrTransport = errors.New("transport error")
)

// ValidationError lists the required fields that were absent or empty.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Reason
	}
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type field struct {
	name  string
	value string
}

// requireFields returns a ValidationError naming every blank field, in the
// order given, or nil when all are present.
func requireFields(fields ...field) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

func invalid(reason string) error {
	return &ValidationError{Reason: reason}
}
