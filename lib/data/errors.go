package data

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced hospital, user, participation or period does not exist
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned for malformed or out-of-range input
	ErrValidation = errors.New("validation failed")

	// ErrLimitExceeded is returned when a ProjectHospital already holds the maximum number of periods
	ErrLimitExceeded = fmt.Errorf("%w: recruitment period limit reached", ErrValidation)

	// ErrBlockedByActiveDependency is returned when a hospital still takes part in an active project
	ErrBlockedByActiveDependency = errors.New("blocked by active dependency")
)

// ValidationError describes a rejected field. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func newValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// isDomainError reports whether err is an expected outcome rather than an infrastructure failure
func isDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) || errors.Is(err, ErrBlockedByActiveDependency)
}
