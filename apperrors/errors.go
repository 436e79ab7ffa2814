// Package apperrors holds the error taxonomy shared by the ledger, chart and
// reporting services and the storage collaborators.
package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors. Match them with errors.Is; callers usually receive them
// wrapped with context.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrConflict           = errors.New("conflict")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e ValidationError) Unwrap() error {
	return ErrInvalidArgument
}

// Invalid returns a ValidationError for field.
func Invalid(field, message string) error {
	return ValidationError{Field: field, Message: message}
}

// InvalidInput marks err (typically an ozzo-validation error set) as an
// ErrInvalidArgument while keeping its message.
func InvalidInput(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
}

// Unavailable marks a backing-store failure as ErrStorageUnavailable.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsStorageUnavailable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

// IsRetryable reports whether the caller may retry the operation unchanged.
func IsRetryable(err error) bool {
	return IsConflict(err) || IsStorageUnavailable(err)
}
