package errors

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the login core and its stores
var (
	// Anti-forgery: state hash mismatch or no pending-auth record
	ErrVerificationFailure = errors.New("verification failure")

	// Provider or store unreachable, timed out or rejected the call
	ErrTransportFailure = errors.New("transport failure")

	// Malformed provider response
	ErrDeserializationFailure = errors.New("deserialization failure")

	// A session or account mutation did not apply
	ErrStoreWriteFailure = errors.New("store write failure")

	// Ephemeral session is missing one of its post-login fields
	ErrSessionAbsent = errors.New("session absent")

	// Triple-match lookup found nothing
	ErrAccountNotFound = errors.New("account not found")

	// Store level errors
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
	ErrInternal  = errors.New("internal error")

	// Content level errors
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Kind attaches a taxonomy sentinel to err so errors.Is matches both the sentinel and the
// underlying cause.
func Kind(kind, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New is errors.New, re-exported so callers need only one errors import.
func New(text string) error {
	return errors.New(text)
}
