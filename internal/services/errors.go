package services

import (
	"errors"
	"fmt"
)

// Not-found errors: a referenced record is missing. Never silently
// substituted with defaults.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrMarketNotFound      = errors.New("market not found")
	ErrParticipantNotFound = errors.New("participant not found")
)

// StateViolationError is a business-rule rejection carrying a
// human-readable reason, e.g. joining an ended market or resolving a
// market twice. These are expected conditions, not crashes.
type StateViolationError struct {
	Reason string
}

func (e *StateViolationError) Error() string {
	return e.Reason
}

func stateViolation(format string, args ...interface{}) error {
	return &StateViolationError{Reason: fmt.Sprintf(format, args...)}
}

// IsStateViolation reports whether err is a business-rule rejection
func IsStateViolation(err error) bool {
	var sv *StateViolationError
	return errors.As(err, &sv)
}

// IsNotFound reports whether err is one of the not-found errors
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrMarketNotFound) ||
		errors.Is(err, ErrParticipantNotFound)
}
