package errors

import (
	"errors"
	"fmt"
)

// Common error types for the auth client
var (
	// Session errors
	ErrNotStarted     = errors.New("session controller not started")
	ErrAlreadyStarted = errors.New("session controller already started")

	// Token errors
	ErrDecode = errors.New("token decode failed")

	// Storage errors
	ErrStorage = errors.New("token storage failure")

	// Plan errors
	ErrPlanCheck = errors.New("plan check failed")

	// Account API errors
	ErrValidation = errors.New("validation failed")
	ErrRemote     = errors.New("remote request failed")

	// General errors
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
