package errors

import (
	"errors"
	"fmt"
)

// Error taxonomy surfaced by the session service. Handlers map these to
// HTTP statuses with Is; store-specific errors are translated before they
// reach this layer.
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")
	ErrUserNotFound       = errors.New("user not found")

	// Credential errors. Bad signature, wrong kind, expiry, denylisted and
	// already-consumed refresh credentials all report the same error.
	ErrInvalidCredential = errors.New("invalid credential")

	// Registration errors
	ErrEmailExists    = errors.New("email already registered")
	ErrUsernameExists = errors.New("username already taken")
	ErrInvalidRequest = errors.New("invalid request")

	// Infrastructure errors
	ErrAuthServiceUnavailable = errors.New("auth service unavailable")
	ErrConfig                 = errors.New("invalid configuration")

	// General errors
	ErrNotFound = errors.New("not found")
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

// Join returns an error that wraps both the taxonomy error and its cause so
// that Is matches either one.
func Join(kind, cause error) error {
	if cause == nil {
		return kind
	}
	return fmt.Errorf("%w: %w", kind, cause)
}

// ValidationError carries a client-safe explanation of why a request was
// rejected. It matches ErrInvalidRequest under Is.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidRequest }

// InvalidRequest returns an ErrInvalidRequest whose reason can be shown to
// the caller.
func InvalidRequest(reason string) error {
	return &ValidationError{Reason: reason}
}
