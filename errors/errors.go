// Package errors provides standardized error handling patterns for tescord.
// It includes error classification, standard error variables, and helper
// functions for consistent error wrapping and classification across the
// registration, dispatch and publish paths.
package errors

import (
	"errors"
	"fmt"
)

// ErrorClass represents the classification of errors for handling purposes
type ErrorClass int

const (
	// ErrorRegistration represents errors raised synchronously at a
	// registration call site. These are the only errors expected to abort
	// application startup.
	ErrorRegistration ErrorClass = iota
	// ErrorDispatch represents errors raised inside a handler during event
	// or interaction dispatch. They are surfaced via error events on the
	// bus and never crash the process.
	ErrorDispatch
	// ErrorPublish represents errors raised while publishing command
	// definitions to the platform. They are reported per client and
	// aggregated for the caller.
	ErrorPublish
)

// String returns the string representation of ErrorClass
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorRegistration:
		return "registration"
	case ErrorDispatch:
		return "dispatch"
	case ErrorPublish:
		return "publish"
	default:
		return "unknown"
	}
}

// Standard error variables for common conditions
var (
	// Registration errors
	ErrDuplicateID     = errors.New("duplicate id")
	ErrReservedID      = errors.New("reserved id")
	ErrEmptyID         = errors.New("id must not be empty")
	ErrNilHandler      = errors.New("handler must not be nil")
	ErrNoCombinations  = errors.New("pattern produced no combinations")
	ErrTooManyWords    = errors.New("pattern combination exceeds word limit")
	ErrWordTooLong     = errors.New("pattern word exceeds length limit")
	ErrDuplicateTag    = errors.New("codec type tag already registered")
	ErrUnknownID       = errors.New("id not registered")
	ErrUnsupportedFile = errors.New("unsupported locale file format")
	ErrMissingPath     = errors.New("extraction path not found")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrMissingConfig = errors.New("missing required configuration")

	// Lifecycle errors
	ErrAlreadyStarted = errors.New("already started")
	ErrNotStarted     = errors.New("not started")
	ErrDestroyed      = errors.New("pack destroyed")
)

// ClassifiedError wraps an error with its classification
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// IsRegistration checks if an error belongs to the registration class.
// Registration errors should abort startup rather than be swallowed.
func IsRegistration(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorRegistration
	}

	return errors.Is(err, ErrDuplicateID) ||
		errors.Is(err, ErrReservedID) ||
		errors.Is(err, ErrEmptyID) ||
		errors.Is(err, ErrNilHandler) ||
		errors.Is(err, ErrNoCombinations) ||
		errors.Is(err, ErrTooManyWords) ||
		errors.Is(err, ErrWordTooLong) ||
		errors.Is(err, ErrDuplicateTag) ||
		errors.Is(err, ErrUnsupportedFile) ||
		errors.Is(err, ErrMissingPath) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrMissingConfig)
}

// IsDispatch checks if an error belongs to the dispatch class
func IsDispatch(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorDispatch
	}
	return false
}

// IsPublish checks if an error belongs to the publish class
func IsPublish(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorPublish
	}
	return false
}

// Classify returns the error class for an error
func Classify(err error) ErrorClass {
	if IsPublish(err) {
		return ErrorPublish
	}
	if IsDispatch(err) {
		return ErrorDispatch
	}
	return ErrorRegistration
}

// newClassified creates a new classified error
// This is an internal helper - use WrapRegistration(), WrapDispatch(), or
// WrapPublish() instead.
func newClassified(class ErrorClass, err error, component, operation, message string) *ClassifiedError {
	return &ClassifiedError{
		Class:     class,
		Err:       err,
		Message:   message,
		Component: component,
		Operation: operation,
	}
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapRegistration wraps an error as a registration error with context
func WrapRegistration(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorRegistration, wrappedErr, component, method, wrappedErr.Error())
}

// WrapDispatch wraps an error as a dispatch error with context
func WrapDispatch(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorDispatch, wrappedErr, component, method, wrappedErr.Error())
}

// WrapPublish wraps an error as a publish error with context
func WrapPublish(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorPublish, wrappedErr, component, method, wrappedErr.Error())
}

// Is re-exports the standard library matcher so callers need only this
// package.
func Is(err, target error) bool { return errors.Is(err, target) }

// As re-exports the standard library matcher.
func As(err error, target any) bool { return errors.As(err, target) }

// Join re-exports the standard library aggregator.
func Join(errs ...error) error { return errors.Join(errs...) }
