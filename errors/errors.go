// Package errors provides string based sentinel errors that can be declared as constants
// and wrapped with a cause while still matching with errors.Is.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSeparator separates a sentinel message from its cause in a wrapped error message.
const ErrSeparator = " -- "

// Error is a string based error type allowing the definition of const errors in packages.
type Error string

func (s Error) Error() string {
	return string(s)
}

// Is reports whether target is this sentinel or an error wrapping it.
func (s Error) Is(target error) bool {
	if target == nil {
		return false
	}
	msg := target.Error()
	return msg == string(s) || strings.HasPrefix(msg, string(s)+ErrSeparator)
}

// Wrap returns an error that carries this sentinel and the provided cause.
func (s Error) Wrap(err error) error {
	return wrappedError{sentinel: s, cause: err}
}

// Wrapf is shorthand for Wrap(fmt.Errorf(format, args...)).
func (s Error) Wrapf(format string, args ...any) error {
	return s.Wrap(fmt.Errorf(format, args...))
}

type wrappedError struct {
	sentinel Error
	cause    error
}

func (w wrappedError) Error() string {
	if w.cause == nil {
		return string(w.sentinel)
	}
	return fmt.Sprintf("%s%s%v", w.sentinel, ErrSeparator, w.cause)
}

func (w wrappedError) Is(target error) bool {
	var sentinel Error
	if errors.As(target, &sentinel) {
		return sentinel == w.sentinel
	}
	return false
}

func (w wrappedError) Unwrap() error {
	return w.cause
}

// Is wraps errors.Is so callers only need to import this package.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As so callers only need to import this package.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New wraps errors.New.
func New(message string) error {
	return errors.New(message)
}

// Join wraps errors.Join.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
