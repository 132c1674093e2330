package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("Email already in use")
	ErrInvalidCredentials = errors.New("Invalid email or password")
)

// ForbiddenError — отказ с причиной, которую можно показать пользователю.
// errors.Is срабатывает и на ErrForbidden, и на исходную причину (например, consent.ErrBlocked).
type ForbiddenError struct {
	Cause error
}

func (e *ForbiddenError) Error() string { return e.Cause.Error() }

func (e *ForbiddenError) Unwrap() []error { return []error{ErrForbidden, e.Cause} }

func forbidden(cause error) error {
	return &ForbiddenError{Cause: cause}
}

func forbiddenf(reason string) error {
	return &ForbiddenError{Cause: errors.New(reason)}
}

func notFound(what, id any) error {
	return fmt.Errorf("%w: %s %v", ErrNotFound, what, id)
}

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}
