package fault

import (
	"errors"
	"fmt"
)

// Shared error taxonomy. Services wrap these with context via %w so the
// transport layer can map them to status codes with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrAuthorization     = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// PgUniqueViolation is the Postgres error code for unique constraint breaks.
const PgUniqueViolation = "23505"

func Validationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

func Authorizationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrAuthorization)...)
}

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

func Transitionf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidTransition)...)
}
