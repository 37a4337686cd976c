package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure so callers can switch on it instead of
// matching individual errors.
type ErrorKind string

const (
	KindNone         ErrorKind = ""
	KindNotFound     ErrorKind = "not_found"
	KindInvalidInput ErrorKind = "invalid_input"
	KindForbidden    ErrorKind = "forbidden"
	KindConflict     ErrorKind = "conflict"
	KindInternal     ErrorKind = "internal"
)

// Error classes. Every domain error wraps exactly one of these.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
)

var (
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)

	ErrMissingAmount      = fmt.Errorf("%w: amount is required", ErrInvalidInput)
	ErrNegativeAmount     = fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	ErrInvalidAmount      = fmt.Errorf("%w: invalid amount", ErrInvalidInput)
	ErrEmptyCategory      = fmt.Errorf("%w: category is required", ErrInvalidInput)
	ErrCategoryTooLong    = fmt.Errorf("%w: category too long (max 100 characters)", ErrInvalidInput)
	ErrDescriptionTooLong = fmt.Errorf("%w: description too long (max 200 characters)", ErrInvalidInput)
	ErrEmptyType          = fmt.Errorf("%w: transaction type is required", ErrInvalidInput)
	ErrInvalidType        = fmt.Errorf("%w: transaction type must be INCOME or EXPENSE", ErrInvalidInput)
	ErrInvalidDate        = fmt.Errorf("%w: invalid date", ErrInvalidInput)
	ErrMissingDate        = fmt.Errorf("%w: start and end dates are required", ErrInvalidInput)
	ErrInvertedRange      = fmt.Errorf("%w: end date must not be before start date", ErrInvalidInput)
	ErrInvalidID          = fmt.Errorf("%w: invalid transaction id", ErrInvalidInput)
	ErrEmptyEmail         = fmt.Errorf("%w: email is required", ErrInvalidInput)
	ErrInvalidEmail       = fmt.Errorf("%w: invalid email", ErrInvalidInput)
	ErrEmptyFullname      = fmt.Errorf("%w: full name is required", ErrInvalidInput)
	ErrInvalidPassword    = fmt.Errorf("%w: password must be between 6 and 72 bytes", ErrInvalidInput)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrInvalidInput)

	ErrNotOwner = fmt.Errorf("%w: transaction does not belong to the user", ErrForbidden)

	ErrEmailTaken    = fmt.Errorf("%w: email already exists", ErrConflict)
	ErrFullnameTaken = fmt.Errorf("%w: name already exists", ErrConflict)
)

// KindOf reports the class of err. Unclassified errors are KindInternal.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrConflict):
		return KindConflict
	default:
		return KindInternal
	}
}
