// Package apperr defines the error kinds shared by the account, session and
// to-do layers. Handlers translate them to status codes with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInternal           = errors.New("internal error")
)

// detailed keeps the client-facing detail separate from the kind so that
// Error() reads naturally and Detail() can be echoed to the caller.
type detailed struct {
	kind   error
	detail string
}

func (e *detailed) Error() string { return e.detail }
func (e *detailed) Unwrap() error { return e.kind }

// Validation returns an ErrValidation carrying msg as the client-facing detail.
func Validation(msg string) error {
	return &detailed{kind: ErrValidation, detail: msg}
}

// Conflict returns an ErrConflict carrying msg as the client-facing detail.
func Conflict(msg string) error {
	return &detailed{kind: ErrConflict, detail: msg}
}

// Internal wraps err as ErrInternal. The wrapped error is for logs only.
func Internal(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
}

// Detail returns the client-safe message of a Validation or Conflict error,
// or "" for any other error.
func Detail(err error) string {
	var d *detailed
	if errors.As(err, &d) {
		return d.detail
	}
	return ""
}
