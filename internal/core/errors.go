package core

import "errors"

// Error kinds. Callers wrap these with context via fmt.Errorf("%w: ...") and
// the HTTP layer classifies them with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state transition")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden operation")
)
