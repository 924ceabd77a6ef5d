package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist or is not published.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing contact, unknown service slug).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned by repo functions when a write violates a
// uniqueness constraint, e.g. two concurrent saves picking the same slug.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// FieldErrors carries per-field validation messages alongside ErrValidation.
// It unwraps to ErrValidation so errors.Is keeps working.
type FieldErrors map[string][]string

func (f FieldErrors) Error() string {
	for _, name := range sortedKeys(f) {
		if msgs := f[name]; len(msgs) > 0 {
			return "validation error: " + name + ": " + msgs[0]
		}
	}
	return "validation error"
}

func (f FieldErrors) Unwrap() error { return ErrValidation }

// Add appends msg to the messages recorded for field.
func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

// OrNil returns nil when no field has a message, so callers can write
// `return errs.OrNil()` after collecting.
func (f FieldErrors) OrNil() error {
	if len(f) == 0 {
		return nil
	}
	return f
}
