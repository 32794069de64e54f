package registrations

import "errors"

// Store errors. Callers match with errors.Is.
var (
	ErrNotFound       = errors.New("registration not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrInvalidBucket  = errors.New("invalid stats bucket")
)
