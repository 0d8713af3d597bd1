package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")

	// ErrDuplicate is returned when a write would collide with an existing record,
	// such as a second active life area with the same name.
	ErrDuplicate = errors.New("persistence: duplicate record")

	// ErrConstraintViolation is returned when a write breaks a column constraint or a
	// foreign key.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
)
