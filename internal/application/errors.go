package application

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a life area, score or action item does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrConflict is returned when a write collides with existing data, such as a second
	// active life area with the same name.
	ErrConflict = errors.New("application: conflict")
)

// ValidationError maps input fields to the reason they were rejected.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error names the rejected fields in a stable order so log lines stay comparable.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	fields := v.Fields()
	if len(fields) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

// HasErrors reports whether any field was rejected.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// Fields returns the rejected field names, sorted.
func (v *ValidationError) Fields() []string {
	if v == nil {
		return nil
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for field := range v.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// merge copies other's fields; later messages win.
func (v *ValidationError) merge(other *ValidationError) {
	if !other.HasErrors() {
		return
	}
	for field, msg := range other.FieldErrors {
		v.add(field, msg)
	}
}

// orNil returns nil when nothing was recorded, so callers can return it as an error directly.
func (v *ValidationError) orNil() error {
	if !v.HasErrors() {
		return nil
	}
	return v
}

func fieldError(field, message string) *ValidationError {
	vErr := &ValidationError{}
	vErr.add(field, message)
	return vErr
}
