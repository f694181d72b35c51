package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a record does not exist in the remote table.
var ErrNotFound = errors.New("not found")

// LoadError reports a failed fetch. The local collection is left unchanged.
type LoadError struct {
	Op  string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading entries (%s): %v", e.Op, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// WriteError reports a failed create, update or delete. The local
// collection is left unchanged.
type WriteError struct {
	Op  string
	ID  string
	Err error
}

func (e *WriteError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("writing entry %s (%s): %v", e.ID, e.Op, e.Err)
	}
	return fmt.Sprintf("writing entries (%s): %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// FieldProblem names one invalid field.
type FieldProblem struct {
	Field   string
	Message string
}

// ValidationError is raised before any remote call when required input
// is missing.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field+": "+p.Message)
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Field returns the message for a field, or "" if the field is valid.
func (e *ValidationError) Field(name string) string {
	for _, p := range e.Problems {
		if p.Field == name {
			return p.Message
		}
	}
	return ""
}
