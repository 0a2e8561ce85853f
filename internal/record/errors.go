package record

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError is returned when no record of Model exists with ID.
type NotFoundError struct {
	Model string
	ID    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Couldn't find %s with 'id'=%s", e.Model, e.ID)
}

// NotFound builds a NotFoundError for a numeric id.
func NotFound(model string, id int64) *NotFoundError {
	return &NotFoundError{Model: model, ID: FormatID(id)}
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ValidationError carries the full messages of every failed field, e.g.
// "Name can't be blank".
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "Validation failed: " + strings.Join(e.Messages, ", ")
}

// InvalidInputError is a malformed request parameter. Its message is
// returned to the client verbatim.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string {
	return e.Message
}

// UnresolvedReferenceError means well-formed input points at an associated
// record that does not exist.
type UnresolvedReferenceError struct {
	Model string
	ID    string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("Couldn't find %s with 'id'=%s", e.Model, e.ID)
}

// ConflictError is returned when the store refuses a write because of
// existing dependent records.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}
