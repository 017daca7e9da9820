package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches any *ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound matches any *NotFoundError via errors.Is.
	ErrNotFound = errors.New("not found")

	// ErrExternalCall marks a failed call to an AI collaborator. No state is
	// applied when it is returned.
	ErrExternalCall = errors.New("external call failed")
)

// ValidationError reports a missing or malformed input field. The operation
// that returned it did not mutate any state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports a reference to a project, stage or subtask that does
// not exist in the current collection.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %q", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ProjectNotFound returns a NotFoundError for a project id.
func ProjectNotFound(id string) error { return &NotFoundError{Kind: "project", ID: id} }

// StageNotFound returns a NotFoundError for a stage id.
func StageNotFound(id string) error { return &NotFoundError{Kind: "stage", ID: id} }

// SubtaskNotFound returns a NotFoundError for a subtask id.
func SubtaskNotFound(id string) error { return &NotFoundError{Kind: "subtask", ID: id} }
