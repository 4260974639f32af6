// Package apperr defines the error kinds shared by the store, the services and the adapters.
//
// Callers test the kind with errors.Is against the sentinels and extract details with
// errors.As against the typed errors.
package apperr

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")
)

// CategoryNotFoundError reports a category id with no matching record.
type CategoryNotFoundError struct {
	ID uuid.UUID
}

func (e *CategoryNotFoundError) Error() string {
	return fmt.Sprintf("category with id %s does not exist", e.ID)
}

func (e *CategoryNotFoundError) Is(target error) bool { return target == ErrNotFound }

// CategoryAlreadyExistsError reports a create or rename that would duplicate a name.
type CategoryAlreadyExistsError struct {
	Name string
}

func (e *CategoryAlreadyExistsError) Error() string {
	return fmt.Sprintf("category with name %s already exists", e.Name)
}

func (e *CategoryAlreadyExistsError) Is(target error) bool { return target == ErrAlreadyExists }

// PostNotFoundError reports a post id with no matching record.
type PostNotFoundError struct {
	ID uuid.UUID
}

func (e *PostNotFoundError) Error() string {
	return fmt.Sprintf("post with id %s does not exist", e.ID)
}

func (e *PostNotFoundError) Is(target error) bool { return target == ErrNotFound }

// CategoryInUseError reports a delete of a category that posts still reference.
type CategoryInUseError struct {
	ID    uuid.UUID
	Posts int
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("category with id %s is referenced by %d post(s)", e.ID, e.Posts)
}

func (e *CategoryInUseError) Is(target error) bool { return target == ErrConflict }

// StorageConflictError reports a write rejected by a storage constraint after it passed
// the application-level checks (two writers racing on the same name, for instance).
type StorageConflictError struct {
	Op  string
	Err error
}

func (e *StorageConflictError) Error() string {
	return fmt.Sprintf("%s: storage conflict: %v", e.Op, e.Err)
}

func (e *StorageConflictError) Is(target error) bool { return target == ErrConflict }

func (e *StorageConflictError) Unwrap() error { return e.Err }

// Invalid wraps a validation failure so that it matches ErrInvalidInput.
func Invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}
