package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

func TestKinds(t *testing.T) {
	id := uuid.New()
	cases := []struct {
		name string
		err  error
		kind error
	}{
		{"category not found", &CategoryNotFoundError{ID: id}, ErrNotFound},
		{"post not found", &PostNotFoundError{ID: id}, ErrNotFound},
		{"already exists", &CategoryAlreadyExistsError{Name: "Sport"}, ErrAlreadyExists},
		{"in use", &CategoryInUseError{ID: id, Posts: 2}, ErrConflict},
		{"storage conflict", &StorageConflictError{Op: "create category", Err: errors.New("UNIQUE")}, ErrConflict},
		{"invalid", Invalid(errors.New("name: cannot be blank")), ErrInvalidInput},
	}
	for _, tc := range cases {
		wrapped := fmt.Errorf("outer: %w", tc.err)
		if !errors.Is(wrapped, tc.kind) {
			t.Errorf("%s: errors.Is(%v, %v) = false", tc.name, wrapped, tc.kind)
		}
	}
}

func TestKindsDoNotOverlap(t *testing.T) {
	err := &CategoryNotFoundError{ID: uuid.New()}
	if errors.Is(err, ErrConflict) || errors.Is(err, ErrAlreadyExists) {
		t.Errorf("not-found error matched another kind")
	}
}

func TestAsCarriesDetails(t *testing.T) {
	err := fmt.Errorf("create: %w", &CategoryAlreadyExistsError{Name: "Sci-Fi"})
	var exists *CategoryAlreadyExistsError
	if !errors.As(err, &exists) {
		t.Fatal("errors.As failed")
	}
	if exists.Name != "Sci-Fi" {
		t.Errorf("name = %q, want Sci-Fi", exists.Name)
	}
	if err.Error() != "create: category with name Sci-Fi already exists" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestStorageConflictUnwraps(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed")
	err := &StorageConflictError{Op: "rename category", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("conflict should unwrap to driver error")
	}
}

func TestInvalidNil(t *testing.T) {
	if Invalid(nil) != nil {
		t.Error("Invalid(nil) should be nil")
	}
}
