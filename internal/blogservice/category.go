package blogservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/starford/bloggerbox/internal/apperr"
	"github.com/starford/bloggerbox/internal/models"
	"github.com/starford/bloggerbox/internal/store"
)

// MaxCategoryNameLength is the longest accepted category name, in characters.
const MaxCategoryNameLength = 255

// CategoryService owns category identity and name uniqueness.
type CategoryService struct {
	categories store.CategoryRepository
	posts      store.PostRepository
	opts       options
}

// NewCategoryService creates a category service. posts is consulted before a delete
// to refuse removing a category that posts still reference.
func NewCategoryService(categories store.CategoryRepository, posts store.PostRepository, opts ...Option) *CategoryService {
	return &CategoryService{categories: categories, posts: posts, opts: buildOptions(opts)}
}

// ListAll returns every category.
func (s *CategoryService) ListAll(ctx context.Context) ([]models.Category, error) {
	return s.categories.ListCategories(ctx)
}

// Search returns the categories whose name contains fragment, ignoring case.
// A blank fragment is rejected; callers list everything with ListAll instead.
func (s *CategoryService) Search(ctx context.Context, fragment string) ([]models.Category, error) {
	err := validation.Errors{
		"name": validation.Validate(strings.TrimSpace(fragment), validation.Required),
	}.Filter()
	if err != nil {
		return nil, apperr.Invalid(err)
	}
	return s.categories.SearchCategories(ctx, fragment)
}

// GetByID returns the category with the given id.
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.categories.GetCategory(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, &apperr.CategoryNotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// Create adds a category with a name no other category uses.
func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	c := models.Category{ID: s.opts.newID(), Name: name}
	if err := s.categories.InsertCategory(ctx, c); err != nil {
		return nil, writeErr("create category", err)
	}
	s.opts.notify(EventCategoryCreated, c.ID)
	return &c, nil
}

// Rename changes the name of an existing category. Renaming a category to its
// own current name succeeds.
func (s *CategoryService) Rename(ctx context.Context, id uuid.UUID, newName string) (*models.Category, error) {
	newName = strings.TrimSpace(newName)
	if err := validateCategoryName(newName); err != nil {
		return nil, err
	}
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, newName, id); err != nil {
		return nil, err
	}

	c.Name = newName
	if err := s.categories.UpdateCategory(ctx, *c); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, &apperr.CategoryNotFoundError{ID: id}
		}
		return nil, writeErr("rename category", err)
	}
	s.opts.notify(EventCategoryUpdated, c.ID)
	return c, nil
}

// Delete removes a category. A category that posts still reference is not removed;
// the call fails with a CategoryInUseError instead.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := s.posts.CountPostsByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n > 0 {
		return &apperr.CategoryInUseError{ID: id, Posts: n}
	}

	if err := s.categories.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return &apperr.CategoryNotFoundError{ID: id}
		}
		return writeErr("delete category", err)
	}
	s.opts.notify(EventCategoryDeleted, id)
	return nil
}

func (s *CategoryService) ensureNameFree(ctx context.Context, name string, exclude uuid.UUID) error {
	taken, err := s.categories.CategoryNameTaken(ctx, name, exclude)
	if err != nil {
		return fmt.Errorf("check category name: %w", err)
	}
	if taken {
		return &apperr.CategoryAlreadyExistsError{Name: name}
	}
	return nil
}

func validateCategoryName(name string) error {
	err := validation.Errors{
		"name": validation.Validate(name,
			validation.Required,
			validation.RuneLength(1, MaxCategoryNameLength),
		),
	}.Filter()
	return apperr.Invalid(err)
}
