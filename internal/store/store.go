package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/starford/bloggerbox/internal/models"
)

// CategoryRepository persists categories.
//
// Lookups by id return an error matching apperr.ErrNotFound when no row exists.
// Writes rejected by a unique or foreign key constraint return an error matching
// apperr.ErrConflict that also wraps the driver error.
type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	SearchCategories(ctx context.Context, fragment string) ([]models.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	// CategoryNameTaken reports whether a category other than exclude already uses name,
	// compared case-insensitively. Pass uuid.Nil to check against every category.
	CategoryNameTaken(ctx context.Context, name string, exclude uuid.UUID) (bool, error)
	InsertCategory(ctx context.Context, c models.Category) error
	UpdateCategory(ctx context.Context, c models.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// PostRepository persists posts. Reads return the post joined with its category.
type PostRepository interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	SearchPosts(ctx context.Context, keyword string) ([]models.Post, error)
	ListPostsByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Post, error)
	CountPostsByCategory(ctx context.Context, categoryID uuid.UUID) (int, error)
	GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error)
	InsertPost(ctx context.Context, p models.Post) error
	UpdatePost(ctx context.Context, p models.Post) error
	DeletePost(ctx context.Context, id uuid.UUID) error
}

// Verify *DB satisfies both repositories at compile time.
var (
	_ CategoryRepository = (*DB)(nil)
	_ PostRepository     = (*DB)(nil)
)
