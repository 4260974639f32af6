package blogservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/starford/bloggerbox/internal/apperr"
	"github.com/starford/bloggerbox/internal/models"
	"github.com/starford/bloggerbox/internal/store"
)

// CategoryResolver looks up the category a post refers to.
// It fails with a CategoryNotFoundError when the id does not resolve.
type CategoryResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

// PostService owns post identity, content and the post's category reference.
type PostService struct {
	posts      store.PostRepository
	categories CategoryResolver
	opts       options
}

// NewPostService creates a post service that checks category references with categories.
func NewPostService(posts store.PostRepository, categories CategoryResolver, opts ...Option) *PostService {
	return &PostService{posts: posts, categories: categories, opts: buildOptions(opts)}
}

// ListAll returns every post ordered by creation date, oldest first.
func (s *PostService) ListAll(ctx context.Context) ([]models.Post, error) {
	return s.posts.ListPosts(ctx)
}

// Search returns the posts whose title or content contains keyword, ignoring case.
func (s *PostService) Search(ctx context.Context, keyword string) ([]models.Post, error) {
	return s.posts.SearchPosts(ctx, keyword)
}

// ListByCategory returns the posts of an existing category.
func (s *PostService) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Post, error) {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.posts.ListPostsByCategory(ctx, categoryID)
}

// GetByID returns the post with the given id.
func (s *PostService) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, err := s.posts.GetPost(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, &apperr.PostNotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

// Create stores a new post in an existing category, stamped with the current time.
func (s *PostService) Create(ctx context.Context, title, content string, categoryID uuid.UUID) (*models.Post, error) {
	cat, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	p := models.Post{
		ID:          s.opts.newID(),
		Title:       title,
		Content:     content,
		CreatedDate: s.opts.now().UTC().Truncate(time.Microsecond),
		Category:    *cat,
	}
	if err := s.posts.InsertPost(ctx, p); err != nil {
		return nil, writeErr("create post", err)
	}
	s.opts.notify(EventPostCreated, p.ID)
	return &p, nil
}

// Update replaces title, content and category of a post. The category is checked
// before the post; the creation date never changes.
func (s *PostService) Update(ctx context.Context, id uuid.UUID, title, content string, categoryID uuid.UUID) (*models.Post, error) {
	cat, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Title = title
	p.Content = content
	p.Category = *cat
	if err := s.posts.UpdatePost(ctx, *p); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, &apperr.PostNotFoundError{ID: id}
		}
		return nil, writeErr("update post", err)
	}
	s.opts.notify(EventPostUpdated, p.ID)
	return p, nil
}

// Delete removes a post.
func (s *PostService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.posts.DeletePost(ctx, id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return &apperr.PostNotFoundError{ID: id}
		}
		return fmt.Errorf("delete post: %w", err)
	}
	s.opts.notify(EventPostDeleted, id)
	return nil
}
