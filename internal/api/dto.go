package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/starford/bloggerbox/internal/models"
)

// CategoryRequest is the request body for creating or renaming a category.
type CategoryRequest struct {
	Name string `json:"name" example:"Sport"`
}

// PostRequest is the request body for creating or updating a post.
type PostRequest struct {
	Title      string     `json:"title" example:"Race Day"`
	Content    string     `json:"content" example:"Ten laps around the lake."`
	CategoryID *uuid.UUID `json:"categoryId" example:"7b1f0d5c-3c1e-4a5e-9a7b-2f4a6c1d9e00"`
}

// Validate checks that the post names a category.
func (r *PostRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.CategoryID, validation.Required),
	)
}

// Category is the category response type (aliased from the domain layer).
type Category = models.Category

// Post is the post response type (aliased from the domain layer).
type Post = models.Post
