package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a piece of content that belongs to exactly one category.
type Post struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	CreatedDate time.Time `json:"createdDate"`
	Category    Category  `json:"category"`
}
