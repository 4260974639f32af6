// Package models defines the domain types for Bloggerbox.
package models

import "github.com/google/uuid"

// Category is a named grouping of posts. Names are unique regardless of letter case.
type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
