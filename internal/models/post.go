package models

import (
	"time"
)

// Post is the denormalized post shape returned by the API: the category is
// echoed by name and tags as the list of tag names, never as foreign keys.
type Post struct {
	ID        int       `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Image     string    `json:"image" db:"image"`
	Content   string    `json:"content" db:"content"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
