package entities

import "time"

// Post represents a blog post row in the database
type Post struct {
	ID              string    `json:"id"` // UUID
	Title           string    `json:"title"`
	Excerpt         string    `json:"excerpt"`
	Content         string    `json:"content"`            // HTML produced by the rich-text editor
	Image           *string   `json:"image"`              // Pointer allows nil (no cover image)
	ImageAlt        *string   `json:"imageAlt,omitempty"`
	MetaTitle       *string   `json:"metaTitle,omitempty"`
	MetaDescription *string   `json:"metaDescription,omitempty"`
	Category        string    `json:"category"`
	Published       bool      `json:"published"`
	AuthorID        string    `json:"authorId"` // UUID of the owning user
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
