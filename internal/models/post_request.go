package models

// PostInput is the body for POST /posts.
// Published is a pointer so an omitted value can default to false.
type PostInput struct {
	Title           string  `json:"title"`
	Excerpt         string  `json:"excerpt"`
	Content         string  `json:"content"`
	Image           *string `json:"image,omitempty"`
	ImageAlt        *string `json:"imageAlt,omitempty"`
	MetaTitle       *string `json:"metaTitle,omitempty"`
	MetaDescription *string `json:"metaDescription,omitempty"`
	Category        string  `json:"category"`
	Published       *bool   `json:"published,omitempty"`
}

// PostPatch is the body for PATCH /posts/:id.
// A nil field is left unchanged; an empty Image, ImageAlt, MetaTitle or
// MetaDescription clears it.
type PostPatch struct {
	Title           *string `json:"title,omitempty"`
	Excerpt         *string `json:"excerpt,omitempty"`
	Content         *string `json:"content,omitempty"`
	Image           *string `json:"image,omitempty"`
	ImageAlt        *string `json:"imageAlt,omitempty"`
	MetaTitle       *string `json:"metaTitle,omitempty"`
	MetaDescription *string `json:"metaDescription,omitempty"`
	Category        *string `json:"category,omitempty"`
	Published       *bool   `json:"published,omitempty"`
}

// ListPostsQuery holds the pagination query string
type ListPostsQuery struct {
	Page  int
	Limit int
}
