package models

import "blog-admin/internal/entities"

// PostListResponse is one page of posts plus the owner's total count
type PostListResponse struct {
	Posts []*entities.Post `json:"posts"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
