package controllers

import (
	"net/http"
	"strconv"

	"blog-admin/internal/apperrors"
	"blog-admin/internal/models"
	"blog-admin/internal/service"

	"github.com/gin-gonic/gin"
)

type PostController struct {
	postService service.PostService
}

func NewPostController(postService service.PostService) *PostController {
	return &PostController{
		postService: postService,
	}
}

// ListPosts handles GET /posts?page=&limit=
func (pc *PostController) ListPosts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	query, err := parseListQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	response, err := pc.postService.List(c.Request.Context(), userID, query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetPost handles GET /posts/:id
func (pc *PostController) GetPost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	post, err := pc.postService.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// CreatePost handles POST /posts
func (pc *PostController) CreatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	var req models.PostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	post, err := pc.postService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// UpdatePost handles PATCH /posts/:id
func (pc *PostController) UpdatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	var req models.PostPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	post, err := pc.postService.Update(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost handles DELETE /posts/:id
func (pc *PostController) DeletePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	if err := pc.postService.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// parseListQuery reads page and limit; absent values are left to the service defaults
func parseListQuery(c *gin.Context) (models.ListPostsQuery, error) {
	var query models.ListPostsQuery
	ve := &apperrors.ValidationError{}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			ve.Add("page", "must be an integer")
		}
		query.Page = page
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			ve.Add("limit", "must be an integer")
		}
		query.Limit = limit
	}

	if ve.HasErrors() {
		return query, ve
	}
	return query, nil
}
