package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"blog-admin/internal/apperrors"
	"blog-admin/internal/cache"
	"blog-admin/internal/content"
	"blog-admin/internal/entities"
	"blog-admin/internal/models"
	"blog-admin/internal/repository"
	"blog-admin/internal/validation"
)

const (
	DefaultPageLimit = 6
	MaxPageLimit     = 100
)

// PostService defines the interface for post business logic.
// authorID is always the authenticated user; posts of other users are NotFound.
type PostService interface {
	List(ctx context.Context, authorID string, query models.ListPostsQuery) (*models.PostListResponse, error)
	Get(ctx context.Context, id, authorID string) (*entities.Post, error)
	Create(ctx context.Context, authorID string, input *models.PostInput) (*entities.Post, error)
	Update(ctx context.Context, id, authorID string, patch *models.PostPatch) (*entities.Post, error)
	Delete(ctx context.Context, id, authorID string) error
}

type postService struct {
	repo      repository.PostRepository
	validator *validation.PostValidator
	cache     cache.Cache
}

// NewPostService creates a new post service. cacheClient may be nil.
func NewPostService(repo repository.PostRepository, validator *validation.PostValidator, cacheClient cache.Cache) PostService {
	svc := &postService{
		repo:      repo,
		validator: validator,
	}
	// Only set cache if provided (allows graceful degradation)
	if cacheClient != nil {
		svc.cache = cacheClient
	}
	return svc
}

// NormalizePage applies the listing defaults: page starts at 1,
// limit falls back to DefaultPageLimit and is capped at MaxPageLimit
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// List returns one page of the author's posts, newest first, with the total count
func (s *postService) List(ctx context.Context, authorID string, query models.ListPostsQuery) (*models.PostListResponse, error) {
	page, limit := NormalizePage(query.Page, query.Limit)
	posts := []*entities.Post{}
	// A page whose offset does not fit in an int is past the end of any listing
	if page-1 <= math.MaxInt/limit {
		var err error
		posts, err = s.repo.List(ctx, authorID, (page-1)*limit, limit)
		if err != nil {
			return nil, apperrors.Upstream("list posts", err)
		}
	}

	// Count and page are separate reads; a concurrent insert may shift results by one
	total, err := s.repo.Count(ctx, authorID)
	if err != nil {
		return nil, apperrors.Upstream("count posts", err)
	}

	return &models.PostListResponse{
		Posts: posts,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// Get returns a single post, served from cache when possible
func (s *postService) Get(ctx context.Context, id, authorID string) (*entities.Post, error) {
	if !isUUID(id) {
		return nil, apperrors.ErrNotFound
	}

	key := cache.PostKey(authorID, id)
	if s.cache != nil {
		var cached entities.Post
		err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			logrus.WithError(err).WithField("key", key).Warn("post cache read failed")
		}
	}

	post, err := s.repo.FindByID(ctx, id, authorID)
	if err != nil {
		return nil, apperrors.Upstream("get post", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, post, cache.PostTTL); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("post cache write failed")
		}
	}
	return post, nil
}

// Create validates the input and stores a new post owned by authorID.
// Nothing is written when validation fails.
func (s *postService) Create(ctx context.Context, authorID string, input *models.PostInput) (*entities.Post, error) {
	if err := s.validator.ValidateInput(input); err != nil {
		return nil, err
	}

	post := &entities.Post{
		Title:           strings.TrimSpace(input.Title),
		Excerpt:         strings.TrimSpace(input.Excerpt),
		Content:         input.Content,
		Image:           nonEmpty(input.Image),
		ImageAlt:        nonEmpty(input.ImageAlt),
		MetaTitle:       nonEmpty(input.MetaTitle),
		MetaDescription: nonEmpty(input.MetaDescription),
		Category:        input.Category,
		Published:       input.Published != nil && *input.Published,
		AuthorID:        authorID,
	}

	created, err := s.repo.Create(ctx, post)
	if err != nil {
		return nil, apperrors.Upstream("create post", err)
	}

	logrus.WithFields(logrus.Fields{
		"post_id":   created.ID,
		"author_id": authorID,
		"title":     content.Truncate(created.Title, 60),
	}).Info("post created")
	return created, nil
}

// Update applies the fields present in patch and leaves the rest unchanged
func (s *postService) Update(ctx context.Context, id, authorID string, patch *models.PostPatch) (*entities.Post, error) {
	if !isUUID(id) {
		return nil, apperrors.ErrNotFound
	}
	if err := s.validator.ValidatePatch(patch); err != nil {
		return nil, err
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		patch.Title = &title
	}
	if patch.Excerpt != nil {
		excerpt := strings.TrimSpace(*patch.Excerpt)
		patch.Excerpt = &excerpt
	}

	updated, err := s.repo.Update(ctx, id, authorID, patch)
	if err != nil {
		return nil, apperrors.Upstream("update post", err)
	}

	s.invalidate(ctx, authorID, id)
	logrus.WithFields(logrus.Fields{
		"post_id":   id,
		"author_id": authorID,
	}).Info("post updated")
	return updated, nil
}

// Delete removes a post; deleting a missing post is NotFound, not a no-op
func (s *postService) Delete(ctx context.Context, id, authorID string) error {
	if !isUUID(id) {
		return apperrors.ErrNotFound
	}

	if err := s.repo.Delete(ctx, id, authorID); err != nil {
		return apperrors.Upstream("delete post", err)
	}

	s.invalidate(ctx, authorID, id)
	logrus.WithFields(logrus.Fields{
		"post_id":   id,
		"author_id": authorID,
	}).Info("post deleted")
	return nil
}

func (s *postService) invalidate(ctx context.Context, authorID, id string) {
	if s.cache == nil {
		return
	}
	key := cache.PostKey(authorID, id)
	if err := s.cache.Delete(ctx, key); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("post cache invalidation failed")
	}
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
