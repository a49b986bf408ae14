package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"blog-admin/internal/apperrors"
	"blog-admin/internal/cache"
	"blog-admin/internal/config"
	"blog-admin/internal/entities"
	"blog-admin/internal/mocks"
	"blog-admin/internal/models"
	"blog-admin/internal/repository"
	"blog-admin/internal/validation"
)

const otherUserID = "7d2e0c3a-1b4f-4e8a-8c6d-5f9a0b1c2d3e"

// memPostRepo is an in-memory PostRepository with a deterministic clock
type memPostRepo struct {
	mu    sync.Mutex
	posts map[string]*entities.Post
	clock time.Time
}

var _ repository.PostRepository = (*memPostRepo)(nil)

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{
		posts: make(map[string]*entities.Post),
		clock: time.Date(2024, 12, 20, 10, 0, 0, 0, time.UTC),
	}
}

func (r *memPostRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Minute)
	return r.clock
}

func (r *memPostRepo) Create(_ context.Context, post *entities.Post) (*entities.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := *post
	p.ID = uuid.NewString()
	p.CreatedAt = r.tick()
	p.UpdatedAt = p.CreatedAt
	r.posts[p.ID] = &p
	out := p
	return &out, nil
}

func (r *memPostRepo) FindByID(_ context.Context, id, authorID string) (*entities.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok || p.AuthorID != authorID {
		return nil, apperrors.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (r *memPostRepo) List(_ context.Context, authorID string, offset, limit int) ([]*entities.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owned := make([]*entities.Post, 0)
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			out := *p
			owned = append(owned, &out)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })
	if offset >= len(owned) {
		return []*entities.Post{}, nil
	}
	end := min(offset+limit, len(owned))
	return owned[offset:end], nil
}

func (r *memPostRepo) Count(_ context.Context, authorID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

func (r *memPostRepo) Update(_ context.Context, id, authorID string, patch *models.PostPatch) (*entities.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok || p.AuthorID != authorID {
		return nil, apperrors.ErrNotFound
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Excerpt != nil {
		p.Excerpt = *patch.Excerpt
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.Image != nil {
		p.Image = nonEmpty(patch.Image)
	}
	if patch.ImageAlt != nil {
		p.ImageAlt = nonEmpty(patch.ImageAlt)
	}
	if patch.MetaTitle != nil {
		p.MetaTitle = nonEmpty(patch.MetaTitle)
	}
	if patch.MetaDescription != nil {
		p.MetaDescription = nonEmpty(patch.MetaDescription)
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Published != nil {
		p.Published = *patch.Published
	}
	p.UpdatedAt = r.tick()
	out := *p
	return &out, nil
}

func (r *memPostRepo) Delete(_ context.Context, id, authorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok || p.AuthorID != authorID {
		return apperrors.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func validInput(title string) *models.PostInput {
	return &models.PostInput{
		Title:    title,
		Excerpt:  "Short summary",
		Content:  "<p>Body</p>",
		Category: "CARE",
	}
}

func newPostService(repo repository.PostRepository, c cache.Cache) PostService {
	return NewPostService(repo, validation.NewPostValidator(config.DefaultCategories), c)
}

func TestCreateThenGet(t *testing.T) {
	svc := newPostService(newMemPostRepo(), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, testUserID, validInput("First"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.Published)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.Equal(t, testUserID, created.AuthorID)

	got, err := svc.Get(ctx, created.ID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreateInvalidWritesNothing(t *testing.T) {
	repo := newMemPostRepo()
	svc := newPostService(repo, nil)

	in := validInput("")
	in.Category = "GOSSIP"
	_, err := svc.Create(context.Background(), testUserID, in)

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Fields, 2)
	assert.Empty(t, repo.posts)
}

func TestUpdateOnlyTitle(t *testing.T) {
	repo := newMemPostRepo()
	svc := newPostService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, testUserID, validInput("Before"))
	require.NoError(t, err)

	title := "After"
	updated, err := svc.Update(ctx, created.ID, testUserID, &models.PostPatch{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "After", updated.Title)
	assert.Equal(t, created.Excerpt, updated.Excerpt)
	assert.Equal(t, created.Content, updated.Content)
	assert.Equal(t, created.Category, updated.Category)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestUpdateInvalidPatch(t *testing.T) {
	svc := newPostService(newMemPostRepo(), nil)
	created, err := svc.Create(context.Background(), testUserID, validInput("Post"))
	require.NoError(t, err)

	empty := "   "
	_, err = svc.Update(context.Background(), created.ID, testUserID, &models.PostPatch{Title: &empty})
	var ve *apperrors.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestDeleteTwice(t *testing.T) {
	svc := newPostService(newMemPostRepo(), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, testUserID, validInput("Doomed"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID, testUserID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID, testUserID), apperrors.ErrNotFound)

	_, err = svc.Get(ctx, created.ID, testUserID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListPaginatesNewestFirst(t *testing.T) {
	svc := newPostService(newMemPostRepo(), nil)
	ctx := context.Background()

	for _, title := range []string{"p1", "p2", "p3", "p4", "p5"} {
		_, err := svc.Create(ctx, testUserID, validInput(title))
		require.NoError(t, err)
	}

	first, err := svc.List(ctx, testUserID, models.ListPostsQuery{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Posts, 2)
	assert.Equal(t, "p5", first.Posts[0].Title)
	assert.Equal(t, "p4", first.Posts[1].Title)
	assert.Equal(t, 5, first.Total)

	last, err := svc.List(ctx, testUserID, models.ListPostsQuery{Page: 3, Limit: 2})
	require.NoError(t, err)
	require.Len(t, last.Posts, 1)
	assert.Equal(t, "p1", last.Posts[0].Title)
	assert.Equal(t, 5, last.Total)

	beyond, err := svc.List(ctx, testUserID, models.ListPostsQuery{Page: 9, Limit: 2})
	require.NoError(t, err)
	assert.NotNil(t, beyond.Posts)
	assert.Empty(t, beyond.Posts)
	assert.Equal(t, 5, beyond.Total)
}

func TestListDefaults(t *testing.T) {
	svc := newPostService(newMemPostRepo(), nil)

	resp, err := svc.List(context.Background(), testUserID, models.ListPostsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, DefaultPageLimit, resp.Limit)
}

func TestListHugePageIsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPostRepository(ctrl)
	svc := newPostService(repo, nil)

	// no List call: the offset would overflow
	repo.EXPECT().Count(gomock.Any(), testUserID).Return(3, nil)

	resp, err := svc.List(context.Background(), testUserID, models.ListPostsQuery{Page: math.MaxInt, Limit: 6})
	require.NoError(t, err)
	assert.NotNil(t, resp.Posts)
	assert.Empty(t, resp.Posts)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, math.MaxInt, resp.Page)
}

func TestListLastAddressablePage(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPostRepository(ctrl)
	svc := newPostService(repo, nil)

	page := math.MaxInt/MaxPageLimit + 1
	repo.EXPECT().List(gomock.Any(), testUserID, (page-1)*MaxPageLimit, MaxPageLimit).Return([]*entities.Post{}, nil)
	repo.EXPECT().Count(gomock.Any(), testUserID).Return(0, nil)

	resp, err := svc.List(context.Background(), testUserID, models.ListPostsQuery{Page: page, Limit: MaxPageLimit})
	require.NoError(t, err)
	assert.Empty(t, resp.Posts)
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, 6},
		{-3, -1, 1, 6},
		{2, 10, 2, 10},
		{1, 1000, 1, MaxPageLimit},
		{math.MaxInt, 6, math.MaxInt, 6},
	}
	for _, tt := range tests {
		page, limit := NormalizePage(tt.page, tt.limit)
		assert.Equal(t, tt.wantPage, page)
		assert.Equal(t, tt.wantLimit, limit)
	}
}

func TestPostsAreOwnerScoped(t *testing.T) {
	svc := newPostService(newMemPostRepo(), nil)
	ctx := context.Background()

	mine, err := svc.Create(ctx, testUserID, validInput("Mine"))
	require.NoError(t, err)

	_, err = svc.Get(ctx, mine.ID, otherUserID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	title := "Hijacked"
	_, err = svc.Update(ctx, mine.ID, otherUserID, &models.PostPatch{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, mine.ID, otherUserID), apperrors.ErrNotFound)

	theirs, err := svc.List(ctx, otherUserID, models.ListPostsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, theirs.Total)
}

func TestMalformedIDIsNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPostRepository(ctrl)
	svc := newPostService(repo, nil)
	ctx := context.Background()

	_, err := svc.Get(ctx, "not-a-uuid", testUserID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "42", testUserID), apperrors.ErrNotFound)
}

func TestStoreFailureIsUpstream(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPostRepository(ctrl)
	svc := newPostService(repo, nil)

	repo.EXPECT().List(gomock.Any(), testUserID, 0, DefaultPageLimit).Return(nil, errors.New("connection refused"))

	_, err := svc.List(context.Background(), testUserID, models.ListPostsQuery{})
	var ue *apperrors.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "list posts", ue.Op)
}

func TestGetServesFromCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPostRepository(ctrl)
	c := mocks.NewMockCache(ctrl)
	svc := newPostService(repo, c)

	id := uuid.NewString()
	key := cache.PostKey(testUserID, id)
	c.EXPECT().GetJSON(gomock.Any(), key, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, dest any) error {
			*dest.(*entities.Post) = entities.Post{ID: id, Title: "Cached", AuthorID: testUserID}
			return nil
		})

	post, err := svc.Get(context.Background(), id, testUserID)
	require.NoError(t, err)
	assert.Equal(t, "Cached", post.Title)
}

func TestGetFillsCacheOnMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPostRepository(ctrl)
	c := mocks.NewMockCache(ctrl)
	svc := newPostService(repo, c)

	id := uuid.NewString()
	key := cache.PostKey(testUserID, id)
	stored := &entities.Post{ID: id, Title: "Stored", AuthorID: testUserID}

	gomock.InOrder(
		c.EXPECT().GetJSON(gomock.Any(), key, gomock.Any()).Return(cache.ErrCacheMiss),
		repo.EXPECT().FindByID(gomock.Any(), id, testUserID).Return(stored, nil),
		c.EXPECT().SetJSON(gomock.Any(), key, stored, cache.PostTTL).Return(nil),
	)

	post, err := svc.Get(context.Background(), id, testUserID)
	require.NoError(t, err)
	assert.Same(t, stored, post)
}

func TestGetSurvivesBrokenCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPostRepository(ctrl)
	c := mocks.NewMockCache(ctrl)
	svc := newPostService(repo, c)

	id := uuid.NewString()
	stored := &entities.Post{ID: id, AuthorID: testUserID}
	c.EXPECT().GetJSON(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("i/o timeout"))
	repo.EXPECT().FindByID(gomock.Any(), id, testUserID).Return(stored, nil)
	c.EXPECT().SetJSON(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("i/o timeout"))

	post, err := svc.Get(context.Background(), id, testUserID)
	require.NoError(t, err)
	assert.Same(t, stored, post)
}

func TestMutationsInvalidateCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPostRepository(ctrl)
	c := mocks.NewMockCache(ctrl)
	svc := newPostService(repo, c)

	id := uuid.NewString()
	key := cache.PostKey(testUserID, id)
	published := true
	patch := &models.PostPatch{Published: &published}

	repo.EXPECT().Update(gomock.Any(), id, testUserID, patch).Return(&entities.Post{ID: id, Published: true}, nil)
	repo.EXPECT().Delete(gomock.Any(), id, testUserID).Return(nil)
	c.EXPECT().Delete(gomock.Any(), key).Return(nil).Times(2)

	_, err := svc.Update(context.Background(), id, testUserID, patch)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), id, testUserID))
}
