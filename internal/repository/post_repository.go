package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"blog-admin/internal/apperrors"
	"blog-admin/internal/entities"
	"blog-admin/internal/models"
)

// PostRepository defines the interface for post database operations.
// Every method is scoped to the owning author.
type PostRepository interface {
	Create(ctx context.Context, post *entities.Post) (*entities.Post, error)
	FindByID(ctx context.Context, id, authorID string) (*entities.Post, error)
	List(ctx context.Context, authorID string, offset, limit int) ([]*entities.Post, error)
	Count(ctx context.Context, authorID string) (int, error)
	Update(ctx context.Context, id, authorID string, patch *models.PostPatch) (*entities.Post, error)
	Delete(ctx context.Context, id, authorID string) error
}

type postRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, title, excerpt, content, image, image_alt, meta_title, meta_description,
	category, published, author_id, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// Create inserts a post; id and both timestamps come from the database
func (r *postRepository) Create(ctx context.Context, post *entities.Post) (*entities.Post, error) {
	query := `
		INSERT INTO posts (title, excerpt, content, image, image_alt, meta_title, meta_description, category, published, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + postColumns

	created, err := scanPost(r.db.QueryRowContext(ctx, query,
		post.Title,
		post.Excerpt,
		post.Content,
		post.Image,
		post.ImageAlt,
		post.MetaTitle,
		post.MetaDescription,
		post.Category,
		post.Published,
		post.AuthorID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return created, nil
}

// FindByID returns the post if it exists and belongs to authorID
func (r *postRepository) FindByID(ctx context.Context, id, authorID string) (*entities.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1 AND author_id = $2`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id, authorID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	return post, nil
}

// List returns one page of the author's posts, newest first
func (r *postRepository) List(ctx context.Context, authorID string, offset, limit int) ([]*entities.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE author_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, authorID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*entities.Post, 0, limit)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return posts, nil
}

// Count returns the number of posts owned by authorID
func (r *postRepository) Count(ctx context.Context, authorID string) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE author_id = $1`, authorID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return total, nil
}

// Update applies the non-nil patch fields in a single statement and refreshes updated_at.
// An empty image clears the column.
func (r *postRepository) Update(ctx context.Context, id, authorID string, patch *models.PostPatch) (*entities.Post, error) {
	query := `
		UPDATE posts SET
			title            = COALESCE($3, title),
			excerpt          = COALESCE($4, excerpt),
			content          = COALESCE($5, content),
			image            = CASE WHEN $6::text IS NULL THEN image ELSE NULLIF($6::text, '') END,
			image_alt        = CASE WHEN $7::text IS NULL THEN image_alt ELSE NULLIF($7::text, '') END,
			meta_title       = CASE WHEN $8::text IS NULL THEN meta_title ELSE NULLIF($8::text, '') END,
			meta_description = CASE WHEN $9::text IS NULL THEN meta_description ELSE NULLIF($9::text, '') END,
			category         = COALESCE($10, category),
			published        = COALESCE($11, published),
			updated_at       = NOW()
		WHERE id = $1 AND author_id = $2
		RETURNING ` + postColumns

	post, err := scanPost(r.db.QueryRowContext(ctx, query,
		id,
		authorID,
		patch.Title,
		patch.Excerpt,
		patch.Content,
		patch.Image,
		patch.ImageAlt,
		patch.MetaTitle,
		patch.MetaDescription,
		patch.Category,
		patch.Published,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

// Delete removes the post; a missing or foreign post is ErrNotFound every time
func (r *postRepository) Delete(ctx context.Context, id, authorID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1 AND author_id = $2`, id, authorID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func scanPost(row rowScanner) (*entities.Post, error) {
	var post entities.Post
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Excerpt,
		&post.Content,
		&post.Image,
		&post.ImageAlt,
		&post.MetaTitle,
		&post.MetaDescription,
		&post.Category,
		&post.Published,
		&post.AuthorID,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}
