package repo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-blog-go/internal/post/entity"
	"github.com/ovaphlow/pitchfork/service-blog-go/pkg/database"
)

const postColumns = `id, user_id, title, content, created_at, updated_at`

// PostRepo provides data access for the posts table.
type PostRepo struct {
	db *sqlx.DB
}

func NewPostRepo(db *sqlx.DB) *PostRepo { return &PostRepo{db: db} }

// EnsureTable creates the posts table if it does not already exist. Titles
// are unique across all authors.
func (r *PostRepo) EnsureTable(ctx context.Context) error {
	const tbl = `
CREATE TABLE IF NOT EXISTS posts (
  id varchar(32) PRIMARY KEY,
  user_id varchar(32) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  title TEXT NOT NULL UNIQUE,
  content TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts (user_id);
`
	_, err := r.db.ExecContext(ctx, tbl)
	return err
}

// List returns all posts, newest first.
func (r *PostRepo) List(ctx context.Context) ([]*entity.Post, error) {
	posts := []*entity.Post{}
	if err := r.db.SelectContext(ctx, &posts, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepo) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	var p entity.Post
	if err := r.db.GetContext(ctx, &p, `SELECT `+postColumns+` FROM posts WHERE id=$1`, id); err != nil {
		return nil, fmt.Errorf("get post: %w", database.Classify(err))
	}
	return &p, nil
}

// Create inserts p. A duplicate title yields database.ErrConflict.
func (r *PostRepo) Create(ctx context.Context, p *entity.Post) error {
	const q = `INSERT INTO posts (id, user_id, title, content, created_at, updated_at)
		VALUES (:id, :user_id, :title, :content, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, q, p); err != nil {
		return fmt.Errorf("create post: %w", database.Classify(err))
	}
	return nil
}

// Update applies patch to the post and returns the stored row.
func (r *PostRepo) Update(ctx context.Context, id string, patch entity.Patch) (*entity.Post, error) {
	const q = `UPDATE posts SET
		title = COALESCE($1, title),
		content = COALESCE($2, content),
		updated_at = NOW()
	WHERE id = $3
	RETURNING ` + postColumns
	var p entity.Post
	if err := r.db.GetContext(ctx, &p, q, patch.Title, patch.Content, id); err != nil {
		return nil, fmt.Errorf("update post: %w", database.Classify(err))
	}
	return &p, nil
}

// Delete removes the post; an unknown id yields database.ErrNotFound.
func (r *PostRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete post: %w", database.ErrNotFound)
	}
	return nil
}
