package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"cybersense-learning-service/internal/domain"
)

// ForumStore persists posts and comments as JSONB documents. A
// created_at column carries the sort order so listings do not depend on
// JSON timestamp parsing.
type ForumStore struct {
	pool *pgxpool.Pool
}

func NewForumStore(pool *pgxpool.Pool) *ForumStore {
	return &ForumStore{pool: pool}
}

func (s *ForumStore) CreatePost(ctx context.Context, p domain.Post) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `INSERT INTO posts (id, created_at, data) VALUES ($1, $2, $3)`, p.ID, p.CreatedAt, data)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (s *ForumStore) GetPost(ctx context.Context, postID string) (domain.Post, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM posts WHERE id=$1`, postID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Post{}, domain.ErrPostNotFound
		}
		return domain.Post{}, fmt.Errorf("load post: %w", err)
	}
	var p domain.Post
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Post{}, fmt.Errorf("unmarshal post: %w", err)
	}
	return p, nil
}

func (s *ForumStore) UpdatePost(ctx context.Context, p domain.Post) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `UPDATE posts SET data=$2 WHERE id=$1`, p.ID, data)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (s *ForumStore) DeletePost(ctx context.Context, postID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE id=$1`, postID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (s *ForumStore) ListPosts(ctx context.Context) ([]domain.Post, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var p domain.Post
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *ForumStore) AddComment(ctx context.Context, c domain.Comment) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `INSERT INTO comments (post_id, id, created_at, data) VALUES ($1, $2, $3, $4)`,
		c.PostID, c.ID, c.CreatedAt, data)
	if err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	return nil
}

func (s *ForumStore) ListComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM comments WHERE post_id=$1 ORDER BY created_at`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var c domain.Comment
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
