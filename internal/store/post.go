package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/starford/bloggerbox/internal/apperr"
	"github.com/starford/bloggerbox/internal/models"
)

const postSelect = `
	SELECT p.id, p.title, p.content, p.created_date, c.id, c.name
	FROM post p
	JOIN category c ON c.id = p.category_id
`

// scanPost scans a postSelect row into a Post.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Content, &p.CreatedDate,
		&p.Category.ID, &p.Category.Name,
	)
	if err != nil {
		return nil, err
	}
	p.CreatedDate = p.CreatedDate.UTC()
	return &p, nil
}

// ListPosts returns every post, oldest first.
func (db *DB) ListPosts(ctx context.Context) ([]models.Post, error) {
	return db.queryPosts(ctx, "list posts", postSelect+`
		ORDER BY p.created_date, p.id
	`)
}

// SearchPosts returns posts whose title or content contains keyword, ignoring case.
func (db *DB) SearchPosts(ctx context.Context, keyword string) ([]models.Post, error) {
	like := likeContains(keyword)
	return db.queryPosts(ctx, "search posts", postSelect+`
		WHERE p.title_key LIKE ? ESCAPE '\' OR p.content_key LIKE ? ESCAPE '\'
		ORDER BY p.created_date, p.id
	`, like, like)
}

// ListPostsByCategory returns the posts that reference categoryID, oldest first.
func (db *DB) ListPostsByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Post, error) {
	return db.queryPosts(ctx, "list posts by category", postSelect+`
		WHERE p.category_id = ?
		ORDER BY p.created_date, p.id
	`, categoryID)
}

func (db *DB) queryPosts(ctx context.Context, op, query string, args ...any) ([]models.Post, error) {
	rows, err := db.conn.QueryContext(ctx, db.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("store: %s: %w", op, err)
	}
	defer rows.Close()

	out := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("store: %s: scan: %w", op, err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// CountPostsByCategory returns how many posts reference categoryID.
func (db *DB) CountPostsByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx, db.q(`SELECT count(*) FROM post WHERE category_id = ?`), categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store: count posts by category: %w", err)
	}
	return n, nil
}

// GetPost returns the post with the given id.
func (db *DB) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	row := db.conn.QueryRowContext(ctx, db.q(postSelect+` WHERE p.id = ?`), id)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: get post %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get post: %w", err)
	}
	return p, nil
}

// InsertPost stores a new post. A category id with no matching category is a conflict.
func (db *DB) InsertPost(ctx context.Context, p models.Post) error {
	_, err := db.conn.ExecContext(ctx, db.q(`
		INSERT INTO post (id, title, content, title_key, content_key, created_date, category_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), p.ID, p.Title, p.Content, foldKey(p.Title), foldKey(p.Content), p.CreatedDate, p.Category.ID)
	if err != nil {
		return db.writeErr("insert post", err)
	}
	return nil
}

// UpdatePost stores title, content and category of an existing post.
// created_date is never rewritten.
func (db *DB) UpdatePost(ctx context.Context, p models.Post) error {
	res, err := db.conn.ExecContext(ctx, db.q(`
		UPDATE post SET title = ?, content = ?, title_key = ?, content_key = ?, category_id = ?
		WHERE id = ?
	`), p.Title, p.Content, foldKey(p.Title), foldKey(p.Content), p.Category.ID, p.ID)
	if err != nil {
		return db.writeErr("update post", err)
	}
	return requireAffected(res, "update post", p.ID)
}

// DeletePost removes a post.
func (db *DB) DeletePost(ctx context.Context, id uuid.UUID) error {
	res, err := db.conn.ExecContext(ctx, db.q(`DELETE FROM post WHERE id = ?`), id)
	if err != nil {
		return db.writeErr("delete post", err)
	}
	return requireAffected(res, "delete post", id)
}
