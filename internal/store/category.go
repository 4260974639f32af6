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

// scanCategory scans a row into a Category.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	if err := scanner.Scan(&c.ID, &c.Name); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCategories returns every category ordered by name.
func (db *DB) ListCategories(ctx context.Context) ([]models.Category, error) {
	return db.queryCategories(ctx, "list categories", `
		SELECT id, name FROM category
		ORDER BY name_key, id
	`)
}

// SearchCategories returns categories whose name contains fragment, ignoring case.
func (db *DB) SearchCategories(ctx context.Context, fragment string) ([]models.Category, error) {
	return db.queryCategories(ctx, "search categories", `
		SELECT id, name FROM category
		WHERE name_key LIKE ? ESCAPE '\'
		ORDER BY name_key, id
	`, likeContains(fragment))
}

func (db *DB) queryCategories(ctx context.Context, op, query string, args ...any) ([]models.Category, error) {
	rows, err := db.conn.QueryContext(ctx, db.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("store: %s: %w", op, err)
	}
	defer rows.Close()

	out := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("store: %s: scan: %w", op, err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// GetCategory returns the category with the given id.
func (db *DB) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := db.conn.QueryRowContext(ctx, db.q(`SELECT id, name FROM category WHERE id = ?`), id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: get category %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get category: %w", err)
	}
	return c, nil
}

// CategoryNameTaken reports whether another category already uses name.
func (db *DB) CategoryNameTaken(ctx context.Context, name string, exclude uuid.UUID) (bool, error) {
	var taken bool
	err := db.conn.QueryRowContext(ctx, db.q(`
		SELECT EXISTS (
			SELECT 1 FROM category WHERE name_key = ? AND id <> ?
		)
	`), foldKey(name), exclude).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("store: category name taken: %w", err)
	}
	return taken, nil
}

// InsertCategory stores a new category.
func (db *DB) InsertCategory(ctx context.Context, c models.Category) error {
	_, err := db.conn.ExecContext(ctx, db.q(`INSERT INTO category (id, name, name_key) VALUES (?, ?, ?)`),
		c.ID, c.Name, foldKey(c.Name))
	if err != nil {
		return db.writeErr("insert category", err)
	}
	return nil
}

// UpdateCategory stores the new name of an existing category.
func (db *DB) UpdateCategory(ctx context.Context, c models.Category) error {
	res, err := db.conn.ExecContext(ctx, db.q(`UPDATE category SET name = ?, name_key = ? WHERE id = ?`),
		c.Name, foldKey(c.Name), c.ID)
	if err != nil {
		return db.writeErr("update category", err)
	}
	return requireAffected(res, "update category", c.ID)
}

// DeleteCategory removes a category. Posts still referencing it make the delete fail
// with a conflict.
func (db *DB) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	res, err := db.conn.ExecContext(ctx, db.q(`DELETE FROM category WHERE id = ?`), id)
	if err != nil {
		return db.writeErr("delete category", err)
	}
	return requireAffected(res, "delete category", id)
}

// writeErr wraps a failed write, tagging constraint violations as conflicts.
func (db *DB) writeErr(op string, err error) error {
	if isConstraintViolation(err) {
		return fmt.Errorf("store: %s: %w: %w", op, apperr.ErrConflict, err)
	}
	return fmt.Errorf("store: %s: %w", op, err)
}

func requireAffected(res sql.Result, op string, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: %s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("store: %s %s: %w", op, id, apperr.ErrNotFound)
	}
	return nil
}
