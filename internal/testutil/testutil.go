// Package testutil provides shared test helpers for setting up databases and services.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/starford/bloggerbox/internal/blogservice"
	"github.com/starford/bloggerbox/internal/store"
)

// TestDB creates a migrated temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "bloggerbox-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	ctx := context.Background()
	db, err := store.Open(ctx, store.DialectSQLite, dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	return db
}

// TestServices wires a category and a post service over a fresh TestDB.
func TestServices(t *testing.T, opts ...blogservice.Option) (*blogservice.CategoryService, *blogservice.PostService) {
	t.Helper()
	db := TestDB(t)
	categories := blogservice.NewCategoryService(db, db, opts...)
	posts := blogservice.NewPostService(db, categories, opts...)
	return categories, posts
}
