package store

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations
var embedMigrations embed.FS

// Migrate applies all pending migrations for the DB's dialect and returns the
// versions that were applied by this call.
func (db *DB) Migrate(ctx context.Context) ([]int64, error) {
	provider, err := db.migrationProvider()
	if err != nil {
		return nil, err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: migrate up: %w", err)
	}
	applied := make([]int64, 0, len(results))
	for _, r := range results {
		applied = append(applied, r.Source.Version)
	}
	return applied, nil
}

// SchemaVersion returns the highest applied migration version.
func (db *DB) SchemaVersion(ctx context.Context) (int64, error) {
	provider, err := db.migrationProvider()
	if err != nil {
		return 0, err
	}
	v, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("store: schema version: %w", err)
	}
	return v, nil
}

func (db *DB) migrationProvider() (*goose.Provider, error) {
	fsys, err := fs.Sub(embedMigrations, "migrations/"+string(db.dialect))
	if err != nil {
		return nil, fmt.Errorf("store: migrations for %s: %w", db.dialect, err)
	}
	provider, err := goose.NewProvider(db.dialect.gooseDialect(), db.conn, fsys)
	if err != nil {
		return nil, fmt.Errorf("store: migration provider: %w", err)
	}
	return provider, nil
}
