// Package store provides SQL-backed persistence for categories and posts.
// The same queries run on SQLite (mattn/go-sqlite3) and PostgreSQL (pgx).
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/text/cases"
)

// DB wraps a sql.DB with category and post operations.
type DB struct {
	conn    *sql.DB
	dialect Dialect
}

// Open connects to the database for the given dialect and verifies the connection.
// For SQLite, dsn is a file path. Schema migrations are applied separately by Migrate.
func Open(ctx context.Context, dialect Dialect, dsn string) (*DB, error) {
	if err := dialect.Validate(); err != nil {
		return nil, err
	}
	conn, err := sql.Open(dialect.driverName(), dialect.dataSource(dsn))
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return &DB{conn: conn, dialect: dialect}, nil
}

// Ping reports whether the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Dialect returns the SQL dialect the DB was opened with.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// q rewrites a query written with ? placeholders for the active dialect.
func (db *DB) q(query string) string {
	return db.dialect.rebind(query)
}

// foldKey returns the Unicode case-folded form of s. Name uniqueness and all
// searches compare these keys, stored next to the original text, never the
// database's own lower().
func foldKey(s string) string {
	return cases.Fold().String(s)
}

// likeContains builds a "contains" pattern over folded keys in which %, _ and \
// from the user input match literally. Queries pair it with ESCAPE '\'.
func likeContains(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(foldKey(s)) + "%"
}
