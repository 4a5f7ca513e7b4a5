// Package sqlite stores rule set templates in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection, applies connection pragmas and
// creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: SQLite allows a single writer, and pragmas are
	// per connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, p := range db.pragmas() {
		if _, err := conn.Exec("PRAGMA " + p); err != nil {
			conn.Close()
			return fmt.Errorf("failed to set %s: %w", p, err)
		}
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// pragmas returns the connection settings. WAL is skipped for in-memory
// databases, which do not support it.
func (db *DB) pragmas() []string {
	p := []string{"busy_timeout = 5000", "foreign_keys = ON"}
	if db.path != ":memory:" {
		p = append(p, "journal_mode = WAL")
	}
	return p
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

// createSchema creates the database tables if they don't exist.
// Rules reference their rule set, and child rules reference their object or
// array rule, so deleting a rule set removes every rule beneath it.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS rule_sets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			url_pattern TEXT NOT NULL DEFAULT '',
			format TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS rules (
			seq INTEGER PRIMARY KEY,
			rule_set_id TEXT NOT NULL REFERENCES rule_sets(id) ON DELETE CASCADE,
			parent_seq INTEGER REFERENCES rules(seq) ON DELETE CASCADE,
			id TEXT NOT NULL,
			kind TEXT NOT NULL,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			path TEXT NOT NULL DEFAULT '',
			container_path TEXT NOT NULL DEFAULT '',
			attribute TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_rules_rule_set_id ON rules(rule_set_id);
	`

	_, err := db.db.Exec(schema)
	return err
}
