package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"coursekg/kgraph/internal/errs"
)

// DB wraps a SQLite database holding one dataset
type DB struct {
	conn *sql.DB
	Path string
}

// OpenDB opens a SQLite database with WAL mode and foreign keys enabled
func OpenDB(path string) (*DB, error) {
	const op = "open database"
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errs.Wrap(errs.IOFailure, op, err)
	}

	// WAL lets `analyze` read while `ingest` writes
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, errs.Wrap(errs.IOFailure, op, fmt.Errorf("setting WAL mode: %w", err))
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, errs.Wrap(errs.IOFailure, op, fmt.Errorf("enabling foreign keys: %w", err))
	}

	return &DB{conn: conn, Path: path}, nil
}

// EnsureSchema creates the students, courses and enrollments tables if missing
func (d *DB) EnsureSchema() error {
	if _, err := d.conn.Exec(schema); err != nil {
		return errs.Wrap(errs.IOFailure, "create schema", err)
	}
	return nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.conn.Close()
}
