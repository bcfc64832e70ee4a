// Package index maintains a SQLite mirror of the database's items so other
// tools can query them without parsing every outline file.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS files (
	path     TEXT PRIMARY KEY,
	checksum TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS items (
	path  TEXT NOT NULL,
	line  INTEGER NOT NULL,
	kind  TEXT NOT NULL,
	text  TEXT NOT NULL,
	attrs TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_items_path ON items(path);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite index and applies the schema.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()

		return nil, fmt.Errorf("index: ping: %w", err)
	}

	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()

		return nil, fmt.Errorf("index: apply schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
