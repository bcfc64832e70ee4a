package index

import (
	"encoding/json"
	"fmt"
)

// ItemRow represents one item of an outline file in the items table.
type ItemRow struct {
	Path  string
	Line  int
	Kind  string
	Text  string
	Attrs map[string]string
}

// MatchRow is one plain-text lookup hit.
type MatchRow struct {
	Path string
	Line int
	Text string
}

// UpsertFile replaces a file's checksum and item rows in one transaction.
func (db *DB) UpsertFile(path, checksum string, items []ItemRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO files (path, checksum) VALUES (?, ?)
		ON CONFLICT(path) DO UPDATE SET checksum = excluded.checksum
	`, path, checksum)
	if err != nil {
		return fmt.Errorf("index: upsert file: %w", err)
	}

	// Replace items: delete old then bulk insert.
	_, _ = tx.Exec(`DELETE FROM items WHERE path = ?`, path)

	if len(items) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO items (path, line, kind, text, attrs) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare item insert: %w", err)
		}
		defer stmt.Close()

		for _, item := range items {
			attrsJSON, _ := json.Marshal(item.Attrs)

			if _, err := stmt.Exec(path, item.Line, item.Kind, item.Text, string(attrsJSON)); err != nil {
				return fmt.Errorf("index: insert item: %w", err)
			}
		}
	}

	return tx.Commit()
}

// DeleteFile removes a file and its items from the index.
func (db *DB) DeleteFile(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, _ = tx.Exec(`DELETE FROM items WHERE path = ?`, path)
	_, _ = tx.Exec(`DELETE FROM files WHERE path = ?`, path)

	return tx.Commit()
}

// AllChecksums returns the stored checksum for every indexed file.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM files`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)

	for rows.Next() {
		var path, checksum string
		if err := rows.Scan(&path, &checksum); err != nil {
			return nil, err
		}

		out[path] = checksum
	}

	return out, rows.Err()
}

// Match returns up to limit items whose text contains substr,
// case-insensitively, ordered by path and line.
func (db *DB) Match(substr string, limit int) ([]MatchRow, error) {
	rows, err := db.conn.Query(`
		SELECT path, line, text FROM items
		WHERE text LIKE ?
		ORDER BY path, line
		LIMIT ?
	`, "%"+substr+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("index: match: %w", err)
	}
	defer rows.Close()

	var out []MatchRow

	for rows.Next() {
		var m MatchRow
		if err := rows.Scan(&m.Path, &m.Line, &m.Text); err != nil {
			return nil, err
		}

		out = append(out, m)
	}

	return out, rows.Err()
}
