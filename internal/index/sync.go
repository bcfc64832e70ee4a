package index

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"

	"taskpaper/internal/db"
	"taskpaper/pkg/outline"
)

// Sync walks the database directory and brings the index up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the index
func Sync(idx *DB, database *db.Database, logger *slog.Logger) error {
	files, err := database.Files()
	if err != nil {
		return err
	}

	checksums, err := idx.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(files))

	for _, rel := range files {
		disk[rel] = struct{}{}

		data, readErr := os.ReadFile(filepath.Join(database.Root(), rel))
		if readErr != nil {
			logger.Warn("sync: read failed", slog.String("path", rel), slog.String("error", readErr.Error()))

			continue
		}

		sum := sha256.Sum256(data)
		checksum := hex.EncodeToString(sum[:])

		if checksums[rel] == checksum {
			continue
		}

		if upsertErr := idx.UpsertFile(rel, checksum, itemRows(rel, outline.Parse(string(data)))); upsertErr != nil {
			logger.Warn("sync: index failed", slog.String("path", rel), slog.String("error", upsertErr.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", rel))
		}
	}

	// Remove stale entries.
	for path := range checksums {
		if _, ok := disk[path]; !ok {
			if deleteErr := idx.DeleteFile(path); deleteErr != nil {
				logger.Warn("sync: delete failed", slog.String("path", path), slog.String("error", deleteErr.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", path))
			}
		}
	}

	return nil
}

// itemRows flattens a parsed document into its index rows.
func itemRows(path string, document *outline.Document) []ItemRow {
	ids := document.Nodes()
	rows := make([]ItemRow, 0, len(ids))

	for _, id := range ids {
		item := document.Item(id)
		line, _ := item.Line()

		attrs := make(map[string]string, item.Attrs.Len())
		for _, attr := range item.Attrs.Sorted() {
			attrs[attr.Name] = attr.Value
		}

		rows = append(rows, ItemRow{
			Path:  path,
			Line:  line,
			Kind:  item.Kind.String(),
			Text:  item.Text,
			Attrs: attrs,
		})
	}

	return rows
}
