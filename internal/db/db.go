// Package db locates and loads the outline files that make up a task
// database: a directory tree of .taskpaper files with a handful of
// well-known members (inbox, todo, tickle, logbook).
package db

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"taskpaper/pkg/outline"
)

// FileExtension is the extension a file must carry to be part of a database.
const FileExtension = ".taskpaper"

// CommonFile identifies one of the well-known files of a database.
type CommonFile int

const (
	// Inbox collects newly captured items.
	Inbox CommonFile = iota
	// Todo holds the actively worked list.
	Todo
	// Tickle holds deferred items waiting to return to the inbox.
	Tickle
	// Logbook archives completed items by day.
	Logbook
	// Timeline is a generated overview file.
	Timeline
)

// Name returns the file name of a common file relative to the database root.
func (c CommonFile) Name() string {
	switch c {
	case Inbox:
		return "01_inbox.taskpaper"
	case Todo:
		return "02_todo.taskpaper"
	case Tickle:
		return "03_tickle.taskpaper"
	case Logbook:
		return "40_logbook.taskpaper"
	case Timeline:
		return "10_timeline.taskpaper"
	}

	panic(fmt.Sprintf("db: unknown common file %d", int(c)))
}

// Database is a directory tree of outline files rooted at a single path.
type Database struct {
	root   string
	logger *slog.Logger
}

// New creates a Database rooted at the given directory. The root is made
// absolute so relative keys stay stable regardless of the working directory.
// A nil logger disables parse warnings.
func New(root string, logger *slog.Logger) (*Database, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve database root %s: %w", root, err)
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Database{root: abs, logger: logger}, nil
}

// Root returns the absolute path of the database directory.
func (d *Database) Root() string {
	return d.root
}

// Path returns the absolute path of a common file.
func (d *Database) Path(c CommonFile) string {
	return filepath.Join(d.root, c.Name())
}

// Rel translates an absolute path into a database-relative key.
func (d *Database) Rel(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}

	rel, err := filepath.Rel(d.root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%w: %s", ErrFileOutsideRoot, path)
	}

	return rel, nil
}

// ParseAll walks the database and parses every outline file, keyed by
// root-relative path. Files that cannot be read are skipped with a warning
// so one damaged file does not take the whole database down.
func (d *Database) ParseAll() (map[string]*outline.Document, error) {
	documents := make(map[string]*outline.Document)

	err := filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if entry.IsDir() || filepath.Ext(path) != FileExtension {
			return nil
		}

		document, parseErr := outline.ParseFile(path)
		if parseErr != nil {
			d.logger.Warn("skipping unreadable file",
				slog.String("path", path),
				slog.String("error", parseErr.Error()))

			return nil
		}

		rel, relErr := d.Rel(path)
		if relErr != nil {
			return relErr
		}

		documents[rel] = document

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk database %s: %w", d.root, err)
	}

	return documents, nil
}

// Files returns the root-relative paths of every outline file in the
// database, in walk order.
func (d *Database) Files() ([]string, error) {
	var files []string

	err := filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if entry.IsDir() || filepath.Ext(path) != FileExtension {
			return nil
		}

		rel, relErr := d.Rel(path)
		if relErr != nil {
			return relErr
		}

		files = append(files, rel)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk database %s: %w", d.root, err)
	}

	return files, nil
}

// ParseCommonFile parses one of the well-known database files.
func (d *Database) ParseCommonFile(c CommonFile) (*outline.Document, error) {
	return outline.ParseFile(d.Path(c))
}

// WriteCommonFile serializes a document over one of the well-known files.
func (d *Database) WriteCommonFile(document *outline.Document, c CommonFile, options outline.FormatOptions) error {
	return document.Write(d.Path(c), options)
}

// ExpandTilde replaces a leading "~" with the home directory from env.
func ExpandTilde(path string, env map[string]string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home := env["HOME"]; home != "" {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}

	return path
}
