package db_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"taskpaper/internal/db"
	"taskpaper/pkg/outline"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func Test_Database_ParseAll_Collects_Outline_Files_When_Nested(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "01_inbox.taskpaper", "Inbox:\n\t- capture\n")
	writeFile(t, root, "projects/home.taskpaper", "Home:\n")
	writeFile(t, root, "notes.txt", "not an outline file\n")

	database, err := db.New(root, nil)
	require.NoError(t, err)

	documents, err := database.ParseAll()
	require.NoError(t, err)

	require.Len(t, documents, 2)
	require.Contains(t, documents, "01_inbox.taskpaper")
	require.Contains(t, documents, filepath.Join("projects", "home.taskpaper"))

	inbox := documents["01_inbox.taskpaper"]
	roots := inbox.Roots()
	require.Len(t, roots, 1)
	require.Equal(t, "Inbox", inbox.Item(roots[0]).Text)
}

func Test_Database_ParseAll_Skips_Unreadable_Files_When_Walking(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "ok.taskpaper", "Fine:\n")

	// A dangling symlink cannot be read; the walk must still return every
	// readable file instead of failing outright.
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "bad.taskpaper")))

	database, err := db.New(root, nil)
	require.NoError(t, err)

	documents, err := database.ParseAll()
	require.NoError(t, err)
	require.Len(t, documents, 1)
	require.Contains(t, documents, "ok.taskpaper")
}

func Test_Database_Rel_Rejects_Paths_Outside_Root_When_Resolved(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	database, err := db.New(root, nil)
	require.NoError(t, err)

	rel, err := database.Rel(filepath.Join(root, "a", "b.taskpaper"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join("a", "b.taskpaper"), rel)

	_, err = database.Rel(filepath.Join(root, "..", "outside.taskpaper"))
	require.ErrorIs(t, err, db.ErrFileOutsideRoot)
}

func Test_Database_CommonFile_Round_Trips_When_Written(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, db.Todo.Name(), "Work:\n\t- ship it @due(2026-09-01)\n")

	database, err := db.New(root, nil)
	require.NoError(t, err)

	document, err := database.ParseCommonFile(db.Todo)
	require.NoError(t, err)

	require.NoError(t, database.WriteCommonFile(document, db.Todo, outline.DefaultFormatOptions()))

	data, err := os.ReadFile(database.Path(db.Todo))
	require.NoError(t, err)
	require.Equal(t, "Work:\n\t- ship it @due(2026-09-01)\n", string(data))
}

func Test_CommonFile_Names_Are_Stable_When_Listed(t *testing.T) {
	t.Parallel()

	require.Equal(t, "01_inbox.taskpaper", db.Inbox.Name())
	require.Equal(t, "02_todo.taskpaper", db.Todo.Name())
	require.Equal(t, "03_tickle.taskpaper", db.Tickle.Name())
	require.Equal(t, "40_logbook.taskpaper", db.Logbook.Name())
	require.Equal(t, "10_timeline.taskpaper", db.Timeline.Name())
}
