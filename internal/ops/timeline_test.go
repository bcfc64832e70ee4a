package ops_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskpaper/internal/ops"
	"taskpaper/pkg/outline"
)

func Test_ExtractTimeline_Groups_Items_By_Due_Date(t *testing.T) {
	t.Parallel()

	todo := outline.Parse("Work:\n" +
		"\t- plan trip @due(2026-08-29)\n" +
		"\t- ship release @due(2026-08-27)\n" +
		"- call mom @due(2026-08-26)\n" +
		"- pay rent @due(2026-08-20)\n" +
		"- shipped already @done(2026-08-25) @due(2026-08-25)\n")

	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	timeline, err := ops.ExtractTimeline(todo, filepath.Join(t.TempDir(), "missing.taskpaper"), now)
	require.NoError(t, err)

	require.Equal(t,
		"Overdue:\n"+
			"\t- pay rent @due(2026-08-20)\n"+
			"\n"+
			"Today:\n"+
			"\t- call mom @due(2026-08-26)\n"+
			"\n"+
			"Thursday, 27. August 2026 (+1 day):\n"+
			"\t- ship release @due(2026-08-27)\n"+
			"\n"+
			"Saturday, 29. August 2026 (+3 days):\n"+
			"\t- plan trip @due(2026-08-29)\n",
		renderDoc(timeline))
}

func Test_ExtractTimeline_Copies_Items_Without_Their_Notes(t *testing.T) {
	t.Parallel()

	todo := outline.Parse("- water plants @due(2026-08-26)\n\tthe ones on the balcony\n")

	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	timeline, err := ops.ExtractTimeline(todo, filepath.Join(t.TempDir(), "missing.taskpaper"), now)
	require.NoError(t, err)

	require.Equal(t, "Today:\n\t- water plants @due(2026-08-26)\n", renderDoc(timeline))
}

func Test_ExtractTimeline_Skips_Items_When_Due_Has_No_Value(t *testing.T) {
	t.Parallel()

	todo := outline.Parse("- someday @due\n")

	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	timeline, err := ops.ExtractTimeline(todo, filepath.Join(t.TempDir(), "missing.taskpaper"), now)
	require.NoError(t, err)
	require.Equal(t, "", renderDoc(timeline))
}

func Test_ExtractTimeline_Returns_Error_When_Due_Date_Invalid(t *testing.T) {
	t.Parallel()

	todo := outline.Parse("- broken @due(tomorrow)\n")

	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	_, err := ops.ExtractTimeline(todo, filepath.Join(t.TempDir(), "missing.taskpaper"), now)
	require.ErrorIs(t, err, ops.ErrInvalidDate)
}

func Test_ExtractTimeline_Mirrors_Timeline_Edits_Back_Into_Todo(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	todoPath := filepath.Join(dir, "todo.taskpaper")
	require.NoError(t, os.WriteFile(todoPath, []byte("- write report @due(2026-08-25)\n"), 0o644))

	// The timeline file was edited after todo was last touched.
	stale := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(todoPath, stale, stale))

	todo, err := outline.ParseFile(todoPath)
	require.NoError(t, err)

	timelinePath := filepath.Join(dir, "timeline.taskpaper")
	require.NoError(t, os.WriteFile(timelinePath,
		[]byte("Overdue:\n\t- write report @done(2026-08-26) @due(2026-08-25)\n"), 0o644))

	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	timeline, err := ops.ExtractTimeline(todo, timelinePath, now)
	require.NoError(t, err)

	// Checking the item off in the timeline stuck in todo, so the fresh
	// timeline no longer lists it.
	require.Equal(t, "", renderDoc(timeline))
	require.Equal(t, "- write report @done(2026-08-26) @due(2026-08-25)\n", renderDoc(todo))
}

func Test_MergeDays_Combines_Day_Projects_And_Sorts_Newest_First(t *testing.T) {
	t.Parallel()

	into := outline.Parse("Wednesday, 26. August 2026:\n\t- a\n\nMonday, 24. August 2026:\n\t- b\n")
	from := outline.Parse("Monday, 24. August 2026:\n\t- c\n\nTuesday, 25. August 2026:\n\t- d\n")

	ops.MergeDays(from, into)

	require.Equal(t,
		"Wednesday, 26. August 2026:\n"+
			"\t- a\n"+
			"\n"+
			"Tuesday, 25. August 2026:\n"+
			"\t- d\n"+
			"\n"+
			"Monday, 24. August 2026:\n"+
			"\t- b\n"+
			"\t- c\n",
		renderDoc(into))
}
