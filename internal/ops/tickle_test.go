package ops_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskpaper/internal/ops"
	"taskpaper/pkg/outline"
)

func renderDoc(d *outline.Document) string {
	return d.String(outline.DefaultFormatOptions())
}

func Test_Tickle_Moves_Deferred_Items_When_Tagged(t *testing.T) {
	t.Parallel()

	inbox := outline.Parse("- buy gift @tickle(2026-09-01)\n- keep me\n")
	todo := outline.Parse("Work:\n\t- quarterly review @tickle(2026-12-01)\n")
	tickle := outline.Parse("")

	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	require.NoError(t, ops.Tickle(inbox, todo, tickle, now))

	require.Equal(t, "- keep me\n", renderDoc(inbox))
	require.Equal(t, "Work:\n", renderDoc(todo))
	require.Equal(t,
		"- buy gift @to_inbox(2026-09-01)\n- quarterly review @to_inbox(2026-12-01)\n",
		renderDoc(tickle))
}

func Test_Tickle_Returns_Due_Items_To_Inbox_When_Date_Reached(t *testing.T) {
	t.Parallel()

	inbox := outline.Parse("- future @tickle(2026-09-01)\n")
	todo := outline.Parse("")
	tickle := outline.Parse("- overdue @to_inbox(2026-08-01)\n- today @to_inbox(2026-08-26)\n")

	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	require.NoError(t, ops.Tickle(inbox, todo, tickle, now))

	// Items due on or before today return, later items stay sorted by date.
	require.Equal(t, "- overdue @to_inbox(2026-08-01)\n- today @to_inbox(2026-08-26)\n", renderDoc(inbox))
	require.Equal(t, "- future @to_inbox(2026-09-01)\n", renderDoc(tickle))
}

func Test_Tickle_Sorts_Tickle_File_By_Due_Date_When_Items_Added(t *testing.T) {
	t.Parallel()

	inbox := outline.Parse("- c @tickle(2027-03-01)\n- a @tickle(2027-01-01)\n")
	todo := outline.Parse("- b @tickle(2027-02-01)\n")
	tickle := outline.Parse("")

	now := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	require.NoError(t, ops.Tickle(inbox, todo, tickle, now))

	require.Equal(t,
		"- a @to_inbox(2027-01-01)\n- b @to_inbox(2027-02-01)\n- c @to_inbox(2027-03-01)\n",
		renderDoc(tickle))
}

func Test_Tickle_Returns_Error_When_Tag_Has_No_Value(t *testing.T) {
	t.Parallel()

	inbox := outline.Parse("- someday @tickle\n")
	todo := outline.Parse("")
	tickle := outline.Parse("")

	err := ops.Tickle(inbox, todo, tickle, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC))
	require.ErrorIs(t, err, ops.ErrTickleValueMissing)
}

func Test_Tickle_Moves_Whole_Subtree_When_Parent_Tagged(t *testing.T) {
	t.Parallel()

	todo := outline.Parse("- trip @tickle(2026-10-01)\n\t- book hotel\n\tpacking list\n")
	inbox := outline.Parse("")
	tickle := outline.Parse("")

	now := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	require.NoError(t, ops.Tickle(inbox, todo, tickle, now))

	require.Equal(t, "", renderDoc(todo))
	require.Equal(t,
		"- trip @to_inbox(2026-10-01)\n\t- book hotel\n\tpacking list\n",
		renderDoc(tickle))
}
