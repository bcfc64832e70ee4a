package ops

import (
	"fmt"
	"os"
	"slices"
	"time"

	"taskpaper/pkg/outline"
)

// ExtractTimeline builds a fresh timeline document from every todo item
// matching "@due and not @done". Items are grouped under per-day projects
// ordered soonest first; all overdue items share a single "Overdue" project
// and items due today go under "Today". Only the items themselves are
// copied, their notes and children stay in todo.
//
// When a timeline file already exists at timelinePath, edits made to it
// since todo was parsed are mirrored back into todo first, so checking an
// item off in the timeline sticks. The caller writes the returned document.
func ExtractTimeline(todo *outline.Document, timelinePath string, now time.Time) (*outline.Document, error) {
	if _, err := os.Stat(timelinePath); err == nil {
		if err := outline.MirrorChanges(timelinePath, todo); err != nil {
			return nil, err
		}
	}

	found, err := todo.Search("@due and not @done")
	if err != nil {
		return nil, err
	}

	today, err := time.Parse(DateLayout, now.Format(DateLayout))
	if err != nil {
		return nil, err
	}

	groups := make(map[time.Time][]outline.NodeID)

	for _, id := range found {
		dueAttr, _ := todo.Item(id).Attrs.Get("due")
		if !dueAttr.HasValue {
			continue
		}

		due, err := time.Parse(DateLayout, dueAttr.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidDate, dueAttr.Value)
		}

		// Every overdue item lands in the same group, one day before
		// today, so they all share one project sorted first.
		if due.Before(today) {
			due = today.AddDate(0, 0, -1)
		}

		groups[due] = append(groups[due], id)
	}

	days := make([]time.Time, 0, len(groups))
	for day := range groups {
		days = append(days, day)
	}

	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })

	timeline := outline.NewDocument()

	for _, day := range days {
		projectID := timeline.Insert(outline.NewItem(outline.Project, dayTitle(day, today)), outline.AsLast())

		for _, id := range groups[day] {
			item := todo.Item(id)
			timeline.Insert(outline.Item{
				Kind:  item.Kind,
				Text:  item.Text,
				Attrs: item.Attrs.Clone(),
			}, outline.AsLastChildOf(projectID))
		}
	}

	return timeline, nil
}

func dayTitle(day, today time.Time) string {
	diffDays := int(day.Sub(today) / (24 * time.Hour))

	switch {
	case diffDays < 0:
		return "Overdue"
	case diffDays == 0:
		return "Today"
	case diffDays == 1:
		return fmt.Sprintf("%s (+1 day)", day.Format(DayLayout))
	default:
		return fmt.Sprintf("%s (+%d days)", day.Format(DayLayout), diffDays)
	}
}

// MergeDays merges the top-level day projects of from into into. Children of
// a project that already exists in into are appended to it; everything else
// is appended at the top level. The result is ordered newest day first.
func MergeDays(from, into *outline.Document) {
	for _, rootID := range from.Roots() {
		item := from.Item(rootID)

		if item.IsProject() {
			if targetID, ok := findProject(into, item.Text); ok {
				for _, child := range from.Children(rootID) {
					into.InsertNode(into.CopyNode(from, child), outline.AsLastChildOf(targetID))
				}

				continue
			}
		}

		into.InsertNode(into.CopyNode(from, rootID), outline.AsLast())
	}

	sortByDayDesc(into)
}
