package ops

import (
	"cmp"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"taskpaper/pkg/outline"
)

// DayLayout names the per-day archive projects in the logbook.
const DayLayout = "Monday, 02. January 2006"

// LogDone archives every @done item from todo into the logbook, grouped under
// per-day projects. Items that also carry @repeat are first copied into the
// tickle file with their next due date. The caller is responsible for writing
// all three documents.
func LogDone(todo, tickle, logbook *outline.Document, now time.Time) error {
	found, err := todo.Search("@done")
	if err != nil {
		return err
	}

	// Process deepest items first so unlinking one never detaches another
	// that is still waiting its turn.
	done := make([]outline.NodeID, len(found))
	copy(done, found)
	sortDeepestFirst(todo, done)

	var repeated []outline.NodeID

	for _, id := range found {
		if todo.Item(id).Attrs.Has("repeat") {
			repeated = append(repeated, id)
		}
	}

	if err := appendRepeatedToTickle(repeated, todo, tickle); err != nil {
		return err
	}

	return logToLogbook(done, todo, logbook, now)
}

func sortDeepestFirst(d *outline.Document, ids []outline.NodeID) {
	depths := make(map[outline.NodeID]int, len(ids))
	for _, id := range ids {
		depths[id] = nodeDepth(d, id)
	}

	// Stable so equal depths keep document order.
	slices.SortStableFunc(ids, func(a, b outline.NodeID) int {
		return cmp.Compare(depths[b], depths[a])
	})
}

func nodeDepth(d *outline.Document, id outline.NodeID) int {
	depth := 0

	for {
		parent, ok := d.Parent(id)
		if !ok {
			return depth
		}

		depth++
		id = parent
	}
}

// appendRepeatedToTickle copies each repeated item into the tickle file with
// @to_inbox set to the completion date plus the repeat interval. Checked-off
// boxes in attached notes are reset so the item comes back fresh.
func appendRepeatedToTickle(repeated []outline.NodeID, todo *outline.Document, tickle *outline.Document) error {
	for _, sourceID := range repeated {
		id := tickle.CopyNode(todo, sourceID)
		tickle.InsertNode(id, outline.AsLast())

		item := tickle.Item(id)

		doneAttr, _ := item.Attrs.Get("done")
		if !doneAttr.HasValue {
			return fmt.Errorf("%w: %s", ErrDoneValueMissing, item.Text)
		}

		doneDate, err := time.Parse(DateLayout, doneAttr.Value)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidDate, doneAttr.Value)
		}

		item.Attrs.Remove("done")

		repeatAttr, _ := item.Attrs.Get("repeat")
		if !repeatAttr.HasValue {
			return fmt.Errorf("%w: %s", ErrRepeatValueMissing, item.Text)
		}

		interval, err := ParseRepeatInterval(repeatAttr.Value)
		if err != nil {
			return err
		}

		item.Attrs.Insert(outline.Attribute{
			Name:     "to_inbox",
			Value:    doneDate.Add(interval).Format(DateLayout),
			HasValue: true,
		})

		for _, descendant := range tickle.Descendants(id) {
			note := tickle.Item(descendant)
			if note.IsNote() {
				note.Text = resetBoxes(note.Text)
			}
		}
	}

	sortByToInbox(tickle)

	return nil
}

// logToLogbook moves done items from todo into per-day projects in the
// logbook. The ids must be ordered deepest first.
func logToLogbook(done []outline.NodeID, todo *outline.Document, logbook *outline.Document, now time.Time) error {
	today := now.Format(DateLayout)

	for _, sourceID := range done {
		id := logbook.CopyNode(todo, sourceID)
		item := logbook.Item(id)

		// The archived text carries the full project trail.
		item.Text = parentTrail(todo, sourceID)

		todo.UnlinkNode(sourceID)

		doneAttr, _ := item.Attrs.Get("done")
		if !doneAttr.HasValue {
			doneAttr = outline.Attribute{Name: "done", Value: today, HasValue: true}
			item.Attrs.Insert(doneAttr)
		}

		doneDate, err := time.Parse(DateLayout, doneAttr.Value)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidDate, doneAttr.Value)
		}

		day := doneDate.Format(DayLayout)

		projectID, ok := findProject(logbook, day)
		if !ok {
			projectID = logbook.Insert(outline.NewItem(outline.Project, day), outline.AsLast())
		}

		logbook.InsertNode(id, outline.AsLastChildOf(projectID))
	}

	sortByDayDesc(logbook)

	return nil
}

// sortByDayDesc orders the top-level day projects newest first. Titles that
// do not parse as days sort last.
func sortByDayDesc(d *outline.Document) {
	outline.SortNodesByKey(d, func(_ outline.NodeID, item *outline.Item) int64 {
		day, err := time.Parse(DayLayout, item.Text)
		if err != nil {
			return math.MaxInt64
		}

		return -day.Unix()
	})
}

// parentTrail joins the texts from the outermost ancestor down to the node.
func parentTrail(d *outline.Document, id outline.NodeID) string {
	var texts []string
	for current, ok := id, true; ok; current, ok = d.Parent(current) {
		texts = append(texts, d.Item(current).Text)
	}

	slices.Reverse(texts)

	return strings.Join(texts, " • ")
}

func findProject(d *outline.Document, text string) (outline.NodeID, bool) {
	for _, id := range d.Nodes() {
		item := d.Item(id)
		if item.IsProject() && item.Text == text {
			return id, true
		}
	}

	return outline.NodeID{}, false
}

// resetBoxes unchecks "[X]" boxes at the start of note lines so a repeated
// item comes back with a fresh checklist.
func resetBoxes(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), "[X]") {
			lines[i] = strings.Replace(line, "[X]", "[_]", 1)
		}
	}

	return strings.Join(lines, "\n")
}

var intervalPattern = regexp.MustCompile(`(\d+)([dwmy])`)

// ParseRepeatInterval parses a @repeat value like "3d", "2w", "3m" or "1y"
// into a duration. Months count as 30 days and years as 365.
func ParseRepeatInterval(s string) (time.Duration, error) {
	match := intervalPattern.FindStringSubmatch(s)
	if match == nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidInterval, s)
	}

	count, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidInterval, s)
	}

	day := 24 * time.Hour

	switch match[2] {
	case "d":
		return time.Duration(count) * day, nil
	case "w":
		return time.Duration(count) * 7 * day, nil
	case "m":
		return time.Duration(count) * 30 * day, nil
	case "y":
		return time.Duration(count) * 365 * day, nil
	}

	return 0, fmt.Errorf("%w: %s", ErrInvalidInterval, s)
}
