// Package ops implements the maintenance passes that move items between the
// well-known database files: tickling deferred items, logging completed work,
// and purging attributes.
package ops

import (
	"fmt"
	"time"

	"taskpaper/pkg/outline"
)

// DateLayout is the canonical form attribute date values are written in.
const DateLayout = "2006-01-02"

// Tickle moves every @tickle item out of inbox and todo into tickle, renames
// the attribute to @to_inbox (keeping its value), and sorts the tickle file by
// due date. Items whose @to_inbox date is on or before now move back into the
// inbox. The caller is responsible for writing all three documents.
func Tickle(inbox, todo, tickle *outline.Document, now time.Time) error {
	var moved []outline.NodeID

	for _, source := range []*outline.Document{inbox, todo} {
		removed, err := source.Filter("@tickle")
		if err != nil {
			return err
		}

		for _, id := range removed {
			moved = append(moved, tickle.CopyNode(source, id))
		}
	}

	for _, id := range moved {
		item := tickle.Item(id)

		attr, _ := item.Attrs.Get("tickle")
		if !attr.HasValue {
			return fmt.Errorf("%w: %s", ErrTickleValueMissing, item.Text)
		}

		item.Attrs.Remove("tickle")
		item.Attrs.Insert(outline.Attribute{Name: "to_inbox", Value: attr.Value, HasValue: true})
		tickle.InsertNode(id, outline.AsLast())
	}

	sortByToInbox(tickle)

	// Items that have come due return to the inbox.
	due, err := tickle.Filter(fmt.Sprintf("@to_inbox <= %q", now.Format(DateLayout)))
	if err != nil {
		return err
	}

	for _, id := range due {
		inbox.InsertNode(inbox.CopyNode(tickle, id), outline.AsLast())
	}

	return nil
}

// sortByToInbox orders the top-level items of a tickle file by their
// @to_inbox date. Dates are ISO formatted, so string order is date order.
func sortByToInbox(tickle *outline.Document) {
	outline.SortNodesByKey(tickle, func(_ outline.NodeID, item *outline.Item) string {
		attr, _ := item.Attrs.Get("to_inbox")

		return attr.Value
	})
}
