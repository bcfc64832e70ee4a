package ops

import (
	"strings"

	"taskpaper/pkg/outline"
)

// PurgeAttributes removes the named attributes from every item in the
// document. Names may be given with or without the leading "@".
func PurgeAttributes(d *outline.Document, names []string) {
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		cleaned = append(cleaned, strings.TrimPrefix(name, "@"))
	}

	for _, id := range d.Nodes() {
		item := d.Item(id)
		for _, name := range cleaned {
			item.Attrs.Remove(name)
		}
	}
}
