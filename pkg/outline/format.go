package outline

import (
	"fmt"
	"slices"
	"strings"
)

// Sort controls the ordering of each sibling group during serialization.
type Sort uint8

const (
	// SortNothing keeps siblings in their current order.
	SortNothing Sort = iota

	// SortProjectsFirst stably moves all Projects of a sibling group before
	// all other items. Order within each group is preserved.
	SortProjectsFirst
)

// MarshalText renders the sort mode for configuration files.
func (s Sort) MarshalText() ([]byte, error) {
	switch s {
	case SortNothing:
		return []byte("nothing"), nil
	case SortProjectsFirst:
		return []byte("projects_first"), nil
	}
	return nil, fmt.Errorf("unknown sort mode %d", s)
}

// UnmarshalText parses the sort mode from configuration files.
func (s *Sort) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "nothing":
		*s = SortNothing
	case "projects_first":
		*s = SortProjectsFirst
	default:
		return fmt.Errorf("unknown sort mode %q", text)
	}
	return nil
}

// EmptyLineAfterProject says how many blank lines to lay out after a
// Project's subtree when the next sibling is itself a Project, by nesting
// depth of the project.
type EmptyLineAfterProject struct {
	TopLevel   int `json:"top_level"`
	FirstLevel int `json:"first_level"`
	Others     int `json:"others"`
}

// FormatOptions bundles every knob of the serializer. Pass them explicitly;
// there is no process-wide default beyond DefaultFormatOptions.
type FormatOptions struct {
	Sort                  Sort                  `json:"sort"`
	EmptyLineAfterProject EmptyLineAfterProject `json:"empty_line_after_project"`
}

// DefaultFormatOptions is the layout used when no configuration overrides
// it: projects first, one blank line between top- and first-level projects.
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{
		Sort: SortProjectsFirst,
		EmptyLineAfterProject: EmptyLineAfterProject{
			TopLevel:   1,
			FirstLevel: 1,
			Others:     0,
		},
	}
}

// String serializes the whole document. Indentation in the output follows
// tree depth, not each item's stored indent, so a re-parented subtree comes
// out at its new depth.
func (d *Document) String(options FormatOptions) string {
	var buf strings.Builder
	d.printNodes(&buf, d.roots, 0, options)
	return buf.String()
}

// NodeString renders a single item, without its children, at depth zero.
func (d *Document) NodeString(id NodeID) string {
	var buf strings.Builder
	appendItem(&buf, d.Item(id), 0)
	return buf.String()
}

func (d *Document) printNodes(buf *strings.Builder, ids []NodeID, depth int, options FormatOptions) {
	if options.Sort == SortProjectsFirst {
		ids = slices.Clone(ids)
		slices.SortStableFunc(ids, func(a, b NodeID) int {
			av, bv := 0, 0
			if !d.Item(a).IsProject() {
				av = 1
			}
			if !d.Item(b).IsProject() {
				bv = 1
			}
			return av - bv
		})
	}

	for idx, id := range ids {
		item := d.Item(id)
		appendItem(buf, item, depth)

		emptyLines := 0
		if item.IsProject() {
			switch depth {
			case 0:
				emptyLines = options.EmptyLineAfterProject.TopLevel
			case 1:
				emptyLines = options.EmptyLineAfterProject.FirstLevel
			default:
				emptyLines = options.EmptyLineAfterProject.Others
			}
		}

		d.printNodes(buf, d.at(id).children, depth+1, options)

		// Blank lines only separate a project from a following project.
		if emptyLines > 0 && idx+1 < len(ids) && d.Item(ids[idx+1]).IsProject() {
			for i := 0; i < emptyLines; i++ {
				buf.WriteByte('\n')
			}
		}
	}
}

func appendItem(buf *strings.Builder, item *Item, depth int) {
	tabs := strings.Repeat("\t", depth)
	switch item.Kind {
	case Project:
		fmt.Fprintf(buf, "%s%s:%s\n", tabs, item.Text, projectAttrsString(item))
	case Task:
		fmt.Fprintf(buf, "%s- %s%s\n", tabs, item.Text, taskAttrsString(item))
	case Note:
		// An empty note renders nothing, which drops blank placeholders.
		if item.Text == "" {
			return
		}
		for _, line := range strings.Split(item.Text, "\n") {
			fmt.Fprintf(buf, "%s%s\n", tabs, line)
		}
	}
}

// projectAttrsString renders a project's attributes sorted by their full
// rendered form.
func projectAttrsString(item *Item) string {
	if item.Attrs.Len() == 0 {
		return ""
	}
	rendered := make([]string, 0, item.Attrs.Len())
	for _, a := range item.Attrs.Sorted() {
		rendered = append(rendered, a.String())
	}
	slices.Sort(rendered)
	return " " + strings.Join(rendered, " ")
}

// taskAttrsString renders a task's attributes with valueless ones first,
// each group alphabetical by name.
func taskAttrsString(item *Item) string {
	if item.Attrs.Len() == 0 {
		return ""
	}
	attrs := item.Attrs.Sorted()
	slices.SortStableFunc(attrs, func(a, b Attribute) int {
		av, bv := 0, 0
		if a.HasValue {
			av = 1
		}
		if b.HasValue {
			bv = 1
		}
		return av - bv
	})
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		parts = append(parts, a.String())
	}
	return " " + strings.Join(parts, " ")
}
