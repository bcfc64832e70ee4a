// Package outline implements a plain-text, indentation-based outline format
// for hierarchical task lists.
//
// A document is a tree of items. Each item is one of three kinds:
//
//	Project:            a line ending in ':'
//	- Task              a line starting with "- "
//	anything else       a Note; consecutive note lines merge into one item
//
// Leading tab characters encode indentation. Projects and tasks may carry
// inline attributes written @name or @name(value). The package provides the
// parser and serializer for this format, an arena-backed document tree with
// stable node identities, a small query language for searching and filtering
// items, and a one-way mirror operation that syncs matching items between two
// documents.
package outline

import (
	"errors"
	"strings"
)

// ErrQuerySyntax reports a malformed query string. All query parse failures
// wrap this sentinel so callers can distinguish them from I/O errors with
// errors.Is.
var ErrQuerySyntax = errors.New("invalid query")

// ItemKind distinguishes the three outline item kinds.
type ItemKind uint8

// Item kinds.
const (
	Project ItemKind = iota
	Task
	Note
)

// String returns the lowercase kind name, as used by the query language's
// @type attribute.
func (k ItemKind) String() string {
	switch k {
	case Project:
		return "project"
	case Task:
		return "task"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

// Item is one logical outline unit.
type Item struct {
	Kind ItemKind

	// Text is the item text with indentation, attributes and kind markers
	// stripped. It never contains '\n', '\r' or '\t', and for projects and
	// tasks it never ends with ':'. Notes may span multiple lines joined
	// with '\n'; inner lines keep their relative tab indentation.
	Text string

	// Attrs holds the item's attributes. Attribute order is not preserved
	// from the source; serialization reorders them deterministically.
	Attrs Attributes

	// Indent is the indentation level. The invariant indent(child) >=
	// indent(parent)+1 holds for every linked node, so indentation can
	// differ between siblings. Zero for freshly created items; raised as
	// needed when the item is inserted under a parent.
	Indent int

	line int // 1-based source line, 0 when not parsed from text
}

// NewItem creates an item with sanitized text and no attributes.
func NewItem(kind ItemKind, text string) Item {
	return Item{Kind: kind, Text: SanitizeText(text), Attrs: NewAttributes()}
}

// NewItemWithAttributes creates an item with sanitized text and the given
// attributes.
func NewItemWithAttributes(kind ItemKind, text string, attrs Attributes) Item {
	it := NewItem(kind, text)
	it.Attrs = attrs
	return it
}

// Line returns the 1-based source line the item was parsed from, and whether
// the item originated from parsed text at all.
func (it *Item) Line() (int, bool) {
	return it.line, it.line > 0
}

// IsProject reports whether the item is a project.
func (it *Item) IsProject() bool { return it.Kind == Project }

// IsTask reports whether the item is a task.
func (it *Item) IsTask() bool { return it.Kind == Task }

// IsNote reports whether the item is a note.
func (it *Item) IsNote() bool { return it.Kind == Note }

// clone returns a deep copy of the item.
func (it *Item) clone() Item {
	out := *it
	out.Attrs = it.Attrs.Clone()
	return out
}

// SanitizeText turns arbitrary text into text valid for an item: all
// whitespace characters become spaces, surrounding whitespace is trimmed, a
// trailing ':' and a leading "- " are removed.
func SanitizeText(text string) string {
	s := strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return ' '
		}
		return r
	}, text)
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ":")
	for strings.HasPrefix(s, "- ") {
		s = s[2:]
	}
	return s
}
