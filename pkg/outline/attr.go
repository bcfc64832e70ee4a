package outline

import (
	"sort"
	"strings"
)

// Attribute is a named, optionally valued annotation on an item, written
// inline as @name or @name(value).
type Attribute struct {
	Name     string
	Value    string
	HasValue bool
}

// String renders the attribute in its on-disk form.
func (a Attribute) String() string {
	if !a.HasValue {
		return "@" + a.Name
	}
	return "@" + a.Name + "(" + a.Value + ")"
}

// Attributes is a collection of attributes keyed by name. Inserting an
// attribute whose name is already present overwrites the previous value.
type Attributes struct {
	byName map[string]Attribute
}

// NewAttributes returns an empty collection.
func NewAttributes() Attributes {
	return Attributes{byName: make(map[string]Attribute)}
}

// Insert adds or replaces an attribute.
func (as *Attributes) Insert(a Attribute) {
	if as.byName == nil {
		as.byName = make(map[string]Attribute)
	}
	as.byName[a.Name] = a
}

// Remove deletes the attribute with the given name, if present.
func (as *Attributes) Remove(name string) {
	delete(as.byName, name)
}

// Get returns the attribute with the given name.
func (as *Attributes) Get(name string) (Attribute, bool) {
	a, ok := as.byName[name]
	return a, ok
}

// Has reports whether an attribute with the given name exists.
func (as *Attributes) Has(name string) bool {
	_, ok := as.byName[name]
	return ok
}

// Len returns the number of attributes.
func (as *Attributes) Len() int { return len(as.byName) }

// Sorted returns all attributes ordered by name.
func (as *Attributes) Sorted() []Attribute {
	out := make([]Attribute, 0, len(as.byName))
	for _, a := range as.byName {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Clone returns a deep copy of the collection.
func (as *Attributes) Clone() Attributes {
	out := NewAttributes()
	for _, a := range as.byName {
		out.byName[a.Name] = a
	}
	return out
}

// attrSpan records where an extracted attribute occurrence sat in the line,
// as rune offsets. The span covers the whole run of spaces preceding the '@'.
type attrSpan struct {
	attr       Attribute
	start, end int
}

// ExtractAttributes scans one line of text and returns the line with every
// recognized attribute occurrence removed, plus the extracted attributes in
// order of appearance.
//
// An attribute starts at an '@' preceded by start-of-line or whitespace, so
// text like "openssl@1.1" is left alone. The name is the maximal run of
// alphanumeric or underscore characters; an empty name disqualifies the
// match. A value in parentheses may follow the name directly; its content is
// taken verbatim ('@' and '(' are allowed inside, the first ')' ends it). If
// the closing ')' never comes, the occurrence is not an attribute and the
// rest of the line is left untouched.
func ExtractAttributes(line string) (string, Attributes) {
	attrs := NewAttributes()
	runes := []rune(line)

	spans := findAttributes(runes)
	for _, s := range spans {
		attrs.Insert(s.attr)
	}

	// Remove back-to-front so earlier offsets stay valid.
	for i := len(spans) - 1; i >= 0; i-- {
		s := spans[i]
		runes = append(runes[:s.start], runes[s.end:]...)
	}
	return string(runes), attrs
}

func findAttributes(runes []rune) []attrSpan {
	var spans []attrSpan

	for i := 0; i < len(runes); i++ {
		if runes[i] != '@' {
			continue
		}

		// The '@' must sit at line start or after a run of spaces. The
		// removal span swallows that run too.
		start := i
		switch {
		case i == 0:
		case runes[i-1] == ' ':
			for start > 0 && runes[start-1] == ' ' {
				start--
			}
		default:
			continue
		}

		name, pos := scanAttrName(runes, i+1)
		if name == "" {
			continue
		}

		if pos < len(runes) && runes[pos] == '(' {
			value, end, ok := scanAttrValue(runes, pos+1)
			if !ok {
				// Unterminated value: the whole occurrence stays plain text,
				// and nothing after it can start a fresh attribute.
				return spans
			}
			a := Attribute{Name: name}
			if value != "" {
				a.Value = value
				a.HasValue = true
			}
			spans = append(spans, attrSpan{attr: a, start: start, end: end})
			i = end - 1
			continue
		}

		spans = append(spans, attrSpan{attr: Attribute{Name: name}, start: start, end: pos})
		i = pos - 1
	}
	return spans
}

// scanAttrName consumes the attribute name starting at pos and returns it
// with the offset one past its end.
func scanAttrName(runes []rune, pos int) (string, int) {
	var b strings.Builder
	for pos < len(runes) && isAttrNameRune(runes[pos]) {
		b.WriteRune(runes[pos])
		pos++
	}
	return b.String(), pos
}

// scanAttrValue consumes a parenthesized value body starting just after the
// opening '(' and returns the verbatim content with the offset one past the
// closing ')'. ok is false when the line ends before the value closes.
func scanAttrValue(runes []rune, pos int) (string, int, bool) {
	var b strings.Builder
	for pos < len(runes) {
		if runes[pos] == ')' {
			return b.String(), pos + 1, true
		}
		b.WriteRune(runes[pos])
		pos++
	}
	return "", 0, false
}

func isAttrNameRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
