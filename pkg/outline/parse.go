package outline

import (
	"fmt"
	"os"
	"strings"
)

// Parse builds a document from full file text. It cannot fail: every line is
// classified as a Project, Task, or Note, and blank lines are dropped
// (layout blank lines are re-created on serialization).
func Parse(input string) *Document {
	d := NewDocument()
	tokens := tokenizeLines(input)

	pos := 0
	for pos < len(tokens) {
		var id NodeID
		id, pos = parseItem(d, tokens, pos)
		d.roots = append(d.roots, id)
	}
	return d
}

// ParseFile parses the file at path. The file's modification time is
// remembered alongside the path so mirroring can tell whether the document
// on disk changed after this read.
func ParseFile(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	d := Parse(string(content))
	d.path = path
	d.modTime = info.ModTime()
	return d, nil
}

// lineToken is one non-blank input line after attribute extraction and
// classification.
type lineToken struct {
	line   int // 1-based
	indent int
	kind   ItemKind
	text   string
	attrs  Attributes
}

func tokenizeLines(input string) []lineToken {
	var tokens []lineToken
	for i, raw := range strings.Split(input, "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		stripped, attrs := ExtractAttributes(raw)
		clean := strings.TrimSpace(stripped)

		kind := Note
		switch {
		case strings.HasSuffix(clean, ":"):
			kind = Project
			clean = clean[:len(clean)-1]
		case strings.HasPrefix(clean, "- "):
			kind = Task
			clean = strings.TrimLeft(clean[1:], " \t")
		}

		tokens = append(tokens, lineToken{
			line:   i + 1,
			indent: countIndent(raw),
			kind:   kind,
			text:   clean,
			attrs:  attrs,
		})
	}
	return tokens
}

func countIndent(line string) int {
	n := 0
	for _, r := range line {
		if r != '\t' {
			break
		}
		n++
	}
	return n
}

// parseItem consumes the token at pos plus, for Projects and Tasks, every
// following strictly deeper line as a child. Note tokens instead absorb the
// run of Note lines at their indentation or deeper into one multi-line item.
func parseItem(d *Document, tokens []lineToken, pos int) (NodeID, int) {
	tok := tokens[pos]

	if tok.kind == Note {
		return parseNoteBlock(d, tokens, pos)
	}

	id := d.register(Item{
		Kind:   tok.kind,
		Text:   tok.text,
		Attrs:  tok.attrs,
		Indent: tok.indent,
		line:   tok.line,
	})
	pos++

	var children []NodeID
	for pos < len(tokens) && tokens[pos].indent > tok.indent {
		var child NodeID
		child, pos = parseItem(d, tokens, pos)
		d.at(child).parent = id
		children = append(children, child)
	}
	d.at(id).children = children

	return id, pos
}

// parseNoteBlock merges consecutive Note lines at the first line's
// indentation or deeper into a single item. Deeper lines keep their extra
// depth as embedded tabs relative to the first line. Attributes found on
// later lines join the item's collection, later lines winning on name
// clashes.
func parseNoteBlock(d *Document, tokens []lineToken, pos int) (NodeID, int) {
	first := tokens[pos]

	var lines []string
	attrs := NewAttributes()
	for pos < len(tokens) {
		tok := tokens[pos]
		if tok.kind != Note || tok.indent < first.indent {
			break
		}
		lines = append(lines, strings.Repeat("\t", tok.indent-first.indent)+tok.text)
		for _, a := range tok.attrs.Sorted() {
			attrs.Insert(a)
		}
		pos++
	}

	id := d.register(Item{
		Kind:   Note,
		Text:   strings.Join(lines, "\n"),
		Attrs:  attrs,
		Indent: first.indent,
		line:   first.line,
	})
	return id, pos
}
