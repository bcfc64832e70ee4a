package outline

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind uint8

const (
	tokAttr tokenKind = iota
	tokLeftParen
	tokRightParen

	tokBangEqual
	tokEqual
	tokEqualEqual
	tokGreater
	tokGreaterEqual
	tokLess
	tokLessEqual
	tokContains

	tokString

	tokNot
	tokAnd
	tokOr
	tokTrue
	tokFalse

	tokEOF
)

func (k tokenKind) isPredicate() bool {
	switch k {
	case tokBangEqual, tokEqual, tokEqualEqual, tokGreater, tokGreaterEqual,
		tokLess, tokLessEqual, tokContains:
		return true
	}
	return false
}

func (k tokenKind) isKeyword() bool {
	switch k {
	case tokNot, tokAnd, tokOr, tokTrue, tokFalse:
		return true
	}
	return false
}

type token struct {
	kind tokenKind
	text string // name for tokAttr, literal for tokString
}

type charStream struct {
	runes   []rune
	current int
}

func newCharStream(text string) *charStream {
	return &charStream{runes: []rune(text)}
}

func (s *charStream) atEnd() bool { return s.current >= len(s.runes) }

func (s *charStream) peek() (rune, bool) {
	if s.atEnd() {
		return 0, false
	}
	return s.runes[s.current], true
}

func (s *charStream) advance() rune {
	s.current++
	return s.runes[s.current-1]
}

func (s *charStream) isNext(c rune) bool {
	if r, ok := s.peek(); ok && r == c {
		s.advance()
		return true
	}
	return false
}

// lex tokenizes one query string. Bare words that are not keywords become
// string literals; the words project, task, and note expand into a
// parenthesized comparison against the item's kind.
func lex(input string) ([]token, error) {
	stream := newCharStream(input)
	var tokens []token
	for !stream.atEnd() {
		switch c := stream.advance(); c {
		case '@':
			tokens = append(tokens, token{kind: tokAttr, text: lexAttrName(stream)})
		case '(':
			tokens = append(tokens, token{kind: tokLeftParen})
		case ')':
			tokens = append(tokens, token{kind: tokRightParen})
		case ' ', '\t':
		case '!':
			if !stream.isNext('=') {
				return nil, fmt.Errorf("%w: unexpected '!'", ErrQuerySyntax)
			}
			tokens = append(tokens, token{kind: tokBangEqual})
		case '=':
			if stream.isNext('=') {
				tokens = append(tokens, token{kind: tokEqualEqual})
			} else {
				tokens = append(tokens, token{kind: tokEqual})
			}
		case '>':
			if stream.isNext('=') {
				tokens = append(tokens, token{kind: tokGreaterEqual})
			} else {
				tokens = append(tokens, token{kind: tokGreater})
			}
		case '<':
			if stream.isNext('=') {
				tokens = append(tokens, token{kind: tokLessEqual})
			} else {
				tokens = append(tokens, token{kind: tokLess})
			}
		default:
			word, err := lexString(c, stream)
			if err != nil {
				return nil, err
			}
			if c == '"' {
				tokens = append(tokens, token{kind: tokString, text: word})
				continue
			}
			switch word {
			case "project", "task", "note":
				tokens = append(tokens,
					token{kind: tokLeftParen},
					token{kind: tokAttr, text: "type"},
					token{kind: tokEqual},
					token{kind: tokString, text: word},
					token{kind: tokRightParen},
				)
			case "contains":
				tokens = append(tokens, token{kind: tokContains})
			case "not":
				tokens = append(tokens, token{kind: tokNot})
			case "and":
				tokens = append(tokens, token{kind: tokAnd})
			case "or":
				tokens = append(tokens, token{kind: tokOr})
			case "true":
				tokens = append(tokens, token{kind: tokTrue})
			case "false":
				tokens = append(tokens, token{kind: tokFalse})
			default:
				tokens = append(tokens, token{kind: tokString, text: word})
			}
		}
	}
	return append(tokens, token{kind: tokEOF}), nil
}

func lexAttrName(stream *charStream) string {
	var b strings.Builder
	for {
		r, ok := stream.peek()
		if !ok || !isAttrNameRune(r) {
			return b.String()
		}
		b.WriteRune(stream.advance())
	}
}

// lexString consumes a quoted string (first was '"') or a bare word ended by
// whitespace or an operator character.
func lexString(first rune, stream *charStream) (string, error) {
	quoted := first == '"'
	ended := func(r rune) bool {
		if quoted {
			return r == '"'
		}
		return unicode.IsSpace(r) || strings.ContainsRune("@()!=><", r)
	}

	var b strings.Builder
	if !quoted {
		b.WriteRune(first)
	}
	for {
		r, ok := stream.peek()
		if !ok {
			break
		}
		if ended(r) {
			break
		}
		b.WriteRune(stream.advance())
	}

	if quoted {
		if stream.atEnd() {
			return "", fmt.Errorf("%w: unterminated string", ErrQuerySyntax)
		}
		stream.advance() // closing '"'
	}
	return b.String(), nil
}
