package outline

import (
	"fmt"
	"strings"
)

// ValueKind discriminates the three result kinds of query evaluation.
type ValueKind uint8

const (
	// ValueUndefined is produced by looking up an absent attribute and by
	// ordering comparisons with mismatched operand kinds.
	ValueUndefined ValueKind = iota
	ValueBool
	ValueString
)

// Value is the result of evaluating a query expression against one item. It
// is a closed sum of Undefined, Bool, and String; Undefined must stay
// distinguishable from false so it can propagate through comparisons while
// negation still maps it to true.
type Value struct {
	kind ValueKind
	b    bool
	s    string
}

// Undefined returns the undefined value.
func Undefined() Value { return Value{} }

// BoolValue wraps a bool.
func BoolValue(b bool) Value { return Value{kind: ValueBool, b: b} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: ValueString, s: s} }

// Kind returns the value's kind.
func (v Value) Kind() ValueKind { return v.kind }

// Bool returns the wrapped bool; false unless Kind is ValueBool.
func (v Value) Bool() bool { return v.kind == ValueBool && v.b }

// Str returns the wrapped string; empty unless Kind is ValueString.
func (v Value) Str() string {
	if v.kind != ValueString {
		return ""
	}
	return v.s
}

// IsTruthy reports the value's truthiness: Undefined is false, a string is
// true iff non-empty, a bool is itself.
func (v Value) IsTruthy() bool {
	switch v.kind {
	case ValueBool:
		return v.b
	case ValueString:
		return v.s != ""
	}
	return false
}

func (v Value) not() Value {
	switch v.kind {
	case ValueUndefined:
		return BoolValue(true)
	case ValueString:
		return BoolValue(false)
	}
	return BoolValue(!v.b)
}

func (v Value) equal(o Value) Value {
	return BoolValue(v == o)
}

// or returns whichever operand decided the outcome, so a string operand
// keeps its string-ness through the chain.
func (v Value) or(o Value) Value {
	if v.IsTruthy() {
		return v
	}
	if o.IsTruthy() {
		return o
	}
	return BoolValue(false)
}

func (v Value) and(o Value) Value {
	if !v.IsTruthy() {
		return v
	}
	if o.IsTruthy() {
		return o
	}
	return BoolValue(false)
}

// compare runs one ordering comparison. Any Undefined operand or a Bool
// mixed with a String yields Undefined.
func (v Value) compare(o Value, cmp func(int) bool) Value {
	if v.kind != o.kind || v.kind == ValueUndefined {
		return Undefined()
	}
	if v.kind == ValueBool {
		return BoolValue(cmp(boolCompare(v.b, o.b)))
	}
	return BoolValue(cmp(strings.Compare(v.s, o.s)))
}

func boolCompare(a, b bool) int {
	switch {
	case a == b:
		return 0
	case b:
		return -1
	}
	return 1
}

type exprOp uint8

const (
	opAttr exprOp = iota
	opString
	opTrue
	opFalse
	opGroup
	opNot
	opAnd
	opOr
	opEqual
	opNotEqual
	opLess
	opLessEqual
	opGreater
	opGreaterEqual
	opContains
)

// Expr is a parsed query expression. Build one with ParseQuery, evaluate it
// against any number of items, and discard it.
type Expr struct {
	op       exprOp
	attr     string // opAttr
	str      string // opString
	lhs, rhs *Expr
}

// ParseQuery parses one query string. Multiple complete clauses with no
// connective between them are joined with an implicit and. Syntax problems
// are reported as errors wrapping ErrQuerySyntax.
func ParseQuery(query string) (*Expr, error) {
	tokens, err := lex(query)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	var exprs []*Expr
	for !p.atEnd() {
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}

	if len(exprs) == 0 {
		return nil, fmt.Errorf("%w: empty query", ErrQuerySyntax)
	}
	expr := exprs[0]
	for _, e := range exprs[1:] {
		expr = &Expr{op: opAnd, lhs: expr, rhs: e}
	}
	return expr, nil
}

// Evaluate computes the expression's value for one item. It never fails:
// unknown attributes simply evaluate to Undefined.
func (e *Expr) Evaluate(item *Item) Value {
	switch e.op {
	case opAttr:
		if a, ok := item.Attrs.Get(e.attr); ok {
			if a.HasValue {
				return StringValue(a.Value)
			}
			return BoolValue(true)
		}
		switch e.attr {
		case "text":
			return StringValue(item.Text)
		case "type":
			return StringValue(item.Kind.String())
		}
		return Undefined()

	case opString:
		return StringValue(e.str)
	case opTrue:
		return BoolValue(true)
	case opFalse:
		return BoolValue(false)
	case opGroup:
		return e.lhs.Evaluate(item)

	case opNot:
		return e.lhs.Evaluate(item).not()
	case opAnd:
		return e.lhs.Evaluate(item).and(e.rhs.Evaluate(item))
	case opOr:
		return e.lhs.Evaluate(item).or(e.rhs.Evaluate(item))

	case opEqual:
		return e.lhs.Evaluate(item).equal(e.rhs.Evaluate(item))
	case opNotEqual:
		return e.lhs.Evaluate(item).equal(e.rhs.Evaluate(item)).not()
	case opLess:
		return e.lhs.Evaluate(item).compare(e.rhs.Evaluate(item), func(c int) bool { return c < 0 })
	case opLessEqual:
		return e.lhs.Evaluate(item).compare(e.rhs.Evaluate(item), func(c int) bool { return c <= 0 })
	case opGreater:
		return e.lhs.Evaluate(item).compare(e.rhs.Evaluate(item), func(c int) bool { return c > 0 })
	case opGreaterEqual:
		return e.lhs.Evaluate(item).compare(e.rhs.Evaluate(item), func(c int) bool { return c >= 0 })

	case opContains:
		l := e.lhs.Evaluate(item)
		r := e.rhs.Evaluate(item)
		if l.kind != ValueString || r.kind != ValueString {
			return BoolValue(false)
		}
		return BoolValue(strings.Contains(strings.ToLower(l.s), strings.ToLower(r.s)))
	}
	return Undefined()
}

type parser struct {
	tokens  []token
	current int
}

func (p *parser) expression() (*Expr, error) {
	return p.or()
}

func (p *parser) or() (*Expr, error) {
	expr, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(tokOr) {
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		expr = &Expr{op: opOr, lhs: expr, rhs: right}
	}
	return expr, nil
}

func (p *parser) and() (*Expr, error) {
	expr, err := p.binary()
	if err != nil {
		return nil, err
	}
	for p.match(tokAnd) {
		right, err := p.binary()
		if err != nil {
			return nil, err
		}
		expr = &Expr{op: opAnd, lhs: expr, rhs: right}
	}
	return expr, nil
}

func (p *parser) binary() (*Expr, error) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind.isPredicate() {
		pred := p.advance().kind
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		expr = &Expr{op: predicateOp(pred), lhs: expr, rhs: right}
	}
	return expr, nil
}

func (p *parser) unary() (*Expr, error) {
	if p.match(tokNot) {
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Expr{op: opNot, lhs: right}, nil
	}
	return p.primary()
}

func (p *parser) primary() (*Expr, error) {
	switch tok := p.peek(); {
	case tok.kind == tokLeftParen:
		p.advance()
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if !p.match(tokRightParen) {
			return nil, fmt.Errorf("%w: expected ')' after expression", ErrQuerySyntax)
		}
		return &Expr{op: opGroup, lhs: expr}, nil

	case tok.kind == tokTrue:
		p.advance()
		return &Expr{op: opTrue}, nil

	case tok.kind == tokFalse:
		p.advance()
		return &Expr{op: opFalse}, nil

	case tok.kind == tokAttr || tok.kind == tokString || tok.kind.isPredicate():
		return p.clause()

	default:
		return nil, fmt.Errorf("%w: unexpected token", ErrQuerySyntax)
	}
}

// clause parses one atomic clause: [attribute] [predicate] value, where a
// missing attribute defaults to @text and a missing predicate to contains. A
// lone attribute reference is a pure existence test.
func (p *parser) clause() (*Expr, error) {
	attr := "text"
	if p.peek().kind == tokAttr {
		attr = p.advance().text
	}
	expr := &Expr{op: opAttr, attr: attr}

	if p.atEnd() || p.peek().kind.isKeyword() {
		return expr, nil
	}

	pred := tokContains
	if p.peek().kind.isPredicate() {
		pred = p.advance().kind
	}

	right, err := p.value()
	if err != nil {
		return nil, err
	}
	return &Expr{op: predicateOp(pred), lhs: expr, rhs: right}, nil
}

// value parses a clause's right-hand side, a string literal or an attribute
// reference.
func (p *parser) value() (*Expr, error) {
	switch tok := p.advance(); tok.kind {
	case tokString:
		return &Expr{op: opString, str: tok.text}, nil
	case tokAttr:
		return &Expr{op: opAttr, attr: tok.text}, nil
	default:
		return nil, fmt.Errorf("%w: expected a value", ErrQuerySyntax)
	}
}

func predicateOp(k tokenKind) exprOp {
	switch k {
	case tokBangEqual:
		return opNotEqual
	case tokEqual, tokEqualEqual:
		return opEqual
	case tokGreater:
		return opGreater
	case tokGreaterEqual:
		return opGreaterEqual
	case tokLess:
		return opLess
	case tokLessEqual:
		return opLessEqual
	}
	return opContains
}

func (p *parser) match(k tokenKind) bool {
	if p.atEnd() || p.peek().kind != k {
		return false
	}
	p.advance()
	return true
}

func (p *parser) atEnd() bool { return p.peek().kind == tokEOF }

func (p *parser) peek() token { return p.tokens[p.current] }

func (p *parser) advance() token {
	if !p.atEnd() {
		p.current++
	}
	return p.tokens[p.current-1]
}
