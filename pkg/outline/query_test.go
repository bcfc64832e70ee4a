package outline_test

import (
	"errors"
	"testing"

	"taskpaper/pkg/outline"
)

func taskWithText(text string) *outline.Item {
	item := outline.NewItem(outline.Task, text)
	return &item
}

func taskWithAttrs(attrs ...outline.Attribute) *outline.Item {
	item := outline.NewItem(outline.Task, "")
	for _, a := range attrs {
		item.Attrs.Insert(a)
	}
	return &item
}

func valued(name, value string) outline.Attribute {
	return outline.Attribute{Name: name, Value: value, HasValue: true}
}

func mustParseQuery(t *testing.T, query string) *outline.Expr {
	t.Helper()
	expr, err := outline.ParseQuery(query)
	if err != nil {
		t.Fatalf("ParseQuery(%q) failed: %v", query, err)
	}
	return expr
}

func Test_Query_Text_Contains_Is_Case_Insensitive(t *testing.T) {
	t.Parallel()

	expr := mustParseQuery(t, "@text contains socks")

	if !expr.Evaluate(taskWithText("I need SOCKS and shoes")).IsTruthy() {
		t.Fatal("should match regardless of case")
	}
	if expr.Evaluate(taskWithText("I need shoes")).IsTruthy() {
		t.Fatal("should not match")
	}
}

func Test_Query_Bareword_Defaults_To_Text_Contains(t *testing.T) {
	t.Parallel()

	expr := mustParseQuery(t, "socks")

	if !expr.Evaluate(taskWithText("I need socks and shoes")).IsTruthy() {
		t.Fatal("bareword should match item text")
	}
	if expr.Evaluate(taskWithText("I need shoes")).IsTruthy() {
		t.Fatal("bareword should not match")
	}
}

func Test_Query_Adjacent_Clauses_And_Together(t *testing.T) {
	t.Parallel()

	both := mustParseQuery(t, "socks shoes")
	shoesNotSocks := mustParseQuery(t, "shoes not socks")
	socksNotShoes := mustParseQuery(t, "socks not shoes")

	all := taskWithText("I need socks and shoes")
	onlyShoes := taskWithText("I need shoes")

	if !both.Evaluate(all).IsTruthy() {
		t.Fatal("'socks shoes' should match both words")
	}
	if both.Evaluate(onlyShoes).IsTruthy() {
		t.Fatal("'socks shoes' should need both words")
	}
	if !shoesNotSocks.Evaluate(onlyShoes).IsTruthy() {
		t.Fatal("'shoes not socks' should match")
	}
	if socksNotShoes.Evaluate(onlyShoes).IsTruthy() {
		t.Fatal("'socks not shoes' should not match")
	}
}

func Test_Query_Attribute_Comparisons(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query string
		item  *outline.Item
		want  bool
	}{
		{"@status = complete", taskWithAttrs(valued("status", "complete")), true},
		{"@status = complete", taskWithAttrs(valued("status", "incomplete")), false},
		{"@status != complete", taskWithAttrs(valued("status", "incomplete")), true},
		{"@priority > 2", taskWithAttrs(valued("priority", "3")), true},
		{"@priority > 2", taskWithAttrs(valued("priority", "1")), false},
		{"@due <= 2026-01-01", taskWithAttrs(valued("due", "2025-12-31")), true},
		{"@desc contains socks", taskWithAttrs(valued("desc", "I need socks and shoes")), true},
		{"@desc contains socks", taskWithAttrs(valued("desc", "I need shoes")), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.query, func(t *testing.T) {
			t.Parallel()
			got := mustParseQuery(t, tt.query).Evaluate(tt.item).IsTruthy()
			if got != tt.want {
				t.Fatalf("%q on %+v = %v, want %v", tt.query, tt.item, got, tt.want)
			}
		})
	}
}

func Test_Query_Bare_Attribute_Is_Existence_Test(t *testing.T) {
	t.Parallel()

	expr := mustParseQuery(t, "@status")

	if !expr.Evaluate(taskWithAttrs(valued("status", "anything"))).IsTruthy() {
		t.Fatal("present attribute should be truthy")
	}
	if !expr.Evaluate(taskWithAttrs(outline.Attribute{Name: "status"})).IsTruthy() {
		t.Fatal("valueless attribute should be truthy")
	}
	if expr.Evaluate(taskWithAttrs()).IsTruthy() {
		t.Fatal("absent attribute should be falsy")
	}
}

func Test_Query_Type_Shortcuts_Match_Item_Kind(t *testing.T) {
	t.Parallel()

	project := outline.NewItem(outline.Project, "Inbox")
	task := outline.NewItem(outline.Task, "Inbox")

	expr := mustParseQuery(t, "project Inbox")
	if !expr.Evaluate(&project).IsTruthy() {
		t.Fatal("'project Inbox' should match the project")
	}
	if expr.Evaluate(&task).IsTruthy() {
		t.Fatal("'project Inbox' should not match the task")
	}

	if !mustParseQuery(t, "task").Evaluate(&task).IsTruthy() {
		t.Fatal("'task' should match tasks")
	}
}

func Test_Query_Quoted_Strings_Shield_Keywords(t *testing.T) {
	t.Parallel()

	expr := mustParseQuery(t, `@desc contains "and"`)

	if !expr.Evaluate(taskWithAttrs(valued("desc", "this and that"))).IsTruthy() {
		t.Fatal("quoted 'and' should be a plain value")
	}
	if expr.Evaluate(taskWithAttrs(valued("desc", "this or that"))).IsTruthy() {
		t.Fatal("should not match without the word")
	}
}

func Test_Query_Grouping_And_Precedence(t *testing.T) {
	t.Parallel()

	expr := mustParseQuery(t, "(one or two) and not three")

	tests := []struct {
		text string
		want bool
	}{
		{"one", true},
		{"two", true},
		{"one two", true},
		{"three", false},
		{"three two", false},
	}
	for _, tt := range tests {
		got := expr.Evaluate(taskWithText(tt.text)).IsTruthy()
		if got != tt.want {
			t.Fatalf("on %q = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func Test_Query_Nested_Grouping_Evaluates(t *testing.T) {
	t.Parallel()

	expr := mustParseQuery(t, "false or ((false and true) or true)")

	got := expr.Evaluate(taskWithText(""))
	if got != outline.BoolValue(true) {
		t.Fatalf("got %+v, want Bool(true)", got)
	}
}

func Test_Query_And_Or_Return_The_Deciding_Operand(t *testing.T) {
	t.Parallel()

	item := taskWithAttrs(valued("due", "today"))

	got := mustParseQuery(t, `@absent or @due`).Evaluate(item)
	if got.Kind() != outline.ValueString || got.Str() != "today" {
		t.Fatalf("or yielded %+v, want String(today)", got)
	}

	got = mustParseQuery(t, `true and @due`).Evaluate(item)
	if got.Kind() != outline.ValueString || got.Str() != "today" {
		t.Fatalf("and yielded %+v, want String(today)", got)
	}
}

func Test_Query_Mixing_String_And_Bool(t *testing.T) {
	t.Parallel()

	// A quoted string in primary position still starts a clause, so it
	// matches against the item's text.
	item := taskWithText("")

	if got := mustParseQuery(t, `"foo" or true`).Evaluate(item); got != outline.BoolValue(true) {
		t.Fatalf(`"foo" or true = %+v, want Bool(true)`, got)
	}
	if got := mustParseQuery(t, `true and "foo"`).Evaluate(item); got != outline.BoolValue(false) {
		t.Fatalf(`true and "foo" = %+v, want Bool(false)`, got)
	}

	// Ordering a Bool against a String is Undefined: @flag is valueless.
	mixed := mustParseQuery(t, `@flag < "3"`)
	if got := mixed.Evaluate(taskWithAttrs(outline.Attribute{Name: "flag"})); got != outline.Undefined() {
		t.Fatalf(`@flag < "3" = %+v, want Undefined`, got)
	}
}

func Test_Query_Undefined_Propagates_Through_Ordering(t *testing.T) {
	t.Parallel()

	item := taskWithAttrs(valued("a", "1"))

	got := mustParseQuery(t, "@a < @missing").Evaluate(item)
	if got != outline.Undefined() {
		t.Fatalf("got %+v, want Undefined", got)
	}
	if got.IsTruthy() {
		t.Fatal("Undefined must be falsy")
	}
}

func Test_Query_Not_On_Each_Value_Kind(t *testing.T) {
	t.Parallel()

	if got := mustParseQuery(t, "not @missing").Evaluate(taskWithAttrs()); got != outline.BoolValue(true) {
		t.Fatalf("not Undefined = %+v, want true", got)
	}
	if got := mustParseQuery(t, "not @v").Evaluate(taskWithAttrs(valued("v", "x"))); got != outline.BoolValue(false) {
		t.Fatalf("not String = %+v, want false", got)
	}
	if got := mustParseQuery(t, "not true").Evaluate(taskWithAttrs()); got != outline.BoolValue(false) {
		t.Fatalf("not true = %+v, want false", got)
	}
}

func Test_Query_Contains_Needs_String_Operands(t *testing.T) {
	t.Parallel()

	// @flag is valueless, so it evaluates to Bool and contains yields false.
	expr := mustParseQuery(t, "@flag contains x")
	if expr.Evaluate(taskWithAttrs(outline.Attribute{Name: "flag"})).IsTruthy() {
		t.Fatal("contains on a bool operand should be false")
	}
}

func Test_ParseQuery_Reports_Syntax_Errors(t *testing.T) {
	t.Parallel()

	tests := []string{
		"",
		"   ",
		"false or (false and true or true",
		"false or (false and true or true))",
		`"unterminated`,
		"! lonely",
	}
	for _, query := range tests {
		query := query
		t.Run(query, func(t *testing.T) {
			t.Parallel()
			_, err := outline.ParseQuery(query)
			if !errors.Is(err, outline.ErrQuerySyntax) {
				t.Fatalf("ParseQuery(%q) err = %v, want ErrQuerySyntax", query, err)
			}
		})
	}
}
