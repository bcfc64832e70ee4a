package outline_test

import (
	"testing"

	"taskpaper/pkg/outline"
)

func Test_Insert_Places_Items_At_Top_Level(t *testing.T) {
	t.Parallel()

	doc := outline.NewDocument()
	doc.Insert(outline.NewItem(outline.Task, "middle"), outline.AsLast())
	doc.Insert(outline.NewItem(outline.Task, "last"), outline.AsLast())
	doc.Insert(outline.NewItem(outline.Task, "first"), outline.AsFirst())

	var texts []string
	for _, id := range doc.Roots() {
		texts = append(texts, doc.Item(id).Text)
	}
	want := []string{"first", "middle", "last"}
	for i, w := range want {
		if texts[i] != w {
			t.Fatalf("roots = %v, want %v", texts, want)
		}
	}
}

func Test_Insert_Places_Items_Under_A_Parent(t *testing.T) {
	t.Parallel()

	doc := outline.NewDocument()
	project := doc.Insert(outline.NewItem(outline.Project, "Inbox"), outline.AsLast())
	doc.Insert(outline.NewItem(outline.Task, "second"), outline.AsLastChildOf(project))
	first := doc.Insert(outline.NewItem(outline.Task, "first"), outline.AsFirstChildOf(project))

	children := doc.Children(project)
	if len(children) != 2 || children[0] != first {
		t.Fatalf("children = %v, want first then second", children)
	}
	if parent, ok := doc.Parent(first); !ok || parent != project {
		t.Fatal("first task should have the project as parent")
	}
	if doc.Item(first).Indent != 1 {
		t.Fatalf("indent = %d, want 1", doc.Item(first).Indent)
	}
}

func Test_Insert_After_Works_For_Nested_And_Top_Level_Siblings(t *testing.T) {
	t.Parallel()

	doc := outline.NewDocument()
	project := doc.Insert(outline.NewItem(outline.Project, "Inbox"), outline.AsLast())
	a := doc.Insert(outline.NewItem(outline.Task, "a"), outline.AsLastChildOf(project))
	c := doc.Insert(outline.NewItem(outline.Task, "c"), outline.AsLastChildOf(project))
	b := doc.Insert(outline.NewItem(outline.Task, "b"), outline.After(a))

	children := doc.Children(project)
	if children[0] != a || children[1] != b || children[2] != c {
		t.Fatalf("children = %v, want a, b, c", children)
	}

	second := doc.Insert(outline.NewItem(outline.Project, "Second"), outline.After(project))
	roots := doc.Roots()
	if len(roots) != 2 || roots[1] != second {
		t.Fatalf("roots = %v, want Inbox then Second", roots)
	}
}

func Test_InsertNode_Raises_Subtree_Indentation_Uniformly(t *testing.T) {
	t.Parallel()

	doc := outline.Parse("Outer:\n\tInner:\n")
	outer := doc.Roots()[0]
	inner := doc.Children(outer)[0]

	moved := outline.Parse("- parent task\n\t- child task\n")
	copied := doc.CopyNode(moved, moved.Roots()[0])
	doc.InsertNode(copied, outline.AsLastChildOf(inner))

	if got := doc.Item(copied).Indent; got != 2 {
		t.Fatalf("moved root indent = %d, want 2", got)
	}
	child := doc.Children(copied)[0]
	if got := doc.Item(child).Indent; got != 3 {
		t.Fatalf("moved child indent = %d, want 3", got)
	}
}

func Test_UnlinkNode_Keeps_Subtree_Addressable(t *testing.T) {
	t.Parallel()

	doc := outline.Parse("Inbox:\n\t- task\nOther:\n")
	inbox := doc.Roots()[0]
	task := doc.Children(inbox)[0]

	doc.UnlinkNode(task)

	if len(doc.Children(inbox)) != 0 {
		t.Fatal("task should be gone from Inbox")
	}
	if doc.Item(task).Text != "task" {
		t.Fatal("unlinked node must stay addressable")
	}

	other := doc.Roots()[1]
	doc.InsertNode(task, outline.AsLastChildOf(other))
	if len(doc.Children(other)) != 1 {
		t.Fatal("task should be reattachable under Other")
	}
}

func Test_UnlinkNode_Removes_Top_Level_Entries(t *testing.T) {
	t.Parallel()

	doc := outline.Parse("- a\n- b\n")
	roots := doc.Roots()

	doc.UnlinkNode(roots[0])

	left := doc.Roots()
	if len(left) != 1 || doc.Item(left[0]).Text != "b" {
		t.Fatalf("roots after unlink = %v", left)
	}
}

func Test_CopyNode_Deep_Clones_Across_Documents(t *testing.T) {
	t.Parallel()

	source := outline.Parse("Inbox: @p1\n\t- task @done\n")
	dest := outline.NewDocument()

	copied := dest.CopyNode(source, source.Roots()[0])
	dest.InsertNode(copied, outline.AsLast())

	// Mutating the copy must not touch the source.
	dest.Item(copied).Text = "Changed"
	dest.Item(dest.Children(copied)[0]).Attrs.Remove("done")

	srcRoot := source.Item(source.Roots()[0])
	if srcRoot.Text != "Inbox" {
		t.Fatalf("source text changed to %q", srcRoot.Text)
	}
	if !source.Item(source.Children(source.Roots()[0])[0]).Attrs.Has("done") {
		t.Fatal("source attrs changed through the copy")
	}
}

func Test_CopyNodeNormalized_Shifts_Root_To_Zero(t *testing.T) {
	t.Parallel()

	source := outline.Parse("Outer:\n\tInner:\n\t\t- deep\n")
	inner := source.Children(source.Roots()[0])[0]

	dest := outline.NewDocument()
	copied := dest.CopyNodeNormalized(source, inner)

	if got := dest.Item(copied).Indent; got != 0 {
		t.Fatalf("copied root indent = %d, want 0", got)
	}
	if got := dest.Item(dest.Children(copied)[0]).Indent; got != 1 {
		t.Fatalf("copied child indent = %d, want 1", got)
	}
}

func Test_Nodes_Visits_Pre_Order(t *testing.T) {
	t.Parallel()

	doc := outline.Parse("A:\n\t- a1\n\t- a2\nB:\n\t- b1\n")

	var texts []string
	for _, id := range doc.Nodes() {
		texts = append(texts, doc.Item(id).Text)
	}
	want := []string{"A", "a1", "a2", "B", "b1"}
	for i, w := range want {
		if texts[i] != w {
			t.Fatalf("order = %v, want %v", texts, want)
		}
	}
}

func Test_Nodes_Snapshot_Survives_Item_Mutation(t *testing.T) {
	t.Parallel()

	doc := outline.Parse("- a\n- b\n- c\n")

	visited := 0
	for _, id := range doc.Nodes() {
		doc.Item(id).Text = "seen"
		visited++
	}
	if visited != 3 {
		t.Fatalf("visited %d nodes, want 3", visited)
	}
}

func Test_SortNodesByKey_Reorders_Only_The_Top_Level(t *testing.T) {
	t.Parallel()

	doc := outline.Parse("b:\n\t- z\n\t- a\nc:\na:\n")

	outline.SortNodesByKey(doc, func(_ outline.NodeID, item *outline.Item) string {
		return item.Text
	})

	var texts []string
	for _, id := range doc.Roots() {
		texts = append(texts, doc.Item(id).Text)
	}
	want := []string{"a", "b", "c"}
	for i, w := range want {
		if texts[i] != w {
			t.Fatalf("roots = %v, want %v", texts, want)
		}
	}

	// Children of b keep their original order.
	var b outline.NodeID
	for _, id := range doc.Roots() {
		if doc.Item(id).Text == "b" {
			b = id
		}
	}
	children := doc.Children(b)
	if doc.Item(children[0]).Text != "z" {
		t.Fatal("nested order should be untouched")
	}
}
