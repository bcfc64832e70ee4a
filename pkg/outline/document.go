package outline

import (
	"cmp"
	"slices"
	"time"
)

// NodeID is an opaque, stable reference to one node's storage slot. It is
// only meaningful within the Document that minted it; the zero value refers
// to no node.
type NodeID struct {
	idx int // 1-based slot, 0 means invalid
}

// IsValid reports whether the id refers to a node at all.
func (id NodeID) IsValid() bool { return id.idx > 0 }

type node struct {
	parent   NodeID
	children []NodeID
	item     Item
}

// Document owns the nodes of one parsed outline. Nodes live in an
// append-only arena addressed by NodeID; the top-level ordering is kept in a
// separate list so unlinked subtrees stay addressable without being
// reachable from the roots.
type Document struct {
	nodes []node
	roots []NodeID

	path    string
	modTime time.Time
}

// NewDocument returns an empty document with no origin path.
func NewDocument() *Document {
	return &Document{}
}

// Path returns the file this document was parsed from, if any.
func (d *Document) Path() (string, bool) {
	return d.path, d.path != ""
}

func (d *Document) at(id NodeID) *node {
	return &d.nodes[id.idx-1]
}

// Item returns the item stored at id for reading or in-place mutation.
func (d *Document) Item(id NodeID) *Item {
	return &d.at(id).item
}

// Parent returns the id's parent, if it has one.
func (d *Document) Parent(id NodeID) (NodeID, bool) {
	p := d.at(id).parent
	return p, p.IsValid()
}

// Children returns the direct children of id in order.
func (d *Document) Children(id NodeID) []NodeID {
	return slices.Clone(d.at(id).children)
}

// Roots returns the top-level nodes in order.
func (d *Document) Roots() []NodeID {
	return slices.Clone(d.roots)
}

// register stores the item in the arena without linking it anywhere.
func (d *Document) register(item Item) NodeID {
	d.nodes = append(d.nodes, node{item: item})
	return NodeID{idx: len(d.nodes)}
}

type positionKind uint8

const (
	posFirst positionKind = iota
	posLast
	posFirstChildOf
	posLastChildOf
	posAfter
)

// Position says where an insert places a node.
type Position struct {
	kind positionKind
	ref  NodeID
}

// AsFirst places the node at the front of the top level.
func AsFirst() Position { return Position{kind: posFirst} }

// AsLast places the node at the end of the top level.
func AsLast() Position { return Position{kind: posLast} }

// AsFirstChildOf places the node as the first child of parent.
func AsFirstChildOf(parent NodeID) Position {
	return Position{kind: posFirstChildOf, ref: parent}
}

// AsLastChildOf places the node as the last child of parent.
func AsLastChildOf(parent NodeID) Position {
	return Position{kind: posLastChildOf, ref: parent}
}

// After places the node directly after sibling, under the same parent.
// Siblings at the top level are supported too.
func After(sibling NodeID) Position {
	return Position{kind: posAfter, ref: sibling}
}

// Insert registers the item and links it in at the given position. Build
// items through NewItem so their text is sanitized.
func (d *Document) Insert(item Item, pos Position) NodeID {
	id := d.register(item)
	d.InsertNode(id, pos)
	return id
}

// InsertNode links an already-registered node in at the given position. When
// the node ends up under a parent, the whole subtree's indentation is raised
// uniformly so every node sits at least one level below the parent; the
// subtree's internal relative indentation is preserved.
func (d *Document) InsertNode(id NodeID, pos Position) {
	switch pos.kind {
	case posFirst:
		d.at(id).parent = NodeID{}
		d.roots = slices.Insert(d.roots, 0, id)

	case posLast:
		d.at(id).parent = NodeID{}
		d.roots = append(d.roots, id)

	case posFirstChildOf:
		d.raiseIndent(id, pos.ref)
		d.at(id).parent = pos.ref
		parent := d.at(pos.ref)
		parent.children = slices.Insert(parent.children, 0, id)

	case posLastChildOf:
		d.raiseIndent(id, pos.ref)
		d.at(id).parent = pos.ref
		parent := d.at(pos.ref)
		parent.children = append(parent.children, id)

	case posAfter:
		parentID := d.at(pos.ref).parent
		if !parentID.IsValid() {
			d.at(id).parent = NodeID{}
			i := slices.Index(d.roots, pos.ref)
			if i < 0 {
				panic("outline: After sibling is not linked into the document")
			}
			d.roots = slices.Insert(d.roots, i+1, id)
			return
		}
		d.raiseIndent(id, parentID)
		d.at(id).parent = parentID
		parent := d.at(parentID)
		i := slices.Index(parent.children, pos.ref)
		if i < 0 {
			panic("outline: After sibling is not a child of its parent")
		}
		parent.children = slices.Insert(parent.children, i+1, id)
	}
}

// raiseIndent shifts the subtree rooted at id so its root is at least one
// level deeper than parent. Relative depths inside the subtree stay intact.
func (d *Document) raiseIndent(id, parent NodeID) {
	want := d.at(parent).item.Indent + 1
	delta := want - d.at(id).item.Indent
	if delta <= 0 {
		return
	}
	for _, sub := range d.Descendants(id) {
		d.at(sub).item.Indent += delta
	}
}

// UnlinkNode detaches the node from its parent's child list or from the top
// level. The subtree stays addressable by id but is unreachable from the
// roots until reinserted.
func (d *Document) UnlinkNode(id NodeID) {
	parentID := d.at(id).parent
	if parentID.IsValid() {
		parent := d.at(parentID)
		i := slices.Index(parent.children, id)
		if i < 0 {
			panic("outline: node is not a child of its parent")
		}
		parent.children = slices.Delete(parent.children, i, i+1)
	} else {
		i := slices.Index(d.roots, id)
		if i < 0 {
			panic("outline: node is not linked into the document")
		}
		d.roots = slices.Delete(d.roots, i, i+1)
	}
	d.at(id).parent = NodeID{}
}

// CopyNode deep-clones the subtree rooted at sourceID in source into this
// document, keeping every copied item's indentation as-is. The copy is not
// linked anywhere; follow up with InsertNode.
func (d *Document) CopyNode(source *Document, sourceID NodeID) NodeID {
	return d.copyNode(source, sourceID, 0)
}

// CopyNodeNormalized is CopyNode with the copied root shifted to indentation
// zero; relative depths inside the subtree are preserved.
func (d *Document) CopyNodeNormalized(source *Document, sourceID NodeID) NodeID {
	return d.copyNode(source, sourceID, -source.at(sourceID).item.Indent)
}

func (d *Document) copyNode(source *Document, sourceID NodeID, delta int) NodeID {
	src := source.at(sourceID)
	item := src.item.clone()
	item.Indent += delta
	id := d.register(item)

	children := make([]NodeID, 0, len(src.children))
	for _, childID := range src.children {
		child := d.copyNode(source, childID, delta)
		d.at(child).parent = id
		children = append(children, child)
	}
	d.at(id).children = children
	return id
}

// Nodes returns every reachable node in pre-order. The returned slice is a
// snapshot: items may be mutated through Item while ranging over it without
// affecting which nodes are visited.
func (d *Document) Nodes() []NodeID {
	var out []NodeID
	for _, id := range d.roots {
		out = d.appendSubtree(out, id)
	}
	return out
}

// Descendants returns id and its whole subtree in pre-order.
func (d *Document) Descendants(id NodeID) []NodeID {
	return d.appendSubtree(nil, id)
}

func (d *Document) appendSubtree(out []NodeID, id NodeID) []NodeID {
	out = append(out, id)
	for _, child := range d.at(id).children {
		out = d.appendSubtree(out, child)
	}
	return out
}

// SortNodesByKey stably reorders the top-level list by the given key. Nested
// levels are left untouched.
func SortNodesByKey[K cmp.Ordered](d *Document, key func(id NodeID, item *Item) K) {
	slices.SortStableFunc(d.roots, func(a, b NodeID) int {
		return cmp.Compare(key(a, d.Item(a)), key(b, d.Item(b)))
	})
}
