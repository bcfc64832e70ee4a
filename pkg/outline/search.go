package outline

// Search returns, in order of appearance, every node whose item matches the
// query. Children are always tested, whether or not their parent matched.
func (d *Document) Search(query string) ([]NodeID, error) {
	expr, err := ParseQuery(query)
	if err != nil {
		return nil, err
	}
	var out []NodeID
	for _, id := range d.Nodes() {
		if expr.Evaluate(d.Item(id)).IsTruthy() {
			out = append(out, id)
		}
	}
	return out, nil
}

// Filter removes every matching node together with its whole subtree and
// returns the removed nodes in traversal order. When a parent matches, its
// children are not tested further; non-matching nodes stay in place with
// their children filtered recursively.
func (d *Document) Filter(query string) ([]NodeID, error) {
	expr, err := ParseQuery(query)
	if err != nil {
		return nil, err
	}
	var filtered []NodeID
	d.roots = d.filterNodes(d.roots, expr, &filtered)
	return filtered, nil
}

func (d *Document) filterNodes(ids []NodeID, expr *Expr, filtered *[]NodeID) []NodeID {
	var retained []NodeID
	for _, id := range ids {
		if expr.Evaluate(d.Item(id)).IsTruthy() {
			d.at(id).parent = NodeID{}
			*filtered = append(*filtered, id)
			continue
		}
		retained = append(retained, id)
		d.at(id).children = d.filterNodes(d.at(id).children, expr, filtered)
	}
	return retained
}
