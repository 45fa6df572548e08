package syntax

// Node is the opaque tree-node contract. Its shape mirrors the
// tree-sitter-style API already used elsewhere in the ecosystem for
// exactly this purpose (a grammar-produced concrete syntax tree handed to
// tooling that never re-implements the parser) — here it is a local
// interface rather than a hard dependency on any particular grammar
// binding, since the concrete grammar is explicitly out of scope.
type Node interface {
	Kind() Kind
	Range() Range
	// Text returns the node's source slice given the full file contents.
	Text(src string) string
	Parent() Node
	Children() []Node
	// ChildByField returns the first child associated with the given
	// grammar field name (e.g. "name", "value", "pattern"), or nil.
	ChildByField(name string) Node
	// FieldName is the field name this node occupies within its parent,
	// or "" if positional/unnamed.
	FieldName() string
	// ID is a stable identity for this node within its tree, used as the
	// map key for bound-symbol containers and inferred-type tables.
	ID() NodeID
}

// NodeID identifies a node within one parsed tree. IDs are only unique
// within a single Tree; cross-file identity is always (URI, NodeID).
type NodeID int

// Source pairs a file's logical path with its full contents and a small
// integer id used to disambiguate spans across files sharing a visited-id
// counter.
type Source struct {
	Path     string
	Contents string
	ID       int
}

// Tree is a parsed file: a root Node plus the Source it was parsed from.
type Tree struct {
	Root   Node
	Source Source
}

// FindSmallest returns the smallest (most deeply nested) node in t whose
// range contains pos, or nil if pos lies outside the tree entirely.
func FindSmallest(root Node, pos Point) Node {
	if !root.Range().Contains(pos) {
		return nil
	}
	for _, child := range root.Children() {
		if found := FindSmallest(child, pos); found != nil {
			return found
		}
	}
	return root
}

// Ancestors returns n and each of its ancestors, starting from n and
// walking up to the root. Used by the classifier to find the first
// ancestor matching one of its templates.
func Ancestors(n Node) []Node {
	var out []Node
	for cur := n; cur != nil; cur = cur.Parent() {
		out = append(out, cur)
	}
	return out
}

// FindAncestor returns the nearest ancestor of n (including n itself) for
// which pred returns true, or nil.
func FindAncestor(n Node, pred func(Node) bool) Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		if pred(cur) {
			return cur
		}
	}
	return nil
}

// ChildrenOfKind returns every direct child of n with the given kind.
func ChildrenOfKind(n Node, kind Kind) []Node {
	var out []Node
	for _, c := range n.Children() {
		if c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

// Walk calls visit for n and every descendant, depth-first pre-order.
// visit returning false skips n's children.
func Walk(n Node, visit func(Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, visit)
	}
}
