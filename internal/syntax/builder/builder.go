// Package builder constructs in-memory syntax.Node trees directly,
// without parsing text. The concrete grammar is out of scope for this
// repo (spec §1), so every fixture used by the binder, inferencer,
// classifier and refactor tests is assembled with this package the same
// way the teacher's own tests assemble ASTs via ast.NewFuncDecl and
// friends.
package builder

import "github.com/elmlsp/elmlsp/internal/syntax"

// B builds a single syntax.Node, assigning sequential NodeIDs as nodes
// are created so that IDs are stable and collision-free within one tree.
type B struct {
	nextID int
}

func New() *B { return &B{} }

// N constructs a node of the given kind spanning [startLine:startCol,
// endLine:endCol] with the given children. text is what Text() returns,
// whatever source string is passed to it; a node built with empty text
// returns "" (these fixtures have no real source string to slice).
func (b *B) N(kind syntax.Kind, startLine, startCol, endLine, endCol int, text string, children ...*Built) *Built {
	id := syntax.NodeID(b.nextID)
	b.nextID++
	n := &builtNode{
		id:   id,
		kind: kind,
		rng:  syntax.NewRange(syntax.Point{Line: startLine, Column: startCol}, syntax.Point{Line: endLine, Column: endCol}),
		text: text,
	}
	bn := &Built{node: n}
	for _, c := range children {
		c.node.parent = n
		n.children = append(n.children, c.node)
	}
	return bn
}

// Field tags the given built node with a grammar field name, mirroring
// the way a real grammar associates named fields with children (e.g.
// "name" on a function_declaration_left).
func (b *Built) Field(name string) *Built {
	b.node.fieldName = name
	return b
}

// Built wraps a constructed node so Field can be chained post-hoc.
type Built struct {
	node *builtNode
}

func (b *Built) Node() syntax.Node { return b.node }

// Tree finalizes root as a syntax.Tree over the given source.
func Tree(root *Built, path, contents string) syntax.Tree {
	return syntax.Tree{Root: root.Node(), Source: syntax.Source{Path: path, Contents: contents}}
}

type builtNode struct {
	id        syntax.NodeID
	kind      syntax.Kind
	rng       syntax.Range
	text      string
	fieldName string
	parent    *builtNode
	children  []*builtNode
}

func (n *builtNode) Kind() syntax.Kind   { return n.kind }
func (n *builtNode) Range() syntax.Range { return n.rng }
func (n *builtNode) Text(src string) string {
	if n.text != "" {
		return n.text
	}
	return ""
}
func (n *builtNode) Parent() syntax.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}
func (n *builtNode) Children() []syntax.Node {
	out := make([]syntax.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}
func (n *builtNode) ChildByField(name string) syntax.Node {
	for _, c := range n.children {
		if c.fieldName == name {
			return c
		}
	}
	return nil
}
func (n *builtNode) FieldName() string { return n.fieldName }
func (n *builtNode) ID() syntax.NodeID { return n.id }
