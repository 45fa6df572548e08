package binder

import "github.com/elmlsp/elmlsp/internal/syntax"

// ContainerKind enumerates the scoping constructs the binder pushes a
// fresh name->symbol map for (spec §4.D).
type ContainerKind int

const (
	ContainerFile ContainerKind = iota
	ContainerLetIn
	ContainerLambda
	ContainerCaseBranch
	ContainerValueDecl
	ContainerTypeDecl
	ContainerTypeAlias
)

// Container is a syntactic scope owning its own name->BoundSymbol map
// (spec glossary: "Container"). ScopeNode is the node whose Range bounds
// local-reference searches for symbols bound directly in this container
// (spec §4.H's scope_range column): the lambda itself for a lambda
// container, the whole let_in_expr for a let-bound container, a case
// branch's body for a case container, and the enclosing value
// declaration's body for a top-level function's parameters.
type Container struct {
	Kind      ContainerKind
	Node      syntax.Node
	ScopeNode syntax.Node
	Parent    *Container
	names     map[string]*BoundSymbol
}

func NewContainer(kind ContainerKind, node, scopeNode syntax.Node, parent *Container) *Container {
	return &Container{
		Kind:      kind,
		Node:      node,
		ScopeNode: scopeNode,
		Parent:    parent,
		names:     map[string]*BoundSymbol{},
	}
}

// Bind inserts sym into this container's local map, overwriting any
// prior binding of the same name within *this* container (shadowing is
// legal across containers, never within one for the same form).
func (c *Container) Bind(sym *BoundSymbol) {
	c.names[sym.Name] = sym
}

// Local returns the symbol bound by this exact container, ignoring
// ancestors.
func (c *Container) Local(name string) (*BoundSymbol, bool) {
	sym, ok := c.names[name]
	return sym, ok
}

// Lookup searches this container and its ancestors, returning the symbol
// and the container that introduced it.
func (c *Container) Lookup(name string) (*BoundSymbol, *Container) {
	for cur := c; cur != nil; cur = cur.Parent {
		if sym, ok := cur.names[name]; ok {
			return sym, cur
		}
	}
	return nil, nil
}

// All returns every symbol bound directly by this container (not
// ancestors), in no particular order.
func (c *Container) All() []*BoundSymbol {
	out := make([]*BoundSymbol, 0, len(c.names))
	for _, s := range c.names {
		out = append(out, s)
	}
	return out
}
