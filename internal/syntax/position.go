// Package syntax defines the opaque syntax-tree contract the rest of the
// core programs against. The concrete grammar that produces these trees is
// an external collaborator (see spec §1); this package only fixes the node
// kinds, ranges and text-access methods that the binder, inferencer,
// resolver and refactor engine rely on.
package syntax

import "strconv"

// Point is a 1-indexed line/column location within a source file.
type Point struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Point) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

func (p Point) Less(other Point) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// Range is a span of source from Start to End, as the grammar reports
// them. Contains treats both endpoints as inclusive; slicing a range's
// text out of a source (sliceRange) stops before End's column.
type Range struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

func NewRange(start, end Point) Range {
	return Range{Start: start, End: end}
}

func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// Contains reports whether loc falls within r, inclusive of both endpoints.
// This is the mechanism DefinitionSymbol.ScopeRange uses to bound local
// reference searches without threading parent pointers through the tree.
func (r Range) Contains(loc Point) bool {
	return (r.Start.Line < loc.Line || (r.Start.Line == loc.Line && r.Start.Column <= loc.Column)) &&
		(r.End.Line > loc.Line || (r.End.Line == loc.Line && r.End.Column >= loc.Column))
}

// ContainsRange reports whether r fully contains other.
func (r Range) ContainsRange(other Range) bool {
	return r.Contains(other.Start) && r.Contains(other.End)
}

// Merge returns the smallest range spanning both a and b.
func Merge(a, b Range) Range {
	start := a.Start
	if b.Start.Less(start) {
		start = b.Start
	}
	end := a.End
	if end.Less(b.End) {
		end = b.End
	}
	return Range{Start: start, End: end}
}
