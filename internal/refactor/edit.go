// Package refactor implements the edit-producing refactor engine (spec
// §4.J-M): rename-symbol, remove-field-from-record-type,
// remove-variant-from-sum-type, and move-function-between-modules. Every
// operation here is classifier+reference-finder driven (internal/refs,
// internal/resolver) and returns a text-edit set rather than mutating any
// file — applying edits is the caller's job (spec §6: "all refactorings
// return edits only").
package refactor

import (
	"sort"

	"github.com/elmlsp/elmlsp/internal/syntax"
)

// Edit is one text replacement within a single file.
type Edit struct {
	Range   syntax.Range
	NewText string
}

// EditSet groups edits by URI. Per spec §5/§9, within a URI edits are
// always reverse-sorted (line desc, col desc) before being handed back,
// so a caller can apply them sequentially without tracking offset drift.
type EditSet map[string][]Edit

// Add appends an edit for uri without re-sorting; SortAll must be called
// before the set is returned to a caller.
func (es EditSet) Add(uri string, e Edit) {
	es[uri] = append(es[uri], e)
}

// SortAll reverse-sorts every URI's edit slice in place: line descending,
// then column descending, matching spec §5's "hard contract with the
// caller".
func (es EditSet) SortAll() {
	for uri, edits := range es {
		sort.SliceStable(edits, func(i, j int) bool {
			return rangeAfter(edits[i].Range, edits[j].Range)
		})
		es[uri] = edits
	}
}

// rangeAfter reports whether a sorts before b under the reverse order
// (a's start is later in the file than b's start).
func rangeAfter(a, b syntax.Range) bool {
	if a.Start.Line != b.Start.Line {
		return a.Start.Line > b.Start.Line
	}
	return a.Start.Column > b.Start.Column
}

// Apply sequentially applies a reverse-sorted edit list to text, the way
// a caller applying spec §5's contract would. Used by this package's own
// round-trip tests; not used by the production index.
func Apply(text string, edits []Edit) string {
	lines := splitLinesKeepEnds(text)
	for _, e := range edits {
		lines = applyOne(lines, e)
	}
	var out string
	for _, l := range lines {
		out += l
	}
	return out
}

func applyOne(lines []string, e Edit) []string {
	start := e.Range.Start
	end := e.Range.End
	if start.Line < 1 || start.Line > len(lines) {
		return lines
	}
	if start.Line == end.Line {
		line := lines[start.Line-1]
		s := clampInt(start.Column-1, 0, len(line))
		en := clampInt(end.Column-1, 0, len(line))
		if en < s {
			en = s
		}
		lines[start.Line-1] = line[:s] + e.NewText + line[en:]
		return lines
	}
	// Multi-line span: splice the prefix of the start line, the new text,
	// and the suffix of the end line, dropping everything in between.
	startLine := lines[start.Line-1]
	endLine := lines[end.Line-1]
	s := clampInt(start.Column-1, 0, len(startLine))
	en := clampInt(end.Column-1, 0, len(endLine))
	merged := startLine[:s] + e.NewText + endLine[en:]
	out := append([]string{}, lines[:start.Line-1]...)
	out = append(out, merged)
	out = append(out, lines[end.Line:]...)
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func splitLinesKeepEnds(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i+1])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}
