package refactor

import "github.com/elmlsp/elmlsp/internal/syntax"

// textIndex converts between syntax.Point and byte offsets within a
// file's source text, and locates the punctuation (commas, braces) an
// opaque, token-free syntax tree has no nodes for. Remove-field and
// remove-variant both need this to decide which neighboring comma a
// deletion must also consume.
type textIndex struct {
	src     string
	lineOff []int
}

func newTextIndex(src string) *textIndex {
	offs := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			offs = append(offs, i+1)
		}
	}
	return &textIndex{src: src, lineOff: offs}
}

func (t *textIndex) offset(p syntax.Point) int {
	if p.Line < 1 {
		return 0
	}
	if p.Line-1 >= len(t.lineOff) {
		return len(t.src)
	}
	o := t.lineOff[p.Line-1] + (p.Column - 1)
	if o > len(t.src) {
		return len(t.src)
	}
	if o < 0 {
		return 0
	}
	return o
}

func (t *textIndex) point(offset int) syntax.Point {
	if offset < 0 {
		offset = 0
	}
	if offset > len(t.src) {
		offset = len(t.src)
	}
	line := 0
	for line+1 < len(t.lineOff) && t.lineOff[line+1] <= offset {
		line++
	}
	return syntax.Point{Line: line + 1, Column: offset - t.lineOff[line] + 1}
}

func (t *textIndex) rangeFrom(start, end int) syntax.Range {
	return syntax.Range{Start: t.point(start), End: t.point(end)}
}

// lineStart returns the byte offset of the first column of the line
// containing p.
func (t *textIndex) lineStart(p syntax.Point) int {
	if p.Line-1 < 0 || p.Line-1 >= len(t.lineOff) {
		return 0
	}
	return t.lineOff[p.Line-1]
}

// lineStartOf returns the byte offset where line (1-indexed) begins, or
// len(src) if line is past the end (used to compute "through end of this
// line, including its newline").
func (t *textIndex) lineStartOf(line int) int {
	if line-1 < 0 {
		return 0
	}
	if line-1 >= len(t.lineOff) {
		return len(t.src)
	}
	return t.lineOff[line-1]
}

// nextSeparator scans forward from offset over whitespace only, reporting
// the first ',' or '}' it finds. found is false if non-whitespace,
// non-separator content is hit first.
func (t *textIndex) nextSeparator(offset int) (idx int, isComma bool, found bool) {
	for i := offset; i < len(t.src); i++ {
		switch t.src[i] {
		case ',':
			return i, true, true
		case '}':
			return i, false, true
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return 0, false, false
		}
	}
	return 0, false, false
}

// prevComma scans backward from offset over whitespace only, reporting
// the nearest ','.
func (t *textIndex) prevComma(offset int) (idx int, found bool) {
	for i := offset - 1; i >= 0; i-- {
		switch t.src[i] {
		case ',':
			return i, true
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return 0, false
		}
	}
	return 0, false
}

// firstNonSpace returns the offset of the first non-whitespace byte at or
// after offset, and false if the rest of the text is blank.
func (t *textIndex) firstNonSpace(offset int) (idx int, found bool) {
	for i := offset; i < len(t.src); i++ {
		switch t.src[i] {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return i, true
		}
	}
	return 0, false
}
