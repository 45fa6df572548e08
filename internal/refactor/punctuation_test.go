package refactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elmlsp/elmlsp/internal/syntax"
)

func TestTextIndex_OffsetAndPointRoundTrip(t *testing.T) {
	src := "line one\nline two\nline three\n"
	ti := newTextIndex(src)

	off := ti.offset(syntax.Point{Line: 2, Column: 6})
	assert.Equal(t, "two", src[off:off+3])

	p := ti.point(off)
	assert.Equal(t, 2, p.Line)
	assert.Equal(t, 6, p.Column)
}

func TestTextIndex_NextSeparatorFindsComma(t *testing.T) {
	src := "{ a = 1, b = 2 }"
	ti := newTextIndex(src)

	idx, isComma, found := ti.nextSeparator(7) // just after "1"
	require.True(t, found)
	assert.True(t, isComma)
	assert.Equal(t, byte(','), src[idx])
}

func TestTextIndex_NextSeparatorFindsClosingBrace(t *testing.T) {
	src := "{ a = 1 }"
	ti := newTextIndex(src)

	idx, isComma, found := ti.nextSeparator(7)
	require.True(t, found)
	assert.False(t, isComma)
	assert.Equal(t, byte('}'), src[idx])
}

func TestTextIndex_PrevCommaScansBackwardOverWhitespace(t *testing.T) {
	src := "{ a = 1,\n  b = 2 }"
	ti := newTextIndex(src)

	idx, found := ti.prevComma(10) // somewhere into "  b"
	require.True(t, found)
	assert.Equal(t, byte(','), src[idx])
}

func TestTextIndex_FirstNonSpaceSkipsWhitespace(t *testing.T) {
	src := "   x"
	ti := newTextIndex(src)
	idx, found := ti.firstNonSpace(0)
	require.True(t, found)
	assert.Equal(t, 3, idx)
}

func TestTextIndex_FirstNonSpaceAllBlankReturnsNotFound(t *testing.T) {
	src := "   "
	ti := newTextIndex(src)
	_, found := ti.firstNonSpace(0)
	assert.False(t, found)
}

func TestTextIndex_LineStartOf(t *testing.T) {
	src := "aaa\nbbb\nccc\n"
	ti := newTextIndex(src)
	assert.Equal(t, 4, ti.lineStartOf(2))
	assert.Equal(t, 8, ti.lineStartOf(3))
}
