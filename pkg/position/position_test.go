package position_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/cooklsp/pkg/position"
)

func TestLineStarts(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []int
	}{
		{
			name: "empty text",
			text: "",
			want: []int{0},
		},
		{
			name: "single line",
			text: "Add @salt",
			want: []int{0},
		},
		{
			name: "three lines",
			text: "line1\nline2\nline3",
			want: []int{0, 6, 12},
		},
		{
			name: "trailing newline",
			text: "line1\n",
			want: []int{0, 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix := position.NewLineIndex(tt.text)
			require.Equal(t, tt.want, ix.LineStarts())

			starts := ix.LineStarts()
			require.Equal(t, 0, starts[0], "table must start at 0")
			for i := 1; i < len(starts); i++ {
				require.Greater(t, starts[i], starts[i-1], "table must be strictly increasing")
			}
		})
	}
}

func TestLineCol(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		offset int
		want   position.Place
	}{
		{name: "start", text: "line1\nline2\nline3", offset: 0, want: position.Place{Line: 0, Character: 0}},
		{name: "end of first line", text: "line1\nline2\nline3", offset: 5, want: position.Place{Line: 0, Character: 5}},
		{name: "start of second line", text: "line1\nline2\nline3", offset: 6, want: position.Place{Line: 1, Character: 0}},
		{name: "middle of second line", text: "line1\nline2\nline3", offset: 11, want: position.Place{Line: 1, Character: 5}},
		{name: "start of third line", text: "line1\nline2\nline3", offset: 12, want: position.Place{Line: 2, Character: 0}},
		// é is 2 bytes in UTF-8, 1 UTF-16 code unit
		{name: "two byte rune", text: "café", offset: 5, want: position.Place{Line: 0, Character: 4}},
		// 🍳 is 4 bytes in UTF-8, 2 UTF-16 code units
		{name: "surrogate pair rune", text: "a🍳b", offset: 5, want: position.Place{Line: 0, Character: 3}},
		// 中 is 3 bytes in UTF-8, 1 UTF-16 code unit
		{name: "three byte rune", text: "中文", offset: 3, want: position.Place{Line: 0, Character: 1}},
		{name: "offset past end clamps", text: "ab", offset: 99, want: position.Place{Line: 0, Character: 2}},
		{name: "negative offset clamps", text: "ab", offset: -1, want: position.Place{Line: 0, Character: 0}},
		{name: "empty text", text: "", offset: 0, want: position.Place{Line: 0, Character: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix := position.NewLineIndex(tt.text)
			assert.Equal(t, tt.want, ix.LineCol(tt.offset))
		})
	}
}

func TestOffset(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		line      int
		character int
		want      int
	}{
		{name: "origin", text: "line1\nline2\nline3", line: 0, character: 0, want: 0},
		{name: "second line", text: "line1\nline2\nline3", line: 1, character: 0, want: 6},
		{name: "last line end", text: "line1\nline2\nline3", line: 2, character: 5, want: 17},
		{name: "utf16 column on multibyte line", text: "café", line: 0, character: 4, want: 5},
		{name: "surrogate pair counts as two", text: "a🍳b", line: 0, character: 3, want: 5},
		{name: "column past line end clamps to line", text: "ab\ncd", line: 0, character: 50, want: 2},
		{name: "line past end clamps to content length", text: "ab\ncd", line: 9, character: 0, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix := position.NewLineIndex(tt.text)
			assert.Equal(t, tt.want, ix.Offset(tt.line, tt.character))
		})
	}
}

// Every valid offset must survive a round trip through line/column space.
func TestOffsetRoundTrip(t *testing.T) {
	texts := []string{
		"",
		"a",
		"Add @salt{2%tsp}\n@pepper",
		"line1\nline2\nline3\n",
		"café au lait\n中文 recipe\na🍳b",
	}

	for _, text := range texts {
		ix := position.NewLineIndex(text)
		for offset := 0; offset <= len(text); offset++ {
			// only valid offsets: skip positions inside a rune
			if offset < len(text) && !utf8RuneStart(text[offset]) {
				continue
			}
			place := ix.LineCol(offset)
			require.Equal(t, offset, ix.Offset(place.Line, place.Character),
				"round trip failed for offset %d in %q", offset, text)
		}
	}
}

func utf8RuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

func TestUTF16Len(t *testing.T) {
	ix := position.NewLineIndex("café🍳")

	assert.Equal(t, 3, ix.UTF16Len(0, 3))  // "caf"
	assert.Equal(t, 1, ix.UTF16Len(3, 5))  // "é"
	assert.Equal(t, 2, ix.UTF16Len(5, 9))  // "🍳"
	assert.Equal(t, 0, ix.UTF16Len(5, 5))  // empty
	assert.Equal(t, 6, ix.UTF16Len(0, 99)) // clamped
}

func TestSpanContains(t *testing.T) {
	span := position.NewSpan(4, 9)

	assert.True(t, span.Contains(4))
	assert.True(t, span.Contains(8))
	assert.False(t, span.Contains(9), "span is half open")
	assert.False(t, span.Contains(3))

	empty := position.NewSpan(4, 4)
	assert.True(t, empty.Contains(4))
	assert.False(t, empty.Contains(5))
}
