package position

import (
	"fmt"
	"sort"
	"unicode/utf16"
	"unicode/utf8"
)

// Span is a half-open byte-offset range [Start, End) in the source text.
type Span struct {
	Start int
	End   int
}

func NewSpan(start, end int) Span {
	return Span{Start: start, End: end}
}

func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether the byte offset falls inside the span. A
// zero-length span contains only its own start offset.
func (s Span) Contains(offset int) bool {
	if s.Len() == 0 {
		return offset == s.Start
	}
	return offset >= s.Start && offset < s.End
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// Place is a zero-based line plus a column in UTF-16 code units, the
// coordinate system LSP clients speak.
type Place struct {
	Line      int
	Character int
}

type Range struct {
	Start Place
	End   Place
}

// LineIndex maps byte offsets to line/column places and back. It is built
// once per document revision and never mutated; content changes rebuild it
// from scratch.
type LineIndex struct {
	// lineStarts holds the byte offset of the first character of every
	// line. Entry 0 is always 0 and the sequence is strictly increasing.
	lineStarts []int
	text       string
}

// NewLineIndex records, in a single forward scan, the offset following
// every line terminator.
func NewLineIndex(text string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{lineStarts: starts, text: text}
}

// LineCount returns the number of lines in the indexed text.
func (ix *LineIndex) LineCount() int {
	return len(ix.lineStarts)
}

// LineStarts exposes the line-start table.
func (ix *LineIndex) LineStarts() []int {
	return ix.lineStarts
}

// Text returns the indexed source text.
func (ix *LineIndex) Text() string {
	return ix.text
}

// LineCol converts a byte offset into a Place. Offsets beyond the content
// clamp to the end of the text; an off-by-one cursor at end-of-file is a
// normal editor state, not an error.
func (ix *LineIndex) LineCol(offset int) Place {
	if offset < 0 {
		offset = 0
	}
	if offset > len(ix.text) {
		offset = len(ix.text)
	}

	// greatest line start <= offset
	line := sort.Search(len(ix.lineStarts), func(i int) bool {
		return ix.lineStarts[i] > offset
	}) - 1

	col := utf16LenOf(ix.text[ix.lineStarts[line]:offset])
	return Place{Line: line, Character: col}
}

// Offset converts a Place back into a byte offset. Lines past the last
// line clamp to the content length; columns past the end of the line clamp
// to the line's last offset before its terminator.
func (ix *LineIndex) Offset(line, character int) int {
	if line < 0 {
		line = 0
	}
	if line >= len(ix.lineStarts) {
		return len(ix.text)
	}

	lineStart := ix.lineStarts[line]
	lineEnd := len(ix.text)
	if line+1 < len(ix.lineStarts) {
		lineEnd = ix.lineStarts[line+1] - 1 // exclude the newline itself
	}

	if character < 0 {
		character = 0
	}

	offset := lineStart
	count := 0
	for offset < lineEnd {
		if count >= character {
			break
		}
		r, size := utf8.DecodeRuneInString(ix.text[offset:])
		count += utf16.RuneLen(r)
		offset += size
	}
	return offset
}

// UTF16Len counts the UTF-16 code units covered by a byte range, clamped
// to the content.
func (ix *LineIndex) UTF16Len(start, end int) int {
	if start < 0 {
		start = 0
	}
	if end > len(ix.text) {
		end = len(ix.text)
	}
	if start >= end {
		return 0
	}
	return utf16LenOf(ix.text[start:end])
}

// RangeOf converts a byte span into a line/column Range.
func (ix *LineIndex) RangeOf(span Span) Range {
	return Range{
		Start: ix.LineCol(span.Start),
		End:   ix.LineCol(span.End),
	}
}

// LineSpan returns the byte span of a line including its terminator.
func (ix *LineIndex) LineSpan(line int) Span {
	if line < 0 || line >= len(ix.lineStarts) {
		return Span{Start: len(ix.text), End: len(ix.text)}
	}
	end := len(ix.text)
	if line+1 < len(ix.lineStarts) {
		end = ix.lineStarts[line+1]
	}
	return Span{Start: ix.lineStarts[line], End: end}
}

func utf16LenOf(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
