package semtok

import (
	"sort"

	"github.com/walteh/cooklsp/pkg/position"
	"github.com/walteh/cooklsp/pkg/recipe"
)

// Collect walks the recipe event stream for one text and produces the
// absolute tokens in source order. Component events yield separate
// sub-tokens for name, quantity, and unit; constructs crossing a line
// boundary are split into one token per line; zero-length spans produce
// nothing.
func Collect(text string, ix *position.LineIndex) []Token {
	c := collector{ix: ix}

	stream := recipe.NewStream(text)
	for {
		ev, ok := stream.Next()
		if !ok {
			break
		}
		switch e := ev.(type) {
		case recipe.IngredientEvent:
			c.component(e.Component, TokenIngredient)
		case recipe.CookwareEvent:
			c.component(e.Component, TokenCookware)
		case recipe.TimerEvent:
			c.component(e.Component, TokenTimer)
		case recipe.MetadataEvent:
			c.span(e.KeySpan, TokenMetadataKey)
			c.span(e.ValueSpan, TokenMetadataValue)
		case recipe.SectionEvent:
			c.span(e.Full, TokenSection)
		case recipe.CommentEvent:
			c.span(e.Full, TokenComment)
		case recipe.TextEvent, recipe.ErrorEvent, recipe.WarningEvent:
			// not highlighted; errors surface as diagnostics instead
		}
	}

	return c.tokens
}

// Encode produces the delta-encoded wire data for one text: flat groups
// of [deltaLine, deltaStart, length, type, modifiers].
func Encode(text string, ix *position.LineIndex) []uint32 {
	tokens := Collect(text, ix)

	// the delta encoding is only valid over a (line, start)-sorted
	// sequence
	sort.Slice(tokens, func(i, j int) bool {
		if tokens[i].Line != tokens[j].Line {
			return tokens[i].Line < tokens[j].Line
		}
		return tokens[i].Start < tokens[j].Start
	})

	data := make([]uint32, 0, len(tokens)*5)
	var prevLine, prevStart uint32
	for _, tok := range tokens {
		deltaLine := tok.Line - prevLine
		deltaStart := tok.Start
		if deltaLine == 0 {
			deltaStart = tok.Start - prevStart
		}
		data = append(data, deltaLine, deltaStart, tok.Length, uint32(tok.Type), tok.Modifiers)
		prevLine = tok.Line
		prevStart = tok.Start
	}
	return data
}

type collector struct {
	ix     *position.LineIndex
	tokens []Token
}

func (c *collector) component(comp recipe.Component, nameType TokenType) {
	c.span(comp.NameSpan, nameType)
	c.span(comp.AliasSpan, nameType)
	c.span(comp.QuantitySpan, TokenQuantity)
	c.span(comp.UnitSpan, TokenUnit)
}

// span emits one token per line covered by the byte span.
func (c *collector) span(span position.Span, typ TokenType) {
	start := span.Start
	for start < span.End {
		place := c.ix.LineCol(start)
		lineSpan := c.ix.LineSpan(place.Line)

		contentEnd := lineSpan.End
		text := c.ix.Text()
		if contentEnd > lineSpan.Start && contentEnd <= len(text) && contentEnd > 0 && text[contentEnd-1] == '\n' {
			contentEnd--
		}

		chunkEnd := span.End
		if chunkEnd > contentEnd {
			chunkEnd = contentEnd
		}

		if length := c.ix.UTF16Len(start, chunkEnd); length > 0 {
			c.tokens = append(c.tokens, Token{
				Line:   uint32(place.Line),
				Start:  uint32(place.Character),
				Length: uint32(length),
				Type:   typ,
			})
		}

		if lineSpan.End <= start {
			break // defensive: no forward progress possible
		}
		start = lineSpan.End
	}
}
