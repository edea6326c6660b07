package semtok_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/cooklsp/pkg/position"
	"github.com/walteh/cooklsp/pkg/semtok"
)

// decodeTokens reverses the delta encoding back to absolute positions.
func decodeTokens(t *testing.T, data []uint32) []semtok.Token {
	t.Helper()
	require.Zero(t, len(data)%5, "data must be groups of five")

	var out []semtok.Token
	var line, start uint32
	for i := 0; i < len(data); i += 5 {
		line += data[i]
		if data[i] == 0 {
			start += data[i+1]
		} else {
			start = data[i+1]
		}
		out = append(out, semtok.Token{
			Line:      line,
			Start:     start,
			Length:    data[i+2],
			Type:      semtok.TokenType(data[i+3]),
			Modifiers: data[i+4],
		})
	}
	return out
}

func TestEncodeComponentSubTokens(t *testing.T) {
	text := "@salt{2%tsp}"
	data := semtok.Encode(text, position.NewLineIndex(text))
	tokens := decodeTokens(t, data)

	require.Len(t, tokens, 3)

	// name
	assert.Equal(t, semtok.TokenIngredient, tokens[0].Type)
	assert.Equal(t, uint32(1), tokens[0].Start)
	assert.Equal(t, uint32(4), tokens[0].Length)
	// quantity
	assert.Equal(t, semtok.TokenQuantity, tokens[1].Type)
	assert.Equal(t, uint32(6), tokens[1].Start)
	assert.Equal(t, uint32(1), tokens[1].Length)
	// unit
	assert.Equal(t, semtok.TokenUnit, tokens[2].Type)
	assert.Equal(t, uint32(8), tokens[2].Start)
	assert.Equal(t, uint32(3), tokens[2].Length)
}

func TestEncodeKindCoverage(t *testing.T) {
	text := ">> servings: 2\n" +
		"= Prep =\n" +
		"-- a comment\n" +
		"Heat #pan{} and add @oil{1%tbsp}\n" +
		"Wait ~{5%minutes}\n"
	data := semtok.Encode(text, position.NewLineIndex(text))
	tokens := decodeTokens(t, data)

	byType := map[semtok.TokenType]int{}
	for _, tok := range tokens {
		byType[tok.Type]++
	}

	assert.Equal(t, 1, byType[semtok.TokenMetadataKey])
	assert.Equal(t, 1, byType[semtok.TokenMetadataValue])
	assert.Equal(t, 1, byType[semtok.TokenSection])
	assert.Equal(t, 1, byType[semtok.TokenComment])
	assert.Equal(t, 1, byType[semtok.TokenCookware])
	assert.Equal(t, 1, byType[semtok.TokenIngredient])
	assert.Equal(t, 2, byType[semtok.TokenQuantity]) // oil amount + timer amount
	assert.Equal(t, 2, byType[semtok.TokenUnit])     // tbsp + minutes
	assert.Zero(t, byType[semtok.TokenTimer], "anonymous timer has no name token")
}

// Decoding the stream must yield a non-decreasing (line, start) sequence
// and no token may cross a line boundary.
func TestEncodeMonotoneAndSingleLine(t *testing.T) {
	texts := []string{
		"",
		"@salt{2%tsp}\n@pepper",
		"[- block\ncomment\nspanning -]\n@salt{1}",
		">> title: café 🍳 breakfast\nAdd @crème fraîche{2%tbsp}\n",
		"= Section =\n#pan{}\n~rest{10%min}\n-- done\n",
	}

	for _, text := range texts {
		ix := position.NewLineIndex(text)
		tokens := decodeTokens(t, semtok.Encode(text, ix))

		var prev *semtok.Token
		for i := range tokens {
			tok := tokens[i]
			require.NotZero(t, tok.Length, "zero-length tokens must be dropped")

			if prev != nil {
				ok := tok.Line > prev.Line || (tok.Line == prev.Line && tok.Start >= prev.Start)
				require.True(t, ok, "positions must be non-decreasing in %q", text)
			}

			// a token confined to its line fits before the terminator
			lineSpan := ix.LineSpan(int(tok.Line))
			lineLen := ix.UTF16Len(lineSpan.Start, lineSpan.End)
			require.LessOrEqual(t, tok.Start+tok.Length, uint32(lineLen)+1,
				"token crosses line boundary in %q", text)

			prev = &tok
		}
	}
}

func TestEncodeMultiLineCommentSplit(t *testing.T) {
	text := "[- one\ntwo -]"
	tokens := decodeTokens(t, semtok.Encode(text, position.NewLineIndex(text)))

	require.Len(t, tokens, 2)
	assert.Equal(t, uint32(0), tokens[0].Line)
	assert.Equal(t, uint32(0), tokens[0].Start)
	assert.Equal(t, uint32(6), tokens[0].Length) // "[- one"
	assert.Equal(t, uint32(1), tokens[1].Line)
	assert.Equal(t, uint32(0), tokens[1].Start)
	assert.Equal(t, uint32(6), tokens[1].Length) // "two -]"
	for _, tok := range tokens {
		assert.Equal(t, semtok.TokenComment, tok.Type)
	}
}

func TestEncodeUTF16Lengths(t *testing.T) {
	// é is one UTF-16 unit; 🍳 is two
	text := "@crème{1}"
	tokens := decodeTokens(t, semtok.Encode(text, position.NewLineIndex(text)))

	require.NotEmpty(t, tokens)
	assert.Equal(t, semtok.TokenIngredient, tokens[0].Type)
	assert.Equal(t, uint32(5), tokens[0].Length, "crème is five UTF-16 units")
}

func TestLegendAlignment(t *testing.T) {
	types := semtok.TokenTypes()
	require.Len(t, types, 9)
	assert.Equal(t, "variable", types[semtok.TokenIngredient])
	assert.Equal(t, "class", types[semtok.TokenCookware])
	assert.Equal(t, "function", types[semtok.TokenTimer])
	assert.Equal(t, "namespace", types[semtok.TokenSection])
	assert.Empty(t, semtok.TokenModifiers())
}
