package semtok

// TokenType indexes the fixed legend declared once at initialization.
// The order here is the wire order; it never changes at runtime.
type TokenType uint32

const (
	TokenIngredient    TokenType = 0 // variable
	TokenCookware      TokenType = 1 // class
	TokenTimer         TokenType = 2 // function
	TokenQuantity      TokenType = 3 // number
	TokenUnit          TokenType = 4 // string
	TokenComment       TokenType = 5 // comment
	TokenMetadataKey   TokenType = 6 // keyword
	TokenMetadataValue TokenType = 7 // property
	TokenSection       TokenType = 8 // namespace
)

// TokenTypes is the legend's tokenTypes array, aligned with the TokenType
// constants above.
func TokenTypes() []string {
	return []string{
		"variable",  // 0: ingredients (@)
		"class",     // 1: cookware (#)
		"function",  // 2: timers (~)
		"number",    // 3: quantities
		"string",    // 4: units
		"comment",   // 5: comments
		"keyword",   // 6: metadata keys
		"property",  // 7: metadata values
		"namespace", // 8: sections
	}
}

// TokenModifiers is the legend's tokenModifiers array. The recipe grammar
// defines no modifiers; the bitset is always zero.
func TokenModifiers() []string {
	return []string{}
}

// Token is one highlight span in absolute coordinates, before delta
// encoding. Length counts UTF-16 code units and a token never crosses a
// line boundary.
type Token struct {
	Line      uint32
	Start     uint32
	Length    uint32
	Type      TokenType
	Modifiers uint32
}
