package completion

import "strings"

// Kind classifies what the cursor is completing.
type Kind int

const (
	KindNone Kind = iota
	KindIngredient
	KindCookware
	KindTimer
	KindUnit
)

func (k Kind) String() string {
	switch k {
	case KindIngredient:
		return "ingredient"
	case KindCookware:
		return "cookware"
	case KindTimer:
		return "timer"
	case KindUnit:
		return "unit"
	default:
		return "none"
	}
}

// Context is the resolved completion context at a cursor: the construct
// being typed plus the case-preserving filter prefix. Timer contexts
// carry no prefix.
type Context struct {
	Kind   Kind
	Prefix string
}

// maxScan bounds the backward scan; a construct never usefully extends
// further back than this on one line.
const maxScan = 200

// Resolve scans backward from the end of text for the nearest trigger
// character. Crossing a line terminator before a trigger means no
// context, as does a closing brace between the trigger and the cursor
// (the construct already ended there).
func Resolve(textBeforeCursor string) (Context, bool) {
	start := len(textBeforeCursor) - maxScan
	if start < 0 {
		start = 0
	}
	// back up to a rune boundary
	for start < len(textBeforeCursor) && textBeforeCursor[start]&0xC0 == 0x80 {
		start++
	}
	text := textBeforeCursor[start:]

	for i := len(text) - 1; i >= 0; i-- {
		switch text[i] {
		case '\n', '\r':
			return Context{}, false
		case '}':
			return Context{}, false
		case '@':
			return Context{Kind: KindIngredient, Prefix: prefixOf(text[i+1:])}, true
		case '#':
			return Context{Kind: KindCookware, Prefix: prefixOf(text[i+1:])}, true
		case '~':
			return Context{Kind: KindTimer}, true
		case '%':
			return Context{Kind: KindUnit, Prefix: strings.TrimSpace(text[i+1:])}, true
		}
	}
	return Context{}, false
}

// prefixOf trims a component tail down to its name part: anything from
// the opening brace on belongs to the amount, not the filter.
func prefixOf(tail string) string {
	if i := strings.IndexByte(tail, '{'); i >= 0 {
		tail = tail[:i]
	}
	return tail
}

// HasPrefix reports whether label matches the filter prefix,
// case-insensitively. An empty prefix matches everything.
func HasPrefix(label, prefix string) bool {
	if prefix == "" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(label), strings.ToLower(prefix))
}
