package recipe

import (
	"strings"

	"github.com/walteh/cooklsp/pkg/position"
)

// Event is one element of the source-ordered stream produced by scanning
// recipe text. Concrete event types form a closed set; translation
// boundaries switch over them exhaustively.
type Event interface {
	Span() position.Span
}

// Component carries the shared payload of ingredient, cookware, and timer
// events. Sub-spans are zero-length when the part is absent.
type Component struct {
	Full         position.Span
	Name         string
	NameSpan     position.Span
	Alias        string
	AliasSpan    position.Span
	Quantity     string
	QuantitySpan position.Span
	Unit         string
	UnitSpan     position.Span
	Note         string
}

func (c Component) Span() position.Span { return c.Full }

type IngredientEvent struct{ Component }

type CookwareEvent struct{ Component }

type TimerEvent struct{ Component }

// MetadataEvent covers `>> key: value` lines and front-matter fences. A
// fence has the whole line as its key span and no value.
type MetadataEvent struct {
	Full      position.Span
	Key       string
	KeySpan   position.Span
	Value     string
	ValueSpan position.Span
}

func (e MetadataEvent) Span() position.Span { return e.Full }

type SectionEvent struct {
	Full position.Span
	Name string
}

func (e SectionEvent) Span() position.Span { return e.Full }

type CommentEvent struct {
	Full position.Span
}

func (e CommentEvent) Span() position.Span { return e.Full }

type TextEvent struct {
	Full position.Span
	Text string
}

func (e TextEvent) Span() position.Span { return e.Full }

type ErrorEvent struct {
	Full    position.Span
	Message string
}

func (e ErrorEvent) Span() position.Span { return e.Full }

type WarningEvent struct {
	Full    position.Span
	Message string
}

func (e WarningEvent) Span() position.Span { return e.Full }

// Stream is a forward-only pull iterator over the events of one text. It
// is finite and not resumable mid-stream: to traverse again, call
// NewStream on the same text.
type Stream struct {
	text string
	pos  int
	// pending holds events already produced by the scanner but not yet
	// handed out; a single construct can yield more than one event.
	pending []Event
}

func NewStream(text string) *Stream {
	return &Stream{text: text}
}

// Next returns the next event in source order, or false when the stream
// is exhausted.
func (s *Stream) Next() (Event, bool) {
	for len(s.pending) == 0 {
		if s.pos >= len(s.text) {
			return nil, false
		}
		s.scan()
	}
	ev := s.pending[0]
	s.pending = s.pending[1:]
	return ev, true
}

func (s *Stream) emit(ev Event) {
	s.pending = append(s.pending, ev)
}

// scan advances past one construct, emitting zero or more events.
func (s *Stream) scan() {
	atLineStart := s.pos == 0 || s.text[s.pos-1] == '\n'

	if atLineStart {
		if s.scanLineConstruct() {
			return
		}
	}

	switch s.text[s.pos] {
	case '@':
		s.emitComponent(func(c Component) Event { return IngredientEvent{c} }, true)
	case '#':
		s.emitComponent(func(c Component) Event { return CookwareEvent{c} }, true)
	case '~':
		s.emitComponent(func(c Component) Event { return TimerEvent{c} }, false)
	case '-':
		if strings.HasPrefix(s.text[s.pos:], "--") {
			start := s.pos
			end := s.lineEnd(start)
			s.emit(CommentEvent{Full: position.NewSpan(start, end)})
			s.pos = end
		} else {
			s.scanText()
		}
	case '[':
		if strings.HasPrefix(s.text[s.pos:], "[-") {
			s.scanBlockComment()
		} else {
			s.scanText()
		}
	case '\n':
		s.pos++
	default:
		s.scanText()
	}
}

// scanLineConstruct handles constructs that are only meaningful at the
// start of a line: front-matter fences, metadata lines, and sections.
func (s *Stream) scanLineConstruct() bool {
	rest := s.text[s.pos:]

	switch {
	case strings.HasPrefix(rest, "---"):
		start := s.pos
		end := s.lineEnd(start)
		line := strings.TrimSpace(s.text[start:end])
		if strings.Trim(line, "-") != "" {
			return false
		}
		s.emit(MetadataEvent{
			Full:    position.NewSpan(start, end),
			Key:     line,
			KeySpan: position.NewSpan(start, end),
		})
		s.pos = end
		return true

	case strings.HasPrefix(rest, ">>"):
		s.scanMetadata()
		return true

	case strings.HasPrefix(rest, "="):
		return s.scanSection()
	}

	return false
}

func (s *Stream) scanMetadata() {
	start := s.pos
	end := s.lineEnd(start)
	body := s.text[start+2 : end]

	ev := MetadataEvent{Full: position.NewSpan(start, end)}

	if colon := strings.Index(body, ":"); colon >= 0 {
		keyStart, keyEnd := trimmedSpan(s.text, start+2, start+2+colon)
		valStart, valEnd := trimmedSpan(s.text, start+2+colon+1, end)
		ev.Key = s.text[keyStart:keyEnd]
		ev.KeySpan = position.NewSpan(keyStart, keyEnd)
		ev.Value = s.text[valStart:valEnd]
		ev.ValueSpan = position.NewSpan(valStart, valEnd)
	} else {
		keyStart, keyEnd := trimmedSpan(s.text, start+2, end)
		ev.Key = s.text[keyStart:keyEnd]
		ev.KeySpan = position.NewSpan(keyStart, keyEnd)
		s.emit(ev)
		s.emit(WarningEvent{
			Full:    position.NewSpan(start, end),
			Message: "metadata entry has no value",
		})
		s.pos = end
		return
	}

	s.emit(ev)
	s.pos = end
}

// scanSection recognizes `= Name =` headers. A header line needs a closing
// `=`; anything else is ordinary step text.
func (s *Stream) scanSection() bool {
	start := s.pos
	end := s.lineEnd(start)
	line := s.text[start:end]

	closing := strings.LastIndex(line[1:], "=")
	if closing < 0 {
		return false
	}

	name := strings.TrimSpace(strings.Trim(line, "= \t"))
	s.emit(SectionEvent{
		Full: position.NewSpan(start, end),
		Name: name,
	})
	s.pos = end
	return true
}

func (s *Stream) scanBlockComment() {
	start := s.pos
	if idx := strings.Index(s.text[s.pos+2:], "-]"); idx >= 0 {
		end := s.pos + 2 + idx + 2
		s.emit(CommentEvent{Full: position.NewSpan(start, end)})
		s.pos = end
		return
	}
	end := len(s.text)
	s.emit(CommentEvent{Full: position.NewSpan(start, end)})
	s.emit(ErrorEvent{
		Full:    position.NewSpan(start, end),
		Message: "unterminated block comment",
	})
	s.pos = end
}

// scanText consumes a plain run up to the next construct or line end.
func (s *Stream) scanText() {
	start := s.pos
	i := s.pos
	for i < len(s.text) {
		c := s.text[i]
		if c == '\n' || c == '@' || c == '#' || c == '~' {
			break
		}
		if c == '-' && strings.HasPrefix(s.text[i:], "--") {
			break
		}
		if c == '[' && strings.HasPrefix(s.text[i:], "[-") {
			break
		}
		i++
	}
	if i == start {
		i++ // lone construct character with no construct; consume it
	}
	s.emit(TextEvent{
		Full: position.NewSpan(start, i),
		Text: s.text[start:i],
	})
	s.pos = i
}

// emitComponent scans one @/#/~ construct. Single-word names end at the
// first non-word character; multi-word names require a `{` terminator on
// the same line. nameRequired distinguishes ingredients/cookware from
// timers, which may be anonymous (~{2%min}).
func (s *Stream) emitComponent(wrap func(Component) Event, nameRequired bool) {
	trigger := s.pos
	lineEnd := s.lineEnd(trigger)

	c := Component{}

	nameStart := trigger + 1
	braceStart := s.findBrace(nameStart, lineEnd)

	var nameEnd int
	if braceStart >= 0 {
		nameEnd = braceStart
	} else {
		nameEnd = nameStart
		for nameEnd < lineEnd && isWordChar(s.text[nameEnd]) {
			nameEnd++
		}
	}

	rawName := s.text[nameStart:nameEnd]
	if bar := strings.Index(rawName, "|"); bar >= 0 {
		aStart, aEnd := trimmedSpan(s.text, nameStart+bar+1, nameEnd)
		c.Alias = s.text[aStart:aEnd]
		c.AliasSpan = position.NewSpan(aStart, aEnd)
		nameEnd = nameStart + bar
	}

	nStart, nEnd := trimmedSpan(s.text, nameStart, nameEnd)
	c.Name = s.text[nStart:nEnd]
	c.NameSpan = position.NewSpan(nStart, nEnd)

	end := nameEnd
	if c.AliasSpan.Len() > 0 {
		end = c.AliasSpan.End
	}

	if braceStart >= 0 {
		braceEnd := strings.IndexByte(s.text[braceStart:lineEnd], '}')
		if braceEnd < 0 {
			// unterminated: the construct swallows the rest of the line
			c.Full = position.NewSpan(trigger, lineEnd)
			s.emit(wrap(c))
			s.emit(ErrorEvent{
				Full:    position.NewSpan(trigger, lineEnd),
				Message: "unterminated component: missing closing '}'",
			})
			s.pos = lineEnd
			return
		}
		closing := braceStart + braceEnd
		s.scanAmount(&c, braceStart+1, closing)
		end = closing + 1

		// trailing note: (...) directly after the braces
		if end < lineEnd && s.text[end] == '(' {
			if noteEnd := strings.IndexByte(s.text[end:lineEnd], ')'); noteEnd >= 0 {
				c.Note = s.text[end+1 : end+noteEnd]
				end = end + noteEnd + 1
			}
		}
	}

	c.Full = position.NewSpan(trigger, end)
	s.emit(wrap(c))

	if nameRequired && c.Name == "" {
		s.emit(WarningEvent{
			Full:    c.Full,
			Message: "component has an empty name",
		})
	}

	s.pos = end
}

// scanAmount splits brace contents into quantity and unit around '%'.
func (s *Stream) scanAmount(c *Component, start, end int) {
	body := s.text[start:end]
	if percent := strings.Index(body, "%"); percent >= 0 {
		qStart, qEnd := trimmedSpan(s.text, start, start+percent)
		uStart, uEnd := trimmedSpan(s.text, start+percent+1, end)
		c.Quantity = s.text[qStart:qEnd]
		c.QuantitySpan = position.NewSpan(qStart, qEnd)
		c.Unit = s.text[uStart:uEnd]
		c.UnitSpan = position.NewSpan(uStart, uEnd)
		return
	}
	qStart, qEnd := trimmedSpan(s.text, start, end)
	c.Quantity = s.text[qStart:qEnd]
	c.QuantitySpan = position.NewSpan(qStart, qEnd)
}

// findBrace looks ahead for a `{` that terminates a (possibly multi-word)
// component name. The search stops at characters that cannot be part of a
// name, so `@salt and @pepper` does not absorb the brace of a later
// construct.
func (s *Stream) findBrace(from, lineEnd int) int {
	for i := from; i < lineEnd; i++ {
		c := s.text[i]
		if c == '{' {
			return i
		}
		if !isWordChar(c) && c != ' ' && c != '|' && c != '\'' {
			return -1
		}
	}
	return -1
}

func (s *Stream) lineEnd(from int) int {
	if idx := strings.IndexByte(s.text[from:], '\n'); idx >= 0 {
		return from + idx
	}
	return len(s.text)
}

func isWordChar(c byte) bool {
	return c == '_' || c == '-' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') || c >= 0x80
}

// trimmedSpan shrinks [start, end) to exclude surrounding whitespace.
func trimmedSpan(text string, start, end int) (int, int) {
	for start < end && (text[start] == ' ' || text[start] == '\t') {
		start++
	}
	for end > start && (text[end-1] == ' ' || text[end-1] == '\t') {
		end--
	}
	return start, end
}
