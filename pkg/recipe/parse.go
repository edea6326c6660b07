package recipe

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/walteh/cooklsp/pkg/position"
)

// Parse builds the structural model for one recipe text together with its
// diagnostics. The returned model is nil only when no structure could be
// recovered at all; diagnostics are valid either way. Parsing identical
// content always yields identical results.
func Parse(text string) (*Recipe, []Diagnostic) {
	if !utf8.ValidString(text) {
		return nil, []Diagnostic{{
			Severity: SeverityError,
			Message:  "recipe source is not valid UTF-8",
		}}
	}

	p := &parser{text: text, metaSeen: map[string]position.Span{}}

	stream := NewStream(text)
	for {
		ev, ok := stream.Next()
		if !ok {
			break
		}
		p.apply(ev)
	}
	p.flushStep()
	p.flushSection()

	return &p.recipe, p.diagnostics
}

type parser struct {
	text        string
	recipe      Recipe
	diagnostics []Diagnostic

	metaSeen map[string]position.Span

	section    Section
	hasSection bool
	step       position.Span
	inStep     bool
}

func (p *parser) apply(ev Event) {
	switch e := ev.(type) {
	case IngredientEvent:
		p.recipe.Ingredients = append(p.recipe.Ingredients, Ingredient{
			Name:     e.Name,
			Alias:    e.Alias,
			Quantity: e.Quantity,
			Unit:     e.Unit,
			Note:     e.Note,
			Span:     e.Full,
		})
		p.extendStep(e.Full)

	case CookwareEvent:
		p.recipe.Cookware = append(p.recipe.Cookware, Cookware{
			Name:     e.Name,
			Quantity: e.Quantity,
			Note:     e.Note,
			Span:     e.Full,
		})
		p.extendStep(e.Full)

	case TimerEvent:
		p.recipe.Timers = append(p.recipe.Timers, Timer{
			Name:     e.Name,
			Quantity: e.Quantity,
			Unit:     e.Unit,
			Span:     e.Full,
		})
		p.extendStep(e.Full)

	case MetadataEvent:
		p.flushStep()
		if e.Value == "" && strings.Trim(e.Key, "-") == "" {
			return // front-matter fence, not an entry
		}
		entry := Metadata{Key: e.Key, Value: e.Value, Span: e.Full}
		p.recipe.Metadata = append(p.recipe.Metadata, entry)
		if first, ok := p.metaSeen[e.Key]; ok {
			p.diagnostics = append(p.diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("duplicate metadata key %q", e.Key),
				Labels: []Label{
					{Span: e.KeySpan},
					{Span: first, Message: "first defined here"},
				},
			})
		} else if e.Key != "" {
			p.metaSeen[e.Key] = e.KeySpan
		}

	case SectionEvent:
		p.flushStep()
		p.flushSection()
		p.section = Section{Name: e.Name, Span: e.Full}
		p.hasSection = true

	case CommentEvent:
		// comments neither extend nor break a step

	case TextEvent:
		if strings.TrimSpace(e.Text) != "" {
			p.extendStep(e.Full)
		}

	case ErrorEvent:
		p.diagnostics = append(p.diagnostics, Diagnostic{
			Severity: SeverityError,
			Message:  e.Message,
			Labels:   []Label{{Span: e.Full}},
		})

	case WarningEvent:
		p.diagnostics = append(p.diagnostics, Diagnostic{
			Severity: SeverityWarning,
			Message:  e.Message,
			Labels:   []Label{{Span: e.Full}},
		})
	}
}

// extendStep grows the current step to cover the event, starting a new
// step when a blank line separates it from the previous step content.
func (p *parser) extendStep(span position.Span) {
	if p.inStep && p.blankBetween(p.step.End, span.Start) {
		p.flushStep()
	}
	if !p.inStep {
		p.step = span
		p.inStep = true
		if !p.hasSection {
			p.section = Section{Span: span}
			p.hasSection = true
		}
		return
	}
	if span.End > p.step.End {
		p.step.End = span.End
	}
}

// blankBetween reports whether the text between two offsets contains an
// empty line, which terminates a step.
func (p *parser) blankBetween(from, to int) bool {
	if from < 0 || to > len(p.text) || from >= to {
		return false
	}
	gap := p.text[from:to]
	newlines := 0
	for i := 0; i < len(gap); i++ {
		switch gap[i] {
		case '\n':
			newlines++
			if newlines > 1 {
				return true
			}
		case ' ', '\t', '\r':
		default:
			newlines = 0
		}
	}
	return false
}

func (p *parser) flushStep() {
	if !p.inStep {
		return
	}
	p.section.Steps = append(p.section.Steps, Step{Span: p.step})
	if p.step.End > p.section.Span.End {
		p.section.Span.End = p.step.End
	}
	p.inStep = false
}

func (p *parser) flushSection() {
	if !p.hasSection {
		return
	}
	p.recipe.Sections = append(p.recipe.Sections, p.section)
	p.hasSection = false
}
