package recipe

import (
	"github.com/walteh/cooklsp/pkg/position"
)

// Severity of a parse diagnostic.
type Severity int

const (
	SeverityError   Severity = 1
	SeverityWarning Severity = 2
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Label ties a source span to a diagnostic. The first label of a
// diagnostic is its primary location; the rest are related locations with
// optional messages.
type Label struct {
	Span    position.Span
	Message string
}

type Diagnostic struct {
	Severity Severity
	Message  string
	Labels   []Label
}

// Primary returns the primary label and whether one exists.
func (d Diagnostic) Primary() (Label, bool) {
	if len(d.Labels) == 0 {
		return Label{}, false
	}
	return d.Labels[0], true
}

// Ingredient is one @component occurrence.
type Ingredient struct {
	Name     string
	Alias    string
	Quantity string
	Unit     string
	Note     string
	Span     position.Span
}

// Cookware is one #component occurrence.
type Cookware struct {
	Name     string
	Quantity string
	Note     string
	Span     position.Span
}

// Timer is one ~component occurrence; Name may be empty.
type Timer struct {
	Name     string
	Quantity string
	Unit     string
	Span     position.Span
}

type Metadata struct {
	Key   string
	Value string
	Span  position.Span
}

// Step is one instruction paragraph inside a section.
type Step struct {
	Span position.Span
}

// Section groups steps under a header. Recipes without explicit headers
// get a single section with an empty name.
type Section struct {
	Name string
	Span position.Span
	// Steps in source order.
	Steps []Step
}

// Recipe is the structural model of one parsed document. Component slices
// are in source order and keep one entry per occurrence.
type Recipe struct {
	Metadata    []Metadata
	Sections    []Section
	Ingredients []Ingredient
	Cookware    []Cookware
	Timers      []Timer
}

// IngredientNames returns distinct ingredient names in first-seen order.
func (r *Recipe) IngredientNames() []string {
	return distinctNames(len(r.Ingredients), func(i int) string { return r.Ingredients[i].Name })
}

// CookwareNames returns distinct cookware names in first-seen order.
func (r *Recipe) CookwareNames() []string {
	return distinctNames(len(r.Cookware), func(i int) string { return r.Cookware[i].Name })
}

func distinctNames(n int, name func(int) string) []string {
	seen := make(map[string]struct{}, n)
	var out []string
	for i := 0; i < n; i++ {
		nm := name(i)
		if nm == "" {
			continue
		}
		if _, ok := seen[nm]; ok {
			continue
		}
		seen[nm] = struct{}{}
		out = append(out, nm)
	}
	return out
}
