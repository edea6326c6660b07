// Package hover renders recipe entities under a cursor into markdown.
package hover

import (
	"strings"

	"github.com/walteh/cooklsp/pkg/position"
	"github.com/walteh/cooklsp/pkg/recipe"
)

// Info is a rendered hover: the markdown text plus the span of the
// entity it describes.
type Info struct {
	Span     position.Span
	Markdown string
}

// At finds the innermost ingredient, cookware, or timer whose span
// contains the byte offset and renders it. A nil model or an offset
// outside every entity yields no hover.
func At(model *recipe.Recipe, offset int) (*Info, bool) {
	if model == nil {
		return nil, false
	}

	var best *Info
	consider := func(span position.Span, markdown string) {
		if !span.Contains(offset) {
			return
		}
		if best == nil || span.Len() < best.Span.Len() {
			best = &Info{Span: span, Markdown: markdown}
		}
	}

	for i := range model.Ingredients {
		ing := &model.Ingredients[i]
		consider(ing.Span, renderIngredient(ing))
	}
	for i := range model.Cookware {
		cw := &model.Cookware[i]
		consider(cw.Span, renderCookware(cw))
	}
	for i := range model.Timers {
		tm := &model.Timers[i]
		consider(tm.Span, renderTimer(tm))
	}

	if best == nil {
		return nil, false
	}
	return best, true
}

func renderIngredient(ing *recipe.Ingredient) string {
	parts := []string{"**Ingredient:** " + ing.Name}
	if ing.Alias != "" {
		parts = append(parts, "**Alias:** "+ing.Alias)
	}
	if amount := renderAmount(ing.Quantity, ing.Unit); amount != "" {
		parts = append(parts, "**Quantity:** "+amount)
	}
	if ing.Note != "" {
		parts = append(parts, "**Note:** "+ing.Note)
	}
	return strings.Join(parts, "\n\n")
}

func renderCookware(cw *recipe.Cookware) string {
	parts := []string{"**Cookware:** " + cw.Name}
	if cw.Quantity != "" {
		parts = append(parts, "**Quantity:** "+cw.Quantity)
	}
	if cw.Note != "" {
		parts = append(parts, "**Note:** "+cw.Note)
	}
	return strings.Join(parts, "\n\n")
}

func renderTimer(tm *recipe.Timer) string {
	var parts []string
	if tm.Name != "" {
		parts = append(parts, "**Timer:** "+tm.Name)
	} else {
		parts = append(parts, "**Timer**")
	}
	if amount := renderAmount(tm.Quantity, tm.Unit); amount != "" {
		parts = append(parts, "**Duration:** "+amount)
	}
	return strings.Join(parts, "\n\n")
}

func renderAmount(quantity, unit string) string {
	switch {
	case quantity != "" && unit != "":
		return quantity + " " + unit
	case quantity != "":
		return quantity
	case unit != "":
		return unit
	default:
		return ""
	}
}
