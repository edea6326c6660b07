package completion

import "github.com/walteh/cooklsp/pkg/recipe"

// Candidate is one completion suggestion before protocol shaping.
// Detail carries provenance; InsertText is empty when the label inserts
// as-is.
type Candidate struct {
	Label         string
	Detail        string
	Documentation string
	InsertText    string
}

// Collect gathers candidates for a resolved context. current may be nil
// when the document failed to parse; siblings are snapshots of the other
// open documents' models, in store order. Duplicate labels collapse to
// the first occurrence, so source priority is encoded by append order:
// current document, then siblings, then dictionaries.
func Collect(cc Context, current *recipe.Recipe, siblings []*recipe.Recipe, dict *Dictionaries) []Candidate {
	if dict == nil {
		dict = DefaultDictionaries()
	}

	switch cc.Kind {
	case KindIngredient:
		return collectIngredients(cc.Prefix, current, siblings)
	case KindCookware:
		return collectCookware(cc.Prefix, current, dict)
	case KindTimer:
		return collectTimerUnits(dict)
	case KindUnit:
		return collectUnits(cc.Prefix, dict)
	default:
		return nil
	}
}

func collectIngredients(prefix string, current *recipe.Recipe, siblings []*recipe.Recipe) []Candidate {
	acc := newAccumulator(prefix)

	if current != nil {
		for _, name := range current.IngredientNames() {
			acc.add(Candidate{
				Label:      name,
				Detail:     "Ingredient (from recipe)",
				InsertText: name + "{}",
			})
		}
	}
	for _, sibling := range siblings {
		if sibling == nil {
			continue
		}
		for _, name := range sibling.IngredientNames() {
			acc.add(Candidate{
				Label:  name,
				Detail: "Ingredient (from workspace)",
			})
		}
	}
	return acc.items
}

func collectCookware(prefix string, current *recipe.Recipe, dict *Dictionaries) []Candidate {
	acc := newAccumulator(prefix)

	if current != nil {
		for _, name := range current.CookwareNames() {
			acc.add(Candidate{
				Label:  name,
				Detail: "Cookware (from recipe)",
			})
		}
	}
	for _, name := range dict.Cookware {
		acc.add(Candidate{
			Label:  name,
			Detail: "Common cookware",
		})
	}
	return acc.items
}

func collectTimerUnits(dict *Dictionaries) []Candidate {
	acc := newAccumulator("")
	for _, unit := range dict.TimeUnits {
		acc.add(Candidate{
			Label:         unit.Short,
			Detail:        unit.Long,
			Documentation: "Time unit: " + unit.Long,
		})
	}
	return acc.items
}

func collectUnits(prefix string, dict *Dictionaries) []Candidate {
	acc := newAccumulator(prefix)
	for _, unit := range dict.MeasurementUnits {
		acc.add(Candidate{
			Label:  unit.Short,
			Detail: unit.Long,
		})
	}
	for _, unit := range dict.TimeUnits {
		acc.add(Candidate{
			Label:  unit.Short,
			Detail: unit.Long + " (time)",
		})
	}
	return acc.items
}

// accumulator applies the prefix filter and first-wins dedup.
type accumulator struct {
	prefix string
	seen   map[string]struct{}
	items  []Candidate
}

func newAccumulator(prefix string) *accumulator {
	return &accumulator{prefix: prefix, seen: map[string]struct{}{}}
}

func (a *accumulator) add(c Candidate) {
	if !HasPrefix(c.Label, a.prefix) {
		return
	}
	if _, dup := a.seen[c.Label]; dup {
		return
	}
	a.seen[c.Label] = struct{}{}
	a.items = append(a.items, c)
}
