package lsp

import (
	"fmt"

	"github.com/walteh/cooklsp/pkg/lsp/protocol"
	"github.com/walteh/cooklsp/pkg/position"
)

// documentSymbols builds the outline: one node per section with a child
// per step, then one top-level node per distinct ingredient and cookware
// item. Every node carries its real source range.
func documentSymbols(doc *Document) []protocol.DocumentSymbol {
	if doc.Recipe == nil {
		return nil
	}

	var out []protocol.DocumentSymbol

	for _, section := range doc.Recipe.Sections {
		name := section.Name
		if name == "" {
			name = "Steps"
		}

		node := protocol.DocumentSymbol{
			Name:           name,
			Detail:         fmt.Sprintf("%d steps", len(section.Steps)),
			Kind:           protocol.SymbolKindNamespace,
			Range:          symbolRange(doc, section.Span),
			SelectionRange: symbolRange(doc, section.Span),
		}
		for i, step := range section.Steps {
			node.Children = append(node.Children, protocol.DocumentSymbol{
				Name:           fmt.Sprintf("Step %d", i+1),
				Kind:           protocol.SymbolKindString,
				Range:          symbolRange(doc, step.Span),
				SelectionRange: symbolRange(doc, step.Span),
			})
		}
		out = append(out, node)
	}

	seenIngredients := map[string]struct{}{}
	for _, ing := range doc.Recipe.Ingredients {
		if ing.Name == "" {
			continue
		}
		if _, dup := seenIngredients[ing.Name]; dup {
			continue
		}
		seenIngredients[ing.Name] = struct{}{}
		out = append(out, protocol.DocumentSymbol{
			Name:           ing.Name,
			Detail:         amountDetail(ing.Quantity, ing.Unit),
			Kind:           protocol.SymbolKindVariable,
			Range:          symbolRange(doc, ing.Span),
			SelectionRange: symbolRange(doc, ing.Span),
		})
	}

	seenCookware := map[string]struct{}{}
	for _, cw := range doc.Recipe.Cookware {
		if cw.Name == "" {
			continue
		}
		if _, dup := seenCookware[cw.Name]; dup {
			continue
		}
		seenCookware[cw.Name] = struct{}{}
		out = append(out, protocol.DocumentSymbol{
			Name:           cw.Name,
			Detail:         cw.Quantity,
			Kind:           protocol.SymbolKindClass,
			Range:          symbolRange(doc, cw.Span),
			SelectionRange: symbolRange(doc, cw.Span),
		})
	}

	return out
}

func symbolRange(doc *Document, span position.Span) protocol.Range {
	return toProtocolRange(doc.Lines.RangeOf(span))
}

func amountDetail(quantity, unit string) string {
	switch {
	case quantity != "" && unit != "":
		return quantity + " " + unit
	case quantity != "":
		return quantity
	default:
		return ""
	}
}
