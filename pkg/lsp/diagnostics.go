package lsp

import (
	"github.com/walteh/cooklsp/pkg/lsp/protocol"
	"github.com/walteh/cooklsp/pkg/position"
	"github.com/walteh/cooklsp/pkg/recipe"
)

const diagnosticSource = "cooklang"

func toProtocolRange(rng position.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: uint32(rng.Start.Line), Character: uint32(rng.Start.Character)},
		End:   protocol.Position{Line: uint32(rng.End.Line), Character: uint32(rng.End.Character)},
	}
}

func toProtocolSeverity(sev recipe.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case recipe.SeverityError:
		return protocol.SeverityError
	case recipe.SeverityWarning:
		return protocol.SeverityWarning
	default:
		return protocol.SeverityError
	}
}

// translateDiagnostics converts parser diagnostics into protocol ones.
// The primary label supplies the range; remaining labels become related
// information; a diagnostic with no label gets a zero-length range at
// document start.
func translateDiagnostics(doc *Document) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(doc.Diagnostics))
	for _, d := range doc.Diagnostics {
		pd := protocol.Diagnostic{
			Severity: toProtocolSeverity(d.Severity),
			Source:   diagnosticSource,
			Message:  d.Message,
		}

		if primary, ok := d.Primary(); ok {
			pd.Range = toProtocolRange(doc.Lines.RangeOf(primary.Span))
			for _, related := range d.Labels[1:] {
				pd.RelatedInformation = append(pd.RelatedInformation, protocol.DiagnosticRelatedInformation{
					Location: protocol.Location{
						URI:   protocol.DocumentURI(doc.URI),
						Range: toProtocolRange(doc.Lines.RangeOf(related.Span)),
					},
					Message: related.Message,
				})
			}
		}

		out = append(out, pd)
	}
	return out
}

func publishParams(doc *Document) *protocol.PublishDiagnosticsParams {
	return &protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(doc.URI),
		Version:     doc.Version,
		Diagnostics: translateDiagnostics(doc),
	}
}
