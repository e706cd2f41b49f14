package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/pa-ulander/color-buddy/internal/color"
	"github.com/pa-ulander/color-buddy/internal/pipeline"
)

// valueToLSP converts an internal color.Value to a protocol.Color.
func valueToLSP(v color.Value) protocol.Color {
	return protocol.Color{
		Red:   float32(v.R),
		Green: float32(v.G),
		Blue:  float32(v.B),
		Alpha: float32(v.A),
	}
}

// lspToValue converts a protocol.Color back to an internal color.Value.
func lspToValue(c protocol.Color) color.Value {
	return color.Value{
		R: float64(c.Red),
		G: float64(c.Green),
		B: float64(c.Blue),
		A: float64(c.Alpha),
	}
}

// documentColors converts occurrences into LSP ColorInformation items.
func documentColors(occs []pipeline.Occurrence) []protocol.ColorInformation {
	infos := make([]protocol.ColorInformation, 0, len(occs))
	for _, occ := range occs {
		infos = append(infos, protocol.ColorInformation{
			Range: occ.Range,
			Color: valueToLSP(occ.Parsed.Value),
		})
	}
	return infos
}

// colorPresentations renders the picked color in every notation the
// occurrence's priority admits, the author's original notation first.
// Notations that cannot represent the color (alpha-less ones for a
// translucent pick) are skipped, and var() references get no presentations
// at all so a reference is never replaced by a literal.
func colorPresentations(occ *pipeline.Occurrence, picked color.Value, rng protocol.Range) []protocol.ColorPresentation {
	if occ == nil || occ.IsRef {
		return []protocol.ColorPresentation{}
	}

	var out []protocol.ColorPresentation
	for _, f := range occ.Parsed.Priority {
		text, ok := color.FormatAs(picked, f)
		if !ok {
			continue
		}
		out = append(out, protocol.ColorPresentation{
			Label: text,
			TextEdit: &protocol.TextEdit{
				Range:   rng,
				NewText: text,
			},
		})
	}
	return out
}

// occurrenceAt finds the occurrence whose range equals or contains rng.
func occurrenceAt(occs []pipeline.Occurrence, rng protocol.Range) *pipeline.Occurrence {
	for i := range occs {
		if occs[i].Range == rng {
			return &occs[i]
		}
	}
	for i := range occs {
		if posInRange(rng.Start, occs[i].Range) {
			return &occs[i]
		}
	}
	return nil
}

// textDocumentDocumentColor handles textDocument/documentColor requests.
func (s *Server) textDocumentDocumentColor(_ *glsp.Context, params *protocol.DocumentColorParams) ([]protocol.ColorInformation, error) {
	uri := string(params.TextDocument.URI)
	return documentColors(s.occurrences(uri)), nil
}

// textDocumentColorPresentation handles textDocument/colorPresentation requests.
func (s *Server) textDocumentColorPresentation(_ *glsp.Context, params *protocol.ColorPresentationParams) ([]protocol.ColorPresentation, error) {
	uri := string(params.TextDocument.URI)
	occ := occurrenceAt(s.occurrences(uri), params.Range)
	return colorPresentations(occ, lspToValue(params.Color), params.Range), nil
}
