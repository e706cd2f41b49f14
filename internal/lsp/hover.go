package lsp

import (
	"fmt"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/pa-ulander/color-buddy/internal/color"
	"github.com/pa-ulander/color-buddy/internal/pipeline"
)

// posInRange returns true if pos is within the range [r.Start, r.End).
// The end position is exclusive.
func posInRange(pos protocol.Position, r protocol.Range) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}
	if pos.Line == r.End.Line && pos.Character >= r.End.Character {
		return false
	}
	return true
}

// hover produces a Hover for the occurrence under the cursor: the color in
// every representable notation, the author's own notation first. For var()
// references the referenced name is shown as a heading.
func hover(occs []pipeline.Occurrence, pos protocol.Position) *protocol.Hover {
	for _, occ := range occs {
		if !posInRange(pos, occ.Range) {
			continue
		}

		var notations []string
		for _, f := range occ.Parsed.Priority {
			if text, ok := color.FormatAs(occ.Parsed.Value, f); ok {
				notations = append(notations, "`"+text+"`")
			}
		}
		md := strings.Join(notations, " · ")
		if occ.IsRef {
			md = fmt.Sprintf("**%s**\n\n%s", occ.Name, md)
		}

		rng := occ.Range
		return &protocol.Hover{
			Contents: protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: md,
			},
			Range: &rng,
		}
	}
	return nil
}

// textDocumentHover handles textDocument/hover requests.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := string(params.TextDocument.URI)
	return hover(s.occurrences(uri), params.Position), nil
}
