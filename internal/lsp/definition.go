package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/pa-ulander/color-buddy/internal/pipeline"
	"github.com/pa-ulander/color-buddy/internal/registry"
)

// definition resolves a var() reference under the cursor to the location of
// the declaration the resolver would pick: the lowest-specificity one.
func definition(occs []pipeline.Occurrence, reg *registry.Registry, pos protocol.Position) *protocol.Location {
	for _, occ := range occs {
		if !occ.IsRef || !posInRange(pos, occ.Range) {
			continue
		}

		decls := registry.SortedDeclarations(reg, occ.Name)
		if len(decls) == 0 {
			return nil
		}

		d := decls[0]
		line := uint32(d.Line)
		return &protocol.Location{
			URI: protocol.DocumentUri(d.Origin),
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: 0},
				End:   protocol.Position{Line: line, Character: 0},
			},
		}
	}
	return nil
}

// textDocumentDefinition handles textDocument/definition requests.
func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	uri := string(params.TextDocument.URI)

	loc := definition(s.occurrences(uri), s.registry, params.Position)
	if loc == nil {
		return nil, nil
	}
	return loc, nil
}
