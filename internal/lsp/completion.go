package lsp

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/pa-ulander/color-buddy/internal/registry"
)

// varPrefixAtCursor returns the partial custom-property name being typed at
// the cursor, or false when the cursor is not on one. It matches both a bare
// "--acc" and one inside "var(--acc".
func varPrefixAtCursor(line string, character uint32) (string, bool) {
	col := int(character)
	if col > len(line) {
		col = len(line)
	}

	start := col
	for start > 0 && isNameChar(line[start-1]) {
		start--
	}

	word := line[start:col]
	if !strings.HasPrefix(word, "-") {
		return "", false
	}
	return word, true
}

func isNameChar(c byte) bool {
	return c == '_' || c == '-' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// complete proposes known custom-property names matching the typed prefix.
// Each item carries the resolved value so editors can show a color swatch
// next to the name.
func complete(reg *registry.Registry, line string, character uint32) []protocol.CompletionItem {
	prefix, ok := varPrefixAtCursor(line, character)
	if !ok {
		return nil
	}

	kind := protocol.CompletionItemKindColor
	var items []protocol.CompletionItem
	for _, name := range reg.VariableNames() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		resolved := registry.Resolve("var("+name+")", reg, nil)
		detail := resolved
		items = append(items, protocol.CompletionItem{
			Label:  name,
			Kind:   &kind,
			Detail: &detail,
		})
	}
	return items
}

// textDocumentCompletion handles textDocument/completion requests.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	uri := string(params.TextDocument.URI)

	doc, ok := s.docs.Get(uri)
	if !ok {
		return nil, nil
	}

	lines := strings.Split(doc.Content, "\n")
	if int(params.Position.Line) >= len(lines) {
		return nil, nil
	}

	items := complete(s.registry, lines[params.Position.Line], params.Position.Character)
	if len(items) == 0 {
		return nil, nil
	}
	return items, nil
}
