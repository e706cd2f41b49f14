package pipeline

import (
	"regexp"
	"sort"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/pa-ulander/color-buddy/internal/color"
	"github.com/pa-ulander/color-buddy/internal/registry"
)

// Occurrence records a decoded color at a specific source position.
type Occurrence struct {
	Range  protocol.Range
	Text   string
	Parsed color.Parsed
	// IsRef is true when the occurrence is a var() reference rather than a
	// literal; Name then holds the referenced custom-property name.
	IsRef bool
	Name  string
}

var (
	funcPattern    = regexp.MustCompile(`(?i)\b(?:rgba?|hsla?)\([^)]*\)`)
	hexPattern     = regexp.MustCompile(`#[0-9a-fA-F]+`)
	refPattern     = regexp.MustCompile(`var\(\s*(--[A-Za-z0-9_-]+)\s*\)`)
	compactPattern = regexp.MustCompile(`\b-?\d+(?:\.\d+)?\s+\d+(?:\.\d+)?%\s+\d+(?:\.\d+)?%(?:\s*/\s*\d+(?:\.\d+)?%?)?`)
)

// Detect scans document text for color literals and var() references and
// returns an occurrence for each, with ranges matching the literal text
// spans. References are expanded through the registry; a reference that does
// not resolve to a parseable color is skipped. Cycle reports from the
// resolver pass through onCycle.
func Detect(text string, reg *registry.Registry, onCycle registry.CycleFunc) []Occurrence {
	var out []Occurrence

	for lineNo, line := range strings.Split(text, "\n") {
		// Spans already claimed by an earlier, more specific pattern.
		var claimed [][2]int
		overlaps := func(start, end int) bool {
			for _, c := range claimed {
				if start < c[1] && end > c[0] {
					return true
				}
			}
			return false
		}

		emit := func(start, end int, occ Occurrence) {
			claimed = append(claimed, [2]int{start, end})
			occ.Range = protocol.Range{
				Start: protocol.Position{Line: uint32(lineNo), Character: uint32(start)},
				End:   protocol.Position{Line: uint32(lineNo), Character: uint32(end)},
			}
			occ.Text = line[start:end]
			out = append(out, occ)
		}

		// var() references first so their interiors never match as literals.
		for _, m := range refPattern.FindAllStringSubmatchIndex(line, -1) {
			name := line[m[2]:m[3]]
			resolved := registry.Resolve(line[m[0]:m[1]], reg, onCycle)
			if strings.Contains(resolved, "var(") {
				continue // unresolved or cyclic
			}
			parsed, err := color.Parse(resolved)
			if err != nil {
				continue
			}
			emit(m[0], m[1], Occurrence{Parsed: parsed, IsRef: true, Name: name})
		}

		for _, m := range funcPattern.FindAllStringIndex(line, -1) {
			if overlaps(m[0], m[1]) {
				continue
			}
			parsed, err := color.Parse(line[m[0]:m[1]])
			if err != nil {
				continue
			}
			emit(m[0], m[1], Occurrence{Parsed: parsed})
		}

		for _, m := range hexPattern.FindAllStringIndex(line, -1) {
			if overlaps(m[0], m[1]) {
				continue
			}
			parsed, err := color.Parse(line[m[0]:m[1]])
			if err != nil {
				continue
			}
			emit(m[0], m[1], Occurrence{Parsed: parsed})
		}

		for _, m := range compactPattern.FindAllStringIndex(line, -1) {
			if overlaps(m[0], m[1]) {
				continue
			}
			parsed, err := color.Parse(line[m[0]:m[1]])
			if err != nil {
				continue
			}
			emit(m[0], m[1], Occurrence{Parsed: parsed})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Range.Start.Line != out[j].Range.Start.Line {
			return out[i].Range.Start.Line < out[j].Range.Start.Line
		}
		return out[i].Range.Start.Character < out[j].Range.Start.Character
	})
	return out
}
