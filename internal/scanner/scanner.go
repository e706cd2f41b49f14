// Package scanner extracts declarations from CSS text: custom properties
// anywhere, and color properties under class selectors. It is a
// line-oriented scan, not a full CSS parser; declarations it cannot make
// sense of are skipped rather than reported.
package scanner

import (
	"strings"

	"github.com/tliron/commonlog"

	"github.com/pa-ulander/color-buddy/internal/registry"
)

// defaultClassProperties are the properties recorded for class selectors.
var defaultClassProperties = []string{
	"color", "background", "background-color", "border-color",
}

type Scanner struct {
	classProps map[string]bool
	log        commonlog.Logger
}

// New returns a Scanner recording the default set of class color properties.
func New() *Scanner {
	return NewWithProperties(defaultClassProperties)
}

// NewWithProperties returns a Scanner recording the given properties under
// class selectors. Custom properties are always recorded.
func NewWithProperties(props []string) *Scanner {
	m := make(map[string]bool, len(props))
	for _, p := range props {
		m[strings.ToLower(p)] = true
	}
	return &Scanner{
		classProps: m,
		log:        commonlog.GetLogger("scanner"),
	}
}

// ScanInto replaces origin's previous declarations in the registry with the
// ones found in text.
func (s *Scanner) ScanInto(reg *registry.Registry, origin, text string) {
	reg.RemoveOrigin(origin)
	decls := s.Scan(origin, text)
	for _, d := range decls {
		if strings.HasPrefix(d.Name, "--") {
			reg.AddVariable(d.Name, d)
		} else {
			reg.AddClass(d.Name, d)
		}
	}
	s.log.Debugf("scanned %s: %d declarations", origin, len(decls))
}

// openBlock is one level of brace nesting during the scan.
type openBlock struct {
	selector string
	media    string
}

// Scan walks text line by line and returns every recorded declaration.
// Custom-property declarations carry the property name; class color
// properties carry the class name. Lines are zero-based, matching LSP
// positions.
func (s *Scanner) Scan(origin, text string) []registry.Declaration {
	var decls []registry.Declaration
	var stack []openBlock
	inComment := false

	for lineNo, line := range strings.Split(text, "\n") {
		line, inComment = stripComments(line, inComment)

		rest := line
		for rest != "" {
			open := strings.IndexByte(rest, '{')
			closeIdx := strings.IndexByte(rest, '}')
			semi := strings.IndexByte(rest, ';')

			switch {
			case open >= 0 && (closeIdx < 0 || open < closeIdx) && (semi < 0 || open < semi):
				sel := strings.TrimSpace(rest[:open])
				stack = append(stack, pushBlock(stack, sel))
				rest = rest[open+1:]
			case semi >= 0 && (closeIdx < 0 || semi < closeIdx):
				if d, ok := s.declaration(stack, origin, lineNo, rest[:semi]); ok {
					decls = append(decls, d)
				}
				rest = rest[semi+1:]
			case closeIdx >= 0:
				// A declaration without a trailing semicolon before the brace.
				if d, ok := s.declaration(stack, origin, lineNo, rest[:closeIdx]); ok {
					decls = append(decls, d)
				}
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				rest = rest[closeIdx+1:]
			default:
				if d, ok := s.declaration(stack, origin, lineNo, rest); ok {
					decls = append(decls, d)
				}
				rest = ""
			}
		}
	}
	return decls
}

// pushBlock derives the new nesting level from the enclosing one. Media
// queries carry through to nested selectors.
func pushBlock(stack []openBlock, selector string) openBlock {
	b := openBlock{selector: selector}
	if strings.HasPrefix(selector, "@media") {
		b.media = strings.TrimSpace(strings.TrimPrefix(selector, "@media"))
		b.selector = ""
	}
	if len(stack) > 0 {
		parent := stack[len(stack)-1]
		if b.media == "" {
			b.media = parent.media
		}
		if b.selector == "" {
			b.selector = parent.selector
		}
	}
	return b
}

// declaration parses one "name: value" fragment inside the current block.
func (s *Scanner) declaration(stack []openBlock, origin string, line int, frag string) (registry.Declaration, bool) {
	frag = strings.TrimSpace(frag)
	if frag == "" || len(stack) == 0 {
		return registry.Declaration{}, false
	}
	colon := strings.IndexByte(frag, ':')
	if colon <= 0 {
		return registry.Declaration{}, false
	}
	name := strings.TrimSpace(frag[:colon])
	value := strings.TrimSpace(frag[colon+1:])
	if name == "" || value == "" || strings.ContainsAny(name, " \t") {
		return registry.Declaration{}, false
	}

	top := stack[len(stack)-1]
	ctx := deriveContext(top.selector, top.media)

	d := registry.Declaration{
		Value:    value,
		Origin:   origin,
		Line:     line,
		Selector: top.selector,
		Context:  ctx,
	}

	if strings.HasPrefix(name, "--") {
		d.Name = name
		return d, true
	}

	if s.classProps[strings.ToLower(name)] && ctx.Kind == registry.KindClass {
		class := firstClassName(top.selector)
		if class == "" {
			return registry.Declaration{}, false
		}
		d.Name = class
		return d, true
	}

	return registry.Declaration{}, false
}

// deriveContext classifies a selector and computes its specificity weight.
// :root sits at the bottom so resolution prefers it; classes and pseudo
// classes weigh 10, ids 100, bare elements 1. This approximates CSS
// specificity rather than reimplementing it.
func deriveContext(selector, media string) registry.Context {
	ctx := registry.Context{MediaQuery: media}

	switch {
	case media != "" && selector == "":
		ctx.Kind = registry.KindMedia
	case selector == ":root":
		ctx.Kind = registry.KindRoot
	case strings.Contains(selector, "."):
		ctx.Kind = registry.KindClass
	case selector == "":
		ctx.Kind = registry.KindOther
	default:
		ctx.Kind = registry.KindOther
	}
	if media != "" && selector != "" {
		// A selector nested inside @media keeps its own kind; the media
		// query only contributes to theme detection and specificity.
		ctx.MediaQuery = media
	}

	ctx.Specificity = specificity(selector, media)
	ctx.Theme = themeHint(selector, media)
	return ctx
}

func specificity(selector, media string) int {
	if selector == ":root" && media == "" {
		return 0
	}
	score := 0
	if media != "" {
		score += 5
	}
	inToken := false
	for _, part := range strings.Fields(selector) {
		inToken = false
		for i := 0; i < len(part); i++ {
			switch part[i] {
			case '#':
				score += 100
				inToken = true
			case '.', ':', '[':
				score += 10
				inToken = true
			default:
				if !inToken {
					score++
					inToken = true
				}
			}
		}
	}
	return score
}

// themeHint infers light/dark from selector or media text.
func themeHint(selector, media string) registry.ThemeHint {
	text := strings.ToLower(selector + " " + media)
	switch {
	case strings.Contains(text, "dark"):
		return registry.ThemeDark
	case strings.Contains(text, "light"):
		return registry.ThemeLight
	}
	return registry.ThemeNone
}

// firstClassName extracts the first class name from a selector like
// ".btn.primary:hover" or "div.card".
func firstClassName(selector string) string {
	dot := strings.IndexByte(selector, '.')
	if dot < 0 {
		return ""
	}
	rest := selector[dot+1:]
	end := strings.IndexFunc(rest, func(r rune) bool {
		return !(r == '-' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	})
	if end < 0 {
		return rest
	}
	return rest[:end]
}

// stripComments removes /* ... */ comment text from a line, tracking
// comments that span lines.
func stripComments(line string, inComment bool) (string, bool) {
	var out strings.Builder
	for {
		if inComment {
			end := strings.Index(line, "*/")
			if end < 0 {
				return out.String(), true
			}
			line = line[end+2:]
			inComment = false
			continue
		}
		start := strings.Index(line, "/*")
		if start < 0 {
			out.WriteString(line)
			return out.String(), false
		}
		out.WriteString(line[:start])
		line = line[start+2:]
		inComment = true
	}
}
