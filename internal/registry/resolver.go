package registry

import (
	"regexp"
	"strings"
)

// varRefPattern matches a var(--name) reference. References with fallback
// arguments are intentionally not matched and stay verbatim.
var varRefPattern = regexp.MustCompile(`var\(\s*(--[A-Za-z0-9_-]+)\s*\)`)

// CycleFunc is notified once per resolution for each reference name that
// forms a cycle.
type CycleFunc func(name string)

// Resolve expands var() references in value against the registry. Unknown
// references are left verbatim. A reference whose name is already being
// expanded higher up the same chain is a cycle: the occurrence is left
// verbatim and reported once through onCycle. Sibling references each get
// their own copy of the active-chain set, so independent chains cannot
// trip each other's cycle detection.
func Resolve(value string, reg *Registry, onCycle CycleFunc) string {
	reported := make(map[string]bool)
	report := func(name string) {
		if reported[name] {
			return
		}
		reported[name] = true
		if onCycle != nil {
			onCycle(name)
		}
	}
	return resolveRefs(value, reg, nil, report)
}

func resolveRefs(value string, reg *Registry, active map[string]bool, report func(string)) string {
	matches := varRefPattern.FindAllStringSubmatchIndex(value, -1)
	if len(matches) == 0 {
		return value
	}

	var out strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		name := value[m[2]:m[3]]
		out.WriteString(value[last:start])
		last = end

		if active[name] {
			report(name)
			out.WriteString(value[start:end])
			continue
		}

		decls, ok := reg.VariableSorted(name)
		if !ok {
			out.WriteString(value[start:end])
			continue
		}

		// Lowest specificity first, typically the :root declaration.
		branch := make(map[string]bool, len(active)+1)
		for k := range active {
			branch[k] = true
		}
		branch[name] = true
		out.WriteString(resolveRefs(decls[0].Value, reg, branch, report))
	}
	out.WriteString(value[last:])
	return out.String()
}

// SortedDeclarations exposes the specificity-sorted declaration list for a
// name so callers can pick root, light or dark variants themselves.
func SortedDeclarations(reg *Registry, name string) []Declaration {
	decls, ok := reg.VariableSorted(name)
	if !ok {
		return nil
	}
	return decls
}
