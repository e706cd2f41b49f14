// Package registry stores CSS declarations produced by a scanner and
// resolves var() references through them. Declarations keep their insertion
// order; specificity ordering is a derived view, never a mutation.
package registry

import (
	"sort"
	"sync"
)

// ContextKind classifies the selector context a declaration appears in.
type ContextKind int

const (
	KindRoot ContextKind = iota
	KindClass
	KindMedia
	KindOther
)

func (k ContextKind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindClass:
		return "class"
	case KindMedia:
		return "media"
	default:
		return "other"
	}
}

// ThemeHint is the light/dark classification inferred from selector text.
type ThemeHint int

const (
	ThemeNone ThemeHint = iota
	ThemeLight
	ThemeDark
)

func (h ThemeHint) String() string {
	switch h {
	case ThemeLight:
		return "light"
	case ThemeDark:
		return "dark"
	default:
		return "none"
	}
}

// Context describes where a declaration was found and how strongly it binds.
type Context struct {
	Kind        ContextKind
	Theme       ThemeHint
	MediaQuery  string
	Specificity int
}

// Declaration is a recorded occurrence of a custom property or class color
// property in source text.
type Declaration struct {
	Name     string
	Value    string
	Origin   string
	Line     int
	Selector string
	Context  Context
}

// Registry indexes declarations by custom-property name and by class name.
// Each name maps to its declarations in the order they were added.
type Registry struct {
	mu      sync.RWMutex
	vars    map[string][]Declaration
	classes map[string][]Declaration
}

func New() *Registry {
	return &Registry{
		vars:    make(map[string][]Declaration),
		classes: make(map[string][]Declaration),
	}
}

// AddVariable appends a custom-property declaration. Existing declarations
// for the same name are kept; nothing is ever replaced.
func (r *Registry) AddVariable(name string, d Declaration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vars[name] = append(r.vars[name], d)
}

// AddClass appends a class-scoped color property declaration.
func (r *Registry) AddClass(name string, d Declaration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes[name] = append(r.classes[name], d)
}

// Variable returns the declarations for a custom property in insertion order.
func (r *Registry) Variable(name string) ([]Declaration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	decls, ok := r.vars[name]
	if !ok {
		return nil, false
	}
	out := make([]Declaration, len(decls))
	copy(out, decls)
	return out, true
}

// Class returns the declarations for a class name in insertion order.
func (r *Registry) Class(name string) ([]Declaration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	decls, ok := r.classes[name]
	if !ok {
		return nil, false
	}
	out := make([]Declaration, len(decls))
	copy(out, decls)
	return out, true
}

// VariableSorted returns the declarations for a custom property sorted by
// ascending specificity. The sort is stable, so declarations with equal
// specificity keep their insertion order. Storage is not mutated.
func (r *Registry) VariableSorted(name string) ([]Declaration, bool) {
	decls, ok := r.Variable(name)
	if !ok {
		return nil, false
	}
	sortBySpecificity(decls)
	return decls, true
}

// ClassSorted is VariableSorted for class-scoped declarations.
func (r *Registry) ClassSorted(name string) ([]Declaration, bool) {
	decls, ok := r.Class(name)
	if !ok {
		return nil, false
	}
	sortBySpecificity(decls)
	return decls, true
}

func sortBySpecificity(decls []Declaration) {
	sort.SliceStable(decls, func(i, j int) bool {
		return decls[i].Context.Specificity < decls[j].Context.Specificity
	})
}

// HasVariable reports whether any declaration exists for the custom property.
func (r *Registry) HasVariable(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.vars[name]) > 0
}

// HasClass reports whether any declaration exists for the class name.
func (r *Registry) HasClass(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.classes[name]) > 0
}

// VariableCount returns the number of distinct custom-property names.
func (r *Registry) VariableCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.vars)
}

// ClassCount returns the number of distinct class names.
func (r *Registry) ClassCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.classes)
}

// VariableNames returns all custom-property names, sorted for stable output.
func (r *Registry) VariableNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.vars)
}

// ClassNames returns all class names, sorted for stable output.
func (r *Registry) ClassNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.classes)
}

func sortedKeys(m map[string][]Declaration) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RemoveOrigin drops every declaration recorded from the given origin, in
// both tables. Remaining declarations keep their relative order; a name
// whose declarations are all dropped disappears entirely.
func (r *Registry) RemoveOrigin(origin string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removeOrigin(r.vars, origin)
	removeOrigin(r.classes, origin)
}

func removeOrigin(m map[string][]Declaration, origin string) {
	for name, decls := range m {
		kept := decls[:0]
		for _, d := range decls {
			if d.Origin != origin {
				kept = append(kept, d)
			}
		}
		if len(kept) == 0 {
			delete(m, name)
		} else {
			m[name] = kept
		}
	}
}

// Clear removes every declaration from both tables.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vars = make(map[string][]Declaration)
	r.classes = make(map[string][]Declaration)
}
