package lsp

import (
	"testing"

	"github.com/pa-ulander/color-buddy/internal/registry"
)

func testRegistry() *registry.Registry {
	reg := registry.New()
	reg.AddVariable("--accent", registry.Declaration{Value: "#ff0000", Origin: "a.css"})
	reg.AddVariable("--accent-soft", registry.Declaration{Value: "var(--accent)", Origin: "a.css"})
	reg.AddVariable("--base", registry.Declaration{Value: "#336699", Origin: "a.css"})
	return reg
}

func TestVarPrefixAtCursor(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		character uint32
		want      string
		ok        bool
	}{
		{"inside var()", "color: var(--acc", 16, "--acc", true},
		{"bare dashes", "  --", 4, "--", true},
		{"bare name", "  --ba", 6, "--ba", true},
		{"not a variable", "color: red", 10, "", false},
		{"past end of line", "--a", 10, "--a", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := varPrefixAtCursor(tt.line, tt.character)
			if ok != tt.ok || got != tt.want {
				t.Errorf("varPrefixAtCursor(%q, %d) = %q, %v; want %q, %v",
					tt.line, tt.character, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCompleteFiltersByPrefix(t *testing.T) {
	reg := testRegistry()

	items := complete(reg, "color: var(--acc", 16)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2: %+v", len(items), items)
	}
	if items[0].Label != "--accent" || items[1].Label != "--accent-soft" {
		t.Errorf("labels = %q, %q", items[0].Label, items[1].Label)
	}
}

func TestCompleteResolvesDetail(t *testing.T) {
	reg := testRegistry()

	items := complete(reg, "--accent-s", 10)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Detail == nil || *items[0].Detail != "#ff0000" {
		t.Errorf("detail = %v, want the fully resolved value", items[0].Detail)
	}
}

func TestCompleteOutsideVariableContext(t *testing.T) {
	reg := testRegistry()
	if items := complete(reg, "color: red", 10); items != nil {
		t.Errorf("got %d items outside a variable context", len(items))
	}
}
