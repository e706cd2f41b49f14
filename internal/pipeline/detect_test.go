package pipeline

import (
	"math"
	"strings"
	"testing"

	"github.com/pa-ulander/color-buddy/internal/color"
	"github.com/pa-ulander/color-buddy/internal/registry"
)

func rgbaClose(got color.Value, r, g, b, a float64) bool {
	const eps = 1.0 / 255.0
	return math.Abs(got.R-r) < eps && math.Abs(got.G-g) < eps &&
		math.Abs(got.B-b) < eps && math.Abs(got.A-a) < eps
}

func TestDetectMixedNotations(t *testing.T) {
	text := "a #f00 b\nc rgb(0, 128, 255) d\ne 200 50% 40% / 0.3 f"
	occs := Detect(text, registry.New(), nil)

	if len(occs) != 3 {
		t.Fatalf("got %d occurrences, want 3: %+v", len(occs), occs)
	}

	if !rgbaClose(occs[0].Parsed.Value, 1, 0, 0, 1) {
		t.Errorf("#f00 decoded as %+v", occs[0].Parsed.Value)
	}
	if !rgbaClose(occs[1].Parsed.Value, 0, 128.0/255.0, 1, 1) {
		t.Errorf("rgb(0, 128, 255) decoded as %+v", occs[1].Parsed.Value)
	}
	ref, err := color.Parse("hsl(200, 50%, 40%)")
	if err != nil {
		t.Fatal(err)
	}
	if !rgbaClose(occs[2].Parsed.Value, ref.Value.R, ref.Value.G, ref.Value.B, 0.3) {
		t.Errorf("compact notation decoded as %+v", occs[2].Parsed.Value)
	}

	// Ranges must match the literal text spans exactly.
	lines := strings.Split(text, "\n")
	for i, occ := range occs {
		line := lines[occ.Range.Start.Line]
		got := line[occ.Range.Start.Character:occ.Range.End.Character]
		if got != occ.Text {
			t.Errorf("occurrence %d: range text %q != recorded text %q", i, got, occ.Text)
		}
	}
	if occs[0].Text != "#f00" {
		t.Errorf("occurrence 0 text = %q", occs[0].Text)
	}
	if occs[1].Text != "rgb(0, 128, 255)" {
		t.Errorf("occurrence 1 text = %q", occs[1].Text)
	}
	if occs[2].Text != "200 50% 40% / 0.3" {
		t.Errorf("occurrence 2 text = %q", occs[2].Text)
	}
}

func TestDetectVarReference(t *testing.T) {
	reg := registry.New()
	reg.AddVariable("--accent", registry.Declaration{
		Value:   "#ff0000",
		Context: registry.Context{Kind: registry.KindRoot},
	})

	occs := Detect("color: var(--accent);", reg, nil)
	if len(occs) != 1 {
		t.Fatalf("got %d occurrences, want 1", len(occs))
	}
	if !occs[0].IsRef || occs[0].Name != "--accent" {
		t.Errorf("occurrence = %+v, want a reference to --accent", occs[0])
	}
	if !rgbaClose(occs[0].Parsed.Value, 1, 0, 0, 1) {
		t.Errorf("reference decoded as %+v", occs[0].Parsed.Value)
	}
	if occs[0].Text != "var(--accent)" {
		t.Errorf("reference text = %q", occs[0].Text)
	}
}

func TestDetectUnresolvableReferenceSkipped(t *testing.T) {
	occs := Detect("color: var(--missing);", registry.New(), nil)
	if len(occs) != 0 {
		t.Errorf("got %d occurrences for an unresolvable reference, want 0", len(occs))
	}
}

func TestDetectCyclicReferenceSkippedAndReported(t *testing.T) {
	reg := registry.New()
	reg.AddVariable("--a", registry.Declaration{Value: "var(--b)"})
	reg.AddVariable("--b", registry.Declaration{Value: "var(--a)"})

	var cycles []string
	occs := Detect("color: var(--a);", reg, func(name string) {
		cycles = append(cycles, name)
	})
	if len(occs) != 0 {
		t.Errorf("cyclic reference produced %d occurrences, want 0", len(occs))
	}
	if len(cycles) == 0 {
		t.Error("cycle was not reported")
	}
}

func TestDetectLiteralInsideFunctionNotDoubled(t *testing.T) {
	occs := Detect("hsl(200 50% 40%)", registry.New(), nil)
	if len(occs) != 1 {
		t.Fatalf("got %d occurrences, want 1 (interior must not re-match)", len(occs))
	}
	if occs[0].Text != "hsl(200 50% 40%)" {
		t.Errorf("occurrence text = %q", occs[0].Text)
	}
}

func TestDetectInvalidHexSkipped(t *testing.T) {
	occs := Detect("#12345 is not a color but #123456 is", registry.New(), nil)
	if len(occs) != 1 {
		t.Fatalf("got %d occurrences, want 1", len(occs))
	}
	if occs[0].Text != "#123456" {
		t.Errorf("occurrence text = %q", occs[0].Text)
	}
}

func TestDetectOrderedByPosition(t *testing.T) {
	occs := Detect("rgb(0,0,0) #fff", registry.New(), nil)
	if len(occs) != 2 {
		t.Fatalf("got %d occurrences, want 2", len(occs))
	}
	if occs[0].Range.Start.Character > occs[1].Range.Start.Character {
		t.Errorf("occurrences out of order: %+v", occs)
	}
}
