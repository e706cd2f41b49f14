package color

import (
	"math"
	"testing"
)

const eps = 1.0 / 255.0

func valuesClose(a, b Value) bool {
	return math.Abs(a.R-b.R) < eps &&
		math.Abs(a.G-b.G) < eps &&
		math.Abs(a.B-b.B) < eps &&
		math.Abs(a.A-b.A) < eps
}

func TestParseHexLengths(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Value
	}{
		{"short", "#f00", Value{1, 0, 0, 1}},
		{"short alpha", "#f008", Value{1, 0, 0, float64(0x88) / 255.0}},
		{"long", "#ff0000", Value{1, 0, 0, 1}},
		{"long alpha", "#ff000080", Value{1, 0, 0, float64(0x80) / 255.0}},
		{"uppercase", "#FF0000", Value{1, 0, 0, 1}},
		{"mixed case", "#Ff0000", Value{1, 0, 0, 1}},
		{"nibble duplication", "#fa3", Value{1, float64(0xaa) / 255.0, float64(0x33) / 255.0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if !valuesClose(got.Value, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got.Value, tt.want)
			}
		})
	}
}

func TestParseHexEquivalence(t *testing.T) {
	short, err := Parse("#f00")
	if err != nil {
		t.Fatal(err)
	}
	long, err := Parse("#ff0000")
	if err != nil {
		t.Fatal(err)
	}
	rgba, err := Parse("rgba(255, 0, 0, 1)")
	if err != nil {
		t.Fatal(err)
	}
	if short.Value != long.Value {
		t.Errorf("#f00 = %+v, #ff0000 = %+v", short.Value, long.Value)
	}
	if short.Value != rgba.Value {
		t.Errorf("#f00 = %+v, rgba(255,0,0,1) = %+v", short.Value, rgba.Value)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"bad hex length", "#ff00f"},
		{"bad hex digit", "#zzzzzz"},
		{"bare word", "tomato"},
		{"rgb missing channel", "rgb(1, 2)"},
		{"compact without percent", "200 50 40"},
		{"unclosed function", "rgb(1, 2, 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.input); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tt.input)
			}
		})
	}
}

func TestParseRGBVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Value
	}{
		{"commas", "rgb(0, 128, 255)", Value{0, 128.0 / 255.0, 1, 1}},
		{"spaces", "rgb(0 128 255)", Value{0, 128.0 / 255.0, 1, 1}},
		{"slash alpha", "rgb(0 128 255 / 0.5)", Value{0, 128.0 / 255.0, 1, 0.5}},
		{"fourth arg alpha", "rgba(255, 0, 0, 0.5)", Value{1, 0, 0, 0.5}},
		{"percent channels", "rgb(100%, 0%, 50%)", Value{1, 0, 128.0 / 255.0, 1}},
		{"percent alpha", "rgba(255, 0, 0, 50%)", Value{1, 0, 0, 0.5}},
		{"clamped channel", "rgb(300, -5, 0)", Value{1, 0, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if !valuesClose(got.Value, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got.Value, tt.want)
			}
		})
	}
}

func TestParseHSLHueWraps(t *testing.T) {
	a, err := Parse("hsl(0,100%,50%)")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse("hsl(360,100%,50%)")
	if err != nil {
		t.Fatal(err)
	}
	if a.Value != b.Value {
		t.Errorf("hsl(0) = %+v, hsl(360) = %+v", a.Value, b.Value)
	}

	c, err := Parse("hsl(-120, 100%, 50%)")
	if err != nil {
		t.Fatal(err)
	}
	d, err := Parse("hsl(240, 100%, 50%)")
	if err != nil {
		t.Fatal(err)
	}
	if !valuesClose(c.Value, d.Value) {
		t.Errorf("hsl(-120) = %+v, hsl(240) = %+v", c.Value, d.Value)
	}
}

func TestParseHSLAchromatic(t *testing.T) {
	got, err := Parse("hsl(123, 0%, 50%)")
	if err != nil {
		t.Fatal(err)
	}
	want := Value{0.5, 0.5, 0.5, 1}
	if !valuesClose(got.Value, want) {
		t.Errorf("achromatic hsl = %+v, want %+v", got.Value, want)
	}
}

func TestParseCompactHSL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		alpha float64
	}{
		{"opaque", "200 50% 40%", 1},
		{"fraction alpha", "200 50% 40% / 0.3", 0.3},
		{"percent alpha", "200 50% 40% / 30%", 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if math.Abs(got.Value.A-tt.alpha) > 0.001 {
				t.Errorf("Parse(%q) alpha = %v, want %v", tt.input, got.Value.A, tt.alpha)
			}
			ref, err := Parse("hsl(200, 50%, 40%)")
			if err != nil {
				t.Fatal(err)
			}
			if !valuesClose(Value{got.Value.R, got.Value.G, got.Value.B, 1},
				Value{ref.Value.R, ref.Value.G, ref.Value.B, 1}) {
				t.Errorf("Parse(%q) channels = %+v, want %+v", tt.input, got.Value, ref.Value)
			}
		})
	}
}

func TestParseDetectedFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"#f00", Hex},
		{"#ff0000", Hex},
		{"#ff000080", HexAlpha},
		{"rgb(1, 2, 3)", RGB},
		{"rgba(1, 2, 3, 0.5)", RGBA},
		{"rgb(1 2 3 / 0.5)", RGBA},
		{"hsl(0, 100%, 50%)", HSL},
		{"hsla(0, 100%, 50%, 0.5)", HSLA},
		{"200 50% 40%", TailwindHSL},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if got.Priority[0] != tt.want {
				t.Errorf("Parse(%q) detected %v, want %v", tt.input, got.Priority[0], tt.want)
			}
		})
	}
}

func TestPriorityFor(t *testing.T) {
	for _, f := range Formats() {
		t.Run(f.String(), func(t *testing.T) {
			prio := PriorityFor(f)
			if len(prio) != 7 {
				t.Fatalf("PriorityFor(%v) has %d entries, want 7", f, len(prio))
			}
			if prio[0] != f {
				t.Errorf("PriorityFor(%v)[0] = %v", f, prio[0])
			}
			seen := make(map[Format]bool, len(prio))
			for _, p := range prio {
				if seen[p] {
					t.Errorf("PriorityFor(%v) contains %v twice", f, p)
				}
				seen[p] = true
			}
		})
	}
}

func TestFormatAs(t *testing.T) {
	opaqueRed := Value{1, 0, 0, 1}
	translucentRed := Value{1, 0, 0, 0.5}

	tests := []struct {
		name   string
		value  Value
		format Format
		want   string
		ok     bool
	}{
		{"opaque hex", opaqueRed, Hex, "#ff0000", true},
		{"translucent hex refused", translucentRed, Hex, "", false},
		{"translucent rgb refused", translucentRed, RGB, "", false},
		{"translucent hsl refused", translucentRed, HSL, "", false},
		{"hex alpha", translucentRed, HexAlpha, "#ff000080", true},
		{"rgb", opaqueRed, RGB, "rgb(255, 0, 0)", true},
		{"rgba", translucentRed, RGBA, "rgba(255, 0, 0, 0.5)", true},
		{"hsl", opaqueRed, HSL, "hsl(0, 100%, 50%)", true},
		{"hsla", translucentRed, HSLA, "hsla(0, 100%, 50%, 0.5)", true},
		{"tailwind opaque", opaqueRed, TailwindHSL, "0 100% 50%", true},
		{"tailwind translucent", translucentRed, TailwindHSL, "0 100% 50% / 0.5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FormatAs(tt.value, tt.format)
			if ok != tt.ok {
				t.Fatalf("FormatAs(%+v, %v) ok = %v, want %v", tt.value, tt.format, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("FormatAs(%+v, %v) = %q, want %q", tt.value, tt.format, got, tt.want)
			}
		})
	}
}

func TestFormatAlphaRoundTrip(t *testing.T) {
	translucent := Value{1, 0, 0, 0.5}
	s, ok := FormatAs(translucent, HexAlpha)
	if !ok {
		t.Fatal("FormatAs hexAlpha refused a translucent color")
	}
	back, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", s, err)
	}
	if math.Abs(back.Value.A-0.5) > eps {
		t.Errorf("round-tripped alpha = %v, want 0.5 within 1/255", back.Value.A)
	}
}

func TestFormatAlphaTwoDecimals(t *testing.T) {
	v := Value{1, 0, 0, 0.256}
	got, ok := FormatAs(v, RGBA)
	if !ok {
		t.Fatal("FormatAs rgba refused")
	}
	want := "rgba(255, 0, 0, 0.26)"
	if got != want {
		t.Errorf("FormatAs = %q, want %q", got, want)
	}
}
