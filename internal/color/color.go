// Package color parses and formats CSS color notations. A color is held as
// normalized RGBA floats; every textual notation is derived from them.
package color

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrInvalidFormat is returned when input text is not a recognized color notation.
var ErrInvalidFormat = errors.New("invalid color format")

// Value represents an RGBA color. All four channels are in [0, 1].
type Value struct {
	R, G, B, A float64
}

// Format identifies a textual color notation.
type Format int

const (
	Hex Format = iota
	HexAlpha
	RGB
	RGBA
	HSL
	HSLA
	TailwindHSL
)

// formatNames is indexed by Format.
var formatNames = []string{"hex", "hexAlpha", "rgb", "rgba", "hsl", "hsla", "tailwindHsl"}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

// Formats lists every known format, in declaration order.
func Formats() []Format {
	return []Format{Hex, HexAlpha, RGB, RGBA, HSL, HSLA, TailwindHSL}
}

// Parsed is the result of parsing a color literal: the decoded value, the
// original text, and the notation priority used when re-serializing.
type Parsed struct {
	Value     Value
	Canonical string
	Priority  []Format
}

// fallbackOrder is the fixed order tried after the author's own notation.
var fallbackOrder = []Format{RGBA, HSLA, HexAlpha, RGB, HSL, Hex, TailwindHSL}

// PriorityFor returns the notation order for re-serializing a color whose
// original notation was f: f first, then the remaining formats in the fixed
// fallback order. The result always contains every format exactly once.
func PriorityFor(f Format) []Format {
	out := make([]Format, 0, len(fallbackOrder)+1)
	out = append(out, f)
	for _, fb := range fallbackOrder {
		if fb != f {
			out = append(out, fb)
		}
	}
	return out
}

// FormatAs renders v in the given notation. It returns false when the
// notation cannot represent v: the alpha-less notations (hex, rgb, hsl)
// refuse any translucent color so callers fall back to an alpha-capable one.
func FormatAs(v Value, f Format) (string, bool) {
	r := channel255(v.R)
	g := channel255(v.G)
	b := channel255(v.B)
	opaque := v.A >= 1

	switch f {
	case Hex:
		if !opaque {
			return "", false
		}
		return fmt.Sprintf("#%02x%02x%02x", r, g, b), true
	case HexAlpha:
		return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, channel255(v.A)), true
	case RGB:
		if !opaque {
			return "", false
		}
		return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b), true
	case RGBA:
		return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, formatAlpha(v.A)), true
	case HSL:
		if !opaque {
			return "", false
		}
		h, s, l := rgbToHSL(v.R, v.G, v.B)
		return fmt.Sprintf("hsl(%d, %d%%, %d%%)", roundHue(h), roundPct(s), roundPct(l)), true
	case HSLA:
		h, s, l := rgbToHSL(v.R, v.G, v.B)
		return fmt.Sprintf("hsla(%d, %d%%, %d%%, %s)", roundHue(h), roundPct(s), roundPct(l), formatAlpha(v.A)), true
	case TailwindHSL:
		h, s, l := rgbToHSL(v.R, v.G, v.B)
		if opaque {
			return fmt.Sprintf("%d %d%% %d%%", roundHue(h), roundPct(s), roundPct(l)), true
		}
		return fmt.Sprintf("%d %d%% %d%% / %s", roundHue(h), roundPct(s), roundPct(l), formatAlpha(v.A)), true
	}
	return "", false
}

// channel255 converts a [0,1] channel to its 0-255 integer, rounding half
// away from zero.
func channel255(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255.0))
}

// formatAlpha renders an alpha channel rounded to two decimal places, with
// trailing zeros dropped ("0.3", not "0.30").
func formatAlpha(a float64) string {
	rounded := math.Round(clamp01(a)*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

func roundHue(h float64) int {
	d := int(math.Round(h))
	if d >= 360 {
		d -= 360
	}
	return d
}

func roundPct(v float64) int {
	return int(math.Round(v * 100.0))
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
