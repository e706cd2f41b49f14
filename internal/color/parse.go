package color

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Parse decodes a color literal in any recognized notation: hex (#rgb,
// #rgba, #rrggbb, #rrggbbaa), rgb()/rgba(), hsl()/hsla(), or the compact
// "H S% L%" notation with an optional "/ alpha" suffix. Surrounding
// whitespace is ignored; alpha defaults to fully opaque.
func Parse(raw string) (Parsed, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Parsed{}, fmt.Errorf("%w: empty input", ErrInvalidFormat)
	}

	var (
		v   Value
		f   Format
		err error
	)

	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(s, "#"):
		v, f, err = parseHex(s)
	case strings.HasPrefix(lower, "rgb"):
		v, f, err = parseRGBFunc(s)
	case strings.HasPrefix(lower, "hsl"):
		v, f, err = parseHSLFunc(s)
	default:
		v, f, err = parseCompactHSL(s)
	}
	if err != nil {
		return Parsed{}, err
	}

	return Parsed{Value: v, Canonical: s, Priority: PriorityFor(f)}, nil
}

// parseHex decodes #rgb, #rgba, #rrggbb and #rrggbbaa literals. Short forms
// duplicate each nibble, so "#f0a" is "#ff00aa".
func parseHex(s string) (Value, Format, error) {
	digits := strings.TrimPrefix(s, "#")

	nibble := func(c byte) (uint8, bool) {
		switch {
		case c >= '0' && c <= '9':
			return c - '0', true
		case c >= 'a' && c <= 'f':
			return c - 'a' + 10, true
		case c >= 'A' && c <= 'F':
			return c - 'A' + 10, true
		}
		return 0, false
	}

	bytes := make([]uint8, 0, 4)
	switch len(digits) {
	case 3, 4:
		for i := 0; i < len(digits); i++ {
			n, ok := nibble(digits[i])
			if !ok {
				return Value{}, 0, fmt.Errorf("%w: bad hex digit in %q", ErrInvalidFormat, s)
			}
			bytes = append(bytes, n<<4|n)
		}
	case 6, 8:
		for i := 0; i < len(digits); i += 2 {
			hi, ok1 := nibble(digits[i])
			lo, ok2 := nibble(digits[i+1])
			if !ok1 || !ok2 {
				return Value{}, 0, fmt.Errorf("%w: bad hex digit in %q", ErrInvalidFormat, s)
			}
			bytes = append(bytes, hi<<4|lo)
		}
	default:
		return Value{}, 0, fmt.Errorf("%w: hex color %q must have 3, 4, 6 or 8 digits", ErrInvalidFormat, s)
	}

	v := Value{
		R: float64(bytes[0]) / 255.0,
		G: float64(bytes[1]) / 255.0,
		B: float64(bytes[2]) / 255.0,
		A: 1,
	}
	f := Hex
	if len(bytes) == 4 {
		v.A = float64(bytes[3]) / 255.0
		f = HexAlpha
	}
	return v, f, nil
}

// parseRGBFunc decodes rgb() and rgba() literals. Channels may be separated
// by commas or spaces, given as 0-255 numbers or percentages, and alpha may
// appear as a fourth channel or after a slash.
func parseRGBFunc(s string) (Value, Format, error) {
	inner, hadAlphaArg, alpha, err := splitFuncArgs(s, "rgb")
	if err != nil {
		return Value{}, 0, err
	}

	if len(inner) != 3 {
		return Value{}, 0, fmt.Errorf("%w: rgb() needs 3 channels, got %d", ErrInvalidFormat, len(inner))
	}

	var ch [3]float64
	for i, field := range inner {
		ch[i], err = parseRGBChannel(field)
		if err != nil {
			return Value{}, 0, err
		}
	}

	f := RGB
	if hadAlphaArg || strings.HasPrefix(strings.ToLower(s), "rgba") {
		f = RGBA
	}
	return Value{R: ch[0], G: ch[1], B: ch[2], A: alpha}, f, nil
}

// parseHSLFunc decodes hsl() and hsla() literals. Hue wraps modulo 360;
// saturation and lightness clamp to [0, 100].
func parseHSLFunc(s string) (Value, Format, error) {
	inner, hadAlphaArg, alpha, err := splitFuncArgs(s, "hsl")
	if err != nil {
		return Value{}, 0, err
	}

	if len(inner) != 3 {
		return Value{}, 0, fmt.Errorf("%w: hsl() needs 3 channels, got %d", ErrInvalidFormat, len(inner))
	}

	v, err := hslChannels(inner[0], inner[1], inner[2], alpha)
	if err != nil {
		return Value{}, 0, err
	}

	f := HSL
	if hadAlphaArg || strings.HasPrefix(strings.ToLower(s), "hsla") {
		f = HSLA
	}
	return v, f, nil
}

// parseCompactHSL decodes the bare "H S% L%" notation used by Tailwind theme
// variables, with an optional "/ alpha" suffix. The percent signs on
// saturation and lightness are mandatory; without them the text is not
// treated as a color.
func parseCompactHSL(s string) (Value, Format, error) {
	body := s
	alphaStr := ""
	if idx := strings.Index(s, "/"); idx >= 0 {
		body = s[:idx]
		alphaStr = strings.TrimSpace(s[idx+1:])
	}

	fields := strings.Fields(body)
	if len(fields) != 3 {
		return Value{}, 0, fmt.Errorf("%w: %q is not an H S%% L%% triple", ErrInvalidFormat, s)
	}
	if !strings.HasSuffix(fields[1], "%") || !strings.HasSuffix(fields[2], "%") {
		return Value{}, 0, fmt.Errorf("%w: %q is missing %% on saturation or lightness", ErrInvalidFormat, s)
	}

	alpha, err := parseAlpha(alphaStr)
	if err != nil {
		return Value{}, 0, err
	}

	v, err := hslChannels(fields[0], fields[1], fields[2], alpha)
	if err != nil {
		return Value{}, 0, err
	}
	return v, TailwindHSL, nil
}

// splitFuncArgs strips "name(" and ")" from a functional notation and splits
// the interior on commas and whitespace. A trailing "/ alpha" or a fourth
// comma-separated argument is returned as the alpha channel.
func splitFuncArgs(s, name string) (fields []string, hadAlphaArg bool, alpha float64, err error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return nil, false, 0, fmt.Errorf("%w: malformed %s() literal %q", ErrInvalidFormat, name, s)
	}
	inner := s[open+1 : len(s)-1]

	alphaStr := ""
	if idx := strings.Index(inner, "/"); idx >= 0 {
		alphaStr = strings.TrimSpace(inner[idx+1:])
		inner = inner[:idx]
		hadAlphaArg = true
	}

	fields = strings.FieldsFunc(inner, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	if len(fields) == 4 && alphaStr == "" {
		alphaStr = fields[3]
		fields = fields[:3]
		hadAlphaArg = true
	}

	alpha, err = parseAlpha(alphaStr)
	if err != nil {
		return nil, false, 0, err
	}
	return fields, hadAlphaArg, alpha, nil
}

// parseRGBChannel converts a single rgb() channel to [0, 1]. Percentages
// scale over 100, plain numbers over 255; both clamp before rounding.
func parseRGBChannel(field string) (float64, error) {
	if pct, ok := strings.CutSuffix(field, "%"); ok {
		n, err := strconv.ParseFloat(pct, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: bad channel %q", ErrInvalidFormat, field)
		}
		n = clampRange(n, 0, 100)
		return float64(int(n*255.0/100.0+0.5)) / 255.0, nil
	}

	n, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad channel %q", ErrInvalidFormat, field)
	}
	n = clampRange(n, 0, 255)
	return float64(int(n+0.5)) / 255.0, nil
}

// hslChannels assembles a Value from textual hue/saturation/lightness fields.
// The percent sign on saturation and lightness is optional here; functional
// notation callers allow bare numbers, compact callers validate it upfront.
func hslChannels(hField, sField, lField string, alpha float64) (Value, error) {
	h, err := strconv.ParseFloat(strings.TrimSuffix(hField, "deg"), 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: bad hue %q", ErrInvalidFormat, hField)
	}
	sat, err := strconv.ParseFloat(strings.TrimSuffix(sField, "%"), 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: bad saturation %q", ErrInvalidFormat, sField)
	}
	light, err := strconv.ParseFloat(strings.TrimSuffix(lField, "%"), 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: bad lightness %q", ErrInvalidFormat, lField)
	}

	h = wrapHue(h)
	sat = clampRange(sat, 0, 100) / 100.0
	light = clampRange(light, 0, 100) / 100.0

	r, g, b := hslToRGB(h, sat, light)
	return Value{R: r, G: g, B: b, A: alpha}, nil
}

// parseAlpha converts an alpha field to [0, 1]. An empty field means fully
// opaque; a percentage scales over 100.
func parseAlpha(s string) (float64, error) {
	if s == "" {
		return 1, nil
	}
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		n, err := strconv.ParseFloat(pct, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: bad alpha %q", ErrInvalidFormat, s)
		}
		return clamp01(n / 100.0), nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad alpha %q", ErrInvalidFormat, s)
	}
	return clamp01(n), nil
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
