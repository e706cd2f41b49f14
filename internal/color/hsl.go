package color

import "math"

// hslToRGB converts HSL components to RGB. Hue is in degrees [0, 360),
// saturation and lightness are in [0, 1]. When saturation is zero the color
// is achromatic and all channels equal the lightness.
func hslToRGB(h, s, l float64) (r, g, b float64) {
	if s == 0 {
		return l, l, l
	}

	var q float64
	if l < 0.5 {
		q = l * (1.0 + s)
	} else {
		q = l + s - l*s
	}
	p := 2.0*l - q

	hn := h / 360.0
	r = hueToRGB(p, q, hn+1.0/3.0)
	g = hueToRGB(p, q, hn)
	b = hueToRGB(p, q, hn-1.0/3.0)
	return r, g, b
}

// rgbToHSL converts RGB channels in [0, 1] to HSL: hue in degrees [0, 360),
// saturation and lightness in [0, 1].
func rgbToHSL(r, g, b float64) (h, s, l float64) {
	min := math.Min(math.Min(r, g), b)
	max := math.Max(math.Max(r, g), b)
	l = (max + min) / 2.0

	if max == min {
		return 0, 0, l // Achromatic
	}

	d := max - min
	if l > 0.5 {
		s = d / (2.0 - max - min)
	} else {
		s = d / (max + min)
	}

	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6.0
		}
	case g:
		h = (b-r)/d + 2.0
	case b:
		h = (r-g)/d + 4.0
	}
	h *= 60.0

	return h, s, l
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1.0
	}
	if t > 1 {
		t -= 1.0
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6.0*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6.0
	}
	return p
}

// wrapHue folds an arbitrary hue in degrees into [0, 360).
func wrapHue(h float64) float64 {
	h = math.Mod(h, 360.0)
	if h < 0 {
		h += 360.0
	}
	return h
}
