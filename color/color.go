// Package color parses and interpolates the colors used by themes and
// techniques.
//
// Theme documents spell colors as CSS strings ("#f80", "#ff8800cc",
// "rgb(255, 136, 0)", "rgba(255, 136, 0, 0.5)", "hsl(32, 100%, 50%)") or as
// a small set of names. Parse turns them into RGBA with float components.
package color

import (
	"fmt"
	stdcolor "image/color"
	"math"
	"strconv"
	"strings"
)

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1]. Components are not premultiplied.
type RGBA struct {
	R, G, B, A float64
}

// RGBA implements the standard color.Color interface.
func (c RGBA) RGBA() (r, g, b, a uint32) {
	p := c.Premultiply()
	return uint32(clamp01(p.R) * 0xffff), uint32(clamp01(p.G) * 0xffff),
		uint32(clamp01(p.B) * 0xffff), uint32(clamp01(p.A) * 0xffff)
}

// NRGBA converts c to an 8-bit non-premultiplied color.
func (c RGBA) NRGBA() stdcolor.NRGBA {
	return stdcolor.NRGBA{
		R: uint8(math.Round(clamp01(c.R) * 255)),
		G: uint8(math.Round(clamp01(c.G) * 255)),
		B: uint8(math.Round(clamp01(c.B) * 255)),
		A: uint8(math.Round(clamp01(c.A) * 255)),
	}
}

// String formats c as "#rrggbb", or "#rrggbbaa" when it is not opaque.
func (c RGBA) String() string {
	n := c.NRGBA()
	if n.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// WithAlpha returns c with its alpha replaced.
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = a
	return c
}

// Premultiply returns a premultiplied color.
func (c RGBA) Premultiply() RGBA {
	return RGBA{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

// Lerp performs linear interpolation between two colors.
func (c RGBA) Lerp(other RGBA, t float64) RGBA {
	return RGBA{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// Common colors
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Red         = RGB(1, 0, 0)
	Green       = RGB(0, 1, 0)
	Blue        = RGB(0, 0, 1)
	Yellow      = RGB(1, 1, 0)
	Cyan        = RGB(0, 1, 1)
	Magenta     = RGB(1, 0, 1)
	Gray        = RGB(0.5, 0.5, 0.5)
	Transparent = RGBA{}
)

var names = map[string]RGBA{
	"black":       Black,
	"white":       White,
	"red":         Red,
	"green":       RGB(0, 128.0/255, 0),
	"lime":        Green,
	"blue":        Blue,
	"yellow":      Yellow,
	"cyan":        Cyan,
	"aqua":        Cyan,
	"magenta":     Magenta,
	"fuchsia":     Magenta,
	"gray":        Gray,
	"grey":        Gray,
	"orange":      RGB(1, 165.0/255, 0),
	"transparent": Transparent,
}

// Hex creates a color from a hex string.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", with or without '#'.
// Malformed input yields opaque black; use Parse to detect errors.
func Hex(hex string) RGBA {
	c, ok := parseHexColor(hex)
	if !ok {
		return Black
	}
	return c
}

// Parse parses a CSS-style color string.
func Parse(s string) (RGBA, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RGBA{}, false
	}
	if s[0] == '#' {
		return parseHexColor(s)
	}
	lower := strings.ToLower(s)
	if c, ok := names[lower]; ok {
		return c, true
	}
	open := strings.IndexByte(lower, '(')
	if open < 0 || !strings.HasSuffix(lower, ")") {
		return RGBA{}, false
	}
	fn := lower[:open]
	args := strings.Split(lower[open+1:len(lower)-1], ",")
	switch fn {
	case "rgb", "rgba":
		return parseRGBFunc(args)
	case "hsl", "hsla":
		return parseHSLFunc(args)
	}
	return RGBA{}, false
}

// MustParse is like Parse but panics on malformed input.
// Intended for package-level defaults.
func MustParse(s string) RGBA {
	c, ok := Parse(s)
	if !ok {
		panic("color: malformed color " + strconv.Quote(s))
	}
	return c
}

func parseHexColor(hex string) (RGBA, bool) {
	hex = strings.TrimPrefix(hex, "#")

	var r, g, b uint32
	a := uint32(255)
	ok := true

	switch len(hex) {
	case 3, 4:
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) && parseHex(hex[2:3], &b)
		r, g, b = r*17, g*17, b*17
		if len(hex) == 4 {
			ok = ok && parseHex(hex[3:4], &a)
			a *= 17
		}
	case 6, 8:
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) && parseHex(hex[4:6], &b)
		if len(hex) == 8 {
			ok = ok && parseHex(hex[6:8], &a)
		}
	default:
		return RGBA{}, false
	}
	if !ok {
		return RGBA{}, false
	}

	return RGBA{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}, true
}

func parseHex(s string, val *uint32) bool {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return false
		}
	}
	return true
}

func parseRGBFunc(args []string) (RGBA, bool) {
	if len(args) != 3 && len(args) != 4 {
		return RGBA{}, false
	}
	var comps [3]float64
	for i := range comps {
		v, ok := parseComponent(args[i], 255)
		if !ok {
			return RGBA{}, false
		}
		comps[i] = v
	}
	a := 1.0
	if len(args) == 4 {
		v, ok := parseComponent(args[3], 1)
		if !ok {
			return RGBA{}, false
		}
		a = v
	}
	return RGBA{R: comps[0], G: comps[1], B: comps[2], A: a}, true
}

func parseHSLFunc(args []string) (RGBA, bool) {
	if len(args) != 3 && len(args) != 4 {
		return RGBA{}, false
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
	if err != nil {
		return RGBA{}, false
	}
	s, ok1 := parseComponent(args[1], 100)
	l, ok2 := parseComponent(args[2], 100)
	if !ok1 || !ok2 {
		return RGBA{}, false
	}
	c := HSL(h, s, l)
	if len(args) == 4 {
		a, ok := parseComponent(args[3], 1)
		if !ok {
			return RGBA{}, false
		}
		c.A = a
	}
	return c, true
}

// parseComponent parses a number or percentage and normalizes it to [0, 1]
// using scale for plain numbers.
func parseComponent(s string, scale float64) (float64, bool) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, false
		}
		return clamp01(v / 100), true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return clamp01(v / scale), true
}

// HSL creates a color from HSL values.
// h is hue [0, 360), s is saturation [0, 1], l is lightness [0, 1].
func HSL(h, s, l float64) RGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	h /= 360

	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h*6, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 1.0/6:
		r, g, b = c, x, 0
	case h < 2.0/6:
		r, g, b = x, c, 0
	case h < 3.0/6:
		r, g, b = 0, c, x
	case h < 4.0/6:
		r, g, b = 0, x, c
	case h < 5.0/6:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return RGB(r+m, g+m, b+m)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
