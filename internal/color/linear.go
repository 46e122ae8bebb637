// Package color converts theme colors into the linear premultiplied form
// shaders consume.
package color

import (
	"math"

	mapcolor "github.com/gogpu/mapview/color"
)

// srgbToLinear maps an 8-bit sRGB channel to linear light.
var srgbToLinear [256]float32

func init() {
	for i := range srgbToLinear {
		srgbToLinear[i] = float32(decode(float64(i) / 255))
	}
}

func decode(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// ToLinear converts one sRGB channel in [0,1] to linear light. Values are
// quantized to 8 bits, which is the precision of theme colors.
func ToLinear(s float64) float32 {
	switch {
	case s <= 0:
		return 0
	case s >= 1:
		return 1
	}
	return srgbToLinear[int(s*255+0.5)]
}

// Linear returns c scaled by opacity as linear premultiplied RGBA.
func Linear(c mapcolor.RGBA, opacity float64) [4]float32 {
	a := float32(c.A * opacity)
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	return [4]float32{ToLinear(c.R) * a, ToLinear(c.G) * a, ToLinear(c.B) * a, a}
}
