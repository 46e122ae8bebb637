package technique

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/constraints"

	"github.com/gogpu/mapview/color"
)

// InterpolationMode selects how an interpolated property blends between
// its zoom stops.
type InterpolationMode uint8

const (
	// Discrete holds each stop's value until the next stop.
	Discrete InterpolationMode = iota
	// Linear blends linearly between stops.
	Linear
	// Exponential blends with a curve controlled by the exponent.
	Exponential
)

var interpolationNames = map[string]InterpolationMode{
	"Discrete":    Discrete,
	"Step":        Discrete,
	"Linear":      Linear,
	"Exponential": Exponential,
}

func (m InterpolationMode) String() string {
	switch m {
	case Linear:
		return "Linear"
	case Exponential:
		return "Exponential"
	default:
		return "Discrete"
	}
}

// Interpolated is a property whose value depends on the zoom level. Values
// are numbers, color strings or, for discrete properties, anything.
type Interpolated struct {
	Mode       InterpolationMode
	ZoomLevels []float64
	Values     []any
	// Exponent is used by Exponential; 0 means 2.
	Exponent float64
}

// At evaluates the property at zoom. Zoom levels outside the table clamp to
// the first or last value.
func (p *Interpolated) At(zoom float64) any {
	n := min(len(p.ZoomLevels), len(p.Values))
	if n == 0 {
		return nil
	}
	if zoom <= p.ZoomLevels[0] {
		return p.Values[0]
	}
	if zoom >= p.ZoomLevels[n-1] {
		return p.Values[n-1]
	}
	// First stop strictly above zoom; i is the stop at or below it.
	j := sort.Search(n, func(k int) bool { return p.ZoomLevels[k] > zoom })
	i := j - 1
	if p.Mode == Discrete {
		return p.Values[i]
	}

	z0, z1 := p.ZoomLevels[i], p.ZoomLevels[j]
	t := (zoom - z0) / (z1 - z0)
	if p.Mode == Exponential {
		base := p.Exponent
		if base == 0 {
			base = 2
		}
		if base != 1 {
			t = (math.Pow(base, zoom-z0) - 1) / (math.Pow(base, z1-z0) - 1)
		}
	}
	return blend(p.Values[i], p.Values[j], t)
}

// blend interpolates two stop values. Values that cannot be blended step.
func blend(a, b any, t float64) any {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return lerp(fa, fb, t)
		}
	}
	if ca, ok := toColor(a); ok {
		if cb, ok := toColor(b); ok {
			return ca.Lerp(cb, t)
		}
	}
	return a
}

func lerp[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	return max(lo, min(v, hi))
}

// Value is a technique attribute: a constant or a zoom-interpolated
// property.
type Value struct {
	constant any
	interp   *Interpolated
}

// Constant returns a value that does not depend on zoom.
func Constant(v any) Value { return Value{constant: v} }

// Interpolate returns a zoom-dependent value.
func Interpolate(p *Interpolated) Value { return Value{interp: p} }

// IsInterpolated reports whether the value depends on the zoom level.
func (v Value) IsInterpolated() bool { return v.interp != nil }

// At evaluates the value at zoom.
func (v Value) At(zoom float64) any {
	if v.interp != nil {
		return v.interp.At(zoom)
	}
	return v.constant
}

// ParseValue converts a decoded JSON attribute into a Value. Objects with an
// "interpolation" key become interpolated properties.
func ParseValue(raw any) (Value, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return Constant(raw), nil
	}
	modeName, ok := m["interpolation"].(string)
	if !ok {
		return Constant(raw), nil
	}
	mode, ok := interpolationNames[modeName]
	if !ok {
		return Value{}, fmt.Errorf("technique: unknown interpolation %q", modeName)
	}
	zooms, ok := m["zoomLevels"].([]any)
	if !ok {
		return Value{}, fmt.Errorf("technique: interpolated property without zoomLevels")
	}
	values, ok := m["values"].([]any)
	if !ok || len(values) != len(zooms) {
		return Value{}, fmt.Errorf("technique: interpolated property needs one value per zoom level")
	}
	p := &Interpolated{Mode: mode, Values: values, ZoomLevels: make([]float64, len(zooms))}
	for i, z := range zooms {
		f, ok := toFloat(z)
		if !ok {
			return Value{}, fmt.Errorf("technique: zoom level %v is not a number", z)
		}
		if i > 0 && f < p.ZoomLevels[i-1] {
			return Value{}, fmt.Errorf("technique: zoom levels must ascend")
		}
		p.ZoomLevels[i] = f
	}
	if e, ok := toFloat(m["exponent"]); ok {
		p.Exponent = e
	}
	return Interpolate(p), nil
}

func toFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func toColor(v any) (color.RGBA, bool) {
	switch v := v.(type) {
	case color.RGBA:
		return v, true
	case string:
		return color.Parse(v)
	}
	return color.RGBA{}, false
}
