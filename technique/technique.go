// Package technique describes how decoded tile geometry is rendered.
//
// A Technique is the flattened form of a theme style: a Kind, a render
// order, the geometry kinds it draws and a table of attributes that may vary
// with the zoom level. Decoded tiles carry a list of techniques and tag their
// geometry groups with technique indices.
package technique

import (
	"fmt"
	"math"

	"github.com/gogpu/mapview/color"
	"github.com/gogpu/mapview/theme"
)

// Technique is a rendering recipe for a group of tile geometry.
//
// Techniques are shared by every tile decoded with them and must be treated
// as read-only once built.
type Technique struct {
	Name Kind
	// Index is the position in the decoded tile's technique list.
	Index int
	// StyleSet and StyleIndex locate the theme style the technique was
	// compiled from.
	StyleSet   string
	StyleIndex int

	RenderOrder  float64
	GeometryKind GeometryKindSet
	Attrs        map[string]Value
}

// Reserved keys of a technique description.
const (
	keyName        = "name"
	keyIndex       = "index"
	keyRenderOrder = "renderOrder"
	keyKind        = "kind"
	keyStyleSet    = "styleSet"
	keyStyleIndex  = "styleIndex"
)

// Parse builds a technique from its JSON description, as found in decoded
// tiles: {"name": "solid-line", "renderOrder": 10, "kind": "road", ...}.
// Keys other than the reserved ones become attributes. An unknown name
// yields KindUnknown rather than an error.
func Parse(m map[string]any) (*Technique, error) {
	name, _ := m[keyName].(string)
	t := &Technique{
		Name:         ParseKind(name),
		GeometryKind: ParseKindSet(m[keyKind]),
		Attrs:        make(map[string]Value, len(m)),
	}
	if f, ok := toFloat(m[keyIndex]); ok {
		t.Index = int(f)
	}
	if f, ok := toFloat(m[keyRenderOrder]); ok {
		t.RenderOrder = f
	}
	t.StyleSet, _ = m[keyStyleSet].(string)
	if f, ok := toFloat(m[keyStyleIndex]); ok {
		t.StyleIndex = int(f)
	}
	for k, raw := range m {
		switch k {
		case keyName, keyIndex, keyRenderOrder, keyKind, keyStyleSet, keyStyleIndex:
			continue
		}
		v, err := ParseValue(raw)
		if err != nil {
			return nil, fmt.Errorf("technique %q attribute %q: %w", name, k, err)
		}
		t.Attrs[k] = v
	}
	return t, nil
}

// FromStyle compiles a resolved theme style into a technique.
func FromStyle(s theme.Style, set string, index int) (*Technique, error) {
	m := make(map[string]any, len(s.Attr)+4)
	for k, v := range s.Attr {
		m[k] = v
	}
	m[keyName] = s.Technique
	m[keyStyleSet] = set
	m[keyStyleIndex] = float64(index)
	if s.RenderOrder != nil {
		m[keyRenderOrder] = *s.RenderOrder
	}
	t, err := Parse(m)
	if err != nil {
		return nil, err
	}
	t.Index = index
	return t, nil
}

// Compile turns a style set of a resolved theme into techniques numbered
// in style order. Styles that fail to compile are returned as errors
// alongside the techniques that succeeded; their slots hold nil.
func Compile(th *theme.Theme, set string) ([]*Technique, []error) {
	styles := th.Styles[set]
	techs := make([]*Technique, len(styles))
	var errs []error
	for i, s := range styles {
		t, err := FromStyle(s, set, i)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		techs[i] = t
	}
	return techs, errs
}

// Has reports whether the technique sets attribute name.
func (t *Technique) Has(name string) bool {
	_, ok := t.Attrs[name]
	return ok
}

// At evaluates attribute name at zoom, or returns nil.
func (t *Technique) At(name string, zoom float64) any {
	v, ok := t.Attrs[name]
	if !ok {
		return nil
	}
	return v.At(zoom)
}

// FloatAt evaluates a numeric attribute, falling back to def.
func (t *Technique) FloatAt(name string, zoom, def float64) float64 {
	f, ok := toFloat(t.At(name, zoom))
	if !ok || math.IsNaN(f) {
		return def
	}
	return f
}

// FloatAtOK evaluates a numeric attribute and reports whether it is set.
func (t *Technique) FloatAtOK(name string, zoom float64) (float64, bool) {
	return toFloat(t.At(name, zoom))
}

// BoolAt evaluates a boolean attribute, falling back to def.
func (t *Technique) BoolAt(name string, zoom float64, def bool) bool {
	switch v := t.At(name, zoom).(type) {
	case bool:
		return v
	case float64:
		return v != 0
	}
	return def
}

// StringAt evaluates a string attribute, falling back to def.
func (t *Technique) StringAt(name string, zoom float64, def string) string {
	if s, ok := t.At(name, zoom).(string); ok {
		return s
	}
	return def
}

// ColorAt evaluates a color attribute, falling back to def when it is unset
// or malformed.
func (t *Technique) ColorAt(name string, zoom float64, def color.RGBA) color.RGBA {
	if c, ok := toColor(t.At(name, zoom)); ok {
		return c
	}
	return def
}

// OpacityAt evaluates an opacity attribute clamped to [0, 1].
func (t *Technique) OpacityAt(name string, zoom, def float64) float64 {
	return clamp(t.FloatAt(name, zoom, def), 0, 1)
}

func (t *Technique) String() string {
	return fmt.Sprintf("%s#%d", t.Name, t.Index)
}
