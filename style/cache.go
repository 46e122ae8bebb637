package style

import (
	"math"

	"github.com/gogpu/mapview/color"
	"github.com/gogpu/mapview/internal/cache"
	"github.com/gogpu/mapview/technique"
	"github.com/gogpu/mapview/theme"
)

// Key identifies a cached style by the theme style a technique was compiled
// from, so equal techniques of different decoded tiles share entries.
// Techniques without a style set are identified by their tile index.
type Key struct {
	DataSource string
	StyleSet   string
	StyleIndex int
	Zoom       int
}

// NewKey quantizes zoom to its floor.
func NewKey(dataSource string, tech *technique.Technique, zoom float64) Key {
	k := Key{DataSource: dataSource, StyleSet: tech.StyleSet, StyleIndex: tech.StyleIndex, Zoom: int(math.Floor(zoom))}
	if k.StyleSet == "" {
		k.StyleIndex = tech.Index
	}
	return k
}

// Cache resolves and memoizes text styles. Entries are never evicted; a
// Cache lives as long as the view that owns it.
type Cache struct {
	theme  *theme.Theme
	render *cache.Store[Key, *RenderStyle]
	layout *cache.Store[Key, *LayoutStyle]
	colors *ColorCache
}

// NewCache returns a cache resolving against th, which may be nil.
func NewCache(th *theme.Theme) *Cache {
	return &Cache{
		theme:  th,
		render: cache.NewStore[Key, *RenderStyle](),
		layout: cache.NewStore[Key, *LayoutStyle](),
		colors: NewColorCache(),
	}
}

// Colors returns the color cache used while resolving styles.
func (c *Cache) Colors() *ColorCache { return c.colors }

// RenderStyle returns the render style of tech at floor(zoom). Repeated
// calls with the same key return the same instance.
func (c *Cache) RenderStyle(dataSource string, tech *technique.Technique, zoom float64) *RenderStyle {
	key := NewKey(dataSource, tech, zoom)
	return c.render.GetOrCreate(key, func() *RenderStyle {
		return c.resolveRender(c.attrs(tech, key.Zoom))
	})
}

// LayoutStyle returns the layout style of tech at floor(zoom).
func (c *Cache) LayoutStyle(dataSource string, tech *technique.Technique, zoom float64) *LayoutStyle {
	key := NewKey(dataSource, tech, zoom)
	return c.layout.GetOrCreate(key, func() *LayoutStyle {
		return resolveLayout(c.attrs(tech, key.Zoom))
	})
}

// Stats reports render and layout cache statistics.
func (c *Cache) Stats() (render, layout cache.Stats) {
	return c.render.Stats(), c.layout.Stats()
}

// Clear drops every cached style and color.
func (c *Cache) Clear() {
	c.render.Clear()
	c.layout.Clear()
	c.colors.Clear()
}

// attrs merges the theme default text style, the named text style the
// technique selects with "style", and the technique's own attributes, in
// increasing precedence, evaluated at zoom level z.
func (c *Cache) attrs(tech *technique.Technique, z int) map[string]any {
	zoom := float64(z)
	out := make(map[string]any)
	if c.theme != nil {
		overlay(out, c.theme.DefaultTextStyle, zoom)
		if name := tech.StringAt("style", zoom, ""); name != "" {
			if ts, ok := c.theme.TextStyle(name); ok {
				overlay(out, ts, zoom)
			}
		}
	}
	for name := range tech.Attrs {
		out[name] = tech.At(name, zoom)
	}
	return out
}

func overlay(dst map[string]any, src theme.TextStyle, zoom float64) {
	for k, raw := range src {
		v, err := technique.ParseValue(raw)
		if err != nil {
			continue
		}
		dst[k] = v.At(zoom)
	}
}

func (c *Cache) resolveRender(a map[string]any) *RenderStyle {
	return &RenderStyle{
		FontName:          str(a, "fontName", DefaultFontName),
		FontSize:          num(a, "size", DefaultFontSize),
		FontStyle:         str(a, "fontStyle", "Regular"),
		FontVariant:       str(a, "fontVariant", "Regular"),
		Color:             c.color(a, "color", color.Black),
		Opacity:           clamp01(num(a, "opacity", 1)),
		BackgroundColor:   c.color(a, "backgroundColor", color.White),
		BackgroundSize:    num(a, "backgroundSize", DefaultBackground),
		BackgroundOpacity: clamp01(num(a, "backgroundOpacity", 0)),
		Rotation:          num(a, "rotation", 0),
	}
}

func resolveLayout(a map[string]any) *LayoutStyle {
	l := &LayoutStyle{
		HorizontalAlignment: AlignCenter,
		VerticalAlignment:   AlignCenter,
		Wrapping:            WrapWord,
		LineWidth:           num(a, "lineWidth", DefaultLineWidth),
		MaxLines:            int(num(a, "maxLines", DefaultMaxLines)),
		Tracking:            num(a, "tracking", 0),
		Leading:             num(a, "leading", 0),
	}
	if h, ok := alignmentNames[str(a, "hAlignment", "")]; ok {
		l.HorizontalAlignment = h
	}
	if v, ok := alignmentNames[str(a, "vAlignment", "")]; ok {
		l.VerticalAlignment = v
	}
	if w, ok := wrappingNames[str(a, "wrappingMode", "")]; ok {
		l.Wrapping = w
	}
	return l
}

func (c *Cache) color(a map[string]any, name string, def color.RGBA) color.RGBA {
	switch v := a[name].(type) {
	case color.RGBA:
		return v
	case string:
		if col, ok := c.colors.Color(v); ok {
			return col
		}
	}
	return def
}

func num(a map[string]any, name string, def float64) float64 {
	switch v := a[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

func str(a map[string]any, name, def string) string {
	if s, ok := a[name].(string); ok {
		return s
	}
	return def
}

func clamp01(v float64) float64 {
	return max(0, min(v, 1))
}
