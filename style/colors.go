package style

import (
	"github.com/gogpu/mapview/color"
	"github.com/gogpu/mapview/internal/cache"
)

// ColorCache memoizes parsed color strings. Malformed strings are cached
// as misses too.
type ColorCache struct {
	store *cache.Store[string, parsedColor]
}

type parsedColor struct {
	c  color.RGBA
	ok bool
}

// NewColorCache returns an empty color cache.
func NewColorCache() *ColorCache {
	return &ColorCache{store: cache.NewStore[string, parsedColor]()}
}

// Color parses s, reusing earlier results.
func (c *ColorCache) Color(s string) (color.RGBA, bool) {
	p := c.store.GetOrCreate(s, func() parsedColor {
		col, ok := color.Parse(s)
		return parsedColor{col, ok}
	})
	return p.c, p.ok
}

// Len returns the number of cached strings.
func (c *ColorCache) Len() int { return c.store.Len() }

// Clear empties the cache.
func (c *ColorCache) Clear() { c.store.Clear() }
