// Package tile holds the renderable state of one map tile: the objects and
// labels built from its decoded data and the bookkeeping that makes
// repeated and incremental builds cheap.
package tile

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/paulmach/orb/project"

	"github.com/gogpu/mapview/decoded"
	"github.com/gogpu/mapview/label"
	"github.com/gogpu/mapview/render"
	"github.com/gogpu/mapview/technique"
)

// GroupKey identifies a group of a decoded geometry.
type GroupKey struct {
	Geometry int
	Group    int
}

// Tile is the renderable state of one (data source, tile key) pair. It is
// not safe for concurrent use.
type Tile struct {
	key        maptile.Tile
	dataSource string
	zoom       float64

	decoded       *decoded.Tile
	enable        *technique.EnableTable
	created       map[GroupKey]struct{}
	preparedPaths []label.PreparedPath
	pathsReady    bool

	objects      []*render.Object
	textElements []*label.TextElement
	extrusion    *render.ExtrusionAnimation
}

// New returns an empty tile. Its display zoom starts at the key's level.
func New(dataSource string, key maptile.Tile) *Tile {
	return &Tile{key: key, dataSource: dataSource, zoom: float64(key.Z)}
}

// Key returns the tile coordinates.
func (t *Tile) Key() maptile.Tile { return t.key }

// DataSource returns the name of the data source the tile belongs to.
func (t *Tile) DataSource() string { return t.dataSource }

// Zoom returns the display zoom level used to evaluate techniques.
func (t *Tile) Zoom() float64 { return t.zoom }

// SetZoom sets the display zoom level.
func (t *Tile) SetZoom(z float64) { t.zoom = z }

// Bound returns the tile's longitude/latitude bounds.
func (t *Tile) Bound() orb.Bound { return t.key.Bound() }

// WorldBound returns the tile's bounds in Web Mercator meters.
func (t *Tile) WorldBound() orb.Bound {
	b := t.key.Bound()
	return orb.Bound{
		Min: project.WGS84.ToMercator(b.Min),
		Max: project.WGS84.ToMercator(b.Max),
	}
}

// Bind attaches decoded data to the tile. Binding a different decoded tile
// forgets the enable states, created groups and prepared paths of the
// previous one; binding the same one keeps them. It reports whether the
// data changed.
func (t *Tile) Bind(d *decoded.Tile) bool {
	if t.decoded == d {
		return false
	}
	t.decoded = d
	t.enable = technique.NewEnableTable(len(d.Techniques))
	t.created = make(map[GroupKey]struct{})
	t.preparedPaths, t.pathsReady = nil, false
	return true
}

// Decoded returns the bound decoded tile, or nil.
func (t *Tile) Decoded() *decoded.Tile { return t.decoded }

// EnableTable returns the technique enable states of the bound decoded
// tile.
func (t *Tile) EnableTable() *technique.EnableTable {
	if t.enable == nil {
		t.enable = technique.NewEnableTable(0)
	}
	return t.enable
}

// TechniqueEnabled reports whether technique i was evaluated as enabled.
func (t *Tile) TechniqueEnabled(i int) bool {
	return t.EnableTable().Enabled(i)
}

// Created reports whether group k was already built.
func (t *Tile) Created(k GroupKey) bool {
	_, ok := t.created[k]
	return ok
}

// MarkCreated records that group k was built.
func (t *Tile) MarkCreated(k GroupKey) {
	if t.created == nil {
		t.created = make(map[GroupKey]struct{})
	}
	t.created[k] = struct{}{}
}

// PreparedPaths returns the split text paths of the bound decoded tile,
// computing them with prepare on first use.
func (t *Tile) PreparedPaths(prepare func() []label.PreparedPath) []label.PreparedPath {
	if !t.pathsReady {
		t.preparedPaths = prepare()
		t.pathsReady = true
	}
	return t.preparedPaths
}

// Objects returns the tile's renderable objects.
func (t *Tile) Objects() []*render.Object { return t.objects }

// AddObject appends o to the tile.
func (t *Tile) AddObject(o *render.Object) { t.objects = append(t.objects, o) }

// ClearObjects removes every object and label, forgets which groups were
// built and drops the extrusion animation.
func (t *Tile) ClearObjects() {
	t.objects = nil
	t.textElements = nil
	t.extrusion = nil
	t.created = nil
}

// ObjectsOfKind returns the objects whose geometry kind includes kind.
func (t *Tile) ObjectsOfKind(kind string) []*render.Object {
	var out []*render.Object
	for _, o := range t.objects {
		if o.UserData.GeometryKind.Has(kind) {
			out = append(out, o)
		}
	}
	return out
}

// TextElements returns the tile's labels.
func (t *Tile) TextElements() []*label.TextElement { return t.textElements }

// AddTextElements appends labels to the tile.
func (t *Tile) AddTextElements(els ...*label.TextElement) {
	t.textElements = append(t.textElements, els...)
}

// ExtrusionAnimation returns the tile's extrusion animation, creating one
// of the given duration on first use.
func (t *Tile) ExtrusionAnimation(duration time.Duration) *render.ExtrusionAnimation {
	if t.extrusion == nil {
		t.extrusion = render.NewExtrusionAnimation(duration)
	}
	return t.extrusion
}

// Animating reports whether an extrusion animation is still running.
func (t *Tile) Animating() bool {
	return t.extrusion != nil && !t.extrusion.Done()
}

// Tick advances the extrusion animation, if any, and reports whether the
// tile needs another frame.
func (t *Tile) Tick(now time.Time) bool {
	if t.extrusion == nil {
		return false
	}
	_, done := t.extrusion.Tick(now)
	return !done
}
