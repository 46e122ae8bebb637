// Package geometry builds renderable objects from decoded tiles.
//
// A Creator walks the technique-tagged groups of every decoded geometry,
// merges contiguous groups, builds one material per technique at the tile's
// zoom level and registers mesh, line and point objects on the tile along
// with their outlines, casings and depth pre-passes.
package geometry

import (
	"log/slog"
	"math"
	"slices"

	"github.com/gogpu/mapview/color"
	"github.com/gogpu/mapview/decoded"
	"github.com/gogpu/mapview/internal/logging"
	"github.com/gogpu/mapview/internal/shader"
	"github.com/gogpu/mapview/label"
	"github.com/gogpu/mapview/technique"
	"github.com/gogpu/mapview/tile"
)

// Render order constants.
const (
	// EdgeRenderOrderOffset orders outlines just after their parent.
	EdgeRenderOrderOffset = 0.1
	// CasingRenderOrderOffset orders line casings just before their line
	// when the technique sets no secondaryRenderOrder.
	CasingRenderOrderOffset = -0.1
	// BackgroundRenderOrder sorts the background plane before everything.
	BackgroundRenderOrder = -math.MaxFloat64
)

// Filter selects the techniques a build creates objects for.
type Filter func(*technique.Technique) bool

// Option configures a Creator.
type Option func(*Creator)

// WithEnabledKinds enables techniques of these geometry kinds even when
// they are also disabled.
func WithEnabledKinds(kinds technique.GeometryKindSet) Option {
	return func(c *Creator) { c.enabledKinds = kinds }
}

// WithDisabledKinds disables techniques of these geometry kinds.
func WithDisabledKinds(kinds technique.GeometryKindSet) Option {
	return func(c *Creator) { c.disabledKinds = kinds }
}

// WithFilter restricts every build to techniques accepted by f.
func WithFilter(f Filter) Option {
	return func(c *Creator) { c.filter = f }
}

// WithBackground adds a background plane of the given color under the
// tiles of the listed data sources, or of every data source when none are
// listed.
func WithBackground(col color.RGBA, dataSources ...string) Option {
	return func(c *Creator) {
		c.background = true
		c.backgroundColor = col
		c.backgroundSources = dataSources
	}
}

// WithExtractor sets the label extractor. Without one no text elements are
// created.
func WithExtractor(e *label.Extractor) Option {
	return func(c *Creator) { c.extractor = e }
}

// WithShaderCompiler sets the compiler for shader techniques. Without one,
// shader technique groups are skipped.
func WithShaderCompiler(s *shader.Compiler) Option {
	return func(c *Creator) { c.shaders = s }
}

// WithLogger sets the logger. Nil uses the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Creator) { c.logger = l }
}

// Creator turns decoded tiles into tile objects and labels. A Creator may be
// shared by many tiles but a single tile must not be built concurrently.
type Creator struct {
	enabledKinds      technique.GeometryKindSet
	disabledKinds     technique.GeometryKindSet
	filter            Filter
	background        bool
	backgroundColor   color.RGBA
	backgroundSources []string
	extractor         *label.Extractor
	shaders           *shader.Compiler
	logger            *slog.Logger
}

// NewCreator returns a creator configured by opts.
func NewCreator(opts ...Option) *Creator {
	c := &Creator{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Creator) log() *slog.Logger { return logging.Or(c.logger) }

// CreateAllGeometries rebuilds t from d: it clears the tile, adds the
// background plane, the text elements and then the objects of every
// enabled technique.
func (c *Creator) CreateAllGeometries(t *tile.Tile, d *decoded.Tile) {
	t.ClearObjects()
	c.PrepareTechniques(t, d)
	if c.wantsBackground(t.DataSource()) {
		c.createBackground(t)
	}
	c.CreateTextElements(t, d)
	c.CreateObjects(t, d, nil)
}

// PrepareTechniques binds d to t and evaluates the enable state of every
// technique not evaluated yet.
func (c *Creator) PrepareTechniques(t *tile.Tile, d *decoded.Tile) {
	t.Bind(d)
	t.EnableTable().Evaluate(d.Techniques, c.enabledKinds, c.disabledKinds)
}

// CreateTextElements adds the labels of d to t.
func (c *Creator) CreateTextElements(t *tile.Tile, d *decoded.Tile) {
	if c.extractor == nil {
		return
	}
	c.PrepareTechniques(t, d)
	t.AddTextElements(c.extractor.CreateTextElements(t, d)...)
}

// CreateObjects builds the groups of d that were not built yet and whose
// technique is enabled and accepted by both the creator's filter and
// filter, which may be nil. Calling it repeatedly with different filters
// builds a tile in phases.
func (c *Creator) CreateObjects(t *tile.Tile, d *decoded.Tile, filter Filter) {
	c.PrepareTechniques(t, d)
	b := newBuild(c, t, d)
	for gi := range d.Geometries {
		g := &d.Geometries[gi]
		skip := func(i int) bool {
			return c.skipGroup(t, d, gi, g.Groups[i], i, filter)
		}
		for _, r := range CompressGroups(g.Groups, skip) {
			for i := r.First; i <= r.Last; i++ {
				t.MarkCreated(tile.GroupKey{Geometry: gi, Group: i})
			}
			b.group(gi, g, r)
		}
	}
}

func (c *Creator) skipGroup(t *tile.Tile, d *decoded.Tile, gi int, g decoded.Group, i int, filter Filter) bool {
	if t.Created(tile.GroupKey{Geometry: gi, Group: i}) {
		return true
	}
	tech := d.Technique(g.Technique)
	switch {
	case tech == nil:
		c.log().Debug("geometry: group without technique", "geometry", gi, "group", i, "technique", g.Technique)
		return true
	case !t.TechniqueEnabled(g.Technique):
		return true
	case c.filter != nil && !c.filter(tech):
		return true
	case filter != nil && !filter(tech):
		return true
	}
	return false
}

func (c *Creator) wantsBackground(dataSource string) bool {
	if !c.background {
		return false
	}
	return len(c.backgroundSources) == 0 || slices.Contains(c.backgroundSources, dataSource)
}
