package mapview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/paulmach/orb/maptile"

	"github.com/gogpu/mapview/color"
	"github.com/gogpu/mapview/decoded"
	"github.com/gogpu/mapview/geometry"
	"github.com/gogpu/mapview/internal/parallel"
	"github.com/gogpu/mapview/internal/shader"
	"github.com/gogpu/mapview/label"
	"github.com/gogpu/mapview/style"
	"github.com/gogpu/mapview/technique"
	"github.com/gogpu/mapview/theme"
	"github.com/gogpu/mapview/tile"
)

// DefaultClearColor is the background color of themes without a
// clearColor.
var DefaultClearColor = color.White

// View is the rendering context of one map. It owns the resolved theme and
// the caches derived from it; replacing the theme replaces them.
//
// Theme changes and tile builds may run on different goroutines, but one
// tile must not be built concurrently.
type View struct {
	opts    options
	loader  *theme.Loader
	shaders *shader.Compiler

	poolOnce sync.Once
	pool     *parallel.Pool

	mu         sync.RWMutex
	theme      *theme.Theme
	styles     *style.Cache
	creator    *geometry.Creator
	techniques map[string][]*technique.Technique
}

// New creates a view without a theme. Tiles built before a theme is set use
// an empty theme.
func New(opts ...Option) *View {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	v := &View{
		opts:    o,
		loader:  theme.NewLoader(o.loader...),
		shaders: shader.NewCompiler(o.shaderCapacity),
	}
	v.SetTheme(&theme.Theme{})
	return v
}

// Loader returns the view's theme loader.
func (v *View) Loader() *theme.Loader { return v.loader }

// LoadTheme loads and resolves a theme and makes it current.
func (v *View) LoadTheme(ctx context.Context, src theme.Source) (*theme.Theme, error) {
	th, err := v.loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	v.SetTheme(th)
	return th, nil
}

// SetTheme makes th current and drops every cache built for the previous
// theme. th should be resolved; see theme.Loader.
func (v *View) SetTheme(th *theme.Theme) {
	if th == nil {
		th = &theme.Theme{}
	}
	styles := style.NewCache(th)
	extractorOpts := []label.Option{label.WithMaxPathSplits(v.opts.maxPathSplits)}
	if v.opts.measurerSet {
		extractorOpts = append(extractorOpts, label.WithMeasurer(v.opts.measurer))
	}
	creatorOpts := []geometry.Option{
		geometry.WithEnabledKinds(v.opts.enabledKinds),
		geometry.WithDisabledKinds(v.opts.disabledKinds),
		geometry.WithExtractor(label.NewExtractor(styles, extractorOpts...)),
		geometry.WithShaderCompiler(v.shaders),
	}
	if v.opts.filter != nil {
		creatorOpts = append(creatorOpts, geometry.WithFilter(v.opts.filter))
	}
	if v.opts.background {
		creatorOpts = append(creatorOpts, geometry.WithBackground(clearColor(th), v.opts.backgroundSources...))
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.theme = th
	v.styles = styles
	v.creator = geometry.NewCreator(creatorOpts...)
	v.techniques = make(map[string][]*technique.Technique)
}

func clearColor(th *theme.Theme) color.RGBA {
	if c, ok := color.Parse(th.Clear); ok {
		return c
	}
	return DefaultClearColor
}

// Theme returns the current theme.
func (v *View) Theme() *theme.Theme {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.theme
}

// Styles returns the text style cache of the current theme.
func (v *View) Styles() *style.Cache {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.styles
}

// Techniques compiles a style set of the current theme. The result is
// cached until the theme changes; styles that fail to compile leave nil
// entries and are reported in the joined error.
func (v *View) Techniques(styleSet string) ([]*technique.Technique, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if techs, ok := v.techniques[styleSet]; ok {
		return techs, nil
	}
	if _, ok := v.theme.Styles[styleSet]; !ok {
		return nil, fmt.Errorf("mapview: unknown style set %q", styleSet)
	}
	techs, errs := technique.Compile(v.theme, styleSet)
	v.techniques[styleSet] = techs
	return techs, errors.Join(errs...)
}

// NewTile returns an empty tile of a data source.
func (v *View) NewTile(dataSource string, key maptile.Tile) *tile.Tile {
	return tile.New(dataSource, key)
}

// BuildTile clears t and fills it with the objects and labels of d.
func (v *View) BuildTile(t *tile.Tile, d *decoded.Tile) {
	v.mu.RLock()
	c := v.creator
	v.mu.RUnlock()
	c.CreateAllGeometries(t, d)
}

// Build pairs a tile with the decoded data to fill it with.
type Build struct {
	Tile *tile.Tile
	Data *decoded.Tile
}

// BuildTiles builds distinct tiles concurrently and waits for them. Builds
// not started when ctx is done are skipped and reported in the returned
// error.
func (v *View) BuildTiles(ctx context.Context, builds ...Build) error {
	v.poolOnce.Do(func() {
		v.pool = parallel.NewPool(v.opts.workers)
	})
	jobs := make([]parallel.Job, len(builds))
	for i, b := range builds {
		jobs[i] = func(context.Context) error {
			if b.Tile == nil || b.Data == nil {
				return fmt.Errorf("mapview: build %d is missing its tile or data", i)
			}
			v.BuildTile(b.Tile, b.Data)
			return nil
		}
	}
	return v.pool.Run(ctx, jobs...)
}

// Close stops the view's build workers. Views that never called BuildTiles
// need not be closed.
func (v *View) Close() {
	v.poolOnce.Do(func() {})
	if v.pool != nil {
		v.pool.Close()
	}
}

// Tick advances the extrusion animations of tiles and reports whether any
// of them needs another frame.
func (v *View) Tick(now time.Time, tiles ...*tile.Tile) bool {
	more := false
	for _, t := range tiles {
		if t.Tick(now) {
			more = true
		}
	}
	return more
}
