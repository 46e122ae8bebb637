package label

import (
	"log/slog"
	"math"

	"github.com/gogpu/mapview/decoded"
	"github.com/gogpu/mapview/internal/logging"
	"github.com/gogpu/mapview/style"
	"github.com/gogpu/mapview/technique"
)

// Source is the tile a label extraction runs for.
type Source interface {
	DataSource() string
	// Zoom is the display zoom level; styles use its floor.
	Zoom() float64
	// TechniqueEnabled reports the enable state of technique i.
	TechniqueEnabled(i int) bool
	// PreparedPaths returns the tile's prepared text paths, calling
	// prepare the first time only.
	PreparedPaths(prepare func() []PreparedPath) []PreparedPath
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMeasurer sets the text measurer. A nil measurer disables
// measurement.
func WithMeasurer(m Measurer) Option {
	return func(e *Extractor) { e.measurer = m }
}

// WithMaxPathSplits bounds path splitting per tile.
func WithMaxPathSplits(n int) Option {
	return func(e *Extractor) { e.maxSplits = n }
}

// WithLogger sets the logger for skipped geometry. Nil uses the package
// logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// Extractor builds text elements from decoded tiles.
type Extractor struct {
	styles    *style.Cache
	measurer  Measurer
	maxSplits int
	logger    *slog.Logger
}

// NewExtractor returns an extractor resolving styles through styles. The
// Go Regular shaping measurer is used unless WithMeasurer overrides it.
func NewExtractor(styles *style.Cache, opts ...Option) *Extractor {
	e := &Extractor{styles: styles, maxSplits: DefaultMaxPathSplits}
	if m, err := DefaultMeasurer(); err == nil {
		e.measurer = m
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Extractor) log() *slog.Logger { return logging.Or(e.logger) }

// CreateTextElements returns the labels of d: path labels, point labels
// and POIs, in that order.
func (e *Extractor) CreateTextElements(src Source, d *decoded.Tile) []*TextElement {
	var out []*TextElement
	out = e.pathElements(src, d, out)
	for i := range d.TextGeometries {
		out = e.pointElements(src, d, &d.TextGeometries[i], nil, out)
	}
	for i := range d.PoiGeometries {
		p := &d.PoiGeometries[i]
		out = e.pointElements(src, d, &p.TextGeometry, p, out)
	}
	return out
}

// labelTechnique returns technique i when it is an enabled label
// technique.
func (e *Extractor) labelTechnique(src Source, d *decoded.Tile, i int) *technique.Technique {
	tech := d.Technique(i)
	if tech == nil {
		e.log().Debug("label: missing technique", "index", i)
		return nil
	}
	if !tech.Name.IsLabel() || !src.TechniqueEnabled(i) {
		return nil
	}
	return tech
}

func (e *Extractor) pathElements(src Source, d *decoded.Tile, out []*TextElement) []*TextElement {
	if len(d.TextPathGeometries) == 0 {
		return out
	}
	paths := src.PreparedPaths(func() []PreparedPath {
		return PreparePaths(d.TextPathGeometries, e.maxSplits)
	})

	type labelPath struct {
		path *PreparedPath
		tech *technique.Technique
	}
	var (
		selected  []labelPath
		maxLenSqr float64
	)
	for i := range paths {
		p := &paths[i]
		if !p.Labelable() || p.Text == "" {
			continue
		}
		tech := e.labelTechnique(src, d, p.Technique)
		if tech == nil {
			continue
		}
		selected = append(selected, labelPath{path: p, tech: tech})
		maxLenSqr = math.Max(maxLenSqr, p.LengthSqr())
	}
	for _, lp := range selected {
		p := lp.path
		el := e.newElement(src, lp.tech, p.Text, p.Path[0])
		el.Path = p.Path
		el.PathLengthSqr = p.LengthSqr()
		el.Priority = Priority(el.Priority, el.PathLengthSqr, maxLenSqr)
		el.FeatureID = p.FeatureID
		out = append(out, el)
	}
	return out
}

func (e *Extractor) pointElements(src Source, d *decoded.Tile, g *decoded.TextGeometry, poi *decoded.PoiGeometry, out []*TextElement) []*TextElement {
	tech := e.labelTechnique(src, d, g.Technique)
	if tech == nil {
		return out
	}
	pos, err := g.Positions.Float64s()
	if err != nil {
		e.log().Debug("label: unreadable positions", "technique", tech, "err", err)
		return out
	}
	stride := max(g.Positions.ItemCount, 1)
	for i, ti := range g.Texts {
		if ti < 0 || ti >= len(g.StringCatalog) || (i+1)*stride > len(pos) {
			continue
		}
		at := Vec3{X: pos[i*stride]}
		if stride > 1 {
			at.Y = pos[i*stride+1]
		}
		if stride > 2 {
			at.Z = pos[i*stride+2]
		}
		el := e.newElement(src, tech, g.StringCatalog[ti], at)
		if i < len(g.FeatureIDs) {
			el.FeatureID = g.FeatureIDs[i]
		}
		if poi != nil {
			el.Poi = e.poiInfo(src, tech, poi, i)
		}
		out = append(out, el)
	}
	return out
}

func (e *Extractor) newElement(src Source, tech *technique.Technique, text string, at Vec3) *TextElement {
	zoom := math.Floor(src.Zoom())
	ds := src.DataSource()
	el := &TextElement{
		Text:         text,
		Position:     at,
		RenderStyle:  e.styles.RenderStyle(ds, tech, zoom),
		LayoutStyle:  e.styles.LayoutStyle(ds, tech, zoom),
		Technique:    tech,
		Priority:     tech.FloatAt("priority", zoom, 0),
		MinZoomLevel: tech.FloatAt("minZoomLevel", zoom, DefaultMinZoomLevel),
		MaxZoomLevel: tech.FloatAt("maxZoomLevel", zoom, DefaultMaxZoomLevel),
		MayOverlap:   tech.BoolAt("mayOverlap", zoom, false),
		ReserveSpace: tech.BoolAt("reserveSpace", zoom, true),
		XOffset:      tech.FloatAt("xOffset", zoom, 0),
		YOffset:      tech.FloatAt("yOffset", zoom, 0),
	}
	if e.measurer != nil {
		el.Width, el.Direction = e.measurer.Measure(text, el.RenderStyle.FontSize)
	} else {
		el.Direction = TextDirection(text)
	}
	return el
}

func (e *Extractor) poiInfo(src Source, tech *technique.Technique, g *decoded.PoiGeometry, i int) *PoiInfo {
	zoom := math.Floor(src.Zoom())
	info := &PoiInfo{
		ImageTexture:   tech.StringAt("imageTexture", zoom, ""),
		IconMinZoom:    tech.FloatAt("iconMinZoomLevel", zoom, DefaultMinZoomLevel),
		IconMaxZoom:    tech.FloatAt("iconMaxZoomLevel", zoom, DefaultMaxZoomLevel),
		IconIsOptional: tech.BoolAt("iconIsOptional", zoom, false),
		TextIsOptional: tech.BoolAt("textIsOptional", zoom, false),
	}
	if i < len(g.ImageTextures) {
		if ti := g.ImageTextures[i]; ti >= 0 && ti < len(g.ImageCatalog) {
			info.ImageTexture = g.ImageCatalog[ti]
		}
	}
	return info
}
