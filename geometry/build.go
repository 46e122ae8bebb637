package geometry

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gogpu/mapview/color"
	"github.com/gogpu/mapview/decoded"
	"github.com/gogpu/mapview/render"
	"github.com/gogpu/mapview/technique"
	"github.com/gogpu/mapview/tile"
)

// Default attribute values.
const (
	DefaultLineWidth = 1.0
	DefaultPointSize = 1.0
	DefaultDashSize  = 4.0
	DefaultGapSize   = 2.0
)

var errNoShaderCompiler = errors.New("no shader compiler configured")

// build holds the per-call state of CreateObjects: materials are created
// once per technique and edges once per geometry and technique.
type build struct {
	c    *Creator
	t    *tile.Tile
	d    *decoded.Tile
	zoom float64

	materials map[int]*render.Material
	failed    map[int]bool
	depth     map[int]*render.Material
	edgeMats  map[int]*render.Material
	casings   map[int]*render.Material
	edges     map[[2]int]bool
}

func newBuild(c *Creator, t *tile.Tile, d *decoded.Tile) *build {
	return &build{
		c:         c,
		t:         t,
		d:         d,
		zoom:      math.Floor(t.Zoom()),
		materials: make(map[int]*render.Material),
		failed:    make(map[int]bool),
		depth:     make(map[int]*render.Material),
		edgeMats:  make(map[int]*render.Material),
		casings:   make(map[int]*render.Material),
		edges:     make(map[[2]int]bool),
	}
}

// objectKind maps a technique to the object it renders as. ok is false for
// techniques that create no object.
func (b *build) objectKind(tech *technique.Technique) (kind render.ObjectKind, ok bool) {
	switch tech.Name {
	case technique.KindFill, technique.KindStandard, technique.KindTerrain,
		technique.KindExtrudedPolygon, technique.KindExtrudedLine,
		technique.KindSolidLine, technique.KindDashedLine:
		return render.Mesh, true
	case technique.KindLine, technique.KindSegments:
		return render.LineSegments, true
	case technique.KindCircles, technique.KindSquares:
		return render.Points, true
	case technique.KindShader:
		switch tech.StringAt("primitive", b.zoom, "mesh") {
		case "line", "segments":
			return render.LineSegments, true
		case "point":
			return render.Points, true
		default:
			return render.Mesh, true
		}
	case technique.KindText, technique.KindLabeledIcon, technique.KindLineMarker,
		technique.KindNone, technique.KindUnknown:
		return 0, false
	}
	return 0, false
}

// group creates the objects of one compressed draw range.
func (b *build) group(gi int, g *decoded.Geometry, r Range) {
	tech := b.d.Technique(r.Technique)
	kind, ok := b.objectKind(tech)
	if !ok {
		if tech.Name == technique.KindUnknown {
			b.c.log().Debug("geometry: unknown technique kind skipped", "technique", tech, "geometry", gi)
		}
		return
	}
	mat := b.material(tech, kind)
	if mat == nil {
		return
	}

	obj := &render.Object{
		Name:        tech.Name.String(),
		Kind:        kind,
		Geometry:    g,
		Index:       g.Index,
		Start:       r.Start,
		Count:       r.Count,
		Material:    mat,
		RenderOrder: tech.RenderOrder + r.RenderOrderOffset,
		UserData:    b.userData(tech, g),
	}

	if depth := b.depthPrepass(tech, mat); depth != nil {
		pre := *obj
		pre.Name = obj.Name + "-depth-prepass"
		pre.Material = depth
		b.t.AddObject(&pre)
	}
	b.t.AddObject(obj)
	b.casing(tech, obj)
	b.edgeObject(gi, g, tech, obj)
}

func (b *build) userData(tech *technique.Technique, g *decoded.Geometry) render.UserData {
	return render.UserData{
		DataSource:    b.t.DataSource(),
		TileKey:       b.t.Key(),
		Technique:     tech,
		GeometryKind:  tech.GeometryKind,
		GeometryType:  g.Type,
		FeatureIDs:    g.FeatureIDs,
		FeatureStarts: g.FeatureStarts,
	}
}

// material returns the cached material of tech, building it on first use.
// A technique whose material failed is not retried within the build.
func (b *build) material(tech *technique.Technique, kind render.ObjectKind) *render.Material {
	if m, ok := b.materials[tech.Index]; ok {
		return m
	}
	if b.failed[tech.Index] {
		return nil
	}
	m, err := b.newMaterial(tech, kind)
	if err != nil {
		b.failed[tech.Index] = true
		b.c.log().Warn("geometry: material failed, group skipped", "technique", tech, "err", err)
		return nil
	}
	b.materials[tech.Index] = m
	return m
}

func (b *build) newMaterial(tech *technique.Technique, kind render.ObjectKind) (*render.Material, error) {
	z := b.zoom
	m := render.NewMaterial(tech.Name.String(), kind)
	m.Color = tech.ColorAt("color", z, color.White)
	m.Opacity = tech.OpacityAt("opacity", z, 1)
	m.Texture = tech.StringAt("map", z, "")
	m.Fading = render.FadeParams{
		Near: tech.FloatAt("fadeNear", z, render.FadingDisabled),
		Far:  tech.FloatAt("fadeFar", z, render.FadingDisabled),
	}
	m.Uniforms = make(map[string]any, len(tech.Attrs))
	for name := range tech.Attrs {
		m.Uniforms[name] = tech.At(name, z)
	}

	switch kind {
	case render.Points:
		m.LineWidth = tech.FloatAt("size", z, DefaultPointSize)
	default:
		m.LineWidth = tech.FloatAt("lineWidth", z, DefaultLineWidth)
	}
	if m.LineWidth < 0 {
		return nil, fmt.Errorf("negative width %v", m.LineWidth)
	}

	switch tech.Name {
	case technique.KindDashedLine:
		m.DashSize = tech.FloatAt("dashSize", z, DefaultDashSize)
		m.GapSize = tech.FloatAt("gapSize", z, DefaultGapSize)
		if m.DashSize <= 0 {
			return nil, fmt.Errorf("dash size %v is not positive", m.DashSize)
		}
	case technique.KindFill, technique.KindStandard, technique.KindExtrudedPolygon:
		if b.hasEdges(tech) {
			m.PolygonOffset = render.PolygonOffset{
				Enabled: true,
				Factor:  tech.FloatAt("polygonOffsetFactor", z, render.DefaultPolygonOffset.Factor),
				Units:   tech.FloatAt("polygonOffsetUnits", z, render.DefaultPolygonOffset.Units),
			}
		}
	case technique.KindShader:
		if err := b.compileShaders(tech, m); err != nil {
			return nil, err
		}
	}

	m.SetTransparent(tech.BoolAt("transparent", z, false))
	m.SetDepthTest(tech.BoolAt("depthTest", z, true))

	if tech.Name.IsExtruded() && tech.BoolAt("animateExtrusion", z, false) {
		ms := tech.FloatAt("animateExtrusionDuration", z, float64(render.DefaultExtrusionDuration/time.Millisecond))
		b.t.ExtrusionAnimation(time.Duration(ms * float64(time.Millisecond))).Add(m)
	}
	return m, nil
}

func (b *build) compileShaders(tech *technique.Technique, m *render.Material) error {
	if b.c.shaders == nil {
		return errNoShaderCompiler
	}
	vs, err := b.c.shaders.Compile(tech.String()+"-vertex", tech.StringAt("vertexShader", b.zoom, ""))
	if err != nil {
		return err
	}
	fs, err := b.c.shaders.Compile(tech.String()+"-fragment", tech.StringAt("fragmentShader", b.zoom, ""))
	if err != nil {
		return err
	}
	m.Vertex, m.Fragment = vs, fs
	return nil
}

// hasEdges reports whether a polygon technique draws outlines.
func (b *build) hasEdges(tech *technique.Technique) bool {
	switch tech.Name {
	case technique.KindFill, technique.KindStandard, technique.KindExtrudedPolygon:
		return tech.FloatAt("lineWidth", b.zoom, 0) > 0
	}
	return false
}

// depthPrepass returns the depth-only material of an extruded polygon
// technique that is translucent and requests a depth pre-pass, or nil.
func (b *build) depthPrepass(tech *technique.Technique, mat *render.Material) *render.Material {
	if tech.Name != technique.KindExtrudedPolygon || !mat.Transparent {
		return nil
	}
	if !tech.BoolAt("depthTest", b.zoom, true) || !tech.BoolAt("enableDepthPrePass", b.zoom, true) {
		return nil
	}
	if m, ok := b.depth[tech.Index]; ok {
		return m
	}
	m := render.DepthPrepass(mat)
	if tech.BoolAt("animateExtrusion", b.zoom, false) {
		b.t.ExtrusionAnimation(0).Add(m)
	}
	b.depth[tech.Index] = m
	return m
}

// casing adds the secondary outline of a solid line.
func (b *build) casing(tech *technique.Technique, obj *render.Object) {
	if tech.Name != technique.KindSolidLine {
		return
	}
	width := tech.FloatAt("secondaryWidth", b.zoom, 0)
	if width <= 0 {
		return
	}
	m, ok := b.casings[tech.Index]
	if !ok {
		m = obj.Material.Clone()
		m.Name = obj.Material.Name + "-casing"
		m.LineWidth = width
		m.Color = tech.ColorAt("secondaryColor", b.zoom, color.Black)
		b.casings[tech.Index] = m
	}
	c := *obj
	c.Name = obj.Name + "-casing"
	c.Material = m
	order := tech.RenderOrder + CasingRenderOrderOffset
	if o, ok := tech.FloatAtOK("secondaryRenderOrder", b.zoom); ok {
		order = o
	}
	c.RenderOrder = order + obj.RenderOrder - tech.RenderOrder
	b.t.AddObject(&c)
}

// edgeObject adds the outline of a polygon geometry once per technique.
func (b *build) edgeObject(gi int, g *decoded.Geometry, tech *technique.Technique, obj *render.Object) {
	if g.EdgeIndex == nil || !b.hasEdges(tech) {
		return
	}
	key := [2]int{gi, tech.Index}
	if b.edges[key] {
		return
	}
	b.edges[key] = true

	m, ok := b.edgeMats[tech.Index]
	if !ok {
		z := b.zoom
		m = render.NewMaterial(obj.Material.Name+"-edges", render.LineSegments)
		m.Color = tech.ColorAt("lineColor", z, color.Black)
		m.Opacity = obj.Material.Opacity
		m.LineWidth = tech.FloatAt("lineWidth", z, DefaultLineWidth)
		m.Fading = render.FadeParams{
			Near: tech.FloatAt("lineFadeNear", z, render.FadingDisabled),
			Far:  tech.FloatAt("lineFadeFar", z, render.FadingDisabled),
		}
		m.SetTransparent(obj.Material.Transparent)
		m.SetDepthTest(tech.BoolAt("depthTest", z, true))
		if tech.Name.IsExtruded() && tech.BoolAt("animateExtrusion", z, false) {
			b.t.ExtrusionAnimation(0).Add(m)
		}
		b.edgeMats[tech.Index] = m
	}
	b.t.AddObject(&render.Object{
		Name:        obj.Name + "-edges",
		Kind:        render.LineSegments,
		Geometry:    g,
		Index:       g.EdgeIndex,
		Start:       0,
		Count:       g.EdgeIndex.Len(),
		Material:    m,
		RenderOrder: obj.RenderOrder + EdgeRenderOrderOffset,
		UserData:    obj.UserData,
	})
}
