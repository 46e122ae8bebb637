// Package decoded holds the decoded tile model: vertex buffers, technique
// tagged groups and text geometry produced by an upstream tile decoder.
package decoded

import (
	"github.com/gogpu/mapview/technique"
)

// GeometryType is the shape class of a decoded geometry.
type GeometryType uint8

const (
	Unspecified GeometryType = iota
	Point
	Line
	SolidLine
	Polygon
	ExtrudedLine
	ExtrudedPolygon
	Object3D
)

var geometryTypeNames = map[string]GeometryType{
	"unspecified":      Unspecified,
	"point":            Point,
	"line":             Line,
	"solid-line":       SolidLine,
	"polygon":          Polygon,
	"extruded-line":    ExtrudedLine,
	"extruded-polygon": ExtrudedPolygon,
	"object3d":         Object3D,
}

func (g GeometryType) String() string {
	for name, t := range geometryTypeNames {
		if t == g {
			return name
		}
	}
	return "unspecified"
}

// Tile is the decoder's output for one tile.
type Tile struct {
	Techniques         []*technique.Technique
	Geometries         []Geometry
	TextPathGeometries []TextPathGeometry
	TextGeometries     []TextGeometry
	PoiGeometries      []PoiGeometry
}

// Technique returns technique i, or nil when i is out of range.
func (t *Tile) Technique(i int) *technique.Technique {
	if i < 0 || i >= len(t.Techniques) {
		return nil
	}
	return t.Techniques[i]
}

// Geometry is one vertex buffer set with its draw groups.
type Geometry struct {
	Type             GeometryType
	VertexAttributes []BufferAttribute
	Index            *BufferAttribute
	// EdgeIndex holds line-list indices of polygon outlines.
	EdgeIndex  *BufferAttribute
	Groups     []Group
	FeatureIDs []uint64
	// FeatureStarts maps FeatureIDs to the first index of each feature.
	FeatureStarts []int
}

// Attribute returns the vertex attribute called name.
func (g *Geometry) Attribute(name string) (*BufferAttribute, bool) {
	for i := range g.VertexAttributes {
		if g.VertexAttributes[i].Name == name {
			return &g.VertexAttributes[i], true
		}
	}
	return nil, false
}

// Group is a draw range of a geometry rendered with one technique.
type Group struct {
	Technique         int
	Start             int
	Count             int
	RenderOrderOffset float64
}

// End returns the index one past the group.
func (g Group) End() int { return g.Start + g.Count }

// TextPathGeometry is text laid out along a polyline. Path holds x, y, z
// triples in world space.
type TextPathGeometry struct {
	Technique int
	Path      []float64
	Text      string
	FeatureID uint64
}

// Vertices returns the number of path vertices.
func (g *TextPathGeometry) Vertices() int { return len(g.Path) / 3 }

// TextGeometry is a batch of point labels. Texts index into StringCatalog,
// one entry per position.
type TextGeometry struct {
	Technique     int
	Positions     BufferAttribute
	Texts         []int
	StringCatalog []string
	FeatureIDs    []uint64
}

// PoiGeometry is a batch of point labels with icons. ImageTextures index
// into ImageCatalog the way Texts index into StringCatalog.
type PoiGeometry struct {
	TextGeometry
	ImageTextures []int
	ImageCatalog  []string
}
