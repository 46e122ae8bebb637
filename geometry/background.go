package geometry

import (
	"github.com/gogpu/mapview/decoded"
	"github.com/gogpu/mapview/render"
	"github.com/gogpu/mapview/technique"
	"github.com/gogpu/mapview/tile"
)

// BackgroundKind is the geometry kind of background planes.
const BackgroundKind = "background"

// createBackground adds a plane covering the tile. Vertices are relative
// to the tile's Web Mercator center, which the material carries as the
// "origin" uniform.
func (c *Creator) createBackground(t *tile.Tile) {
	b := t.WorldBound()
	center := b.Center()
	hw := float32((b.Max[0] - b.Min[0]) / 2)
	hh := float32((b.Max[1] - b.Min[1]) / 2)

	pos := decoded.NewFloat32Attribute("position", 3, []float32{
		-hw, -hh, 0,
		hw, -hh, 0,
		hw, hh, 0,
		-hw, hh, 0,
	})
	idx := decoded.NewUint32Attribute("index", []uint32{0, 1, 2, 0, 2, 3})
	g := &decoded.Geometry{
		Type:             decoded.Polygon,
		VertexAttributes: []decoded.BufferAttribute{pos},
		Index:            &idx,
	}

	m := render.NewMaterial(BackgroundKind, render.Mesh)
	m.Color = c.backgroundColor
	m.DepthStencil.DepthWriteEnabled = false
	m.Uniforms = map[string]any{"origin": [2]float64{center[0], center[1]}}

	t.AddObject(&render.Object{
		Name:        BackgroundKind,
		Kind:        render.Mesh,
		Geometry:    g,
		Index:       g.Index,
		Count:       6,
		Material:    m,
		RenderOrder: BackgroundRenderOrder,
		UserData: render.UserData{
			DataSource:   t.DataSource(),
			TileKey:      t.Key(),
			GeometryKind: technique.NewKindSet(BackgroundKind),
			GeometryType: decoded.Polygon,
		},
	})
}
