// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/paulmach/orb/maptile"

	"github.com/gogpu/mapview/decoded"
	"github.com/gogpu/mapview/technique"
)

// ObjectKind is the primitive class of an Object.
type ObjectKind uint8

const (
	Mesh ObjectKind = iota
	LineSegments
	Points
)

func (k ObjectKind) String() string {
	switch k {
	case Mesh:
		return "mesh"
	case LineSegments:
		return "line-segments"
	case Points:
		return "points"
	default:
		return fmt.Sprintf("ObjectKind(%d)", uint8(k))
	}
}

// UserData tags an object for picking and kind-based filtering.
type UserData struct {
	DataSource   string
	TileKey      maptile.Tile
	Technique    *technique.Technique
	GeometryKind technique.GeometryKindSet
	GeometryType decoded.GeometryType
	FeatureIDs   []uint64
	// FeatureStarts maps FeatureIDs to index offsets.
	FeatureStarts []int
}

// Object is one draw call: a range of an index buffer over a geometry's
// vertex attributes, drawn with a material.
type Object struct {
	Name     string
	Kind     ObjectKind
	Geometry *decoded.Geometry
	// Index is the index buffer the range refers to: the geometry's
	// triangle index, its edge index, or nil for non-indexed draws.
	Index *decoded.BufferAttribute
	Start int
	Count int

	Material    *Material
	RenderOrder float64
	UserData    UserData
}

// Range returns the draw range as [start, end).
func (o *Object) Range() (start, end int) {
	return o.Start, o.Start + o.Count
}

func (o *Object) String() string {
	return fmt.Sprintf("%s %s [%d,%d) order=%g", o.Kind, o.Name, o.Start, o.Start+o.Count, o.RenderOrder)
}
