// Package label extracts text elements from decoded tiles.
//
// Path labels follow polylines that are first split at sharp corners;
// point labels and POIs sit at single positions. Every element carries the
// render and layout style of its technique at the tile's zoom level, a
// placement priority and its measured width. Placement itself happens
// elsewhere.
package label

import (
	"math"

	"honnef.co/go/curve"

	"github.com/gogpu/mapview/style"
	"github.com/gogpu/mapview/technique"
)

// Vec3 is a world-space position.
type Vec3 struct {
	X, Y, Z float64
}

// XY projects v onto the ground plane.
func (v Vec3) XY() curve.Vec2 { return curve.Vec2{X: v.X, Y: v.Y} }

// Direction is the reading direction of a label's text.
type Direction uint8

const (
	LeftToRight Direction = iota
	RightToLeft
	// Mixed text holds runs of both directions.
	Mixed
)

func (d Direction) String() string {
	switch d {
	case RightToLeft:
		return "rtl"
	case Mixed:
		return "mixed"
	default:
		return "ltr"
	}
}

// PoiInfo describes the icon of a point of interest.
type PoiInfo struct {
	ImageTexture   string
	IconMinZoom    float64
	IconMaxZoom    float64
	IconIsOptional bool
	// TextIsOptional lets the icon render when its text does not fit.
	TextIsOptional bool
}

// TextElement is a label ready for placement.
type TextElement struct {
	Text string
	// Position is the anchor of point labels and the first vertex of path
	// labels.
	Position Vec3
	// Path is nil for point labels.
	Path          []Vec3
	PathLengthSqr float64

	RenderStyle *style.RenderStyle
	LayoutStyle *style.LayoutStyle
	Technique   *technique.Technique

	Priority     float64
	MinZoomLevel float64
	MaxZoomLevel float64
	MayOverlap   bool
	ReserveSpace bool
	XOffset      float64
	YOffset      float64

	// Width is the shaped advance of Text at the render style's size.
	Width     float64
	Direction Direction
	FeatureID uint64
	Poi       *PoiInfo
}

// IsPath reports whether the element follows a path.
func (e *TextElement) IsPath() bool { return e.Path != nil }

// VisibleAt reports whether zoom lies within the element's zoom range.
func (e *TextElement) VisibleAt(zoom float64) bool {
	return zoom >= e.MinZoomLevel && zoom <= e.MaxZoomLevel
}

// Default zoom range of labels without explicit limits.
const (
	DefaultMinZoomLevel = 0.0
	DefaultMaxZoomLevel = math.MaxFloat64
)
