package label

import (
	"math"

	"honnef.co/go/curve"

	"github.com/gogpu/mapview/decoded"
)

const (
	// MaxCornerAngle is the largest turn, in radians, a path label may
	// follow without being split.
	MaxCornerAngle = math.Pi / 8

	// DefaultMaxPathSplits bounds the splits of one tile. Paths left after
	// the budget is spent are kept whole.
	DefaultMaxPathSplits = 1024

	// PriorityLengthFactor scales the path length bonus of path labels.
	PriorityLengthFactor = 0.1
)

// PreparedPath is a text path, or a piece of one, after corner splitting.
type PreparedPath struct {
	// Geometry is the index of the source text path geometry.
	Geometry  int
	Technique int
	Text      string
	FeatureID uint64
	Path      []Vec3
}

// Labelable reports whether the path is long enough to carry a label.
func (p *PreparedPath) Labelable() bool { return len(p.Path) >= 2 }

// LengthSqr returns the squared length of the path.
func (p *PreparedPath) LengthSqr() float64 {
	l := pathLength(p.Path)
	return l * l
}

func pathLength(path []Vec3) float64 {
	var l float64
	for i := 1; i < len(path); i++ {
		l += path[i].XY().Sub(path[i-1].XY()).Hypot()
	}
	return l
}

// PreparePaths converts text path geometries to vertex lists and splits
// them at corners sharper than MaxCornerAngle. At most maxSplits splits are
// made; maxSplits <= 0 uses DefaultMaxPathSplits.
func PreparePaths(geoms []decoded.TextPathGeometry, maxSplits int) []PreparedPath {
	if maxSplits <= 0 {
		maxSplits = DefaultMaxPathSplits
	}
	var out []PreparedPath
	splits := 0
	for gi := range geoms {
		g := &geoms[gi]
		base := PreparedPath{Geometry: gi, Technique: g.Technique, Text: g.Text, FeatureID: g.FeatureID}
		var pieces [][]Vec3
		pieces, splits = SplitPath(vertices(g), maxSplits, splits)
		for _, p := range pieces {
			pp := base
			pp.Path = p
			out = append(out, pp)
		}
	}
	return out
}

func vertices(g *decoded.TextPathGeometry) []Vec3 {
	n := g.Vertices()
	path := make([]Vec3, n)
	for i := range n {
		path[i] = Vec3{g.Path[3*i], g.Path[3*i+1], g.Path[3*i+2]}
	}
	return path
}

// SplitPath splits path at every vertex where the path turns by more than
// MaxCornerAngle. The corner vertex starts the following piece, so the
// pieces concatenate to path. used is the number of splits already made
// against the maxSplits budget; the updated count is returned.
func SplitPath(path []Vec3, maxSplits, used int) ([][]Vec3, int) {
	var out [][]Vec3
	work := [][]Vec3{path}
	for len(work) > 0 {
		p := work[0]
		work = work[1:]
		if used >= maxSplits {
			out = append(out, p)
			continue
		}
		corner := findCorner(p)
		if corner < 0 {
			out = append(out, p)
			continue
		}
		used++
		out = append(out, p[:corner:corner])
		work = append(work, p[corner:])
	}
	return out, used
}

// findCorner returns the index of the first vertex where the path turns by
// more than MaxCornerAngle, or -1. Zero-length segments are skipped.
func findCorner(p []Vec3) int {
	var prev curve.Vec2
	havePrev := false
	for i := 1; i < len(p); i++ {
		d := p[i].XY().Sub(p[i-1].XY())
		if d.Hypot() == 0 {
			continue
		}
		if havePrev && turnAngle(prev, d) > MaxCornerAngle {
			return i - 1
		}
		prev, havePrev = d, true
	}
	return -1
}

func turnAngle(a, b curve.Vec2) float64 {
	cos := (a.X*b.X + a.Y*b.Y) / (a.Hypot() * b.Hypot())
	return math.Acos(max(-1, min(cos, 1)))
}

// Priority returns the priority of a path label: the technique's base
// priority plus a bonus of up to PriorityLengthFactor for the path's length
// relative to the longest path of the tile.
func Priority(base, lengthSqr, maxLengthSqr float64) float64 {
	if maxLengthSqr <= 0 {
		return base
	}
	return base + PriorityLengthFactor*lengthSqr/maxLengthSqr
}
