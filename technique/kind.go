package technique

import "fmt"

// Kind names the rendering recipe of a technique. The set of kinds is
// closed; names outside it parse to KindUnknown and render nothing.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindNone
	KindSquares
	KindCircles
	KindLabeledIcon
	KindLineMarker
	KindLine
	KindSegments
	KindSolidLine
	KindDashedLine
	KindFill
	KindStandard
	KindTerrain
	KindExtrudedLine
	KindExtrudedPolygon
	KindShader
	KindText

	kindCount
)

var kindNames = [kindCount]string{
	KindUnknown:         "unknown",
	KindNone:            "none",
	KindSquares:         "squares",
	KindCircles:         "circles",
	KindLabeledIcon:     "labeled-icon",
	KindLineMarker:      "line-marker",
	KindLine:            "line",
	KindSegments:        "segments",
	KindSolidLine:       "solid-line",
	KindDashedLine:      "dashed-line",
	KindFill:            "fill",
	KindStandard:        "standard",
	KindTerrain:         "terrain",
	KindExtrudedLine:    "extruded-line",
	KindExtrudedPolygon: "extruded-polygon",
	KindShader:          "shader",
	KindText:            "text",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k := KindUnknown + 1; k < kindCount; k++ {
		m[kindNames[k]] = k
	}
	return m
}()

// ParseKind returns the kind with the given theme name, or KindUnknown.
func ParseKind(name string) Kind {
	return kindsByName[name]
}

// Kinds returns every known kind except KindUnknown.
func Kinds() []Kind {
	ks := make([]Kind, 0, kindCount-1)
	for k := KindUnknown + 1; k < kindCount; k++ {
		ks = append(ks, k)
	}
	return ks
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsLabel reports whether the kind produces text elements rather than
// renderable objects.
func (k Kind) IsLabel() bool {
	return k == KindText || k == KindLabeledIcon || k == KindLineMarker
}

// IsExtruded reports whether the kind extrudes its geometry.
func (k Kind) IsExtruded() bool {
	return k == KindExtrudedPolygon || k == KindExtrudedLine
}
