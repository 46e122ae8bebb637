// Package style resolves the render and layout styles of text techniques
// and caches them per data source, technique and integer zoom level.
package style

import (
	"github.com/gogpu/mapview/color"
)

// Default text style values.
const (
	DefaultFontSize   = 16.0
	DefaultFontName   = "default"
	DefaultLineWidth  = 32.0
	DefaultMaxLines   = 1
	DefaultBackground = 8.0
)

// Alignment positions text relative to its anchor.
type Alignment uint8

const (
	AlignCenter Alignment = iota
	AlignLeft
	AlignRight
	AlignAbove
	AlignBelow
)

var alignmentNames = map[string]Alignment{
	"Center": AlignCenter,
	"Left":   AlignLeft,
	"Right":  AlignRight,
	"Above":  AlignAbove,
	"Below":  AlignBelow,
}

// WrappingMode selects how long labels break into lines.
type WrappingMode uint8

const (
	WrapWord WrappingMode = iota
	WrapCharacter
	WrapNone
)

var wrappingNames = map[string]WrappingMode{
	"Word":      WrapWord,
	"Character": WrapCharacter,
	"None":      WrapNone,
}

// RenderStyle holds the appearance of a label.
type RenderStyle struct {
	FontName          string
	FontSize          float64
	FontStyle         string
	FontVariant       string
	Color             color.RGBA
	Opacity           float64
	BackgroundColor   color.RGBA
	BackgroundSize    float64
	BackgroundOpacity float64
	Rotation          float64
}

// LayoutStyle holds the line layout of a label.
type LayoutStyle struct {
	HorizontalAlignment Alignment
	VerticalAlignment   Alignment
	Wrapping            WrappingMode
	LineWidth           float64
	MaxLines            int
	Tracking            float64
	Leading             float64
}
