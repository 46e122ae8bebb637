package label

import (
	"bytes"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"
)

// Measurer measures the advance width of a label's text at a font size.
type Measurer interface {
	Measure(text string, size float64) (width float64, dir Direction)
}

// ShapingMeasurer shapes text with HarfBuzz over a single font. It is safe
// for concurrent use: the parsed font is shared and every call gets its own
// face and shaper.
type ShapingMeasurer struct {
	font   *font.Font
	lang   language.Language
	shaper sync.Pool
}

// NewShapingMeasurer parses TrueType or OpenType font data.
func NewShapingMeasurer(ttf []byte) (*ShapingMeasurer, error) {
	face, err := font.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, err
	}
	m := &ShapingMeasurer{font: face.Font, lang: language.NewLanguage("en")}
	m.shaper.New = func() any { return &shaping.HarfbuzzShaper{} }
	return m, nil
}

var defaultMeasurer = sync.OnceValues(func() (*ShapingMeasurer, error) {
	return NewShapingMeasurer(goregular.TTF)
})

// DefaultMeasurer returns a measurer using the Go Regular font.
func DefaultMeasurer() (*ShapingMeasurer, error) {
	return defaultMeasurer()
}

// Measure returns the shaped advance of text in font units scaled to size.
func (m *ShapingMeasurer) Measure(text string, size float64) (float64, Direction) {
	dir := TextDirection(text)
	if text == "" {
		return 0, dir
	}
	runes := []rune(text)
	shapeDir := di.DirectionLTR
	if dir == RightToLeft {
		shapeDir = di.DirectionRTL
	}
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: shapeDir,
		Face:      font.NewFace(m.font),
		Size:      fixed.Int26_6(size * 64),
		Script:    script(runes),
		Language:  m.lang,
	}
	hb := m.shaper.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	m.shaper.Put(hb)

	adv := out.Advance
	if adv < 0 {
		adv = -adv
	}
	return float64(adv) / 64, dir
}

func script(runes []rune) language.Script {
	for _, r := range runes {
		if r != ' ' {
			return language.LookupScript(r)
		}
	}
	return language.Latin
}

// TextDirection classifies text by its bidi runs.
func TextDirection(text string) Direction {
	var p bidi.Paragraph
	if _, err := p.SetString(text, bidi.DefaultDirection(bidi.LeftToRight)); err != nil {
		return LeftToRight
	}
	ordering, err := p.Order()
	if err != nil {
		return LeftToRight
	}
	var ltr, rtl bool
	for i := range ordering.NumRuns() {
		if run := ordering.Run(i); run.Direction() == bidi.RightToLeft {
			rtl = true
		} else {
			ltr = true
		}
	}
	switch {
	case rtl && ltr:
		return Mixed
	case rtl:
		return RightToLeft
	default:
		return LeftToRight
	}
}
