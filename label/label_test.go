package label

import (
	"math"
	"slices"
	"testing"

	"github.com/gogpu/mapview/decoded"
	"github.com/gogpu/mapview/style"
	"github.com/gogpu/mapview/technique"
)

type fakeSource struct {
	zoom     float64
	disabled map[int]bool
	paths    []PreparedPath
	prepared int
}

func (s *fakeSource) DataSource() string          { return "osm" }
func (s *fakeSource) Zoom() float64               { return s.zoom }
func (s *fakeSource) TechniqueEnabled(i int) bool { return !s.disabled[i] }
func (s *fakeSource) PreparedPaths(prepare func() []PreparedPath) []PreparedPath {
	if s.paths == nil {
		s.prepared++
		s.paths = prepare()
	}
	return s.paths
}

type fixedMeasurer struct{}

func (fixedMeasurer) Measure(text string, size float64) (float64, Direction) {
	return float64(len(text)) * size / 2, LeftToRight
}

func flat(pts ...Vec3) []float64 {
	var out []float64
	for _, p := range pts {
		out = append(out, p.X, p.Y, p.Z)
	}
	return out
}

func mustTech(t *testing.T, m map[string]any) *technique.Technique {
	t.Helper()
	tech, err := technique.Parse(m)
	if err != nil {
		t.Fatal(err)
	}
	return tech
}

func TestSplitPathSharpTurn(t *testing.T) {
	// 170 degree turn at the middle vertex.
	turn := 170 * math.Pi / 180
	path := []Vec3{
		{0, 0, 0},
		{5, 0, 0},
		{10, 0, 0},
		{10 + 5*math.Cos(turn), 5 * math.Sin(turn), 0},
		{10 + 10*math.Cos(turn), 10 * math.Sin(turn), 0},
	}
	pieces, used := SplitPath(path, DefaultMaxPathSplits, 0)
	if len(pieces) != 2 {
		t.Fatalf("len(pieces) = %d, want 2", len(pieces))
	}
	if used != 1 {
		t.Errorf("used = %d, want 1", used)
	}
	if got := slices.Concat(pieces...); !slices.Equal(got, path) {
		t.Errorf("concatenated pieces = %v, want %v", got, path)
	}
	if pieces[1][0] != path[2] {
		t.Errorf("tail starts at %v, want corner %v", pieces[1][0], path[2])
	}
}

func TestSplitPathGentle(t *testing.T) {
	path := []Vec3{{0, 0, 0}, {10, 0, 0}, {20, 1, 0}, {30, 3, 0}}
	pieces, used := SplitPath(path, DefaultMaxPathSplits, 0)
	if len(pieces) != 1 || used != 0 {
		t.Errorf("gentle path split into %d pieces (%d splits)", len(pieces), used)
	}
}

func TestSplitPathZigzagBudget(t *testing.T) {
	var path []Vec3
	for i := range 12 {
		path = append(path, Vec3{float64(i), float64(i % 2), 0})
	}
	all, used := SplitPath(path, DefaultMaxPathSplits, 0)
	if used != 10 {
		t.Errorf("zigzag splits = %d, want 10", used)
	}
	if got := slices.Concat(all...); !slices.Equal(got, path) {
		t.Error("pieces do not reconstruct the zigzag")
	}

	bounded, used := SplitPath(path, 3, 0)
	if used != 3 || len(bounded) != 4 {
		t.Errorf("bounded split: %d pieces, %d splits; want 4, 3", len(bounded), used)
	}
	if got := slices.Concat(bounded...); !slices.Equal(got, path) {
		t.Error("bounded pieces do not reconstruct the zigzag")
	}
}

func TestPriorityFavorsLongerPath(t *testing.T) {
	styles := style.NewCache(nil)
	e := NewExtractor(styles, WithMeasurer(fixedMeasurer{}))
	d := &decoded.Tile{
		Techniques: []*technique.Technique{mustTech(t, map[string]any{"name": "text", "priority": 10.0})},
		TextPathGeometries: []decoded.TextPathGeometry{
			{Technique: 0, Text: "Short St", Path: flat(Vec3{0, 0, 0}, Vec3{10, 0, 0})},
			{Technique: 0, Text: "Long Ave", Path: flat(Vec3{0, 5, 0}, Vec3{40, 5, 0})},
		},
	}
	src := &fakeSource{zoom: 14.5}
	els := e.CreateTextElements(src, d)
	if len(els) != 2 {
		t.Fatalf("len = %d, want 2", len(els))
	}
	short, long := els[0], els[1]
	if long.Priority <= short.Priority {
		t.Errorf("long priority %v <= short priority %v", long.Priority, short.Priority)
	}
	if math.Abs(long.Priority-10.1) > 1e-9 {
		t.Errorf("longest path priority = %v, want 10.1", long.Priority)
	}
	if short.Width != 64 {
		t.Errorf("Width = %v, want 64", short.Width)
	}

	e.CreateTextElements(src, d)
	if src.prepared != 1 {
		t.Errorf("paths prepared %d times, want 1", src.prepared)
	}
}

func TestPriorityIgnoresSkippedPaths(t *testing.T) {
	long := flat(Vec3{0, 5, 0}, Vec3{400, 5, 0})
	tests := []struct {
		name     string
		skipped  decoded.TextPathGeometry
		disabled map[int]bool
	}{
		{"empty text", decoded.TextPathGeometry{Technique: 0, Text: "", Path: long}, nil},
		{"disabled technique", decoded.TextPathGeometry{Technique: 1, Text: "Hidden Rd", Path: long}, map[int]bool{1: true}},
		{"not a label technique", decoded.TextPathGeometry{Technique: 2, Text: "Border", Path: long}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor(style.NewCache(nil), WithMeasurer(fixedMeasurer{}))
			d := &decoded.Tile{
				Techniques: []*technique.Technique{
					mustTech(t, map[string]any{"name": "text", "priority": 10.0}),
					mustTech(t, map[string]any{"name": "text", "priority": 10.0}),
					mustTech(t, map[string]any{"name": "solid-line"}),
				},
				TextPathGeometries: []decoded.TextPathGeometry{
					tt.skipped,
					{Technique: 0, Text: "Main St", Path: flat(Vec3{0, 0, 0}, Vec3{40, 0, 0})},
				},
			}
			els := e.CreateTextElements(&fakeSource{zoom: 14, disabled: tt.disabled}, d)
			if len(els) != 1 {
				t.Fatalf("len = %d, want 1", len(els))
			}
			if math.Abs(els[0].Priority-10.1) > 1e-9 {
				t.Errorf("Priority = %v, want 10.1", els[0].Priority)
			}
		})
	}
}

func TestPointLabels(t *testing.T) {
	e := NewExtractor(style.NewCache(nil), WithMeasurer(nil))
	d := &decoded.Tile{
		Techniques: []*technique.Technique{
			mustTech(t, map[string]any{"name": "text", "mayOverlap": true}),
			mustTech(t, map[string]any{"name": "fill"}),
			mustTech(t, map[string]any{"name": "labeled-icon", "iconMinZoomLevel": 12.0, "imageTexture": "fallback"}),
		},
		TextGeometries: []decoded.TextGeometry{
			{
				Technique:     0,
				Positions:     decoded.NewFloat32Attribute("position", 3, []float32{1, 2, 0, 3, 4, 0, 5, 6, 0}),
				Texts:         []int{0, 7, 1},
				StringCatalog: []string{"Lake", "Hill"},
				FeatureIDs:    []uint64{100, 101, 102},
			},
			{Technique: 1, Positions: decoded.NewFloat32Attribute("position", 3, []float32{0, 0, 0}), Texts: []int{0}, StringCatalog: []string{"ignored"}},
		},
		PoiGeometries: []decoded.PoiGeometry{{
			TextGeometry: decoded.TextGeometry{
				Technique:     2,
				Positions:     decoded.NewFloat32Attribute("position", 3, []float32{9, 9, 0, 8, 8, 0}),
				Texts:         []int{0, 0},
				StringCatalog: []string{"Cafe"},
			},
			ImageTextures: []int{0, 5},
			ImageCatalog:  []string{"cafe-icon"},
		}},
	}
	els := e.CreateTextElements(&fakeSource{zoom: 13}, d)
	if len(els) != 4 {
		t.Fatalf("len = %d, want 4 (missing catalog entry and fill skipped)", len(els))
	}
	if els[1].Text != "Hill" || els[1].Position != (Vec3{5, 6, 0}) || els[1].FeatureID != 102 {
		t.Errorf("second label = %+v", els[1])
	}
	if !els[0].MayOverlap || !els[0].ReserveSpace || els[0].IsPath() {
		t.Errorf("label flags = %+v", els[0])
	}
	if els[2].Poi == nil || els[2].Poi.ImageTexture != "cafe-icon" || els[2].Poi.IconMinZoom != 12 {
		t.Errorf("poi = %+v", els[2].Poi)
	}
	if els[3].Poi.ImageTexture != "fallback" {
		t.Errorf("poi with bad image index = %q, want technique fallback", els[3].Poi.ImageTexture)
	}
}

func TestDisabledTechniqueSkipped(t *testing.T) {
	e := NewExtractor(style.NewCache(nil), WithMeasurer(fixedMeasurer{}))
	d := &decoded.Tile{
		Techniques: []*technique.Technique{mustTech(t, map[string]any{"name": "text"})},
		TextPathGeometries: []decoded.TextPathGeometry{
			{Technique: 0, Text: "Road", Path: flat(Vec3{0, 0, 0}, Vec3{1, 0, 0})},
		},
	}
	if els := e.CreateTextElements(&fakeSource{disabled: map[int]bool{0: true}}, d); len(els) != 0 {
		t.Errorf("len = %d, want 0", len(els))
	}
}

func TestShapingMeasurer(t *testing.T) {
	m, err := DefaultMeasurer()
	if err != nil {
		t.Fatalf("DefaultMeasurer: %v", err)
	}
	short, dir := m.Measure("Main", 16)
	long, _ := m.Measure("Main Street", 16)
	if short <= 0 || long <= short {
		t.Errorf("widths = %v, %v; want 0 < short < long", short, long)
	}
	if dir != LeftToRight {
		t.Errorf("direction = %v, want ltr", dir)
	}
	big, _ := m.Measure("Main", 32)
	if math.Abs(big-2*short) > 1 {
		t.Errorf("width at 32 = %v, want about %v", big, 2*short)
	}
	if w, _ := m.Measure("", 16); w != 0 {
		t.Errorf("empty width = %v, want 0", w)
	}
}

func TestTextDirection(t *testing.T) {
	if got := TextDirection("Hello"); got != LeftToRight {
		t.Errorf("TextDirection(Hello) = %v, want ltr", got)
	}
	if got := TextDirection("שלום"); got == LeftToRight {
		t.Errorf("TextDirection(hebrew) = %v, want rtl or mixed", got)
	}
	if got := TextDirection("Main שלום"); got != Mixed {
		t.Errorf("TextDirection(mixed) = %v, want mixed", got)
	}
}
