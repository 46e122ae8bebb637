package mapview

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/paulmach/orb/maptile"

	"github.com/gogpu/mapview/color"
	"github.com/gogpu/mapview/decoded"
	"github.com/gogpu/mapview/geometry"
	"github.com/gogpu/mapview/technique"
	"github.com/gogpu/mapview/theme"
)

var testFS = fstest.MapFS{
	"themes/base.json": {Data: []byte(`{
		"clearColor": "#336699",
		"definitions": {
			"roadColor": {"type": "color", "value": "#ff0000"},
			"roadStyle": {"technique": "solid-line", "attr": {"lineWidth": 3, "color": {"$ref": "roadColor"}, "kind": "road"}}
		},
		"styles": {
			"tilezen": [
				{"$ref": "roadStyle", "when": "kind == 'road'", "renderOrder": 10},
				{"technique": "fill", "renderOrder": 1, "attr": {"color": "#00ff00", "kind": "park"}},
				{"technique": "extruded-polygon", "renderOrder": 5, "attr": {"color": "#cccccc", "opacity": 0.8, "animateExtrusion": true, "kind": "building"}}
			]
		}
	}`)},
	"themes/night.json": {Data: []byte(`{
		"extends": "base.json",
		"definitions": {"roadColor": {"type": "color", "value": "#ffffff"}}
	}`)},
}

func newTestView(opts ...Option) *View {
	opts = append([]Option{WithLoaderOptions(theme.WithFetcher(theme.FSFetcher{FS: testFS}))}, opts...)
	return New(opts...)
}

func TestLoadThemeAndCompile(t *testing.T) {
	v := newTestView()
	th, err := v.LoadTheme(context.Background(), theme.FromURL("file:///themes/night.json"))
	if err != nil {
		t.Fatalf("LoadTheme: %v", err)
	}
	if v.Theme() != th {
		t.Error("Theme() is not the loaded theme")
	}
	techs, err := v.Techniques("tilezen")
	if err != nil {
		t.Fatalf("Techniques: %v", err)
	}
	if len(techs) != 3 {
		t.Fatalf("len(techs) = %d, want 3", len(techs))
	}
	road := techs[0]
	if road.Name != technique.KindSolidLine {
		t.Errorf("road kind = %v, want solid-line", road.Name)
	}
	if got := road.ColorAt("color", 14, color.Black); got != color.White {
		t.Errorf("road color = %v, want child theme white", got)
	}
	if got := road.FloatAt("lineWidth", 14, 0); got != 3 {
		t.Errorf("road lineWidth = %v, want 3 from the style definition", got)
	}
	again, _ := v.Techniques("tilezen")
	if &again[0] != &techs[0] {
		t.Error("Techniques recompiled a cached style set")
	}
	if _, err := v.Techniques("missing"); err == nil {
		t.Error("unknown style set: err = nil")
	}
}

func TestLoadThemeFailureKeepsTheme(t *testing.T) {
	v := newTestView()
	before := v.Theme()
	_, err := v.LoadTheme(context.Background(), theme.FromURL("file:///themes/none.json"))
	if !errors.Is(err, theme.ErrLoad) {
		t.Fatalf("err = %v, want ErrLoad", err)
	}
	if v.Theme() != before {
		t.Error("failed load replaced the theme")
	}
}

func TestBuildTile(t *testing.T) {
	v := newTestView(WithBackground(), WithDisabledKinds("park"))
	if _, err := v.LoadTheme(context.Background(), theme.FromURL("file:///themes/base.json")); err != nil {
		t.Fatalf("LoadTheme: %v", err)
	}
	techs, err := v.Techniques("tilezen")
	if err != nil {
		t.Fatalf("Techniques: %v", err)
	}

	idx := decoded.NewUint32Attribute("index", []uint32{0, 1, 2, 0, 2, 3})
	pos := decoded.NewFloat32Attribute("position", 3, make([]float32, 12))
	d := &decoded.Tile{
		Techniques: techs,
		Geometries: []decoded.Geometry{{
			Type:             decoded.Polygon,
			VertexAttributes: []decoded.BufferAttribute{pos},
			Index:            &idx,
			Groups: []decoded.Group{
				{Technique: 0, Start: 0, Count: 3},
				{Technique: 1, Start: 3, Count: 3},
				{Technique: 2, Start: 0, Count: 6},
			},
		}},
	}

	tl := v.NewTile("osm", maptile.New(1, 1, 2))
	v.BuildTile(tl, d)

	names := map[string]int{}
	for _, o := range tl.Objects() {
		names[o.Name]++
	}
	if names[geometry.BackgroundKind] != 1 || names["solid-line"] != 1 || names["fill"] != 0 {
		t.Errorf("objects = %v", names)
	}
	if bg := tl.ObjectsOfKind(geometry.BackgroundKind); len(bg) != 1 || bg[0].Material.Color != color.Hex("#336699") {
		t.Errorf("background = %v", bg)
	}

	now := time.Now()
	if !v.Tick(now, tl) {
		t.Error("Tick reported no animation for an animated extrusion")
	}
	if v.Tick(now.Add(time.Second), tl) {
		t.Error("Tick still animating after the default duration")
	}
}

func TestSetThemeResetsCaches(t *testing.T) {
	v := New()
	styles := v.Styles()
	v.SetTheme(nil)
	if v.Styles() == styles {
		t.Error("SetTheme kept the previous style cache")
	}
	if v.Theme() == nil {
		t.Error("SetTheme(nil) left no theme")
	}
}

func TestBuildTiles(t *testing.T) {
	v := newTestView(WithWorkers(2))
	defer v.Close()
	if _, err := v.LoadTheme(context.Background(), theme.FromURL("file:///themes/base.json")); err != nil {
		t.Fatalf("LoadTheme: %v", err)
	}
	techs, err := v.Techniques("tilezen")
	if err != nil {
		t.Fatalf("Techniques: %v", err)
	}

	idx := decoded.NewUint32Attribute("index", []uint32{0, 1, 2})
	pos := decoded.NewFloat32Attribute("position", 3, make([]float32, 9))
	d := &decoded.Tile{
		Techniques: techs,
		Geometries: []decoded.Geometry{{
			Type:             decoded.Line,
			VertexAttributes: []decoded.BufferAttribute{pos},
			Index:            &idx,
			Groups:           []decoded.Group{{Technique: 0, Start: 0, Count: 3}},
		}},
	}

	builds := make([]Build, 8)
	for i := range builds {
		builds[i] = Build{Tile: v.NewTile("osm", maptile.New(uint32(i), 0, 3)), Data: d}
	}
	if err := v.BuildTiles(context.Background(), builds...); err != nil {
		t.Fatalf("BuildTiles: %v", err)
	}
	for _, b := range builds {
		if got := len(b.Tile.ObjectsOfKind("road")); got != 1 {
			t.Errorf("tile %v: road objects = %d, want 1", b.Tile.Key(), got)
		}
	}

	if err := v.BuildTiles(context.Background(), Build{Data: d}); err == nil {
		t.Error("BuildTiles without a tile returned nil error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := v.BuildTiles(ctx, builds[0]); !errors.Is(err, context.Canceled) {
		t.Errorf("BuildTiles(canceled) error = %v, want %v", err, context.Canceled)
	}
}

const labelTileJSON = `{
  "techniques": [{"name": "text", "size": 14, "styleSet": "tilezen", "styleIndex": 4}],
  "textGeometries": [{"technique": 0, "positions": {"itemCount": 3, "values": [5,5,0]}, "texts": [0], "stringCatalog": ["Lake"]}]
}`

func TestStyleCacheSharedAcrossTiles(t *testing.T) {
	v := newTestView(WithMeasurer(nil))
	for x := range uint32(5) {
		d, err := decoded.Decode(strings.NewReader(labelTileJSON))
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		tl := v.NewTile("osm", maptile.New(x, 0, 14))
		v.BuildTile(tl, d)
		if got := len(tl.TextElements()); got != 1 {
			t.Fatalf("tile %d: labels = %d, want 1", x, got)
		}
	}
	render, layout := v.Styles().Stats()
	if render.Len != 1 || render.Hits != 4 || render.Misses != 1 {
		t.Errorf("render style stats = %+v, want 1 entry, 4 hits, 1 miss", render)
	}
	if layout.Len != 1 {
		t.Errorf("layout style entries = %d, want 1", layout.Len)
	}
}
