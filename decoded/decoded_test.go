package decoded

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/mapview/technique"
)

const tileJSON = `{
  "techniques": [
    {"name": "fill", "renderOrder": 1, "color": "#00f", "kind": "water"},
    {"name": "text", "priority": 5}
  ],
  "geometries": [{
    "type": "polygon",
    "vertexAttributes": [{"name": "position", "itemCount": 3, "values": [0,0,0, 1,0,0, 1,1,0, 0,1,0]}],
    "index": {"name": "index", "type": "uint16", "values": [0,1,2, 0,2,3]},
    "groups": [{"technique": 0, "start": 0, "count": 3}, {"technique": 0, "start": 3, "count": 3}],
    "featureIds": [42]
  }],
  "textPathGeometries": [{"technique": 1, "path": [0,0,0, 10,0,0], "text": "Main St", "featureId": 7}],
  "textGeometries": [{"technique": 1, "positions": {"itemCount": 3, "values": [5,5,0]}, "texts": [0], "stringCatalog": ["Lake"]}],
  "poiGeometries": [{"technique": 1, "positions": {"itemCount": 3, "values": [1,2,3]}, "texts": [0], "stringCatalog": ["Cafe"], "imageTextures": [0], "imageCatalog": ["cafe-icon"]}]
}`

func TestDecode(t *testing.T) {
	d, err := Decode(strings.NewReader(tileJSON))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(d.Techniques) != 2 || d.Techniques[1].Index != 1 {
		t.Fatalf("techniques = %v", d.Techniques)
	}
	if d.Technique(0).Name != technique.KindFill {
		t.Errorf("Technique(0).Name = %v, want fill", d.Technique(0).Name)
	}
	if d.Technique(9) != nil {
		t.Error("Technique(9) != nil")
	}

	g := d.Geometries[0]
	if g.Type != Polygon {
		t.Errorf("Type = %v, want polygon", g.Type)
	}
	pos, ok := g.Attribute("position")
	if !ok {
		t.Fatal("missing position attribute")
	}
	if pos.Count() != 4 {
		t.Errorf("position Count() = %d, want 4", pos.Count())
	}
	fs, err := pos.Float32s()
	if err != nil || fs[6] != 1 {
		t.Errorf("Float32s() = %v, %v", fs, err)
	}
	idx, err := g.Index.Uint32s()
	if err != nil {
		t.Fatalf("Uint32s: %v", err)
	}
	if want := []uint32{0, 1, 2, 0, 2, 3}; !slices.Equal(idx, want) {
		t.Errorf("index = %v, want %v", idx, want)
	}
	if g.Groups[1].End() != 6 {
		t.Errorf("Groups[1].End() = %d, want 6", g.Groups[1].End())
	}

	if p := d.TextPathGeometries[0]; p.Vertices() != 2 || p.Text != "Main St" || p.FeatureID != 7 {
		t.Errorf("text path = %+v", p)
	}
	if tg := d.TextGeometries[0]; tg.StringCatalog[0] != "Lake" || tg.Positions.Count() != 1 {
		t.Errorf("text geometry = %+v", tg)
	}
	if pg := d.PoiGeometries[0]; pg.ImageCatalog[0] != "cafe-icon" || pg.StringCatalog[0] != "Cafe" {
		t.Errorf("poi geometry = %+v", pg)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"unknown geometry type", `{"geometries": [{"type": "blob"}]}`},
		{"bad element type", `{"geometries": [{"index": {"type": "float64", "values": [1]}}]}`},
		{"negative group", `{"geometries": [{"groups": [{"technique": 0, "start": -1, "count": 2}]}]}`},
		{"ragged path", `{"textPathGeometries": [{"path": [1, 2]}]}`},
		{"bad interpolation", `{"techniques": [{"name": "fill", "color": {"interpolation": "Cubic", "zoomLevels": [1], "values": [1]}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.json)); err == nil {
				t.Error("Decode succeeded, want error")
			}
		})
	}
}

func TestBufferViews(t *testing.T) {
	f := NewFloat32Attribute("position", 2, []float32{1.5, -2, 3, 4})
	if _, err := f.Uint32s(); !errors.Is(err, ErrUnsupportedBuffer) {
		t.Errorf("Uint32s on float buffer: err = %v, want ErrUnsupportedBuffer", err)
	}
	got, err := f.Float64s()
	if err != nil || got[0] != 1.5 || got[1] != -2 {
		t.Errorf("Float64s() = %v, %v", got, err)
	}

	u := NewUint32Attribute("index", []uint32{7, 8})
	if _, err := u.Float32s(); !errors.Is(err, ErrUnsupportedBuffer) {
		t.Errorf("Float32s on uint32 buffer: err = %v, want ErrUnsupportedBuffer", err)
	}
	if got, _ := u.Uint32s(); !slices.Equal(got, []uint32{7, 8}) {
		t.Errorf("Uint32s() = %v", got)
	}

	n := BufferAttribute{Type: Uint8, Normalized: true, Buffer: []byte{0, 255}}
	if got, _ := n.Float64s(); got[1] != 1 {
		t.Errorf("normalized Float64s() = %v, want [0 1]", got)
	}
}
