package technique

import (
	"context"
	"math"
	"testing"

	"github.com/gogpu/mapview/color"
	"github.com/gogpu/mapview/theme"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		if got := ParseKind(k.String()); got != k {
			t.Errorf("ParseKind(%q) = %v, want %v", k.String(), got, k)
		}
	}
	if got := ParseKind("hologram"); got != KindUnknown {
		t.Errorf("ParseKind(hologram) = %v, want %v", got, KindUnknown)
	}
}

func TestParseKindSet(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"nil", nil, nil},
		{"string", "road", []string{"road"}},
		{"array", []any{"road", "water"}, []string{"road", "water"}},
		{"strings", []string{"water"}, []string{"water"}},
		{"set", NewKindSet("park"), []string{"park"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseKindSet(tt.in)
			if !got.Equal(NewKindSet(tt.want...)) {
				t.Errorf("ParseKindSet(%v) = %v, want %v", tt.in, got.Slice(), tt.want)
			}
		})
	}
}

func TestEnableRule(t *testing.T) {
	tests := []struct {
		name     string
		kind     GeometryKindSet
		enabled  GeometryKindSet
		disabled GeometryKindSet
		want     EnableState
	}{
		{"no kind", nil, nil, NewKindSet("road"), Enabled},
		{"not disabled", NewKindSet("road"), nil, NewKindSet("water"), Enabled},
		{"disabled", NewKindSet("road"), nil, NewKindSet("road"), Disabled},
		{"enable overrides", NewKindSet("road"), NewKindSet("road"), NewKindSet("road"), Enabled},
		{"partial match disables", NewKindSet("road", "bridge"), nil, NewKindSet("bridge"), Disabled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			techs := []*Technique{{Name: KindSolidLine, GeometryKind: tt.kind}}
			table := NewEnableTable(len(techs))
			table.Evaluate(techs, tt.enabled, tt.disabled)
			if got := table.State(0); got != tt.want {
				t.Errorf("State(0) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnableIdempotent(t *testing.T) {
	techs := []*Technique{
		{Name: KindFill, GeometryKind: NewKindSet("water")},
		{Name: KindSolidLine, GeometryKind: NewKindSet("road")},
		{Name: KindLine},
	}
	table := NewEnableTable(len(techs))
	table.Evaluate(techs, nil, NewKindSet("road"))
	first := []EnableState{table.State(0), table.State(1), table.State(2)}

	// A second pass with different sets must not change anything.
	table.Evaluate(techs, NewKindSet("road"), NewKindSet("water"))
	for i, want := range first {
		if got := table.State(i); got != want {
			t.Errorf("State(%d) after second pass = %v, want %v", i, got, want)
		}
	}
	if first[1] != Disabled {
		t.Errorf("road technique = %v, want %v", first[1], Disabled)
	}
}

func TestEnableGrowsAndSkipsNil(t *testing.T) {
	table := NewEnableTable(0)
	table.Evaluate([]*Technique{nil, {Name: KindFill}}, nil, nil)
	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}
	if table.State(0) != Unevaluated {
		t.Errorf("nil technique state = %v, want %v", table.State(0), Unevaluated)
	}
	if !table.Enabled(1) {
		t.Error("Enabled(1) = false, want true")
	}
	if table.State(7) != Unevaluated {
		t.Errorf("out of range state = %v, want %v", table.State(7), Unevaluated)
	}
}

func TestInterpolatedNumbers(t *testing.T) {
	tests := []struct {
		name string
		mode InterpolationMode
		zoom float64
		want float64
	}{
		{"below", Linear, 2, 1},
		{"above", Linear, 30, 5},
		{"linear mid", Linear, 12, 3},
		{"discrete mid", Discrete, 12, 1},
		{"discrete on stop", Discrete, 14, 5},
		{"exponential start", Exponential, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Interpolated{Mode: tt.mode, ZoomLevels: []float64{10, 14}, Values: []any{1.0, 5.0}}
			got, ok := p.At(tt.zoom).(float64)
			if !ok || math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("At(%v) = %v, want %v", tt.zoom, p.At(tt.zoom), tt.want)
			}
		})
	}
}

func TestInterpolatedExponentialBelowLinear(t *testing.T) {
	lin := &Interpolated{Mode: Linear, ZoomLevels: []float64{0, 4}, Values: []any{0.0, 16.0}}
	exp := &Interpolated{Mode: Exponential, ZoomLevels: []float64{0, 4}, Values: []any{0.0, 16.0}}
	l := lin.At(2).(float64)
	e := exp.At(2).(float64)
	if e >= l {
		t.Errorf("exponential At(2) = %v, want less than linear %v", e, l)
	}
}

func TestInterpolatedColors(t *testing.T) {
	p := &Interpolated{Mode: Linear, ZoomLevels: []float64{0, 10}, Values: []any{"#000000", "#ffffff"}}
	c, ok := p.At(5).(color.RGBA)
	if !ok {
		t.Fatalf("At(5) = %T, want color.RGBA", p.At(5))
	}
	if math.Abs(c.R-0.5) > 1e-9 {
		t.Errorf("At(5).R = %v, want 0.5", c.R)
	}
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue(map[string]any{
		"interpolation": "Linear",
		"zoomLevels":    []any{10.0, 20.0},
		"values":        []any{0.0, 10.0},
	})
	if err != nil {
		t.Fatalf("ParseValue: %v", err)
	}
	if !v.IsInterpolated() {
		t.Fatal("IsInterpolated() = false, want true")
	}
	if got := v.At(15); got != 5.0 {
		t.Errorf("At(15) = %v, want 5", got)
	}

	plain, err := ParseValue(map[string]any{"x": 1.0})
	if err != nil || plain.IsInterpolated() {
		t.Errorf("plain object: interpolated = %v, err = %v", plain.IsInterpolated(), err)
	}

	bad := []map[string]any{
		{"interpolation": "Cubic", "zoomLevels": []any{1.0}, "values": []any{1.0}},
		{"interpolation": "Linear", "values": []any{1.0}},
		{"interpolation": "Linear", "zoomLevels": []any{1.0, 2.0}, "values": []any{1.0}},
		{"interpolation": "Linear", "zoomLevels": []any{2.0, 1.0}, "values": []any{1.0, 2.0}},
	}
	for i, m := range bad {
		if _, err := ParseValue(m); err == nil {
			t.Errorf("bad[%d]: ParseValue succeeded, want error", i)
		}
	}
}

func TestParseTechnique(t *testing.T) {
	tech, err := Parse(map[string]any{
		"name":        "solid-line",
		"index":       3.0,
		"renderOrder": 12.0,
		"kind":        []any{"road"},
		"lineWidth":   4.0,
		"color":       "#ff0000",
		"transparent": true,
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tech.Name != KindSolidLine || tech.Index != 3 || tech.RenderOrder != 12 {
		t.Errorf("Parse = %v order %v, want solid-line#3 order 12", tech, tech.RenderOrder)
	}
	if !tech.GeometryKind.Has("road") {
		t.Errorf("GeometryKind = %v, want road", tech.GeometryKind.Slice())
	}
	if tech.Has("name") || tech.Has("kind") {
		t.Error("reserved keys leaked into attributes")
	}
	if got := tech.FloatAt("lineWidth", 10, 1); got != 4 {
		t.Errorf("FloatAt(lineWidth) = %v, want 4", got)
	}
	if got := tech.FloatAt("missing", 10, 7); got != 7 {
		t.Errorf("FloatAt(missing) = %v, want 7", got)
	}
	if got := tech.ColorAt("color", 10, color.Black); got != color.Red {
		t.Errorf("ColorAt(color) = %v, want %v", got, color.Red)
	}
	if !tech.BoolAt("transparent", 10, false) {
		t.Error("BoolAt(transparent) = false, want true")
	}

	unknown, err := Parse(map[string]any{"name": "sparkles"})
	if err != nil || unknown.Name != KindUnknown {
		t.Errorf("Parse(sparkles) = %v, %v; want unknown kind", unknown, err)
	}
}

func TestCompile(t *testing.T) {
	order := 5.0
	th := &theme.Theme{Styles: map[string]theme.StyleSet{
		"tilezen": {
			{Technique: "fill", RenderOrder: &order, Attr: map[string]any{"color": "#00ff00", "kind": "water"}},
			{Technique: "solid-line", Attr: map[string]any{"lineWidth": 2.0}},
		},
	}}
	techs, errs := Compile(th, "tilezen")
	if len(errs) != 0 {
		t.Fatalf("Compile errors: %v", errs)
	}
	if len(techs) != 2 {
		t.Fatalf("len = %d, want 2", len(techs))
	}
	if techs[0].Name != KindFill || techs[0].RenderOrder != 5 || !techs[0].GeometryKind.Has("water") {
		t.Errorf("techs[0] = %v order %v kinds %v", techs[0], techs[0].RenderOrder, techs[0].GeometryKind.Slice())
	}
	if techs[1].Index != 1 || techs[1].StyleSet != "tilezen" || techs[1].StyleIndex != 1 {
		t.Errorf("techs[1] = %+v", techs[1])
	}
}

func TestCompileKeepsIndicesAfterBadReference(t *testing.T) {
	th := &theme.Theme{
		Definitions: map[string]theme.Definition{"justAColor": theme.Literal("#f00")},
		Styles: map[string]theme.StyleSet{"tilezen": {
			{Technique: "fill"},
			{Ref: "justAColor"},
			{Technique: "solid-line"},
		}},
	}
	expanded, err := theme.NewLoader().ExpandReferences(context.Background(), th)
	if err != nil {
		t.Fatalf("ExpandReferences: %v", err)
	}
	techs, errs := Compile(expanded, "tilezen")
	if len(errs) != 0 {
		t.Fatalf("Compile errors: %v", errs)
	}
	if len(techs) != 3 {
		t.Fatalf("len = %d, want 3", len(techs))
	}
	if techs[1].Name != KindUnknown {
		t.Errorf("techs[1].Name = %v, want unknown", techs[1].Name)
	}
	if techs[2].Name != KindSolidLine || techs[2].StyleIndex != 2 {
		t.Errorf("techs[2] = %v at style index %d, want solid-line at 2", techs[2], techs[2].StyleIndex)
	}
}

func TestOpacityClamped(t *testing.T) {
	tech := &Technique{Attrs: map[string]Value{"opacity": Constant(3.0)}}
	if got := tech.OpacityAt("opacity", 0, 1); got != 1 {
		t.Errorf("OpacityAt = %v, want 1", got)
	}
}
