package color

import (
	"math"
	"testing"

	mapcolor "github.com/gogpu/mapview/color"
)

func TestToLinear(t *testing.T) {
	for i := 0; i < 256; i++ {
		s := float64(i) / 255
		want := decode(s)
		if got := float64(ToLinear(s)); math.Abs(got-want) > 1e-6 {
			t.Errorf("ToLinear(%v) = %v, want %v", s, got, want)
		}
	}
	if got := ToLinear(-1); got != 0 {
		t.Errorf("ToLinear(-1) = %v, want 0", got)
	}
	if got := ToLinear(2); got != 1 {
		t.Errorf("ToLinear(2) = %v, want 1", got)
	}
}

func TestLinear(t *testing.T) {
	tests := []struct {
		name    string
		c       mapcolor.RGBA
		opacity float64
		want    [4]float32
	}{
		{"white", mapcolor.White, 1, [4]float32{1, 1, 1, 1}},
		{"half white", mapcolor.White, 0.5, [4]float32{0.5, 0.5, 0.5, 0.5}},
		{"black", mapcolor.Black, 1, [4]float32{0, 0, 0, 1}},
		{"transparent", mapcolor.White, 0, [4]float32{0, 0, 0, 0}},
		{"overdriven", mapcolor.White, 3, [4]float32{1, 1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Linear(tt.c, tt.opacity); got != tt.want {
				t.Errorf("Linear() = %v, want %v", got, tt.want)
			}
		})
	}

	mid := Linear(mapcolor.RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1}, 1)
	if mid[0] >= 0.5 || mid[0] < 0.2 {
		t.Errorf("Linear(gray)[0] = %v, want gamma-decoded value near 0.214", mid[0])
	}
}
