package tile

import (
	"testing"
	"time"

	"github.com/paulmach/orb/maptile"

	"github.com/gogpu/mapview/decoded"
	"github.com/gogpu/mapview/label"
	"github.com/gogpu/mapview/render"
	"github.com/gogpu/mapview/technique"
)

func TestBindResetsState(t *testing.T) {
	tl := New("osm", maptile.New(1, 2, 3))
	if tl.Zoom() != 3 {
		t.Errorf("Zoom() = %v, want 3", tl.Zoom())
	}
	d := &decoded.Tile{Techniques: []*technique.Technique{{Name: technique.KindFill}}}
	if !tl.Bind(d) {
		t.Fatal("first Bind reported no change")
	}
	tl.MarkCreated(GroupKey{0, 1})
	prepared := 0
	prepare := func() []label.PreparedPath {
		prepared++
		return []label.PreparedPath{{Text: "a"}}
	}
	tl.PreparedPaths(prepare)
	tl.PreparedPaths(prepare)
	if prepared != 1 {
		t.Errorf("prepare called %d times, want 1", prepared)
	}

	if tl.Bind(d) {
		t.Error("rebinding the same tile reported a change")
	}
	if !tl.Created(GroupKey{0, 1}) {
		t.Error("rebinding the same tile forgot created groups")
	}

	tl.Bind(&decoded.Tile{})
	if tl.Created(GroupKey{0, 1}) {
		t.Error("binding new data kept created groups")
	}
	tl.PreparedPaths(prepare)
	if prepared != 2 {
		t.Errorf("prepare called %d times after rebind, want 2", prepared)
	}
}

func TestObjectsOfKind(t *testing.T) {
	tl := New("osm", maptile.New(0, 0, 0))
	road := &render.Object{UserData: render.UserData{GeometryKind: technique.NewKindSet("road")}}
	water := &render.Object{UserData: render.UserData{GeometryKind: technique.NewKindSet("water", "area")}}
	tl.AddObject(road)
	tl.AddObject(water)
	if got := tl.ObjectsOfKind("area"); len(got) != 1 || got[0] != water {
		t.Errorf("ObjectsOfKind(area) = %v", got)
	}
	if got := tl.ObjectsOfKind("building"); len(got) != 0 {
		t.Errorf("ObjectsOfKind(building) = %v", got)
	}
	tl.AddTextElements(&label.TextElement{Text: "x"})
	tl.MarkCreated(GroupKey{0, 0})
	tl.ClearObjects()
	if len(tl.Objects()) != 0 || len(tl.TextElements()) != 0 {
		t.Error("ClearObjects left objects or labels")
	}
	if tl.Created(GroupKey{0, 0}) {
		t.Error("ClearObjects kept created groups")
	}
}

func TestWorldBound(t *testing.T) {
	tl := New("osm", maptile.New(0, 0, 0))
	b := tl.WorldBound()
	const half = 20037508.342789244
	if b.Min[0] > -half+1 || b.Max[0] < half-1 {
		t.Errorf("WorldBound() x = [%v, %v], want about ±%v", b.Min[0], b.Max[0], half)
	}
	if b.Max[1] <= b.Min[1] {
		t.Errorf("WorldBound() y = [%v, %v] is empty", b.Min[1], b.Max[1])
	}
}

func TestTick(t *testing.T) {
	tl := New("osm", maptile.New(0, 0, 1))
	if tl.Tick(time.Now()) || tl.Animating() {
		t.Error("tile without animation wants frames")
	}
	a := tl.ExtrusionAnimation(100 * time.Millisecond)
	if tl.ExtrusionAnimation(time.Second) != a {
		t.Error("ExtrusionAnimation created a second animation")
	}
	a.Add(render.NewMaterial("m", render.Mesh))
	t0 := time.Now()
	if !tl.Tick(t0) || !tl.Animating() {
		t.Error("running animation wants no frames")
	}
	if tl.Tick(t0.Add(time.Second)) {
		t.Error("finished animation wants frames")
	}
}
