package physics

import (
	"errors"
	"math"
	"testing"
)

const testStep = 1.0 / 60.0

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	return cat
}

func TestCreateBodyPose(t *testing.T) {
	w := NewWorld(Vec2{X: 0, Y: -60})
	def, _ := testCatalog(t).Resolve("banana")

	id, err := w.CreateBody(def, 0.05, 0.05, 12.5, 70, 0.3)
	if err != nil {
		t.Fatalf("CreateBody: %v", err)
	}
	if id == 0 {
		t.Fatal("CreateBody returned the zero handle")
	}

	pose, ok := w.Pose(id)
	if !ok {
		t.Fatal("Pose reported dead handle")
	}
	if math.Abs(pose.X-12.5) > 1e-9 || math.Abs(pose.Y-70) > 1e-9 || math.Abs(pose.Angle-0.3) > 1e-9 {
		t.Errorf("pose = %+v, want (12.5, 70, 0.3)", pose)
	}
	if w.IsStatic(id) {
		t.Error("created body should be dynamic")
	}
	if w.BodyCount() != 1 {
		t.Errorf("BodyCount() = %d, want 1", w.BodyCount())
	}
}

func TestCreateBodyRejects(t *testing.T) {
	w := NewWorld(Vec2{Y: -60})
	def, _ := testCatalog(t).Resolve("orange")

	if _, err := w.CreateBody(nil, 1, 1, 0, 0, 0); err == nil {
		t.Error("expected error for nil shape")
	}
	if _, err := w.CreateBody(def, 0, 1, 0, 0, 0); err == nil {
		t.Error("expected error for zero scale")
	}
	if w.BodyCount() != 0 {
		t.Errorf("rejected bodies leaked: BodyCount() = %d", w.BodyCount())
	}
}

func TestCreateBodyRejectsDegeneratePolygons(t *testing.T) {
	tests := []struct {
		name  string
		poly  []float64
		scale float64
	}{
		{"collinear", []float64{0, 0, 10, 0, 20, 0}, 0.05},
		{"welded at scale", []float64{0, 0, 0.04, 0, 0, 0.04}, 0.05},
		{"sliver", []float64{0, 0, 100, 0, 50, 1e-9}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorld(Vec2{Y: -60})
			def := &ShapeDefinition{
				Name:     "stick",
				Fixtures: []FixtureDefinition{{Density: 1, Polygons: [][]float64{tt.poly}}},
			}
			if _, err := w.CreateBody(def, tt.scale, tt.scale, 0, 0, 0); err == nil {
				t.Fatal("expected error for degenerate polygon")
			}
			if w.BodyCount() != 0 {
				t.Errorf("rejected body leaked: BodyCount() = %d", w.BodyCount())
			}
		})
	}
}

func TestCheckPolygonAcceptsTriangle(t *testing.T) {
	if err := checkPolygon([]Vec2{{0, 0}, {1, 0}, {0, 1}}); err != nil {
		t.Errorf("checkPolygon: %v", err)
	}
	if a := polygonArea(convexHull([]Vec2{{0, 0}, {1, 0}, {0.5, 0}, {1, 1}, {0, 1}})); math.Abs(a-1) > 1e-12 {
		t.Errorf("hull area = %v, want 1", a)
	}
}

func TestBodiesFallUnderGravity(t *testing.T) {
	w := NewWorld(Vec2{Y: -60})
	def, _ := testCatalog(t).Resolve("orange")
	id, err := w.CreateBody(def, 0.05, 0.05, 10, 80, 0)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 30; i++ {
		if err := w.Step(testStep, 6, 2); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}

	pose, _ := w.Pose(id)
	if pose.Y >= 80 {
		t.Errorf("body did not fall: y = %v", pose.Y)
	}
	if math.Abs(pose.X-10) > 1e-6 {
		t.Errorf("body drifted sideways without contacts: x = %v", pose.X)
	}
	if w.StepCount() != 30 {
		t.Errorf("StepCount() = %d, want 30", w.StepCount())
	}
}

func TestGroundStopsFall(t *testing.T) {
	w := NewWorld(Vec2{Y: -60})
	g := NewGround(1, 1)
	if err := g.Resize(w, 50); err != nil {
		t.Fatal(err)
	}

	def, _ := testCatalog(t).Resolve("orange")
	id, err := w.CreateBody(def, 0.05, 0.05, 20, 10, 0)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 600; i++ {
		if err := w.Step(testStep, 6, 2); err != nil {
			t.Fatal(err)
		}
	}

	pose, _ := w.Pose(id)
	// Circle center sits 2.9 above the origin with radius 2.8, and the ground
	// top face is at y = 1, so the origin rests near y = 0.9.
	if pose.Y < 0.5 || pose.Y > 1.5 {
		t.Errorf("body should rest on the ground, y = %v", pose.Y)
	}
}

func TestStepValidation(t *testing.T) {
	tests := []struct {
		name   string
		dt     float64
		vi, pi int
	}{
		{"zero dt", 0, 6, 2},
		{"negative dt", -testStep, 6, 2},
		{"nan dt", math.NaN(), 6, 2},
		{"inf dt", math.Inf(1), 6, 2},
		{"zero velocity iterations", testStep, 0, 2},
		{"zero position iterations", testStep, 6, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorld(Vec2{Y: -60})
			err := w.Step(tt.dt, tt.vi, tt.pi)
			var invalid *InvalidStepError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected *InvalidStepError, got %v", err)
			}
			if w.StepCount() != 0 {
				t.Error("rejected step was counted")
			}
		})
	}
}

func TestStepRejectsVariableDt(t *testing.T) {
	w := NewWorld(Vec2{Y: -60})
	if err := w.Step(testStep, 6, 2); err != nil {
		t.Fatal(err)
	}

	err := w.Step(testStep*2, 6, 2)
	var invalid *InvalidStepError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected *InvalidStepError, got %v", err)
	}
	if invalid.Expected != testStep {
		t.Errorf("Expected = %v, want %v", invalid.Expected, testStep)
	}

	// The original dt keeps working
	if err := w.Step(testStep, 6, 2); err != nil {
		t.Errorf("constant dt rejected after a bad call: %v", err)
	}
}

func TestDestroyBody(t *testing.T) {
	w := NewWorld(Vec2{Y: -60})
	def, _ := testCatalog(t).Resolve("cherries")
	id, err := w.CreateBody(def, 0.05, 0.05, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}

	if !w.DestroyBody(id) {
		t.Fatal("DestroyBody on live handle returned false")
	}
	if w.Alive(id) {
		t.Error("destroyed body still alive")
	}
	if _, ok := w.Pose(id); ok {
		t.Error("Pose succeeded for destroyed body")
	}
	// Second destroy and unknown handles are no-ops
	if w.DestroyBody(id) {
		t.Error("second DestroyBody returned true")
	}
	if w.DestroyBody(9999) {
		t.Error("DestroyBody on unknown handle returned true")
	}
}

func TestGroundResizeSingleton(t *testing.T) {
	w := NewWorld(Vec2{Y: -60})
	g := NewGround(1, 1)

	if g.Body() != 0 {
		t.Fatal("ground exists before first Resize")
	}

	widths := []float64{50, 88.8, 50, 120}
	var previous BodyID
	for _, width := range widths {
		if err := g.Resize(w, width); err != nil {
			t.Fatalf("Resize(%v): %v", width, err)
		}
		if previous != 0 && w.Alive(previous) {
			t.Errorf("previous ground %d still alive after resize to %v", previous, width)
		}
		if w.StaticCount() != 1 {
			t.Errorf("after resize to %v: %d static bodies, want 1", width, w.StaticCount())
		}
		if !w.IsStatic(g.Body()) {
			t.Error("ground body is not static")
		}
		if 2*g.HalfWidth() < width {
			t.Errorf("ground spans %v, want >= %v", 2*g.HalfWidth(), width)
		}
		previous = g.Body()
	}
}

func TestGroundSnapshotSpansViewport(t *testing.T) {
	w := NewWorld(Vec2{Y: -60})
	g := NewGround(1, 1)
	if err := g.Resize(w, 64); err != nil {
		t.Fatal(err)
	}

	snap := w.Snapshot()
	if len(snap) != 1 || !snap[0].Static {
		t.Fatalf("snapshot = %+v, want one static body", snap)
	}
	outline := snap[0].Outlines[0]
	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, v := range outline.Vertices {
		minX = math.Min(minX, v.X)
		maxX = math.Max(maxX, v.X)
	}
	if minX > 0 || maxX < 64 {
		t.Errorf("ground covers [%v, %v], want to include [0, 64]", minX, maxX)
	}
}

func TestSnapshotOutlines(t *testing.T) {
	w := NewWorld(Vec2{Y: -60})
	cat := testCatalog(t)

	cherries, _ := cat.Resolve("cherries")
	id, err := w.CreateBody(cherries, 0.05, 0.05, 5, 5, 0)
	if err != nil {
		t.Fatal(err)
	}

	snap := w.Snapshot()
	if len(snap) != 1 || snap[0].ID != id {
		t.Fatalf("snapshot = %+v", snap)
	}

	var circles, polygons int
	for _, o := range snap[0].Outlines {
		switch o.Kind {
		case OutlineCircle:
			circles++
			if math.Abs(o.Radius-28*0.05) > 1e-9 {
				t.Errorf("circle radius = %v, want %v", o.Radius, 28*0.05)
			}
		case OutlinePolygon:
			polygons++
			if len(o.Vertices) != 4 {
				t.Errorf("stem has %d vertices, want 4", len(o.Vertices))
			}
		}
	}
	if circles != 2 || polygons != 1 {
		t.Errorf("outlines = %d circles + %d polygons, want 2 + 1", circles, polygons)
	}
}

func TestDispose(t *testing.T) {
	w := NewWorld(Vec2{Y: -60})
	def, _ := testCatalog(t).Resolve("orange")
	id, _ := w.CreateBody(def, 0.05, 0.05, 0, 0, 0)

	if err := w.Dispose(); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	if !w.Disposed() || w.BodyCount() != 0 {
		t.Error("Dispose left bodies behind")
	}
	if err := w.Dispose(); !errors.Is(err, ErrDisposed) {
		t.Errorf("second Dispose = %v, want ErrDisposed", err)
	}
	if err := w.Step(testStep, 6, 2); !errors.Is(err, ErrDisposed) {
		t.Errorf("Step after Dispose = %v, want ErrDisposed", err)
	}
	if _, err := w.CreateBody(def, 1, 1, 0, 0, 0); !errors.Is(err, ErrDisposed) {
		t.Errorf("CreateBody after Dispose = %v, want ErrDisposed", err)
	}
	if w.DestroyBody(id) {
		t.Error("DestroyBody after Dispose returned true")
	}
}
