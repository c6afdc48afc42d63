package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fruitfall/camera"
	"github.com/pthm-cable/fruitfall/physics"
)

// Snapshotter exposes world geometry for debug drawing.
type Snapshotter interface {
	Snapshot() []physics.BodySnapshot
}

// Outline colours
var (
	staticColor = rl.Color{R: 127, G: 230, B: 127, A: 255}
	awakeColor  = rl.Color{R: 230, G: 178, B: 178, A: 255}
	asleepColor = rl.Color{R: 153, G: 153, B: 153, A: 255}
)

// DebugRenderer draws every fixture of every body as a wireframe.
type DebugRenderer struct {
	Enabled bool

	lines    int // line primitives issued in the last Render
	released bool
}

// NewDebugRenderer creates a debug renderer.
func NewDebugRenderer(enabled bool) *DebugRenderer {
	return &DebugRenderer{Enabled: enabled}
}

// Render outlines all bodies, including the ground.
func (d *DebugRenderer) Render(world Snapshotter, view *camera.Viewport) {
	d.lines = 0
	if !d.Enabled || d.released {
		return
	}

	for _, body := range world.Snapshot() {
		color := asleepColor
		switch {
		case body.Static:
			color = staticColor
		case body.Awake:
			color = awakeColor
		}

		for _, o := range body.Outlines {
			switch o.Kind {
			case physics.OutlinePolygon:
				d.drawPolygon(o.Vertices, view, color)
			case physics.OutlineCircle:
				d.drawCircle(o, body.Pose.Angle, view, color)
			}
		}
	}
}

func (d *DebugRenderer) drawPolygon(verts []physics.Vec2, view *camera.Viewport, color rl.Color) {
	n := len(verts)
	for i := 0; i < n; i++ {
		a, b := verts[i], verts[(i+1)%n]
		ax, ay := view.WorldToScreen(a.X, a.Y)
		bx, by := view.WorldToScreen(b.X, b.Y)
		rl.DrawLineV(rl.Vector2{X: ax, Y: ay}, rl.Vector2{X: bx, Y: by}, color)
		d.lines++
	}
}

func (d *DebugRenderer) drawCircle(o physics.Outline, angle float64, view *camera.Viewport, color rl.Color) {
	cx, cy := view.WorldToScreen(o.Center.X, o.Center.Y)
	r := float32(o.Radius * view.PixelsPerUnit())
	rl.DrawCircleLines(int32(cx), int32(cy), r, color)

	// Spoke shows the body's rotation
	ex, ey := view.WorldToScreen(o.Center.X+o.Radius*math.Cos(angle), o.Center.Y+o.Radius*math.Sin(angle))
	rl.DrawLineV(rl.Vector2{X: cx, Y: cy}, rl.Vector2{X: ex, Y: ey}, color)
	d.lines += 2
}

// Lines returns the number of primitives drawn by the last Render.
func (d *DebugRenderer) Lines() int {
	return d.lines
}

// Unload releases the renderer. Later calls do nothing.
func (d *DebugRenderer) Unload() {
	d.released = true
}
