// Package physics owns the rigid-body simulation. It wraps a Box2D world
// behind opaque body handles and loads the shape catalog bodies are built from.
package physics

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ByteArena/box2d"
)

// BodyID is an opaque handle to a body owned by a World.
// The zero value never refers to a live body.
type BodyID uint32

// Pose is a body's position and orientation.
type Pose struct {
	X, Y  float64
	Angle float64 // radians, counter-clockwise
}

// World is the authoritative rigid-body simulation. It is not safe for
// concurrent use; all calls must come from the frame-tick goroutine.
type World struct {
	engine box2d.B2World
	bodies map[BodyID]*box2d.B2Body
	nextID BodyID

	stepDt   float64 // dt of the first accepted step
	steps    uint64
	disposed bool
}

// NewWorld creates an empty world with the given gravity.
func NewWorld(gravity Vec2) *World {
	return &World{
		engine: box2d.MakeB2World(box2d.MakeB2Vec2(gravity.X, gravity.Y)),
		bodies: make(map[BodyID]*box2d.B2Body),
		nextID: 1,
	}
}

// CreateBody instantiates a dynamic body from shape, with geometry scaled by
// (scaleX, scaleY), placed at (x, y) rotated by rotation radians.
func (w *World) CreateBody(shape *ShapeDefinition, scaleX, scaleY, x, y, rotation float64) (BodyID, error) {
	if w.disposed {
		return 0, ErrDisposed
	}
	if shape == nil {
		return 0, errors.New("physics: nil shape definition")
	}
	if scaleX <= 0 || scaleY <= 0 {
		return 0, fmt.Errorf("physics: shape %q: scale must be positive, got (%v, %v)", shape.Name, scaleX, scaleY)
	}

	// The solver asserts on degenerate polygons, so check the scaled geometry first.
	for fi := range shape.Fixtures {
		fx := &shape.Fixtures[fi]
		for pi := range fx.Polygons {
			if len(fx.Polygons[pi])%2 != 0 || len(fx.Polygons[pi])/2 > MaxPolygonVertices {
				return 0, fmt.Errorf("physics: shape %q fixture %d polygon %d: bad vertex list", shape.Name, fi, pi)
			}
			if err := checkPolygon(fx.vertices(pi, scaleX, scaleY)); err != nil {
				return 0, fmt.Errorf("physics: shape %q fixture %d polygon %d at scale (%v, %v): %w",
					shape.Name, fi, pi, scaleX, scaleY, err)
			}
		}
	}

	def := box2d.MakeB2BodyDef()
	def.Type = box2d.B2BodyType.B2_dynamicBody
	def.Position.Set(x, y)
	def.Angle = rotation
	body := w.engine.CreateBody(&def)

	for i := range shape.Fixtures {
		fx := &shape.Fixtures[i]
		for pi := range fx.Polygons {
			verts := fx.vertices(pi, scaleX, scaleY)
			poly := box2d.MakeB2PolygonShape()
			poly.Set(toB2(verts), len(verts))
			attachFixture(body, &poly, fx.Density, fx.Friction, fx.Restitution)
		}
		for _, c := range fx.Circles {
			circle := box2d.MakeB2CircleShape()
			circle.M_p.Set(c.X*scaleX, c.Y*scaleY)
			// Circles cannot stretch; the radius follows the x scale.
			circle.M_radius = c.Radius * scaleX
			attachFixture(body, &circle, fx.Density, fx.Friction, fx.Restitution)
		}
	}

	return w.register(body), nil
}

// CreateStaticGround creates a static box centered at the origin with the
// given half extents.
func (w *World) CreateStaticGround(halfWidth, halfThickness, friction float64) (BodyID, error) {
	if w.disposed {
		return 0, ErrDisposed
	}
	if halfWidth <= 0 || halfThickness <= 0 {
		return 0, fmt.Errorf("physics: ground extents must be positive, got (%v, %v)", halfWidth, halfThickness)
	}

	def := box2d.MakeB2BodyDef()
	def.Type = box2d.B2BodyType.B2_staticBody
	body := w.engine.CreateBody(&def)

	box := box2d.MakeB2PolygonShape()
	box.SetAsBox(halfWidth, halfThickness)
	attachFixture(body, &box, 0, friction, 0)
	body.SetTransform(box2d.MakeB2Vec2(0, 0), 0)

	return w.register(body), nil
}

// DestroyBody releases a body. Unknown or already destroyed handles are a
// no-op and report false.
func (w *World) DestroyBody(id BodyID) bool {
	body, ok := w.bodies[id]
	if !ok || w.disposed {
		return false
	}
	w.engine.DestroyBody(body)
	delete(w.bodies, id)
	return true
}

// Step advances the simulation by exactly dt seconds. Every call must pass
// the same positive dt; anything else is an *InvalidStepError.
func (w *World) Step(dt float64, velocityIterations, positionIterations int) error {
	if w.disposed {
		return ErrDisposed
	}
	switch {
	case math.IsNaN(dt) || math.IsInf(dt, 0):
		return &InvalidStepError{Dt: dt, Expected: w.stepDt, Reason: "dt is not finite"}
	case dt <= 0:
		return &InvalidStepError{Dt: dt, Expected: w.stepDt, Reason: "dt must be positive"}
	case w.stepDt != 0 && dt != w.stepDt:
		return &InvalidStepError{Dt: dt, Expected: w.stepDt, Reason: "dt must stay constant"}
	case velocityIterations <= 0 || positionIterations <= 0:
		return &InvalidStepError{Dt: dt, Expected: w.stepDt, Reason: "iteration counts must be positive"}
	}

	w.stepDt = dt
	w.engine.Step(dt, velocityIterations, positionIterations)
	w.steps++
	return nil
}

// Pose returns the current pose of a live body.
func (w *World) Pose(id BodyID) (Pose, bool) {
	body, ok := w.bodies[id]
	if !ok {
		return Pose{}, false
	}
	p := body.GetPosition()
	return Pose{X: p.X, Y: p.Y, Angle: body.GetAngle()}, true
}

// Alive reports whether id refers to a live body.
func (w *World) Alive(id BodyID) bool {
	_, ok := w.bodies[id]
	return ok
}

// IsStatic reports whether id refers to a live static body.
func (w *World) IsStatic(id BodyID) bool {
	body, ok := w.bodies[id]
	return ok && body.GetType() == box2d.B2BodyType.B2_staticBody
}

// BodyCount returns the number of live bodies.
func (w *World) BodyCount() int {
	return len(w.bodies)
}

// StaticCount returns the number of live static bodies.
func (w *World) StaticCount() int {
	n := 0
	for _, body := range w.bodies {
		if body.GetType() == box2d.B2BodyType.B2_staticBody {
			n++
		}
	}
	return n
}

// StepCount returns the number of accepted steps.
func (w *World) StepCount() uint64 {
	return w.steps
}

// Disposed reports whether Dispose has been called.
func (w *World) Disposed() bool {
	return w.disposed
}

// Dispose destroys every body. A second call returns ErrDisposed.
func (w *World) Dispose() error {
	if w.disposed {
		return ErrDisposed
	}
	for _, id := range w.sortedIDs() {
		w.engine.DestroyBody(w.bodies[id])
		delete(w.bodies, id)
	}
	w.disposed = true
	return nil
}

// OutlineKind distinguishes fixture geometry.
type OutlineKind uint8

const (
	OutlinePolygon OutlineKind = iota
	OutlineCircle
)

// Outline is one fixture's geometry in world coordinates.
type Outline struct {
	Kind     OutlineKind
	Vertices []Vec2 // polygon corners, counter-clockwise
	Center   Vec2   // circle center
	Radius   float64
}

// BodySnapshot is a read-only copy of a body's state for debug drawing.
type BodySnapshot struct {
	ID       BodyID
	Pose     Pose
	Static   bool
	Awake    bool
	Outlines []Outline
}

// Snapshot copies the world-space geometry of every live body, ordered by handle.
func (w *World) Snapshot() []BodySnapshot {
	ids := w.sortedIDs()
	out := make([]BodySnapshot, 0, len(ids))
	for _, id := range ids {
		body := w.bodies[id]
		xf := body.GetTransform()
		p := body.GetPosition()

		snap := BodySnapshot{
			ID:     id,
			Pose:   Pose{X: p.X, Y: p.Y, Angle: body.GetAngle()},
			Static: body.GetType() == box2d.B2BodyType.B2_staticBody,
			Awake:  body.IsAwake(),
		}
		for f := body.GetFixtureList(); f != nil; f = f.GetNext() {
			switch s := f.GetShape().(type) {
			case *box2d.B2PolygonShape:
				verts := make([]Vec2, s.M_count)
				for i := 0; i < s.M_count; i++ {
					v := box2d.B2TransformVec2Mul(xf, s.M_vertices[i])
					verts[i] = Vec2{X: v.X, Y: v.Y}
				}
				snap.Outlines = append(snap.Outlines, Outline{Kind: OutlinePolygon, Vertices: verts})
			case *box2d.B2CircleShape:
				c := box2d.B2TransformVec2Mul(xf, s.M_p)
				snap.Outlines = append(snap.Outlines, Outline{
					Kind:   OutlineCircle,
					Center: Vec2{X: c.X, Y: c.Y},
					Radius: s.M_radius,
				})
			}
		}
		out = append(out, snap)
	}
	return out
}

func (w *World) register(body *box2d.B2Body) BodyID {
	id := w.nextID
	w.nextID++
	w.bodies[id] = body
	return id
}

func (w *World) sortedIDs() []BodyID {
	ids := make([]BodyID, 0, len(w.bodies))
	for id := range w.bodies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func attachFixture(body *box2d.B2Body, shape box2d.B2ShapeInterface, density, friction, restitution float64) {
	fd := box2d.MakeB2FixtureDef()
	fd.Shape = shape
	fd.Density = density
	fd.Friction = friction
	fd.Restitution = restitution
	body.CreateFixtureFromDef(&fd)
}

func toB2(vs []Vec2) []box2d.B2Vec2 {
	out := make([]box2d.B2Vec2, len(vs))
	for i, v := range vs {
		out[i] = box2d.MakeB2Vec2(v.X, v.Y)
	}
	return out
}
