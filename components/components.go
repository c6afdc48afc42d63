// Package components defines the data shared between physics, sprites and
// the entity directory.
package components

// VisualName identifies a kind of body. It is the join key between a
// physics shape, a sprite and an entity.
type VisualName string

// Visual tags an entity with the name of its shape and sprite.
type Visual struct {
	Name VisualName
}

// Spawn records the pose an entity was created at.
type Spawn struct {
	X, Y     float64
	Rotation float64 // radians
}
