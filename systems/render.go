package systems

import (
	"fmt"
	"math"

	"github.com/pthm-cable/fruitfall/physics"
	"github.com/pthm-cable/fruitfall/sprites"
)

// PoseSource reads body poses.
type PoseSource interface {
	Pose(id physics.BodyID) (physics.Pose, bool)
}

// SpriteDrawer draws one sprite with its origin at world (x, y), rotated
// counter-clockwise by degrees.
type SpriteDrawer interface {
	DrawSprite(desc sprites.Descriptor, x, y, degrees float64)
}

// DrawEntities issues one draw call per entity, in directory order, at the
// entity's current body pose.
func DrawEntities(dir *Directory, poses PoseSource, reg *sprites.Registry, d SpriteDrawer) error {
	for _, e := range dir.All() {
		desc, err := reg.Lookup(e.Name)
		if err != nil {
			return fmt.Errorf("entity %d: %w", e.Index, err)
		}
		pose, ok := poses.Pose(e.Body)
		if !ok {
			return fmt.Errorf("entity %d (%s): body %d is not alive", e.Index, e.Name, e.Body)
		}
		d.DrawSprite(desc, pose.X, pose.Y, pose.Angle*180/math.Pi)
	}
	return nil
}

// Visibility tests whether a circle in world space overlaps the screen.
type Visibility interface {
	IsVisible(x, y, radius float64) bool
}

// CountOffscreen returns how many entities have no part of their sprite on
// screen. The sprite's diagonal bounds it from any pivot inside its box.
// Entities whose sprite or body cannot be found are counted as offscreen.
func CountOffscreen(dir *Directory, poses PoseSource, reg *sprites.Registry, view Visibility) int {
	n := 0
	for _, e := range dir.All() {
		desc, err := reg.Lookup(e.Name)
		if err != nil {
			n++
			continue
		}
		pose, ok := poses.Pose(e.Body)
		if !ok || !view.IsVisible(pose.X, pose.Y, math.Hypot(desc.Width, desc.Height)) {
			n++
		}
	}
	return n
}
