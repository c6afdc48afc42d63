package systems

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/pthm-cable/fruitfall/components"
	"github.com/pthm-cable/fruitfall/physics"
)

// ShapeResolver looks up shape definitions by name.
type ShapeResolver interface {
	Resolve(name components.VisualName) (*physics.ShapeDefinition, error)
}

// BodyFactory creates and destroys rigid bodies.
type BodyFactory interface {
	CreateBody(shape *physics.ShapeDefinition, scaleX, scaleY, x, y, rotation float64) (physics.BodyID, error)
	DestroyBody(id physics.BodyID) bool
}

// PopulateRequest describes the initial population.
type PopulateRequest struct {
	Count int
	Names []components.VisualName
	Scale float64

	// Spawn area: x in [0, XRange), y in [YMin, YMin+YSpan).
	XRange float64
	YMin   float64
	YSpan  float64
}

// Populate creates Count bodies with uniformly chosen names and positions and
// returns them as a directory in creation order. On any failure every body it
// already created is destroyed before the error is returned.
func Populate(req PopulateRequest, rng *rand.Rand, catalog ShapeResolver, world BodyFactory) (*Directory, error) {
	switch {
	case req.Count < 0:
		return nil, fmt.Errorf("populate: negative count %d", req.Count)
	case len(req.Names) == 0:
		return nil, errors.New("populate: no visual names to choose from")
	case req.Scale <= 0:
		return nil, fmt.Errorf("populate: scale must be positive, got %v", req.Scale)
	case rng == nil:
		return nil, errors.New("populate: nil random source")
	}

	dir := newDirectory(req.Count)
	var created []physics.BodyID
	rollback := func() {
		for i := len(created) - 1; i >= 0; i-- {
			world.DestroyBody(created[i])
		}
	}

	for i := 0; i < req.Count; i++ {
		name := req.Names[rng.Intn(len(req.Names))]
		x := rng.Float64() * req.XRange
		y := rng.Float64()*req.YSpan + req.YMin

		shape, err := catalog.Resolve(name)
		if err != nil {
			rollback()
			return nil, fmt.Errorf("populate entity %d: %w", i, err)
		}
		id, err := world.CreateBody(shape, req.Scale, req.Scale, x, y, 0)
		if err != nil {
			rollback()
			return nil, fmt.Errorf("populate entity %d (%s): %w", i, name, err)
		}
		created = append(created, id)
		dir.add(id, name, components.Spawn{X: x, Y: y})
	}

	dir.seal()
	return dir, nil
}
