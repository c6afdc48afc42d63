package systems

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fruitfall/components"
	"github.com/pthm-cable/fruitfall/physics"
)

// BodyRef links an entity to its rigid body.
type BodyRef struct {
	ID physics.BodyID
}

// Entity is the read-only view of one populated entity.
type Entity struct {
	Index int
	Body  physics.BodyID
	Name  components.VisualName
}

// Directory is the fixed, ordered set of entities created at population.
// Entities live in an ECS world; order is kept separately so iteration always
// follows insertion order.
type Directory struct {
	world  *ecs.World
	mapper *ecs.Map3[BodyRef, components.Visual, components.Spawn]
	filter *ecs.Filter2[BodyRef, components.Visual]
	order  []ecs.Entity
	sealed bool
}

func newDirectory(capacity int) *Directory {
	world := ecs.NewWorld()
	return &Directory{
		world:  world,
		mapper: ecs.NewMap3[BodyRef, components.Visual, components.Spawn](world),
		filter: ecs.NewFilter2[BodyRef, components.Visual](world),
		order:  make([]ecs.Entity, 0, capacity),
	}
}

func (d *Directory) add(body physics.BodyID, name components.VisualName, spawn components.Spawn) {
	if d.sealed {
		panic("systems: add to sealed directory")
	}
	ref := BodyRef{ID: body}
	vis := components.Visual{Name: name}
	e := d.mapper.NewEntity(&ref, &vis, &spawn)
	d.order = append(d.order, e)
}

func (d *Directory) seal() {
	d.sealed = true
}

// Len returns the number of entities.
func (d *Directory) Len() int {
	return len(d.order)
}

// At returns the entity at index i in insertion order.
func (d *Directory) At(i int) (Entity, error) {
	if i < 0 || i >= len(d.order) {
		return Entity{}, fmt.Errorf("entity index %d out of range [0, %d)", i, len(d.order))
	}
	ref, vis, _ := d.mapper.Get(d.order[i])
	return Entity{Index: i, Body: ref.ID, Name: vis.Name}, nil
}

// Spawn returns the pose entity i was created with.
func (d *Directory) Spawn(i int) (components.Spawn, error) {
	if i < 0 || i >= len(d.order) {
		return components.Spawn{}, fmt.Errorf("entity index %d out of range [0, %d)", i, len(d.order))
	}
	_, _, spawn := d.mapper.Get(d.order[i])
	return *spawn, nil
}

// All returns every entity in insertion order.
func (d *Directory) All() []Entity {
	out := make([]Entity, len(d.order))
	for i, e := range d.order {
		ref, vis, _ := d.mapper.Get(e)
		out[i] = Entity{Index: i, Body: ref.ID, Name: vis.Name}
	}
	return out
}

// CountByName tallies entities per visual name.
func (d *Directory) CountByName() map[components.VisualName]int {
	counts := make(map[components.VisualName]int)
	query := d.filter.Query()
	for query.Next() {
		_, vis := query.Get()
		counts[vis.Name]++
	}
	return counts
}

// Bodies returns the body handle of every entity in insertion order.
func (d *Directory) Bodies() []physics.BodyID {
	out := make([]physics.BodyID, len(d.order))
	for i, e := range d.order {
		ref, _, _ := d.mapper.Get(e)
		out[i] = ref.ID
	}
	return out
}
