package sprites

import (
	"fmt"
	"sort"

	"github.com/pthm-cable/fruitfall/components"
)

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Descriptor is everything needed to draw one named sprite.
type Descriptor struct {
	Name components.VisualName

	// Width and Height are the sprite size in world units.
	Width, Height float64
	// Origin is the rotation pivot relative to the bottom-left corner.
	OriginX, OriginY float64

	// Page and Source locate the packed image in the atlas, in pixels.
	Page   string
	Source Rect
	// Trim is where the packed image sits inside the sprite box, in world
	// units from the bottom-left. It equals the full box when nothing was
	// stripped.
	Trim Rect
}

// UnknownVisualNameError is returned when no sprite exists for a name.
type UnknownVisualNameError struct {
	Name components.VisualName
}

func (e *UnknownVisualNameError) Error() string {
	return fmt.Sprintf("no sprite for visual name %q", e.Name)
}

// Registry maps visual names to sprite descriptors. It is immutable once built.
type Registry struct {
	byName map[components.VisualName]Descriptor
}

// Build creates descriptors for every region, scaling pixel sizes by scale.
// When a name appears more than once the first region wins.
func Build(regions []Region, scale float64) *Registry {
	r := &Registry{byName: make(map[components.VisualName]Descriptor, len(regions))}
	for _, reg := range regions {
		if _, dup := r.byName[reg.Name]; dup {
			continue
		}
		w, h := reg.RawSize()
		r.byName[reg.Name] = Descriptor{
			Name:   reg.Name,
			Width:  float64(w) * scale,
			Height: float64(h) * scale,
			Page:   reg.Page,
			Source: Rect{
				X: float64(reg.X),
				Y: float64(reg.Y),
				W: float64(reg.Width),
				H: float64(reg.Height),
			},
			Trim: Rect{
				X: float64(reg.OffsetX) * scale,
				Y: float64(reg.OffsetY) * scale,
				W: float64(reg.Width) * scale,
				H: float64(reg.Height) * scale,
			},
		}
	}
	return r
}

// Lookup returns the descriptor for name.
func (r *Registry) Lookup(name components.VisualName) (Descriptor, error) {
	d, ok := r.byName[name]
	if !ok {
		return Descriptor{}, &UnknownVisualNameError{Name: name}
	}
	return d, nil
}

// Has reports whether name has a sprite.
func (r *Registry) Has(name components.VisualName) bool {
	_, ok := r.byName[name]
	return ok
}

// Len returns the number of sprites.
func (r *Registry) Len() int {
	return len(r.byName)
}

// Names returns all sprite names in sorted order.
func (r *Registry) Names() []components.VisualName {
	names := make([]components.VisualName, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Pages returns the distinct page names referenced by the registry, sorted.
func (r *Registry) Pages() []string {
	seen := make(map[string]bool)
	var pages []string
	for _, d := range r.byName {
		if !seen[d.Page] {
			seen[d.Page] = true
			pages = append(pages, d.Page)
		}
	}
	sort.Strings(pages)
	return pages
}
