package physics

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/fruitfall/components"
)

//go:embed shapes.yaml
var defaultShapesYAML []byte

// MaxPolygonVertices is the solver's limit on convex polygon vertex count.
const MaxPolygonVertices = 8

// Vec2 is a 2D vector in world or shape-local units.
type Vec2 struct {
	X, Y float64
}

// Circle is a circle fixture in shape-local units.
type Circle struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"r"`
}

// FixtureDefinition is one material plus the convex pieces sharing it.
// Polygons are flat coordinate lists: [x0, y0, x1, y1, ...].
type FixtureDefinition struct {
	Density     float64     `yaml:"density"`
	Friction    float64     `yaml:"friction"`
	Restitution float64     `yaml:"restitution"`
	Polygons    [][]float64 `yaml:"polygons"`
	Circles     []Circle    `yaml:"circles"`
}

// ShapeDefinition is the physics geometry and material for one visual name.
// Coordinates are in source pixels relative to the sprite's bottom-left corner.
type ShapeDefinition struct {
	Name     components.VisualName `yaml:"name"`
	Fixtures []FixtureDefinition   `yaml:"fixtures"`
}

// ShapeNotFoundError is returned when a visual name has no physics geometry.
type ShapeNotFoundError struct {
	Name components.VisualName
}

func (e *ShapeNotFoundError) Error() string {
	return fmt.Sprintf("physics: no shape definition for %q", string(e.Name))
}

// Catalog maps visual names to shape definitions. Read-only after load.
type Catalog struct {
	shapes map[components.VisualName]*ShapeDefinition
}

type catalogFile struct {
	Shapes []ShapeDefinition `yaml:"shapes"`
}

// NewCatalog builds a catalog from definitions, validating each one.
func NewCatalog(defs []ShapeDefinition) (*Catalog, error) {
	c := &Catalog{shapes: make(map[components.VisualName]*ShapeDefinition, len(defs))}
	for i := range defs {
		def := defs[i]
		if def.Name == "" {
			return nil, fmt.Errorf("shape %d: missing name", i)
		}
		if _, dup := c.shapes[def.Name]; dup {
			return nil, fmt.Errorf("shape %q: defined twice", def.Name)
		}
		if err := def.validate(); err != nil {
			return nil, err
		}
		c.shapes[def.Name] = &def
	}
	return c, nil
}

// Resolve returns the definition for name or a *ShapeNotFoundError.
func (c *Catalog) Resolve(name components.VisualName) (*ShapeDefinition, error) {
	def, ok := c.shapes[name]
	if !ok {
		return nil, &ShapeNotFoundError{Name: name}
	}
	return def, nil
}

// Names returns all catalog names in sorted order.
func (c *Catalog) Names() []components.VisualName {
	names := make([]components.VisualName, 0, len(c.shapes))
	for name := range c.shapes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Len returns the number of shapes.
func (c *Catalog) Len() int {
	return len(c.shapes)
}

// ParseCatalogYAML reads a YAML shape catalog.
func ParseCatalogYAML(r io.Reader) (*Catalog, error) {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing shape catalog: %w", err)
	}
	return NewCatalog(f.Shapes)
}

// DefaultCatalog returns the embedded shape catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalogYAML(bytes.NewReader(defaultShapesYAML))
}

// LoadCatalog reads a catalog from path. Files ending in .xml are read as
// PhysicsEditor body definitions, anything else as YAML. An empty path
// returns the embedded catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening shape catalog: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".xml") {
		return ParsePhysicsEditorXML(f)
	}
	return ParseCatalogYAML(f)
}

func (d *ShapeDefinition) validate() error {
	if len(d.Fixtures) == 0 {
		return fmt.Errorf("shape %q: no fixtures", d.Name)
	}
	for fi, fx := range d.Fixtures {
		if len(fx.Polygons) == 0 && len(fx.Circles) == 0 {
			return fmt.Errorf("shape %q fixture %d: no polygons or circles", d.Name, fi)
		}
		if fx.Density < 0 || fx.Friction < 0 {
			return fmt.Errorf("shape %q fixture %d: negative density or friction", d.Name, fi)
		}
		for pi, poly := range fx.Polygons {
			if len(poly)%2 != 0 {
				return fmt.Errorf("shape %q fixture %d polygon %d: odd coordinate count %d", d.Name, fi, pi, len(poly))
			}
			n := len(poly) / 2
			if n < 3 || n > MaxPolygonVertices {
				return fmt.Errorf("shape %q fixture %d polygon %d: %d vertices, want 3..%d",
					d.Name, fi, pi, n, MaxPolygonVertices)
			}
			if err := checkPolygon(fx.vertices(pi, 1, 1)); err != nil {
				return fmt.Errorf("shape %q fixture %d polygon %d: degenerate: %w", d.Name, fi, pi, err)
			}
		}
		for ci, c := range fx.Circles {
			if c.Radius <= 0 {
				return fmt.Errorf("shape %q fixture %d circle %d: radius must be positive", d.Name, fi, ci)
			}
		}
	}
	return nil
}

// vertices returns polygon pi of fixture fx scaled per axis.
func (fx *FixtureDefinition) vertices(pi int, scaleX, scaleY float64) []Vec2 {
	poly := fx.Polygons[pi]
	out := make([]Vec2, len(poly)/2)
	for i := range out {
		out[i] = Vec2{X: poly[2*i] * scaleX, Y: poly[2*i+1] * scaleY}
	}
	return out
}
