package physics

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pthm-cable/fruitfall/components"
)

// PhysicsEditor body definition XML, as exported for libGDX:
//
//	<bodydef version="1.0"><bodies>
//	  <body name="banana">
//	    <fixture density="2" friction="0" restitution="0">
//	      <polygon> 61, 27 , 39, 36 , 38, 21 </polygon>
//	      <circle r="36" x="50" y="40"/>
//	    </fixture>
//	  </body>
//	</bodies></bodydef>
type peBodyDef struct {
	Bodies []peBody `xml:"bodies>body"`
}

type peBody struct {
	Name     string      `xml:"name,attr"`
	Fixtures []peFixture `xml:"fixture"`
}

type peFixture struct {
	Density     float64    `xml:"density,attr"`
	Friction    float64    `xml:"friction,attr"`
	Restitution float64    `xml:"restitution,attr"`
	Polygons    []string   `xml:"polygon"`
	Circles     []peCircle `xml:"circle"`
}

type peCircle struct {
	R float64 `xml:"r,attr"`
	X float64 `xml:"x,attr"`
	Y float64 `xml:"y,attr"`
}

// ParsePhysicsEditorXML reads a PhysicsEditor body definition file.
func ParsePhysicsEditorXML(r io.Reader) (*Catalog, error) {
	var doc peBodyDef
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing physics editor xml: %w", err)
	}

	defs := make([]ShapeDefinition, 0, len(doc.Bodies))
	for _, b := range doc.Bodies {
		def := ShapeDefinition{Name: components.VisualName(b.Name)}
		for fi, f := range b.Fixtures {
			fx := FixtureDefinition{
				Density:     f.Density,
				Friction:    f.Friction,
				Restitution: f.Restitution,
			}
			for pi, text := range f.Polygons {
				coords, err := parseCoordList(text)
				if err != nil {
					return nil, fmt.Errorf("body %q fixture %d polygon %d: %w", b.Name, fi, pi, err)
				}
				fx.Polygons = append(fx.Polygons, coords)
			}
			for _, c := range f.Circles {
				fx.Circles = append(fx.Circles, Circle{X: c.X, Y: c.Y, Radius: c.R})
			}
			def.Fixtures = append(def.Fixtures, fx)
		}
		defs = append(defs, def)
	}

	return NewCatalog(defs)
}

// parseCoordList parses "x0, y0 , x1, y1 , ..." into a flat list.
func parseCoordList(text string) ([]float64, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("bad coordinate %q: %w", f, err)
		}
		out = append(out, v)
	}
	return out, nil
}
