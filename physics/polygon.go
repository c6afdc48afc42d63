package physics

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ByteArena/box2d"
)

// MinPolygonArea is the smallest convex hull area accepted for a polygon, in
// the units the polygon is given in.
const MinPolygonArea = 1e-6

// weldDistance is the distance under which the solver merges two vertices.
const weldDistance = 0.5 * box2d.B2_linearSlop

// checkPolygon reports whether the solver can build a convex polygon from
// verts: at least three vertices must survive welding and their hull must
// enclose a positive area.
func checkPolygon(verts []Vec2) error {
	unique := make([]Vec2, 0, len(verts))
	for _, v := range verts {
		dup := false
		for _, u := range unique {
			dx, dy := v.X-u.X, v.Y-u.Y
			if dx*dx+dy*dy < weldDistance*weldDistance {
				dup = true
				break
			}
		}
		if !dup {
			unique = append(unique, v)
		}
	}
	if len(unique) < 3 {
		return fmt.Errorf("only %d distinct vertices", len(unique))
	}

	hull := convexHull(unique)
	if len(hull) < 3 {
		return errors.New("vertices are collinear")
	}
	if area := polygonArea(hull); area < MinPolygonArea {
		return fmt.Errorf("hull area %g below %g", area, MinPolygonArea)
	}
	return nil
}

// convexHull returns the counter-clockwise hull of pts (monotone chain),
// dropping collinear points.
func convexHull(pts []Vec2) []Vec2 {
	ps := append([]Vec2(nil), pts...)
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].X != ps[j].X {
			return ps[i].X < ps[j].X
		}
		return ps[i].Y < ps[j].Y
	})

	cross := func(o, a, b Vec2) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	hull := make([]Vec2, 0, 2*len(ps))
	for _, p := range ps {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(ps) - 2; i >= 0; i-- {
		p := ps[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// polygonArea returns the signed shoelace area, positive for counter-clockwise order.
func polygonArea(vs []Vec2) float64 {
	var a float64
	for i := range vs {
		j := (i + 1) % len(vs)
		a += vs[i].X*vs[j].Y - vs[j].X*vs[i].Y
	}
	return a / 2
}
