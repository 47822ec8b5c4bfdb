package geo

import (
	"github.com/paulmach/orb"

	"github.com/matzehuels/worldmaps/pkg/crs"
)

// PointFunc maps a single coordinate.
type PointFunc func(orb.Point) (orb.Point, error)

// Map applies f to every coordinate of g and tags the result with target.
//
// The first error aborts the traversal and is returned as is; no partial
// geometry escapes. Ring orientation is restored afterwards, since a
// mirroring f reverses winding.
func Map(g Geometry, target crs.CRS, f PointFunc) (Geometry, error) {
	out := make(orb.MultiPolygon, len(g.mp))
	for i, p := range g.mp {
		np := make(orb.Polygon, len(p))
		for j, r := range p {
			nr := make(orb.Ring, len(r))
			for k, pt := range r {
				q, err := f(pt)
				if err != nil {
					return Geometry{}, err
				}
				nr[k] = q
			}
			np[j] = nr
		}
		out[i] = np
	}
	return Geometry{crs: target, mp: orient(out)}, nil
}

// MapCollection applies [Map] to every member of c.
func MapCollection(c Collection, target crs.CRS, f PointFunc) (Collection, error) {
	items := make([]Geometry, len(c.items))
	for i, g := range c.items {
		m, err := Map(g, target, f)
		if err != nil {
			return Collection{}, err
		}
		items[i] = m
	}
	return Collection{crs: target, items: items}, nil
}

// SwapXY exchanges the two coordinates of a point.
func SwapXY(pt orb.Point) (orb.Point, error) {
	return orb.Point{pt[1], pt[0]}, nil
}
