// Package geo holds the immutable, CRS-tagged polygon model shared by every
// pipeline stage.
//
// A [Geometry] wraps an orb.MultiPolygon: polygons made of rings, the first
// ring of each polygon its outer boundary and the rest holes. Constructors
// copy their input, close open rings and orient outer rings
// counter-clockwise and holes clockwise. Accessors hand out copies, so a
// Geometry never changes once built.
package geo

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/matzehuels/worldmaps/pkg/crs"
)

// Geometry is a multipolygon tagged with the CRS its coordinates are in.
type Geometry struct {
	crs crs.CRS
	mp  orb.MultiPolygon
}

// New builds a Geometry from mp, which is copied.
func New(c crs.CRS, mp orb.MultiPolygon) Geometry {
	return Geometry{crs: c, mp: orient(closeRings(mp.Clone()))}
}

// FromPolygon builds a single-polygon Geometry.
func FromPolygon(c crs.CRS, p orb.Polygon) Geometry {
	return New(c, orb.MultiPolygon{p})
}

// FromBound builds the rectangle covering b.
func FromBound(c crs.CRS, b orb.Bound) Geometry {
	return New(c, orb.MultiPolygon{b.ToPolygon()})
}

// Empty returns a Geometry with no polygons.
func Empty(c crs.CRS) Geometry {
	return Geometry{crs: c}
}

// CRS returns the coordinate reference system of g.
func (g Geometry) CRS() crs.CRS { return g.crs }

// MultiPolygon returns a copy of the polygons.
func (g Geometry) MultiPolygon() orb.MultiPolygon { return g.mp.Clone() }

// Retag returns g with its CRS replaced and coordinates untouched.
func (g Geometry) Retag(c crs.CRS) Geometry {
	return Geometry{crs: c, mp: g.mp.Clone()}
}

// IsEmpty reports whether g has no polygons.
func (g Geometry) IsEmpty() bool { return len(g.mp) == 0 }

// NumPolygons returns the number of polygons.
func (g Geometry) NumPolygons() int { return len(g.mp) }

// NumPoints returns the number of coordinates over all rings.
func (g Geometry) NumPoints() int {
	n := 0
	for _, p := range g.mp {
		for _, r := range p {
			n += len(r)
		}
	}
	return n
}

// Area returns the planar area, holes excluded, in squared CRS units.
func (g Geometry) Area() float64 {
	if g.IsEmpty() {
		return 0
	}
	return planar.Area(g.mp)
}

// Bound returns the bounding box. The bound of an empty Geometry is the
// zero bound.
func (g Geometry) Bound() orb.Bound {
	if g.IsEmpty() {
		return orb.Bound{}
	}
	return g.mp.Bound()
}

// Contains reports whether pt lies inside g. Boundary points count as in.
func (g Geometry) Contains(pt orb.Point) bool {
	return !g.IsEmpty() && planar.MultiPolygonContains(g.mp, pt)
}

// Equal reports whether g and o have the same CRS and coordinates.
func (g Geometry) Equal(o Geometry) bool {
	return g.crs.Equal(o.crs) && g.mp.Equal(o.mp)
}

// String summarizes g for logs.
func (g Geometry) String() string {
	return fmt.Sprintf("%d polygons, %d points, %s", g.NumPolygons(), g.NumPoints(), g.crs)
}

// closeRings appends the first point to every open ring.
func closeRings(mp orb.MultiPolygon) orb.MultiPolygon {
	for i, p := range mp {
		for j, r := range p {
			if len(r) > 0 && !r.Closed() {
				mp[i][j] = append(r, r[0])
			}
		}
	}
	return mp
}

// orient makes outer rings counter-clockwise and holes clockwise.
func orient(mp orb.MultiPolygon) orb.MultiPolygon {
	for _, p := range mp {
		for j, r := range p {
			if len(r) < 4 {
				continue
			}
			want := orb.CW
			if j == 0 {
				want = orb.CCW
			}
			if r.Orientation() != want {
				r.Reverse()
			}
		}
	}
	return mp
}
