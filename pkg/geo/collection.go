package geo

import (
	"github.com/matzehuels/worldmaps/pkg/crs"
	"github.com/matzehuels/worldmaps/pkg/errors"
)

// Collection is a set of geometries from one dataset sharing one CRS.
type Collection struct {
	crs   crs.CRS
	items []Geometry
}

// NewCollection groups items under c. Every item must be tagged with c.
func NewCollection(c crs.CRS, items ...Geometry) (Collection, error) {
	for i, g := range items {
		if !g.crs.Equal(c) {
			return Collection{}, errors.New(errors.ErrCodeGeometryOperation,
				"collection member %d is in %s, want %s", i, g.crs, c)
		}
	}
	return Collection{crs: c, items: append([]Geometry(nil), items...)}, nil
}

// CRS returns the shared CRS.
func (c Collection) CRS() crs.CRS { return c.crs }

// Len returns the number of members.
func (c Collection) Len() int { return len(c.items) }

// Items returns the members in load order.
func (c Collection) Items() []Geometry { return append([]Geometry(nil), c.items...) }

// At returns member i.
func (c Collection) At(i int) Geometry { return c.items[i] }

// NumPolygons returns the polygon count over all members.
func (c Collection) NumPolygons() int {
	n := 0
	for _, g := range c.items {
		n += g.NumPolygons()
	}
	return n
}

// Area returns the summed member areas. Overlaps count twice.
func (c Collection) Area() float64 {
	a := 0.0
	for _, g := range c.items {
		a += g.Area()
	}
	return a
}
