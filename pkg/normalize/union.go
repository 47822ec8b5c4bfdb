package normalize

import (
	"github.com/ctessum/geom"
	"github.com/paulmach/orb"

	"github.com/matzehuels/worldmaps/pkg/errors"
	"github.com/matzehuels/worldmaps/pkg/geo"
)

// Union merges every member of c into one Geometry covering the union of
// their areas. Overlapping and adjacent polygons are merged, so no area is
// counted twice. The union of an empty collection is empty.
//
// Each polygon of each member is a separate operand; exact duplicates are
// dropped before clipping.
func Union(c geo.Collection) (geo.Geometry, error) {
	var polys []orb.Polygon
	for _, g := range c.Items() {
		if !g.CRS().Equal(c.CRS()) {
			return geo.Geometry{}, errors.New(errors.ErrCodeGeometryOperation,
				"union: member in %s, collection in %s", g.CRS(), c.CRS())
		}
		polys = append(polys, g.MultiPolygon()...)
	}
	polys = dedupe(polys)

	switch len(polys) {
	case 0:
		return geo.Empty(c.CRS()), nil
	case 1:
		return geo.FromPolygon(c.CRS(), polys[0]), nil
	}

	ops := make([]geom.Polygon, len(polys))
	for i, p := range polys {
		ops[i] = toGeom(p)
	}
	merged, err := cascade(ops)
	if err != nil {
		return geo.Geometry{}, errors.GeometryOperation(err, "union of %d polygons", len(polys))
	}

	out := geo.Assemble(c.CRS(), contours(merged))
	if err := Validate(out, false); err != nil {
		return geo.Geometry{}, errors.GeometryOperation(err, "union result")
	}
	return out, nil
}

// UnionAll unions the members of several collections in one CRS.
func UnionAll(cs ...geo.Collection) (geo.Geometry, error) {
	if len(cs) == 0 {
		return geo.Geometry{}, errors.New(errors.ErrCodeGeometryOperation, "union: no collections")
	}
	var items []geo.Geometry
	for _, c := range cs {
		items = append(items, c.Items()...)
	}
	all, err := geo.NewCollection(cs[0].CRS(), items...)
	if err != nil {
		return geo.Geometry{}, err
	}
	return Union(all)
}

// dedupe drops polygons equal to an earlier one, keeping order.
func dedupe(polys []orb.Polygon) []orb.Polygon {
	type key struct {
		bound orb.Bound
		rings int
	}
	seen := make(map[key][]orb.Polygon)
	out := polys[:0:0]
	for _, p := range polys {
		k := key{bound: p.Bound(), rings: len(p)}
		dup := false
		for _, q := range seen[k] {
			if p.Equal(q) {
				dup = true
				break
			}
		}
		if !dup {
			seen[k] = append(seen[k], p)
			out = append(out, p)
		}
	}
	return out
}
