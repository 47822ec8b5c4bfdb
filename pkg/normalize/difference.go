package normalize

import (
	"github.com/ctessum/geom"
	"github.com/paulmach/orb"

	"github.com/matzehuels/worldmaps/pkg/errors"
	"github.com/matzehuels/worldmaps/pkg/geo"
)

// Difference returns a minus b. Both must be in the same CRS.
//
// Polygons of b are indexed by bounding box. A polygon of a is clipped
// only against the polygons of b whose boxes overlap it, and is kept as
// is when there are none; a Difference with a disjoint b returns a
// unchanged.
func Difference(a, b geo.Geometry) (geo.Geometry, error) {
	if !a.CRS().Equal(b.CRS()) {
		return geo.Geometry{}, errors.New(errors.ErrCodeGeometryOperation,
			"difference: %s minus %s", a.CRS(), b.CRS())
	}
	if a.IsEmpty() || b.IsEmpty() {
		return a, nil
	}

	subtrahends := b.MultiPolygon()
	bounds := make([]orb.Bound, len(subtrahends))
	for i, p := range subtrahends {
		bounds[i] = p.Bound()
	}
	idx := geo.NewIndex(bounds)

	var out orb.MultiPolygon
	changed := false
	for _, p := range a.MultiPolygon() {
		hits := idx.Search(p.Bound())
		if len(hits) == 0 {
			out = append(out, p)
			continue
		}
		changed = true

		ops := make([]geom.Polygon, len(hits))
		for i, h := range hits {
			ops[i] = toGeom(subtrahends[h])
		}
		cut, err := cascade(ops)
		if err != nil {
			return geo.Geometry{}, errors.GeometryOperation(err, "difference")
		}
		minuend := toGeom(p)
		rest, err := clipOp("difference", func() geom.Polygon { return flatten(minuend.Difference(cut)) })
		if err != nil {
			return geo.Geometry{}, errors.GeometryOperation(err, "difference")
		}
		out = append(out, geo.Assemble(a.CRS(), contours(rest)).MultiPolygon()...)
	}
	if !changed {
		return a, nil
	}

	res := geo.New(a.CRS(), out)
	if err := Validate(res, false); err != nil {
		return geo.Geometry{}, errors.GeometryOperation(err, "difference result")
	}
	return res, nil
}

// ExcludeBand removes the rectangle band from g. The band is given in the
// axis order of g, so a polar band for longitude/latitude data is
// orb.Bound{Min: {-180, -90}, Max: {180, -62}}.
//
// Band edges at or past the extent of g are moved outwards first, so they
// never run along the edges of g.
func ExcludeBand(g geo.Geometry, band orb.Bound) (geo.Geometry, error) {
	if g.IsEmpty() {
		return g, nil
	}
	gb := g.Bound()
	for axis := 0; axis < 2; axis++ {
		if band.Min[axis] <= gb.Min[axis] {
			band.Min[axis] = gb.Min[axis] - 1
		}
		if band.Max[axis] >= gb.Max[axis] {
			band.Max[axis] = gb.Max[axis] + 1
		}
	}
	return Difference(g, geo.FromBound(g.CRS(), band))
}
