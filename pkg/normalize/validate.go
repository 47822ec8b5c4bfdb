package normalize

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/matzehuels/worldmaps/pkg/geo"
)

// Validate checks the structural invariants of g: every ring is closed,
// has at least four points and only finite coordinates.
//
// Strict mode also rejects proper crossings between any two ring
// segments of g. Segments that merely share an endpoint or touch are
// accepted.
func Validate(g geo.Geometry, strict bool) error {
	mp := g.MultiPolygon()
	for i, p := range mp {
		for j, r := range p {
			if len(r) < 4 {
				return fmt.Errorf("polygon %d ring %d: %d points, need at least 4", i, j, len(r))
			}
			if !r.Closed() {
				return fmt.Errorf("polygon %d ring %d: not closed", i, j)
			}
			for _, pt := range r {
				if !finite(pt) {
					return fmt.Errorf("polygon %d ring %d: non-finite point %v", i, j, pt)
				}
			}
		}
	}
	if !strict {
		return nil
	}
	return checkCrossings(mp)
}

type segment struct {
	a, b orb.Point
}

func checkCrossings(mp orb.MultiPolygon) error {
	var segs []segment
	for _, p := range mp {
		for _, r := range p {
			for k := 0; k+1 < len(r); k++ {
				segs = append(segs, segment{r[k], r[k+1]})
			}
		}
	}

	bounds := make([]orb.Bound, len(segs))
	for i, s := range segs {
		bounds[i] = orb.MultiPoint{s.a, s.b}.Bound()
	}
	idx := geo.NewIndex(bounds)
	for i, s := range segs {
		for _, j := range idx.Search(bounds[i]) {
			if j <= i {
				continue
			}
			if crosses(s, segs[j]) {
				return fmt.Errorf("segments %v-%v and %v-%v cross", s.a, s.b, segs[j].a, segs[j].b)
			}
		}
	}
	return nil
}

// crosses reports a proper intersection: each segment has the endpoints
// of the other strictly on opposite sides.
func crosses(s, t segment) bool {
	d1 := cross(t.a, t.b, s.a)
	d2 := cross(t.a, t.b, s.b)
	d3 := cross(s.a, s.b, t.a)
	d4 := cross(s.a, s.b, t.b)
	return d1*d2 < 0 && d3*d4 < 0
}

func cross(o, a, b orb.Point) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

func finite(pt orb.Point) bool {
	for _, v := range pt {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
