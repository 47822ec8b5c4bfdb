package geo

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/matzehuels/worldmaps/pkg/crs"
)

// boundaryTolerance is how close a vertex may be to a ring edge and still
// count as lying on it.
const boundaryTolerance = 1e-9

// Assemble builds polygons from rings whose outer or hole role is unknown,
// such as shapefile parts or the contours of a clipping result.
//
// Nesting depth decides the role: a ring enclosed by an even number of
// other rings is an outer boundary, and a ring enclosed by an odd number is
// a hole of the ring directly around it. Rings with zero area are dropped.
func Assemble(c crs.CRS, rings []orb.Ring) Geometry {
	type item struct {
		ring  orb.Ring
		area  float64
		bound orb.Bound
	}

	items := make([]item, 0, len(rings))
	for _, r := range rings {
		r = closeRing(r)
		if len(r) < 4 {
			continue
		}
		a := math.Abs(planar.Area(orb.Polygon{r}))
		if a == 0 {
			continue
		}
		items = append(items, item{ring: r, area: a, bound: r.Bound()})
	}
	// Larger rings first, so every candidate parent is placed before its
	// children.
	sort.SliceStable(items, func(i, j int) bool { return items[i].area > items[j].area })

	bounds := make([]orb.Bound, len(items))
	for i, it := range items {
		bounds[i] = it.bound
	}
	idx := NewIndex(bounds)

	depth := make([]int, len(items))
	parent := make([]int, len(items))
	for i := range items {
		parent[i] = -1
		for _, j := range idx.Search(items[i].bound) {
			if j >= i || !containsBound(items[j].bound, items[i].bound) {
				continue
			}
			if !ringInside(items[i].ring, items[j].ring) {
				continue
			}
			// The smallest enclosing ring is the direct parent.
			if parent[i] < 0 || items[j].area < items[parent[i]].area {
				parent[i] = j
			}
		}
		if parent[i] >= 0 {
			depth[i] = depth[parent[i]] + 1
		}
	}

	var mp orb.MultiPolygon
	polyOf := make([]int, len(items))
	for i, it := range items {
		if depth[i]%2 == 0 {
			polyOf[i] = len(mp)
			mp = append(mp, orb.Polygon{it.ring})
			continue
		}
		p := polyOf[parent[i]]
		mp[p] = append(mp[p], it.ring)
	}
	return Geometry{crs: c, mp: orient(mp)}
}

// closeRing returns a closed copy of r.
func closeRing(r orb.Ring) orb.Ring {
	out := append(orb.Ring(nil), r...)
	if len(out) > 0 && !out.Closed() {
		out = append(out, out[0])
	}
	return out
}

func containsBound(outer, inner orb.Bound) bool {
	return outer.Min[0] <= inner.Min[0] && outer.Min[1] <= inner.Min[1] &&
		outer.Max[0] >= inner.Max[0] && outer.Max[1] >= inner.Max[1]
}

// ringInside reports whether inner lies inside outer. Vertices on the
// boundary of outer are undecided and skipped; edge midpoints break ties
// when every vertex touches.
func ringInside(inner, outer orb.Ring) bool {
	probe := func(p orb.Point) (inside, decided bool) {
		if onBoundary(outer, p) {
			return false, false
		}
		return planar.RingContains(outer, p), true
	}
	for _, p := range inner {
		if in, ok := probe(p); ok {
			return in
		}
	}
	for i := 0; i+1 < len(inner); i++ {
		mid := orb.Point{(inner[i][0] + inner[i+1][0]) / 2, (inner[i][1] + inner[i+1][1]) / 2}
		if in, ok := probe(mid); ok {
			return in
		}
	}
	return false
}

func onBoundary(r orb.Ring, p orb.Point) bool {
	for i := 0; i+1 < len(r); i++ {
		if planar.DistanceFromSegmentSquared(r[i], r[i+1], p) <= boundaryTolerance*boundaryTolerance {
			return true
		}
	}
	return false
}
