package geo

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// boundPad widens boxes so touching and degenerate boxes still intersect.
const boundPad = 1e-9

// Index is an R-tree over bounding boxes identified by their position in
// the slice passed to [NewIndex].
type Index struct {
	tree *rtreego.Rtree
}

type indexEntry struct {
	id   int
	rect rtreego.Rect
}

func (e *indexEntry) Bounds() rtreego.Rect { return e.rect }

// NewIndex bulk loads bounds into an R-tree.
func NewIndex(bounds []orb.Bound) *Index {
	objs := make([]rtreego.Spatial, len(bounds))
	for i, b := range bounds {
		objs[i] = &indexEntry{id: i, rect: toRect(b)}
	}
	return &Index{tree: rtreego.NewTree(2, 25, 50, objs...)}
}

// Search returns the ids of boxes intersecting b, in ascending order.
func (x *Index) Search(b orb.Bound) []int {
	hits := x.tree.SearchIntersect(toRect(b))
	ids := make([]int, len(hits))
	for i, h := range hits {
		ids[i] = h.(*indexEntry).id
	}
	sort.Ints(ids)
	return ids
}

// Len returns the number of indexed boxes.
func (x *Index) Len() int { return x.tree.Size() }

func toRect(b orb.Bound) rtreego.Rect {
	b = b.Pad(boundPad)
	// NewRectFromPoints only fails on mismatched dimensions.
	r, _ := rtreego.NewRectFromPoints(
		rtreego.Point{b.Min[0], b.Min[1]},
		rtreego.Point{b.Max[0], b.Max[1]},
	)
	return r
}
