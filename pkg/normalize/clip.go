package normalize

import (
	"fmt"

	"github.com/ctessum/geom"
	"github.com/paulmach/orb"
)

// toGeom flattens polygons into one clipping operand. Closing points are
// dropped; contours are implicitly closed.
func toGeom(polys ...orb.Polygon) geom.Polygon {
	var out geom.Polygon
	for _, p := range polys {
		for _, r := range p {
			n := len(r)
			if n > 1 && r.Closed() {
				n--
			}
			path := make(geom.Path, n)
			for i := 0; i < n; i++ {
				path[i] = geom.Point{X: r[i][0], Y: r[i][1]}
			}
			out = append(out, path)
		}
	}
	return out
}

// contours returns the rings of a clipping result with roles unknown.
func contours(p geom.Polygon) []orb.Ring {
	rings := make([]orb.Ring, 0, len(p))
	for _, path := range p {
		r := make(orb.Ring, len(path))
		for i, pt := range path {
			r[i] = orb.Point{pt.X, pt.Y}
		}
		rings = append(rings, r)
	}
	return rings
}

// flatten collects the contours of a clipping result into one operand.
func flatten(p geom.Polygonal) geom.Polygon {
	switch v := p.(type) {
	case nil:
		return nil
	case geom.Polygon:
		return v
	}
	var out geom.Polygon
	for _, poly := range p.Polygons() {
		out = append(out, poly...)
	}
	return out
}

// clipOp runs a clipping call, turning a panic inside the clipper into an
// error.
func clipOp(name string, f func() geom.Polygon) (res geom.Polygon, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: polygon clipper failed: %v", name, r)
		}
	}()
	return f(), nil
}

// cascade unions operands pairwise in a balanced tree.
func cascade(ops []geom.Polygon) (geom.Polygon, error) {
	if len(ops) == 0 {
		return nil, nil
	}
	for len(ops) > 1 {
		next := make([]geom.Polygon, 0, (len(ops)+1)/2)
		for i := 0; i < len(ops); i += 2 {
			if i+1 == len(ops) {
				next = append(next, ops[i])
				continue
			}
			a, b := ops[i], ops[i+1]
			u, err := clipOp("union", func() geom.Polygon { return flatten(a.Union(b)) })
			if err != nil {
				return nil, err
			}
			next = append(next, u)
		}
		ops = next
	}
	return ops[0], nil
}
