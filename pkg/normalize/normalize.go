// Package normalize prepares loaded geometry for projection.
//
// Operations are pure: they take geometries or collections and return new
// ones. Apply them in this order:
//
//  1. [SwapAxes] when a dataset stores (northing, easting) pairs,
//  2. [Union] on each collection,
//  3. [Difference] or [ExcludeBand] between unioned results.
//
// Union and Difference use polygon clipping from github.com/ctessum/geom
// and fail with [errors.ErrCodeGeometryOperation] when clipping breaks or
// its output does not pass [Validate].
package normalize

import (
	"github.com/matzehuels/worldmaps/pkg/geo"
)

// SwapAxes exchanges the two coordinates of every point and flips the
// axis order of the CRS tag. Ring winding is restored afterwards, so
// swapping twice yields the input.
func SwapAxes(c geo.Collection) geo.Collection {
	// SwapXY never fails.
	out, _ := geo.MapCollection(c, c.CRS().Swapped(), geo.SwapXY)
	return out
}

// SwapGeometry is [SwapAxes] for a single Geometry.
func SwapGeometry(g geo.Geometry) geo.Geometry {
	out, _ := geo.Map(g, g.CRS().Swapped(), geo.SwapXY)
	return out
}
