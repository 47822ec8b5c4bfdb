// Package transform maps geometry from a geographic or projected CRS onto
// a canvas.
//
// [Build] turns a [Config] into a point function. For every point it
//
//  1. reprojects the point from Config.Source to Config.Dest,
//  2. subtracts the reprojected geographic origin,
//  3. divides the offset by the [Scale] on each axis,
//  4. adds the canvas origin.
//
// The origin therefore always lands exactly on its canvas coordinate.
// Displaying unprojected longitude/latitude is the same pipeline with
// Dest equal to Source, where step 1 is the identity.
//
// [Reflect] is the axis-flip step for canvases whose vertical axis runs
// opposite to the projection's; compose it with [Func.Then].
package transform

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/matzehuels/worldmaps/pkg/crs"
	"github.com/matzehuels/worldmaps/pkg/errors"
	"github.com/matzehuels/worldmaps/pkg/geo"
)

// Scale holds geographic units per canvas unit along each axis. A negative
// component mirrors that axis.
type Scale struct {
	X, Y float64
}

// NewScale returns the uniform scale mapping geoUnits onto canvasUnits.
func NewScale(geoUnits, canvasUnits float64) Scale {
	s := geoUnits / canvasUnits
	return Scale{X: s, Y: s}
}

// Validate reports zero and non-finite components.
func (s Scale) Validate() error {
	for _, v := range []float64{s.X, s.Y} {
		if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeProjection, "invalid scale %v", s)
		}
	}
	return nil
}

// Origin pins a geographic point to a canvas coordinate.
type Origin struct {
	// Geo is the anchor point in the axis order of GeoCRS.
	Geo orb.Point
	// GeoCRS is the CRS of Geo. The zero value means Config.Source.
	GeoCRS crs.CRS
	// Canvas is where Geo lands.
	Canvas orb.Point
}

// Config describes a geographic to canvas mapping.
type Config struct {
	Source crs.CRS
	Dest   crs.CRS
	Scale  Scale
	Origin Origin
}

// Func is a point function with an optional inverse.
type Func struct {
	src     crs.CRS
	fwd     geo.PointFunc
	inv     geo.PointFunc
	summary string
}

// Build validates cfg and returns its point function. Undefined or
// degenerate projection parameters fail with [errors.ErrCodeProjection].
func Build(cfg Config) (Func, error) {
	if err := cfg.Scale.Validate(); err != nil {
		return Func{}, err
	}
	proj, err := crs.NewProjector(cfg.Source, cfg.Dest)
	if err != nil {
		return Func{}, err
	}

	originCRS := cfg.Origin.GeoCRS
	if originCRS.ID == "" {
		originCRS = cfg.Source
	}
	originProj := proj
	if !originCRS.Equal(cfg.Source) {
		if originProj, err = crs.NewProjector(originCRS, cfg.Dest); err != nil {
			return Func{}, err
		}
	}
	ox, oy, err := originProj.Forward(cfg.Origin.Geo[0], cfg.Origin.Geo[1])
	if err != nil {
		return Func{}, errors.Projection(err, "project origin %v", cfg.Origin.Geo)
	}

	s, c := cfg.Scale, cfg.Origin.Canvas
	f := Func{
		src:     cfg.Source,
		summary: fmt.Sprintf("%s, scale %g/%g, origin %v -> %v", proj, s.X, s.Y, cfg.Origin.Geo, c),
		fwd: func(p orb.Point) (orb.Point, error) {
			x, y, err := proj.Forward(p[0], p[1])
			if err != nil {
				return orb.Point{}, err
			}
			return orb.Point{c[0] + (x-ox)/s.X, c[1] + (y-oy)/s.Y}, nil
		},
	}
	if proj.CanInvert() {
		f.inv = func(p orb.Point) (orb.Point, error) {
			x, y, err := proj.Inverse((p[0]-c[0])*s.X+ox, (p[1]-c[1])*s.Y+oy)
			if err != nil {
				return orb.Point{}, err
			}
			return orb.Point{x, y}, nil
		}
	}
	return f, nil
}

// Reflect returns the axis-flip step (x, y) -> (-y + cx, -x + cy) about
// center.
func Reflect(center orb.Point) Func {
	cx, cy := center[0], center[1]
	return Func{
		summary: fmt.Sprintf("reflect about %v", center),
		fwd: func(p orb.Point) (orb.Point, error) {
			return orb.Point{-p[1] + cx, -p[0] + cy}, nil
		},
		inv: func(p orb.Point) (orb.Point, error) {
			return orb.Point{-p[1] + cy, -p[0] + cx}, nil
		},
	}
}

// Then returns the function applying f and then g. The result has an
// inverse when both do.
func (f Func) Then(g Func) Func {
	out := Func{
		src:     f.src,
		summary: f.summary + "; " + g.summary,
		fwd: func(p orb.Point) (orb.Point, error) {
			q, err := f.fwd(p)
			if err != nil {
				return orb.Point{}, err
			}
			return g.fwd(q)
		},
	}
	if f.inv != nil && g.inv != nil {
		out.inv = func(p orb.Point) (orb.Point, error) {
			q, err := g.inv(p)
			if err != nil {
				return orb.Point{}, err
			}
			return f.inv(q)
		}
	}
	return out
}

// Point maps a single point.
func (f Func) Point(p orb.Point) (orb.Point, error) {
	if f.fwd == nil {
		return p, nil
	}
	return f.fwd(p)
}

// Inverse returns the inverse function, if there is one.
func (f Func) Inverse() (Func, bool) {
	if f.inv == nil {
		return Func{}, false
	}
	return Func{fwd: f.inv, inv: f.fwd, summary: "inverse of " + f.summary}, true
}

// Apply maps every coordinate of g and tags the result with target,
// usually [crs.Canvas]. g must be in the source CRS of f. The first point
// that fails aborts the whole mapping.
func (f Func) Apply(g geo.Geometry, target crs.CRS) (geo.Geometry, error) {
	if f.src.ID != "" && !g.CRS().Equal(f.src) {
		return geo.Geometry{}, errors.New(errors.ErrCodeProjection,
			"geometry is in %s, transform expects %s", g.CRS(), f.src)
	}
	out, err := geo.Map(g, target, f.Point)
	if err != nil {
		return geo.Geometry{}, asProjection(err)
	}
	return out, nil
}

// ApplyCollection is [Func.Apply] for every member of c.
func (f Func) ApplyCollection(c geo.Collection, target crs.CRS) (geo.Collection, error) {
	if f.src.ID != "" && !c.CRS().Equal(f.src) {
		return geo.Collection{}, errors.New(errors.ErrCodeProjection,
			"collection is in %s, transform expects %s", c.CRS(), f.src)
	}
	out, err := geo.MapCollection(c, target, f.Point)
	if err != nil {
		return geo.Collection{}, asProjection(err)
	}
	return out, nil
}

// String describes the steps of f.
func (f Func) String() string {
	if f.summary == "" {
		return "identity"
	}
	return f.summary
}

func asProjection(err error) error {
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.Projection(err, "transform")
}
