package crs

import (
	"fmt"
	"math"

	"github.com/ctessum/geom/proj"

	"github.com/matzehuels/worldmaps/pkg/errors"
)

// pointFunc maps a planar (east, north) pair.
type pointFunc func(e, n float64) (float64, float64, error)

// Projector reprojects points from one CRS to another.
//
// Input points are read in the source axis order and results are returned
// in the destination axis order. A Projector is safe for concurrent use.
type Projector struct {
	src, dst CRS
	fwd      pointFunc
	inv      pointFunc
}

// NewProjector returns a projector from src to dst.
//
// When both describe the same plane the projector is the identity, apart
// from an axis swap if the orders differ. Rectangular polyconic
// (+proj=rpoly) is computed natively; every other projection goes through
// github.com/ctessum/geom/proj.
func NewProjector(src, dst CRS) (*Projector, error) {
	if src.IsCanvas() || dst.IsCanvas() {
		return nil, errors.New(errors.ErrCodeProjection, "cannot reproject canvas coordinates (%s -> %s)", src, dst)
	}
	p := &Projector{src: src, dst: dst}

	if src.SamePlane(dst) {
		identity := func(e, n float64) (float64, float64, error) { return e, n, nil }
		p.fwd, p.inv = identity, identity
		return p, nil
	}

	if dst.ProjName() == "rpoly" {
		rp, err := newRPoly(dst.Proj4)
		if err != nil {
			return nil, err
		}
		if src.IsGeographic() {
			p.fwd = rp.forward
			return p, nil
		}
		toGeo, _, err := libraryTransforms(src, LonLat)
		if err != nil {
			return nil, err
		}
		p.fwd = func(e, n float64) (float64, float64, error) {
			lon, lat, err := toGeo(e, n)
			if err != nil {
				return 0, 0, err
			}
			return rp.forward(lon, lat)
		}
		return p, nil
	}
	if src.ProjName() == "rpoly" {
		return nil, errors.New(errors.ErrCodeProjection, "rpoly has no inverse; cannot reproject from %s", src)
	}

	fwd, inv, err := libraryTransforms(src, dst)
	if err != nil {
		return nil, err
	}
	p.fwd, p.inv = fwd, inv
	return p, nil
}

// libraryTransforms builds forward and inverse transforms backed by
// ctessum/geom/proj.
func libraryTransforms(src, dst CRS) (pointFunc, pointFunc, error) {
	srcSR, err := proj.Parse(src.Proj4)
	if err != nil {
		return nil, nil, errors.Projection(err, "parse %s", src.ID)
	}
	dstSR, err := proj.Parse(dst.Proj4)
	if err != nil {
		return nil, nil, errors.Projection(err, "parse %s", dst.ID)
	}
	fwd, err := srcSR.NewTransform(dstSR)
	if err != nil {
		return nil, nil, errors.Projection(err, "transform %s -> %s", src.ID, dst.ID)
	}
	inv, err := dstSR.NewTransform(srcSR)
	if err != nil {
		return nil, nil, errors.Projection(err, "transform %s -> %s", dst.ID, src.ID)
	}
	return pointFunc(fwd), pointFunc(inv), nil
}

// Source returns the CRS input points are read in.
func (p *Projector) Source() CRS { return p.src }

// Dest returns the CRS results are returned in.
func (p *Projector) Dest() CRS { return p.dst }

// Forward projects a point from the source CRS into the destination CRS.
// Non-finite results are reported as projection errors.
func (p *Projector) Forward(x, y float64) (float64, float64, error) {
	return p.apply(p.fwd, p.src.Axis, p.dst.Axis, x, y)
}

// CanInvert reports whether [Projector.Inverse] is available.
func (p *Projector) CanInvert() bool { return p.inv != nil }

// Inverse maps a point in the destination CRS back to the source CRS.
func (p *Projector) Inverse(x, y float64) (float64, float64, error) {
	if p.inv == nil {
		return 0, 0, errors.New(errors.ErrCodeProjection, "%s has no inverse", p.dst.ID)
	}
	return p.apply(p.inv, p.dst.Axis, p.src.Axis, x, y)
}

func (p *Projector) apply(f pointFunc, in, out AxisOrder, x, y float64) (float64, float64, error) {
	if !finite(x, y) {
		return 0, 0, errors.New(errors.ErrCodeProjection, "non-finite input (%g, %g)", x, y)
	}
	e, n := x, y
	if in == NorthEast {
		e, n = y, x
	}
	e, n, err := f(e, n)
	if err != nil {
		return 0, 0, errors.Projection(err, "project (%g, %g)", x, y)
	}
	if !finite(e, n) {
		return 0, 0, errors.New(errors.ErrCodeProjection, "(%g, %g) has no finite image in %s", x, y, p.dst.ID)
	}
	if out == NorthEast {
		return n, e, nil
	}
	return e, n, nil
}

func finite(v ...float64) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// checkSupported rejects projections no projector could be built for.
func checkSupported(name, proj4 string) error {
	switch name {
	case "rpoly":
		_, err := newRPoly(proj4)
		return err
	case "longlat", "latlong", "lonlat", "latlon":
		return nil
	}
	sr, err := proj.Parse(proj4)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "unsupported projection %q", name)
	}
	ll, err := proj.Parse(wgs84Proj4)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "parse %s", LonLat.ID)
	}
	// Unknown names parse fine and only fail once a point is projected.
	t, err := ll.NewTransform(sr)
	if err == nil && t != nil {
		_, _, err = t(0, 0)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "unsupported projection %q", name)
	}
	return nil
}

// String describes the projector.
func (p *Projector) String() string {
	return fmt.Sprintf("%s -> %s", p.src, p.dst)
}
