package crs

import (
	"math"
	"strconv"

	"github.com/matzehuels/worldmaps/pkg/errors"
)

const (
	wgs84Radius = 6378137.0
	rpolyEps    = 1e-9
	deg2rad     = math.Pi / 180
)

// rpoly is the rectangular polyconic projection on a sphere.
type rpoly struct {
	r        float64 // sphere radius in metres
	lon0     float64 // central meridian, radians
	phi0     float64 // latitude of origin, radians
	x0, y0   float64 // false easting and northing
	useTs    bool
	fxa, fxb float64
}

func newRPoly(proj4 string) (*rpoly, error) {
	params, err := parseParams(proj4)
	if err != nil {
		return nil, err
	}
	num := func(key string, def float64) (float64, error) {
		s, ok := params[key]
		if !ok || s == "" {
			return def, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "rpoly: +%s", key)
		}
		return v, nil
	}

	p := &rpoly{}
	var vals [6]float64
	for i, spec := range []struct {
		key string
		def float64
	}{
		{"R", wgs84Radius},
		{"lon_0", 0},
		{"lat_0", 0},
		{"x_0", 0},
		{"y_0", 0},
		{"lat_ts", 0},
	} {
		if vals[i], err = num(spec.key, spec.def); err != nil {
			return nil, err
		}
	}
	if a, ok := params["a"]; ok && params["R"] == "" {
		if vals[0], err = strconv.ParseFloat(a, 64); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "rpoly: +a")
		}
	}
	if vals[0] <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "rpoly: radius must be positive")
	}

	p.r = vals[0]
	p.lon0 = vals[1] * deg2rad
	p.phi0 = vals[2] * deg2rad
	p.x0, p.y0 = vals[3], vals[4]

	phi1 := math.Abs(vals[5] * deg2rad)
	if phi1 > math.Pi/2-rpolyEps {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "rpoly: |lat_ts| must be below 90")
	}
	if phi1 > rpolyEps {
		p.useTs = true
		p.fxb = 0.5 * math.Sin(phi1)
		p.fxa = 0.5 / p.fxb
	}
	return p, nil
}

// forward maps (lon, lat) in degrees to metres.
func (p *rpoly) forward(lon, lat float64) (float64, float64, error) {
	if lat < -90-rpolyEps || lat > 90+rpolyEps {
		return 0, 0, errors.New(errors.ErrCodeProjection, "latitude %g out of range", lat)
	}
	lam := adjustLon(lon*deg2rad - p.lon0)
	phi := lat * deg2rad

	fa := 0.5 * lam
	if p.useTs {
		fa = math.Tan(lam*p.fxb) * p.fxa
	}

	var x, y float64
	if math.Abs(phi) < rpolyEps {
		x = fa + fa
		y = -p.phi0
	} else {
		y = 1 / math.Tan(phi)
		fa = 2 * math.Atan(fa*math.Sin(phi))
		x = math.Sin(fa) * y
		y = phi - p.phi0 + (1-math.Cos(fa))*y
	}
	return p.x0 + p.r*x, p.y0 + p.r*y, nil
}

// adjustLon wraps a longitude in radians into [-pi, pi].
func adjustLon(lam float64) float64 {
	if math.Abs(lam) <= math.Pi {
		return lam
	}
	return lam - 2*math.Pi*math.Floor((lam+math.Pi)/(2*math.Pi))
}
