// Package crs describes coordinate reference systems and reprojects points
// between them.
//
// A [CRS] is an explicit value: an identifier, a PROJ.4 parameter string and
// an axis order. Every geometry in the pipeline carries one, so a stage can
// refuse input in the wrong system instead of silently misplacing it.
//
// Shapefiles store longitude/latitude, which is [LonLat]. The EPSG:4326
// authority order is latitude/longitude, which is [WGS84]. Swapping the
// axes of a geometry moves it from one to the other.
package crs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/worldmaps/pkg/errors"
)

// AxisOrder says which planar axis holds the easting.
type AxisOrder int

const (
	// EastNorth stores (longitude or easting, latitude or northing).
	EastNorth AxisOrder = iota
	// NorthEast stores (latitude or northing, longitude or easting).
	NorthEast
)

// String returns "east-north" or "north-east".
func (a AxisOrder) String() string {
	if a == NorthEast {
		return "north-east"
	}
	return "east-north"
}

// Flip returns the other axis order.
func (a AxisOrder) Flip() AxisOrder {
	if a == NorthEast {
		return EastNorth
	}
	return NorthEast
}

// CRS identifies a coordinate reference system.
type CRS struct {
	// ID is a short identifier such as "EPSG:4326" or "proj:rpoly".
	ID string
	// Proj4 holds the normalized PROJ.4 parameters. Empty for canvas space.
	Proj4 string
	// Axis is the order coordinates are stored in.
	Axis AxisOrder
}

const wgs84Proj4 = "+datum=WGS84 +no_defs +proj=longlat"

var (
	// LonLat is WGS84 geographic coordinates in (longitude, latitude) order.
	LonLat = CRS{ID: "OGC:CRS84", Proj4: wgs84Proj4, Axis: EastNorth}

	// WGS84 is EPSG:4326 in its authority (latitude, longitude) order.
	WGS84 = CRS{ID: "EPSG:4326", Proj4: wgs84Proj4, Axis: NorthEast}

	// WebMercator is EPSG:3857.
	WebMercator = CRS{
		ID:    "EPSG:3857",
		Proj4: "+a=6378137 +b=6378137 +k=1 +lat_ts=0 +lon_0=0 +no_defs +proj=merc +units=m +x_0=0 +y_0=0",
		Axis:  EastNorth,
	}

	// Canvas tags geometry already mapped into canvas space.
	Canvas = CRS{ID: "canvas", Axis: EastNorth}
)

// known maps identifiers accepted by [Parse] to their descriptors.
var known = map[string]CRS{
	"EPSG:4326": WGS84,
	"OGC:CRS84": LonLat,
	"CRS84":     LonLat,
	"EPSG:3857": WebMercator,
}

// swapped pairs identifiers whose only difference is axis order.
var swapped = map[string]string{
	"EPSG:4326": "OGC:CRS84",
	"OGC:CRS84": "EPSG:4326",
}

// Parse resolves an identifier ("EPSG:4326") or a PROJ.4 string
// ("+proj=aea +lat_1=-20") into a CRS. PROJ.4 strings get east/north axis
// order and an identifier derived from the projection name.
func Parse(s string) (CRS, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CRS{}, errors.New(errors.ErrCodeInvalidConfig, "empty CRS")
	}
	if c, ok := known[strings.ToUpper(s)]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "+") {
		return CRS{}, errors.New(errors.ErrCodeInvalidConfig, "unknown CRS %q", s)
	}
	return FromProj4(s)
}

// FromProj4 builds a CRS from PROJ.4 parameters. The projection name must
// be supported by [NewProjector].
func FromProj4(s string) (CRS, error) {
	params, err := parseParams(s)
	if err != nil {
		return CRS{}, err
	}
	name := params["proj"]
	if name == "" {
		return CRS{}, errors.New(errors.ErrCodeInvalidConfig, "PROJ.4 string %q has no +proj", s)
	}
	if !isGeographicName(name) && name != "rpoly" {
		for _, k := range zeroDefaults {
			if _, ok := params[k]; !ok {
				params[k] = "0"
			}
		}
	}
	proj4 := formatParams(params)
	if err := checkSupported(name, proj4); err != nil {
		return CRS{}, err
	}
	return CRS{ID: "proj:" + name, Proj4: proj4, Axis: EastNorth}, nil
}

// zeroDefaults are the parameters PROJ reads as 0 when absent.
// ctessum/geom/proj has no such defaults and yields NaN without them.
var zeroDefaults = []string{"lat_0", "lon_0", "x_0", "y_0"}

func isGeographicName(name string) bool {
	switch name {
	case "longlat", "latlong", "lonlat", "latlon":
		return true
	}
	return false
}

// Equal reports whether c and o describe the same system in the same
// axis order.
func (c CRS) Equal(o CRS) bool {
	return c.ID == o.ID && c.Proj4 == o.Proj4 && c.Axis == o.Axis
}

// SamePlane reports whether c and o differ at most in axis order.
func (c CRS) SamePlane(o CRS) bool {
	return c.Proj4 == o.Proj4 && (c.Proj4 != "" || c.ID == o.ID)
}

// Swapped returns the CRS describing the same system with the axes swapped.
func (c CRS) Swapped() CRS {
	out := c
	out.Axis = c.Axis.Flip()
	if id, ok := swapped[c.ID]; ok {
		out.ID = id
	}
	return out
}

// IsCanvas reports whether c tags canvas space.
func (c CRS) IsCanvas() bool {
	return c.ID == Canvas.ID && c.Proj4 == ""
}

// IsGeographic reports whether c stores angles in degrees.
func (c CRS) IsGeographic() bool {
	return isGeographicName(c.ProjName())
}

// ProjName returns the +proj value, or "" for canvas space.
func (c CRS) ProjName() string {
	params, err := parseParams(c.Proj4)
	if err != nil {
		return ""
	}
	return params["proj"]
}

// String returns the identifier and axis order.
func (c CRS) String() string {
	if c.ID == "" {
		return "<unset>"
	}
	return fmt.Sprintf("%s (%s)", c.ID, c.Axis)
}

func parseParams(s string) (map[string]string, error) {
	params := map[string]string{}
	for _, tok := range strings.Fields(s) {
		if !strings.HasPrefix(tok, "+") || len(tok) == 1 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "malformed PROJ.4 token %q", tok)
		}
		key, value, _ := strings.Cut(tok[1:], "=")
		params[key] = value
	}
	return params, nil
}

// formatParams writes parameters in key order so equal systems compare equal.
func formatParams(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('+')
		b.WriteString(k)
		if v := params[k]; v != "" {
			b.WriteByte('=')
			b.WriteString(v)
		}
	}
	return b.String()
}
