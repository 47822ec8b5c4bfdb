package geo

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/matzehuels/worldmaps/pkg/crs"
)

// Feature property names carrying the CRS through GeoJSON.
const (
	propCRSID   = "crs_id"
	propCRSProj = "crs_proj4"
	propCRSAxis = "crs_axis"
)

// MarshalGeoJSON encodes g as a FeatureCollection holding one MultiPolygon
// feature. The CRS travels in the feature properties.
func MarshalGeoJSON(g Geometry) ([]byte, error) {
	f := geojson.NewFeature(g.MultiPolygon())
	f.Properties[propCRSID] = g.crs.ID
	f.Properties[propCRSProj] = g.crs.Proj4
	f.Properties[propCRSAxis] = g.crs.Axis.String()

	fc := geojson.NewFeatureCollection()
	fc.Append(f)
	return fc.MarshalJSON()
}

// UnmarshalGeoJSON decodes data written by [MarshalGeoJSON].
func UnmarshalGeoJSON(data []byte) (Geometry, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return Geometry{}, err
	}
	if len(fc.Features) != 1 {
		return Geometry{}, fmt.Errorf("want 1 feature, got %d", len(fc.Features))
	}
	f := fc.Features[0]

	c := crs.CRS{
		ID:    f.Properties.MustString(propCRSID, ""),
		Proj4: f.Properties.MustString(propCRSProj, ""),
	}
	if f.Properties.MustString(propCRSAxis, "") == crs.NorthEast.String() {
		c.Axis = crs.NorthEast
	}
	if c.ID == "" {
		return Geometry{}, fmt.Errorf("feature has no %s property", propCRSID)
	}

	switch g := f.Geometry.(type) {
	case orb.MultiPolygon:
		return New(c, g), nil
	case orb.Polygon:
		return FromPolygon(c, g), nil
	case nil:
		return Empty(c), nil
	default:
		return Geometry{}, fmt.Errorf("unexpected geometry type %s", g.GeoJSONType())
	}
}
