package source

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/matzehuels/worldmaps/pkg/crs"
	"github.com/matzehuels/worldmaps/pkg/geo"
)

// GeoJSON loads Polygon and MultiPolygon geometries from a GeoJSON
// FeatureCollection, a single Feature or a bare geometry object.
// Features with a null geometry are skipped. GeometryCollection members
// are flattened into one Geometry.
type GeoJSON struct{}

// Format implements [Loader].
func (GeoJSON) Format() string { return "geojson" }

// Supports implements [Loader].
func (GeoJSON) Supports(filename string) bool { return hasExt(filename, ".geojson", ".json") }

// Load implements [Loader].
func (GeoJSON) Load(path string, c crs.CRS) ([]geo.Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	var geoms []orb.Geometry
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, err
		}
		for _, f := range fc.Features {
			geoms = append(geoms, f.Geometry)
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, err
		}
		geoms = append(geoms, f.Geometry)
	case "":
		return nil, fmt.Errorf("missing type member")
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", head.Type, err)
		}
		geoms = append(geoms, g.Geometry())
	}

	out := make([]geo.Geometry, 0, len(geoms))
	for i, g := range geoms {
		if g == nil {
			continue
		}
		mp, err := polygons(g)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		out = append(out, geo.New(c, mp))
	}
	return out, nil
}

// polygons flattens an areal geometry into a MultiPolygon.
func polygons(g orb.Geometry) (orb.MultiPolygon, error) {
	switch g := g.(type) {
	case orb.Polygon:
		return orb.MultiPolygon{g}, nil
	case orb.MultiPolygon:
		return g, nil
	case orb.Collection:
		var mp orb.MultiPolygon
		for _, member := range g {
			sub, err := polygons(member)
			if err != nil {
				return nil, err
			}
			mp = append(mp, sub...)
		}
		return mp, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %s", g.GeoJSONType())
	}
}
