// Package source loads boundary geometry from files on disk.
//
// Two formats are supported out of the box: ESRI shapefiles (.shp) and
// GeoJSON (.geojson, .json). [Load] picks a [Loader] by file extension and
// returns every polygon record, in file order, as a [geo.Collection]
// tagged with [crs.LonLat]. Use [LoadAs] when the file stores coordinates
// in another CRS.
//
// Every failure (missing file, malformed content, unsupported geometry
// type) is reported as an error with code [errors.ErrCodeSourceRead]
// naming the path.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/worldmaps/pkg/crs"
	"github.com/matzehuels/worldmaps/pkg/errors"
	"github.com/matzehuels/worldmaps/pkg/geo"
)

// Loader reads one geometry file format.
type Loader interface {
	// Load reads the file at path and returns one Geometry per record,
	// tagged with c. Records without geometry are skipped.
	Load(path string, c crs.CRS) ([]geo.Geometry, error)

	// Supports reports whether this loader handles the given filename.
	Supports(filename string) bool

	// Format returns a short format identifier for logs ("shapefile").
	Format() string
}

// Loaders returns the built-in loaders in detection order.
func Loaders() []Loader {
	return []Loader{Shapefile{}, GeoJSON{}}
}

// Detect finds the first loader that supports path.
func Detect(path string, loaders ...Loader) (Loader, error) {
	name := filepath.Base(path)
	for _, l := range loaders {
		if l.Supports(name) {
			return l, nil
		}
	}
	return nil, fmt.Errorf("unsupported geometry source: %s", name)
}

// Load reads the geometry file at path, assuming [crs.LonLat] coordinates.
func Load(path string) (geo.Collection, error) {
	return LoadAs(path, crs.LonLat)
}

// LoadAs reads the geometry file at path and tags it with c.
func LoadAs(path string, c crs.CRS) (geo.Collection, error) {
	return LoadWith(path, c, Loaders()...)
}

// LoadWith is [LoadAs] with an explicit loader list.
func LoadWith(path string, c crs.CRS, loaders ...Loader) (geo.Collection, error) {
	info, err := os.Stat(path)
	if err != nil {
		return geo.Collection{}, errors.SourceRead(err, path)
	}
	if info.IsDir() {
		return geo.Collection{}, errors.SourceRead(fmt.Errorf("is a directory"), path)
	}

	l, err := Detect(path, loaders...)
	if err != nil {
		return geo.Collection{}, errors.SourceRead(err, path)
	}
	items, err := l.Load(path, c)
	if err != nil {
		return geo.Collection{}, errors.SourceRead(fmt.Errorf("%s: %w", l.Format(), err), path)
	}
	coll, err := geo.NewCollection(c, items...)
	if err != nil {
		return geo.Collection{}, errors.SourceRead(err, path)
	}
	return coll, nil
}

func hasExt(filename string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
