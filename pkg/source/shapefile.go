package source

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"

	"github.com/matzehuels/worldmaps/pkg/crs"
	"github.com/matzehuels/worldmaps/pkg/geo"
)

const (
	shpFileCode   = 9994
	shpHeaderSize = 100
)

// Shapefile loads polygon records from ESRI shapefiles.
//
// POLYGON, POLYGONZ and POLYGONM records are read (Z and M values are
// dropped) and NULL records are skipped. Parts of a record are grouped
// into polygons by nesting with [geo.Assemble], so files with either ring
// winding convention load the same.
type Shapefile struct{}

// Format implements [Loader].
func (Shapefile) Format() string { return "shapefile" }

// Supports implements [Loader].
func (Shapefile) Supports(filename string) bool { return hasExt(filename, ".shp") }

// Load implements [Loader].
func (Shapefile) Load(path string, c crs.CRS) (out []geo.Geometry, err error) {
	if err := checkShapefileHeader(path); err != nil {
		return nil, err
	}
	// go-shp sizes slices from record counts without checking them.
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("corrupt record: %v", r)
		}
	}()

	r, err := shp.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for r.Next() {
		n, s := r.Shape()
		rings, ok, err := shapeRings(s)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", n, err)
		}
		if !ok {
			continue
		}
		out = append(out, geo.Assemble(c, rings))
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// checkShapefileHeader rejects files that are not polygon shapefiles
// before go-shp reads any record.
func checkShapefileHeader(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var hdr [shpHeaderSize]byte
	if _, err := io.ReadFull(f, hdr[:]); err != nil {
		return fmt.Errorf("truncated header: %w", err)
	}
	if code := binary.BigEndian.Uint32(hdr[0:4]); code != shpFileCode {
		return fmt.Errorf("bad file code %d", code)
	}
	switch typ := shp.ShapeType(binary.LittleEndian.Uint32(hdr[32:36])); typ {
	case shp.POLYGON, shp.POLYGONZ, shp.POLYGONM:
		return nil
	default:
		return fmt.Errorf("unsupported shape type %d, want polygons", typ)
	}
}

// shapeRings extracts the parts of a polygon record. ok is false for NULL
// records.
func shapeRings(s shp.Shape) (rings []orb.Ring, ok bool, err error) {
	switch p := s.(type) {
	case *shp.Null:
		return nil, false, nil
	case *shp.Polygon:
		rings, err = splitParts(p.Parts, p.Points)
	case *shp.PolygonZ:
		rings, err = splitParts(p.Parts, p.Points)
	case *shp.PolygonM:
		rings, err = splitParts(p.Parts, p.Points)
	default:
		return nil, false, fmt.Errorf("unsupported shape type %s", strings.TrimPrefix(fmt.Sprintf("%T", s), "*shp."))
	}
	return rings, err == nil, err
}

// splitParts cuts points into rings at the part offsets.
func splitParts(parts []int32, points []shp.Point) ([]orb.Ring, error) {
	rings := make([]orb.Ring, 0, len(parts))
	for i, start := range parts {
		end := int32(len(points))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || start > end || int(end) > len(points) {
			return nil, fmt.Errorf("part %d spans [%d, %d) of %d points", i, start, end, len(points))
		}
		r := make(orb.Ring, 0, end-start)
		for _, pt := range points[start:end] {
			r = append(r, orb.Point{pt.X, pt.Y})
		}
		rings = append(rings, r)
	}
	return rings, nil
}
