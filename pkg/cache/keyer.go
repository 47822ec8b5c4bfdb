package cache

import "fmt"

// Keyer builds cache keys.
type Keyer interface {
	// GeometryKey returns the key for normalized geometry.
	GeometryKey(opts GeometryKeyOpts) string
	// SourceKey returns the key under which the hash of a source file is
	// remembered, so unchanged files are not hashed twice.
	SourceKey(path string, size int64, modUnix int64) string
}

// GeometryKeyOpts lists everything normalized geometry depends on.
type GeometryKeyOpts struct {
	// Land and Lakes are content hashes of the source files.
	Land  []string `json:"land"`
	Lakes []string `json:"lakes,omitempty"`
	// CRS is the identifier the sources are read in.
	CRS string `json:"crs"`
	// SwapAxes is set when the geometry is moved to (lat, lon) order.
	SwapAxes bool `json:"swap_axes,omitempty"`
	// Band is the excluded rectangle as min x, min y, max x, max y.
	Band []float64 `json:"band,omitempty"`
	// Strict enables self-intersection checks during validation.
	Strict bool `json:"strict,omitempty"`
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GeometryKey implements [Keyer].
func (DefaultKeyer) GeometryKey(opts GeometryKeyOpts) string {
	return hashKey("geometry", opts)
}

// SourceKey implements [Keyer].
func (DefaultKeyer) SourceKey(path string, size, modUnix int64) string {
	return hashKey("source", fmt.Sprintf("%s|%d|%d", path, size, modUnix))
}

var _ Keyer = DefaultKeyer{}
