// Package pipeline renders one map scenario from source data to an image
// file.
//
// # Architecture
//
// A render runs four stages in a fixed order:
//
//  1. Load: read land and lake polygons from shapefiles or GeoJSON
//  2. Normalize: swap axes, union each dataset, cut lakes and the
//     exclusion band out of the land, validate the result
//  3. Transform: reproject into the scenario's projection and map onto
//     the canvas, with an optional axis-flip reflection
//  4. Render: paint background, land and text onto the canvas and write
//     the output file atomically
//
// The first two stages are cached: the normalized geometry is stored
// under a key derived from the content of the source files and the
// normalization parameters.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, scenario, pipeline.Options{
//	    DataDir:   "data",
//	    OutputDir: "output",
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Output)
package pipeline

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/paulmach/orb"

	"github.com/matzehuels/worldmaps/pkg/canvas"
	"github.com/matzehuels/worldmaps/pkg/crs"
	"github.com/matzehuels/worldmaps/pkg/errors"
	"github.com/matzehuels/worldmaps/pkg/fonts"
	"github.com/matzehuels/worldmaps/pkg/transform"
)

// Stage names, as reported to hooks and logs.
const (
	StageLoad      = "load"
	StageNormalize = "normalize"
	StageTransform = "transform"
	StageRender    = "render"
)

// =============================================================================
// Scenario - immutable render configuration
// =============================================================================

// Scenario is everything one render depends on. Built-in scenarios live in
// package scenario; TOML files decode into the same record.
type Scenario struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`

	// Output is the file name, relative to the output directory. Its
	// extension picks the format.
	Output string      `toml:"output"`
	Width  canvas.Unit `toml:"width"`
	Height canvas.Unit `toml:"height"`

	// Background fills the canvas first. Nil leaves it transparent.
	Background *canvas.Color `toml:"background"`
	Fill       canvas.Color  `toml:"fill"`

	// Land and Lakes are source files, relative to the data directory.
	Land  []string `toml:"land"`
	Lakes []string `toml:"lakes"`

	// SourceCRS is the CRS the files store. Empty means OGC:CRS84.
	SourceCRS string `toml:"source_crs"`
	// SwapAxes moves geometry to (lat, lon) order before anything else.
	SwapAxes bool `toml:"swap_axes"`
	// ExcludeBand is removed from the land, in the working axis order.
	ExcludeBand *Band `toml:"exclude_band"`
	// Strict rejects self-intersecting rings after normalization.
	Strict bool `toml:"strict"`

	// Projection is a CRS identifier or PROJ.4 string. Empty keeps the
	// working CRS.
	Projection string     `toml:"projection"`
	Scale      ScaleSpec  `toml:"scale"`
	GeoOrigin  orb.Point  `toml:"geo_origin"`
	Origin     CanvasSpot `toml:"canvas_origin"`
	// Reflect applies (x, y) -> (-y + cx, -x + cy) about the canvas centre
	// after the main transform.
	Reflect bool `toml:"reflect"`
	// Clip trims land to the canvas before painting.
	Clip bool `toml:"clip"`

	Text []TextSpec `toml:"text"`
}

// Band is an axis-aligned rectangle in geometry coordinates.
type Band struct {
	MinX float64 `toml:"min_x"`
	MinY float64 `toml:"min_y"`
	MaxX float64 `toml:"max_x"`
	MaxY float64 `toml:"max_y"`
}

// Bound returns b as an orb.Bound.
func (b Band) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{b.MinX, b.MinY}, Max: orb.Point{b.MaxX, b.MaxY}}
}

// ScaleSpec is "X and Y geographic units per Per on the canvas". A
// negative Y turns a north-up projection into a y-down canvas.
type ScaleSpec struct {
	X   float64     `toml:"x"`
	Y   float64     `toml:"y"`
	Per canvas.Unit `toml:"per"`
}

// Scale converts s into geographic units per point.
func (s ScaleSpec) Scale() transform.Scale {
	per := s.Per.Pt()
	if per == 0 {
		per = 1
	}
	return transform.Scale{X: s.X / per, Y: s.Y / per}
}

// CanvasSpot is a canvas position.
type CanvasSpot struct {
	X canvas.Unit `toml:"x"`
	Y canvas.Unit `toml:"y"`
}

// Point returns the position in canvas coordinates.
func (c CanvasSpot) Point() orb.Point { return orb.Point{c.X.Pt(), c.Y.Pt()} }

// TextSpec is a text block painted on top of the land.
type TextSpec struct {
	Content string       `toml:"content"`
	Bold    bool         `toml:"bold"`
	Size    canvas.Unit  `toml:"size"`
	Color   canvas.Color `toml:"color"`
	X       canvas.Unit  `toml:"x"`
	Y       canvas.Unit  `toml:"y"`
	// Width is the wrapping width. Zero disables wrapping.
	Width canvas.Unit `toml:"width"`
	// Align is "left", "center" or "right".
	Align string `toml:"align"`
}

// Weight returns the font weight of the block.
func (t TextSpec) Weight() fonts.Weight {
	if t.Bold {
		return fonts.Bold
	}
	return fonts.Regular
}

// Alignment parses Align.
func (t TextSpec) Alignment() (canvas.Align, error) {
	switch strings.ToLower(t.Align) {
	case "", "left":
		return canvas.AlignLeft, nil
	case "center", "centre":
		return canvas.AlignCenter, nil
	case "right":
		return canvas.AlignRight, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidScenario, "invalid text alignment %q", t.Align)
}

// =============================================================================
// Scenario methods
// =============================================================================

// Validate checks the scenario without touching the filesystem.
func (s Scenario) Validate() error {
	if err := errors.ValidateScenarioName(s.Name); err != nil {
		return err
	}
	if s.Output == "" {
		return errors.New(errors.ErrCodeInvalidScenario, "scenario %s: output is required", s.Name)
	}
	if filepath.IsAbs(s.Output) || strings.HasPrefix(filepath.Clean(s.Output), "..") {
		return errors.New(errors.ErrCodeInvalidScenario, "scenario %s: output %q must stay inside the output directory", s.Name, s.Output)
	}
	if _, err := canvas.FormatFromPath(s.Output); err != nil {
		return err
	}
	if s.Width <= 0 || s.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidScenario, "scenario %s: canvas size %v x %v must be positive", s.Name, s.Width, s.Height)
	}
	if len(s.Land) == 0 {
		return errors.New(errors.ErrCodeInvalidScenario, "scenario %s: no land sources", s.Name)
	}
	if _, err := s.WorkingCRS(); err != nil {
		return err
	}
	if _, err := s.DestCRS(); err != nil {
		return err
	}
	if err := s.Scale.Scale().Validate(); err != nil {
		return fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	if b := s.ExcludeBand; b != nil && (!finiteBand(b.Bound()) || b.MinX >= b.MaxX || b.MinY >= b.MaxY) {
		return errors.New(errors.ErrCodeInvalidScenario, "scenario %s: invalid exclusion band %+v", s.Name, *b)
	}
	for i, t := range s.Text {
		if t.Size <= 0 {
			return errors.New(errors.ErrCodeInvalidScenario, "scenario %s: text %d has no size", s.Name, i)
		}
		if _, err := t.Alignment(); err != nil {
			return err
		}
	}
	return nil
}

// SourceCRSValue parses SourceCRS.
func (s Scenario) SourceCRSValue() (crs.CRS, error) {
	if s.SourceCRS == "" {
		return crs.LonLat, nil
	}
	return crs.Parse(s.SourceCRS)
}

// WorkingCRS is the CRS of normalized geometry: the source CRS, with its
// axes flipped when SwapAxes is set.
func (s Scenario) WorkingCRS() (crs.CRS, error) {
	c, err := s.SourceCRSValue()
	if err != nil {
		return crs.CRS{}, err
	}
	if s.SwapAxes {
		c = c.Swapped()
	}
	return c, nil
}

// DestCRS is the projection geometry is mapped through.
func (s Scenario) DestCRS() (crs.CRS, error) {
	if s.Projection == "" {
		return s.WorkingCRS()
	}
	return crs.Parse(s.Projection)
}

// TransformConfig assembles the geographic to canvas mapping.
func (s Scenario) TransformConfig() (transform.Config, error) {
	src, err := s.WorkingCRS()
	if err != nil {
		return transform.Config{}, err
	}
	dst, err := s.DestCRS()
	if err != nil {
		return transform.Config{}, err
	}
	return transform.Config{
		Source: src,
		Dest:   dst,
		Scale:  s.Scale.Scale(),
		Origin: transform.Origin{Geo: s.GeoOrigin, GeoCRS: src, Canvas: s.Origin.Point()},
	}, nil
}

// Center is the middle of the canvas, the pivot of the reflection step.
func (s Scenario) Center() orb.Point {
	return orb.Point{s.Width.Pt() / 2, s.Height.Pt() / 2}
}

// OutputPath joins the output directory and the scenario's file name.
func (s Scenario) OutputPath(dir string) string {
	return filepath.Join(dir, s.Output)
}

// =============================================================================
// Options and results
// =============================================================================

// Options are the per-run settings that are not part of the scenario.
type Options struct {
	// DataDir resolves relative source paths. Empty means ".".
	DataDir string
	// OutputDir receives the image. Empty means ".".
	OutputDir string
	// Refresh ignores cached geometry and overwrites it.
	Refresh bool
}

// Result describes a finished render.
type Result struct {
	RunID     string
	Scenario  string
	Output    string
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LandRecords   int
	LakeRecords   int
	Polygons      int
	Points        int
	Area          float64
	LoadTime      time.Duration
	NormalizeTime time.Duration
	TransformTime time.Duration
	RenderTime    time.Duration
}

// Total is the summed stage time.
func (s Stats) Total() time.Duration {
	return s.LoadTime + s.NormalizeTime + s.TransformTime + s.RenderTime
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	GeometryHit bool
}

func finiteBand(b orb.Bound) bool {
	for _, v := range []float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
