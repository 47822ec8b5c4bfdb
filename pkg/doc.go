// Package pkg provides the libraries behind worldmaps, a static map
// renderer.
//
// # Overview
//
// Worldmaps turns polygon datasets (Natural Earth land and lakes) into a
// finished map image. Every render is described by an immutable scenario
// and runs the same four stages:
//
//	shapefile / GeoJSON
//	         ↓
//	    [source] package (load polygons in their CRS)
//	         ↓
//	    [normalize] package (swap axes, union, difference, validate)
//	         ↓
//	    [transform] package (reproject, scale, anchor, reflect)
//	         ↓
//	    [drawable] + [canvas] packages (paint in order, write atomically)
//	         ↓
//	    PNG/JPEG/SVG output
//
// # Quick Start
//
// Render a built-in scenario:
//
//	import (
//	    "github.com/matzehuels/worldmaps/pkg/pipeline"
//	    "github.com/matzehuels/worldmaps/pkg/scenario"
//	)
//
//	sc, _ := scenario.Get(scenario.SocialPreview)
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Execute(ctx, sc, pipeline.Options{
//	    DataDir:   "data",
//	    OutputDir: "output",
//	})
//
// # Main Packages
//
// ## Geometry
//
// [geo] - Polygon geometry tagged with its coordinate reference system.
// Operations between geometries check that the CRS tags agree.
//
// [crs] - CRS identifiers, PROJ.4 parsing and point projectors, including
// the rectified polyconic projection.
//
// [source] - Shapefile and GeoJSON loaders.
//
// [normalize] - Axis swap, union, difference and band exclusion.
//
// [transform] - Geographic to canvas point functions.
//
// ## Drawing
//
// [canvas] - Raster (PNG, JPEG) and vector (SVG) canvases with units,
// colors and text layout. Output appears only on a successful Close.
//
// [drawable] - Background, polygon and text layers painted in order.
//
// [fonts] - Embedded fonts for raster and vector text.
//
// ## Orchestration
//
// [pipeline] - Scenario record and the runner executing the four stages
// with caching, hooks and stats.
//
// [scenario] - Built-in scenarios and TOML scenario files.
//
// ## Infrastructure
//
// [cache] - Normalized-geometry cache: filesystem, Redis or disabled.
//
// [observability] - Stage and cache hooks.
//
// [errors] - Structured errors with stable codes.
//
// [buildinfo] - Version information set at build time.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/normalize/...          # Specific package
//	go test -run Example ./pkg/...       # Examples only
package pkg
