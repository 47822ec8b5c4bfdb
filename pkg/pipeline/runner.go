package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/worldmaps/pkg/cache"
	"github.com/matzehuels/worldmaps/pkg/geo"
	"github.com/matzehuels/worldmaps/pkg/observability"
)

// Runner executes scenarios with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store render results. Multiple goroutines can safely use the same
// Runner with different scenarios.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute renders sc. On any error the output path holds no file.
func (r *Runner) Execute(ctx context.Context, sc Scenario, opts Options) (*Result, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	result := &Result{
		RunID:    uuid.NewString(),
		Scenario: sc.Name,
		Output:   sc.OutputPath(opts.OutputDir),
	}
	logger := r.Logger.With("run", result.RunID[:8], "scenario", sc.Name)

	land, hit, err := r.NormalizedGeometry(ctx, sc, opts, &result.Stats)
	if err != nil {
		return nil, err
	}
	result.CacheInfo.GeometryHit = hit
	result.Stats.Polygons = land.NumPolygons()
	result.Stats.Points = land.NumPoints()
	result.Stats.Area = land.Area()
	logger.Info("normalized geometry",
		"polygons", result.Stats.Polygons,
		"points", result.Stats.Points,
		"cached", hit,
		"duration", result.Stats.LoadTime+result.Stats.NormalizeTime)

	var mapped geo.Geometry
	result.Stats.TransformTime, err = r.stage(ctx, sc.Name, StageTransform, func() error {
		mapped, err = Project(sc, land)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	logger.Info("mapped onto canvas",
		"bound", mapped.Bound(),
		"duration", result.Stats.TransformTime)

	result.Stats.RenderTime, err = r.stage(ctx, sc.Name, StageRender, func() error {
		return Render(ctx, sc, mapped, result.Output)
	})
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	logger.Info("wrote image",
		"path", result.Output,
		"size", fmt.Sprintf("%.0fx%.0f px", sc.Width.Px(), sc.Height.Px()),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// NormalizedGeometry loads and normalizes the land of sc, using the cache
// when the sources are unchanged. The stats of the stages that ran are
// written to stats, which may be nil.
func (r *Runner) NormalizedGeometry(ctx context.Context, sc Scenario, opts Options, stats *Stats) (geo.Geometry, bool, error) {
	if stats == nil {
		stats = &Stats{}
	}
	working, err := sc.WorkingCRS()
	if err != nil {
		return geo.Geometry{}, false, err
	}

	key, err := r.geometryKey(ctx, sc, opts)
	if err != nil {
		return geo.Geometry{}, false, err
	}
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			g, err := geo.UnmarshalGeoJSON(data)
			switch {
			case err != nil:
				r.Logger.Warn("discarding unreadable cache entry", "key", key, "error", err)
			case !g.CRS().Equal(working):
				r.Logger.Warn("discarding cache entry in another CRS", "key", key, "crs", g.CRS(), "want", working)
			default:
				observability.Cache().OnCacheHit(ctx, "geometry")
				r.Logger.Debug("geometry cache hit", "key", key)
				return g, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		}
	}
	observability.Cache().OnCacheMiss(ctx, "geometry")

	var in *Inputs
	stats.LoadTime, err = r.stage(ctx, sc.Name, StageLoad, func() error {
		in, err = Load(sc, opts.DataDir)
		return err
	})
	if err != nil {
		return geo.Geometry{}, false, fmt.Errorf("load: %w", err)
	}
	stats.LandRecords, stats.LakeRecords = in.landRecords(), in.lakeRecords()
	r.Logger.Debug("loaded sources", "land", stats.LandRecords, "lakes", stats.LakeRecords, "duration", stats.LoadTime)

	var land geo.Geometry
	stats.NormalizeTime, err = r.stage(ctx, sc.Name, StageNormalize, func() error {
		land, err = Normalize(sc, in)
		return err
	})
	if err != nil {
		return geo.Geometry{}, false, fmt.Errorf("normalize: %w", err)
	}

	if data, err := geo.MarshalGeoJSON(land); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLGeometry); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "geometry", len(data))
		}
	}
	return land, false, nil
}

// geometryKey hashes the sources and the normalization parameters.
func (r *Runner) geometryKey(ctx context.Context, sc Scenario, opts Options) (string, error) {
	working, err := sc.SourceCRSValue()
	if err != nil {
		return "", err
	}
	keyOpts := cache.GeometryKeyOpts{
		CRS:      working.ID,
		SwapAxes: sc.SwapAxes,
		Strict:   sc.Strict,
	}
	if b := sc.ExcludeBand; b != nil {
		keyOpts.Band = []float64{b.MinX, b.MinY, b.MaxX, b.MaxY}
	}
	for _, p := range sc.Land {
		h, err := r.sourceHash(ctx, resolve(opts.DataDir, p))
		if err != nil {
			return "", err
		}
		keyOpts.Land = append(keyOpts.Land, h)
	}
	for _, p := range sc.Lakes {
		h, err := r.sourceHash(ctx, resolve(opts.DataDir, p))
		if err != nil {
			return "", err
		}
		keyOpts.Lakes = append(keyOpts.Lakes, h)
	}
	return r.Keyer.GeometryKey(keyOpts), nil
}

// sourceHash returns the content hash of path. Hashes are remembered per
// path, size and modification time so unchanged files are hashed once.
func (r *Runner) sourceHash(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		// Load reports missing sources with the proper error code.
		return "missing:" + path, nil
	}
	key := r.Keyer.SourceKey(path, info.Size(), info.ModTime().UnixNano())
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		return string(data), nil
	}
	h, err := cache.HashFile(path)
	if err != nil {
		return "missing:" + path, nil
	}
	_ = r.Cache.Set(ctx, key, []byte(h), cache.TTLGeometry)
	return h, nil
}

// stage runs fn as the named stage: it checks for cancellation, reports
// to the pipeline hooks and times fn.
func (r *Runner) stage(ctx context.Context, scenario, name string, fn func() error) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, scenario, name)
	start := time.Now()
	err := fn()
	d := time.Since(start)
	hooks.OnStageComplete(ctx, scenario, name, d, err)
	return d, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// resolve joins a relative source path onto dir.
func resolve(dir, path string) string {
	if filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}
