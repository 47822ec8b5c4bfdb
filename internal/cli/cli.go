// Package cli implements the worldmaps command-line interface.
//
// # Commands
//
//   - render: render built-in scenarios or scenario files
//   - list: show the built-in scenarios
//   - pick: choose a scenario interactively and render it
//   - cache: clear or locate the normalized-geometry cache
//   - completion: shell completion scripts
//
// All commands accept --verbose (-v) for debug logging. Rendering flags
// only choose where data comes from and where images go; everything that
// affects the picture lives in the scenario.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/worldmaps/pkg/buildinfo"
	"github.com/matzehuels/worldmaps/pkg/cache"
	"github.com/matzehuels/worldmaps/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories, key prefixes
	// and display.
	appName = "worldmaps"

	defaultDataDir   = "data"
	defaultOutputDir = "output"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	flags  globalFlags
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	dataDir    string
	outputDir  string
	noCache    bool
	cacheURL   string
	cacheScope string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		flags: globalFlags{
			dataDir:   defaultDataDir,
			outputDir: defaultOutputDir,
		},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Worldmaps renders static world maps from Natural Earth data",
		Long: `Worldmaps renders static world maps: it loads land and lake polygons,
normalizes them, projects them onto a canvas and writes PNG, JPEG or SVG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.dataDir, "data", c.flags.dataDir, "directory holding the source shapefiles")
	pf.StringVar(&c.flags.outputDir, "output-dir", c.flags.outputDir, "directory images are written to")
	pf.BoolVar(&c.flags.noCache, "no-cache", false, "disable the normalized-geometry cache")
	pf.StringVar(&c.flags.cacheURL, "cache-url", "", "share the cache through redis (redis://host:port/db)")
	pf.StringVar(&c.flags.cacheScope, "cache-scope", "", "prefix for cache keys, e.g. a data release name")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if c.flags.cacheScope != "" {
		keyer = cache.NewScopedKeyer(nil, c.flags.cacheScope+":")
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

// newCache picks the cache backend from the global flags. A missing cache
// directory disables caching rather than failing the render.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	switch {
	case c.flags.noCache:
		return cache.NewNullCache(), nil
	case c.flags.cacheURL != "":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			URL:    c.flags.cacheURL,
			Prefix: appName + ":",
		})
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// options turns the global flags into pipeline options.
func (c *CLI) options(refresh bool) pipeline.Options {
	return pipeline.Options{
		DataDir:   c.flags.dataDir,
		OutputDir: c.flags.outputDir,
		Refresh:   refresh,
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory (~/.cache/worldmaps/ on Linux).
func cacheDir() (string, error) {
	return cache.DefaultDir()
}
