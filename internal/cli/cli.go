// Package cli implements the forcelayout command-line interface.
//
// This package provides commands for computing force-directed layouts of
// graphs, rendering them as visualizations, serving the pipeline over HTTP,
// and managing the result cache. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute node positions for a graph and write layout JSON
//   - render: Generate SVG, PNG, PDF, DOT, or JSON outputs
//   - serve: Run the HTTP API server
//   - cache: Manage the local result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cwirth/forcelayout/pkg/buildinfo"
	"github.com/cwirth/forcelayout/pkg/cache"
	fgerrors "github.com/cwirth/forcelayout/pkg/errors"
	"github.com/cwirth/forcelayout/pkg/graph"
	"github.com/cwirth/forcelayout/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "forcelayout"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger   *log.Logger
	Settings Settings
}

// New creates a new CLI instance with a default logger and settings loaded
// from the user's config file (missing files are fine).
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
	settings, err := LoadSettings()
	if err != nil {
		c.Logger.Warn("ignoring config file", "err", err)
		settings = DefaultSettings()
	}
	c.Settings = settings
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "forcelayout",
		Short:        "Forcelayout computes force-directed graph layouts",
		Long:         `Forcelayout is a CLI tool for computing force-directed layouts of graphs and rendering them as node-link diagrams. Connected nodes attract, all nodes repel, and an adaptive speed controller keeps the simulation stable.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The cache backend comes
// from settings (file by default); noCache forces the null cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}

	switch c.Settings.Cache.Backend {
	case CacheBackendNone:
		return cache.NewNullCache(), nil
	case CacheBackendRedis:
		return cache.NewRedisCache(ctx, c.Settings.Cache.RedisAddr)
	case CacheBackendMongo:
		return cache.NewMongoCache(ctx, c.Settings.Cache.MongoURI, c.Settings.Cache.MongoDatabase)
	}

	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/forcelayout/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Input Loading
// =============================================================================

// loadGraph reads a graph file, dispatching on extension: .dot and .gv files
// are parsed as Graphviz DOT, everything else as node-link JSON.
func loadGraph(ctx context.Context, path string) (*graph.Graph, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dot", ".gv":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return graph.FromDOT(ctx, data)
	default:
		return graph.ReadGraphFile(path)
	}
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// addLayoutFlags registers the simulation tuning flags shared by the layout
// and render commands.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options, barnesHut *string) {
	cmd.Flags().IntVarP(&opts.Iterations, "iterations", "n", opts.Iterations, "number of simulation iterations")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed for initial positions")
	cmd.Flags().Float64Var(&opts.ScalingRatio, "scaling", opts.ScalingRatio, "repulsion strength")
	cmd.Flags().Float64Var(&opts.Gravity, "gravity", opts.Gravity, "pull toward the origin")
	cmd.Flags().BoolVar(&opts.NoGravity, "no-gravity", opts.NoGravity, "disable gravity entirely")
	cmd.Flags().BoolVar(&opts.StrongGravity, "strong-gravity", opts.StrongGravity, "distance-independent gravity")
	cmd.Flags().BoolVar(&opts.DistributeHubs, "distribute-hubs", opts.DistributeHubs, "divide attraction by node mass (dissuade hubs)")
	cmd.Flags().Float64Var(&opts.EdgeWeightInfluence, "edge-weight-influence", opts.EdgeWeightInfluence, "exponent on edge weights in attraction")
	cmd.Flags().Float64Var(&opts.JitterTolerance, "jitter", opts.JitterTolerance, "tolerated position jitter")
	cmd.Flags().StringVar(barnesHut, "barnes-hut", "", "barnes-hut approximation: on, off, or auto (default)")
	cmd.Flags().Float64Var(&opts.Theta, "theta", opts.Theta, "barnes-hut accuracy parameter")
}

// applyBarnesHutFlag interprets the tri-state --barnes-hut flag.
func applyBarnesHutFlag(opts *pipeline.Options, flag string) error {
	switch flag {
	case "", "auto":
		opts.BarnesHut = nil
	case "on", "true":
		on := true
		opts.BarnesHut = &on
	case "off", "false":
		off := false
		opts.BarnesHut = &off
	default:
		return fgerrors.New(fgerrors.ErrCodeInvalidInput, "invalid --barnes-hut value %q (use on, off, or auto)", flag)
	}
	return nil
}
