package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	fgerrors "github.com/cwirth/forcelayout/pkg/errors"
	"github.com/cwirth/forcelayout/pkg/graph"
	"github.com/cwirth/forcelayout/pkg/pipeline"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output    string
		noCache   bool
		watch     bool
		barnesHut string
	)
	opts := pipeline.Options{}
	c.applySettings(&opts)

	cmd := &cobra.Command{
		Use:   "layout [graph file]",
		Short: "Compute a force-directed layout for a graph",
		Long: `Compute a force-directed layout for a graph.

The layout command takes a graph file (node-link JSON, or Graphviz DOT for
.dot/.gv files) and runs the force simulation to compute node positions. The
output is a layout.json file (same format as 'render -f json') that can be
rendered to SVG/PNG/PDF using the 'render' command.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyBarnesHutFlag(&opts, barnesHut); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache, watch)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&watch, "watch", false, "show live simulation statistics")

	addLayoutFlags(cmd, &opts, &barnesHut)

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache, watch bool) error {
	g, err := loadGraph(ctx, input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	var l graph.Layout
	var cacheHit bool
	if watch {
		l, err = c.watchLayout(ctx, runner, g, opts)
		if errors.Is(err, errLayoutInterrupted) {
			printWarning("Layout interrupted, no output written")
			return nil
		}
		if err != nil {
			return fmt.Errorf("compute layout: %w", err)
		}
	} else {
		spinner := newSpinnerWithContext(ctx, "Computing layout...")
		spinner.Start()

		l, cacheHit, err = runner.ComputeLayoutWithCacheInfo(ctx, g, opts)
		if err != nil {
			spinner.StopWithError("Layout failed")
			return fmt.Errorf("compute layout: %w", err)
		}
		spinner.Stop()
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}
	if err := fgerrors.ValidateOutputPath(outputPath); err != nil {
		return err
	}

	if err := graph.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(g.NodeCount(), g.EdgeCount(), cacheHit)
	printNewline()
	printNextStep("Render", "forcelayout render "+input+" --layout "+outputPath)

	return nil
}

// applySettings seeds pipeline options from the config file. Flags bind to
// the resulting values, so explicit flags still win.
func (c *CLI) applySettings(opts *pipeline.Options) {
	s := c.Settings.Layout
	if s.Iterations > 0 {
		opts.Iterations = s.Iterations
	}
	if s.Seed != 0 {
		opts.Seed = s.Seed
	}
	if s.Scaling != 0 {
		opts.ScalingRatio = s.Scaling
	}
	if s.Gravity != 0 {
		opts.Gravity = s.Gravity
	}
}
