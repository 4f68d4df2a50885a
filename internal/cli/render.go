package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	fgerrors "github.com/cwirth/forcelayout/pkg/errors"
	"github.com/cwirth/forcelayout/pkg/graph"
	"github.com/cwirth/forcelayout/pkg/pipeline"
)

// renderCommand creates the render command for generating visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		layoutFile string
		noCache    bool
		barnesHut  string
	)
	opts := pipeline.Options{}
	c.applySettings(&opts)

	cmd := &cobra.Command{
		Use:   "render [graph file]",
		Short: "Render a graph layout to SVG, PNG, PDF, DOT, or JSON",
		Long: `Render a graph layout to one or more output formats.

By default the layout is computed as part of the run (and cached). Pass
--layout to reuse a previously computed layout.json instead of re-running
the simulation.

PNG and PDF output require librsvg (rsvg-convert) to be installed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := applyBarnesHutFlag(&opts, barnesHut); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], layoutFile, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().StringVar(&layoutFile, "layout", "", "reuse an existing layout.json instead of computing")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "output width in pixels")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.Labels, "labels", opts.Labels, "draw node labels")
	cmd.Flags().BoolVar(&opts.HideEdges, "no-edges", opts.HideEdges, "hide edge lines")
	cmd.Flags().BoolVar(&opts.Graphviz, "graphviz", opts.Graphviz, "render SVG through Graphviz neato")

	addLayoutFlags(cmd, &opts, &barnesHut)

	return cmd
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input, layoutFile string, opts pipeline.Options, output string, noCache bool) error {
	if output != "" {
		if err := fgerrors.ValidateOutputPath(output); err != nil {
			return err
		}
	}

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

	var artifacts map[string][]byte
	var cacheHit bool

	if layoutFile != "" {
		l, err := graph.ReadLayoutFile(layoutFile)
		if err != nil {
			return fmt.Errorf("load layout %s: %w", layoutFile, err)
		}
		artifacts, cacheHit, err = runner.RenderWithCacheInfo(ctx, g, l, opts)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
	} else {
		spinner := newSpinnerWithContext(ctx, "Rendering...")
		spinner.Start()

		result, err := runner.Execute(ctx, g, opts)
		if err != nil {
			spinner.StopWithError("Render failed")
			return err
		}
		spinner.Stop()
		artifacts = result.Artifacts
		cacheHit = result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	written, err := writeArtifacts(input, output, opts.Formats, artifacts)
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, path := range written {
		printFile(path)
	}
	printStats(g.NodeCount(), g.EdgeCount(), cacheHit)

	return nil
}

// writeArtifacts writes each rendered format to disk and returns the paths.
// With a single format, output names the file directly; with several, it is
// used as a base path and the format becomes the extension.
func writeArtifacts(input, output string, formats []string, artifacts map[string][]byte) ([]string, error) {
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	} else if len(formats) == 1 {
		data, ok := artifacts[formats[0]]
		if !ok {
			return nil, fmt.Errorf("no artifact for format %s", formats[0])
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", output, err)
		}
		return []string{output}, nil
	} else {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}

	written := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			return nil, fmt.Errorf("no artifact for format %s", format)
		}
		path := base + "." + format
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
