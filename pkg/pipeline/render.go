package pipeline

import (
	"context"

	fgerrors "github.com/cwirth/forcelayout/pkg/errors"
	"github.com/cwirth/forcelayout/pkg/graph"
	"github.com/cwirth/forcelayout/pkg/layout"
	"github.com/cwirth/forcelayout/pkg/render"
)

// RenderFromLayout generates all requested artifacts from a computed layout.
// SVG is drawn directly unless opts.Graphviz routes it through neato; PNG
// and PDF are converted from the SVG with rsvg-convert.
func RenderFromLayout(ctx context.Context, g *graph.Graph, l graph.Layout, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()

	if len(l.Positions) != g.NodeCount() {
		return nil, fgerrors.New(fgerrors.ErrCodeInvalidInput,
			"layout has %d positions for %d nodes", len(l.Positions), g.NodeCount())
	}

	pos := make([]layout.Point, len(l.Positions))
	for i, p := range l.Positions {
		pos[i] = layout.Point{X: p.X, Y: p.Y}
	}

	artifacts := make(map[string][]byte, len(opts.Formats))

	// SVG is rendered once and shared by the raster conversions.
	var svg []byte
	needSVG := false
	for _, f := range opts.Formats {
		if f == FormatSVG || f == FormatPNG || f == FormatPDF {
			needSVG = true
		}
	}
	if needSVG {
		var err error
		svg, err = renderSVG(ctx, g, pos, opts)
		if err != nil {
			return nil, err
		}
	}

	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			artifacts[format] = svg
		case FormatPNG:
			png, err := render.ToPNG(svg, opts.Scale)
			if err != nil {
				return nil, fgerrors.Wrap(fgerrors.ErrCodeInternal, err, "png conversion")
			}
			artifacts[format] = png
		case FormatPDF:
			pdf, err := render.ToPDF(svg)
			if err != nil {
				return nil, fgerrors.Wrap(fgerrors.ErrCodeInternal, err, "pdf conversion")
			}
			artifacts[format] = pdf
		case FormatDOT:
			artifacts[format] = []byte(render.ToDOT(g, pos))
		case FormatJSON:
			data, err := graph.MarshalLayout(l)
			if err != nil {
				return nil, fgerrors.Wrap(fgerrors.ErrCodeInternal, err, "layout serialization")
			}
			artifacts[format] = data
		default:
			return nil, fgerrors.New(fgerrors.ErrCodeInvalidFormat, "unsupported format %q", format)
		}
	}

	return artifacts, nil
}

func renderSVG(ctx context.Context, g *graph.Graph, pos []layout.Point, opts Options) ([]byte, error) {
	if opts.Graphviz {
		svg, err := render.GraphvizSVG(ctx, render.ToDOT(g, pos))
		if err != nil {
			return nil, fgerrors.Wrap(fgerrors.ErrCodeInternal, err, "graphviz rendering")
		}
		return svg, nil
	}

	svgOpts := []render.SVGOption{render.WithWidth(opts.Width)}
	if opts.Labels {
		svgOpts = append(svgOpts, render.WithLabels())
	}
	if opts.HideEdges {
		svgOpts = append(svgOpts, render.WithoutEdges())
	}
	return render.RenderSVG(g, pos, svgOpts...), nil
}
