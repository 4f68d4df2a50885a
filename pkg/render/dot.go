package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/cwirth/forcelayout/pkg/graph"
	"github.com/cwirth/forcelayout/pkg/layout"
)

// dotSpanInches is the target extent of the pinned coordinate grid.
// Layout coordinates are unitless; neato reads pos in inches, so the
// bounding box is rescaled to a sensible page size.
const dotSpanInches = 10.0

// ToDOT converts a graph and its computed positions to Graphviz DOT with
// pinned node positions (pos="x,y!"). Rendering the result with neato
// keeps the layout and lets Graphviz handle styling and labels.
func ToDOT(g *graph.Graph, pos []layout.Point) string {
	minX, minY, maxX, maxY := bounds(pos)
	span := maxX - minX
	if s := maxY - minY; s > span {
		span = s
	}
	if span == 0 {
		span = 1
	}
	scale := dotSpanInches / span

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=\"#2563eb\", fontcolor=white, fontsize=10, fixedsize=true, width=0.35];\n")
	buf.WriteString("  edge [color=\"#94a3b8\"];\n")
	buf.WriteString("\n")

	for i := range pos {
		// Flip Y: layout grows downward, Graphviz grows upward.
		x := (pos[i].X - minX) * scale
		y := (maxY - pos[i].Y) * scale
		fmt.Fprintf(&buf, "  %q [pos=\"%.4f,%.4f!\"];\n", g.Label(i), x, y)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -- %q;\n", g.Label(e.Node1), g.Label(e.Node2))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// GraphvizSVG renders a DOT graph to SVG using Graphviz.
// The DOT should carry pinned positions from [ToDOT]; neato respects them.
func GraphvizSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
