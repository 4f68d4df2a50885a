package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/cwirth/forcelayout/pkg/graph"
	"github.com/cwirth/forcelayout/pkg/layout"
)

// SVGOption configures direct SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width      float64
	margin     float64
	baseRadius float64
	labels     bool
	edges      bool
}

// WithWidth sets the output width in pixels. Height follows the aspect
// ratio of the layout's bounding box.
func WithWidth(w float64) SVGOption { return func(r *svgRenderer) { r.width = w } }

// WithLabels draws node labels next to each node.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithoutEdges suppresses edge lines, leaving only the nodes.
func WithoutEdges() SVGOption { return func(r *svgRenderer) { r.edges = false } }

// WithNodeRadius sets the base node radius. Nodes grow with degree on
// top of this base.
func WithNodeRadius(radius float64) SVGOption {
	return func(r *svgRenderer) { r.baseRadius = radius }
}

// RenderSVG draws a node-link picture of the layout. Positions are mapped
// into the viewport preserving aspect ratio; node radius grows with the
// square root of degree so hubs stand out without dominating.
func RenderSVG(g *graph.Graph, pos []layout.Point, opts ...SVGOption) []byte {
	r := svgRenderer{
		width:      1000,
		margin:     40,
		baseRadius: 4,
		edges:      true,
	}
	for _, opt := range opts {
		opt(&r)
	}

	minX, minY, maxX, maxY := bounds(pos)
	spanX := maxX - minX
	spanY := maxY - minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}

	inner := r.width - 2*r.margin
	scale := inner / spanX
	height := spanY*scale + 2*r.margin

	px := func(p layout.Point) (float64, float64) {
		return r.margin + (p.X-minX)*scale, r.margin + (p.Y-minY)*scale
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, height, r.width, height)

	if r.edges {
		buf.WriteString(`  <g stroke="#94a3b8" stroke-width="0.8" stroke-opacity="0.6">` + "\n")
		for _, e := range g.Edges() {
			x1, y1 := px(pos[e.Node1])
			x2, y2 := px(pos[e.Node2])
			fmt.Fprintf(&buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", x1, y1, x2, y2)
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString(`  <g fill="#2563eb" stroke="#1e3a8a" stroke-width="0.5">` + "\n")
	for i := range pos {
		x, y := px(pos[i])
		radius := r.baseRadius + 2*math.Sqrt(float64(g.Degree(i)))
		fmt.Fprintf(&buf, `    <circle cx="%.2f" cy="%.2f" r="%.2f"/>`+"\n", x, y, radius)
	}
	buf.WriteString("  </g>\n")

	if r.labels {
		buf.WriteString(`  <g font-family="sans-serif" font-size="11" fill="#0f172a">` + "\n")
		for i := range pos {
			x, y := px(pos[i])
			radius := r.baseRadius + 2*math.Sqrt(float64(g.Degree(i)))
			fmt.Fprintf(&buf, `    <text x="%.2f" y="%.2f">%s</text>`+"\n",
				x+radius+3, y+4, escapeXML(g.Label(i)))
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func bounds(pos []layout.Point) (minX, minY, maxX, maxY float64) {
	if len(pos) == 0 {
		return 0, 0, 1, 1
	}
	minX, minY = pos[0].X, pos[0].Y
	maxX, maxY = pos[0].X, pos[0].Y
	for _, p := range pos[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}

var xmlReplacements = map[rune]string{
	'&':  "&amp;",
	'<':  "&lt;",
	'>':  "&gt;",
	'"':  "&quot;",
	'\'': "&apos;",
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		if repl, ok := xmlReplacements[r]; ok {
			buf.WriteString(repl)
		} else {
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
