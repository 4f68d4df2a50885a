package render

import (
	"strconv"
	"strings"
	"testing"

	"github.com/cwirth/forcelayout/pkg/graph"
	"github.com/cwirth/forcelayout/pkg/layout"
)

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.NewLabeled([]string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("NewLabeled error: %v", err)
	}
	if err := g.AddEdge(0, 1, 1); err != nil {
		t.Fatalf("AddEdge error: %v", err)
	}
	if err := g.AddEdge(1, 2, 1); err != nil {
		t.Fatalf("AddEdge error: %v", err)
	}
	return g
}

func testPositions() []layout.Point {
	return []layout.Point{{X: 0, Y: 0}, {X: 2, Y: 1}, {X: 4, Y: 0}}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testGraph(t), testPositions())

	if !strings.HasPrefix(dot, "graph G {") {
		t.Errorf("DOT should be an undirected graph, got prefix %q", dot[:20])
	}
	if !strings.Contains(dot, "layout=neato") {
		t.Error("DOT should request neato layout")
	}

	// Every node must carry a pinned position
	for _, label := range []string{`"a"`, `"b"`, `"c"`} {
		if !strings.Contains(dot, label+" [pos=") {
			t.Errorf("DOT missing pinned node %s", label)
		}
	}
	if strings.Count(dot, `!"`) != 3 {
		t.Errorf("expected 3 pinned positions, got %d", strings.Count(dot, `!"`))
	}

	// Edges are undirected
	if !strings.Contains(dot, `"a" -- "b"`) || !strings.Contains(dot, `"b" -- "c"`) {
		t.Error("DOT missing edges")
	}
	if strings.Contains(dot, "->") {
		t.Error("undirected DOT should not contain directed edges")
	}
}

func TestToDOTFlipsY(t *testing.T) {
	// Node b sits below a in layout space, so it must get a smaller
	// Graphviz y (Graphviz y grows upward).
	g, err := graph.NewLabeled([]string{"a", "b"})
	if err != nil {
		t.Fatalf("NewLabeled error: %v", err)
	}
	dot := ToDOT(g, []layout.Point{{X: 0, Y: 0}, {X: 0, Y: 1}})

	var aY, bY float64
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, `"a" [pos=`) {
			aY = posY(t, line)
		}
		if strings.Contains(line, `"b" [pos=`) {
			bY = posY(t, line)
		}
	}
	if aY <= bY {
		t.Errorf("y axis not flipped: a=%v b=%v", aY, bY)
	}
}

func posY(t *testing.T, line string) float64 {
	t.Helper()
	start := strings.Index(line, `pos="`)
	end := strings.Index(line, `!"`)
	if start < 0 || end < 0 {
		t.Fatalf("no pos in line %q", line)
	}
	parts := strings.Split(line[start+5:end], ",")
	if len(parts) != 2 {
		t.Fatalf("malformed pos in line %q", line)
	}
	y, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		t.Fatalf("parse y: %v", err)
	}
	return y
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testGraph(t), testPositions()))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Error("missing svg root element")
	}
	if strings.Count(svg, "<circle") != 3 {
		t.Errorf("expected 3 circles, got %d", strings.Count(svg, "<circle"))
	}
	if strings.Count(svg, "<line") != 2 {
		t.Errorf("expected 2 edge lines, got %d", strings.Count(svg, "<line"))
	}
	// Labels off by default
	if strings.Contains(svg, "<text") {
		t.Error("labels should be off by default")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	svg := string(RenderSVG(testGraph(t), testPositions(), WithLabels(), WithoutEdges()))

	if strings.Contains(svg, "<line") {
		t.Error("WithoutEdges should suppress edge lines")
	}
	if strings.Count(svg, "<text") != 3 {
		t.Errorf("expected 3 labels, got %d", strings.Count(svg, "<text"))
	}
	for _, label := range []string{">a<", ">b<", ">c<"} {
		if !strings.Contains(svg, label) {
			t.Errorf("missing label %s", label)
		}
	}
}

func TestRenderSVGEscapesLabels(t *testing.T) {
	g, err := graph.NewLabeled([]string{`<a & "b">`})
	if err != nil {
		t.Fatalf("NewLabeled error: %v", err)
	}
	svg := string(RenderSVG(g, []layout.Point{{X: 0, Y: 0}}, WithLabels()))

	if strings.Contains(svg, `<a &`) {
		t.Error("label not escaped")
	}
	if !strings.Contains(svg, "&lt;a &amp; &quot;b&quot;&gt;") {
		t.Error("expected escaped label entities")
	}
}

func TestRenderSVGSingleNode(t *testing.T) {
	// Degenerate bounding box must not divide by zero
	g, err := graph.NewLabeled([]string{"only"})
	if err != nil {
		t.Fatalf("NewLabeled error: %v", err)
	}
	svg := string(RenderSVG(g, []layout.Point{{X: 5, Y: 5}}))
	if !strings.Contains(svg, "<circle") {
		t.Error("single node should still render")
	}
	if strings.Contains(svg, "NaN") || strings.Contains(svg, "Inf") {
		t.Error("degenerate bounds produced non-finite coordinates")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="8in" height="6in" viewBox="0.00 0.00 720.00 540.00">rest</svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 720.00 540.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="720" height="540"`) {
		t.Errorf("dimensions not pixel-normalized: %s", out)
	}

	// SVG without a viewBox passes through untouched
	plain := []byte(`<svg>bare</svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}
