package graph

import (
	"errors"
	"fmt"
	"strconv"

	fgerrors "github.com/cwirth/forcelayout/pkg/errors"
)

var (
	// ErrNegativeWeight is returned by [Graph.AddEdge] for a negative edge
	// weight. Weights must be non-negative.
	ErrNegativeWeight = errors.New("edge weight must not be negative")

	// ErrSelfLoop is returned by [Graph.AddEdge] when both endpoints are the
	// same node. Self-loops carry no meaning for a spatial layout.
	ErrSelfLoop = errors.New("self-loops are not supported")

	// ErrNodeRange is returned by [Graph.AddEdge] when an endpoint index is
	// outside [0, NodeCount).
	ErrNodeRange = errors.New("edge endpoint out of range")

	// ErrDuplicateLabel is returned by [NewLabeled] when two nodes share a
	// label. Labels must be unique since they identify nodes on the wire.
	ErrDuplicateLabel = errors.New("duplicate node label")
)

// Edge is an unordered pair of node indices with a non-negative weight.
// Edges are immutable once added.
type Edge struct {
	Node1  int
	Node2  int
	Weight float64
}

// Graph is a weighted undirected graph with a fixed node set, identified by
// index. Node identity and count never change after construction; only edges
// accumulate. Graph is not safe for concurrent mutation.
type Graph struct {
	n       int
	labels  []string
	edges   []Edge
	degrees []int
}

// New creates a graph with n nodes, indexed 0..n-1, and no edges.
// A zero-node graph is valid and lays out as a no-op.
func New(n int) *Graph {
	if n < 0 {
		n = 0
	}
	return &Graph{n: n, degrees: make([]int, n)}
}

// NewLabeled creates a graph with one node per label, in label order.
// Returns ErrDuplicateLabel if two labels collide, or an invalid-graph
// error for labels that would break DOT output or cache keys.
func NewLabeled(labels []string) (*Graph, error) {
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if err := fgerrors.ValidateNodeID(l); err != nil {
			return nil, err
		}
		if _, dup := seen[l]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLabel, l)
		}
		seen[l] = struct{}{}
	}
	g := New(len(labels))
	g.labels = append([]string(nil), labels...)
	return g, nil
}

// AddEdge adds an undirected edge between nodes a and b.
// Returns ErrNodeRange, ErrSelfLoop or ErrNegativeWeight on invalid input.
// Parallel edges are allowed; their attractions simply add up.
func (g *Graph) AddEdge(a, b int, weight float64) error {
	if a < 0 || a >= g.n || b < 0 || b >= g.n {
		return fmt.Errorf("%w: (%d, %d) with %d nodes", ErrNodeRange, a, b, g.n)
	}
	if a == b {
		return fmt.Errorf("%w: node %d", ErrSelfLoop, a)
	}
	if weight < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeWeight, weight)
	}
	g.edges = append(g.edges, Edge{Node1: a, Node2: b, Weight: weight})
	g.degrees[a]++
	g.degrees[b]++
	return nil
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return g.n }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// Degree returns the number of edges incident to node i, or 0 if i is out
// of range.
func (g *Graph) Degree(i int) int {
	if i < 0 || i >= g.n {
		return 0
	}
	return g.degrees[i]
}

// Label returns the label of node i, defaulting to its decimal index for
// unlabeled graphs.
func (g *Graph) Label(i int) string {
	if g.labels != nil && i >= 0 && i < len(g.labels) {
		return g.labels[i]
	}
	return strconv.Itoa(i)
}

// Labels returns every node label in node order.
func (g *Graph) Labels() []string {
	out := make([]string, g.n)
	for i := range out {
		out[i] = g.Label(i)
	}
	return out
}
