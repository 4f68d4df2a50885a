package layout

import "github.com/cwirth/forcelayout/pkg/graph"

// node is one vertex's simulation state. Positions and force accumulators
// mutate every iteration; mass is fixed for the whole run at 1 + degree, so
// isolated nodes still participate in gravity and repulsion.
//
// dx/dy accumulate the current iteration's forces. oldDX/oldDY hold the
// previous iteration's forces and are read only to measure oscillation.
type node struct {
	x, y         float64
	dx, dy       float64
	oldDX, oldDY float64
	mass         float64
}

// edge is an unordered pair of node indices with a non-negative weight.
type edge struct {
	node1, node2 int
	weight       float64
}

// buildSim converts a graph and starting positions into the flat node and
// edge arrays the simulation owns for the duration of a run.
func buildSim(g *graph.Graph, pos []Point) ([]node, []edge) {
	nodes := make([]node, g.NodeCount())
	for i := range nodes {
		nodes[i] = node{
			x:    pos[i].X,
			y:    pos[i].Y,
			mass: 1 + float64(g.Degree(i)),
		}
	}

	ge := g.Edges()
	edges := make([]edge, len(ge))
	for i, e := range ge {
		edges[i] = edge{node1: e.Node1, node2: e.Node2, weight: e.Weight}
	}
	return nodes, edges
}
