// Package layout computes 2D positions for the nodes of a weighted,
// undirected graph using a force-directed simulation.
//
// The simulation models every node as a repelling mass and every edge as an
// attracting spring, with a configurable gravity pulling the whole system
// toward the origin. Repulsion can be computed exactly (all pairs) or
// approximated with a Barnes-Hut quadtree, which treats distant clusters as
// single aggregated masses and brings the per-iteration cost down from
// O(n²) to O(n log n).
//
// # Usage
//
// Create a Layout from a Config and run it for a fixed number of iterations:
//
//	g := graph.New(3)
//	g.AddEdge(0, 1, 1)
//	g.AddEdge(1, 2, 1)
//
//	l, err := layout.New(layout.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	pos, err := l.Run(ctx, g, layout.RandomPositions(g.NodeCount(), 42), 100)
//
// There is no convergence test: the driver always runs the requested number
// of iterations and returns the resulting positions, indexed in node order.
// The output is a visually useful embedding, not a provably optimal one.
//
// # Stability
//
// Step size is not a fixed learning rate. A global controller measures the
// aggregate "swinging" (force-direction oscillation) and "traction" (net
// directional push) of the system every iteration and retunes a shared
// speed, which is then damped per node against its local oscillation. This
// two-level feedback is what keeps dense graphs from jittering and sparse
// ones from diverging.
package layout
