package layout

import "math"

// Force kernels. Every kernel adds into the target node's (dx, dy)
// accumulators; none of them read the accumulators as input.

// linRepulsion applies the pairwise repulsion between two nodes,
// symmetrically to both. Coincident nodes exert no force on each other.
func linRepulsion(n1, n2 *node, coeff float64) {
	xDist := n1.x - n2.x
	yDist := n1.y - n2.y
	d2 := xDist*xDist + yDist*yDist
	if d2 == 0 {
		return
	}

	factor := coeff * n1.mass * n2.mass / d2
	n1.dx += xDist * factor
	n1.dy += yDist * factor
	n2.dx -= xDist * factor
	n2.dy -= yDist * factor
}

// linRepulsionRegion applies the repulsion of an aggregated tree region to a
// single node. The region stands for many bodies, so the force is one-sided:
// only n is pushed.
func linRepulsionRegion(n *node, r *region, coeff float64) {
	xDist := n.x - r.massCenterX
	yDist := n.y - r.massCenterY
	d2 := xDist*xDist + yDist*yDist
	if d2 == 0 {
		return
	}

	factor := coeff * n.mass * r.mass / d2
	n.dx += xDist * factor
	n.dy += yDist * factor
}

// linGravity pulls a node toward the origin with strength inversely scaled
// by its distance, so gravity does not run away at large radii.
func linGravity(n *node, g, coeff float64) {
	distance := math.Sqrt(n.x*n.x + n.y*n.y)
	if distance == 0 {
		return
	}

	factor := coeff * n.mass * g / distance
	n.dx -= n.x * factor
	n.dy -= n.y * factor
}

// strongGravity pulls harder the farther a node sits from the origin: the
// factor does not divide by distance. A node exactly at the origin is left
// alone.
func strongGravity(n *node, g, coeff float64) {
	if n.x == 0 && n.y == 0 {
		return
	}

	factor := coeff * n.mass * g
	n.dx -= n.x * factor
	n.dy -= n.y * factor
}

// linAttraction pulls two connected nodes together along the vector between
// them, symmetrically. In distributed mode ("dissuade hubs") the force is
// divided by the first endpoint's mass.
func linAttraction(n1, n2 *node, weight, coeff float64, distributed bool) {
	xDist := n1.x - n2.x
	yDist := n1.y - n2.y

	factor := -coeff * weight
	if distributed {
		factor /= n1.mass
	}
	n1.dx += xDist * factor
	n1.dy += yDist * factor
	n2.dx -= xDist * factor
	n2.dy -= yDist * factor
}

// applyRepulsion computes exact all-pairs repulsion, each unordered pair
// visited once.
func applyRepulsion(nodes []node, coeff float64) {
	for i := 1; i < len(nodes); i++ {
		for j := 0; j < i; j++ {
			linRepulsion(&nodes[i], &nodes[j], coeff)
		}
	}
}

// applyGravity applies the selected gravity variant to every node.
func applyGravity(nodes []node, g, coeff float64, strong bool) {
	for i := range nodes {
		if strong {
			strongGravity(&nodes[i], g, coeff)
		} else {
			linGravity(&nodes[i], g, coeff)
		}
	}
}

// applyAttraction applies attraction along every edge. Influence values of 0
// and 1 take fast paths; fractional exponents fall back to math.Pow.
func applyAttraction(nodes []node, edges []edge, coeff, influence float64, distributed bool) {
	switch influence {
	case 0:
		for _, e := range edges {
			linAttraction(&nodes[e.node1], &nodes[e.node2], 1, coeff, distributed)
		}
	case 1:
		for _, e := range edges {
			linAttraction(&nodes[e.node1], &nodes[e.node2], e.weight, coeff, distributed)
		}
	default:
		for _, e := range edges {
			linAttraction(&nodes[e.node1], &nodes[e.node2], math.Pow(e.weight, influence), coeff, distributed)
		}
	}
}
