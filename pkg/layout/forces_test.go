package layout

import (
	"math"
	"testing"
)

const forceEps = 1e-12

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= forceEps
}

func TestLinRepulsionSymmetric(t *testing.T) {
	n1 := node{x: 0, y: 0, mass: 2}
	n2 := node{x: 3, y: 4, mass: 3}

	linRepulsion(&n1, &n2, 2.0)

	// coeff * m1 * m2 / d2 = 2 * 2 * 3 / 25
	factor := 2.0 * 2 * 3 / 25
	if !almostEqual(n1.dx, -3*factor) || !almostEqual(n1.dy, -4*factor) {
		t.Errorf("n1 force = (%v, %v), want (%v, %v)", n1.dx, n1.dy, -3*factor, -4*factor)
	}
	if !almostEqual(n2.dx, 3*factor) || !almostEqual(n2.dy, 4*factor) {
		t.Errorf("n2 force = (%v, %v), want (%v, %v)", n2.dx, n2.dy, 3*factor, 4*factor)
	}
	if n1.dx != -n2.dx || n1.dy != -n2.dy {
		t.Errorf("repulsion not antisymmetric: n1=(%v,%v) n2=(%v,%v)", n1.dx, n1.dy, n2.dx, n2.dy)
	}
}

func TestLinRepulsionCoincidentNodes(t *testing.T) {
	n1 := node{x: 1, y: 1, mass: 1}
	n2 := node{x: 1, y: 1, mass: 1}

	linRepulsion(&n1, &n2, 2.0)

	if n1.dx != 0 || n1.dy != 0 || n2.dx != 0 || n2.dy != 0 {
		t.Errorf("coincident nodes got a force: n1=(%v,%v) n2=(%v,%v)", n1.dx, n1.dy, n2.dx, n2.dy)
	}
}

func TestLinRepulsionRegionOneSided(t *testing.T) {
	n := node{x: 2, y: 0, mass: 2}
	r := region{mass: 5, massCenterX: 0, massCenterY: 0}

	linRepulsionRegion(&n, &r, 1.0)

	// coeff * m * rmass / d2 = 1 * 2 * 5 / 4
	factor := 2.0 * 5 / 4
	if !almostEqual(n.dx, 2*factor) || !almostEqual(n.dy, 0) {
		t.Errorf("region repulsion = (%v, %v), want (%v, 0)", n.dx, n.dy, 2*factor)
	}
}

func TestLinRepulsionRegionAtCentroid(t *testing.T) {
	n := node{x: 1, y: 2, mass: 1}
	r := region{mass: 4, massCenterX: 1, massCenterY: 2}

	linRepulsionRegion(&n, &r, 1.0)

	if n.dx != 0 || n.dy != 0 {
		t.Errorf("node at centroid got a force: (%v, %v)", n.dx, n.dy)
	}
}

func TestLinGravityScalesInverselyWithDistance(t *testing.T) {
	n := node{x: 3, y: 4, mass: 2}

	linGravity(&n, 1.5, 2.0)

	// factor = coeff * mass * g / distance = 2 * 2 * 1.5 / 5
	factor := 2.0 * 2 * 1.5 / 5
	if !almostEqual(n.dx, -3*factor) || !almostEqual(n.dy, -4*factor) {
		t.Errorf("gravity = (%v, %v), want (%v, %v)", n.dx, n.dy, -3*factor, -4*factor)
	}
}

func TestLinGravityAtOrigin(t *testing.T) {
	n := node{mass: 3}
	linGravity(&n, 1.0, 2.0)
	if n.dx != 0 || n.dy != 0 {
		t.Errorf("origin node got gravity: (%v, %v)", n.dx, n.dy)
	}
}

func TestStrongGravityGrowsWithDistance(t *testing.T) {
	near := node{x: 1, y: 0, mass: 1}
	far := node{x: 10, y: 0, mass: 1}

	strongGravity(&near, 1.0, 2.0)
	strongGravity(&far, 1.0, 2.0)

	if math.Abs(far.dx) <= math.Abs(near.dx) {
		t.Errorf("strong gravity should grow with distance: near=%v far=%v", near.dx, far.dx)
	}
	// factor = coeff * mass * g = 2, pull along -x.
	if !almostEqual(far.dx, -20) {
		t.Errorf("far.dx = %v, want -20", far.dx)
	}
}

func TestStrongGravitySkipsExactOrigin(t *testing.T) {
	n := node{x: 0, y: 0, mass: 5}
	strongGravity(&n, 1.0, 2.0)
	if n.dx != 0 || n.dy != 0 {
		t.Errorf("origin node got strong gravity: (%v, %v)", n.dx, n.dy)
	}
}

func TestLinAttractionPullsTogether(t *testing.T) {
	n1 := node{x: 0, y: 0, mass: 1}
	n2 := node{x: 4, y: 0, mass: 1}

	linAttraction(&n1, &n2, 1.0, 1.0, false)

	if n1.dx <= 0 {
		t.Errorf("n1.dx = %v, want positive pull toward n2", n1.dx)
	}
	if n2.dx >= 0 {
		t.Errorf("n2.dx = %v, want negative pull toward n1", n2.dx)
	}
	if !almostEqual(n1.dx, 4) || !almostEqual(n2.dx, -4) {
		t.Errorf("attraction = (%v, %v), want (4, -4)", n1.dx, n2.dx)
	}
}

func TestLinAttractionDistributedDividesBySourceMass(t *testing.T) {
	hub := node{x: 0, y: 0, mass: 4}
	leaf := node{x: 2, y: 0, mass: 1}

	linAttraction(&hub, &leaf, 1.0, 1.0, true)

	// factor = -coeff * weight / hub.mass = -0.25, along the hub->leaf vector.
	if !almostEqual(hub.dx, 0.5) || !almostEqual(leaf.dx, -0.5) {
		t.Errorf("distributed attraction = (%v, %v), want (0.5, -0.5)", hub.dx, leaf.dx)
	}
}

func TestApplyRepulsionVisitsEachPairOnce(t *testing.T) {
	nodes := []node{
		{x: 0, y: 0, mass: 1},
		{x: 1, y: 0, mass: 1},
		{x: 0, y: 1, mass: 1},
	}
	applyRepulsion(nodes, 1.0)

	// Rebuild the expected totals pair by pair.
	want := []node{
		{x: 0, y: 0, mass: 1},
		{x: 1, y: 0, mass: 1},
		{x: 0, y: 1, mass: 1},
	}
	linRepulsion(&want[0], &want[1], 1.0)
	linRepulsion(&want[0], &want[2], 1.0)
	linRepulsion(&want[1], &want[2], 1.0)

	for i := range nodes {
		if !almostEqual(nodes[i].dx, want[i].dx) || !almostEqual(nodes[i].dy, want[i].dy) {
			t.Errorf("node %d force = (%v, %v), want (%v, %v)",
				i, nodes[i].dx, nodes[i].dy, want[i].dx, want[i].dy)
		}
	}
}

func TestApplyAttractionEdgeWeightInfluence(t *testing.T) {
	mkNodes := func() []node {
		return []node{
			{x: 0, y: 0, mass: 1},
			{x: 1, y: 0, mass: 1},
		}
	}
	edges := []edge{{node1: 0, node2: 1, weight: 3}}

	// Influence 0 treats every edge as weight 1.
	n := mkNodes()
	applyAttraction(n, edges, 1.0, 0, false)
	if !almostEqual(n[0].dx, 1) {
		t.Errorf("influence 0: dx = %v, want 1", n[0].dx)
	}

	// Influence 1 is linear in the weight.
	n = mkNodes()
	applyAttraction(n, edges, 1.0, 1, false)
	if !almostEqual(n[0].dx, 3) {
		t.Errorf("influence 1: dx = %v, want 3", n[0].dx)
	}

	// Fractional influence exponentiates the weight.
	n = mkNodes()
	applyAttraction(n, edges, 1.0, 0.5, false)
	if !almostEqual(n[0].dx, math.Sqrt(3)) {
		t.Errorf("influence 0.5: dx = %v, want %v", n[0].dx, math.Sqrt(3))
	}
}
