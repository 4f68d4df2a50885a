package layout

import "math"

// region is one record in the quadtree arena. A region either stands for a
// single node (node >= 0, childCount == 0) or aggregates a cluster through
// up to four child subregions stored contiguously in the arena.
//
// Invariant, at every level: mass is the sum of the contained nodes' masses
// and (massCenterX, massCenterY) is their mass-weighted centroid. size is
// the spatial extent of the region, measured as twice the largest node
// distance from the centroid, and drives the Barnes-Hut ratio test.
type region struct {
	mass        float64
	massCenterX float64
	massCenterY float64
	size        float64
	node        int32 // contained node index for single-node regions, -1 otherwise
	firstChild  int32
	childCount  int32
}

// quadTree is an index-based arena of regions, rebuilt from scratch every
// iteration since node positions change. Region 0 is the root.
type quadTree struct {
	regions []region
	idx     []int32 // node index permutation, partitioned in place
	scratch []int32
}

// buildQuadTree partitions the nodes into a quadtree and computes the
// aggregate mass and centroid of every region bottom-up. It needs at least
// one node.
func buildQuadTree(nodes []node) *quadTree {
	t := &quadTree{
		regions: make([]region, 0, 2*len(nodes)),
		idx:     make([]int32, len(nodes)),
		scratch: make([]int32, len(nodes)),
	}
	for i := range t.idx {
		t.idx[i] = int32(i)
	}
	t.regions = append(t.regions, region{node: -1})
	t.fill(nodes, t.idx, 0)
	return t
}

// fill populates the already-allocated region ri covering idx and builds its
// subtree. Child records for all of ri's subregions are appended before any
// of them is filled, which keeps each region's children contiguous in the
// arena; grandchildren land after the whole sibling run.
func (t *quadTree) fill(nodes []node, idx []int32, ri int) {
	if len(idx) == 1 {
		t.setLeaf(ri, nodes, idx[0])
		return
	}

	var mass, sumX, sumY float64
	for _, i := range idx {
		n := &nodes[i]
		mass += n.mass
		sumX += n.x * n.mass
		sumY += n.y * n.mass
	}
	cx := sumX / mass
	cy := sumY / mass

	size := 0.0
	for _, i := range idx {
		n := &nodes[i]
		size = math.Max(size, 2*math.Hypot(n.x-cx, n.y-cy))
	}

	t.regions[ri].mass = mass
	t.regions[ri].massCenterX = cx
	t.regions[ri].massCenterY = cy
	t.regions[ri].size = size

	// Split around the mass centroid. Coordinates >= the pivot go to the
	// east/south quadrant; this is the documented tie-break for nodes
	// exactly on a boundary.
	var counts [4]int
	for _, i := range idx {
		counts[quadrantOf(&nodes[i], cx, cy)]++
	}

	// Degenerate split: every node landed in one quadrant (typically
	// coincident positions). Make each node its own leaf to terminate the
	// recursion.
	for _, c := range counts {
		if c == len(idx) {
			first := len(t.regions)
			t.regions[ri].firstChild = int32(first)
			t.regions[ri].childCount = int32(len(idx))
			for range idx {
				t.regions = append(t.regions, region{node: -1})
			}
			for k, i := range idx {
				t.setLeaf(first+k, nodes, i)
			}
			return
		}
	}

	// Stable four-way partition of idx through the scratch buffer.
	scratch := t.scratch[:len(idx)]
	var offsets [4]int
	for q := 1; q < 4; q++ {
		offsets[q] = offsets[q-1] + counts[q-1]
	}
	next := offsets
	for _, i := range idx {
		q := quadrantOf(&nodes[i], cx, cy)
		scratch[next[q]] = i
		next[q]++
	}
	copy(idx, scratch)

	children := 0
	for _, c := range counts {
		if c > 0 {
			children++
		}
	}
	first := len(t.regions)
	t.regions[ri].firstChild = int32(first)
	t.regions[ri].childCount = int32(children)
	for k := 0; k < children; k++ {
		t.regions = append(t.regions, region{node: -1})
	}

	child := first
	for q := 0; q < 4; q++ {
		if counts[q] == 0 {
			continue
		}
		t.fill(nodes, idx[offsets[q]:offsets[q]+counts[q]], child)
		child++
	}
}

func (t *quadTree) setLeaf(ri int, nodes []node, i int32) {
	n := &nodes[i]
	t.regions[ri] = region{
		mass:        n.mass,
		massCenterX: n.x,
		massCenterY: n.y,
		node:        i,
	}
}

// quadrantOf assigns a node to one of the four quadrants around the pivot:
// bit 0 set for x >= px (east), bit 1 set for y >= py (south).
func quadrantOf(n *node, px, py float64) int {
	q := 0
	if n.x >= px {
		q |= 1
	}
	if n.y >= py {
		q |= 2
	}
	return q
}

// applyForce accumulates the approximated repulsion of the whole tree onto
// node i. Regions that look small enough from the node's position
// (size/distance < theta) act as single aggregated bodies; closer regions
// are recursed into. The node's own single-node region is skipped.
//
// The force is applied to node i only. A pair of nearby nodes therefore
// contributes once to each endpoint across the two traversals, matching the
// exact all-pairs totals as theta approaches zero.
func (t *quadTree) applyForce(nodes []node, i int, theta, coeff float64) {
	t.apply(nodes, i, 0, theta, coeff)
}

func (t *quadTree) apply(nodes []node, i int, ri int32, theta, coeff float64) {
	r := &t.regions[ri]
	if r.childCount == 0 {
		if int(r.node) != i {
			linRepulsionRegion(&nodes[i], r, coeff)
		}
		return
	}

	distance := math.Hypot(nodes[i].x-r.massCenterX, nodes[i].y-r.massCenterY)
	if distance*theta > r.size {
		linRepulsionRegion(&nodes[i], r, coeff)
		return
	}
	for c := int32(0); c < r.childCount; c++ {
		t.apply(nodes, i, r.firstChild+c, theta, coeff)
	}
}
