package graph

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// Wire Types - Canonical Serialization Format
// =============================================================================

// Document is the canonical serialization format for input graphs.
// Node order is meaningful: positions in a [Layout] are indexed by it, so
// nodes are written and read in their index order, never sorted.
type Document struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Link `json:"edges" bson:"edges"`
}

// Node is one serialized vertex. The ID doubles as the display label.
type Node struct {
	ID string `json:"id" bson:"id"`
}

// Link is one serialized undirected edge, referencing nodes by ID.
// A missing weight defaults to 1.
type Link struct {
	Source string  `json:"source" bson:"source"`
	Target string  `json:"target" bson:"target"`
	Weight float64 `json:"weight,omitempty" bson:"weight,omitempty"`
}

// Position is a computed node position, keyed by the node's ID.
type Position struct {
	ID string  `json:"id" bson:"id"`
	X  float64 `json:"x" bson:"x"`
	Y  float64 `json:"y" bson:"y"`
}

// Params is the flat, serializable copy of the simulation configuration
// stored alongside a layout for reproducibility and cache keying.
type Params struct {
	OutboundAttractionDistribution bool    `json:"outbound_attraction_distribution,omitempty" bson:"outbound_attraction_distribution,omitempty"`
	EdgeWeightInfluence            float64 `json:"edge_weight_influence" bson:"edge_weight_influence"`
	JitterTolerance                float64 `json:"jitter_tolerance" bson:"jitter_tolerance"`
	BarnesHutOptimize              bool    `json:"barnes_hut_optimize,omitempty" bson:"barnes_hut_optimize,omitempty"`
	BarnesHutTheta                 float64 `json:"barnes_hut_theta" bson:"barnes_hut_theta"`
	ScalingRatio                   float64 `json:"scaling_ratio" bson:"scaling_ratio"`
	StrongGravityMode              bool    `json:"strong_gravity_mode,omitempty" bson:"strong_gravity_mode,omitempty"`
	Gravity                        float64 `json:"gravity" bson:"gravity"`
}

// Layout is the serialization format for a computed layout: the positions,
// the run that produced them, and the parameters it used.
type Layout struct {
	RunID      string     `json:"run_id,omitempty" bson:"run_id,omitempty"`
	NodeCount  int        `json:"node_count" bson:"node_count"`
	EdgeCount  int        `json:"edge_count" bson:"edge_count"`
	Iterations int        `json:"iterations" bson:"iterations"`
	Seed       uint64     `json:"seed,omitempty" bson:"seed,omitempty"`
	Params     Params     `json:"params" bson:"params"`
	Positions  []Position `json:"positions" bson:"positions"`
}

// =============================================================================
// Store ↔ Document Conversion
// =============================================================================

// FromGraph converts a graph store to its serialization format, preserving
// node order.
func FromGraph(g *Graph) Document {
	doc := Document{
		Nodes: make([]Node, g.NodeCount()),
		Edges: make([]Link, 0, g.EdgeCount()),
	}
	for i := range doc.Nodes {
		doc.Nodes[i] = Node{ID: g.Label(i)}
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, Link{
			Source: g.Label(e.Node1),
			Target: g.Label(e.Node2),
			Weight: e.Weight,
		})
	}
	return doc
}

// ToGraph converts a serialized document to a graph store. Node indices
// follow document order. Edges referencing unknown IDs, self-loops and
// negative weights are rejected.
func ToGraph(doc Document) (*Graph, error) {
	labels := make([]string, len(doc.Nodes))
	for i, n := range doc.Nodes {
		labels[i] = n.ID
	}
	g, err := NewLabeled(labels)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}
	for _, e := range doc.Edges {
		a, ok := index[e.Source]
		if !ok {
			return nil, fmt.Errorf("edge %s→%s: %w: %q", e.Source, e.Target, ErrNodeRange, e.Source)
		}
		b, ok := index[e.Target]
		if !ok {
			return nil, fmt.Errorf("edge %s→%s: %w: %q", e.Source, e.Target, ErrNodeRange, e.Target)
		}
		w := e.Weight
		if w == 0 {
			w = 1
		}
		if err := g.AddEdge(a, b, w); err != nil {
			return nil, fmt.Errorf("edge %s→%s: %w", e.Source, e.Target, err)
		}
	}
	return g, nil
}

// UnmarshalDocument deserializes JSON bytes to a Document.
func UnmarshalDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// UnmarshalLayout deserializes JSON bytes to a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// MarshalLayout serializes a Layout to JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.Marshal(l)
}
