package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/goccy/go-graphviz"
)

// dotJSON is Graphviz's dot_json output: nodes under "objects" with stable
// integer IDs, edges referencing them by index.
type dotJSON struct {
	Objects []struct {
		GVID      int             `json:"_gvid"`
		Name      string          `json:"name"`
		Nodes     json.RawMessage `json:"nodes"`
		Subgraphs json.RawMessage `json:"subgraphs"`
	} `json:"objects"`
	Edges []struct {
		Tail   int    `json:"tail"`
		Head   int    `json:"head"`
		Weight string `json:"weight"`
	} `json:"edges"`
}

// FromDOT parses a Graphviz DOT document into a graph store. Node names
// become labels in declaration order; edge direction is discarded, and a
// numeric "weight" attribute is honored (default 1). Parsing happens through
// Graphviz itself, so any syntax it accepts works here.
func FromDOT(ctx context.Context, data []byte) (*Graph, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer parsed.Close()

	// Round-trip through the dot_json renderer instead of walking the cgraph
	// structure: the JSON form carries stable node indices for edges.
	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, graphviz.Format("dot_json"), &buf); err != nil {
		return nil, fmt.Errorf("export DOT structure: %w", err)
	}

	var doc dotJSON
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		return nil, fmt.Errorf("decode DOT structure: %w", err)
	}

	// Subgraph and cluster records share the objects list with nodes and
	// would mint phantom vertices; only plain nodes carry no member lists.
	labels := make([]string, 0, len(doc.Objects))
	index := make(map[int]int, len(doc.Objects))
	for _, o := range doc.Objects {
		if o.Nodes != nil || o.Subgraphs != nil {
			continue
		}
		index[o.GVID] = len(labels)
		labels = append(labels, o.Name)
	}
	g, err := NewLabeled(labels)
	if err != nil {
		return nil, err
	}

	for _, e := range doc.Edges {
		a, ok := index[e.Tail]
		if !ok {
			return nil, fmt.Errorf("%w: edge tail %d", ErrNodeRange, e.Tail)
		}
		b, ok := index[e.Head]
		if !ok {
			return nil, fmt.Errorf("%w: edge head %d", ErrNodeRange, e.Head)
		}
		w := 1.0
		if e.Weight != "" {
			w, err = strconv.ParseFloat(e.Weight, 64)
			if err != nil {
				return nil, fmt.Errorf("edge %s--%s: invalid weight %q", labels[a], labels[b], e.Weight)
			}
		}
		if err := g.AddEdge(a, b, w); err != nil {
			return nil, fmt.Errorf("edge %s--%s: %w", labels[a], labels[b], err)
		}
	}
	return g, nil
}
