package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSquare is returned by [FromDense] when the adjacency matrix has
	// rows of differing length.
	ErrNotSquare = errors.New("adjacency matrix is not square")

	// ErrNotSymmetric is returned by [FromDense] when the adjacency matrix
	// is directed. Only undirected graphs are supported.
	ErrNotSymmetric = errors.New("adjacency matrix is not symmetric")
)

// Entry is one nonzero cell of a sparse adjacency matrix.
type Entry struct {
	Row    int
	Col    int
	Weight float64
}

// FromDense builds a graph from a dense weighted adjacency matrix.
// The matrix must be square and symmetric; diagonal entries (self-loops) are
// ignored. Each nonzero upper-triangle cell becomes one undirected edge.
func FromDense(m [][]float64) (*Graph, error) {
	n := len(m)
	for i, row := range m {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d columns for %d rows", ErrNotSquare, i, len(row), n)
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if m[i][j] != m[j][i] {
				return nil, fmt.Errorf("%w: m[%d][%d] = %v, m[%d][%d] = %v",
					ErrNotSymmetric, i, j, m[i][j], j, i, m[j][i])
			}
		}
	}

	g := New(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if m[i][j] == 0 {
				continue
			}
			if err := g.AddEdge(i, j, m[i][j]); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// FromSparse builds a graph with n nodes from the nonzero entries of a
// sparse symmetric adjacency matrix. Entries are expected in full symmetric
// form; only the upper triangle (Row < Col) is read, so each undirected edge
// is taken once. Diagonal entries are ignored.
func FromSparse(n int, entries []Entry) (*Graph, error) {
	g := New(n)
	for _, e := range entries {
		if e.Row >= e.Col {
			continue
		}
		if e.Weight == 0 {
			continue
		}
		if err := g.AddEdge(e.Row, e.Col, e.Weight); err != nil {
			return nil, err
		}
	}
	return g, nil
}
