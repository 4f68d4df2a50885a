// Package graph holds the weighted undirected graph model and its
// adapters: dense and sparse adjacency matrices, labeled JSON documents,
// and file helpers. The layout engine consumes the store through indices;
// labels exist only so wrappers can re-attach original node identities to
// the computed positions.
package graph
