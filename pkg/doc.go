// Package pkg provides the core libraries for forcelayout graph visualization.
//
// # Overview
//
// Forcelayout computes spatial positions for undirected weighted graphs with a
// ForceAtlas2-style continuous force simulation and renders the result. The
// pkg directory is organized into five main areas:
//
//  1. [graph] - Graph store and serialization types (JSON node-link format)
//  2. [layout] - Force simulation engine (repulsion, gravity, attraction,
//     Barnes-Hut approximation, adaptive speed control)
//  3. [render] - Artifact generation (SVG, DOT, PDF/PNG conversion)
//  4. [pipeline] - Orchestration (layout → render) with caching
//  5. [cache] - Cache backends (file, Redis, MongoDB) and key derivation
//
// # Architecture
//
// The typical data flow through forcelayout:
//
//	Graph JSON (node-link document)
//	         ↓
//	    [graph] package (store + validation)
//	         ↓
//	    [layout] package (force simulation)
//	         ↓
//	    [render] package (artifact generation)
//	         ↓
//	    SVG/PDF/PNG/DOT/JSON output
//
// # Quick Start
//
// Lay out a graph and render it to SVG:
//
//	import (
//	    "context"
//	    "github.com/cwirth/forcelayout/pkg/graph"
//	    "github.com/cwirth/forcelayout/pkg/layout"
//	    "github.com/cwirth/forcelayout/pkg/render"
//	)
//
//	// 1. Build the graph
//	g, _ := graph.NewLabeled([]string{"a", "b", "c"})
//	_ = g.AddEdge(0, 1, 1)
//	_ = g.AddEdge(1, 2, 1)
//
//	// 2. Run the simulation
//	l, _ := layout.New(layout.DefaultConfig())
//	pos, _ := l.Run(context.Background(), g, layout.RandomPositions(3, 42), 200)
//
//	// 3. Render to SVG
//	svg := render.RenderSVG(g, pos, render.WithLabels())
//
// # Main Packages
//
// ## Core Domain Logic
//
// [layout] - The force simulation engine. Exact all-pairs or Barnes-Hut
// approximated repulsion, linear and strong gravity, weighted attraction with
// optional hub distribution, and an adaptive global speed controller.
//
// [graph] - Weighted undirected graph store with index-based nodes, plus the
// canonical JSON node-link serialization for graphs and computed layouts.
// Includes dense and sparse adjacency-matrix constructors.
//
// [render] - Artifact generation: a native SVG sink, Graphviz DOT export with
// pinned positions, and SVG to PDF/PNG conversion.
//
// ## Infrastructure
//
// [pipeline] - Complete layout pipeline (layout → render) used by CLI and
// API. Ensures consistent caching and defaulting across all entry points.
//
// [cache] - Cache backends (file, Redis, MongoDB, null) behind a single
// interface, with content-hash key derivation for layouts and artifacts.
//
// [errors] - Structured error codes shared by CLI and API for consistent
// user-facing messages and HTTP status mapping.
//
// [observability] - Optional hooks for metrics and tracing, registered at
// startup, with no-op defaults.
//
// [buildinfo] - Version metadata injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/layout/...     # Specific package
//	go test -run Example         # Examples only
//
// [graph]: https://pkg.go.dev/github.com/cwirth/forcelayout/pkg/graph
// [layout]: https://pkg.go.dev/github.com/cwirth/forcelayout/pkg/layout
// [render]: https://pkg.go.dev/github.com/cwirth/forcelayout/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/cwirth/forcelayout/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/cwirth/forcelayout/pkg/cache
// [errors]: https://pkg.go.dev/github.com/cwirth/forcelayout/pkg/errors
// [observability]: https://pkg.go.dev/github.com/cwirth/forcelayout/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/cwirth/forcelayout/pkg/buildinfo
package pkg
