// Package render turns computed layouts into visual artifacts.
//
// Two paths are supported. RenderSVG draws a node-link picture directly,
// which is fast and has no external dependencies. ToDOT emits Graphviz
// DOT with pinned positions, and GraphvizSVG renders it through neato so
// the output picks up Graphviz styling (curved splines, label placement).
//
// PNG and PDF conversion shells out to rsvg-convert.
package render
