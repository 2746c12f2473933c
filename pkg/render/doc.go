// Package render draws dependency graphs as node-link diagrams.
//
// # Overview
//
// [ToDOT] converts a canonical graph into Graphviz DOT source. Each node is
// a rounded box and each dependency an arrow from the dependent to the node
// it depends on. Nodes that belong to a circular dependency are filled red,
// and so are the arrows between members of the same cycle, which makes
// cycle reports easy to read at a glance.
//
// The DOT source can be saved and processed with external Graphviz tools, or
// rendered in-process with [RenderSVG] and [RenderPNG]:
//
//	dot := render.ToDOT(g, render.Options{Cycles: dsort.Cycles(g)})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which embeds Graphviz as
// WebAssembly, so no system Graphviz installation is needed.
package render
