// Package pkg provides the core libraries for depsort dependency ordering.
//
// # Overview
//
// depsort computes an order of elements in which every element comes after
// everything it depends on, and reports every circular dependency when no
// such order exists. The pkg directory is organized into three areas:
//
//  1. [dsort] - The generic engine (normalization, sort, cycle report)
//  2. [io] - Dependency documents (JSON, TOML, YAML, graph JSON)
//  3. [pipeline] - Orchestration (load, cache, sort, render) for CLI and API
//
// # Architecture
//
// The typical data flow through depsort:
//
//	Dependency document
//	         ↓
//	    [io] package (decode into a dsort.Input)
//	         ↓
//	    [dsort] package (normalize, sort or report cycles)
//	         ↓
//	    [pipeline] package (cache, hooks, coded errors)
//	         ↓
//	    text / JSON / DOT / SVG / PNG output
//
// # Quick Start
//
// Order typed data directly with the engine:
//
//	order, err := dsort.DependencyOrder(dsort.Pairs(
//	    dsort.P("app", dsort.Many("lib", "log")),
//	    dsort.P("lib", dsort.One("log")),
//	))
//	// order: [log lib app]
//
//	var cyc *dsort.CyclicDependencyError[string]
//	if errors.As(err, &cyc) {
//	    fmt.Println(cyc.Cycles)
//	}
//
// Order a document through the pipeline:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Path: "deps.yaml"})
//
// # Main Packages
//
// [dsort] - Generic over any comparable node type. Inputs are pairs,
// mappings or an expansion callback; the result is a deterministic order or
// a [dsort.CyclicDependencyError] listing every cycle, smallest first.
//
// [io] - Decodes untyped documents and keeps their key order, so the same
// document always yields the same order.
//
// [render] - DOT export with cycles highlighted; SVG and PNG through Graphviz.
//
// ## Infrastructure
//
// [pipeline] - Load, cache, sort and render used by both the CLI and the
// HTTP API. Ensures consistent behavior across entry points.
//
// [cache] - Result cache backends: file (CLI), Redis and MongoDB (shared
// deployments), null (disabled).
//
// [server] - HTTP API on a chi router. [httputil] holds its request and
// response helpers.
//
// [observability] - Hooks for load, sort, render, cache and HTTP events.
//
// [errors] - Coded errors shared by every boundary (CLI exit codes, HTTP
// status codes).
//
// [buildinfo] - Version information injected at build time.
//
// [dsort]: https://pkg.go.dev/github.com/matzehuels/depsort/pkg/dsort
// [io]: https://pkg.go.dev/github.com/matzehuels/depsort/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/depsort/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/depsort/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/depsort/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/depsort/pkg/server
// [httputil]: https://pkg.go.dev/github.com/matzehuels/depsort/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/depsort/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/depsort/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/depsort/pkg/buildinfo
package pkg
