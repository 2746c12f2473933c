// Package io reads dependency documents into [dsort.Input] values and writes
// ordering results.
//
// # Overview
//
// Documents are untyped, so unlike the dsort API the shape of every entry is
// discovered at run time. Two top-level shapes are accepted in every format:
//
//   - Mapping: keys are dependents, values are a single dependency or a list
//     of dependencies. Keys are processed in document order.
//   - Pairs: a list of two-element lists [dependent, dependency-or-list].
//
// A second element that is a list always means "several dependencies"; a
// scalar means "one dependency"; null means "no dependencies". Nested
// objects, lists used as dependents and pairs of the wrong length are
// rejected with a [*dsort.InputShapeError] naming the entry.
//
// # Formats
//
//	JSON   {"app": ["lib", "log"], "lib": "log"}      or [["app", ["lib"]], ["lib", "log"]]
//	TOML   [dependencies] app = ["lib", "log"]       or pairs = [["app", "lib"]]
//	YAML   app: [lib, log]                            or - [app, [lib, log]]
//	Graph  {"nodes": [{"id": "app"}], "edges": [{"from": "app", "to": "lib"}]}
//
// In the graph format an edge from A to B means "A depends on B".
// Numbers and booleans are converted to their string form.
//
// # Results
//
// [WriteText] prints one node per line. [WriteOrderJSON] emits
// {"order": [...]} and [WriteCyclesJSON] emits {"cycles": [[...]]}; both
// write an empty list rather than dropping the key. [WriteGraphJSON] emits a
// canonical graph in the graph format so it can be fed back to [Decode].
package io
