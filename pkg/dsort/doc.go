// Package dsort orders elements so that every element comes after the
// elements it depends on, and reports every circular dependency when no such
// order exists.
//
// # Overview
//
// Dependency data comes in one of three shapes, each with its own
// constructor so the shape is explicit at the call site:
//
//   - [Pairs]: a list of (dependent, dependencies) pairs. Pairs with the same
//     dependent accumulate.
//   - [Mapping] / [OrderedMapping]: a map from dependent to dependencies.
//     Keys are visited in a caller-defined order so the result is stable.
//   - [Expand]: seed nodes plus a callback returning the direct dependencies
//     of a node. The graph is discovered depth-first, one callback per node.
//
// A dependency value is either [One] node or [Many] nodes. For node types
// that are themselves composite (arrays, structs), One(x) means "depends on
// x" while Many(x, y) means "depends on x and on y".
//
// [Normalize] turns an [Input] into a canonical [Graph]: an insertion-ordered
// mapping from each node to the nodes it depends on, where every node that
// appears anywhere in the input has its own entry.
//
// # Ordering
//
// [DependencyOrder] returns dependencies before dependents:
//
//	order, err := dsort.DependencyOrder(dsort.Pairs(
//	    dsort.P("app", dsort.Many("lib", "cli")),
//	    dsort.P("cli", dsort.One("lib")),
//	))
//	// order == []string{"lib", "cli", "app"}
//
// [PrecedenceOrder] is its exact reverse (a classic topological order where
// each element precedes the elements that depend on it).
//
// Among unrelated nodes the order follows depth-first discovery from the
// graph's keys in insertion order. It is deterministic but not minimal.
//
// # Cycles
//
// A node that depends on itself is tolerated and sorted normally. Any other
// cycle makes the sort fail with a [*CyclicDependencyError] listing every
// strongly connected component of two or more nodes (plus self-dependent
// nodes), smallest first. No partial order is returned with the error.
//
// # Concurrency
//
// Every call builds its own graph and visitation state, so independent calls
// may run concurrently. A [Graph] is not safe for concurrent mutation.
//
// Both the expansion of [Expand] inputs and the depth-first sort use explicit
// work stacks; deep dependency chains do not grow the goroutine stack.
package dsort
