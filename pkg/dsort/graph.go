package dsort

import "slices"

// Graph is the canonical dependency graph: an insertion-ordered mapping from
// each node to the ordered list of nodes it directly depends on.
//
// Duplicate dependencies and self-dependencies are stored as given; the sort
// tolerates both. The zero value is not usable - create graphs with
// [NewGraph] or [Normalize].
//
// Graph is not safe for concurrent use without external synchronization.
type Graph[N comparable] struct {
	keys []N       // nodes in first-insertion order
	deps map[N][]N // node -> direct dependencies
}

// NewGraph creates an empty graph.
func NewGraph[N comparable]() *Graph[N] {
	return &Graph[N]{deps: make(map[N][]N)}
}

// Add records that node depends on each of deps, in order. The node entry is
// created if it does not exist yet; existing dependency lists are extended,
// never replaced. Dependencies are not inserted as keys here - see [Graph.Close].
func (g *Graph[N]) Add(node N, deps ...N) {
	if _, ok := g.deps[node]; !ok {
		g.keys = append(g.keys, node)
		g.deps[node] = make([]N, 0, len(deps))
	}
	g.deps[node] = append(g.deps[node], deps...)
}

// Close inserts every dependency that is not yet a key with an empty
// dependency list, so that every referenced node has exactly one entry.
// New entries are appended in the order the dependencies are first seen
// while walking existing entries in insertion order.
func (g *Graph[N]) Close() {
	for i := 0; i < len(g.keys); i++ {
		for _, d := range g.deps[g.keys[i]] {
			if _, ok := g.deps[d]; !ok {
				g.keys = append(g.keys, d)
				g.deps[d] = []N{}
			}
		}
	}
}

// Has reports whether node has an entry in the graph.
func (g *Graph[N]) Has(node N) bool {
	_, ok := g.deps[node]
	return ok
}

// Deps returns the direct dependencies of node in recorded order, or nil if
// the node is unknown. The returned slice must not be modified.
func (g *Graph[N]) Deps(node N) []N { return g.deps[node] }

// Nodes returns all nodes in insertion order.
func (g *Graph[N]) Nodes() []N { return slices.Clone(g.keys) }

// Len returns the number of nodes.
func (g *Graph[N]) Len() int { return len(g.keys) }

// EdgeCount returns the number of recorded dependency entries, counting
// duplicates and self-dependencies.
func (g *Graph[N]) EdgeCount() int {
	n := 0
	for _, d := range g.deps {
		n += len(d)
	}
	return n
}

// Clone returns a deep copy of the graph.
func (g *Graph[N]) Clone() *Graph[N] {
	out := &Graph[N]{
		keys: slices.Clone(g.keys),
		deps: make(map[N][]N, len(g.deps)),
	}
	for k, d := range g.deps {
		out.deps[k] = slices.Clone(d)
	}
	return out
}

// index maps each node to its insertion position. The sort and the cycle
// reporter work on these dense indices.
func (g *Graph[N]) index() map[N]int {
	idx := make(map[N]int, len(g.keys))
	for i, k := range g.keys {
		idx[k] = i
	}
	return idx
}
