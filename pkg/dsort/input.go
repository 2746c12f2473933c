package dsort

import (
	"cmp"
	"maps"
	"slices"
)

// Dep is the dependency side of a pair: either a single node ([One]) or a
// list of nodes ([Many]). The zero value is invalid and rejected by
// [Normalize] with an [*InputShapeError].
type Dep[N comparable] struct {
	nodes []N
	many  bool
	valid bool
}

// One returns a dependency on the single node n. Use One when n is itself a
// composite value that should be treated as one node.
func One[N comparable](n N) Dep[N] {
	return Dep[N]{nodes: []N{n}, valid: true}
}

// Many returns a dependency on each of nodes. Many() with no arguments is a
// valid, empty dependency list.
func Many[N comparable](nodes ...N) Dep[N] {
	return Dep[N]{nodes: slices.Clone(nodes), many: true, valid: true}
}

// Nodes returns the nodes this dependency refers to.
func (d Dep[N]) Nodes() []N { return d.nodes }

// IsMany reports whether d was built with [Many].
func (d Dep[N]) IsMany() bool { return d.many }

// IsValid reports whether d was built with [One] or [Many].
func (d Dep[N]) IsValid() bool { return d.valid }

// Pair states that Node depends on Deps.
type Pair[N comparable] struct {
	Node N
	Deps Dep[N]
}

// P is shorthand for Pair{Node: node, Deps: deps}.
func P[N comparable](node N, deps Dep[N]) Pair[N] {
	return Pair[N]{Node: node, Deps: deps}
}

// Input is dependency data in one of the supported shapes. Construct it with
// [Pairs], [Mapping], [OrderedMapping] or [Expand].
type Input[N comparable] interface {
	// collect adds the input's dependency relations to g.
	collect(g *Graph[N]) error
}

type pairsInput[N comparable] struct {
	pairs []Pair[N]
}

// Pairs builds an input from (dependent, dependencies) pairs. Pairs sharing a
// dependent are concatenated in order.
func Pairs[N comparable](pairs ...Pair[N]) Input[N] {
	return pairsInput[N]{pairs: pairs}
}

func (in pairsInput[N]) collect(g *Graph[N]) error {
	for i, p := range in.pairs {
		if !p.Deps.valid {
			return &InputShapeError{Index: i, Reason: "dependency is neither One nor Many"}
		}
		g.Add(p.Node, p.Deps.nodes...)
	}
	return nil
}

type mappingInput[N comparable] struct {
	m   map[N]Dep[N]
	cmp func(a, b N) int
}

// Mapping builds an input from a map of dependent to dependencies. Go maps
// have no order, so keys are processed in the order defined by compare; the
// result is then identical to [Pairs] with the same entries in that order.
func Mapping[N comparable](m map[N]Dep[N], compare func(a, b N) int) Input[N] {
	return mappingInput[N]{m: m, cmp: compare}
}

// OrderedMapping is [Mapping] for ordered node types, visiting keys in
// ascending order.
func OrderedMapping[N cmp.Ordered](m map[N]Dep[N]) Input[N] {
	return mappingInput[N]{m: m, cmp: cmp.Compare[N]}
}

func (in mappingInput[N]) collect(g *Graph[N]) error {
	if in.cmp == nil {
		return &InputShapeError{Index: -1, Reason: "mapping input requires a key order"}
	}
	keys := slices.SortedFunc(maps.Keys(in.m), in.cmp)
	pairs := make([]Pair[N], len(keys))
	for i, k := range keys {
		pairs[i] = Pair[N]{Node: k, Deps: in.m[k]}
	}
	return pairsInput[N]{pairs: pairs}.collect(g)
}

type expandInput[N comparable] struct {
	seeds []N
	fn    func(N) []N
}

// Expand builds an input by calling fn for each seed and, recursively, for
// every dependency it returns. fn must return the direct dependencies of a
// node (nil or empty if none). Each node is passed to fn at most once, so
// cyclic callback data terminates and is reported by the sort.
func Expand[N comparable](fn func(N) []N, seeds ...N) Input[N] {
	return expandInput[N]{seeds: seeds, fn: fn}
}

func (in expandInput[N]) collect(g *Graph[N]) error {
	if in.fn == nil {
		return &InputShapeError{Index: -1, Reason: "expand input requires a callback"}
	}
	// Depth-first, pre-order: a node is expanded before its first dependency,
	// which is expanded before the second, mirroring a recursive walk.
	stack := make([]N, 0, len(in.seeds))
	for i := len(in.seeds) - 1; i >= 0; i-- {
		stack = append(stack, in.seeds[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if g.Has(n) {
			continue
		}
		deps := in.fn(n)
		g.Add(n, deps...)
		for i := len(deps) - 1; i >= 0; i-- {
			if !g.Has(deps[i]) {
				stack = append(stack, deps[i])
			}
		}
	}
	return nil
}
