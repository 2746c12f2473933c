package dsort

import "slices"

// Visitation marks used by the depth-first sort.
const (
	white = iota // not visited yet
	gray         // on the current DFS path
	black        // finished and emitted
)

// DependencyOrder normalizes in and returns its nodes so that every node
// comes after all of its dependencies. On a cyclic graph it returns a
// [*CyclicDependencyError] and no order.
func DependencyOrder[N comparable](in Input[N]) ([]N, error) {
	g, err := Normalize(in)
	if err != nil {
		return nil, err
	}
	return Sort(g)
}

// PrecedenceOrder returns the exact reverse of [DependencyOrder]: every node
// comes before the nodes that depend on it. It fails exactly when
// DependencyOrder fails, with the same error.
func PrecedenceOrder[N comparable](in Input[N]) ([]N, error) {
	order, err := DependencyOrder(in)
	if err != nil {
		return nil, err
	}
	slices.Reverse(order)
	return order, nil
}

// Sort returns the nodes of g in dependency order (dependencies first).
//
// Roots are taken in key insertion order and dependencies are followed in
// recorded order, so the result is deterministic. A node depending on itself
// is not a cycle for the purpose of sorting. Reaching any other node that is
// still on the DFS path aborts the sort; the returned
// [*CyclicDependencyError] then describes every cycle in g, not only the one
// that was hit.
//
// Dependencies that are not keys of g are treated as nodes without
// dependencies; g itself is not modified.
//
// Time O(V+E), memory O(V).
func Sort[N comparable](g *Graph[N]) ([]N, error) {
	if g == nil {
		return []N{}, nil
	}
	keys, adj := adjacency(g)

	type frame struct {
		node int // index of the node being explored
		next int // position of the next dependency to follow
	}

	state := make([]uint8, len(keys))
	order := make([]N, 0, len(keys))
	stack := make([]frame, 0, 16)

	for root := range keys {
		if state[root] != white {
			continue
		}
		state[root] = gray
		stack = append(stack, frame{node: root})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(adj[top.node]) {
				child := adj[top.node][top.next]
				top.next++
				switch state[child] {
				case white:
					state[child] = gray
					stack = append(stack, frame{node: child})
				case gray:
					if child != top.node {
						return nil, &CyclicDependencyError[N]{Cycles: findCycles(keys, adj)}
					}
				}
				continue
			}
			state[top.node] = black
			order = append(order, keys[top.node])
			stack = stack[:len(stack)-1]
		}
	}
	return order, nil
}

// adjacency flattens g into dense indices. Dependencies missing from g's
// keys are appended as extra leaf nodes, in first-seen order.
func adjacency[N comparable](g *Graph[N]) ([]N, [][]int) {
	keys := slices.Clone(g.keys)
	idx := g.index()
	adj := make([][]int, len(keys))
	for i := 0; i < len(keys); i++ {
		deps := g.deps[keys[i]]
		if len(deps) == 0 {
			continue
		}
		adj[i] = make([]int, 0, len(deps))
		for _, d := range deps {
			j, ok := idx[d]
			if !ok {
				j = len(keys)
				idx[d] = j
				keys = append(keys, d)
				adj = append(adj, nil)
			}
			adj[i] = append(adj[i], j)
		}
	}
	return keys, adj
}
