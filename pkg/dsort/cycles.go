package dsort

import "slices"

// Cycles returns every cycle in g: each strongly connected component with
// two or more members, and each node that depends on itself. Cycles are
// sorted by ascending size; cycles of equal size keep the order in which
// they were discovered. Members of a cycle are listed in g's insertion order.
//
// Cycles returns nil for an acyclic graph. Self-dependencies alone do not
// make [Sort] fail, but they are still reported here.
func Cycles[N comparable](g *Graph[N]) [][]N {
	if g == nil {
		return nil
	}
	keys, adj := adjacency(g)
	return findCycles(keys, adj)
}

// StronglyConnected returns all strongly connected components of g,
// including single nodes, in the order Tarjan's algorithm completes them.
// Following dependency edges, that order lists a component after every
// component it depends on.
func StronglyConnected[N comparable](g *Graph[N]) [][]N {
	if g == nil {
		return nil
	}
	keys, adj := adjacency(g)
	comps := tarjan(adj)
	out := make([][]N, len(comps))
	for i, c := range comps {
		out[i] = nodesAt(keys, c)
	}
	return out
}

func findCycles[N comparable](keys []N, adj [][]int) [][]N {
	var cycles [][]N
	for _, comp := range tarjan(adj) {
		if len(comp) > 1 || slices.Contains(adj[comp[0]], comp[0]) {
			cycles = append(cycles, nodesAt(keys, comp))
		}
	}
	slices.SortStableFunc(cycles, func(a, b []N) int { return len(a) - len(b) })
	return cycles
}

func nodesAt[N comparable](keys []N, idx []int) []N {
	out := make([]N, len(idx))
	for i, j := range idx {
		out[i] = keys[j]
	}
	return out
}

// tarjan computes strongly connected components with an explicit call
// stack. Roots are tried in index order. Each component is returned with its
// member indices sorted ascending.
func tarjan(adj [][]int) [][]int {
	n := len(adj)
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}

	type frame struct{ v, next int }
	var (
		counter int
		stack   []int
		calls   []frame
		comps   [][]int
	)

	open := func(v int) {
		index[v], low[v] = counter, counter
		counter++
		stack = append(stack, v)
		onStack[v] = true
		calls = append(calls, frame{v: v})
	}

	for root := 0; root < n; root++ {
		if index[root] != -1 {
			continue
		}
		open(root)
		for len(calls) > 0 {
			f := &calls[len(calls)-1]
			v := f.v
			if f.next < len(adj[v]) {
				w := adj[v][f.next]
				f.next++
				if index[w] == -1 {
					open(w)
				} else if onStack[w] {
					low[v] = min(low[v], index[w])
				}
				continue
			}

			calls = calls[:len(calls)-1]
			if len(calls) > 0 {
				p := calls[len(calls)-1].v
				low[p] = min(low[p], low[v])
			}
			if low[v] != index[v] {
				continue
			}
			var comp []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			slices.Sort(comp)
			comps = append(comps, comp)
		}
	}
	return comps
}
