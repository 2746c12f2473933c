package dsort_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/depsort/pkg/dsort"
)

// hierarchy is a small dependency tree used by the callback tests.
var hierarchy = map[string][]string{
	"A": {"B", "C"},
	"B": {"C", "D"},
	"C": {"D"},
	"D": {},
}

func pairs(ps ...dsort.Pair[string]) dsort.Input[string] { return dsort.Pairs(ps...) }

func one(from, to string) dsort.Pair[string] { return dsort.P(from, dsort.One(to)) }

func many(from string, to ...string) dsort.Pair[string] { return dsort.P(from, dsort.Many(to...)) }

// assertDependencyOrder checks that every dependency in g precedes its dependent in order.
func assertDependencyOrder(t *testing.T, g *dsort.Graph[string], order []string) {
	t.Helper()
	require.Len(t, order, g.Len())
	pos := make(map[string]int, len(order))
	for i, n := range order {
		_, dup := pos[n]
		require.False(t, dup, "node %q emitted twice", n)
		pos[n] = i
	}
	for _, n := range g.Nodes() {
		for _, d := range g.Deps(n) {
			if d == n {
				continue
			}
			assert.Less(t, pos[d], pos[n], "%q must come before %q", d, n)
		}
	}
}

func TestDependencyOrder_Pairs(t *testing.T) {
	tests := []struct {
		name string
		in   dsort.Input[string]
		want []string
	}{
		{"chain", pairs(one("a", "b"), one("b", "c")), []string{"c", "b", "a"}},
		{"self dependency", pairs(one("a", "b"), one("b", "c"), one("c", "c")), []string{"c", "b", "a"}},
		{"duplicate keys", pairs(one("a", "b"), one("b", "c"), one("a", "c")), []string{"c", "b", "a"}},
		{"duplicate dependencies", pairs(one("a", "b"), one("a", "b"), one("b", "c"), one("a", "c")), []string{"c", "b", "a"}},
		{"lists of dependencies", pairs(many("a", "b", "c"), many("b", "c")), []string{"c", "b", "a"}},
		{"empty lists", pairs(many("a", "b", "c"), many("b", "c"), many("c")), []string{"c", "b", "a"}},
		{"empty input", pairs(), []string{}},
		{"disconnected", pairs(many("x"), many("y"), one("z", "x")), []string{"x", "y", "z"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dsort.DependencyOrder(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDependencyOrder_CompositeNodes(t *testing.T) {
	a, b, c := [1]string{"a"}, [1]string{"b"}, [1]string{"c"}
	got, err := dsort.DependencyOrder(dsort.Pairs(
		dsort.P(a, dsort.Many(b, c)),
		dsort.P(b, dsort.Many(c)),
	))
	require.NoError(t, err)
	assert.Equal(t, [][1]string{c, b, a}, got)

	// One treats a composite value as a single node.
	got, err = dsort.DependencyOrder(dsort.Pairs(dsort.P(a, dsort.One(b))))
	require.NoError(t, err)
	assert.Equal(t, [][1]string{b, a}, got)
}

func TestDependencyOrder_PointerIdentity(t *testing.T) {
	type pkg struct{ name string }
	lib1, lib2 := &pkg{"lib"}, &pkg{"lib"}
	app := &pkg{"app"}

	got, err := dsort.DependencyOrder(dsort.Pairs(dsort.P(app, dsort.Many(lib1, lib2))))
	require.NoError(t, err)
	assert.Len(t, got, 3, "structurally equal pointers are distinct nodes")
	assert.Same(t, app, got[2])
}

func TestDependencyOrder_Expand(t *testing.T) {
	got, err := dsort.DependencyOrder(dsort.Expand(func(n string) []string { return hierarchy[n] }, "A"))
	require.NoError(t, err)
	assert.Equal(t, []string{"D", "C", "B", "A"}, got)
}

func TestDependencyOrder_ExpandMultipleSeeds(t *testing.T) {
	super := map[string]string{
		"Integer": "Numeric",
		"Float":   "Numeric",
		"Numeric": "Object",
		"Object":  "BasicObject",
	}
	parent := func(n string) []string {
		if p, ok := super[n]; ok {
			return []string{p}
		}
		return nil
	}

	got, err := dsort.DependencyOrder(dsort.Expand(parent, "Integer", "Numeric", "Float", "Object", "BasicObject"))
	require.NoError(t, err)
	assert.Equal(t, []string{"BasicObject", "Object", "Numeric", "Integer", "Float"}, got)
}

func TestDependencyOrder_ExpandCallsOncePerNode(t *testing.T) {
	calls := map[string]int{}
	fn := func(n string) []string {
		calls[n]++
		return hierarchy[n]
	}
	_, err := dsort.DependencyOrder(dsort.Expand(fn, "A", "B", "A"))
	require.NoError(t, err)
	for n, c := range calls {
		assert.Equal(t, 1, c, "callback for %q", n)
	}
	assert.Len(t, calls, 4)
}

func TestDependencyOrder_ExpandCycleTerminates(t *testing.T) {
	ring := map[string][]string{"a": {"b"}, "b": {"c"}, "c": {"a"}}
	_, err := dsort.DependencyOrder(dsort.Expand(func(n string) []string { return ring[n] }, "a"))
	require.ErrorIs(t, err, dsort.ErrCyclicDependency)

	cycles, ok := dsort.CyclesOf[string](err)
	require.True(t, ok)
	require.Len(t, cycles, 1)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, cycles[0])
}

func TestDependencyOrder_Mapping(t *testing.T) {
	m := map[string]dsort.Dep[string]{
		"dsort": dsort.Many("ruby", "rspec"),
		"ruby":  dsort.One("C"),
		"rspec": dsort.One("ruby"),
	}
	got, err := dsort.DependencyOrder(dsort.OrderedMapping(m))
	require.NoError(t, err)
	// Keys are visited in ascending order: dsort, rspec, ruby.
	assert.Equal(t, []string{"C", "ruby", "rspec", "dsort"}, got)

	byLength := func(a, b string) int { return len(a) - len(b) }
	_, err = dsort.DependencyOrder(dsort.Mapping(m, byLength))
	require.NoError(t, err)
}

func TestDependencyOrder_ShapesAgree(t *testing.T) {
	fromPairs, err := dsort.Normalize(pairs(many("A", "B", "C"), many("B", "C", "D"), many("C", "D")))
	require.NoError(t, err)

	fromMap, err := dsort.Normalize(dsort.OrderedMapping(map[string]dsort.Dep[string]{
		"A": dsort.Many("B", "C"),
		"B": dsort.Many("C", "D"),
		"C": dsort.One("D"),
	}))
	require.NoError(t, err)

	fromCallback, err := dsort.Normalize(dsort.Expand(func(n string) []string { return hierarchy[n] }, "A"))
	require.NoError(t, err)

	for _, g := range []*dsort.Graph[string]{fromMap, fromCallback} {
		assert.ElementsMatch(t, fromPairs.Nodes(), g.Nodes())
		for _, n := range fromPairs.Nodes() {
			assert.ElementsMatch(t, fromPairs.Deps(n), g.Deps(n), "deps of %q", n)
		}
		order, err := dsort.Sort(g)
		require.NoError(t, err)
		assertDependencyOrder(t, fromPairs, order)
	}
}

func TestDependencyOrder_LeafDependencies(t *testing.T) {
	g, err := dsort.Normalize(pairs(many("app", "log", "http"), one("http", "net")))
	require.NoError(t, err)
	assert.Equal(t, []string{"app", "http", "log", "net"}, g.Nodes())
	assert.Empty(t, g.Deps("log"))
	assert.Empty(t, g.Deps("net"))

	order, err := dsort.Sort(g)
	require.NoError(t, err)
	assert.Equal(t, []string{"log", "net", "http", "app"}, order)
}

func TestPrecedenceOrder(t *testing.T) {
	inputs := []dsort.Input[string]{
		pairs(one("a", "b"), one("b", "c")),
		pairs(one("a", "b"), one("b", "c"), one("c", "c")),
		pairs(one("a", "b"), one("b", "c"), one("a", "c")),
		pairs(many("a", "b", "c"), many("b", "c"), many("c")),
		dsort.Expand(func(n string) []string { return hierarchy[n] }, "A"),
	}
	for i, in := range inputs {
		dep, err := dsort.DependencyOrder(in)
		require.NoError(t, err, "input %d", i)
		prec, err := dsort.PrecedenceOrder(in)
		require.NoError(t, err, "input %d", i)
		slices.Reverse(dep)
		assert.Equal(t, dep, prec, "input %d", i)
	}

	got, err := dsort.PrecedenceOrder(dsort.Expand(func(n string) []string { return hierarchy[n] }, "A"))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, got)
}

func TestPrecedenceOrder_FailsLikeDependencyOrder(t *testing.T) {
	in := pairs(one("a", "b"), one("b", "a"))
	_, depErr := dsort.DependencyOrder(in)
	_, precErr := dsort.PrecedenceOrder(in)
	require.Error(t, depErr)
	assert.Equal(t, depErr.Error(), precErr.Error())
}

func TestCyclicDependency_Minimal(t *testing.T) {
	order, err := dsort.DependencyOrder(pairs(one("a", "b"), one("b", "a")))
	assert.Nil(t, order)
	require.ErrorIs(t, err, dsort.ErrCyclicDependency)

	var ce *dsort.CyclicDependencyError[string]
	require.True(t, errors.As(err, &ce))
	require.Len(t, ce.Cycles, 1)
	assert.ElementsMatch(t, []string{"a", "b"}, ce.Cycles[0])
}

func TestCyclicDependency_SortedBySize(t *testing.T) {
	_, err := dsort.DependencyOrder(pairs(
		one("a", "b"), one("b", "a"),
		one("X", "Y"), one("Y", "Z"), one("Z", "X"),
	))
	cycles, ok := dsort.CyclesOf[string](err)
	require.True(t, ok)
	require.Len(t, cycles, 2)
	assert.ElementsMatch(t, []string{"a", "b"}, cycles[0])
	assert.ElementsMatch(t, []string{"X", "Y", "Z"}, cycles[1])
	assert.True(t, strings.HasPrefix(err.Error(), "dsort: cyclic dependency:"))
}

func TestCyclicDependency_LargerCycleFoundFirst(t *testing.T) {
	_, err := dsort.DependencyOrder(pairs(
		one("X", "Y"), one("Y", "Z"), one("Z", "X"),
		one("a", "b"), one("b", "a"),
	))
	cycles, ok := dsort.CyclesOf[string](err)
	require.True(t, ok)
	require.Len(t, cycles, 2)
	assert.Len(t, cycles[0], 2)
	assert.Len(t, cycles[1], 3)
}

func TestCyclicDependency_ReportsSelfLoops(t *testing.T) {
	_, err := dsort.DependencyOrder(pairs(one("s", "s"), one("a", "b"), one("b", "a")))
	cycles, ok := dsort.CyclesOf[string](err)
	require.True(t, ok)
	require.Len(t, cycles, 2)
	assert.Equal(t, []string{"s"}, cycles[0])
	assert.ElementsMatch(t, []string{"a", "b"}, cycles[1])
}

func TestCyclicDependency_UnreachedComponents(t *testing.T) {
	// The second cycle hangs off a separate root and is reported too.
	_, err := dsort.DependencyOrder(pairs(
		one("app", "a"), one("a", "b"), one("b", "a"),
		one("tool", "x"), many("x", "y"), one("y", "x"),
	))
	cycles, ok := dsort.CyclesOf[string](err)
	require.True(t, ok)
	assert.Len(t, cycles, 2)
}

func TestInputShapeError(t *testing.T) {
	_, err := dsort.DependencyOrder(dsort.Pairs(one("a", "b"), dsort.Pair[string]{Node: "c"}))
	require.ErrorIs(t, err, dsort.ErrInputShape)
	var se *dsort.InputShapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 1, se.Index)

	_, err = dsort.DependencyOrder(dsort.Expand[string](nil, "a"))
	require.ErrorIs(t, err, dsort.ErrInputShape)

	_, err = dsort.DependencyOrder(dsort.Mapping(map[string]dsort.Dep[string]{"a": dsort.One("b")}, nil))
	require.ErrorIs(t, err, dsort.ErrInputShape)

	_, err = dsort.DependencyOrder[string](nil)
	require.ErrorIs(t, err, dsort.ErrInputShape)
}

func TestSort_DeepChain(t *testing.T) {
	const depth = 200_000
	next := func(n int) []int {
		if n >= depth {
			return nil
		}
		return []int{n + 1}
	}
	order, err := dsort.DependencyOrder(dsort.Expand(next, 0))
	require.NoError(t, err)
	require.Len(t, order, depth+1)
	assert.Equal(t, depth, order[0])
	assert.Equal(t, 0, order[depth])
}

func TestSort_UnclosedGraph(t *testing.T) {
	g := dsort.NewGraph[string]()
	g.Add("app", "lib")
	order, err := dsort.Sort(g)
	require.NoError(t, err)
	assert.Equal(t, []string{"lib", "app"}, order)
	assert.False(t, g.Has("lib"), "Sort must not modify the graph")
}
