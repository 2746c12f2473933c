package dsort

// Normalize converts in into a canonical [Graph]. Every node mentioned in the
// input, as a dependent or as a dependency, gets exactly one entry; nodes
// that only appear as dependencies get an empty dependency list.
//
// Normalize returns an [*InputShapeError] for malformed input. It never
// reports cycles; see [Sort].
func Normalize[N comparable](in Input[N]) (*Graph[N], error) {
	if in == nil {
		return nil, &InputShapeError{Index: -1, Reason: "input is nil"}
	}
	g := NewGraph[N]()
	if err := in.collect(g); err != nil {
		return nil, err
	}
	g.Close()
	return g, nil
}
