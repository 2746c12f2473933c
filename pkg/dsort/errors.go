package dsort

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInputShape matches every [*InputShapeError] via errors.Is.
	ErrInputShape = errors.New("dsort: malformed input")

	// ErrCyclicDependency matches every [*CyclicDependencyError] via errors.Is,
	// whatever its node type.
	ErrCyclicDependency = errors.New("dsort: cyclic dependency")
)

// InputShapeError reports dependency data that cannot be normalized.
// Index is the position of the offending entry, or -1 when the input as a
// whole is malformed (for example a missing callback).
type InputShapeError struct {
	Index  int
	Reason string
}

func (e *InputShapeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v: %s", ErrInputShape, e.Reason)
	}
	return fmt.Sprintf("%v: entry %d: %s", ErrInputShape, e.Index, e.Reason)
}

// Is makes errors.Is(err, ErrInputShape) succeed.
func (e *InputShapeError) Is(target error) bool { return target == ErrInputShape }

// CyclicDependencyError is returned when the dependency graph contains at
// least one cycle of two or more nodes. Cycles holds every such strongly
// connected component, plus every self-dependent node, sorted by ascending
// size. Membership within a cycle is significant, order is not.
type CyclicDependencyError[N comparable] struct {
	Cycles [][]N
}

func (e *CyclicDependencyError[N]) Error() string {
	parts := make([]string, len(e.Cycles))
	for i, c := range e.Cycles {
		parts[i] = fmt.Sprint(c)
	}
	return fmt.Sprintf("%v: %s", ErrCyclicDependency, strings.Join(parts, " "))
}

// Is makes errors.Is(err, ErrCyclicDependency) succeed.
func (e *CyclicDependencyError[N]) Is(target error) bool { return target == ErrCyclicDependency }

// CyclesOf extracts the cycle list from err if it wraps a
// [*CyclicDependencyError] for node type N.
func CyclesOf[N comparable](err error) ([][]N, bool) {
	var ce *CyclicDependencyError[N]
	if errors.As(err, &ce) {
		return ce.Cycles, true
	}
	return nil, false
}
