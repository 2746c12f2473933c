package io

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/matzehuels/depsort/pkg/dsort"
	"github.com/matzehuels/depsort/pkg/errors"
)

// entry is one undecoded (dependent, dependencies) relation in document order.
type entry struct {
	node any
	deps any
}

// pairsFromList sniffs a top-level list: every item must be a two-element list.
func pairsFromList(items []any) ([]entry, error) {
	out := make([]entry, len(items))
	for i, item := range items {
		pair, ok := item.([]any)
		if !ok {
			return nil, &dsort.InputShapeError{Index: i, Reason: fmt.Sprintf("expected a [dependent, dependencies] pair, got %s", kindOf(item))}
		}
		if len(pair) != 2 {
			return nil, &dsort.InputShapeError{Index: i, Reason: fmt.Sprintf("pair has %d elements, want 2", len(pair))}
		}
		out[i] = entry{node: pair[0], deps: pair[1]}
	}
	return out, nil
}

// toInput converts raw entries to a pairs input, stringifying scalars.
func toInput(entries []entry) (dsort.Input[string], error) {
	pairs := make([]dsort.Pair[string], 0, len(entries))
	for i, e := range entries {
		node, ok := scalar(e.node)
		if !ok {
			return nil, &dsort.InputShapeError{Index: i, Reason: fmt.Sprintf("dependent must be a scalar, got %s", kindOf(e.node))}
		}
		if err := errors.ValidateNodeID(node); err != nil {
			return nil, &dsort.InputShapeError{Index: i, Reason: errors.UserMessage(err)}
		}

		var dep dsort.Dep[string]
		switch v := e.deps.(type) {
		case nil:
			dep = dsort.Many[string]()
		case []any:
			names := make([]string, len(v))
			for j, d := range v {
				name, ok := scalar(d)
				if !ok {
					return nil, &dsort.InputShapeError{Index: i, Reason: fmt.Sprintf("dependency %d of %q must be a scalar, got %s", j, node, kindOf(d))}
				}
				if err := errors.ValidateNodeID(name); err != nil {
					return nil, &dsort.InputShapeError{Index: i, Reason: errors.UserMessage(err)}
				}
				names[j] = name
			}
			dep = dsort.Many(names...)
		default:
			name, ok := scalar(v)
			if !ok {
				return nil, &dsort.InputShapeError{Index: i, Reason: fmt.Sprintf("dependencies of %q must be a scalar or a list, got %s", node, kindOf(v))}
			}
			if err := errors.ValidateNodeID(name); err != nil {
				return nil, &dsort.InputShapeError{Index: i, Reason: errors.UserMessage(err)}
			}
			dep = dsort.One(name)
		}
		pairs = append(pairs, dsort.P(node, dep))
	}
	return dsort.Pairs(pairs...), nil
}

func scalar(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case bool:
		return strconv.FormatBool(x), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), true
	case time.Time:
		return x.Format(time.RFC3339), true
	}
	return "", false
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "list"
	case map[string]any:
		return "object"
	}
	if _, ok := scalar(v); ok {
		return "scalar"
	}
	return fmt.Sprintf("%T", v)
}
