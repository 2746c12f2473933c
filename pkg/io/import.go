package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/depsort/pkg/dsort"
	"github.com/matzehuels/depsort/pkg/errors"
)

// Decode parses a dependency document in the given format.
//
// Syntax errors are returned wrapped with the format name. Structural
// problems (wrong pair length, nested objects, empty node IDs) are returned
// as [*dsort.InputShapeError], so callers can test for them with
// errors.Is(err, dsort.ErrInputShape).
func Decode(data []byte, f Format) (dsort.Input[string], error) {
	var (
		entries []entry
		err     error
	)
	switch f {
	case FormatJSON:
		entries, err = decodeJSON(data)
	case FormatTOML:
		entries, err = decodeTOML(data)
	case FormatYAML:
		entries, err = decodeYAML(data)
	case FormatGraph:
		return decodeGraph(data)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f)
	}
	if err != nil {
		return nil, err
	}
	return toInput(entries)
}

// ReadFile reads and decodes the document at path. An empty format is
// inferred with [DetectFormat].
func ReadFile(path string, f Format) (dsort.Input[string], error) {
	if f == "" {
		var err error
		if f, err = DetectFormat(path); err != nil {
			return nil, err
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return Decode(data, f)
}

// decodeJSON streams the top level so object keys keep document order.
func decodeJSON(data []byte) ([]entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err == io.EOF {
		return nil, nil // empty document
	}
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	delim, ok := tok.(json.Delim)
	if !ok || (delim != '{' && delim != '[') {
		return nil, &dsort.InputShapeError{Index: -1, Reason: "document must be an object or a list of pairs"}
	}

	var entries []entry
	if delim == '[' {
		var items []any
		for dec.More() {
			var item any
			if err := dec.Decode(&item); err != nil {
				return nil, fmt.Errorf("decode json: item %d: %w", len(items), err)
			}
			items = append(items, item)
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		if err := expectEOF(dec); err != nil {
			return nil, err
		}
		return pairsFromList(items)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("decode json: key %v: %w", keyTok, err)
		}
		entries = append(entries, entry{node: keyTok, deps: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if err := expectEOF(dec); err != nil {
		return nil, err
	}
	return entries, nil
}

// expectEOF fails when anything but whitespace follows the top-level value.
func expectEOF(dec *json.Decoder) error {
	if _, err := dec.Token(); err != io.EOF {
		return &dsort.InputShapeError{Index: -1, Reason: "unexpected data after document"}
	}
	return nil
}

// decodeTOML reads either a [dependencies] table, a top-level "pairs" array,
// or root-level keys. Key order comes from the decoder metadata.
func decodeTOML(data []byte) ([]entry, error) {
	var doc map[string]any
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, fmt.Errorf("decode toml: %w", err)
	}

	if raw, ok := doc["pairs"]; ok && len(doc) == 1 {
		items, ok := raw.([]any)
		if !ok {
			return nil, &dsort.InputShapeError{Index: -1, Reason: "pairs must be an array"}
		}
		return pairsFromList(items)
	}

	table, prefix := doc, ""
	if deps, ok := doc["dependencies"].(map[string]any); ok {
		table, prefix = deps, "dependencies"
	}

	var entries []entry
	for _, key := range md.Keys() {
		var name string
		switch {
		case prefix == "" && len(key) == 1:
			name = key[0]
		case prefix != "" && len(key) == 2 && key[0] == prefix:
			name = key[1]
		default:
			continue
		}
		entries = append(entries, entry{node: name, deps: table[name]})
	}
	return entries, nil
}

// decodeYAML walks the node tree so mapping keys keep document order.
func decodeYAML(data []byte) ([]entry, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if root.Kind == 0 {
		return nil, nil // empty document
	}
	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}

	switch doc.Kind {
	case yaml.MappingNode:
		entries := make([]entry, 0, len(doc.Content)/2)
		for i := 0; i+1 < len(doc.Content); i += 2 {
			entries = append(entries, entry{node: yamlValue(doc.Content[i]), deps: yamlValue(doc.Content[i+1])})
		}
		return entries, nil
	case yaml.SequenceNode:
		items := make([]any, len(doc.Content))
		for i, n := range doc.Content {
			items[i] = yamlValue(n)
		}
		return pairsFromList(items)
	}
	return nil, &dsort.InputShapeError{Index: -1, Reason: "document must be a mapping or a list of pairs"}
}

func yamlValue(n *yaml.Node) any {
	switch n.Kind {
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil
		}
		return n.Value
	case yaml.SequenceNode:
		out := make([]any, len(n.Content))
		for i, c := range n.Content {
			out[i] = yamlValue(c)
		}
		return out
	}
	return map[string]any{}
}

// graphDoc is the node/edge interchange format also produced by WriteGraphJSON.
type graphDoc struct {
	Nodes []graphNode `json:"nodes"`
	Edges []graphEdge `json:"edges"`
}

type graphNode struct {
	ID string `json:"id"`
}

type graphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func decodeGraph(data []byte) (dsort.Input[string], error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return dsort.Pairs[string](), nil
	}
	var doc graphDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}

	pairs := make([]dsort.Pair[string], 0, len(doc.Nodes)+len(doc.Edges))
	for i, n := range doc.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return nil, &dsort.InputShapeError{Index: i, Reason: "node: " + errors.UserMessage(err)}
		}
		pairs = append(pairs, dsort.P(n.ID, dsort.Many[string]()))
	}
	for i, e := range doc.Edges {
		if e.From == "" || e.To == "" {
			return nil, &dsort.InputShapeError{Index: len(doc.Nodes) + i, Reason: fmt.Sprintf("edge %d needs both from and to", i)}
		}
		pairs = append(pairs, dsort.P(e.From, dsort.One(e.To)))
	}
	return dsort.Pairs(pairs...), nil
}
