package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/depsort/pkg/dsort"
)

type orderDoc struct {
	Order []string `json:"order"`
}

type cyclesDoc struct {
	Cycles [][]string `json:"cycles"`
}

// WriteText writes one node per line.
func WriteText(w io.Writer, order []string) error {
	for _, n := range order {
		if _, err := fmt.Fprintln(w, n); err != nil {
			return err
		}
	}
	return nil
}

// WriteOrderJSON encodes {"order": [...]}. A nil order is written as [].
func WriteOrderJSON(w io.Writer, order []string) error {
	if order == nil {
		order = []string{}
	}
	return writeIndented(w, orderDoc{Order: order})
}

// WriteCyclesJSON encodes {"cycles": [[...]]}. No cycles is written as [].
func WriteCyclesJSON(w io.Writer, cycles [][]string) error {
	if cycles == nil {
		cycles = [][]string{}
	}
	return writeIndented(w, cyclesDoc{Cycles: cycles})
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteGraphJSON encodes a canonical graph in the graph format. Nodes are
// written in insertion order and edges in recorded order, so the output
// decodes back to an equivalent graph.
func WriteGraphJSON(w io.Writer, g *dsort.Graph[string]) error {
	out := graphDoc{
		Nodes: make([]graphNode, 0, g.Len()),
		Edges: make([]graphEdge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, graphNode{ID: n})
		for _, d := range g.Deps(n) {
			out.Edges = append(out.Edges, graphEdge{From: n, To: d})
		}
	}

	return writeIndented(w, out)
}

// ExportGraphJSON writes a canonical graph to a file at path.
// This is a convenience wrapper around [WriteGraphJSON] for file-based output.
func ExportGraphJSON(g *dsort.Graph[string], path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraphJSON(f, g)
}
