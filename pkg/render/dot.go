package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/depsort/pkg/dsort"
)

// Options configures diagram generation.
type Options struct {
	// Cycles are highlighted in the diagram. Pass the result of
	// dsort.Cycles, or nil for a plain drawing.
	Cycles [][]string

	// Detailed adds the number of direct dependencies to each label.
	Detailed bool

	// LeftToRight lays the graph out horizontally instead of top to bottom.
	LeftToRight bool
}

const (
	cycleFill = "#fde0dc"
	cycleLine = "#d93025"
)

// ToDOT converts a graph to Graphviz DOT. Nodes and edges are emitted in
// graph insertion order, so the same graph always yields the same source.
func ToDOT(g *dsort.Graph[string], opts Options) string {
	// cycle index per member; edges inside one cycle are highlighted too
	inCycle := make(map[string]int)
	for i, c := range opts.Cycles {
		for _, n := range c {
			inCycle[n] = i
		}
	}

	rankdir := "TB"
	if opts.LeftToRight {
		rankdir = "LR"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := []string{"label=" + fmtLabel(g, n, opts.Detailed)}
		if _, ok := inCycle[n]; ok {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", cycleFill), fmt.Sprintf("color=%q", cycleLine), "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", dotQuote(n), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range g.Nodes() {
		for _, d := range g.Deps(n) {
			ci, ok1 := inCycle[n]
			cj, ok2 := inCycle[d]
			if ok1 && ok2 && ci == cj {
				fmt.Fprintf(&buf, "  %s -> %s [color=%q, penwidth=2];\n", dotQuote(n), dotQuote(d), cycleLine)
				continue
			}
			fmt.Fprintf(&buf, "  %s -> %s;\n", dotQuote(n), dotQuote(d))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// fmtLabel returns the quoted label of n. The line break of a detailed
// label is the DOT escape \n, not a raw newline.
func fmtLabel(g *dsort.Graph[string], n string, detailed bool) string {
	if !detailed {
		return dotQuote(n)
	}
	return fmt.Sprintf(`"%s\n%d deps"`, dotEscape.Replace(n), len(g.Deps(n)))
}

// dotEscape escapes the only two characters DOT treats specially inside a
// double-quoted ID. Everything else, including invalid UTF-8 and invisible
// runes, is passed through byte for byte.
var dotEscape = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func dotQuote(s string) string {
	return `"` + dotEscape.Replace(s) + `"`
}
