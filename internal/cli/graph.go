package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/depsort/pkg/io"
	"github.com/matzehuels/depsort/pkg/pipeline"
)

// graphJSONSuffix selects graph document output instead of a diagram.
const graphJSONSuffix = ".graph.json"

type graphFlags struct {
	documentFlags
	output      string
	detailed    bool
	leftToRight bool
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var flags graphFlags

	cmd := &cobra.Command{
		Use:   "graph FILE",
		Short: "Draw the dependency graph with cycles highlighted",
		Long: `Draw the dependency graph of a document. Arrows point from an element to
what it depends on; elements and edges that form a cycle are drawn in red.

The diagram format follows the output extension: .svg, .png or .dot.
An output ending in .graph.json gets the normalized graph in the graph
document format instead, which every command reads back with -f graph.
Cyclic documents are drawn like any other.`,
		Example: `  depsort graph deps.json -o deps.svg
  depsort graph deps.yaml -o deps.graph.json
  depsort graph --detailed --lr tasks.yaml -o tasks.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, args[0], flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: FILE with .svg extension)")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "show dependency counts on nodes")
	cmd.Flags().BoolVar(&flags.leftToRight, "lr", false, "lay out left to right instead of top to bottom")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, path string, flags graphFlags) error {
	output := flags.output
	if output == "" {
		if path == "-" {
			output = "graph.svg"
		} else {
			output = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".svg"
		}
	}
	export := strings.HasSuffix(strings.ToLower(output), graphJSONSuffix)
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	if !export {
		if err := pipeline.ValidateDiagramFormat(format); err != nil {
			return err
		}
	}

	opts, err := c.documentOptions(cmd, &flags.documentFlags, path, pipeline.DefaultMode)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(cmd.Context(), flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	status := cmd.ErrOrStderr()
	if export {
		g, err := runner.Load(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if err := pkgio.ExportGraphJSON(g, output); err != nil {
			return err
		}
		printSuccess(status, "Exported %s with %d nodes", StyleHighlight.Render("graph"), g.Len())
		printFile(status, output)
		return nil
	}

	spinner := newSpinner(cmd.Context(), status, "Rendering "+opts.Name()+"...")
	spinner.Start()
	data, err := runner.Render(cmd.Context(), opts, pipeline.RenderOptions{
		Format:      format,
		Detailed:    flags.detailed,
		LeftToRight: flags.leftToRight,
	})
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess(status, "Rendered %s", StyleHighlight.Render(format))
	printFile(status, output)
	return nil
}
