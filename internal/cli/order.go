package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depsort/pkg/dsort"
	"github.com/matzehuels/depsort/pkg/errors"
	pkgio "github.com/matzehuels/depsort/pkg/io"
	"github.com/matzehuels/depsort/pkg/pipeline"
)

// Result output formats.
const (
	outputText = "text"
	outputJSON = "json"
)

var outputFormats = []string{outputText, outputJSON}

// orderFlags holds flags for the order command.
type orderFlags struct {
	documentFlags
	precedence bool
	output     string
}

// orderCommand creates the order command.
func (c *CLI) orderCommand() *cobra.Command {
	flags := orderFlags{output: outputText}

	cmd := &cobra.Command{
		Use:   "order FILE",
		Short: "Print elements so that each comes after its dependencies",
		Long: `Print every element of a dependency document in dependency order: each
element appears after everything it depends on. With --precedence the order is
reversed, so each element appears before its dependencies.

FILE may be "-" to read standard input (JSON unless --format is given).
Circular dependencies are listed on stderr and the command exits with status 2.`,
		Example: `  depsort order deps.json
  depsort order --precedence tasks.yaml
  cat deps.toml | depsort order -f toml -o json -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOrder(cmd, args[0], flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&flags.precedence, "precedence", "p", false, "reverse the order (dependents first)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", flags.output, "output format: text, json")

	return cmd
}

func (c *CLI) runOrder(cmd *cobra.Command, path string, flags orderFlags) error {
	if err := errors.ValidateChoice(errors.ErrCodeInvalidFormat, "output format", flags.output, outputFormats); err != nil {
		return err
	}
	mode := pipeline.ModeDependency
	if flags.precedence {
		mode = pipeline.ModePrecedence
	}
	opts, err := c.documentOptions(cmd, &flags.documentFlags, path, mode)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(cmd.Context(), flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(cmd.Context(), opts)
	if err != nil {
		if cycles, ok := dsort.CyclesOf[string](err); ok {
			reportCycles(cmd, flags.output, cycles)
			return &ExitError{Code: ExitCycles, Err: err}
		}
		return err
	}
	prog.done(fmt.Sprintf("Sorted %d nodes", len(result.Order)))

	out := cmd.OutOrStdout()
	if flags.output == outputJSON {
		return pkgio.WriteOrderJSON(out, result.Order)
	}
	return pkgio.WriteText(out, result.Order)
}

// reportCycles writes the cycle list: a table on the error stream for text
// output, the JSON cycle report on standard output otherwise.
func reportCycles(cmd *cobra.Command, output string, cycles [][]string) {
	if output == outputJSON {
		_ = pkgio.WriteCyclesJSON(cmd.OutOrStdout(), cycles)
		return
	}
	printCycles(cmd.ErrOrStderr(), cycles)
}
