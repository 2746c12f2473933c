package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depsort/pkg/errors"
	pkgio "github.com/matzehuels/depsort/pkg/io"
	"github.com/matzehuels/depsort/pkg/pipeline"
)

type cyclesFlags struct {
	documentFlags
	output string
}

// cyclesCommand creates the cycles command.
func (c *CLI) cyclesCommand() *cobra.Command {
	flags := cyclesFlags{output: outputText}

	cmd := &cobra.Command{
		Use:   "cycles FILE",
		Short: "List every circular dependency",
		Long: `List every group of elements that depend on each other, smallest group
first. A group of one is an element that depends on itself.

Exits with status 2 when any cycle is found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateChoice(errors.ErrCodeInvalidFormat, "output format", flags.output, outputFormats); err != nil {
				return err
			}
			opts, err := c.documentOptions(cmd, &flags.documentFlags, args[0], pipeline.DefaultMode)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			result, err := runner.Cycles(cmd.Context(), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case flags.output == outputJSON:
				if err := pkgio.WriteCyclesJSON(out, result.Cycles); err != nil {
					return err
				}
			case len(result.Cycles) == 0:
				printSuccess(out, "No circular dependencies in %s", opts.Name())
				printStats(out, result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheHit)
			default:
				printCycles(out, result.Cycles)
				printNextStep(out, "Inspect them", "depsort graph "+args[0]+" -o graph.svg")
			}

			if n := len(result.Cycles); n > 0 {
				return &ExitError{Code: ExitCycles, Err: fmt.Errorf("%d circular %s", n, plural(n, "dependency", "dependencies"))}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.output, "output", "o", flags.output, "output format: text, json")

	return cmd
}
