package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for depsort and write it to standard output.

Load it for the current session:

  bash:        source <(depsort completion bash)
  zsh:         source <(depsort completion zsh)
  fish:        depsort completion fish | source
  powershell:  depsort completion powershell | Out-String | Invoke-Expression

To load completions in every session, write the script to your shell's
completion directory, for example:

  depsort completion bash > /etc/bash_completion.d/depsort
  depsort completion zsh > "${fpath[1]}/_depsort"
  depsort completion fish > ~/.config/fish/completions/depsort.fish
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
