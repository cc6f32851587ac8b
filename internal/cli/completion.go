package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josz009/folio/pkg/siem"
	"github.com/josz009/folio/pkg/terminal"
)

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

// completionCommand writes a completion script for one shell to stdout.
// Besides subcommands and flags, the scripts complete siem --view with the
// console view names and terminal --exec with the portfolio shell commands.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for folio.

  $ source <(folio completion bash)
  $ folio completion zsh > "${fpath[1]}/_folio"
  $ folio completion fish > ~/.config/fish/completions/folio.fish
  PS> folio completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             completionShells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(w, true)
			case "zsh":
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(w)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}

func completeViews(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	names := make([]string, len(siem.Views))
	for i, v := range siem.Views {
		names[i] = v.Name
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func completeTerminalCommands(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return terminal.Commands(), cobra.ShellCompDirectiveNoFileComp
}
