package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/josz009/folio/pkg/terminal"
)

// terminalCommand creates the terminal command.
func (c *CLI) terminalCommand() *cobra.Command {
	var (
		exec     string
		noBrowse bool
	)

	cmd := &cobra.Command{
		Use:   "terminal",
		Short: "Open the interactive portfolio terminal",
		Long: `Open a small shell that answers questions about the portfolio owner.
Type "help" inside it for the list of commands.

With --exec a single command is run and its output printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cat, err := c.catalog(cfg)
			if err != nil {
				return err
			}
			interp := terminal.New(cat)

			if cmd.Flags().Changed("exec") {
				res := interp.Execute(exec)
				for _, line := range res.Lines {
					fmt.Fprintln(os.Stdout, line)
				}
				if res.Effect != nil && res.Effect.Kind() != "none" {
					c.Logger.Debug("effect not performed", "kind", res.Effect.Kind())
				}
				if !res.Found && res.Echo != "" {
					return fmt.Errorf("command not found: %s", exec)
				}
				return nil
			}

			open := openBrowser
			if noBrowse {
				open = nil
			}
			model := NewTerminalModel(terminal.NewSession(interp), open)
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if err != nil && cmd.Context().Err() != nil {
				return cmd.Context().Err()
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&exec, "exec", "e", "", "run one command and exit")
	cmd.Flags().BoolVar(&noBrowse, "no-browser", false, "do not open links in the browser")
	_ = cmd.RegisterFlagCompletionFunc("exec", completeTerminalCommands)

	return cmd
}
