package cli

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/josz009/folio/pkg/siem"
)

// siemCommand creates the siem command.
func (c *CLI) siemCommand() *cobra.Command {
	var viewName string

	cmd := &cobra.Command{
		Use:   "siem",
		Short: "Run the live security event console",
		Long: `Run a live console of synthetic security events. Every event is generated
from a fixed catalog; nothing is monitored.

Views:
  dashboard  full console, 6 events, a new one every 5s
  tools      compact feed, 5 events, a new one every 6s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if viewName == "" {
				cfg, err := c.loadConfig()
				if err != nil {
					return err
				}
				viewName = cfg.SIEM.View
			}
			view, err := siem.ViewByName(viewName)
			if err != nil {
				return err
			}
			return c.runConsole(cmd, view)
		},
	}

	cmd.Flags().StringVar(&viewName, "view", "", "console view: dashboard or tools (default from config)")
	_ = cmd.RegisterFlagCompletionFunc("view", completeViews)

	return cmd
}

func (c *CLI) runConsole(cmd *cobra.Command, view siem.View) error {
	ctx := cmd.Context()

	// The console owns the screen; simulator logging would tear it.
	sim := siem.NewSimulator(view, log.New(io.Discard))
	feed, unsubscribe := sim.Subscribe(view.Capacity)
	defer unsubscribe()

	if err := sim.Activate(ctx); err != nil {
		return err
	}
	defer sim.Deactivate()
	c.Logger.Debug("console started", "view", view.Name)

	p := tea.NewProgram(NewConsoleModel(sim, feed), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}
