package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// browseCommand creates the browse command: pick charts in a terminal UI,
// then render them like the render command would.
func (c *CLI) browseCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "browse [config]",
		Short: "Pick charts interactively and render them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(args)
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewChartListModel(cfg.Charts), tea.WithContext(cmd.Context()))
			finalModel, err := p.Run()
			if err != nil {
				return err
			}
			fm, ok := finalModel.(ChartListModel)
			if !ok || len(fm.Selected) == 0 {
				printDetail("No selection made")
				return nil
			}

			opts.charts = fm.Selected
			opts.formats = parseFormats(formatsStr, cfg.Formats)
			return c.runRender(withLogger(cmd.Context(), c.Logger.With("cmd", "browse")), cfg, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default from config)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s) (comma-separated, default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}
