package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartsmith/pkg/config"
	"github.com/matzehuels/chartsmith/pkg/pipeline"
	"github.com/matzehuels/chartsmith/pkg/stats"
)

// statsOpts holds the command-line flags for the stats command.
type statsOpts struct {
	charts  []string
	json    bool
	noCache bool
}

// chartSummary is one chart's summaries as written by --json.
type chartSummary struct {
	Chart    string        `json:"chart"`
	Category string        `json:"category"`
	Value    string        `json:"value"`
	Groups   []stats.Group `json:"groups"`
}

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	var opts statsOpts

	cmd := &cobra.Command{
		Use:   "stats [config]",
		Short: "Print five-number summaries of chart data",
		Long: `Load each chart's data and print min, quartiles, median and max of the
value column for every category, the figures a box plot draws.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(args)
			if err != nil {
				return err
			}
			return c.runStats(cmd.Context(), cfg, &opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringSliceVar(&opts.charts, "chart", nil, "summarize only the named chart(s)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "write JSON instead of tables")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	_ = cmd.RegisterFlagCompletionFunc("chart", c.completeChartNames)

	return cmd
}

func (c *CLI) runStats(ctx context.Context, cfg *config.Config, opts *statsOpts, w io.Writer) error {
	specs, err := cfg.Select(opts.charts)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	out := make([]chartSummary, 0, len(specs))
	for _, s := range specs {
		groups, err := runner.Summaries(ctx, s, pipeline.Options{Logger: c.Logger})
		if err != nil {
			return fmt.Errorf("chart %s: %w", s.Name, err)
		}
		d := s.WithDefaults()
		out = append(out, chartSummary{Chart: s.Name, Category: d.Category, Value: d.Value, Groups: groups})
	}

	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	for i, cs := range out {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, StyleTitle.Render(cs.Chart)+" "+StyleDim.Render(cs.Value+" by "+cs.Category))
		fmt.Fprintln(w, summaryTable(cs.Category, cs.Groups))
	}
	return nil
}

// summaryTable renders groups as a bordered table.
func summaryTable(category string, groups []stats.Group) string {
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		s := g.Summary
		rows = append(rows, []string{
			g.Key,
			humanize.Comma(int64(s.N)),
			formatStat(s.Min),
			formatStat(s.Q1),
			formatStat(s.Median),
			formatStat(s.Q3),
			formatStat(s.Max),
			formatStat(s.IQR),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(colorCyan)
	numStyle := lipgloss.NewStyle().Foreground(colorWhite).Align(lipgloss.Right)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(category, "N", "Min", "Q1", "Median", "Q3", "Max", "IQR").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return keyStyle.Padding(0, 1)
			}
			return numStyle.Padding(0, 1)
		})
	return t.Render()
}

func formatStat(v float64) string {
	return humanize.CommafWithDigits(v, 2)
}

