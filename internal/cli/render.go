package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartsmith/pkg/config"
	apperr "github.com/matzehuels/chartsmith/pkg/errors"
	"github.com/matzehuels/chartsmith/pkg/pipeline"
)

// hostFile is the name of the HTML page written by --html.
const hostFile = "index.html"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output directory; empty means the config's out_dir
	formats []string // output formats: "svg", "pdf", "png", "json"
	charts  []string // chart names to render; empty means all
	html    bool     // also write an HTML page mounting every SVG
	noCache bool     // disable the cache backend
	refresh bool     // bypass cache reads
	scale   float64  // PNG scale factor
	font    string   // font family for raster and PDF output
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render [config]",
		Short: "Render the configured charts to files",
		Long: `Render every chart of the config (or those named by --chart) and write
<out>/<chart>.<format> for each requested format.

Charts run concurrently and charts reading the same source share one load.
A chart that fails is reported and skipped; the command exits non-zero if any
chart failed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(args)
			if err != nil {
				return err
			}
			opts.formats = parseFormats(formatsStr, cfg.Formats)
			if opts.html && !slices.Contains(opts.formats, pipeline.FormatSVG) {
				opts.formats = append(opts.formats, pipeline.FormatSVG)
			}
			return c.runRender(withLogger(cmd.Context(), c.Logger.With("cmd", "render")), cfg, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default from config)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg, json, pdf, png (comma-separated, default from config)")
	cmd.Flags().StringSliceVar(&opts.charts, "chart", nil, "render only the named chart(s)")
	cmd.Flags().BoolVar(&opts.html, "html", false, "also write "+hostFile+" mounting every chart")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached data and artifacts")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().StringVar(&opts.font, "font", "", "font family for chart text")

	_ = cmd.RegisterFlagCompletionFunc("chart", c.completeChartNames)

	return cmd
}

// completeChartNames offers the chart names of the active config.
func (c *CLI) completeChartNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := c.loadConfig(args)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	names := make([]string, 0, len(cfg.Charts))
	for _, s := range cfg.Charts {
		names = append(names, s.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// runRender executes the selected charts and writes their artifacts.
func (c *CLI) runRender(ctx context.Context, cfg *config.Config, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	if err := pipeline.ValidateFormats(opts.formats); err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "render")
	}

	specs, err := cfg.Select(opts.charts)
	if err != nil {
		return err
	}
	outDir := opts.output
	if outDir == "" {
		outDir = cfg.OutDir
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	logger.Info("Rendering charts", "count", len(specs), "formats", opts.formats, "out", outDir)
	prog := newProgress(logger, len(specs))

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %d charts...", len(specs)))
	spinner.Start()
	outcomes := runner.ExecuteAll(ctx, specs, pipeline.Options{
		Formats:    opts.formats,
		Refresh:    opts.refresh,
		Scale:      opts.scale,
		FontFamily: opts.font,
		Logger:     logger,
	})
	spinner.Stop()
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			printError("%s: %s", o.Chart.Name, apperr.UserMessage(o.Err))
			logger.Debug("Chart failed", "chart", o.Chart.Name, "err", o.Err)
			continue
		}
		printSuccess("%s %s", o.Chart.Name, StyleDim.Render(string(o.Result.Spec.Kind)))
		printStats(o.Result.Stats.Rows, o.Result.Stats.Nodes, o.Result.CacheInfo.RenderHit)

		paths, err := writeArtifacts(outDir, o.Chart.Name, opts.formats, o.Result.Artifacts)
		if err != nil {
			return err
		}
		for _, p := range paths {
			printFile(p)
		}
	}

	if opts.html {
		page, err := pipeline.HostDocument(cfg.Title, outcomes)
		if err != nil {
			return fmt.Errorf("host document: %w", err)
		}
		path := filepath.Join(outDir, hostFile)
		if err := os.WriteFile(path, page, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printInfo("Host document")
		printFile(path)
	}

	prog.done(failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d charts failed", failed, len(outcomes))
	}
	return nil
}

// writeArtifacts writes dir/name.format for each format in order and returns
// the written paths.
func writeArtifacts(dir, name string, formats []string, artifacts map[string][]byte) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			continue
		}
		path := filepath.Join(dir, name+"."+f)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
