// Package cli implements the chartsmith command-line interface.
package cli

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartsmith/pkg/buildinfo"
	"github.com/matzehuels/chartsmith/pkg/cache"
	"github.com/matzehuels/chartsmith/pkg/config"
	"github.com/matzehuels/chartsmith/pkg/pipeline"
	"github.com/matzehuels/chartsmith/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "chartsmith"

	// defaultRetryDelay is the first backoff between HTTP source attempts.
	defaultRetryDelay = 500 * time.Millisecond
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag. Empty means ./chartsmith.toml when it
	// exists, built-in defaults otherwise.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Chartsmith renders social media charts from CSV data",
		Long:          `Chartsmith turns tabular social media metrics into box plots, grouped bar charts and line charts, written as SVG, PNG, PDF or JSON scene graphs.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.installHooks()
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.ConfigPath, "config", "c", "", "config file (default ./"+config.DefaultFile+" if present)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config
// =============================================================================

// loadConfig reads the config named by the optional positional argument,
// falling back to --config.
func (c *CLI) loadConfig(args []string) (*config.Config, error) {
	path := c.ConfigPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		if _, err := os.Stat(config.DefaultFile); err == nil {
			path = config.DefaultFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if path != "" {
		c.Logger.Debug("Loaded config", "path", path, "charts", len(cfg.Charts))
	} else {
		c.Logger.Debug("Using built-in config", "charts", len(cfg.Charts))
	}
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for cfg. noCache replaces the
// configured backend with a null cache.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	sources, err := newSources(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	ttl, err := cfg.CacheTTL()
	if err != nil {
		store.Close()
		return nil, err
	}
	// Redis applies the prefix itself.
	var keyer cache.Keyer
	if p := cfg.Cache.Prefix; p != "" && cfg.Cache.Backend != cache.BackendRedis {
		keyer = cache.NewScopedKeyer(nil, p)
	}
	r := pipeline.NewRunner(store, keyer, sources, c.Logger)
	r.ArtifactTTL = ttl
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	fileBackend := cfg.Cache.Backend == "" || cfg.Cache.Backend == cache.BackendFile
	if err != nil && cfg.Cache.Dir == "" && fileBackend {
		c.Logger.Warn("No cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	store, err := cache.Open(ctx, cfg.CacheOptions(dir))
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("Opened cache", "backend", cfg.Cache.Backend)
	return store, nil
}

func newSources(cfg *config.Config) (*source.Registry, error) {
	timeout, err := cfg.HTTPTimeout()
	if err != nil {
		return nil, err
	}
	opts := []source.HTTPOption{source.WithClient(&http.Client{Timeout: timeout})}
	if cfg.HTTP.Retries > 0 {
		opts = append(opts, source.WithRetry(cfg.HTTP.Retries+1, defaultRetryDelay))
	}
	return source.NewRegistry(cfg.DataDir, opts...), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/chartsmith/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice. An empty
// string yields fallback.
func parseFormats(s string, fallback []string) []string {
	if strings.TrimSpace(s) == "" {
		if len(fallback) == 0 {
			return []string{pipeline.FormatSVG}
		}
		return fallback
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
