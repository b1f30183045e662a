// Package config loads chartsmith's TOML configuration.
//
// A config file names the charts to draw and where their data lives, plus
// the output and cache settings shared by every command:
//
//	title    = "Social media charts"
//	data_dir = "data"
//	formats  = ["svg", "png"]
//
//	[cache]
//	backend = "redis"
//	url     = "redis://localhost:6379/0"
//	ttl     = "12h"
//
//	[[chart]]
//	name   = "boxplot"
//	kind   = "boxplot"
//	source = "socialMedia.csv"
//
// Values from a .env file next to the config and from CHARTSMITH_* environment
// variables override the file; see [Env].
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/chartsmith/pkg/cache"
	"github.com/matzehuels/chartsmith/pkg/chart"
	apperr "github.com/matzehuels/chartsmith/pkg/errors"
	"github.com/matzehuels/chartsmith/pkg/pipeline"
)

// DefaultFile is the config file name looked up in the working directory.
const DefaultFile = "chartsmith.toml"

// Config is the decoded configuration file.
type Config struct {
	Title   string       `toml:"title"`
	DataDir string       `toml:"data_dir"`
	OutDir  string       `toml:"out_dir"`
	Formats []string     `toml:"formats"`
	Cache   Cache        `toml:"cache"`
	HTTP    HTTP         `toml:"http"`
	Server  Server       `toml:"server"`
	Charts  []chart.Spec `toml:"chart"`
}

// Cache selects the cache backend.
type Cache struct {
	Backend string `toml:"backend"`
	URL     string `toml:"url,omitempty"`
	Dir     string `toml:"dir,omitempty"`
	Prefix  string `toml:"prefix,omitempty"`
	TTL     string `toml:"ttl,omitempty"`
}

// HTTP configures remote data sources.
type HTTP struct {
	Retries int    `toml:"retries"`
	Timeout string `toml:"timeout"`
}

// Server configures the serve command.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file exists: the three
// stock charts reading CSVs from ./data.
func Default() *Config {
	return &Config{
		Title:   "Social media charts",
		DataDir: "data",
		OutDir:  "out",
		Formats: []string{pipeline.FormatSVG},
		Cache:   Cache{Backend: cache.BackendFile, TTL: "24h"},
		HTTP:    HTTP{Retries: 1, Timeout: "30s"},
		Server:  Server{Addr: ":8080"},
		Charts:  chart.Defaults(),
	}
}

// Load reads the config at path, overlays the environment and validates the
// result. Relative data, output and cache directories resolve against the config
// file's directory. An empty path yields [Default] with the overlay applied.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		if err := cfg.applyEnv(Env(".")); err != nil {
			return nil, err
		}
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.Wrap(apperr.ErrCodeNotFound, err, "config file %s", path)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "read config")
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := cfg.applyEnv(Env(dir)); err != nil {
		return nil, err
	}
	cfg.resolve(dir)
	return cfg, cfg.Validate()
}

// Parse decodes TOML on top of [Default]. Unknown keys are rejected so that
// typos surface instead of silently falling back to defaults. When the file
// declares charts they replace the stock ones.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	cfg.Charts = nil
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, apperr.New(apperr.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if len(cfg.Charts) == 0 {
		cfg.Charts = chart.Defaults()
	}
	cfg.nameCharts()
	return cfg, nil
}

// nameCharts gives every unnamed chart the stock name of its kind, so that
// lookups, file names and routes all see the same name.
func (c *Config) nameCharts() {
	for i := range c.Charts {
		if c.Charts[i].Name == "" {
			c.Charts[i].Name = c.Charts[i].WithDefaults().Name
		}
	}
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func (c *Config) resolve(dir string) {
	if c.DataDir != "" && !filepath.IsAbs(c.DataDir) {
		c.DataDir = filepath.Join(dir, c.DataDir)
	}
	if c.OutDir != "" && !filepath.IsAbs(c.OutDir) {
		c.OutDir = filepath.Join(dir, c.OutDir)
	}
	if c.Cache.Dir != "" && !filepath.IsAbs(c.Cache.Dir) {
		c.Cache.Dir = filepath.Join(dir, c.Cache.Dir)
	}
}

// Validate checks every chart and setting.
func (c *Config) Validate() error {
	if len(c.Charts) == 0 {
		return apperr.New(apperr.ErrCodeInvalidConfig, "no charts configured")
	}
	c.nameCharts()
	seen := make(map[string]bool, len(c.Charts))
	for _, s := range c.Charts {
		if err := s.WithDefaults().Validate(); err != nil {
			return err
		}
		if seen[s.Name] {
			return apperr.New(apperr.ErrCodeInvalidConfig, "duplicate chart name %q", s.Name)
		}
		seen[s.Name] = true
	}
	if err := pipeline.ValidateFormats(c.Formats); err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "config formats")
	}
	if !validBackend(c.Cache.Backend) {
		return apperr.New(apperr.ErrCodeInvalidConfig, "unknown cache backend %q (want one of %s)",
			c.Cache.Backend, strings.Join(cache.Backends, ", "))
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	if _, err := c.HTTPTimeout(); err != nil {
		return err
	}
	if c.HTTP.Retries < 0 {
		return apperr.New(apperr.ErrCodeInvalidConfig, "http.retries cannot be negative")
	}
	return nil
}

func validBackend(name string) bool {
	if name == "" {
		return true
	}
	for _, b := range cache.Backends {
		if strings.EqualFold(name, b) {
			return true
		}
	}
	return false
}

// Chart returns the chart named name.
func (c *Config) Chart(name string) (chart.Spec, bool) {
	for _, s := range c.Charts {
		if s.Name == name {
			return s, true
		}
	}
	return chart.Spec{}, false
}

// Select returns the charts whose names are listed, in config order.
// An empty list selects every chart.
func (c *Config) Select(names []string) ([]chart.Spec, error) {
	if len(names) == 0 {
		return c.Charts, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := c.Chart(n); !ok {
			return nil, apperr.New(apperr.ErrCodeChartNotFound, "no chart named %q", n)
		}
		want[n] = true
	}
	var out []chart.Spec
	for _, s := range c.Charts {
		if want[s.Name] {
			out = append(out, s)
		}
	}
	return out, nil
}

// CacheTTL parses the artifact TTL. Empty means [cache.TTLArtifact].
func (c *Config) CacheTTL() (time.Duration, error) {
	return parseDuration("cache.ttl", c.Cache.TTL, cache.TTLArtifact)
}

// HTTPTimeout parses the HTTP client timeout. Empty means 30s.
func (c *Config) HTTPTimeout() (time.Duration, error) {
	return parseDuration("http.timeout", c.HTTP.Timeout, 30*time.Second)
}

func parseDuration(key, s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, apperr.New(apperr.ErrCodeInvalidConfig, "%s: invalid duration %q", key, s)
	}
	return d, nil
}

// CacheOptions converts the cache section for [cache.Open]. dir is used when
// the config does not set a cache directory.
func (c *Config) CacheOptions(dir string) cache.Options {
	opts := cache.Options{
		Backend: c.Cache.Backend,
		URL:     c.Cache.URL,
		Dir:     c.Cache.Dir,
		Prefix:  c.Cache.Prefix,
	}
	if opts.Dir == "" {
		opts.Dir = dir
	}
	return opts
}
