package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartsmith/pkg/cache"
	"github.com/matzehuels/chartsmith/pkg/config"
	apperr "github.com/matzehuels/chartsmith/pkg/errors"
)

var testData = map[string]string{
	"socialMedia.csv": "Platform,Likes\n" +
		"Instagram,120\nInstagram,200\nInstagram,150\n" +
		"Facebook,80\nFacebook,60\nTwitter,40\nTwitter,90\n",
	"socialMediaAvg.csv": "Platform,PostType,AvgLikes\n" +
		"Instagram,Image,150\nInstagram,Video,210\nInstagram,Text,60\n" +
		"Facebook,Image,70\nFacebook,Video,95\nFacebook,Text,40\n",
	"socialMediaTime.csv": "Date,AvgLikes\n" +
		"3/1/2024,120\n3/2/2024,140\n3/3/2024,90\n3/4/2024,160\n3/5/2024,110\n",
}

// testConfig writes the stock charts' data and a config reading it, and
// returns the config path. edit may adjust the config before it is written.
func testConfig(t *testing.T, edit func(*config.Config)) string {
	t.Helper()
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range testData {
		if err := os.WriteFile(filepath.Join(dataDir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := config.Default()
	cfg.Cache.Backend = cache.BackendNone
	cfg.OutDir = filepath.Join(dir, "out")
	if edit != nil {
		edit(cfg)
	}

	var buf bytes.Buffer
	if err := config.Write(&buf, cfg); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, config.DefaultFile)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	prev := stdout
	stdout = io.Discard
	t.Cleanup(func() { stdout = prev })

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func exists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Stat(path)
	return err == nil
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		fallback []string
		want     []string
	}{
		{"empty defaults to svg", "", nil, []string{"svg"}},
		{"empty uses fallback", "", []string{"png", "pdf"}, []string{"png", "pdf"}},
		{"single format", "svg", nil, []string{"svg"}},
		{"multiple formats", "svg,pdf,png", nil, []string{"svg", "pdf", "png"}},
		{"spaces and case", " SVG , json ,", nil, []string{"svg", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input, tt.fallback)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"render", "stats", "serve", "browse", "config", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	path := testConfig(t, func(cfg *config.Config) { cfg.Title = "From file" })
	c := New(io.Discard, LogInfo)

	cfg, err := c.loadConfig([]string{path})
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Title != "From file" {
		t.Errorf("Title = %q, want config file title", cfg.Title)
	}

	c.ConfigPath = path
	if cfg, err = c.loadConfig(nil); err != nil || cfg.Title != "From file" {
		t.Errorf("loadConfig via --config = %v, %v", cfg, err)
	}

	if _, err := c.loadConfig([]string{filepath.Join(t.TempDir(), "missing.toml")}); !apperr.Is(err, apperr.ErrCodeNotFound) {
		t.Errorf("missing config error = %v, want NOT_FOUND", err)
	}
}

func TestLoadConfigDefaultFile(t *testing.T) {
	path := testConfig(t, func(cfg *config.Config) { cfg.Title = "Working directory" })
	t.Chdir(filepath.Dir(path))

	cfg, err := New(io.Discard, LogInfo).loadConfig(nil)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Title != "Working directory" {
		t.Errorf("Title = %q, want ./%s to be picked up", cfg.Title, config.DefaultFile)
	}
}

func TestLoadConfigBuiltIn(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := New(io.Discard, LogInfo).loadConfig(nil)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if len(cfg.Charts) != 3 {
		t.Errorf("built-in config has %d charts, want 3", len(cfg.Charts))
	}
}

func TestRenderCommand(t *testing.T) {
	path := testConfig(t, nil)
	out := filepath.Join(t.TempDir(), "charts")

	if _, err := execute(t, "render", path, "-o", out, "-f", "svg,json", "--html"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	for _, name := range []string{"boxplot", "barplot", "lineplot"} {
		for _, ext := range []string{"svg", "json"} {
			if p := filepath.Join(out, name+"."+ext); !exists(t, p) {
				t.Errorf("missing %s", p)
			}
		}
	}

	page, err := os.ReadFile(filepath.Join(out, hostFile))
	if err != nil {
		t.Fatalf("read host document: %v", err)
	}
	for _, id := range []string{`id="boxplot"`, `id="barplot"`, `id="lineplot"`} {
		if !bytes.Contains(page, []byte(id)) {
			t.Errorf("host document lacks %s", id)
		}
	}

	var scene map[string]any
	data, _ := os.ReadFile(filepath.Join(out, "boxplot.json"))
	if err := json.Unmarshal(data, &scene); err != nil {
		t.Errorf("boxplot.json is not JSON: %v", err)
	}
}

func TestRenderCommandHTMLAddsSVG(t *testing.T) {
	path := testConfig(t, nil)
	out := t.TempDir()

	if _, err := execute(t, "render", path, "-o", out, "-f", "json", "--html", "--chart", "lineplot"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !exists(t, filepath.Join(out, "lineplot.svg")) {
		t.Error("--html should render SVG alongside the requested formats")
	}
}

func TestRenderCommandChartFilter(t *testing.T) {
	path := testConfig(t, nil)
	out := t.TempDir()

	if _, err := execute(t, "render", path, "-o", out, "--chart", "lineplot"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !exists(t, filepath.Join(out, "lineplot.svg")) {
		t.Error("lineplot.svg not written")
	}
	if exists(t, filepath.Join(out, "boxplot.svg")) {
		t.Error("boxplot.svg written despite --chart filter")
	}
}

func TestRenderCommandUnnamedChart(t *testing.T) {
	path := testConfig(t, func(cfg *config.Config) {
		cfg.Charts[0].Name = ""
	})
	out := t.TempDir()

	if _, err := execute(t, "render", path, "-o", out, "--chart", "boxplot"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !exists(t, filepath.Join(out, "boxplot.svg")) {
		t.Error("unnamed boxplot should be written as boxplot.svg")
	}
	if exists(t, filepath.Join(out, ".svg")) {
		t.Error("chart written without a name")
	}
}

func TestRenderCommandDefaultsFromConfig(t *testing.T) {
	var outDir string
	path := testConfig(t, func(cfg *config.Config) {
		cfg.Formats = []string{"json"}
		outDir = cfg.OutDir
	})

	if _, err := execute(t, "render", path, "--chart", "boxplot"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !exists(t, filepath.Join(outDir, "boxplot.json")) {
		t.Error("config out_dir and formats not used")
	}
}

func TestRenderCommandPartialFailure(t *testing.T) {
	path := testConfig(t, func(cfg *config.Config) {
		cfg.Charts[0].Source = "missing.csv"
	})
	out := t.TempDir()

	_, err := execute(t, "render", path, "-o", out)
	if err == nil || !strings.Contains(err.Error(), "1 of 3 charts failed") {
		t.Fatalf("render error = %v, want one failed chart", err)
	}
	if !exists(t, filepath.Join(out, "barplot.svg")) || !exists(t, filepath.Join(out, "lineplot.svg")) {
		t.Error("healthy charts should still be written")
	}
}

func TestRenderCommandErrors(t *testing.T) {
	path := testConfig(t, nil)

	tests := []struct {
		name string
		args []string
		code apperr.Code
	}{
		{"unknown chart", []string{"--chart", "piechart"}, apperr.ErrCodeChartNotFound},
		{"bad format", []string{"-f", "gif"}, apperr.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"render", path, "-o", t.TempDir()}, tt.args...)
			if _, err := execute(t, args...); !apperr.Is(err, tt.code) {
				t.Errorf("render error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRenderCommandCachesArtifacts(t *testing.T) {
	cacheDir := t.TempDir()
	path := testConfig(t, func(cfg *config.Config) {
		cfg.Cache.Backend = cache.BackendFile
		cfg.Cache.Dir = cacheDir
	})

	for i := 0; i < 2; i++ {
		if _, err := execute(t, "render", path, "-o", t.TempDir()); err != nil {
			t.Fatalf("render #%d error: %v", i+1, err)
		}
	}
	entries, err := os.ReadDir(cacheDir)
	if err != nil || len(entries) == 0 {
		t.Errorf("cache dir empty after render: %v", err)
	}
}

func TestStatsCommandJSON(t *testing.T) {
	path := testConfig(t, nil)

	out, err := execute(t, "stats", path, "--chart", "boxplot", "--json")
	if err != nil {
		t.Fatalf("stats error: %v", err)
	}
	var got []chartSummary
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("stats output is not JSON: %v\n%s", err, out)
	}
	if len(got) != 1 || got[0].Chart != "boxplot" || len(got[0].Groups) != 3 {
		t.Fatalf("stats = %+v", got)
	}
	ig := got[0].Groups[0]
	if ig.Key != "Instagram" || ig.Summary.Min != 120 || ig.Summary.Median != 150 || ig.Summary.Max != 200 {
		t.Errorf("Instagram summary = %+v", ig)
	}
}

func TestStatsCommandTable(t *testing.T) {
	path := testConfig(t, nil)

	out, err := execute(t, "stats", path, "--chart", "boxplot")
	if err != nil {
		t.Fatalf("stats error: %v", err)
	}
	for _, want := range []string{"boxplot", "Median", "Instagram", "Facebook", "Twitter"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats table lacks %q:\n%s", want, out)
		}
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts.toml")

	if _, err := execute(t, "config", "init", path); err != nil {
		t.Fatalf("config init error: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if len(cfg.Charts) != 3 {
		t.Errorf("written config has %d charts, want 3", len(cfg.Charts))
	}

	if _, err := execute(t, "config", "init", path); err == nil {
		t.Error("config init should refuse to overwrite")
	}
	if _, err := execute(t, "config", "init", path, "--force"); err != nil {
		t.Errorf("config init --force error: %v", err)
	}
}

func TestConfigShow(t *testing.T) {
	path := testConfig(t, func(cfg *config.Config) { cfg.Title = "Shown" })
	t.Setenv(config.EnvPrefix+"TITLE", "Overridden")

	out, err := execute(t, "config", "show", path)
	if err != nil {
		t.Fatalf("config show error: %v", err)
	}
	cfg, err := config.Parse([]byte(out))
	if err != nil {
		t.Fatalf("config show output does not parse: %v\n%s", err, out)
	}
	if cfg.Title != "Overridden" {
		t.Errorf("Title = %q, want environment override", cfg.Title)
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := logHooks{logger: newLogger(&buf, log.DebugLevel)}

	h.OnLoadComplete(context.Background(), "boxplot", "socialMedia.csv", 7, 0, nil)
	h.OnRenderComplete(context.Background(), "boxplot", []string{"svg"}, 0, nil)
	h.OnCacheMiss(context.Background(), "artifact:abc")

	out := buf.String()
	for _, want := range []string{"Loaded data", "chart=boxplot", "rows=7", "Rendered", "Cache miss"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output lacks %q:\n%s", want, out)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	for shell := range completionGenerators {
		t.Run(shell, func(t *testing.T) {
			out, err := execute(t, "completion", shell)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out, appName) {
				t.Errorf("%s script does not mention %s", shell, appName)
			}
		})
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}
}
