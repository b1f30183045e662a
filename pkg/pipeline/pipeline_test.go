package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/chartsmith/pkg/cache"
	"github.com/matzehuels/chartsmith/pkg/chart"
	apperr "github.com/matzehuels/chartsmith/pkg/errors"
	"github.com/matzehuels/chartsmith/pkg/observability"
	"github.com/matzehuels/chartsmith/pkg/render/sink"
	"github.com/matzehuels/chartsmith/pkg/source"
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

func dataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range testData {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(&bytes.Buffer{}, log.Options{})
}

func spec(t *testing.T, k chart.Kind) chart.Spec {
	t.Helper()
	s, ok := chart.DefaultFor(k)
	if !ok {
		t.Fatalf("no default for %s", k)
	}
	return s
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"gif", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "gif"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Scale != DefaultScale || opts.Logger == nil {
		t.Errorf("Scale = %g, Logger = %v", opts.Scale, opts.Logger)
	}

	bad := Options{Formats: []string{"gif"}}
	if err := bad.ValidateAndSetDefaults(); err == nil {
		t.Error("invalid format should fail")
	}
	neg := Options{Scale: -1}
	if err := neg.ValidateAndSetDefaults(); err == nil {
		t.Error("negative scale should fail")
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, source.NewRegistry(dataDir(t)), quietLogger())

	for _, k := range chart.Kinds {
		t.Run(string(k), func(t *testing.T) {
			res, err := r.Execute(context.Background(), spec(t, k), Options{Formats: []string{"svg", "json"}})
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}
			if _, err := uuid.Parse(res.RunID); err != nil {
				t.Errorf("RunID %q is not a uuid: %v", res.RunID, err)
			}
			if res.Stats.Rows == 0 || res.Stats.Nodes == 0 {
				t.Errorf("Stats = %+v", res.Stats)
			}
			svg := string(res.Artifacts["svg"])
			if !strings.Contains(svg, `data-chart="`+string(k)+`"`) {
				t.Errorf("svg lacks mount id %q", k)
			}
			if !json.Valid(res.Artifacts["json"]) {
				t.Error("json artifact is not valid JSON")
			}
			if res.DataHash == "" || res.SpecHash == "" {
				t.Error("hashes not set")
			}
		})
	}
}

func TestExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, source.NewRegistry(dataDir(t)), quietLogger())
	ctx := context.Background()

	missing := spec(t, chart.KindBoxplot)
	missing.Source = "absent.csv"
	if _, err := r.Execute(ctx, missing, Options{}); !apperr.Is(err, apperr.ErrCodeSourceNotFound) {
		t.Errorf("missing source = %v, want SOURCE_NOT_FOUND", err)
	}

	badColumn := spec(t, chart.KindBoxplot)
	badColumn.Value = "Shares"
	if _, err := r.Execute(ctx, badColumn, Options{}); !apperr.Is(err, apperr.ErrCodeMissingColumn) {
		t.Errorf("missing column = %v, want MISSING_COLUMN", err)
	}

	badKind := spec(t, chart.KindBoxplot)
	badKind.Kind = "pie"
	if _, err := r.Execute(ctx, badKind, Options{}); !apperr.Is(err, apperr.ErrCodeInvalidChart) {
		t.Errorf("bad kind = %v, want INVALID_CHART", err)
	}

	if _, err := r.Execute(ctx, spec(t, chart.KindBoxplot), Options{Formats: []string{"gif"}}); err == nil {
		t.Error("invalid format should fail")
	}
}

func TestExecuteArtifactCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, source.NewRegistry(dataDir(t)), quietLogger())
	ctx := context.Background()
	s := spec(t, chart.KindBarplot)

	first, err := r.Execute(ctx, s, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run should miss the artifact cache")
	}

	second, err := r.Execute(ctx, s, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the artifact cache")
	}
	if !bytes.Equal(first.Artifacts["svg"], second.Artifacts["svg"]) {
		t.Error("cached artifact differs from rendered one")
	}
	if second.CacheInfo.DataHit {
		t.Error("local files must never be served from cache")
	}

	refreshed, _ := r.Execute(ctx, s, Options{Refresh: true})
	if refreshed.CacheInfo.RenderHit {
		t.Error("refresh should bypass the artifact cache")
	}

	s.Width = 600
	resized, _ := r.Execute(ctx, s, Options{})
	if resized.CacheInfo.RenderHit {
		t.Error("changed spec should miss the artifact cache")
	}
}

func csvServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := testData[strings.TrimPrefix(r.URL.Path, "/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		hits.Add(1)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExecuteDatasetCache(t *testing.T) {
	var hits atomic.Int32
	srv := csvServer(t, &hits)

	c, _ := cache.NewFileCache(t.TempDir())
	r := NewRunner(c, nil, source.NewRegistry(t.TempDir(), source.WithClient(srv.Client())), quietLogger())
	s := spec(t, chart.KindLineplot)
	s.Source = srv.URL + "/socialMediaTime.csv"
	ctx := context.Background()

	if _, err := r.Execute(ctx, s, Options{}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, s, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheInfo.DataHit {
		t.Error("remote dataset should be served from cache on the second run")
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}

	if _, err := r.Execute(ctx, s, Options{Refresh: true}); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 2 {
		t.Errorf("refresh should refetch, server hit %d times", hits.Load())
	}
}

func TestCachedLoadDrawsSameChart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "Date,AvgLikes\nd1,10\nd2\nd3,30\n")
	}))
	t.Cleanup(srv.Close)

	mem, err := cache.NewMemoryCache(0)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(mem, nil, source.NewRegistry(t.TempDir(), source.WithClient(srv.Client())), quietLogger())
	t.Cleanup(func() { r.Close() })
	s := spec(t, chart.KindLineplot)
	s.Source = srv.URL + "/short.csv"
	ctx := context.Background()

	var svgs [2]string
	var prints [2]string
	for i := range svgs {
		tbl, hit, err := r.LoadWithCacheInfo(ctx, s.Source, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if hit != (i == 1) {
			t.Fatalf("load %d: cache hit = %v", i, hit)
		}
		sc, err := chart.Build(s, tbl)
		if err != nil {
			t.Fatal(err)
		}
		svgs[i] = string(sink.RenderSVG(sc))
		prints[i] = tbl.Fingerprint()
	}

	if svgs[0] != svgs[1] {
		t.Error("cold and cached loads drew different charts")
	}
	if prints[0] != prints[1] {
		t.Error("cold and cached tables have different fingerprints")
	}
	if strings.Contains(svgs[0], "NaN") {
		t.Error("a short row should draw at zero, not NaN")
	}
}

func TestExecuteAll(t *testing.T) {
	r := NewRunner(nil, nil, source.NewRegistry(dataDir(t)), quietLogger())

	broken := spec(t, chart.KindBarplot)
	broken.Source = "missing.csv"
	invalid := spec(t, chart.KindLineplot)
	invalid.Name = "no spaces allowed"
	specs := []chart.Spec{spec(t, chart.KindBoxplot), broken, invalid, spec(t, chart.KindLineplot)}

	outcomes := r.ExecuteAll(context.Background(), specs, Options{})
	if len(outcomes) != len(specs) {
		t.Fatalf("outcomes = %d, want %d", len(outcomes), len(specs))
	}
	for i, o := range outcomes {
		if o.Chart.Name != specs[i].Name {
			t.Errorf("outcome %d is for %q, want %q", i, o.Chart.Name, specs[i].Name)
		}
	}
	if outcomes[0].Err != nil || outcomes[3].Err != nil {
		t.Errorf("healthy charts failed: %v, %v", outcomes[0].Err, outcomes[3].Err)
	}
	if !apperr.Is(outcomes[1].Err, apperr.ErrCodeSourceNotFound) || outcomes[1].Result != nil {
		t.Errorf("broken chart outcome = %+v", outcomes[1])
	}
	if !apperr.Is(outcomes[2].Err, apperr.ErrCodeInvalidChart) {
		t.Errorf("invalid chart outcome = %v", outcomes[2].Err)
	}
}

func TestExecuteAllSharesLoads(t *testing.T) {
	var hits atomic.Int32
	srv := csvServer(t, &hits)
	r := NewRunner(nil, nil, source.NewRegistry(t.TempDir(), source.WithClient(srv.Client())), quietLogger())

	a := spec(t, chart.KindBoxplot)
	a.Source = srv.URL + "/socialMedia.csv"
	b := a
	b.Name = "boxplot-wide"
	b.Width = 800

	for _, o := range r.ExecuteAll(context.Background(), []chart.Spec{a, b}, Options{}) {
		if o.Err != nil {
			t.Fatalf("%s: %v", o.Chart.Name, o.Err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("shared source fetched %d times, want 1", hits.Load())
	}
}

func TestSummaries(t *testing.T) {
	r := NewRunner(nil, nil, source.NewRegistry(dataDir(t)), quietLogger())
	groups, err := r.Summaries(context.Background(), spec(t, chart.KindBoxplot), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 3 || groups[0].Key != "Instagram" {
		t.Fatalf("groups = %+v", groups)
	}
	if s := groups[0].Summary; s.Min != 120 || s.Median != 150 || s.Max != 200 {
		t.Errorf("Instagram summary = %+v", s)
	}
}

func TestHostDocument(t *testing.T) {
	r := NewRunner(nil, nil, source.NewRegistry(dataDir(t)), quietLogger())
	broken := spec(t, chart.KindBarplot)
	broken.Source = "missing.csv"
	outcomes := r.ExecuteAll(context.Background(), []chart.Spec{spec(t, chart.KindBoxplot), broken}, Options{})

	page, err := HostDocument("Social media", outcomes)
	if err != nil {
		t.Fatal(err)
	}
	html := string(page)
	for _, want := range []string{`<div id="boxplot"><svg`, `<div id="barplot"><p class="chart-error">`, "missing.csv"} {
		if !strings.Contains(html, want) {
			t.Errorf("host document lacks %q", want)
		}
	}
}

type countingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (c *countingHooks) record(e string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *countingHooks) OnLoadStart(context.Context, string, string) { c.record("load") }
func (c *countingHooks) OnBuildComplete(_ context.Context, _, _ string, nodes int, _ time.Duration, err error) {
	if err == nil && nodes > 0 {
		c.record("build")
	}
}
func (c *countingHooks) OnRenderComplete(_ context.Context, _ string, formats []string, _ time.Duration, err error) {
	if err == nil {
		c.record("render:" + strings.Join(formats, ","))
	}
}

func TestPipelineHooks(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	r := NewRunner(nil, nil, source.NewRegistry(dataDir(t)), quietLogger())
	if _, err := r.Execute(context.Background(), spec(t, chart.KindBoxplot), Options{}); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(hooks.events, " "); got != "load build render:svg" {
		t.Errorf("events = %q", got)
	}
}
