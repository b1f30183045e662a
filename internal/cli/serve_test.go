package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartsmith/pkg/buildinfo"
	"github.com/matzehuels/chartsmith/pkg/cache"
	"github.com/matzehuels/chartsmith/pkg/config"
	"github.com/matzehuels/chartsmith/pkg/pipeline"
)

func testServer(t *testing.T, edit func(*config.Config)) *httptest.Server {
	t.Helper()
	cfg, err := config.Load(testConfig(t, edit))
	if err != nil {
		t.Fatal(err)
	}
	mem, err := cache.NewMemoryCache(0)
	if err != nil {
		t.Fatal(err)
	}
	sources, err := newSources(cfg)
	if err != nil {
		t.Fatal(err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(mem, nil, sources, logger)
	t.Cleanup(func() { runner.Close() })

	srv := httptest.NewServer(newServer(cfg, runner, logger).routes())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(body)
}

func TestServeChart(t *testing.T) {
	srv := testServer(t, nil)

	resp, body := get(t, srv.URL+"/charts/boxplot.svg")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(body, "<svg") || !strings.Contains(body, `data-chart="boxplot"`) {
		t.Errorf("body is not the boxplot SVG: %.80s", body)
	}
	if resp.Header.Get("X-Cache") != "miss" || resp.Header.Get("X-Run-ID") == "" {
		t.Errorf("first request headers = %v", resp.Header)
	}

	resp, _ = get(t, srv.URL+"/charts/boxplot.svg")
	if resp.Header.Get("X-Cache") != "hit" {
		t.Errorf("second request X-Cache = %q, want hit", resp.Header.Get("X-Cache"))
	}

	resp, _ = get(t, srv.URL+"/charts/boxplot.svg?refresh=1")
	if resp.Header.Get("X-Cache") != "miss" {
		t.Errorf("refresh X-Cache = %q, want miss", resp.Header.Get("X-Cache"))
	}

	resp, body = get(t, srv.URL+"/charts/lineplot.json")
	if resp.StatusCode != http.StatusOK || !json.Valid([]byte(body)) {
		t.Errorf("lineplot.json = %d, valid json %v", resp.StatusCode, json.Valid([]byte(body)))
	}
}

func TestServeErrors(t *testing.T) {
	srv := testServer(t, func(cfg *config.Config) {
		cfg.Charts[1].Source = "missing.csv"
	})

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/charts/boxplot.gif", http.StatusBadRequest, "INVALID_FORMAT"},
		{"/charts/piechart.svg", http.StatusNotFound, "CHART_NOT_FOUND"},
		{"/charts/barplot.svg", http.StatusNotFound, "SOURCE_NOT_FOUND"},
		{"/charts/piechart/stats", http.StatusNotFound, "CHART_NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, srv.URL+tt.path)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var e errorBody
			if err := json.Unmarshal([]byte(body), &e); err != nil {
				t.Fatalf("error body is not JSON: %s", body)
			}
			if e.Code != tt.code || e.Error == "" {
				t.Errorf("error body = %+v, want code %s", e, tt.code)
			}
		})
	}
}

func TestServeIndex(t *testing.T) {
	srv := testServer(t, func(cfg *config.Config) {
		cfg.Charts[2].Source = "missing.csv"
	})

	resp, body := get(t, srv.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Errorf("Content-Type = %q", resp.Header.Get("Content-Type"))
	}
	if strings.Count(body, "<svg") != 2 {
		t.Errorf("index mounts %d SVGs, want 2", strings.Count(body, "<svg"))
	}
	if !strings.Contains(body, "chart-error") {
		t.Error("failed chart should show its error")
	}
}

func TestServeListAndStats(t *testing.T) {
	srv := testServer(t, nil)

	_, body := get(t, srv.URL+"/charts")
	var list []chartInfo
	if err := json.Unmarshal([]byte(body), &list); err != nil {
		t.Fatalf("list is not JSON: %s", body)
	}
	if len(list) != 3 || list[0].Name != "boxplot" || list[1].Kind != "barplot" {
		t.Errorf("list = %+v", list)
	}

	_, body = get(t, srv.URL+"/charts/boxplot/stats")
	var sum chartSummary
	if err := json.Unmarshal([]byte(body), &sum); err != nil {
		t.Fatalf("stats is not JSON: %s", body)
	}
	if sum.Value != "Likes" || len(sum.Groups) != 3 || sum.Groups[1].Key != "Facebook" {
		t.Errorf("stats = %+v", sum)
	}
}

func TestServeHealth(t *testing.T) {
	srv := testServer(t, nil)

	resp, body := get(t, srv.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var info buildinfo.Info
	if err := json.Unmarshal([]byte(body), &info); err != nil {
		t.Fatalf("healthz is not JSON: %s", body)
	}
	if info.Version != buildinfo.Version {
		t.Errorf("version = %q, want %q", info.Version, buildinfo.Version)
	}
}

func TestDisplayAddr(t *testing.T) {
	tests := map[string]string{
		":8080":          "localhost:8080",
		"127.0.0.1:9000": "127.0.0.1:9000",
	}
	for in, want := range tests {
		if got := displayAddr(in); got != want {
			t.Errorf("displayAddr(%q) = %q, want %q", in, got, want)
		}
	}
}
