// Package pipeline runs the load → build → render pipeline for charts.
//
// The CLI, the HTTP server and the TUI all draw charts through this package,
// so caching, logging and observability behave the same everywhere.
//
// # Architecture
//
// Every chart passes through three stages:
//
//  1. Load: fetch the chart's dataset from a file, URL or database
//  2. Build: map the data through the chart's scales into a scene graph
//  3. Render: serialize the scene (SVG, JSON, PNG, PDF)
//
// Remote datasets and rendered artifacts are cached; local files are always
// re-read. Each chart is its own failure domain: [Runner.ExecuteAll] returns
// one [Outcome] per chart and a broken chart never stops the others.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, source.NewRegistry("data"), logger)
//	res, err := runner.Execute(ctx, spec, pipeline.Options{Formats: []string{"svg"}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := res.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartsmith/pkg/chart"
	"github.com/matzehuels/chartsmith/pkg/dataset"
	"github.com/matzehuels/chartsmith/pkg/scene"
)

// DefaultScale is the PNG scale factor.
const DefaultScale = 2.0

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ContentTypes maps each format to its MIME type.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
}

// Options controls one pipeline run.
type Options struct {
	Formats    []string `json:"formats,omitempty"`
	Refresh    bool     `json:"refresh,omitempty"` // bypass cached datasets and artifacts
	Scale      float64  `json:"scale,omitempty"`   // PNG scale factor
	FontFamily string   `json:"font_family,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run for one chart.
type Result struct {
	// RunID identifies this run in logs.
	RunID string

	// Spec is the chart spec with defaults applied.
	Spec chart.Spec

	// Table is the loaded dataset.
	Table *dataset.Table

	// Scene is the built scene graph.
	Scene *scene.Scene

	// SpecHash and DataHash key the artifact cache.
	SpecHash string
	DataHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows       int
	Nodes      int
	LoadTime   time.Duration
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	DataHit   bool // dataset came from cache
	RenderHit bool // every artifact came from cache
}

// Outcome is one chart's result from [Runner.ExecuteAll].
// Exactly one of Result and Err is set.
type Outcome struct {
	Chart  chart.Spec
	Result *Result
	Err    error
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks formats and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return fmt.Errorf("invalid scale: %g", o.Scale)
	}
	o.validated = true
	return nil
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
