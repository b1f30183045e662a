package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/chartsmith/pkg/cache"
	"github.com/matzehuels/chartsmith/pkg/chart"
	"github.com/matzehuels/chartsmith/pkg/dataset"
	"github.com/matzehuels/chartsmith/pkg/observability"
	"github.com/matzehuels/chartsmith/pkg/scene"
	"github.com/matzehuels/chartsmith/pkg/source"
	"github.com/matzehuels/chartsmith/pkg/stats"
)

// Runner executes the pipeline with caching.
//
// The Runner holds no per-run state. Multiple goroutines can safely use the
// same Runner with different specs and options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Sources *source.Registry
	Logger  *log.Logger

	// ArtifactTTL overrides cache.TTLArtifact when positive.
	ArtifactTTL time.Duration
}

// NewRunner creates a runner. A nil keyer means the DefaultKeyer, a nil
// cache disables caching, nil sources resolve files against the working
// directory.
func NewRunner(c cache.Cache, keyer cache.Keyer, sources *source.Registry, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if sources == nil {
		sources = source.NewRegistry(".")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   cache.Observed(c),
		Keyer:   keyer,
		Sources: sources,
		Logger:  logger,
	}
}

// Execute runs load → build → render for one chart.
func (r *Runner) Execute(ctx context.Context, spec chart.Spec, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	spec = spec.WithDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return r.run(ctx, spec, r.fetch(ctx, spec.Source, opts), opts)
}

// ExecuteAll runs every chart concurrently and returns one outcome per spec,
// in spec order. Charts reading the same source share a single load. A
// failing chart only fails its own outcome.
func (r *Runner) ExecuteAll(ctx context.Context, specs []chart.Spec, opts Options) []Outcome {
	outcomes := make([]Outcome, len(specs))
	if err := opts.ValidateAndSetDefaults(); err != nil {
		for i, s := range specs {
			outcomes[i] = Outcome{Chart: s, Err: fmt.Errorf("invalid options: %w", err)}
		}
		return outcomes
	}

	loads := make(map[string]*loadTask)
	var wg sync.WaitGroup
	for i, s := range specs {
		outcomes[i].Chart = s
		s = s.WithDefaults()
		if err := s.Validate(); err != nil {
			outcomes[i].Err = err
			continue
		}
		task, ok := loads[s.Source]
		if !ok {
			task = r.fetch(ctx, s.Source, opts)
			loads[s.Source] = task
		}

		wg.Add(1)
		go func(i int, s chart.Spec, task *loadTask) {
			defer wg.Done()
			res, err := r.run(ctx, s, task, opts)
			outcomes[i].Result, outcomes[i].Err = res, err
		}(i, s, task)
	}
	wg.Wait()
	return outcomes
}

// Summaries loads the chart's data and returns its per-category five-number
// summaries.
func (r *Runner) Summaries(ctx context.Context, spec chart.Spec, opts Options) ([]stats.Group, error) {
	opts.SetDefaults()
	spec = spec.WithDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	t, _, err := r.LoadWithCacheInfo(ctx, spec.Source, opts)
	if err != nil {
		return nil, err
	}
	return chart.Summaries(spec, t)
}

func (r *Runner) run(ctx context.Context, spec chart.Spec, task *loadTask, opts Options) (*Result, error) {
	hooks := observability.Pipeline()
	runID := uuid.NewString()
	logger := r.Logger.With("chart", spec.Name, "run", runID[:8])

	result := &Result{RunID: runID, Spec: spec}

	// Stage 1: Load
	hooks.OnLoadStart(ctx, spec.Name, spec.Source)
	t, err := task.Wait(ctx)
	result.Stats.LoadTime = time.Since(task.start)
	rows := 0
	if t != nil {
		rows = t.Len()
	}
	hooks.OnLoadComplete(ctx, spec.Name, spec.Source, rows, result.Stats.LoadTime, err)
	if err != nil {
		logger.Error("load failed", "source", spec.Source, "err", err)
		return nil, fmt.Errorf("load %s: %w", spec.Name, err)
	}
	result.Table = t
	result.Stats.Rows = rows
	result.DataHash = t.Fingerprint()
	result.CacheInfo.DataHit = task.hit.Load()

	logger.Info("loaded data",
		"source", spec.Source,
		"rows", rows,
		"cached", result.CacheInfo.DataHit,
		"duration", result.Stats.LoadTime)

	// Stage 2: Build
	buildStart := time.Now()
	hooks.OnBuildStart(ctx, spec.Name, string(spec.Kind))
	sc, err := chart.Build(spec, t)
	result.Stats.BuildTime = time.Since(buildStart)
	if sc != nil {
		result.Stats.Nodes = countNodes(sc)
	}
	hooks.OnBuildComplete(ctx, spec.Name, string(spec.Kind), result.Stats.Nodes, result.Stats.BuildTime, err)
	if err != nil {
		logger.Error("build failed", "err", err)
		return nil, fmt.Errorf("build %s: %w", spec.Name, err)
	}
	result.Scene = sc

	logger.Debug("built scene",
		"kind", spec.Kind,
		"nodes", result.Stats.Nodes,
		"duration", result.Stats.BuildTime)

	// Stage 3: Render
	renderStart := time.Now()
	hooks.OnRenderStart(ctx, spec.Name, opts.Formats)
	specHash, err := cache.HashValue(spec)
	if err != nil {
		return nil, err
	}
	result.SpecHash = specHash
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, sc, specHash, result.DataHash, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, spec.Name, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		logger.Error("render failed", "formats", opts.Formats, "err", err)
		return nil, fmt.Errorf("render %s: %w", spec.Name, err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo loads uri, consulting the dataset cache for cacheable
// sources, and reports whether the table came from cache.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, uri string, opts Options) (*dataset.Table, bool, error) {
	cacheable := r.Sources.Cacheable(uri)
	key := r.Keyer.DatasetKey(uri)

	if cacheable && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if t, err := dataset.ReadCSV(bytes.NewReader(data)); err == nil {
				return t, true, nil
			}
		}
	}

	t, err := r.Sources.Load(ctx, uri)
	if err != nil {
		return nil, false, err
	}

	if cacheable {
		var buf bytes.Buffer
		if err := dataset.WriteCSV(&buf, t); err == nil {
			if err := r.Cache.Set(ctx, key, buf.Bytes(), cache.TTLDataset); err != nil {
				r.Logger.Warn("cache dataset", "source", uri, "err", err)
			}
		}
	}
	return t, false, nil
}

// RenderWithCacheInfo renders sc in every requested format, serving artifacts
// from cache when all of them are present, and reports whether they were.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, sc *scene.Scene, specHash, dataHash string, opts Options) (map[string][]byte, bool, error) {
	opts.SetDefaults()
	keys := make(map[string]string, len(opts.Formats))
	for _, format := range opts.Formats {
		keys[format] = r.Keyer.ArtifactKey(specHash, r.artifactKeyOpts(format, dataHash, opts))
	}

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for format, key := range keys {
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(keys) {
			return artifacts, true, nil
		}
	}

	rendered, err := Render(ctx, sc, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		if err := r.Cache.Set(ctx, keys[format], data, r.artifactTTL()); err != nil {
			r.Logger.Warn("cache artifact", "format", format, "err", err)
		}
	}
	return rendered, false, nil
}

func (r *Runner) artifactKeyOpts(format, dataHash string, opts Options) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{DataHash: dataHash, Format: format, Font: opts.FontFamily}
	if format == FormatPNG {
		k.Scale = opts.Scale
	}
	return k
}

func (r *Runner) artifactTTL() time.Duration {
	if r.ArtifactTTL > 0 {
		return r.ArtifactTTL
	}
	return cache.TTLArtifact
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// loadTask is a dataset load in flight. It records whether the table was
// served from cache.
type loadTask struct {
	*source.Pending
	start time.Time
	hit   atomic.Bool
}

func (r *Runner) fetch(ctx context.Context, uri string, opts Options) *loadTask {
	task := &loadTask{start: time.Now()}
	task.Pending = source.Fetch(ctx, cachedLoader{r: r, opts: opts, task: task}, uri)
	return task
}

// cachedLoader adapts Runner.LoadWithCacheInfo to source.Loader.
type cachedLoader struct {
	r    *Runner
	opts Options
	task *loadTask
}

func (l cachedLoader) Cacheable() bool { return false }

func (l cachedLoader) Load(ctx context.Context, uri string) (*dataset.Table, error) {
	t, hit, err := l.r.LoadWithCacheInfo(ctx, uri, l.opts)
	l.task.hit.Store(hit)
	return t, err
}

func countNodes(sc *scene.Scene) int {
	n := 0
	scene.Walk(sc.Nodes, func(scene.Node) bool {
		n++
		return true
	})
	return n
}
