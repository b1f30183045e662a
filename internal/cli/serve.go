package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartsmith/pkg/buildinfo"
	"github.com/matzehuels/chartsmith/pkg/cache"
	"github.com/matzehuels/chartsmith/pkg/config"
	apperr "github.com/matzehuels/chartsmith/pkg/errors"
	"github.com/matzehuels/chartsmith/pkg/pipeline"
)

const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve [config]",
		Short: "Serve the configured charts over HTTP",
		Long: `Serve charts on demand:

  GET /                          HTML page mounting every chart
  GET /charts                    chart list as JSON
  GET /charts/{name}.{format}    one chart as svg, png, pdf or json
  GET /charts/{name}/stats       five-number summaries as JSON
  GET /healthz                   build information

Append ?refresh=1 to bypass the cache. Unless the config selects redis or
mongo, rendered charts are kept in an in-memory cache.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(args)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if cfg.Cache.Backend == "" || cfg.Cache.Backend == cache.BackendFile {
				cfg.Cache.Backend = cache.BackendMemory
			}
			return c.runServe(cmd.Context(), cfg, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg *config.Config, noCache bool) error {
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newServer(cfg, runner, c.Logger).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	printSuccess("Serving %d charts on %s", len(cfg.Charts), StyleLink.Render("http://"+displayAddr(cfg.Server.Addr)))
	printKeyValue("config", cfg.Title)
	if noCache {
		printWarning("Caching disabled")
	} else {
		printKeyValue("cache", cfg.Cache.Backend)
	}

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

// server answers chart requests from a config and a runner.
type server struct {
	cfg    *config.Config
	runner *pipeline.Runner
	logger *log.Logger
}

func newServer(cfg *config.Config, runner *pipeline.Runner, logger *log.Logger) *server {
	return &server{cfg: cfg, runner: runner, logger: logger}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Route("/charts", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Get("/{name}.{format}", s.handleChart)
		r.Get("/{name}/stats", s.handleStats)
	})
	return r
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"took", time.Since(start).Round(time.Millisecond),
			"id", middleware.GetReqID(r.Context()))
	})
}

func (s *server) options(r *http.Request, formats ...string) pipeline.Options {
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	return pipeline.Options{Formats: formats, Refresh: refresh, Logger: s.logger}
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	outcomes := s.runner.ExecuteAll(r.Context(), s.cfg.Charts, s.options(r, pipeline.FormatSVG))
	page, err := pipeline.HostDocument(s.cfg.Title, outcomes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// chartInfo is one entry of the chart list.
type chartInfo struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Title  string `json:"title,omitempty"`
	Source string `json:"source"`
}

func (s *server) handleList(w http.ResponseWriter, r *http.Request) {
	list := make([]chartInfo, 0, len(s.cfg.Charts))
	for _, spec := range s.cfg.Charts {
		d := spec.WithDefaults()
		list = append(list, chartInfo{Name: d.Name, Kind: string(d.Kind), Title: d.Title, Source: d.Source})
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *server) handleChart(w http.ResponseWriter, r *http.Request) {
	name, format := chi.URLParam(r, "name"), chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "chart %s", name))
		return
	}
	spec, ok := s.cfg.Chart(name)
	if !ok {
		s.writeError(w, apperr.New(apperr.ErrCodeChartNotFound, "no chart named %q", name))
		return
	}

	res, err := s.runner.Execute(r.Context(), spec, s.options(r, format))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("X-Run-ID", res.RunID)
	if res.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.Write(res.Artifacts[format])
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	spec, ok := s.cfg.Chart(name)
	if !ok {
		s.writeError(w, apperr.New(apperr.ErrCodeChartNotFound, "no chart named %q", name))
		return
	}
	groups, err := s.runner.Summaries(r.Context(), spec, s.options(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	d := spec.WithDefaults()
	writeJSON(w, http.StatusOK, chartSummary{Chart: d.Name, Category: d.Category, Value: d.Value, Groups: groups})
}

// errorBody is the JSON error response.
type errorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", "err", err)
	}
	if secs := apperr.RetryAfter(err); secs > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}
	code := string(apperr.GetCode(err))
	if code == "" {
		code = string(apperr.ErrCodeInternal)
	}
	writeJSON(w, status, errorBody{Code: code, Error: apperr.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
