// Package server exposes the ordering pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                              liveness and version
//	POST /v1/order?mode=...&format=...         dependency or precedence order
//	POST /v1/cycles?format=...                 cycle report
//	POST /v1/graph?format=...&output=svg       diagram (dot, svg or png)
//
// The request body is the dependency document. format defaults to json and
// mode to dependency. A cyclic document yields 409 Conflict with every cycle
// listed in the error body.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/depsort/pkg/buildinfo"
	"github.com/matzehuels/depsort/pkg/errors"
	"github.com/matzehuels/depsort/pkg/httputil"
	pkgio "github.com/matzehuels/depsort/pkg/io"
	"github.com/matzehuels/depsort/pkg/observability"
	"github.com/matzehuels/depsort/pkg/pipeline"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// Server serves the HTTP API. Handlers share one Runner; every request
// normalizes its document into a private graph.
type Server struct {
	Runner  *pipeline.Runner
	Logger  *log.Logger
	Timeout time.Duration // per-request processing limit; zero means 30s

	// CacheTTL is the lifetime of cached results; zero uses pipeline.DefaultTTL.
	CacheTTL time.Duration
}

// New creates a server around runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{Runner: runner, Logger: logger}
}

// Handler returns the routed API handler.
func (s *Server) Handler() http.Handler {
	timeout := s.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(httputil.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	r.Use(middleware.Timeout(timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/order", s.handleOrder)
		r.Post("/cycles", s.handleCycles)
		r.Post("/graph", s.handleGraph)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteError(w, r, errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.Logger.Info("listening", "addr", addr, "version", buildinfo.Get().Version)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// observe reports requests to the HTTP hooks and logs failures.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
		if status >= 500 {
			s.Logger.Error("request failed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"request_id", httputil.GetRequestID(r.Context()))
		}
	})
}

// documentOptions builds pipeline options from the request body and query.
func (s *Server) documentOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	data, err := httputil.ReadBody(w, r, pipeline.MaxDocumentSize)
	if err != nil {
		return pipeline.Options{}, err
	}
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = string(pkgio.FormatJSON)
	}
	opts := pipeline.Options{
		Data:    data,
		Format:  pkgio.Format(format),
		Mode:    q.Get("mode"),
		NoCache: q.Get("no_cache") == "true",
		TTL:     s.CacheTTL,
		Logger:  s.Logger.With("request_id", httputil.GetRequestID(r.Context())),
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}
