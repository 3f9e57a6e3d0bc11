// Package server exposes flowdoc's document operations over HTTP.
//
// Routes are grouped under /v1:
//
//	POST /v1/diagram/{parse,serialize,validate,normalize,detect,compose,render}
//	GET /v1/diagram/schema
//	GET|POST /v1/documents, GET|PUT|DELETE /v1/documents/{id}
//	GET|DELETE /v1/documents/{id}/history
//	POST /v1/share, GET /v1/share/{token}
//
// GET /health and, when a gatherer is configured, GET /metrics live at the
// root. Every error body is JSON of the form {"error": "...", "code": "..."}.
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/flowdoc/pkg/config"
	"github.com/matzehuels/flowdoc/pkg/observability/prom"
	"github.com/matzehuels/flowdoc/pkg/pipeline"
	"github.com/matzehuels/flowdoc/pkg/store"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "flowdoc"

// Options configures a [Server]. Only Runner is required.
type Options struct {
	Runner *pipeline.Runner
	// Store backs the /v1/documents routes. Nil disables them.
	Store store.Store
	// Gatherer backs GET /metrics. Nil disables the route.
	Gatherer prometheus.Gatherer
	Logger   *log.Logger
	// MaxBodyBytes caps request bodies; zero uses the configured default.
	MaxBodyBytes int64
}

// Server is the HTTP front end. It is safe for concurrent use.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	gatherer prometheus.Gatherer
	logger   *log.Logger
	maxBody  int64
	router   chi.Router
}

// New builds a server and its routes.
func New(opts Options) *Server {
	s := &Server{
		runner:   opts.Runner,
		store:    opts.Store,
		gatherer: opts.Gatherer,
		logger:   opts.Logger,
		maxBody:  opts.MaxBodyBytes,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, s.logger)
	}
	if s.maxBody <= 0 {
		s.maxBody = config.Default().Server.MaxBodyBytes
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed"})
	})

	r.Get("/health", s.health)
	if s.gatherer != nil {
		r.Handle("/metrics", prom.Handler(s.gatherer))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Route("/diagram", func(r chi.Router) {
			r.Post("/parse", s.parse)
			r.Post("/serialize", s.serialize)
			r.Post("/validate", s.validate)
			r.Post("/normalize", s.normalize)
			r.Post("/detect", s.detect)
			r.Post("/compose", s.compose)
			r.Post("/render", s.render)
			r.Get("/schema", s.schema)
		})

		if s.store != nil {
			r.Route("/documents", func(r chi.Router) {
				r.Get("/", s.listDocuments)
				r.Post("/", s.createDocument)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.getDocument)
					r.Put("/", s.putDocument)
					r.Delete("/", s.deleteDocument)
					r.Get("/history", s.history)
					r.Delete("/history", s.clearHistory)
				})
			})
		}

		r.Post("/share", s.shareEncode)
		r.Get("/share/{token}", s.shareDecode)
	})
	return r
}

// ListenAndServe serves on cfg.Addr until ctx is cancelled, then shuts down
// gracefully within cfg.ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s,
		ReadTimeout:       cfg.ReadTimeout.Duration,
		ReadHeaderTimeout: cfg.ReadTimeout.Duration,
		WriteTimeout:      cfg.WriteTimeout.Duration,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	timeout := cfg.ShutdownTimeout.Duration
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	s.logger.Info("shutting down", "timeout", timeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
