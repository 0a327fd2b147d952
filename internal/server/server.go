// Package server exposes one layout engine over HTTP.
//
// Every request that touches the engine holds a single mutex, so the engine
// sees one caller at a time. Learning data is written back to the profile
// store after each mutation.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/snapline/pkg/assist"
	"github.com/matzehuels/snapline/pkg/errors"
	"github.com/matzehuels/snapline/pkg/profile"
)

// maxBodyBytes bounds request bodies; learning exports are the largest.
const maxBodyBytes = 32 << 20

// Server is the snapline HTTP API server.
type Server struct {
	mu      sync.Mutex
	engine  *assist.Engine
	store   profile.Store
	profile string

	logger  *log.Logger
	router  chi.Router
	version string
	started time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and persistence logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithVersion sets the version reported by the health endpoint.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// New creates a Server for engine. Learning data is persisted to store under
// profileName; a nil store keeps it in memory only.
func New(engine *assist.Engine, store profile.Store, profileName string, opts ...Option) *Server {
	if store == nil {
		store = profile.NewNullStore()
	}
	if profileName == "" {
		profileName = profile.DefaultName
	}
	s := &Server{
		engine:  engine,
		store:   store,
		profile: profileName,
		logger:  log.Default(),
		version: "dev",
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/evaluate", s.handleEvaluate)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/distribute", s.handleDistribute)
		r.Post("/arrange", s.handleArrange)

		r.Post("/activations", s.handleRecordActivation)
		r.Get("/recommendations", s.handleRecommendations)
		r.Get("/stats", s.handleStats)

		r.Get("/learning", s.handleExportLearning)
		r.Put("/learning", s.handleImportLearning)
		r.Delete("/learning", s.handleResetLearning)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handlePutSettings)
	})

	s.router = r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "took", time.Since(start))
	})
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr, "profile", s.profile)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// persist writes the learning data back to the store and reports whether
// that worked. A failed save does not fail the request; the engine state is
// already updated. The caller holds mu.
func (s *Server) persist(ctx context.Context) bool {
	if err := profile.SaveFrom(ctx, s.store, s.profile, s.engine); err != nil {
		s.logger.Warn("saving learning profile failed", "profile", s.profile, "err", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch {
	case code.CallerFault():
		status = http.StatusBadRequest
	case code == errors.ErrCodeStorage:
		status = http.StatusServiceUnavailable
	case code == "":
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  string(code),
	})
}
