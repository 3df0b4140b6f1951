// internal/app/server.go
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"activityfeed/internal/config"
	"activityfeed/internal/extractors"
	"activityfeed/internal/render"
)

const serviceName = "activityfeed"

// Deps are the collaborators the server is built from.
type Deps struct {
	Cache EntryCache
	// CacheName is reported by /health.
	CacheName string
	Browser   render.Renderer
	Static    render.Renderer
	Registry  *extractors.Registry
	Log       *zap.Logger
	Now       func() time.Time
}

// Server is the application server.
type Server struct {
	cfg      *config.Config
	deps     Deps
	activity *ActivityHandler
	mux      *http.ServeMux
	log      *zap.Logger
}

// NewServer creates a new Server with provided config.
func NewServer(cfg *config.Config, deps Deps) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if deps.Cache == nil {
		return nil, errors.New("app: cache is required")
	}
	if deps.Browser == nil {
		return nil, errors.New("app: renderer is required")
	}
	if deps.Registry == nil {
		deps.Registry = extractors.NewDefaultRegistry(cfg.ArticleDomains)
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}

	s := &Server{
		cfg:  cfg,
		deps: deps,
		activity: &ActivityHandler{
			Cache:      deps.Cache,
			Browser:    deps.Browser,
			Static:     deps.Static,
			Registry:   deps.Registry,
			DefaultURL: cfg.ProfileURL,
			Now:        deps.Now,
			Log:        deps.Log,
		},
		mux: http.NewServeMux(),
		log: deps.Log,
	}

	s.registerRoutes()
	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.withRequestLog(s.withCommonHeaders(s.mux))
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	h := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Starting HTTP server", zap.String("addr", addr), zap.String("route", s.activityPath()))
		errCh <- h.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := h.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) activityPath() string {
	return "/api/" + strings.Trim(s.cfg.Collection, "/")
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/", s.handleHome)
	s.mux.Handle(s.activityPath(), s.activity)
	s.mux.HandleFunc("/health", s.handleHealth)
}

// withCommonHeaders adds CORS and common headers and answers preflight requests.
func (s *Server) withCommonHeaders(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Server", serviceName)
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withRequestLog tags each request with an X-Request-ID and logs it once done.
func (s *Server) withRequestLog(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		h.ServeHTTP(rec, r)

		s.log.Info("request",
			zap.String("id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// handleHome serves a short HTML page describing the API.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	path := s.activityPath()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>%[1]s</title></head>
<body>
	<h1>Recent activity</h1>
	<p>GET endpoint: <code>%[2]s?url={PROFILE_URL}</code></p>
	<p>Example: <a href="%[2]s">%[2]s</a></p>
</body>
</html>`, serviceName, path)
}

// handleHealth returns JSON health information.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	if s.deps.Now != nil {
		now = s.deps.Now()
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"service":   serviceName,
		"cache":     s.deps.CacheName,
		"timestamp": now.Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
