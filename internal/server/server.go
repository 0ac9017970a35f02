// Package server exposes encscan over HTTP for dashboard integration:
// a health probe and an on-demand scan endpoint. The one-shot CLI scan
// remains the primary surface; this is the long-running alternative.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dbseal/encscan/internal/audit"
	"github.com/dbseal/encscan/internal/logger"
	"github.com/dbseal/encscan/internal/report"
)

// Pinger is the narrow health-check view of the catalog driver.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wires the scanner and the catalog connection into an HTTP handler.
type Server struct {
	scanner *audit.Scanner
	pinger  Pinger
	log     *logger.Logger
	html    report.HTML
}

func New(scanner *audit.Scanner, pinger Pinger, log *logger.Logger) *Server {
	return &Server{scanner: scanner, pinger: pinger, log: log}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLog)

	r.Get("/healthz", s.handleHealth)
	r.Post("/scan", s.handleScan)

	return r
}

// ListenAndServe blocks until ctx is cancelled, then shuts down cleanly.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.log.Infof("listening on %s", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.pinger.Ping(r.Context()); err != nil {
		http.Error(w, "database unreachable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleScan runs a full scan and returns the report, as JSON by default
// or as the HTML document with ?format=html.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	rep, err := s.scanner.Run(r.Context())
	if err != nil {
		s.log.ErrorWith("scan failed", err, nil)
		http.Error(w, "scan failed", http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("format") == "html" {
		doc, err := s.html.Render(rep)
		if err != nil {
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(doc)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rep); err != nil {
		s.log.ErrorWith("failed to encode report", err, nil)
	}
}

// requestLog logs each request with method, path, status and duration.
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.With().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Str("duration", time.Since(start).String()).
			Logger().
			Info("request")
	})
}
