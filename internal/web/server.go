// Package web serves the row viewer over HTTP
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/okra-platform/rowview/internal/dataset"
	"github.com/okra-platform/rowview/internal/navigator"
)

// DatasetStore persists uploads and loads them back
type DatasetStore interface {
	dataset.Loader
	dataset.Saver
}

// SessionStore carries the navigator session between requests
type SessionStore interface {
	Load(r *http.Request) navigator.Session
	Save(w http.ResponseWriter, s navigator.Session) error
}

// Options configures a Server
type Options struct {
	// Extension uploads must end with, e.g. ".csv"
	Extension string
	// MaxUploadBytes bounds the request body of an upload; 0 means no limit
	MaxUploadBytes int64
}

// Server exposes the upload form, the current row and navigation
type Server struct {
	datasets DatasetStore
	sessions SessionStore
	renderer *Renderer
	opts     Options
	logger   zerolog.Logger
}

// NewServer creates a new viewer server
func NewServer(datasets DatasetStore, sessions SessionStore, renderer *Renderer, opts Options, logger zerolog.Logger) *Server {
	return &Server{
		datasets: datasets,
		sessions: sessions,
		renderer: renderer,
		opts:     opts,
		logger:   logger.With().Str("component", "web").Logger(),
	}
}

// Handler returns the routed handler wrapped in request logging
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Register routes
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /{$}", s.handleUpload)
	mux.HandleFunc("GET /navigate/{direction}", s.handleNavigate)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return logRequests(s.logger, mux)
}

// Start listens on addr and serves until ctx is cancelled
func (s *Server) Start(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("viewer listening")
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

// handleIndex renders the current row, or the upload form without a dataset
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderCurrent(w, r, s.sessions.Load(r))
}

// handleNavigate moves the session pointer and redirects back to the index
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Load(r)
	direction := r.PathValue("direction")

	next, err := navigator.Navigate(r.Context(), s.datasets, sess, direction)
	if err != nil {
		s.serverError(w, err, sess)
		return
	}

	if next != sess {
		if err := s.sessions.Save(w, next); err != nil {
			s.serverError(w, err, sess)
			return
		}
	} else {
		s.logger.Debug().Str("direction", direction).Int("index", sess.Index).Msg("navigation ignored")
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// renderCurrent writes the page for sess
func (s *Server) renderCurrent(w http.ResponseWriter, r *http.Request, sess navigator.Session) {
	view, err := navigator.CurrentView(r.Context(), s.datasets, sess)
	if err != nil {
		s.serverError(w, err, sess)
		return
	}
	if view.Clamped {
		s.logger.Debug().
			Str("dataset_id", sess.DatasetID).
			Int("index", sess.Index).
			Int("total", view.Total).
			Msg("stale session index clamped to first row")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Render(w, view); err != nil {
		s.serverError(w, err, sess)
	}
}

// serverError logs err and sends a bare 500
func (s *Server) serverError(w http.ResponseWriter, err error, sess navigator.Session) {
	event := s.logger.Error().Err(err).Str("dataset_id", sess.DatasetID)
	if errors.Is(err, dataset.ErrDatasetLoad) {
		event.Msg("session references an unreadable dataset")
	} else {
		event.Msg("request failed")
	}

	http.Error(w, "internal server error", http.StatusInternalServerError)
}
