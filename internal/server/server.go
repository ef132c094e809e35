// Package server provides the dashboard HTTP server: JSON stats endpoints,
// the embedded chart front end, and a WebSocket channel that tells open
// dashboards to refetch after the dataset file changes on disk.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"dice-analyzer/internal/dataset"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	DatasetPath string
	// WatchInterval is how often the dataset file's mtime is polled.
	// Zero disables watching.
	WatchInterval time.Duration
	Logger        *slog.Logger
}

// Server wraps the HTTP server plus the loaded roll table.
type Server struct {
	cfg    Config
	srv    *http.Server
	logger *slog.Logger
	hub    *hub

	mu    sync.RWMutex
	table *dataset.Table
}

// New creates a server around an already-loaded table.
func New(cfg Config, table *dataset.Table) (*Server, error) {
	if table == nil {
		return nil, fmt.Errorf("server: nil table")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}

	mux := http.NewServeMux()
	s := &Server{
		cfg:    cfg,
		logger: cfg.Logger,
		hub:    newHub(cfg.Logger),
		table:  table,
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	if err := s.registerRoutes(mux); err != nil {
		return nil, err
	}
	return s, nil
}

// Table returns the current roll table.
func (s *Server) Table() *dataset.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// ListenAndServe runs the server until the context is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.logger.Info("dashboard server starting",
		"address", s.srv.Addr,
		"dataset", s.cfg.DatasetPath,
		"records", len(s.Table().Records))

	if s.cfg.WatchInterval > 0 && s.cfg.DatasetPath != "" {
		go s.watchDataset(ctx)
	}

	go func() {
		<-ctx.Done()
		s.logger.Info("shutting down dashboard server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown error", "error", err)
		}
	}()

	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// Handler returns the underlying http.Handler (useful for testing).
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}
