// Package api provides the LogStack HTTP API server.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/logstackhq/logstack/internal/ingest"
	"github.com/logstackhq/logstack/internal/notifier"
	"github.com/logstackhq/logstack/internal/search"
	"github.com/logstackhq/logstack/internal/storage"
)

// Config holds API server configuration.
type Config struct {
	// Address is the HTTP listen address.
	Address string
	// JWTSecret signs operator access tokens.
	JWTSecret []byte
	// AccessTokenTTL is the operator token lifetime.
	AccessTokenTTL time.Duration
	// RateLimitPerIP bounds unauthenticated requests per IP per minute.
	RateLimitPerIP int
	// MaxPageSize bounds search page sizes.
	MaxPageSize int
	// Verbose enables per-request logging.
	Verbose bool
}

func (c *Config) setDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.AccessTokenTTL == 0 {
		c.AccessTokenTTL = 15 * time.Minute
	}
	if c.RateLimitPerIP == 0 {
		c.RateLimitPerIP = 120
	}
}

// Server is the LogStack API server.
type Server struct {
	config     *Config
	storage    storage.Storage
	pipeline   *ingest.Pipeline
	search     *search.Service
	httpServer *http.Server
}

// NewServer creates an API server over the given storage and dispatcher.
func NewServer(cfg *Config, store storage.Storage, dispatcher *notifier.Dispatcher) (*Server, error) {
	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("JWT secret is required")
	}
	cfg.setDefaults()

	s := &Server{
		config:   cfg,
		storage:  store,
		pipeline: ingest.NewPipeline(store, dispatcher),
		search:   search.NewService(store.Logs(), cfg.MaxPageSize),
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Start begins serving. Blocks until the server stops.
func (s *Server) Start() error {
	log.Printf("api server listening on %s", s.config.Address)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
