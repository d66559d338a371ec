package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"pantry/internal/events"
	"pantry/internal/handlers"
	applog "pantry/internal/log"
	"pantry/internal/pantry"
)

// Config captures the runtime configuration for the HTTP server.
type Config struct {
	Addr           string
	AllowedOrigins []string
	AccessKey      string
	ApplicationID  string
	Database       *gorm.DB
	Publisher      events.Publisher
}

// Server wraps an http.Server and exposes helpers for bootstrapping a
// production-ready web service.
type Server struct {
	config     Config
	httpServer *http.Server
}

// New builds a new Server using the provided configuration.
func New(cfg Config) (*Server, error) {
	applog.Debug(context.Background(), "initializing server",
		"addr", cfg.Addr,
		"applicationId", cfg.ApplicationID,
		"accessKey", cfg.AccessKey != "",
	)

	if len(cfg.AllowedOrigins) == 0 {
		applog.Debug(context.Background(), "allowed origins not provided, using default")
		cfg.AllowedOrigins = []string{"*"}
	}

	var repo *pantry.Repository
	if cfg.Database != nil {
		if strings.TrimSpace(cfg.ApplicationID) == "" {
			return nil, errors.New("server: application id is required")
		}
		repo = pantry.NewRepository(cfg.Database, cfg.ApplicationID)
	}
	handlers.Configure(repo, cfg.Publisher)

	applog.Debug(context.Background(), "handler dependencies configured", "store", repo != nil)

	return &Server{
		config: cfg,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           newRouter(cfg),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Start begins serving HTTP traffic using the underlying http.Server.
func (s *Server) Start() error {
	applog.Debug(context.Background(), "server starting listener", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server with a timeout.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	applog.Debug(ctx, "server initiating graceful shutdown")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured HTTP handler, enabling integration tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
