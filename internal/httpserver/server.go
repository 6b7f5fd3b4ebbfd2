// Package httpserver wraps net/http server lifecycle management.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/pretty-picked/boutique-api/internal/config"
	"github.com/pretty-picked/boutique-api/pkg/logger"
)

// Server runs an HTTP listener with graceful shutdown.
type Server struct {
	srv *http.Server
	log *logger.Logger
}

// New builds a server from the server section of the configuration.
func New(cfg config.ServerConfig, handler http.Handler, log *logger.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port)),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		log: log,
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Start blocks serving requests until the listener fails or Shutdown is
// called. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.log.Infof("http server listening on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("http server shutting down")
	return s.srv.Shutdown(ctx)
}
