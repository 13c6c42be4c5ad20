// Package server provides the HTTP surface for the exchange service.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/crosslink-labs/crm-oauth/internal/config"
	"github.com/crosslink-labs/crm-oauth/internal/logger"
	"github.com/crosslink-labs/crm-oauth/internal/oauth"
	"github.com/crosslink-labs/crm-oauth/internal/server/handler"
	"github.com/crosslink-labs/crm-oauth/internal/server/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	// shutdownTimeout is the maximum time to wait for server shutdown
	shutdownTimeout = 5 * time.Second
)

// Server serves the exchange API over HTTP.
type Server struct {
	config  *config.Config
	handler *handler.Handler
}

// NewServer creates a new server instance for the given provider registry.
func NewServer(cfg *config.Config, registry *oauth.Registry) *Server {
	if cfg == nil {
		logger.Fatal("Config cannot be nil")
	}
	if registry == nil {
		logger.Fatal("Registry cannot be nil")
	}

	return &Server{
		config:  cfg,
		handler: handler.NewHandler(registry),
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	s.handler.RegisterRoutes(mux)
	return middleware.RequestLogger(middleware.CORS(mux))
}

// Start runs the server until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: s.routes(),
	}

	errChan := make(chan error, 1)

	go func() {
		logger.Info("Starting server", zap.String("address", addr))

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server", zap.Duration("timeout", shutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil

	case err := <-errChan:
		return err
	}
}

// Module provides the HTTP server dependencies
var Module = fx.Module("server",
	fx.Provide(
		NewServer,
	),
)
