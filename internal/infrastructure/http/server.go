// Package http runs the API's HTTP server and hosts the operational
// handlers (health probes) that sit outside the business routes.
package http

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Server runs an Echo instance until its context is cancelled, then drains
// in-flight requests for up to the shutdown timeout.
type Server struct {
	e               *echo.Echo
	addr            string
	shutdownTimeout time.Duration
	log             zerolog.Logger
}

func NewServer(e *echo.Echo, port string, shutdownTimeout time.Duration, log zerolog.Logger) *Server {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &Server{e: e, addr: ":" + port, shutdownTimeout: shutdownTimeout, log: log}
}

// Run blocks until ctx is done or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	serverErrors := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.addr).Msg("http server starting")
		serverErrors <- s.e.Start(s.addr)
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.e.Shutdown(shutdownCtx); err != nil {
		s.log.Error().Err(err).Msg("graceful shutdown failed")
		_ = s.e.Close()
		return fmt.Errorf("http shutdown: %w", err)
	}

	s.log.Info().Msg("http server stopped")
	return nil
}
