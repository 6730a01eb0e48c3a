package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

// Start boots the modules, runs the HTTP server, and blocks until an
// interrupt or terminate signal triggers a graceful shutdown.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.RegisterRoutes()
	if err := s.Boot(ctx); err != nil {
		return err
	}

	go func() {
		slog.Info("Server listening", "addr", s.Cfg.HTTPAddr)
		if err := s.E.Start(s.Cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server stopped unexpectedly", "error", err)
		}
	}()

	waitForShutdown()
	slog.Info("Shutting down")

	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()

	for _, m := range s.modules {
		if err := m.Shutdown(shutdownCtx); err != nil {
			slog.Error("Module shutdown failed", "module", m.Name(), "error", err)
		}
	}

	// Stop the bus subscriptions before closing their transport.
	cancel()
	if err := s.Bus.Close(); err != nil {
		slog.Error("Failed to close message bus", "error", err)
	}
	if s.DB != nil {
		s.DB.Close(shutdownCtx)
	}
	return s.E.Shutdown(shutdownCtx)
}

// waitForShutdown blocks until an interrupt or terminate signal arrives.
func waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
}
