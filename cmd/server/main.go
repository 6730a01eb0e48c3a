package main

import (
	"log/slog"
	"os"

	"github.com/parley-chat/parley/internal/config"
	"github.com/parley-chat/parley/internal/server"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	s, err := server.New(cfg)
	if err != nil {
		slog.Error("Failed to initialize server", "error", err)
		os.Exit(1)
	}

	if err := s.Start(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}
