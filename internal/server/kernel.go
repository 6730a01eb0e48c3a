package server

import (
	"context"
	"fmt"
	"log/slog"
)

// Boot starts the bridge's outbound subscriptions, then runs every module
// through its Register and Boot phases. Subscriptions live until ctx is
// cancelled.
func (s *Server) Boot(ctx context.Context) error {
	if err := s.Bridge.Start(ctx, s.Bus); err != nil {
		return fmt.Errorf("failed to start websocket bridge: %w", err)
	}

	for _, m := range s.modules {
		if err := m.Register(s.Registry); err != nil {
			return fmt.Errorf("module %s failed to register: %w", m.Name(), err)
		}
	}

	root := s.E.Group("")
	for _, m := range s.modules {
		if err := m.Boot(ctx, root, s.Registry); err != nil {
			return fmt.Errorf("module %s failed to boot: %w", m.Name(), err)
		}
		slog.Info("Module booted", "module", m.Name())
	}
	return nil
}
