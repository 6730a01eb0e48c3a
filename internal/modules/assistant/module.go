// Package assistant wires the AI conversation manager and its chat
// endpoint.
package assistant

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/parley-chat/parley/internal/ai"
	"github.com/parley-chat/parley/internal/domain"
	"github.com/parley-chat/parley/internal/handlers"
	"github.com/parley-chat/parley/internal/module"
	"github.com/parley-chat/parley/internal/registry"
)

// KeyManager exposes the conversation manager to other modules.
var KeyManager = registry.Key[*ai.Manager]("assistant.manager")

// Dependencies holds the services the assistant module needs.
type Dependencies struct {
	Completer ai.Completer
	Turns     domain.TurnRepository
}

// Module implements module.Module for the AI assistant feature.
type Module struct {
	module.BaseModule
	manager *ai.Manager
}

// New creates the assistant module.
func New(deps Dependencies) *Module {
	return &Module{
		manager: ai.NewManager(deps.Completer, deps.Turns),
	}
}

func (m *Module) Name() string {
	return "assistant"
}

func (m *Module) Register(reg *registry.Registry) error {
	registry.Set(reg, KeyManager, m.manager)
	return nil
}

func (m *Module) Boot(ctx context.Context, router *echo.Group, reg *registry.Registry) error {
	router.POST("/chat", handlers.NewChatHandler(m.manager).Chat)
	return nil
}
