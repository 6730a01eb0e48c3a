// Package chat wires the room relay and presence tracker into the
// application: socket event routing, room fan-out, history replay, and the
// presence endpoint.
package chat

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/parley-chat/parley/internal/domain"
	"github.com/parley-chat/parley/internal/handlers"
	"github.com/parley-chat/parley/internal/module"
	"github.com/parley-chat/parley/internal/presence"
	"github.com/parley-chat/parley/internal/pubsub"
	"github.com/parley-chat/parley/internal/registry"
	"github.com/parley-chat/parley/internal/rooms"
	"github.com/parley-chat/parley/internal/websocket"
)

// KeyTracker exposes the presence tracker to other modules.
var KeyTracker = registry.Key[*presence.Tracker]("chat.tracker")

// KeyRelay exposes the room relay to other modules.
var KeyRelay = registry.Key[*rooms.Relay]("chat.relay")

// SocketRoutes maps client socket events to the chat bus topics. The server
// hands this to the WebSocket bridge at construction.
func SocketRoutes() websocket.Routes {
	return websocket.Routes{
		websocket.EventSendGlobal:  rooms.TopicGlobalSend.Name(),
		websocket.EventJoin:        rooms.TopicRoomJoin.Name(),
		websocket.EventSendPrivate: rooms.TopicPrivateSend.Name(),
	}
}

// Dependencies holds the services the chat module needs.
type Dependencies struct {
	Publisher  pubsub.Publisher
	Subscriber pubsub.Subscriber
	Bridge     *websocket.Bridge
	Messages   domain.MessageRepository
	Relay      rooms.Config
}

// Module implements module.Module for the chat feature.
type Module struct {
	module.BaseModule
	deps    Dependencies
	relay   *rooms.Relay
	tracker *presence.Tracker
}

// New creates the chat module.
func New(deps Dependencies) *Module {
	return &Module{
		deps:    deps,
		relay:   rooms.NewRelay(deps.Publisher, deps.Messages, deps.Relay),
		tracker: presence.NewTracker(deps.Publisher, deps.Messages),
	}
}

func (m *Module) Name() string {
	return "chat"
}

// Register shares the relay and tracker through the registry.
func (m *Module) Register(reg *registry.Registry) error {
	registry.Set(reg, KeyRelay, m.relay)
	registry.Set(reg, KeyTracker, m.tracker)
	return nil
}

// Boot starts the bus subscriptions and mounts the socket and presence
// routes.
func (m *Module) Boot(ctx context.Context, router *echo.Group, reg *registry.Registry) error {
	if err := m.relay.Start(ctx, m.deps.Subscriber); err != nil {
		return err
	}
	if err := m.tracker.Start(ctx, m.deps.Subscriber); err != nil {
		return err
	}

	router.GET("/ws", m.deps.Bridge.Handler())
	router.GET("/presence", handlers.NewPresenceHandler(m.tracker).Get)
	return nil
}
