package app

import (
	"github.com/parley-chat/parley/internal/ai"
	"github.com/parley-chat/parley/internal/domain"
	"github.com/parley-chat/parley/internal/module"
	"github.com/parley-chat/parley/internal/modules/assistant"
	"github.com/parley-chat/parley/internal/modules/chat"
	"github.com/parley-chat/parley/internal/modules/files"
	"github.com/parley-chat/parley/internal/pubsub"
	"github.com/parley-chat/parley/internal/rooms"
	"github.com/parley-chat/parley/internal/storage"
	"github.com/parley-chat/parley/internal/websocket"
)

// Dependencies holds the core services required by the application's
// modules. The server wires this up from configuration and hands it to
// NewModules.
type Dependencies struct {
	Publisher  pubsub.Publisher
	Subscriber pubsub.Subscriber
	Bridge     *websocket.Bridge
	Messages   domain.MessageRepository
	Turns      domain.TurnRepository
	Files      domain.FileRepository
	Uploads    storage.Store
	Completer  ai.Completer
	Relay      rooms.Config
	BaseURL    string
}

// NewModules creates the list of all active modules. This is the single
// source of truth for which features are enabled.
func NewModules(deps Dependencies) []module.Module {
	return []module.Module{
		chat.New(chat.Dependencies{
			Publisher:  deps.Publisher,
			Subscriber: deps.Subscriber,
			Bridge:     deps.Bridge,
			Messages:   deps.Messages,
			Relay:      deps.Relay,
		}),
		assistant.New(assistant.Dependencies{
			Completer: deps.Completer,
			Turns:     deps.Turns,
		}),
		files.New(files.Dependencies{
			Uploads: deps.Uploads,
			Files:   deps.Files,
			BaseURL: deps.BaseURL,
		}),
	}
}
