package server

import (
	"context"
	"fmt"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/surrealdb/surrealdb.go"

	"github.com/parley-chat/parley/internal/ai"
	"github.com/parley-chat/parley/internal/app"
	"github.com/parley-chat/parley/internal/config"
	"github.com/parley-chat/parley/internal/database"
	"github.com/parley-chat/parley/internal/domain"
	"github.com/parley-chat/parley/internal/handlers"
	"github.com/parley-chat/parley/internal/logging"
	"github.com/parley-chat/parley/internal/middleware"
	"github.com/parley-chat/parley/internal/module"
	"github.com/parley-chat/parley/internal/modules/chat"
	"github.com/parley-chat/parley/internal/pubsub"
	"github.com/parley-chat/parley/internal/registry"
	"github.com/parley-chat/parley/internal/rooms"
	"github.com/parley-chat/parley/internal/storage"
	"github.com/parley-chat/parley/internal/websocket"
)

// Deps bundles the storage and external-service collaborators the server
// needs. Production wiring comes from New; tests inject fakes through
// NewWithDeps.
type Deps struct {
	Users     domain.UserRepository
	Messages  domain.MessageRepository
	Turns     domain.TurnRepository
	Files     domain.FileRepository
	Uploads   storage.Store
	Completer ai.Completer
}

// Server holds the HTTP server and everything wired into it.
type Server struct {
	E        *echo.Echo
	DB       *surrealdb.DB
	Cfg      *config.Config
	Bus      *pubsub.WatermillBridge
	Bridge   *websocket.Bridge
	Registry *registry.Registry

	deps    Deps
	modules []module.Module
}

// New creates a Server with production dependencies: SurrealDB storage, the
// OS-filesystem upload store, and the OpenAI completion client.
func New(cfg *config.Config) (*Server, error) {
	logging.New()

	ctx := context.Background()
	db, err := database.NewDB(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx, db); err != nil {
		return nil, err
	}

	s := NewWithDeps(cfg, Deps{
		Users:     database.NewUserStore(db),
		Messages:  database.NewMessageStore(db),
		Turns:     database.NewTurnStore(db),
		Files:     database.NewFileStore(db),
		Uploads:   storage.NewUploadStore(cfg.UploadDir),
		Completer: ai.NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel),
	})
	s.DB = db
	return s, nil
}

// NewWithDeps creates a Server around the given collaborators. The bus, the
// WebSocket bridge, and all modules are wired here; nothing is started
// until Boot.
func NewWithDeps(cfg *config.Config, deps Deps) *Server {
	bus := pubsub.NewWatermillBridge()
	bridge := websocket.NewBridge(bus, chat.SocketRoutes())

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger)
	e.Use(echomw.CORS())

	cookieStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
	}
	e.Use(session.Middleware(cookieStore))

	reg := registry.New(cfg)
	registry.Set(reg, registry.KeyUserStore, deps.Users)
	registry.Set(reg, registry.KeyMessageStore, deps.Messages)
	registry.Set(reg, registry.KeyTurnStore, deps.Turns)
	registry.Set(reg, registry.KeyFileStore, deps.Files)
	registry.Set(reg, registry.KeyUploadStore, deps.Uploads)

	modules := app.NewModules(app.Dependencies{
		Publisher:  bus,
		Subscriber: bus,
		Bridge:     bridge,
		Messages:   deps.Messages,
		Turns:      deps.Turns,
		Files:      deps.Files,
		Uploads:    deps.Uploads,
		Completer:  deps.Completer,
		Relay: rooms.Config{
			PersistGlobal:  cfg.PersistGlobal,
			PersistPrivate: cfg.PersistPrivate,
		},
		BaseURL: cfg.BaseURL,
	})

	return &Server{
		E:        e,
		Cfg:      cfg,
		Bus:      bus,
		Bridge:   bridge,
		Registry: reg,
		deps:     deps,
		modules:  modules,
	}
}
