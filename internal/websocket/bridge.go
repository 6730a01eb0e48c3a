package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/parley-chat/parley/internal/pubsub"
)

// Bridge manages all WebSocket connections and routes messages between
// connected clients and the Pub/Sub message bus. Inbound client events are
// published to the bus according to the configured Routes; anything published
// to the broadcast or direct topics is written back out to the sockets.
type Bridge struct {
	publisher pubsub.Publisher
	routes    Routes

	mu      sync.RWMutex
	clients map[string]*Client
}

// NewBridge initializes a new Bridge, ready to handle connections.
func NewBridge(pub pubsub.Publisher, routes Routes) *Bridge {
	return &Bridge{
		publisher: pub,
		routes:    routes,
		clients:   make(map[string]*Client),
	}
}

// Start subscribes the bridge to the outbound topics. It must be called once
// before clients connect.
func (b *Bridge) Start(ctx context.Context, subscriber pubsub.Subscriber) error {
	if err := subscriber.Subscribe(ctx, TopicBroadcast.Name(), b.handleBroadcast); err != nil {
		return err
	}
	return subscriber.Subscribe(ctx, TopicDirect.Name(), b.handleDirect)
}

// Count returns the number of live connections.
func (b *Bridge) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Handler returns an echo.HandlerFunc that upgrades the request to a
// WebSocket connection and registers the client with the bridge.
func (b *Bridge) Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		username := c.QueryParam("username")

		conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
			// The browser client is served from another origin in development.
			InsecureSkipVerify: true,
		})
		if err != nil {
			slog.Error("Failed to upgrade connection to WebSocket", "error", err)
			return c.String(http.StatusInternalServerError, "Failed to upgrade to WebSocket")
		}

		client := &Client{
			ID:       uuid.NewString(),
			Username: username,
			conn:     conn,
			send:     make(chan []byte, sendBuffer),
			bridge:   b,
		}

		b.mu.Lock()
		b.clients[client.ID] = client
		b.mu.Unlock()
		slog.Info("Client registered", "connectionID", client.ID, "username", username)

		go client.writePump()
		go client.readPump()

		b.publishLifecycle(TopicClientReady.Name(), client, "")
		return nil
	}
}

// drop unregisters a client. Safe to call when the client is already gone;
// a disconnect can race connect teardown.
func (b *Bridge) drop(client *Client, reason string) {
	b.mu.Lock()
	existing, ok := b.clients[client.ID]
	if ok && existing == client {
		delete(b.clients, client.ID)
		close(client.send)
	}
	b.mu.Unlock()

	if !ok {
		return
	}
	slog.Info("Client unregistered", "connectionID", client.ID, "reason", reason)
	b.publishLifecycle(TopicClientDisconnected.Name(), client, reason)
}

// route publishes an inbound client event to its configured bus topic.
// Unroutable or malformed events are dropped silently, per the socket
// contract for bad input.
func (b *Bridge) route(client *Client, raw []byte) {
	var evt Event
	if err := json.Unmarshal(raw, &evt); err != nil {
		slog.Debug("Dropping malformed client event", "connectionID", client.ID, "error", err)
		return
	}

	topic, ok := b.routes[evt.Event]
	if !ok {
		slog.Debug("Dropping unroutable client event", "connectionID", client.ID, "event", evt.Event)
		return
	}

	msg := pubsub.Message{
		Topic:   topic,
		UserID:  client.Username,
		Payload: evt.Payload,
		Metadata: map[string]string{
			MetaConnectionID: client.ID,
		},
	}
	if err := b.publisher.Publish(context.Background(), msg); err != nil {
		slog.Error("Failed to publish client event", "connectionID", client.ID, "event", evt.Event, "error", err)
	}
}

func (b *Bridge) publishLifecycle(topic string, client *Client, reason string) {
	payload, err := json.Marshal(LifecycleEvent{
		ConnectionID: client.ID,
		Username:     client.Username,
		Reason:       reason,
	})
	if err != nil {
		slog.Error("Failed to marshal lifecycle event", "error", err)
		return
	}

	msg := pubsub.Message{
		Topic:   topic,
		UserID:  client.Username,
		Payload: payload,
	}
	if err := b.publisher.Publish(context.Background(), msg); err != nil {
		slog.Error("Failed to publish lifecycle event", "topic", topic, "error", err)
	}
}

// handleBroadcast fans a bus payload out to every connected client.
func (b *Bridge) handleBroadcast(ctx context.Context, msg pubsub.Message) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, client := range b.clients {
		client.enqueue(msg.Payload)
	}
	return nil
}

// handleDirect writes a bus payload to the single connection named in the
// recipient_id metadata. A missing recipient is not an error: the connection
// may have dropped between publish and delivery.
func (b *Bridge) handleDirect(ctx context.Context, msg pubsub.Message) error {
	recipient := msg.Metadata[MetaRecipientID]
	if recipient == "" {
		slog.Warn("Direct message without recipient_id, dropping")
		return nil
	}

	// The enqueue must happen under the lock: drop closes the send channel
	// while holding it, so releasing before the enqueue would race the close.
	b.mu.RLock()
	defer b.mu.RUnlock()

	client, ok := b.clients[recipient]
	if !ok {
		slog.Debug("Direct message for unknown connection, dropping", "connectionID", recipient)
		return nil
	}

	client.enqueue(msg.Payload)
	return nil
}
