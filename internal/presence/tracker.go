package presence

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"

	"github.com/parley-chat/parley/internal/domain"
	"github.com/parley-chat/parley/internal/pubsub"
	"github.com/parley-chat/parley/internal/rooms"
	"github.com/parley-chat/parley/internal/websocket"
)

// DefaultHistoryLimit bounds the number of messages replayed to a newly
// connected client.
const DefaultHistoryLimit = 50

// CountPayload is the wire payload of a user_count_update event.
type CountPayload struct {
	Count int `json:"count"`
}

// Tracker follows connection lifecycle events from the bridge. Every
// connect and disconnect broadcasts the new live count to all clients, and
// a fresh connection gets the recent global history replayed to it before
// any live traffic.
type Tracker struct {
	publisher    pubsub.Publisher
	history      domain.MessageRepository
	historyLimit int
	logger       *slog.Logger

	mu          sync.Mutex
	connections map[string]string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithHistoryLimit overrides the replay window size.
func WithHistoryLimit(n int) Option {
	return func(t *Tracker) { t.historyLimit = n }
}

// NewTracker initializes a Tracker replaying history from store and
// publishing updates through pub.
func NewTracker(pub pubsub.Publisher, store domain.MessageRepository, opts ...Option) *Tracker {
	t := &Tracker{
		publisher:    pub,
		history:      store,
		historyLimit: DefaultHistoryLimit,
		logger:       slog.Default().With("service", "presence"),
		connections:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start subscribes the tracker to the bridge lifecycle topics.
func (t *Tracker) Start(ctx context.Context, subscriber pubsub.Subscriber) error {
	if err := subscriber.Subscribe(ctx, websocket.TopicClientReady.Name(), t.handleClientReady); err != nil {
		return err
	}
	return subscriber.Subscribe(ctx, websocket.TopicClientDisconnected.Name(), t.handleClientDisconnected)
}

// Count returns the number of tracked connections.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.connections)
}

// Usernames returns the distinct usernames currently connected, sorted.
func (t *Tracker) Usernames() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	seen := make(map[string]struct{}, len(t.connections))
	for _, username := range t.connections {
		if username != "" {
			seen[username] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t *Tracker) handleClientReady(ctx context.Context, msg pubsub.Message) error {
	var evt websocket.LifecycleEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		t.logger.Debug("Dropping malformed lifecycle event", "error", err)
		return nil
	}
	if evt.ConnectionID == "" {
		return nil
	}

	t.mu.Lock()
	t.connections[evt.ConnectionID] = evt.Username
	count := len(t.connections)
	t.mu.Unlock()

	// The backlog is published before the count update. The two travel on
	// separate topics, so arrival order at the client is best-effort.
	t.replayHistory(ctx, evt.ConnectionID)
	t.announce(ctx, count)
	return nil
}

// handleClientDisconnected drops the connection and announces the new
// count. An unknown connection is a no-op: teardown can race a connect that
// never fully registered.
func (t *Tracker) handleClientDisconnected(ctx context.Context, msg pubsub.Message) error {
	var evt websocket.LifecycleEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		t.logger.Debug("Dropping malformed lifecycle event", "error", err)
		return nil
	}

	t.mu.Lock()
	_, known := t.connections[evt.ConnectionID]
	if known {
		delete(t.connections, evt.ConnectionID)
	}
	count := len(t.connections)
	t.mu.Unlock()

	if !known {
		return nil
	}

	t.announce(ctx, count)
	return nil
}

// replayHistory sends the recent global backlog, oldest-first, to one
// connection. A storage failure skips the replay; the connection still
// works for live traffic.
func (t *Tracker) replayHistory(ctx context.Context, connectionID string) {
	messages, err := t.history.Recent(ctx, t.historyLimit)
	if err != nil {
		t.logger.Error("Failed to load history for replay, skipping", "connectionID", connectionID, "error", err)
		return
	}
	if len(messages) == 0 {
		return
	}

	payloads := make([]rooms.Payload, 0, len(messages))
	for i := range messages {
		payloads = append(payloads, rooms.NewPayload(&messages[i]))
	}

	encoded, err := websocket.Encode(websocket.EventHistory, payloads)
	if err != nil {
		t.logger.Error("Failed to encode history replay", "error", err)
		return
	}

	out := pubsub.Message{
		Topic:   websocket.TopicDirect.Name(),
		Payload: encoded,
		Metadata: map[string]string{
			websocket.MetaRecipientID: connectionID,
		},
	}
	if err := t.publisher.Publish(ctx, out); err != nil {
		t.logger.Error("Failed to publish history replay", "connectionID", connectionID, "error", err)
	}
}

// announce broadcasts the live count to all clients and publishes it on the
// presence topic for other services.
func (t *Tracker) announce(ctx context.Context, count int) {
	encoded, err := websocket.Encode(websocket.EventUserCount, CountPayload{Count: count})
	if err != nil {
		t.logger.Error("Failed to encode count update", "error", err)
		return
	}

	broadcast := pubsub.Message{
		Topic:   websocket.TopicBroadcast.Name(),
		Payload: encoded,
	}
	if err := t.publisher.Publish(ctx, broadcast); err != nil {
		t.logger.Error("Failed to broadcast count update", "error", err)
	}

	raw, err := json.Marshal(CountPayload{Count: count})
	if err != nil {
		return
	}
	changed := pubsub.Message{
		Topic:   TopicCountChanged.Name(),
		Payload: raw,
	}
	if err := t.publisher.Publish(ctx, changed); err != nil {
		t.logger.Error("Failed to publish count change", "error", err)
	}
}
