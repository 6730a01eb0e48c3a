package rooms

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/parley-chat/parley/internal/domain"
	"github.com/parley-chat/parley/internal/pubsub"
	"github.com/parley-chat/parley/internal/websocket"
)

// GlobalRoom is the room every live connection belongs to. Membership is
// maintained from the bridge's lifecycle events, so global delivery uses the
// same path as any other room.
const GlobalRoom = "global"

// ClockLayout is the human-readable timestamp attached to delivered
// messages.
const ClockLayout = "15:04:05"

// Payload is the wire shape of a delivered chat message.
type Payload struct {
	Username string `json:"username"`
	Message  string `json:"message"`
	Clock    string `json:"clock"`
	Seq      uint64 `json:"seq"`
}

// NewPayload builds the wire payload for a stored message.
func NewPayload(msg *domain.ChatMessage) Payload {
	return Payload{
		Username: msg.Username,
		Message:  msg.Text,
		Clock:    msg.CreatedAt.Format(ClockLayout),
		Seq:      msg.Seq,
	}
}

// Config controls which message classes the relay writes to storage.
// Delivery never depends on persistence succeeding.
type Config struct {
	PersistGlobal  bool
	PersistPrivate bool
}

// Relay fans chat messages out to room members. Rooms are identified by
// name: the shared global room, plus one private room per username. A
// connection's memberships are purged when the bridge reports it gone.
type Relay struct {
	publisher pubsub.Publisher
	store     domain.MessageRepository
	cfg       Config
	logger    *slog.Logger
	now       func() time.Time

	mu      sync.Mutex
	members map[string]map[string]struct{}
	seqs    map[string]uint64
}

// Option configures a Relay.
type Option func(*Relay)

// WithClock overrides the relay's time source.
func WithClock(now func() time.Time) Option {
	return func(r *Relay) { r.now = now }
}

// NewRelay initializes a Relay publishing deliveries through pub and
// persisting through store.
func NewRelay(pub pubsub.Publisher, store domain.MessageRepository, cfg Config, opts ...Option) *Relay {
	r := &Relay{
		publisher: pub,
		store:     store,
		cfg:       cfg,
		logger:    slog.Default().With("service", "rooms"),
		now:       time.Now,
		members:   make(map[string]map[string]struct{}),
		seqs:      make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start subscribes the relay to its client event topics and to the bridge
// lifecycle topics that drive room membership.
func (r *Relay) Start(ctx context.Context, subscriber pubsub.Subscriber) error {
	if err := subscriber.Subscribe(ctx, TopicGlobalSend.Name(), r.handleGlobalSend); err != nil {
		return err
	}
	if err := subscriber.Subscribe(ctx, TopicRoomJoin.Name(), r.handleJoin); err != nil {
		return err
	}
	if err := subscriber.Subscribe(ctx, TopicPrivateSend.Name(), r.handlePrivateSend); err != nil {
		return err
	}
	if err := subscriber.Subscribe(ctx, websocket.TopicClientReady.Name(), r.handleClientReady); err != nil {
		return err
	}
	return subscriber.Subscribe(ctx, websocket.TopicClientDisconnected.Name(), r.handleClientDisconnected)
}

// Join adds a connection to a room. Joining a room the connection is
// already in is a no-op.
func (r *Relay) Join(room, connectionID string) {
	if room == "" || connectionID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.members[room]
	if !ok {
		set = make(map[string]struct{})
		r.members[room] = set
	}
	set[connectionID] = struct{}{}
}

// Leave removes a connection from every room it belongs to. Unknown
// connections are ignored.
func (r *Relay) Leave(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for room, set := range r.members {
		delete(set, connectionID)
		if len(set) == 0 {
			delete(r.members, room)
		}
	}
}

// Members returns the connection IDs currently in a room, sorted.
func (r *Relay) Members(room string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.members[room]))
	for id := range r.members[room] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SendGlobal validates, stores, and delivers a message to the global room.
// A storage failure degrades the outcome but never blocks delivery.
func (r *Relay) SendGlobal(ctx context.Context, username, text string) (*domain.ChatMessage, domain.Outcome, error) {
	if err := domain.ValidateMessageText(text); err != nil {
		return nil, domain.OutcomeRejected, err
	}

	msg := r.stamp(username, text, GlobalRoom)
	outcome := domain.OutcomeDelivered

	if r.cfg.PersistGlobal {
		if err := r.store.Append(ctx, msg); err != nil {
			r.logger.Error("Failed to persist global message, delivering anyway", "username", username, "error", err)
			outcome = domain.OutcomeDegraded
		}
	}

	if err := r.deliver(ctx, websocket.EventReceiveGlobal, msg, GlobalRoom); err != nil {
		return msg, domain.OutcomeDegraded, err
	}
	return msg, outcome, nil
}

// SendPrivate validates and delivers a message to the receiver's room,
// echoing it to the sender's own room. An empty receiver room is not an
// error: nobody is listening, and the message is not queued.
func (r *Relay) SendPrivate(ctx context.Context, sender, receiver, text string) (*domain.ChatMessage, domain.Outcome, error) {
	if receiver == "" {
		return nil, domain.OutcomeRejected, domain.NewValidationError("receiver", "must not be empty")
	}
	if err := domain.ValidateMessageText(text); err != nil {
		return nil, domain.OutcomeRejected, err
	}

	msg := r.stamp(sender, text, receiver)
	outcome := domain.OutcomeDelivered

	if r.cfg.PersistPrivate {
		if err := r.store.Append(ctx, msg); err != nil {
			r.logger.Error("Failed to persist private message, delivering anyway", "sender", sender, "receiver", receiver, "error", err)
			outcome = domain.OutcomeDegraded
		}
	}

	if err := r.deliver(ctx, websocket.EventReceivePrivate, msg, receiver, sender); err != nil {
		return msg, domain.OutcomeDegraded, err
	}
	return msg, outcome, nil
}

// stamp builds a message with the server timestamp and the room's next
// sequence id.
func (r *Relay) stamp(username, text, room string) *domain.ChatMessage {
	r.mu.Lock()
	r.seqs[room]++
	seq := r.seqs[room]
	r.mu.Unlock()

	return &domain.ChatMessage{
		Username:  username,
		Text:      text,
		Room:      room,
		Seq:       seq,
		CreatedAt: r.now().UTC(),
	}
}

// deliver writes the message to every connection in the named rooms. A
// connection in more than one of them receives it once.
func (r *Relay) deliver(ctx context.Context, event string, msg *domain.ChatMessage, roomNames ...string) error {
	encoded, err := websocket.Encode(event, NewPayload(msg))
	if err != nil {
		return err
	}

	r.mu.Lock()
	recipients := make(map[string]struct{})
	for _, room := range roomNames {
		for id := range r.members[room] {
			recipients[id] = struct{}{}
		}
	}
	r.mu.Unlock()

	for id := range recipients {
		out := pubsub.Message{
			Topic:   websocket.TopicDirect.Name(),
			UserID:  msg.Username,
			Payload: encoded,
			Metadata: map[string]string{
				websocket.MetaRecipientID: id,
			},
		}
		if err := r.publisher.Publish(ctx, out); err != nil {
			r.logger.Error("Failed to publish delivery", "connectionID", id, "error", err)
		}
	}
	return nil
}

type globalSendPayload struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

func (r *Relay) handleGlobalSend(ctx context.Context, msg pubsub.Message) error {
	var payload globalSendPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		r.logger.Debug("Dropping malformed global send", "error", err)
		return nil
	}

	username := payload.Username
	if username == "" {
		username = msg.UserID
	}
	if username == "" {
		r.logger.Debug("Dropping global send without username")
		return nil
	}

	if _, outcome, err := r.SendGlobal(ctx, username, payload.Message); err != nil {
		r.logger.Debug("Global send not delivered", "username", username, "outcome", outcome, "error", err)
	}
	return nil
}

type joinPayload struct {
	Username string `json:"username"`
}

func (r *Relay) handleJoin(ctx context.Context, msg pubsub.Message) error {
	var payload joinPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		r.logger.Debug("Dropping malformed join", "error", err)
		return nil
	}

	connectionID := msg.Metadata[websocket.MetaConnectionID]
	if payload.Username == "" || connectionID == "" {
		r.logger.Debug("Dropping join without username or connection")
		return nil
	}

	r.Join(payload.Username, connectionID)
	return nil
}

type privateSendPayload struct {
	Username string `json:"username"`
	Receiver string `json:"receiver"`
	Message  string `json:"message"`
}

func (r *Relay) handlePrivateSend(ctx context.Context, msg pubsub.Message) error {
	var payload privateSendPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		r.logger.Debug("Dropping malformed private send", "error", err)
		return nil
	}

	sender := payload.Username
	if sender == "" {
		sender = msg.UserID
	}
	if sender == "" || payload.Receiver == "" {
		r.logger.Debug("Dropping private send without sender or receiver")
		return nil
	}

	if _, outcome, err := r.SendPrivate(ctx, sender, payload.Receiver, payload.Message); err != nil {
		r.logger.Debug("Private send not delivered", "sender", sender, "outcome", outcome, "error", err)
	}
	return nil
}

// handleClientReady places every new connection in the global room.
func (r *Relay) handleClientReady(ctx context.Context, msg pubsub.Message) error {
	var evt websocket.LifecycleEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		r.logger.Debug("Dropping malformed lifecycle event", "error", err)
		return nil
	}

	r.Join(GlobalRoom, evt.ConnectionID)
	return nil
}

func (r *Relay) handleClientDisconnected(ctx context.Context, msg pubsub.Message) error {
	var evt websocket.LifecycleEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		r.logger.Debug("Dropping malformed lifecycle event", "error", err)
		return nil
	}

	r.Leave(evt.ConnectionID)
	return nil
}
