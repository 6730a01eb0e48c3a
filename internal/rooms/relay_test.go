package rooms

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-chat/parley/internal/domain"
	"github.com/parley-chat/parley/internal/pubsub"
	"github.com/parley-chat/parley/internal/websocket"
)

type mockPublisher struct {
	mu       sync.Mutex
	messages []pubsub.Message
}

func (m *mockPublisher) Publish(ctx context.Context, msg pubsub.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func (m *mockPublisher) published() []pubsub.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]pubsub.Message(nil), m.messages...)
}

type mockStore struct {
	mu        sync.Mutex
	appended  []domain.ChatMessage
	appendErr error
}

func (m *mockStore) Append(ctx context.Context, msg *domain.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appended = append(m.appended, *msg)
	return nil
}

func (m *mockStore) Recent(ctx context.Context, limit int) ([]domain.ChatMessage, error) {
	return nil, nil
}

func (m *mockStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.appended)
}

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 15, 4, 5, 0, time.UTC)
}

func newTestRelay(t *testing.T, cfg Config) (*Relay, *mockPublisher, *mockStore) {
	t.Helper()
	pub := &mockPublisher{}
	store := &mockStore{}
	return NewRelay(pub, store, cfg, WithClock(fixedClock)), pub, store
}

func decodePayload(t *testing.T, raw []byte) (string, Payload) {
	t.Helper()
	var evt websocket.Event
	require.NoError(t, json.Unmarshal(raw, &evt))
	var payload Payload
	require.NoError(t, json.Unmarshal(evt.Payload, &payload))
	return evt.Event, payload
}

func TestSendGlobalDeliversToEveryMember(t *testing.T) {
	relay, pub, store := newTestRelay(t, Config{PersistGlobal: true})
	relay.Join(GlobalRoom, "conn-1")
	relay.Join(GlobalRoom, "conn-2")
	relay.Join(GlobalRoom, "conn-3")

	msg, outcome, err := relay.SendGlobal(context.Background(), "alice", "hello")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDelivered, outcome)
	assert.Equal(t, uint64(1), msg.Seq)
	assert.Equal(t, 1, store.count())

	published := pub.published()
	require.Len(t, published, 3)

	recipients := make(map[string]bool)
	for _, out := range published {
		assert.Equal(t, websocket.TopicDirect.Name(), out.Topic)
		recipients[out.Metadata[websocket.MetaRecipientID]] = true

		event, payload := decodePayload(t, out.Payload)
		assert.Equal(t, websocket.EventReceiveGlobal, event)
		assert.Equal(t, "alice", payload.Username)
		assert.Equal(t, "hello", payload.Message)
		assert.Equal(t, "15:04:05", payload.Clock)
		assert.Equal(t, uint64(1), payload.Seq)
	}
	assert.Len(t, recipients, 3, "each member should receive exactly one delivery")
}

func TestSendGlobalRejectsInvalidText(t *testing.T) {
	relay, pub, store := newTestRelay(t, Config{PersistGlobal: true})
	relay.Join(GlobalRoom, "conn-1")

	for name, text := range map[string]string{
		"empty":    "",
		"too long": strings.Repeat("x", domain.MaxMessageLength+1),
	} {
		t.Run(name, func(t *testing.T) {
			msg, outcome, err := relay.SendGlobal(context.Background(), "alice", text)

			assert.Nil(t, msg)
			assert.Equal(t, domain.OutcomeRejected, outcome)
			assert.True(t, domain.IsValidation(err))
			assert.Empty(t, pub.published())
			assert.Zero(t, store.count())
		})
	}
}

func TestSendGlobalDegradesWhenStorageFails(t *testing.T) {
	relay, pub, store := newTestRelay(t, Config{PersistGlobal: true})
	store.appendErr = errors.New("db down")
	relay.Join(GlobalRoom, "conn-1")

	msg, outcome, err := relay.SendGlobal(context.Background(), "alice", "hello")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDegraded, outcome)
	assert.NotNil(t, msg)
	assert.Len(t, pub.published(), 1, "storage failure must not block delivery")
}

func TestSendGlobalSkipsStorageWhenDisabled(t *testing.T) {
	relay, pub, store := newTestRelay(t, Config{PersistGlobal: false})
	relay.Join(GlobalRoom, "conn-1")

	_, outcome, err := relay.SendGlobal(context.Background(), "alice", "hello")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDelivered, outcome)
	assert.Zero(t, store.count())
	assert.Len(t, pub.published(), 1)
}

func TestSequenceIsMonotonicPerRoom(t *testing.T) {
	relay, _, _ := newTestRelay(t, Config{})
	relay.Join(GlobalRoom, "conn-1")
	relay.Join("bob", "conn-2")

	first, _, err := relay.SendGlobal(context.Background(), "alice", "one")
	require.NoError(t, err)
	second, _, err := relay.SendGlobal(context.Background(), "alice", "two")
	require.NoError(t, err)
	private, _, err := relay.SendPrivate(context.Background(), "alice", "bob", "psst")
	require.NoError(t, err)

	assert.Equal(t, uint64(1), first.Seq)
	assert.Equal(t, uint64(2), second.Seq)
	assert.Equal(t, uint64(1), private.Seq, "each room counts independently")
}

func TestJoinIsIdempotent(t *testing.T) {
	relay, pub, _ := newTestRelay(t, Config{})
	relay.Join("alice", "conn-1")
	relay.Join("alice", "conn-1")

	assert.Equal(t, []string{"conn-1"}, relay.Members("alice"))

	_, _, err := relay.SendPrivate(context.Background(), "bob", "alice", "hi")
	require.NoError(t, err)
	assert.Len(t, pub.published(), 1, "a double join must not double deliveries")
}

func TestSendPrivateReachesReceiverAndSenderRooms(t *testing.T) {
	relay, pub, _ := newTestRelay(t, Config{})
	relay.Join("bob", "conn-bob")
	relay.Join("alice", "conn-alice")

	msg, outcome, err := relay.SendPrivate(context.Background(), "alice", "bob", "psst")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDelivered, outcome)
	assert.Equal(t, "bob", msg.Room)

	recipients := make(map[string]bool)
	for _, out := range pub.published() {
		recipients[out.Metadata[websocket.MetaRecipientID]] = true

		event, payload := decodePayload(t, out.Payload)
		assert.Equal(t, websocket.EventReceivePrivate, event)
		assert.Equal(t, "alice", payload.Username)
		assert.Equal(t, "psst", payload.Message)
	}
	assert.Equal(t, map[string]bool{"conn-bob": true, "conn-alice": true}, recipients)
}

func TestSendPrivateDeliversOnceToSharedConnection(t *testing.T) {
	relay, pub, _ := newTestRelay(t, Config{})
	relay.Join("bob", "conn-1")
	relay.Join("alice", "conn-1")

	_, _, err := relay.SendPrivate(context.Background(), "alice", "bob", "psst")

	require.NoError(t, err)
	assert.Len(t, pub.published(), 1)
}

func TestSendPrivateToEmptyRoomIsSilent(t *testing.T) {
	relay, pub, store := newTestRelay(t, Config{PersistPrivate: false})

	msg, outcome, err := relay.SendPrivate(context.Background(), "alice", "bob", "anyone there")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDelivered, outcome)
	assert.NotNil(t, msg)
	assert.Empty(t, pub.published())
	assert.Zero(t, store.count())
}

func TestSendPrivateRejectsEmptyReceiver(t *testing.T) {
	relay, pub, _ := newTestRelay(t, Config{})

	msg, outcome, err := relay.SendPrivate(context.Background(), "alice", "", "psst")

	assert.Nil(t, msg)
	assert.Equal(t, domain.OutcomeRejected, outcome)
	assert.True(t, domain.IsValidation(err))
	assert.Empty(t, pub.published())
}

func TestSendPrivatePersistsWhenEnabled(t *testing.T) {
	relay, _, store := newTestRelay(t, Config{PersistPrivate: true})
	relay.Join("bob", "conn-bob")

	_, _, err := relay.SendPrivate(context.Background(), "alice", "bob", "psst")

	require.NoError(t, err)
	require.Equal(t, 1, store.count())
	assert.Equal(t, "bob", store.appended[0].Room)
}

func TestLeavePurgesEveryMembership(t *testing.T) {
	relay, _, _ := newTestRelay(t, Config{})
	relay.Join(GlobalRoom, "conn-1")
	relay.Join("alice", "conn-1")
	relay.Join(GlobalRoom, "conn-2")

	relay.Leave("conn-1")

	assert.Equal(t, []string{"conn-2"}, relay.Members(GlobalRoom))
	assert.Empty(t, relay.Members("alice"))

	relay.Leave("conn-unknown")
	assert.Equal(t, []string{"conn-2"}, relay.Members(GlobalRoom))
}

func TestHandleGlobalSendFromBus(t *testing.T) {
	relay, pub, _ := newTestRelay(t, Config{})
	relay.Join(GlobalRoom, "conn-1")

	payload, err := json.Marshal(globalSendPayload{Username: "alice", Message: "hello"})
	require.NoError(t, err)

	err = relay.handleGlobalSend(context.Background(), pubsub.Message{
		Topic:   TopicGlobalSend.Name(),
		Payload: payload,
	})

	require.NoError(t, err)
	require.Len(t, pub.published(), 1)
}

func TestHandlersDropMalformedPayloads(t *testing.T) {
	relay, pub, _ := newTestRelay(t, Config{})
	relay.Join(GlobalRoom, "conn-1")

	handlers := map[string]pubsub.Handler{
		"global send":  relay.handleGlobalSend,
		"join":         relay.handleJoin,
		"private send": relay.handlePrivateSend,
	}
	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			err := handler(context.Background(), pubsub.Message{Payload: []byte("not json")})
			assert.NoError(t, err, "malformed input is dropped, never an error")
		})
	}
	assert.Empty(t, pub.published())
}

func TestHandleJoinRequiresConnectionMetadata(t *testing.T) {
	relay, _, _ := newTestRelay(t, Config{})

	payload, err := json.Marshal(joinPayload{Username: "alice"})
	require.NoError(t, err)

	err = relay.handleJoin(context.Background(), pubsub.Message{Payload: payload})
	require.NoError(t, err)
	assert.Empty(t, relay.Members("alice"))

	err = relay.handleJoin(context.Background(), pubsub.Message{
		Payload:  payload,
		Metadata: map[string]string{"connection_id": "conn-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"conn-1"}, relay.Members("alice"))
}

func TestLifecycleEventsDriveGlobalMembership(t *testing.T) {
	relay, _, _ := newTestRelay(t, Config{})

	ready, err := json.Marshal(websocket.LifecycleEvent{ConnectionID: "conn-1", Username: "alice"})
	require.NoError(t, err)
	require.NoError(t, relay.handleClientReady(context.Background(), pubsub.Message{Payload: ready}))
	assert.Equal(t, []string{"conn-1"}, relay.Members(GlobalRoom))

	gone, err := json.Marshal(websocket.LifecycleEvent{ConnectionID: "conn-1", Username: "alice", Reason: "closed"})
	require.NoError(t, err)
	require.NoError(t, relay.handleClientDisconnected(context.Background(), pubsub.Message{Payload: gone}))
	assert.Empty(t, relay.Members(GlobalRoom))
}
