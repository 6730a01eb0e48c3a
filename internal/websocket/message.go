package websocket

import "encoding/json"

// Event is the JSON envelope exchanged with clients in both directions:
// a name identifying the event and its raw payload.
type Event struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Client-to-server event names.
const (
	EventSendGlobal  = "send_global_message"
	EventJoin        = "join"
	EventSendPrivate = "send_private_message"
)

// Server-to-client event names.
const (
	EventHistory        = "history"
	EventUserCount      = "user_count_update"
	EventReceiveGlobal  = "receive_global_message"
	EventReceivePrivate = "receive_private_message"
)

// Encode marshals an outbound event envelope.
func Encode(event string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{Event: event, Payload: raw})
}

// Routes maps client event names to the bus topics their payloads are
// published on. Unroutable events are dropped; the bridge never lets a
// client pick arbitrary topics.
type Routes map[string]string
