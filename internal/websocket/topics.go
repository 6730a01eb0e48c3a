package websocket

import "github.com/parley-chat/parley/internal/topics"

// Framework topics for WebSocket communication. The bridge publishes
// lifecycle events for other services to react to, and subscribes to the
// outbound topics so any service can reach connected clients through the bus.
var (
	// TopicClientReady is published when a client successfully connects.
	TopicClientReady = topics.Define("websocket", "ws.client.ready",
		"Published when a WebSocket client successfully connects and is ready")

	// TopicClientDisconnected is published when a client disconnects.
	TopicClientDisconnected = topics.Define("websocket", "ws.client.disconnected",
		"Published when a WebSocket client disconnects")

	// TopicBroadcast delivers a payload to every connected client.
	TopicBroadcast = topics.Define("websocket", "ws.broadcast",
		"Broadcast a payload to all connected WebSocket clients")

	// TopicDirect delivers a payload to one connection, identified by the
	// recipient_id metadata key.
	TopicDirect = topics.Define("websocket", "ws.direct",
		"Send a payload to a single WebSocket connection")
)

// MetaRecipientID is the metadata key naming the target connection for
// messages on TopicDirect.
const MetaRecipientID = "recipient_id"

// MetaConnectionID is the metadata key the bridge attaches to inbound
// client events, identifying the originating connection.
const MetaConnectionID = "connection_id"

// LifecycleEvent is the payload published on the client ready and
// disconnected topics.
type LifecycleEvent struct {
	ConnectionID string `json:"connectionID"`
	Username     string `json:"username"`
	Reason       string `json:"reason,omitempty"`
}
