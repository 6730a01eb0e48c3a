package rooms

import "github.com/parley-chat/parley/internal/topics"

// Module topics for the room relay. Client socket events are routed onto
// these by the WebSocket bridge.
var (
	// TopicGlobalSend carries send_global_message payloads.
	TopicGlobalSend = topics.Define("rooms", "chat.global.send",
		"A client message addressed to the global room")

	// TopicRoomJoin carries join payloads subscribing a connection to a
	// user's private room.
	TopicRoomJoin = topics.Define("rooms", "chat.room.join",
		"A client request to join its private room")

	// TopicPrivateSend carries send_private_message payloads.
	TopicPrivateSend = topics.Define("rooms", "chat.private.send",
		"A client message addressed to another user's private room")
)
