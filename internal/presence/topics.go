package presence

import "github.com/parley-chat/parley/internal/topics"

// TopicCountChanged announces every change of the live connection count, so
// services other than the WebSocket clients can observe presence.
var TopicCountChanged = topics.Define("presence", "presence.count.changed",
	"Published whenever the number of live connections changes")
