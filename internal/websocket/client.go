package websocket

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/coder/websocket"
)

const (
	// writeWait bounds a single outbound write.
	writeWait = 10 * time.Second
	// sendBuffer is the per-client outbound queue; when it fills, messages
	// to that client are dropped rather than stalling the bridge.
	sendBuffer = 256
)

// Client represents a single connected WebSocket client.
type Client struct {
	// ID is the unique connection identifier, assigned at upgrade.
	ID string
	// Username is the identity supplied at connect time; may be empty for
	// sockets opened before login, in which case event payloads carry it.
	Username string

	conn   *websocket.Conn
	send   chan []byte
	bridge *Bridge
}

// readPump pumps messages from the WebSocket connection into the bridge.
func (c *Client) readPump() {
	defer func() {
		c.bridge.drop(c, "client_closed")
		c.conn.Close(websocket.StatusNormalClosure, "Client disconnected")
	}()

	for {
		_, message, err := c.conn.Read(context.Background())
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || websocket.CloseStatus(err) == websocket.StatusGoingAway {
				slog.Info("WebSocket closed normally by client", "connectionID", c.ID)
			} else if err != io.EOF {
				slog.Error("WebSocket read error", "connectionID", c.ID, "error", err)
			}
			break
		}

		c.bridge.route(c, message)
	}
}

// writePump pumps messages from the client's send channel to the connection.
func (c *Client) writePump() {
	defer func() {
		c.conn.Close(websocket.StatusNormalClosure, "Server-side cleanup")
	}()

	for {
		message, ok := <-c.send
		if !ok {
			// The bridge closed the channel.
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		err := c.conn.Write(ctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			slog.Error("WebSocket write error", "connectionID", c.ID, "error", err)
			return
		}
	}
}

// enqueue sends a message to the client without blocking the caller.
func (c *Client) enqueue(msg []byte) {
	select {
	case c.send <- msg:
	default:
		slog.Warn("Client send channel full, dropping message", "connectionID", c.ID)
	}
}
