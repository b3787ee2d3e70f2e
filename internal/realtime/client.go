package realtime

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// Client represents a single connected WebSocket client.
type Client struct {
	// ID is the opaque connection identifier, assigned on connect.
	ID string

	conn   *websocket.Conn
	send   chan []byte
	bridge *Bridge

	mu     sync.RWMutex
	userID string
}

// UserID returns the identity registered on this connection, or "" while the
// connection is still unauthenticated.
func (c *Client) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

func (c *Client) setUserID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = id
}

// SendEvent encodes and queues an outbound event for this connection.
func (c *Client) SendEvent(ev Event) {
	if data := ev.Encode(); data != nil {
		c.SendMessage(data)
	}
}

// SendMessage safely sends a message to the client's send channel.
// It uses a read lock to ensure the channel is not closed concurrently.
func (c *Client) SendMessage(msg []byte) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	// A nil channel means the client is already disconnected.
	if c.send == nil {
		return
	}

	select {
	case c.send <- msg:
	default:
		slog.Warn("Client send channel full, dropping message", "connID", c.ID)
	}
}

// Close safely closes the client's send channel.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.send != nil {
		close(c.send)
		c.send = nil
	}
}

// controlFrame is a client-originated control event.
type controlFrame struct {
	Action  string `json:"action"`
	UserID  string `json:"userId,omitempty"`
	GroupID string `json:"groupId,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

// Control actions accepted from clients.
const (
	ActionRegister   = "register"
	ActionJoinGroup  = "join-group"
	ActionLeaveGroup = "leave-group"
	ActionTyping     = "typing"
	ActionStopTyping = "stop-typing"
)

// readPump pumps control frames from the WebSocket connection to the bridge.
// It drives the connection teardown when the transport closes.
func (c *Client) readPump() {
	defer c.bridge.disconnect(c)

	for {
		_, data, err := c.conn.Read(context.Background())
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || websocket.CloseStatus(err) == websocket.StatusGoingAway {
				slog.Info("WebSocket closed normally by client", "connID", c.ID)
			} else if err != io.EOF {
				slog.Error("WebSocket read error", "connID", c.ID, "error", err)
			}
			return
		}

		var frame controlFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			slog.Warn("Ignoring malformed control frame", "connID", c.ID, "error", err)
			continue
		}
		c.bridge.handleControl(c, frame)
	}
}

// writePump pumps messages from the client's send channel to the WebSocket
// connection.
func (c *Client) writePump() {
	defer c.conn.Close(websocket.StatusNormalClosure, "Server-side cleanup")

	// Capture the channel once; Close nils the field under lock.
	c.mu.RLock()
	send := c.send
	c.mu.RUnlock()
	if send == nil {
		return
	}

	for {
		message, ok := <-send
		if !ok {
			// The bridge closed the channel.
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := c.conn.Write(ctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			slog.Error("WebSocket write error", "connID", c.ID, "error", err)
			return
		}
	}
}
