package client

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is a server-pushed event as seen by a client. Payload is left raw
// so callers can decode only the kinds they care about.
type Event struct {
	Kind      string          `json:"event"`
	MessageID string          `json:"messageId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// dedupeKey identifies one delivery of one event for duplicate suppression.
// The kind is part of the key: a message-deleted event legitimately carries
// the same message id as the new-message that preceded it and must not be
// suppressed by it. Events without a message id are never deduplicated.
func dedupeKey(ev Event) string {
	if ev.MessageID == "" {
		return ""
	}
	return ev.Kind + ":" + ev.MessageID
}

// controlFrame mirrors the server's inbound control event shape.
type controlFrame struct {
	Action  string `json:"action"`
	UserID  string `json:"userId,omitempty"`
	GroupID string `json:"groupId,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

// Client is a WebSocket client for the realtime endpoint. It handles the
// control protocol (register, room join/leave, typing relays) and exposes
// received events on a channel, suppressing duplicate message deliveries.
type Client struct {
	conn   *websocket.Conn
	events chan Event
	dedupe *dedupeCache

	mu     sync.Mutex
	closed bool
}

// Dial connects to the realtime endpoint at url (ws:// or wss://). Extra
// headers carry the session cookie when the server requires one.
func Dial(url string, header http.Header) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	c := &Client{
		conn:   conn,
		events: make(chan Event, 64),
		dedupe: newDedupeCache(time.Now),
	}
	go c.readLoop()
	return c, nil
}

// Events returns the stream of server events. The channel is closed when
// the connection ends.
func (c *Client) Events() <-chan Event {
	return c.events
}

// Register announces the caller's identity on this connection.
func (c *Client) Register(userID string) error {
	return c.send(controlFrame{Action: "register", UserID: userID})
}

// JoinGroup subscribes this connection to a group room.
func (c *Client) JoinGroup(groupID string) error {
	return c.send(controlFrame{Action: "join-group", GroupID: groupID})
}

// LeaveGroup unsubscribes this connection from a group room.
func (c *Client) LeaveGroup(groupID string) error {
	return c.send(controlFrame{Action: "leave-group", GroupID: groupID})
}

// Typing signals a typing indicator to the given room.
func (c *Client) Typing(roomID string) error {
	return c.send(controlFrame{Action: "typing", RoomID: roomID})
}

// StopTyping clears a typing indicator in the given room.
func (c *Client) StopTyping(roomID string) error {
	return c.send(controlFrame{Action: "stop-typing", RoomID: roomID})
}

// Close tears down the connection. The events channel is closed by the
// read loop shortly after.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	deadline := time.Now().Add(time.Second)
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	return c.conn.Close()
}

func (c *Client) send(frame controlFrame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("encode control frame: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("connection closed")
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Client) readLoop() {
	defer close(c.events)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("Realtime client read ended", "error", err)
			}
			return
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			slog.Warn("Ignoring malformed server event", "error", err)
			continue
		}
		if c.dedupe.Seen(dedupeKey(ev)) {
			continue
		}

		c.events <- ev
	}
}
