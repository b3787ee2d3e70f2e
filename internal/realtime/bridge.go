package realtime

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/chatwire/chatwire/internal/presence"
)

// Bridge owns the lifecycle of every WebSocket connection in the process and
// is the emission path for all outbound events. A connection enters
// unauthenticated, becomes active when the client presents an identity via
// the register control event, and is torn down on transport close. There is
// no way back to unauthenticated; a new identity needs a new connection.
type Bridge struct {
	registry *presence.Registry
	rooms    *Rooms

	mu      sync.RWMutex
	clients map[string]*Client // connID -> client

	logger *slog.Logger
}

// NewBridge creates a bridge backed by the given presence registry.
func NewBridge(registry *presence.Registry) *Bridge {
	return &Bridge{
		registry: registry,
		rooms:    NewRooms(),
		clients:  make(map[string]*Client),
		logger:   slog.Default().With("service", "realtime"),
	}
}

// Rooms exposes the room membership fabric.
func (b *Bridge) Rooms() *Rooms {
	return b.rooms
}

// Handler returns an echo.HandlerFunc that upgrades the request to a
// WebSocket connection and starts the client pumps. The connection starts
// unauthenticated; identity arrives via the register control event.
func (b *Bridge) Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
			InsecureSkipVerify: true, // In production, check origin.
		})
		if err != nil {
			b.logger.Error("Failed to upgrade connection to WebSocket", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "websocket upgrade failed")
		}

		client := &Client{
			ID:     uuid.NewString(),
			conn:   conn,
			send:   make(chan []byte, 256),
			bridge: b,
		}
		b.attach(client)

		go client.writePump()
		go client.readPump()

		return nil
	}
}

// attach registers a new, still-unauthenticated connection.
func (b *Bridge) attach(client *Client) {
	client.bridge = b

	b.mu.Lock()
	b.clients[client.ID] = client
	total := len(b.clients)
	b.mu.Unlock()

	b.logger.Info("Connection attached", "connID", client.ID, "total_connections", total)
}

// disconnect tears down a connection: room memberships and the presence
// entry are released unconditionally, keyed by connection id, and the
// updated presence snapshot is broadcast. Idempotent.
func (b *Bridge) disconnect(client *Client) {
	b.mu.Lock()
	if _, ok := b.clients[client.ID]; !ok {
		b.mu.Unlock()
		return
	}
	delete(b.clients, client.ID)
	b.mu.Unlock()

	b.rooms.LeaveAll(client.ID)
	b.registry.Unregister(client.ID)
	client.Close()

	b.logger.Info("Connection closed", "connID", client.ID, "userID", client.UserID())
	b.BroadcastPresence()
}

// handleControl processes a client-originated control event. Malformed input
// degrades to a no-op; bookkeeping must never crash the connection.
func (b *Bridge) handleControl(client *Client, frame controlFrame) {
	switch frame.Action {
	case ActionRegister:
		b.register(client, frame.UserID)

	case ActionJoinGroup:
		if client.UserID() == "" {
			return
		}
		b.rooms.Join(client.ID, frame.GroupID)

	case ActionLeaveGroup:
		if client.UserID() == "" {
			return
		}
		b.rooms.Leave(client.ID, frame.GroupID)

	case ActionTyping:
		b.relayTyping(client, frame.RoomID, EventTyping)

	case ActionStopTyping:
		b.relayTyping(client, frame.RoomID, EventStopTyping)

	default:
		b.logger.Warn("Unknown control action", "connID", client.ID, "action", frame.Action)
	}
}

// register moves the connection from unauthenticated to active: the presence
// registry records it (last-connection-wins), the connection auto-joins its
// identity room, and every client receives the new presence snapshot.
func (b *Bridge) register(client *Client, userID string) {
	if userID == "" {
		return
	}
	if current := client.UserID(); current != "" {
		// Already active. Re-registering the same identity is idempotent;
		// switching identities requires a new connection.
		if current != userID {
			b.logger.Warn("Rejecting identity change on active connection",
				"connID", client.ID, "current", current, "requested", userID)
		}
		return
	}

	client.setUserID(userID)
	b.registry.Register(userID, client.ID)
	b.rooms.Join(client.ID, userID)

	b.logger.Info("Connection registered", "connID", client.ID, "userID", userID)
	b.BroadcastPresence()
}

// relayTyping forwards an ephemeral typing indicator to every other
// connection in the room. Never persisted.
func (b *Bridge) relayTyping(client *Client, roomID, kind string) {
	userID := client.UserID()
	if userID == "" || roomID == "" {
		return
	}
	b.SendToRoomExcept(roomID, client.ID, Event{
		Kind:    kind,
		Payload: TypingPayload{RoomID: roomID, UserID: userID},
	})
}

// SendToConn emits an event to a single connection. Unknown connection ids
// are ignored; failure to deliver is not an error.
func (b *Bridge) SendToConn(connID string, ev Event) {
	b.mu.RLock()
	client, ok := b.clients[connID]
	b.mu.RUnlock()

	if ok {
		client.SendEvent(ev)
	}
}

// SendToRoom emits an event to every connection joined to the room.
func (b *Bridge) SendToRoom(roomID string, ev Event) {
	data := ev.Encode()
	if data == nil {
		return
	}

	for _, connID := range b.rooms.Members(roomID) {
		b.mu.RLock()
		client, ok := b.clients[connID]
		b.mu.RUnlock()
		if ok {
			client.SendMessage(data)
		}
	}
}

// SendToRoomExcept emits an event to every connection in the room except one.
func (b *Bridge) SendToRoomExcept(roomID, exceptConnID string, ev Event) {
	data := ev.Encode()
	if data == nil {
		return
	}

	for _, connID := range b.rooms.Members(roomID) {
		if connID == exceptConnID {
			continue
		}
		b.mu.RLock()
		client, ok := b.clients[connID]
		b.mu.RUnlock()
		if ok {
			client.SendMessage(data)
		}
	}
}

// Broadcast emits an event to every connected client, authenticated or not.
func (b *Bridge) Broadcast(ev Event) {
	data := ev.Encode()
	if data == nil {
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, client := range b.clients {
		client.SendMessage(data)
	}
}

// BroadcastPresence pushes the current presence snapshot to all connections
// so every client's online-user list stays current.
func (b *Bridge) BroadcastPresence() {
	b.Broadcast(Event{
		Kind:    EventPresenceSnapshot,
		Payload: PresencePayload{Users: b.registry.Snapshot()},
	})
}
