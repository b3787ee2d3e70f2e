package realtime

import (
	"encoding/json"
	"log/slog"

	"github.com/chatwire/chatwire/internal/domain"
)

// Event kinds pushed to connected clients.
const (
	EventPresenceSnapshot = "presence-snapshot"
	EventNewMessage       = "new-message"
	EventNewGroupMessage  = "new-group-message"
	EventMessageDeleted   = "message-deleted"
	EventNewGroup         = "new-group"
	EventGroupUpdated     = "group-updated"
	EventRemovedFromGroup = "removed-from-group"
	EventGroupDeleted     = "group-deleted"
	EventTyping           = "typing"
	EventStopTyping       = "stop-typing"
)

// Event is an immutable outbound value delivered to client connections.
// MessageID carries the persisted message id for message events so that
// consumers can de-duplicate deliveries; it is empty for other kinds.
type Event struct {
	Kind      string `json:"event"`
	MessageID string `json:"messageId,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

// Encode marshals the event for the wire. Encoding failures are logged and
// produce nil; emission is fire-and-forget so a bad payload degrades to
// "no delivery" rather than an error.
func (e Event) Encode() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		slog.Error("Failed to encode outbound event", "kind", e.Kind, "error", err)
		return nil
	}
	return data
}

// PresencePayload is the payload of a presence-snapshot event.
type PresencePayload struct {
	Users []string `json:"users"`
}

// GroupMessagePayload is the payload of a new-group-message event.
type GroupMessagePayload struct {
	GroupID string          `json:"groupId"`
	Message *domain.Message `json:"message"`
}

// DeletedPayload is the payload of a message-deleted event. Exactly one of
// UserID and GroupID is set, mirroring the deleted message's addressing.
type DeletedPayload struct {
	MessageID string `json:"messageId"`
	UserID    string `json:"userId,omitempty"`
	GroupID   string `json:"groupId,omitempty"`
}

// GroupRefPayload carries just a group id, used by removed-from-group and
// group-deleted events.
type GroupRefPayload struct {
	GroupID string `json:"groupId"`
}

// TypingPayload is the payload of the ephemeral typing / stop-typing relays.
type TypingPayload struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}
