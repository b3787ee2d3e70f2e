package fanout

import (
	"log/slog"

	"github.com/samber/lo"

	"github.com/chatwire/chatwire/internal/domain"
	"github.com/chatwire/chatwire/internal/realtime"
)

// Sink is the emission surface the fanout core needs from the realtime
// bridge: targeted per-connection delivery and identity/group room delivery.
type Sink interface {
	SendToConn(connID string, ev realtime.Event)
	SendToRoom(roomID string, ev realtime.Event)
}

// PresenceLookup resolves a user identity to its live connection, if any.
type PresenceLookup interface {
	Lookup(userID string) (string, bool)
}

// Dispatcher routes freshly persisted messages to the live connections of
// their recipients. It is called at most once per persisted message, performs
// no de-duplication itself, and never blocks on persistence: emission is
// fire-and-forget, and an offline recipient simply receives nothing.
type Dispatcher struct {
	presence PresenceLookup
	sink     Sink
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher over the given presence registry and
// event sink.
func NewDispatcher(presence PresenceLookup, sink Sink) *Dispatcher {
	return &Dispatcher{
		presence: presence,
		sink:     sink,
		logger:   slog.Default().With("service", "fanout"),
	}
}

// Dispatch delivers a new-message event to every currently-connected
// recipient. The sender's own identity is always excluded; the send response
// already gave the sender the authoritative copy.
func (d *Dispatcher) Dispatch(msg *domain.Message, spec RecipientSpec) {
	switch spec.Kind {
	case RecipientDirect:
		if spec.ReceiverID == "" || spec.ReceiverID == spec.SenderID {
			return
		}
		connID, ok := d.presence.Lookup(spec.ReceiverID)
		if !ok {
			d.logger.Debug("Receiver offline, no delivery", "receiver", spec.ReceiverID, "messageID", msg.ID)
			return
		}
		d.sink.SendToConn(connID, realtime.Event{
			Kind:      realtime.EventNewMessage,
			MessageID: msg.ID,
			Payload:   msg,
		})

	case RecipientGroup:
		ev := realtime.Event{
			Kind:      realtime.EventNewGroupMessage,
			MessageID: msg.ID,
			Payload: realtime.GroupMessagePayload{
				GroupID: spec.GroupID,
				Message: msg,
			},
		}
		for _, memberID := range lo.Without(spec.MemberIDs, spec.SenderID) {
			connID, ok := d.presence.Lookup(memberID)
			if !ok {
				continue
			}
			d.sink.SendToConn(connID, ev)
		}

	default:
		d.logger.Warn("Unknown recipient kind, dropping dispatch", "kind", spec.Kind)
	}
}

// DispatchDeletion mirrors Dispatch's resolution logic, emitting a
// message-deleted event instead of a new-message event.
func (d *Dispatcher) DispatchDeletion(messageID string, spec RecipientSpec) {
	switch spec.Kind {
	case RecipientDirect:
		if spec.ReceiverID == "" || spec.ReceiverID == spec.SenderID {
			return
		}
		connID, ok := d.presence.Lookup(spec.ReceiverID)
		if !ok {
			return
		}
		d.sink.SendToConn(connID, realtime.Event{
			Kind:      realtime.EventMessageDeleted,
			MessageID: messageID,
			Payload:   realtime.DeletedPayload{MessageID: messageID, UserID: spec.ReceiverID},
		})

	case RecipientGroup:
		ev := realtime.Event{
			Kind:      realtime.EventMessageDeleted,
			MessageID: messageID,
			Payload:   realtime.DeletedPayload{MessageID: messageID, GroupID: spec.GroupID},
		}
		for _, memberID := range lo.Without(spec.MemberIDs, spec.SenderID) {
			connID, ok := d.presence.Lookup(memberID)
			if !ok {
				continue
			}
			d.sink.SendToConn(connID, ev)
		}

	default:
		d.logger.Warn("Unknown recipient kind, dropping deletion", "kind", spec.Kind)
	}
}
