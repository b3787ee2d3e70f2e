package fanout

import (
	"log/slog"

	"github.com/chatwire/chatwire/internal/domain"
	"github.com/chatwire/chatwire/internal/realtime"
)

// Notifier pushes group membership changes to the identity rooms of every
// affected member. It assumes role checks and persistence have already
// happened upstream; its only job is fanout correctness.
type Notifier struct {
	sink   Sink
	logger *slog.Logger
}

// NewNotifier creates a notifier over the given event sink.
func NewNotifier(sink Sink) *Notifier {
	return &Notifier{
		sink:   sink,
		logger: slog.Default().With("service", "group-notifier"),
	}
}

// NotifyCreated emits new-group with the full group to every member,
// creator included.
func (n *Notifier) NotifyCreated(group *domain.Group) {
	ev := realtime.Event{Kind: realtime.EventNewGroup, Payload: group}
	for _, memberID := range group.MemberIDs() {
		n.sink.SendToRoom(memberID, ev)
	}
}

// NotifyUpdated emits group-updated with the full group to every current
// member.
func (n *Notifier) NotifyUpdated(group *domain.Group) {
	ev := realtime.Event{Kind: realtime.EventGroupUpdated, Payload: group}
	for _, memberID := range group.MemberIDs() {
		n.sink.SendToRoom(memberID, ev)
	}
}

// NotifyMemberRemoved emits group-updated to all remaining members and
// removed-from-group to the removed identity's room. The removed identity is
// no longer in the member list, so it never sees the group-updated event.
func (n *Notifier) NotifyMemberRemoved(group *domain.Group, removedUserID string) {
	n.NotifyUpdated(group)

	if removedUserID == "" {
		return
	}
	n.sink.SendToRoom(removedUserID, realtime.Event{
		Kind:    realtime.EventRemovedFromGroup,
		Payload: realtime.GroupRefPayload{GroupID: group.ID},
	})
}

// NotifyDeleted emits group-deleted to every former member. The member
// snapshot must have been captured before the deletion completed; after it
// there is no member list left to derive recipients from.
func (n *Notifier) NotifyDeleted(groupID string, formerMemberIDs []string) {
	ev := realtime.Event{
		Kind:    realtime.EventGroupDeleted,
		Payload: realtime.GroupRefPayload{GroupID: groupID},
	}
	for _, memberID := range formerMemberIDs {
		n.sink.SendToRoom(memberID, ev)
	}
	n.logger.Debug("Group deletion fanned out", "groupID", groupID, "former_members", len(formerMemberIDs))
}
