package fanout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatwire/chatwire/internal/domain"
	"github.com/chatwire/chatwire/internal/realtime"
)

func testGroup(id string, memberIDs ...string) *domain.Group {
	g := &domain.Group{ID: id, Name: "test group"}
	for i, userID := range memberIDs {
		role := domain.RoleMember
		if i == 0 {
			role = domain.RoleAdmin
		}
		g.Members = append(g.Members, domain.GroupMember{UserID: userID, Role: role})
	}
	return g
}

func TestNotifier_CreatedReachesEveryMember(t *testing.T) {
	sink := newRecordingSink()
	n := NewNotifier(sink)

	n.NotifyCreated(testGroup("group1", "alice", "bob", "carol"))

	for _, userID := range []string{"alice", "bob", "carol"} {
		events := sink.roomEvents(userID)
		require.Len(t, events, 1)
		assert.Equal(t, realtime.EventNewGroup, events[0].Kind)
	}
}

func TestNotifier_UpdatedReachesCurrentMembers(t *testing.T) {
	sink := newRecordingSink()
	n := NewNotifier(sink)

	n.NotifyUpdated(testGroup("group1", "alice", "bob"))

	assert.Len(t, sink.roomEvents("alice"), 1)
	assert.Len(t, sink.roomEvents("bob"), 1)
	assert.Empty(t, sink.roomEvents("carol"))
}

func TestNotifier_MemberRemovedAsymmetry(t *testing.T) {
	sink := newRecordingSink()
	n := NewNotifier(sink)

	// mallory has already been removed; the group now holds alice and bob.
	n.NotifyMemberRemoved(testGroup("group1", "alice", "bob"), "mallory")

	for _, userID := range []string{"alice", "bob"} {
		events := sink.roomEvents(userID)
		require.Len(t, events, 1)
		assert.Equal(t, realtime.EventGroupUpdated, events[0].Kind)
	}

	events := sink.roomEvents("mallory")
	require.Len(t, events, 1)
	assert.Equal(t, realtime.EventRemovedFromGroup, events[0].Kind)

	payload, ok := events[0].Payload.(realtime.GroupRefPayload)
	require.True(t, ok)
	assert.Equal(t, "group1", payload.GroupID)
}

func TestNotifier_DeletedUsesFormerMemberSnapshot(t *testing.T) {
	sink := newRecordingSink()
	n := NewNotifier(sink)

	// The group record is gone by now; only the pre-deletion snapshot remains.
	n.NotifyDeleted("group1", []string{"alice", "bob", "mallory"})

	for _, userID := range []string{"alice", "bob", "mallory"} {
		events := sink.roomEvents(userID)
		require.Len(t, events, 1)
		assert.Equal(t, realtime.EventGroupDeleted, events[0].Kind)

		payload, ok := events[0].Payload.(realtime.GroupRefPayload)
		require.True(t, ok)
		assert.Equal(t, "group1", payload.GroupID)
	}
}
