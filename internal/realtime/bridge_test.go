package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatwire/chatwire/internal/presence"
)

func newTestBridge() *Bridge {
	return NewBridge(presence.NewRegistry())
}

func newTestClient(b *Bridge, id string) *Client {
	c := &Client{
		ID:   id,
		send: make(chan []byte, 32),
	}
	b.attach(c)
	return c
}

// drainEvents decodes everything currently queued on the client's send
// channel without blocking.
func drainEvents(t *testing.T, c *Client) []Event {
	t.Helper()
	var events []Event
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return events
			}
			var ev Event
			require.NoError(t, json.Unmarshal(data, &ev))
			events = append(events, ev)
		default:
			return events
		}
	}
}

func eventKinds(events []Event) []string {
	kinds := make([]string, 0, len(events))
	for _, ev := range events {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}

func TestBridge_RegisterBroadcastsPresenceToAll(t *testing.T) {
	b := newTestBridge()
	c1 := newTestClient(b, "conn1")
	c2 := newTestClient(b, "conn2")

	b.handleControl(c1, controlFrame{Action: ActionRegister, UserID: "alice"})

	// Both connections get the snapshot, including the unauthenticated one.
	for _, c := range []*Client{c1, c2} {
		events := drainEvents(t, c)
		require.Len(t, events, 1)
		assert.Equal(t, EventPresenceSnapshot, events[0].Kind)
	}

	connID, ok := b.registry.Lookup("alice")
	require.True(t, ok)
	assert.Equal(t, "conn1", connID)

	// Identity room auto-joined.
	assert.Equal(t, []string{"conn1"}, b.rooms.Members("alice"))
}

func TestBridge_RegisterEmptyIdentityIsNoop(t *testing.T) {
	b := newTestBridge()
	c1 := newTestClient(b, "conn1")

	b.handleControl(c1, controlFrame{Action: ActionRegister, UserID: ""})

	assert.Empty(t, b.registry.Snapshot())
	assert.Empty(t, drainEvents(t, c1))
}

func TestBridge_RegisterTwiceKeepsFirstIdentity(t *testing.T) {
	b := newTestBridge()
	c1 := newTestClient(b, "conn1")

	b.handleControl(c1, controlFrame{Action: ActionRegister, UserID: "alice"})
	b.handleControl(c1, controlFrame{Action: ActionRegister, UserID: "mallory"})

	assert.Equal(t, "alice", c1.UserID())
	assert.Equal(t, []string{"alice"}, b.registry.Snapshot())
}

func TestBridge_GroupRoomJoinRequiresRegistration(t *testing.T) {
	b := newTestBridge()
	c1 := newTestClient(b, "conn1")

	b.handleControl(c1, controlFrame{Action: ActionJoinGroup, GroupID: "group1"})
	assert.Empty(t, b.rooms.Members("group1"))

	b.handleControl(c1, controlFrame{Action: ActionRegister, UserID: "alice"})
	b.handleControl(c1, controlFrame{Action: ActionJoinGroup, GroupID: "group1"})
	assert.Equal(t, []string{"conn1"}, b.rooms.Members("group1"))

	b.handleControl(c1, controlFrame{Action: ActionLeaveGroup, GroupID: "group1"})
	assert.Empty(t, b.rooms.Members("group1"))
}

func TestBridge_DisconnectReleasesEverything(t *testing.T) {
	b := newTestBridge()
	c1 := newTestClient(b, "conn1")
	c2 := newTestClient(b, "conn2")

	b.handleControl(c1, controlFrame{Action: ActionRegister, UserID: "alice"})
	b.handleControl(c2, controlFrame{Action: ActionRegister, UserID: "bob"})
	b.handleControl(c1, controlFrame{Action: ActionJoinGroup, GroupID: "group1"})
	drainEvents(t, c1)
	drainEvents(t, c2)

	b.disconnect(c1)

	assert.Equal(t, []string{"bob"}, b.registry.Snapshot())
	assert.Empty(t, b.rooms.Members("alice"))
	assert.Empty(t, b.rooms.Members("group1"))

	// The survivor observes the updated snapshot.
	events := drainEvents(t, c2)
	require.Len(t, events, 1)
	assert.Equal(t, EventPresenceSnapshot, events[0].Kind)

	payload, err := json.Marshal(events[0].Payload)
	require.NoError(t, err)
	var snapshot PresencePayload
	require.NoError(t, json.Unmarshal(payload, &snapshot))
	assert.Equal(t, []string{"bob"}, snapshot.Users)

	// Double disconnect is harmless.
	b.disconnect(c1)
}

func TestBridge_TypingRelayExcludesSender(t *testing.T) {
	b := newTestBridge()
	c1 := newTestClient(b, "conn1")
	c2 := newTestClient(b, "conn2")
	c3 := newTestClient(b, "conn3")

	b.handleControl(c1, controlFrame{Action: ActionRegister, UserID: "alice"})
	b.handleControl(c2, controlFrame{Action: ActionRegister, UserID: "bob"})
	b.handleControl(c3, controlFrame{Action: ActionRegister, UserID: "carol"})
	for _, c := range []*Client{c1, c2, c3} {
		b.handleControl(c, controlFrame{Action: ActionJoinGroup, GroupID: "group1"})
		drainEvents(t, c)
	}

	b.handleControl(c1, controlFrame{Action: ActionTyping, RoomID: "group1"})

	assert.Empty(t, drainEvents(t, c1))
	for _, c := range []*Client{c2, c3} {
		events := drainEvents(t, c)
		require.Len(t, events, 1)
		assert.Equal(t, EventTyping, events[0].Kind)
	}

	b.handleControl(c1, controlFrame{Action: ActionStopTyping, RoomID: "group1"})
	events := drainEvents(t, c2)
	require.Len(t, events, 1)
	assert.Equal(t, EventStopTyping, events[0].Kind)
}

func TestBridge_SendToConnUnknownIsNoop(t *testing.T) {
	b := newTestBridge()
	b.SendToConn("nope", Event{Kind: EventNewMessage})
}
