package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRooms_JoinIsIdempotent(t *testing.T) {
	r := NewRooms()

	r.Join("conn1", "room1")
	r.Join("conn1", "room1")

	assert.Equal(t, []string{"conn1"}, r.Members("room1"))
	assert.Equal(t, []string{"room1"}, r.RoomsOf("conn1"))
}

func TestRooms_LeaveIsIdempotent(t *testing.T) {
	r := NewRooms()

	r.Join("conn1", "room1")
	r.Leave("conn1", "room1")
	r.Leave("conn1", "room1")

	assert.Empty(t, r.Members("room1"))
}

func TestRooms_MembersDerivedAcrossConnections(t *testing.T) {
	r := NewRooms()

	r.Join("conn1", "group1")
	r.Join("conn2", "group1")
	r.Join("conn2", "group2")

	members := r.Members("group1")
	assert.ElementsMatch(t, []string{"conn1", "conn2"}, members)
	assert.Equal(t, []string{"conn2"}, r.Members("group2"))
}

func TestRooms_MalformedInputIsNoop(t *testing.T) {
	r := NewRooms()

	r.Join("", "room1")
	r.Join("conn1", "")
	r.Leave("", "room1")
	r.Leave("conn1", "")
	r.LeaveAll("")

	assert.Empty(t, r.Members("room1"))
	assert.Nil(t, r.Members(""))
}

func TestRooms_LeaveAllReleasesEverything(t *testing.T) {
	r := NewRooms()

	r.Join("conn1", "user1")
	r.Join("conn1", "group1")
	r.Join("conn2", "group1")

	r.LeaveAll("conn1")

	assert.Empty(t, r.Members("user1"))
	assert.Equal(t, []string{"conn2"}, r.Members("group1"))
	assert.Empty(t, r.RoomsOf("conn1"))
}
