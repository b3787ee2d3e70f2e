package realtime

import "sync"

// Rooms tracks which logical rooms each connection has joined. A room is
// keyed either by a user id (identity room) or a group id (group room).
//
// Membership is stored per connection only; Members derives a room's view by
// scanning the per-connection sets, so there is no second source of truth
// that could desync. Cardinality is small enough that the scan is fine.
type Rooms struct {
	mu     sync.RWMutex
	byConn map[string]map[string]struct{} // connID -> set of roomIDs
}

// NewRooms creates an empty room membership fabric.
func NewRooms() *Rooms {
	return &Rooms{
		byConn: make(map[string]map[string]struct{}),
	}
}

// Join adds roomID to the connection's room set. Idempotent; empty ids are
// silently ignored.
func (r *Rooms) Join(connID, roomID string) {
	if connID == "" || roomID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byConn[connID] == nil {
		r.byConn[connID] = make(map[string]struct{})
	}
	r.byConn[connID][roomID] = struct{}{}
}

// Leave removes roomID from the connection's room set. Idempotent.
func (r *Rooms) Leave(connID, roomID string) {
	if connID == "" || roomID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if rooms, ok := r.byConn[connID]; ok {
		delete(rooms, roomID)
		if len(rooms) == 0 {
			delete(r.byConn, connID)
		}
	}
}

// LeaveAll removes the connection from every room. Called unconditionally on
// disconnect, keyed by connection id so a misbehaving client cannot skip it.
func (r *Rooms) LeaveAll(connID string) {
	if connID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byConn, connID)
}

// Members returns the connection ids currently joined to roomID.
func (r *Rooms) Members(roomID string) []string {
	if roomID == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var members []string
	for connID, rooms := range r.byConn {
		if _, ok := rooms[roomID]; ok {
			members = append(members, connID)
		}
	}
	return members
}

// RoomsOf returns the rooms the connection has joined.
func (r *Rooms) RoomsOf(connID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]string, 0, len(r.byConn[connID]))
	for roomID := range r.byConn[connID] {
		rooms = append(rooms, roomID)
	}
	return rooms
}
