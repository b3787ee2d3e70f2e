package presence

import (
	"log/slog"
	"sort"
	"sync"
)

// Registry is the single source of truth for which users are currently
// online. It maps a user id to the connection id of their live socket.
//
// The registry applies last-connection-wins semantics: registering a user who
// is already online overwrites the stored connection id, so presence always
// reflects the most recent socket. Any earlier socket stays connected and
// keeps its room memberships, but no longer represents the user here.
type Registry struct {
	mu     sync.RWMutex
	conns  map[string]string // userID -> connID
	logger *slog.Logger
}

// NewRegistry creates an empty presence registry. Each server process owns
// exactly one instance, injected into the components that need it.
func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[string]string),
		logger: slog.Default().With("service", "presence"),
	}
}

// Register records connID as the live connection for userID, overwriting any
// previous entry. An empty userID is silently ignored; presence bookkeeping
// must never destabilize the connection lifecycle.
func (r *Registry) Register(userID, connID string) {
	if userID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.conns[userID]; ok && prev != connID {
		r.logger.Info("Presence superseded by newer connection",
			"user_id", userID, "previous_conn", prev, "conn_id", connID)
	}
	r.conns[userID] = connID
}

// Unregister removes the presence entry whose connection matches connID.
// If connID is not the authoritative connection for any user (for example a
// superseded socket disconnecting), this is a no-op.
func (r *Registry) Unregister(connID string) {
	if connID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for userID, id := range r.conns {
		if id == connID {
			delete(r.conns, userID)
			r.logger.Info("User went offline", "user_id", userID, "conn_id", connID)
			return
		}
	}
}

// Lookup returns the connection id currently registered for userID.
func (r *Registry) Lookup(userID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	connID, ok := r.conns[userID]
	return connID, ok
}

// Snapshot returns the set of user ids currently online, sorted for stable
// presence payloads.
func (r *Registry) Snapshot() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]string, 0, len(r.conns))
	for userID := range r.conns {
		users = append(users, userID)
	}
	sort.Strings(users)
	return users
}
