package groups

import "sync"

// MemberIndex is a set-valued cache of groupID -> member user ids, rebuilt on
// every membership mutation. It makes membership queries O(1) for the fanout
// read path instead of re-deriving from the persisted member array. The
// persisted group stays the source of truth; the index is only a cache of it.
type MemberIndex struct {
	mu      sync.RWMutex
	members map[string]map[string]struct{}
}

// NewMemberIndex creates an empty index.
func NewMemberIndex() *MemberIndex {
	return &MemberIndex{
		members: make(map[string]map[string]struct{}),
	}
}

// Rebuild replaces the cached member set for the group.
func (i *MemberIndex) Rebuild(groupID string, memberIDs []string) {
	if groupID == "" {
		return
	}

	set := make(map[string]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		set[id] = struct{}{}
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.members[groupID] = set
}

// Drop removes the group from the index.
func (i *MemberIndex) Drop(groupID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.members, groupID)
}

// Contains reports whether userID is cached as a member of the group. The
// second return value is false when the group is not in the index at all, in
// which case the caller must consult the persisted group.
func (i *MemberIndex) Contains(groupID, userID string) (member, cached bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	set, ok := i.members[groupID]
	if !ok {
		return false, false
	}
	_, member = set[userID]
	return member, true
}

// MemberIDs returns the cached member ids for the group.
func (i *MemberIndex) MemberIDs(groupID string) ([]string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	set, ok := i.members[groupID]
	if !ok {
		return nil, false
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids, true
}
