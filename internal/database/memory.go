package database

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chatwire/chatwire/internal/domain"
)

// MemoryStore is an in-memory implementation of the repository interfaces.
// It backs tests and the STORE_BACKEND=memory mode of the server.
type MemoryStore struct {
	mu       sync.RWMutex
	messages map[string]domain.Message
	groups   map[string]domain.Group
	users    map[string]domain.User
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		messages: make(map[string]domain.Message),
		groups:   make(map[string]domain.Group),
		users:    make(map[string]domain.User),
	}
}

var (
	_ domain.MessageRepository = (*MemoryStore)(nil)
	_ domain.GroupRepository   = (*MemoryStore)(nil)
	_ domain.UserRepository    = (*MemoryStore)(nil)
)

// CreateMessage stores a copy of the message under a fresh id.
func (s *MemoryStore) CreateMessage(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := *msg
	created.ID = uuid.NewString()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	s.messages[created.ID] = created

	result := created
	return &result, nil
}

// FindMessageByID returns the message with the given id, or nil.
func (s *MemoryStore) FindMessageByID(ctx context.Context, id string) (*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[id]
	if !ok {
		return nil, nil
	}
	result := msg
	return &result, nil
}

// DeleteMessage removes the message. Idempotent.
func (s *MemoryStore) DeleteMessage(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.messages, id)
	return nil
}

// DeleteGroupMessages removes every message belonging to the group.
func (s *MemoryStore) DeleteGroupMessages(ctx context.Context, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, msg := range s.messages {
		if msg.GroupID == groupID {
			delete(s.messages, id)
		}
	}
	return nil
}

// CreateGroup stores a copy of the group under a fresh id.
func (s *MemoryStore) CreateGroup(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := *group
	created.ID = uuid.NewString()
	created.Members = append([]domain.GroupMember(nil), group.Members...)
	s.groups[created.ID] = created

	result := created
	result.Members = append([]domain.GroupMember(nil), created.Members...)
	return &result, nil
}

// FindGroupByID returns the group with the given id, or nil.
func (s *MemoryStore) FindGroupByID(ctx context.Context, id string) (*domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	group, ok := s.groups[id]
	if !ok {
		return nil, nil
	}
	result := group
	result.Members = append([]domain.GroupMember(nil), group.Members...)
	return &result, nil
}

// SaveGroup overwrites the stored group.
func (s *MemoryStore) SaveGroup(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[group.ID]; !ok {
		return nil, domain.ErrNotFound
	}

	saved := *group
	saved.Members = append([]domain.GroupMember(nil), group.Members...)
	s.groups[saved.ID] = saved

	result := saved
	result.Members = append([]domain.GroupMember(nil), saved.Members...)
	return &result, nil
}

// DeleteGroup removes the group. Idempotent.
func (s *MemoryStore) DeleteGroup(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.groups, id)
	return nil
}

// FindUserByID returns the user with the given id, or nil.
func (s *MemoryStore) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	result := user
	return &result, nil
}

// CreateUser stores a copy of the user. An explicit id is kept, which lets
// tests and the memory mode seed well-known identities.
func (s *MemoryStore) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := *user
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	s.users[created.ID] = created

	result := created
	return &result, nil
}
