package groups

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/chatwire/chatwire/internal/domain"
	"github.com/chatwire/chatwire/internal/fanout"
	"github.com/chatwire/chatwire/internal/pubsub"
)

// Service owns group mutations: creation, membership add/remove, promotion
// and deletion. Every mutation persists first, then publishes the matching
// fanout event, so clients re-querying group state after an event observe a
// consistent result. Role checks happen here, before persistence.
type Service struct {
	groups    domain.GroupRepository
	messages  domain.MessageRepository
	publisher pubsub.Publisher
	index     *MemberIndex
	logger    *slog.Logger
}

// NewService creates a group service.
func NewService(groups domain.GroupRepository, messages domain.MessageRepository, publisher pubsub.Publisher) *Service {
	return &Service{
		groups:    groups,
		messages:  messages,
		publisher: publisher,
		index:     NewMemberIndex(),
		logger:    slog.Default().With("service", "groups"),
	}
}

// Create persists a new group with the creator as admin and the given users
// as members, then notifies every member.
func (s *Service) Create(ctx context.Context, creatorID, name, description string, memberIDs []string) (*domain.Group, error) {
	members := []domain.GroupMember{{UserID: creatorID, Role: domain.RoleAdmin}}
	for _, id := range lo.Uniq(memberIDs) {
		if id == creatorID || id == "" {
			continue
		}
		members = append(members, domain.GroupMember{UserID: id, Role: domain.RoleMember})
	}

	now := time.Now().UTC()
	group := &domain.Group{
		Name:        name,
		Description: description,
		Members:     members,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.groups.CreateGroup(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}

	s.index.Rebuild(created.ID, created.MemberIDs())
	s.publish(ctx, creatorID, fanout.TopicGroupCreated, fanout.GroupCreated{Group: *created})
	return created, nil
}

// AddMembers appends the given users as members. Only an admin may add.
func (s *Service) AddMembers(ctx context.Context, actorID, groupID string, userIDs []string) (*domain.Group, error) {
	group, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsAdmin(actorID) {
		return nil, domain.ErrNotAdmin
	}

	for _, id := range lo.Uniq(userIDs) {
		if id == "" || group.IsMember(id) {
			continue
		}
		group.Members = append(group.Members, domain.GroupMember{UserID: id, Role: domain.RoleMember})
	}
	group.UpdatedAt = time.Now().UTC()

	saved, err := s.groups.SaveGroup(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("save group: %w", err)
	}

	s.index.Rebuild(saved.ID, saved.MemberIDs())
	s.publish(ctx, actorID, fanout.TopicGroupUpdated, fanout.GroupUpdated{Group: *saved})
	return saved, nil
}

// RemoveMember removes one member. Only an admin may remove. The remaining
// members get a group-updated event; the removed user gets removed-from-group.
func (s *Service) RemoveMember(ctx context.Context, actorID, groupID, userID string) (*domain.Group, error) {
	group, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsAdmin(actorID) {
		return nil, domain.ErrNotAdmin
	}
	if !group.IsMember(userID) {
		return nil, domain.ErrNotMember
	}

	group.Members = lo.Reject(group.Members, func(m domain.GroupMember, _ int) bool {
		return m.UserID == userID
	})
	group.UpdatedAt = time.Now().UTC()

	saved, err := s.groups.SaveGroup(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("save group: %w", err)
	}

	s.index.Rebuild(saved.ID, saved.MemberIDs())
	s.publish(ctx, actorID, fanout.TopicGroupMemberRemoved, fanout.GroupMemberRemoved{
		Group:         *saved,
		RemovedUserID: userID,
	})
	return saved, nil
}

// Promote raises a member to the admin role. Only an admin may promote.
func (s *Service) Promote(ctx context.Context, actorID, groupID, userID string) (*domain.Group, error) {
	group, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsAdmin(actorID) {
		return nil, domain.ErrNotAdmin
	}

	idx := lo.IndexOf(group.MemberIDs(), userID)
	if idx < 0 {
		return nil, domain.ErrNotMember
	}
	group.Members[idx].Role = domain.RoleAdmin
	group.UpdatedAt = time.Now().UTC()

	saved, err := s.groups.SaveGroup(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("save group: %w", err)
	}

	s.index.Rebuild(saved.ID, saved.MemberIDs())
	s.publish(ctx, actorID, fanout.TopicGroupUpdated, fanout.GroupUpdated{Group: *saved})
	return saved, nil
}

// Delete removes the group and its messages. Only an admin may delete. The
// member snapshot is captured before the deletion, since afterwards there is
// no member list left to notify from.
func (s *Service) Delete(ctx context.Context, actorID, groupID string) error {
	group, err := s.load(ctx, groupID)
	if err != nil {
		return err
	}
	if !group.IsAdmin(actorID) {
		return domain.ErrNotAdmin
	}

	formerMembers := group.MemberIDs()

	if err := s.messages.DeleteGroupMessages(ctx, groupID); err != nil {
		return fmt.Errorf("delete group messages: %w", err)
	}
	if err := s.groups.DeleteGroup(ctx, groupID); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}

	s.index.Drop(groupID)
	s.publish(ctx, actorID, fanout.TopicGroupDeleted, fanout.GroupDeleted{
		GroupID:         groupID,
		FormerMemberIDs: formerMembers,
	})
	return nil
}

// Find returns the group by id.
func (s *Service) Find(ctx context.Context, groupID string) (*domain.Group, error) {
	return s.load(ctx, groupID)
}

// Resolve returns the current member ids of the group, serving from the
// member index and falling back to (and repopulating from) the persisted
// group on a cache miss.
func (s *Service) Resolve(ctx context.Context, groupID string) ([]string, error) {
	if ids, ok := s.index.MemberIDs(groupID); ok {
		return ids, nil
	}

	group, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}
	ids := group.MemberIDs()
	s.index.Rebuild(groupID, ids)
	return ids, nil
}

// Contains reports whether userID is a current member of the group.
func (s *Service) Contains(ctx context.Context, groupID, userID string) (bool, error) {
	if member, cached := s.index.Contains(groupID, userID); cached {
		return member, nil
	}

	ids, err := s.Resolve(ctx, groupID)
	if err != nil {
		return false, err
	}
	return lo.Contains(ids, userID), nil
}

func (s *Service) load(ctx context.Context, groupID string) (*domain.Group, error) {
	group, err := s.groups.FindGroupByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("find group %q: %w", groupID, err)
	}
	if group == nil {
		return nil, domain.ErrNotFound
	}
	return group, nil
}

// publish sends a fanout envelope to the bus. Emission is fire-and-forget:
// the mutation has already been persisted and responded to, so a bus failure
// degrades to "no real-time delivery" and is only logged.
func (s *Service) publish(ctx context.Context, userID, topic string, envelope any) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		s.logger.Error("Failed to marshal fanout envelope", "topic", topic, "error", err)
		return
	}
	err = s.publisher.Publish(ctx, pubsub.Message{
		Topic:   topic,
		UserID:  userID,
		Payload: payload,
	})
	if err != nil {
		s.logger.Error("Failed to publish fanout event", "topic", topic, "error", err)
	}
}
