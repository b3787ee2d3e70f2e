package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/chatwire/chatwire/internal/domain"
	"github.com/chatwire/chatwire/internal/fanout"
	"github.com/chatwire/chatwire/internal/pubsub"
)

// Membership answers group membership questions for the send path. It is
// backed by the group service's member index.
type Membership interface {
	Resolve(ctx context.Context, groupID string) ([]string, error)
	Contains(ctx context.Context, groupID, userID string) (bool, error)
}

// Service owns the message write path: persist first, then hand the result
// to the fanout core via the bus. Dispatch never runs for a message that
// failed to persist.
type Service struct {
	messages   domain.MessageRepository
	membership Membership
	publisher  pubsub.Publisher
	logger     *slog.Logger
}

// NewService creates a messaging service.
func NewService(messages domain.MessageRepository, membership Membership, publisher pubsub.Publisher) *Service {
	return &Service{
		messages:   messages,
		membership: membership,
		publisher:  publisher,
		logger:     slog.Default().With("service", "messaging"),
	}
}

// SendDirect persists a direct message and queues its fanout. The sender
// gets the persisted message back as the authoritative copy; real-time
// delivery goes to the receiver only.
func (s *Service) SendDirect(ctx context.Context, senderID, receiverID, text string) (*domain.Message, error) {
	msg := &domain.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		CreatedAt:  time.Now().UTC(),
	}

	created, err := s.messages.CreateMessage(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	s.publish(ctx, senderID, fanout.TopicMessageCreated, fanout.MessageCreated{
		Message: *created,
		Recipient: fanout.RecipientSpec{
			Kind:       fanout.RecipientDirect,
			SenderID:   senderID,
			ReceiverID: receiverID,
		},
	})
	return created, nil
}

// SendGroup persists a group message and queues its fanout to all current
// members except the sender. The sender must be a current member.
func (s *Service) SendGroup(ctx context.Context, senderID, groupID, text string) (*domain.Message, error) {
	members, err := s.membership.Resolve(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !lo.Contains(members, senderID) {
		return nil, domain.ErrNotMember
	}

	msg := &domain.Message{
		SenderID:  senderID,
		GroupID:   groupID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.messages.CreateMessage(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	s.publish(ctx, senderID, fanout.TopicMessageCreated, fanout.MessageCreated{
		Message: *created,
		Recipient: fanout.RecipientSpec{
			Kind:      fanout.RecipientGroup,
			SenderID:  senderID,
			GroupID:   groupID,
			MemberIDs: members,
		},
	})
	return created, nil
}

// Delete removes a message and queues the deletion fanout. Only the sender
// may delete their own message.
func (s *Service) Delete(ctx context.Context, actorID, messageID string) error {
	msg, err := s.messages.FindMessageByID(ctx, messageID)
	if err != nil {
		return fmt.Errorf("find message %q: %w", messageID, err)
	}
	if msg == nil {
		return domain.ErrNotFound
	}
	if msg.SenderID != actorID {
		return domain.ErrForbidden
	}

	spec := fanout.RecipientSpec{
		Kind:       fanout.RecipientDirect,
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
	}
	if msg.IsGroup() {
		members, err := s.membership.Resolve(ctx, msg.GroupID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		spec = fanout.RecipientSpec{
			Kind:      fanout.RecipientGroup,
			SenderID:  msg.SenderID,
			GroupID:   msg.GroupID,
			MemberIDs: members,
		}
	}

	if err := s.messages.DeleteMessage(ctx, messageID); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}

	s.publish(ctx, actorID, fanout.TopicMessageDeleted, fanout.MessageDeleted{
		MessageID: messageID,
		Recipient: spec,
	})
	return nil
}

// publish sends a fanout envelope to the bus after persistence. A bus
// failure degrades to "no real-time delivery" and is only logged.
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
