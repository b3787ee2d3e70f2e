package fanout

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/chatwire/chatwire/internal/pubsub"
)

// Consumer subscribes to the write-path topics on the bus and drives the
// Dispatcher and Notifier. One consumer runs per server process; per-topic
// ordering on the bus preserves the per-room delivery order of messages.
type Consumer struct {
	subscriber pubsub.Subscriber
	dispatcher *Dispatcher
	notifier   *Notifier
	logger     *slog.Logger
}

// NewConsumer creates a consumer wiring the bus to the fanout core.
func NewConsumer(sub pubsub.Subscriber, dispatcher *Dispatcher, notifier *Notifier) *Consumer {
	return &Consumer{
		subscriber: sub,
		dispatcher: dispatcher,
		notifier:   notifier,
		logger:     slog.Default().With("service", "fanout-consumer"),
	}
}

// Start begins listening on all fanout topics. Subscriptions run in the
// background until the context is canceled.
func (c *Consumer) Start(ctx context.Context) {
	c.logger.Info("Starting fanout consumer")

	subscriptions := map[string]pubsub.Handler{
		TopicMessageCreated:     c.handleMessageCreated,
		TopicMessageDeleted:     c.handleMessageDeleted,
		TopicGroupCreated:       c.handleGroupCreated,
		TopicGroupUpdated:       c.handleGroupUpdated,
		TopicGroupMemberRemoved: c.handleGroupMemberRemoved,
		TopicGroupDeleted:       c.handleGroupDeleted,
	}

	for topic, handler := range subscriptions {
		if err := c.subscriber.Subscribe(ctx, topic, handler); err != nil {
			c.logger.Error("Failed to subscribe", "topic", topic, "error", err)
		}
	}
}

func (c *Consumer) handleMessageCreated(ctx context.Context, msg pubsub.Message) error {
	var event MessageCreated
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		c.logger.Error("Failed to unmarshal message created event", "error", err)
		return err
	}
	c.dispatcher.Dispatch(&event.Message, event.Recipient)
	return nil
}

func (c *Consumer) handleMessageDeleted(ctx context.Context, msg pubsub.Message) error {
	var event MessageDeleted
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		c.logger.Error("Failed to unmarshal message deleted event", "error", err)
		return err
	}
	c.dispatcher.DispatchDeletion(event.MessageID, event.Recipient)
	return nil
}

func (c *Consumer) handleGroupCreated(ctx context.Context, msg pubsub.Message) error {
	var event GroupCreated
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		c.logger.Error("Failed to unmarshal group created event", "error", err)
		return err
	}
	c.notifier.NotifyCreated(&event.Group)
	return nil
}

func (c *Consumer) handleGroupUpdated(ctx context.Context, msg pubsub.Message) error {
	var event GroupUpdated
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		c.logger.Error("Failed to unmarshal group updated event", "error", err)
		return err
	}
	c.notifier.NotifyUpdated(&event.Group)
	return nil
}

func (c *Consumer) handleGroupMemberRemoved(ctx context.Context, msg pubsub.Message) error {
	var event GroupMemberRemoved
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		c.logger.Error("Failed to unmarshal member removed event", "error", err)
		return err
	}
	c.notifier.NotifyMemberRemoved(&event.Group, event.RemovedUserID)
	return nil
}

func (c *Consumer) handleGroupDeleted(ctx context.Context, msg pubsub.Message) error {
	var event GroupDeleted
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		c.logger.Error("Failed to unmarshal group deleted event", "error", err)
		return err
	}
	c.notifier.NotifyDeleted(event.GroupID, event.FormerMemberIDs)
	return nil
}
