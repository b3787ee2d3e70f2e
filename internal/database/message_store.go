package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"

	"github.com/chatwire/chatwire/internal/domain"
)

// SurrealMessageStore persists messages in SurrealDB.
type SurrealMessageStore struct {
	db *surrealdb.DB
}

// NewSurrealMessageStore creates a message store on the given connection.
func NewSurrealMessageStore(db *surrealdb.DB) *SurrealMessageStore {
	return &SurrealMessageStore{db: db}
}

var _ domain.MessageRepository = (*SurrealMessageStore)(nil)

const messageFields = "record::id(id) AS id, senderId, receiverId, groupId, text, createdAt"

// CreateMessage creates a new message record. The record id is generated
// client-side so the caller gets a stable string id back.
func (s *SurrealMessageStore) CreateMessage(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	id := uuid.NewString()

	query := `
		CREATE type::thing('message', $id) CONTENT {
			senderId: $sender_id,
			receiverId: $receiver_id,
			groupId: $group_id,
			text: $text,
			createdAt: $created_at
		}
	`
	params := map[string]any{
		"id":          id,
		"sender_id":   msg.SenderID,
		"receiver_id": msg.ReceiverID,
		"group_id":    msg.GroupID,
		"text":        msg.Text,
		"created_at":  msg.CreatedAt.Format(time.RFC3339Nano),
	}

	if err := Execute(ctx, s.db, query, params); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	created := *msg
	created.ID = id
	return &created, nil
}

// FindMessageByID returns the message with the given id, or nil.
func (s *SurrealMessageStore) FindMessageByID(ctx context.Context, id string) (*domain.Message, error) {
	query := fmt.Sprintf("SELECT %s FROM message WHERE record::id(id) = $id", messageFields)
	msg, err := QueryOne[domain.Message](ctx, s.db, query, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("find message: %w", err)
	}
	return msg, nil
}

// DeleteMessage removes the message with the given id. Idempotent.
func (s *SurrealMessageStore) DeleteMessage(ctx context.Context, id string) error {
	return Execute(ctx, s.db, "DELETE type::thing('message', $id)", map[string]any{"id": id})
}

// DeleteGroupMessages removes every message belonging to the group.
func (s *SurrealMessageStore) DeleteGroupMessages(ctx context.Context, groupID string) error {
	return Execute(ctx, s.db, "DELETE message WHERE groupId = $group_id", map[string]any{"group_id": groupID})
}
