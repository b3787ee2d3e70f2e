package domain

import "time"

// Message is a persisted chat message. Exactly one of ReceiverID and GroupID
// is set: ReceiverID for direct messages, GroupID for group messages.
type Message struct {
	ID         string    `json:"id,omitempty"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId,omitempty"`
	GroupID    string    `json:"groupId,omitempty"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}

// IsGroup reports whether the message belongs to a group conversation.
func (m *Message) IsGroup() bool {
	return m.GroupID != ""
}
