package fanout

import "github.com/chatwire/chatwire/internal/domain"

// Bus topics connecting the write path to the fanout core. Services publish
// to these topics strictly after persistence has completed, so a client
// re-querying state after receiving an event observes a consistent result.
const (
	// TopicMessageCreated carries a MessageCreated envelope.
	TopicMessageCreated = "chat.message.created"
	// TopicMessageDeleted carries a MessageDeleted envelope.
	TopicMessageDeleted = "chat.message.deleted"
	// TopicGroupCreated carries a GroupCreated envelope.
	TopicGroupCreated = "chat.group.created"
	// TopicGroupUpdated carries a GroupUpdated envelope.
	TopicGroupUpdated = "chat.group.updated"
	// TopicGroupMemberRemoved carries a GroupMemberRemoved envelope.
	TopicGroupMemberRemoved = "chat.group.member_removed"
	// TopicGroupDeleted carries a GroupDeleted envelope.
	TopicGroupDeleted = "chat.group.deleted"
)

// Recipient kinds for a RecipientSpec.
const (
	RecipientDirect = "direct"
	RecipientGroup  = "group"
)

// RecipientSpec resolves who a message event is for. Kind selects between
// the direct fields (ReceiverID) and the group fields (GroupID, MemberIDs).
type RecipientSpec struct {
	Kind       string   `json:"kind"`
	SenderID   string   `json:"senderId"`
	ReceiverID string   `json:"receiverId,omitempty"`
	GroupID    string   `json:"groupId,omitempty"`
	MemberIDs  []string `json:"memberIds,omitempty"`
}

// MessageCreated is published after a message is durably written.
type MessageCreated struct {
	Message   domain.Message `json:"message"`
	Recipient RecipientSpec  `json:"recipient"`
}

// MessageDeleted is published after a message is removed.
type MessageDeleted struct {
	MessageID string        `json:"messageId"`
	Recipient RecipientSpec `json:"recipient"`
}

// GroupCreated is published after a group is created.
type GroupCreated struct {
	Group domain.Group `json:"group"`
}

// GroupUpdated is published after membership add/remove/promote.
type GroupUpdated struct {
	Group domain.Group `json:"group"`
}

// GroupMemberRemoved is published after a member has been removed. Group
// holds the post-mutation entity; RemovedUserID the identity that was taken
// out and is no longer in Group.Members.
type GroupMemberRemoved struct {
	Group         domain.Group `json:"group"`
	RemovedUserID string       `json:"removedUserId"`
}

// GroupDeleted is published after a group is deleted. FormerMemberIDs is the
// member snapshot captured before the deletion, since afterwards there is no
// member list left to derive from.
type GroupDeleted struct {
	GroupID         string   `json:"groupId"`
	FormerMemberIDs []string `json:"formerMemberIds"`
}
