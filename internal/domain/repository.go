package domain

import "context"

// MessageRepository defines the persistence operations the chat core needs
// for messages. Implementations live in internal/database.
type MessageRepository interface {
	CreateMessage(ctx context.Context, msg *Message) (*Message, error)
	FindMessageByID(ctx context.Context, id string) (*Message, error)
	DeleteMessage(ctx context.Context, id string) error
	// DeleteGroupMessages removes every message belonging to the group.
	// Used when a group is deleted.
	DeleteGroupMessages(ctx context.Context, groupID string) error
}

// GroupRepository defines the persistence operations for groups.
type GroupRepository interface {
	CreateGroup(ctx context.Context, group *Group) (*Group, error)
	FindGroupByID(ctx context.Context, id string) (*Group, error)
	SaveGroup(ctx context.Context, group *Group) (*Group, error)
	DeleteGroup(ctx context.Context, id string) error
}

// UserRepository defines the user lookups the chat core needs. Account
// creation and credentials are owned by the auth collaborator.
type UserRepository interface {
	FindUserByID(ctx context.Context, id string) (*User, error)
	CreateUser(ctx context.Context, user *User) (*User, error)
}
