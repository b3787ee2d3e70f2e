package domain

import (
	"time"

	"github.com/samber/lo"
)

// Role is a member's role inside a group.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// GroupMember ties a user to a group with a role.
type GroupMember struct {
	UserID string `json:"user"`
	Role   Role   `json:"role"`
}

// Group is a persisted chat group. The creator is always present in Members
// with the admin role.
type Group struct {
	ID          string        `json:"id,omitempty"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Members     []GroupMember `json:"members"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// MemberIDs returns the user ids of all current members.
func (g *Group) MemberIDs() []string {
	return lo.Map(g.Members, func(m GroupMember, _ int) string {
		return m.UserID
	})
}

// IsMember reports whether the user is a current member of the group.
func (g *Group) IsMember(userID string) bool {
	return lo.ContainsBy(g.Members, func(m GroupMember) bool {
		return m.UserID == userID
	})
}

// IsAdmin reports whether the user currently holds the admin role.
func (g *Group) IsAdmin(userID string) bool {
	return lo.ContainsBy(g.Members, func(m GroupMember) bool {
		return m.UserID == userID && m.Role == RoleAdmin
	})
}
