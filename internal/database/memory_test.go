package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatwire/chatwire/internal/domain"
)

func TestMemoryStore_MessageLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	created, err := store.CreateMessage(ctx, &domain.Message{
		SenderID:   "alice",
		ReceiverID: "bob",
		Text:       "hi",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	found, err := store.FindMessageByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "hi", found.Text)

	require.NoError(t, store.DeleteMessage(ctx, created.ID))

	found, err = store.FindMessageByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	// Deleting again is harmless.
	require.NoError(t, store.DeleteMessage(ctx, created.ID))
}

func TestMemoryStore_DeleteGroupMessages(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	inGroup, err := store.CreateMessage(ctx, &domain.Message{SenderID: "alice", GroupID: "g1", Text: "a"})
	require.NoError(t, err)
	direct, err := store.CreateMessage(ctx, &domain.Message{SenderID: "alice", ReceiverID: "bob", Text: "b"})
	require.NoError(t, err)

	require.NoError(t, store.DeleteGroupMessages(ctx, "g1"))

	found, err := store.FindMessageByID(ctx, inGroup.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	found, err = store.FindMessageByID(ctx, direct.ID)
	require.NoError(t, err)
	assert.NotNil(t, found)
}

func TestMemoryStore_GroupLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	created, err := store.CreateGroup(ctx, &domain.Group{
		Name: "team",
		Members: []domain.GroupMember{
			{UserID: "alice", Role: domain.RoleAdmin},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	// Mutating the returned copy must not leak into the store.
	created.Members[0].Role = domain.RoleMember
	stored, err := store.FindGroupByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, stored.Members[0].Role)

	stored.Members = append(stored.Members, domain.GroupMember{UserID: "bob", Role: domain.RoleMember})
	saved, err := store.SaveGroup(ctx, stored)
	require.NoError(t, err)
	assert.Len(t, saved.Members, 2)

	require.NoError(t, store.DeleteGroup(ctx, created.ID))
	gone, err := store.FindGroupByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestMemoryStore_SaveUnknownGroupFails(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.SaveGroup(ctx, &domain.Group{ID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryStore_UserSeeding(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	created, err := store.CreateUser(ctx, &domain.User{ID: "alice", Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice", created.ID)

	found, err := store.FindUserByID(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "alice", found.Username)

	missing, err := store.FindUserByID(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
