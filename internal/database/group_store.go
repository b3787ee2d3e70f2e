package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"

	"github.com/chatwire/chatwire/internal/domain"
)

// SurrealGroupStore persists groups in SurrealDB. Members are stored inline
// as an array of {user, role} objects, matching the domain model.
type SurrealGroupStore struct {
	db *surrealdb.DB
}

// NewSurrealGroupStore creates a group store on the given connection.
func NewSurrealGroupStore(db *surrealdb.DB) *SurrealGroupStore {
	return &SurrealGroupStore{db: db}
}

var _ domain.GroupRepository = (*SurrealGroupStore)(nil)

const groupFields = "record::id(id) AS id, name, description, members, createdAt, updatedAt"

// CreateGroup creates a new group record with a client-generated id.
func (s *SurrealGroupStore) CreateGroup(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	id := uuid.NewString()

	query := `
		CREATE type::thing('group', $id) CONTENT {
			name: $name,
			description: $description,
			members: $members,
			createdAt: $created_at,
			updatedAt: $updated_at
		}
	`
	params := map[string]any{
		"id":          id,
		"name":        group.Name,
		"description": group.Description,
		"members":     group.Members,
		"created_at":  group.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  group.UpdatedAt.Format(time.RFC3339Nano),
	}

	if err := Execute(ctx, s.db, query, params); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}

	created := *group
	created.ID = id
	return &created, nil
}

// FindGroupByID returns the group with the given id, or nil.
func (s *SurrealGroupStore) FindGroupByID(ctx context.Context, id string) (*domain.Group, error) {
	query := fmt.Sprintf("SELECT %s FROM group WHERE record::id(id) = $id", groupFields)
	group, err := QueryOne[domain.Group](ctx, s.db, query, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("find group: %w", err)
	}
	return group, nil
}

// SaveGroup overwrites the group's mutable fields.
func (s *SurrealGroupStore) SaveGroup(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	query := `
		UPDATE type::thing('group', $id) MERGE {
			name: $name,
			description: $description,
			members: $members,
			updatedAt: $updated_at
		}
	`
	params := map[string]any{
		"id":          group.ID,
		"name":        group.Name,
		"description": group.Description,
		"members":     group.Members,
		"updated_at":  group.UpdatedAt.Format(time.RFC3339Nano),
	}

	if err := Execute(ctx, s.db, query, params); err != nil {
		return nil, fmt.Errorf("save group: %w", err)
	}
	return group, nil
}

// DeleteGroup removes the group record. Idempotent.
func (s *SurrealGroupStore) DeleteGroup(ctx context.Context, id string) error {
	return Execute(ctx, s.db, "DELETE type::thing('group', $id)", map[string]any{"id": id})
}
