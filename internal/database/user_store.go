package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"

	"github.com/chatwire/chatwire/internal/domain"
)

// SurrealUserStore persists user profiles in SurrealDB. Credentials are
// owned by the auth collaborator; only the profile lives here.
type SurrealUserStore struct {
	db *surrealdb.DB
}

// NewSurrealUserStore creates a user store on the given connection.
func NewSurrealUserStore(db *surrealdb.DB) *SurrealUserStore {
	return &SurrealUserStore{db: db}
}

var _ domain.UserRepository = (*SurrealUserStore)(nil)

const userFields = "record::id(id) AS id, username, fullName, email, createdAt"

// FindUserByID returns the user with the given id, or nil.
func (s *SurrealUserStore) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM user WHERE record::id(id) = $id", userFields)
	user, err := QueryOne[domain.User](ctx, s.db, query, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// CreateUser creates a new user record with a client-generated id.
func (s *SurrealUserStore) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	id := uuid.NewString()

	query := `
		CREATE type::thing('user', $id) CONTENT {
			username: $username,
			fullName: $full_name,
			email: $email,
			createdAt: $created_at
		}
	`
	params := map[string]any{
		"id":         id,
		"username":   user.Username,
		"full_name":  user.FullName,
		"email":      user.Email,
		"created_at": user.CreatedAt.Format(time.RFC3339Nano),
	}

	if err := Execute(ctx, s.db, query, params); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	created := *user
	created.ID = id
	return &created, nil
}
