package domain

import "time"

// User is the minimal profile the chat core needs. Credential handling and
// profile management live behind the auth collaborator, not here.
type User struct {
	ID        string    `json:"id,omitempty"`
	Username  string    `json:"username"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
