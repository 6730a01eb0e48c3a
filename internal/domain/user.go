package domain

import (
	"context"
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// User represents a registered chat participant. Users are created at first
// login and never mutated afterwards.
type User struct {
	ID        *surrealmodels.RecordID `json:"id,omitempty"`
	Username  string                  `json:"username"`
	CreatedAt time.Time               `json:"createdAt"`
}

// UserRepository defines the contract for user storage. It lives in the
// domain because it's a requirement OF the domain, not of the database
// implementation.
type UserRepository interface {
	// FindByUsername returns the user with the given username, or
	// (nil, nil) when no such user exists.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// Create inserts a new user. It returns ErrUsernameTaken when another
	// registration won the race for the same username.
	Create(ctx context.Context, username string) (*User, error)
}
