package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/parley-chat/parley/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// UserStore encapsulates database operations for users.
type UserStore struct {
	db *surrealdb.DB
}

var _ domain.UserRepository = (*UserStore)(nil)

// NewUserStore creates a new UserStore.
func NewUserStore(db *surrealdb.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByUsername queries for a single user by username. Returns (nil, nil)
// when the user does not exist.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := "SELECT * FROM user WHERE username = $username"
	params := map[string]any{"username": username}

	user, err := QueryOne[domain.User](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}

	return user, nil
}

// Create inserts a new user row. The unique index on username makes this the
// arbiter for concurrent registrations: the loser gets ErrUsernameTaken.
func (s *UserStore) Create(ctx context.Context, username string) (*domain.User, error) {
	query := "CREATE user SET username = $username, createdAt = $createdAt RETURN AFTER"
	params := map[string]any{
		"username":  username,
		"createdAt": time.Now().UTC(),
	}

	created, err := QueryOne[domain.User](ctx, s.db, query, params)
	if err != nil {
		if isUniqueIndexViolation(err) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("user was not created or could not be fetched")
	}

	return created, nil
}

// isUniqueIndexViolation recognizes SurrealDB's duplicate-index error text.
func isUniqueIndexViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already contains") || strings.Contains(msg, "unique")
}
