package database

import (
	"context"
	"fmt"

	"github.com/parley-chat/parley/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// MessageStore persists relayed chat messages.
type MessageStore struct {
	db *surrealdb.DB
}

var _ domain.MessageRepository = (*MessageStore)(nil)

// NewMessageStore creates a new MessageStore.
func NewMessageStore(db *surrealdb.DB) *MessageStore {
	return &MessageStore{db: db}
}

// Append saves one message. Rows are never updated or deleted afterwards.
func (s *MessageStore) Append(ctx context.Context, msg *domain.ChatMessage) error {
	query := "CREATE chat_message CONTENT $data"
	params := map[string]any{"data": msg}

	if err := Execute(ctx, s.db, query, params); err != nil {
		return &domain.PersistenceError{Op: "message append", Err: err}
	}
	return nil
}

// Recent returns up to limit of the newest global-room messages, oldest-first,
// the shape history replay wants.
func (s *MessageStore) Recent(ctx context.Context, limit int) ([]domain.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}

	query := "SELECT * FROM chat_message WHERE room = $room ORDER BY createdAt DESC, seq DESC LIMIT $limit"
	params := map[string]any{
		"room":  "global",
		"limit": limit,
	}

	result, err := Query[domain.ChatMessage](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	// Reverse the order to get oldest first.
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	return result, nil
}
