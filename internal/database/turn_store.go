package database

import (
	"context"
	"fmt"

	"github.com/parley-chat/parley/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// TurnStore persists AI conversation turns.
type TurnStore struct {
	db *surrealdb.DB
}

var _ domain.TurnRepository = (*TurnStore)(nil)

// NewTurnStore creates a new TurnStore.
func NewTurnStore(db *surrealdb.DB) *TurnStore {
	return &TurnStore{db: db}
}

// Append saves one turn.
func (s *TurnStore) Append(ctx context.Context, turn *domain.AITurn) error {
	query := "CREATE ai_turn CONTENT $data"
	params := map[string]any{"data": turn}

	if err := Execute(ctx, s.db, query, params); err != nil {
		return &domain.PersistenceError{Op: "turn append", Err: err}
	}
	return nil
}

// LastN returns up to n of the user's newest turns, oldest-first, so the
// result can be handed to the completion API as conversational context. The
// two rows of an exchange share a timestamp; seq keeps them in order.
func (s *TurnStore) LastN(ctx context.Context, username string, n int) ([]domain.AITurn, error) {
	if n <= 0 {
		return nil, nil
	}

	query := "SELECT * FROM ai_turn WHERE username = $username ORDER BY createdAt DESC, seq DESC LIMIT $limit"
	params := map[string]any{
		"username": username,
		"limit":    n,
	}

	result, err := Query[domain.AITurn](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch turns: %w", err)
	}

	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	return result, nil
}
