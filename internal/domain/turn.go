package domain

import (
	"context"
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// TurnRole tags one utterance in an AI conversation.
type TurnRole string

const (
	RoleUser  TurnRole = "user"
	RoleModel TurnRole = "model"
)

// AITurn is one role-tagged utterance in a user's AI conversation.
// Append-only; every successful exchange writes two rows, the user turn
// first and the model turn second. Seq orders the rows of one exchange,
// which share a timestamp.
type AITurn struct {
	ID        *surrealmodels.RecordID `json:"id,omitempty"`
	Username  string                  `json:"username"`
	Role      TurnRole                `json:"role"`
	Text      string                  `json:"text"`
	Seq       int                     `json:"seq"`
	CreatedAt time.Time               `json:"createdAt"`
}

// TurnRepository defines the contract for AI conversation history storage.
type TurnRepository interface {
	// Append persists a single turn.
	Append(ctx context.Context, turn *AITurn) error

	// LastN returns up to n of the user's most recent turns, oldest-first,
	// ready to hand to the completion API as context.
	LastN(ctx context.Context, username string, n int) ([]AITurn, error)
}
