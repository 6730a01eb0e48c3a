package domain

import (
	"context"
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// MaxMessageLength is the upper bound on chat message text.
const MaxMessageLength = 500

// ChatMessage is one message relayed through a room. Rows are append-only:
// never mutated, never deleted. Ordering is by creation time with the
// per-room sequence id as the tie-break.
type ChatMessage struct {
	ID        *surrealmodels.RecordID `json:"id,omitempty"`
	Username  string                  `json:"username"`
	Text      string                  `json:"text"`
	Room      string                  `json:"room"`
	Seq       uint64                  `json:"seq"`
	CreatedAt time.Time               `json:"createdAt"`
}

// ValidateMessageText checks the relay's input contract for message text.
func ValidateMessageText(text string) error {
	if text == "" {
		return NewValidationError("message", "must not be empty")
	}
	if len([]rune(text)) > MaxMessageLength {
		return NewValidationError("message", "exceeds 500 characters")
	}
	return nil
}

// MessageRepository defines the contract for chat message storage.
type MessageRepository interface {
	// Append persists a message. The relay treats a failure here as
	// best-effort: logged, never blocking delivery.
	Append(ctx context.Context, msg *ChatMessage) error

	// Recent returns up to limit of the newest global messages,
	// oldest-first, ready for history replay.
	Recent(ctx context.Context, limit int) ([]ChatMessage, error)
}
