package ai

import (
	"context"
	"log/slog"
	"time"

	"github.com/parley-chat/parley/internal/domain"
)

// FallbackReply is returned when the completion service fails. The chat
// contract always gives the user a reply string.
const FallbackReply = "Sorry, I'm having trouble responding right now. Please try again in a moment."

// ContextWindow is the number of prior turns, both roles counted together,
// supplied to the completion service as conversational memory.
const ContextWindow = 20

// CompletionTimeout bounds one call to the completion service. Expiry takes
// the same fallback path as any other service failure.
const CompletionTimeout = 30 * time.Second

// Completer is the external completion service. Implementations receive the
// prior turns oldest-first and the new user prompt.
type Completer interface {
	Complete(ctx context.Context, history []domain.AITurn, prompt string) (string, error)
}

// Manager holds per-user conversation memory against the turn store and
// orchestrates calls to the completion service.
type Manager struct {
	completer Completer
	turns     domain.TurnRepository
	logger    *slog.Logger
	timeout   time.Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithTimeout overrides the completion call timeout.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) { m.timeout = d }
}

// NewManager initializes a Manager.
func NewManager(completer Completer, turns domain.TurnRepository, opts ...Option) *Manager {
	m := &Manager{
		completer: completer,
		turns:     turns,
		logger:    slog.Default().With("service", "ai"),
		timeout:   CompletionTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Converse sends the user's prompt to the completion service with that
// user's recent history and records the exchange. A completion failure
// degrades to the fallback reply and records nothing, so a failed exchange
// never pollutes the window.
func (m *Manager) Converse(ctx context.Context, username, prompt string) (string, domain.Outcome, error) {
	if username == "" {
		return "", domain.OutcomeRejected, domain.NewValidationError("username", "must not be empty")
	}
	if prompt == "" {
		return "", domain.OutcomeRejected, domain.NewValidationError("message", "must not be empty")
	}

	history, err := m.turns.LastN(ctx, username, ContextWindow)
	if err != nil {
		// Degrade to an empty window rather than failing the chat.
		m.logger.Error("Failed to load conversation history", "username", username, "error", err)
		history = nil
	}

	callCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	reply, err := m.completer.Complete(callCtx, history, prompt)
	if err != nil {
		m.logger.Error("Completion failed, using fallback reply", "username", username, "error", err)
		return FallbackReply, domain.OutcomeDegraded, nil
	}

	m.record(ctx, username, prompt, reply)
	return reply, domain.OutcomeDelivered, nil
}

// record persists the user turn then the model turn. Failures are logged;
// the reply already exists and is returned regardless.
func (m *Manager) record(ctx context.Context, username, prompt, reply string) {
	now := time.Now().UTC()

	userTurn := &domain.AITurn{
		Username:  username,
		Role:      domain.RoleUser,
		Text:      prompt,
		Seq:       0,
		CreatedAt: now,
	}
	if err := m.turns.Append(ctx, userTurn); err != nil {
		m.logger.Error("Failed to persist user turn", "username", username, "error", err)
		return
	}

	modelTurn := &domain.AITurn{
		Username:  username,
		Role:      domain.RoleModel,
		Text:      reply,
		Seq:       1,
		CreatedAt: now,
	}
	if err := m.turns.Append(ctx, modelTurn); err != nil {
		m.logger.Error("Failed to persist model turn", "username", username, "error", err)
	}
}
