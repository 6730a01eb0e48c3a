package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-chat/parley/internal/domain"
)

type mockCompleter struct {
	reply       string
	err         error
	gotHistory  []domain.AITurn
	gotPrompt   string
	gotDeadline bool
}

func (m *mockCompleter) Complete(ctx context.Context, history []domain.AITurn, prompt string) (string, error) {
	m.gotHistory = history
	m.gotPrompt = prompt
	_, m.gotDeadline = ctx.Deadline()
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

type mockTurns struct {
	turns     []domain.AITurn
	appendErr error
	lastNErr  error
}

func (m *mockTurns) Append(ctx context.Context, turn *domain.AITurn) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.turns = append(m.turns, *turn)
	return nil
}

func (m *mockTurns) LastN(ctx context.Context, username string, n int) ([]domain.AITurn, error) {
	if m.lastNErr != nil {
		return nil, m.lastNErr
	}
	var out []domain.AITurn
	for _, turn := range m.turns {
		if turn.Username == username {
			out = append(out, turn)
		}
	}
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out, nil
}

func TestConverseRejectsMissingInput(t *testing.T) {
	manager := NewManager(&mockCompleter{}, &mockTurns{})

	for name, input := range map[string][2]string{
		"empty username": {"", "hi"},
		"empty prompt":   {"alice", ""},
	} {
		t.Run(name, func(t *testing.T) {
			reply, outcome, err := manager.Converse(context.Background(), input[0], input[1])

			assert.Empty(t, reply)
			assert.Equal(t, domain.OutcomeRejected, outcome)
			assert.True(t, domain.IsValidation(err))
		})
	}
}

func TestConverseRecordsBothTurnsInOrder(t *testing.T) {
	completer := &mockCompleter{reply: "hello alice"}
	turns := &mockTurns{}
	manager := NewManager(completer, turns)

	reply, outcome, err := manager.Converse(context.Background(), "alice", "hi")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDelivered, outcome)
	assert.Equal(t, "hello alice", reply)
	assert.Equal(t, "hi", completer.gotPrompt)
	assert.True(t, completer.gotDeadline, "completion call carries a deadline")

	require.Len(t, turns.turns, 2)
	assert.Equal(t, domain.RoleUser, turns.turns[0].Role)
	assert.Equal(t, "hi", turns.turns[0].Text)
	assert.Equal(t, domain.RoleModel, turns.turns[1].Role)
	assert.Equal(t, "hello alice", turns.turns[1].Text)

	// Both rows of an exchange carry the real timestamp; seq orders them.
	assert.Equal(t, turns.turns[0].CreatedAt, turns.turns[1].CreatedAt)
	assert.Equal(t, 0, turns.turns[0].Seq)
	assert.Equal(t, 1, turns.turns[1].Seq)
}

func TestConverseFallsBackWithoutPersisting(t *testing.T) {
	completer := &mockCompleter{err: &domain.ExternalServiceError{Service: "completion", Err: errors.New("unreachable")}}
	turns := &mockTurns{}
	manager := NewManager(completer, turns)

	reply, outcome, err := manager.Converse(context.Background(), "alice", "hi")

	require.NoError(t, err, "completion failure is not propagated")
	assert.Equal(t, domain.OutcomeDegraded, outcome)
	assert.Equal(t, FallbackReply, reply)
	assert.Empty(t, turns.turns, "a failed exchange writes no turns")
}

func TestConverseFeedsHistoryWindowToNextCall(t *testing.T) {
	completer := &mockCompleter{reply: "pong"}
	turns := &mockTurns{}
	manager := NewManager(completer, turns)

	_, _, err := manager.Converse(context.Background(), "alice", "ping")
	require.NoError(t, err)

	_, _, err = manager.Converse(context.Background(), "alice", "again")
	require.NoError(t, err)

	require.Len(t, completer.gotHistory, 2)
	assert.Equal(t, domain.RoleUser, completer.gotHistory[0].Role)
	assert.Equal(t, "ping", completer.gotHistory[0].Text)
	assert.Equal(t, domain.RoleModel, completer.gotHistory[1].Role)
	assert.Equal(t, "pong", completer.gotHistory[1].Text)
}

func TestConverseWindowIsBounded(t *testing.T) {
	turns := &mockTurns{}
	now := time.Now()
	for i := 0; i < ContextWindow+10; i++ {
		turns.turns = append(turns.turns, domain.AITurn{
			Username: "alice", Role: domain.RoleUser, Text: "old", CreatedAt: now,
		})
	}
	completer := &mockCompleter{reply: "ok"}
	manager := NewManager(completer, turns)

	_, _, err := manager.Converse(context.Background(), "alice", "hi")

	require.NoError(t, err)
	assert.Len(t, completer.gotHistory, ContextWindow)
}

func TestConverseIsolatesUsers(t *testing.T) {
	completer := &mockCompleter{reply: "ok"}
	turns := &mockTurns{}
	manager := NewManager(completer, turns)

	_, _, err := manager.Converse(context.Background(), "alice", "alice secret")
	require.NoError(t, err)

	_, _, err = manager.Converse(context.Background(), "bob", "hi")
	require.NoError(t, err)

	assert.Empty(t, completer.gotHistory, "bob's window must not include alice's turns")
}

func TestConverseDegradesToEmptyWindowOnHistoryFailure(t *testing.T) {
	completer := &mockCompleter{reply: "ok"}
	turns := &mockTurns{lastNErr: &domain.PersistenceError{Op: "turn history", Err: errors.New("db down")}}
	manager := NewManager(completer, turns)

	reply, outcome, err := manager.Converse(context.Background(), "alice", "hi")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDelivered, outcome)
	assert.Equal(t, "ok", reply)
	assert.Empty(t, completer.gotHistory)
}

func TestConverseStopsRecordingAfterUserTurnFailure(t *testing.T) {
	completer := &mockCompleter{reply: "ok"}
	turns := &mockTurns{appendErr: errors.New("db down")}
	manager := NewManager(completer, turns)

	reply, outcome, err := manager.Converse(context.Background(), "alice", "hi")

	require.NoError(t, err, "persistence failure never blocks the reply")
	assert.Equal(t, domain.OutcomeDelivered, outcome)
	assert.Equal(t, "ok", reply)
	assert.Empty(t, turns.turns)
}
