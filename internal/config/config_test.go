package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SURREAL_URL", "ws://localhost:8000/rpc")
	t.Setenv("SURREAL_NS", "parley")
	t.Setenv("SURREAL_DB", "parley")
	t.Setenv("SESSION_SECRET", "test-secret")
}

func TestNew_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.True(t, cfg.PersistGlobal)
	assert.False(t, cfg.PersistPrivate)
}

func TestNew_MissingDatabaseConfig(t *testing.T) {
	t.Setenv("SURREAL_URL", "")
	t.Setenv("SURREAL_NS", "")
	t.Setenv("SURREAL_DB", "")
	t.Setenv("SESSION_SECRET", "test-secret")

	_, err := New()
	assert.Error(t, err)
}

func TestNew_PersistenceOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PERSIST_GLOBAL_MESSAGES", "false")
	t.Setenv("PERSIST_PRIVATE_MESSAGES", "true")

	cfg, err := New()
	require.NoError(t, err)

	assert.False(t, cfg.PersistGlobal)
	assert.True(t, cfg.PersistPrivate)
}
