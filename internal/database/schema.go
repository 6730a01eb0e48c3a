package database

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
)

// schemaStatements are the create-if-absent definitions run at boot. This is
// the extent of migration support: a few append-only tables and the unique
// username index the registration race depends on.
var schemaStatements = []string{
	"DEFINE TABLE IF NOT EXISTS user SCHEMALESS",
	"DEFINE INDEX IF NOT EXISTS unique_username ON TABLE user FIELDS username UNIQUE",
	"DEFINE TABLE IF NOT EXISTS chat_message SCHEMALESS",
	"DEFINE TABLE IF NOT EXISTS ai_turn SCHEMALESS",
	"DEFINE TABLE IF NOT EXISTS file SCHEMALESS",
}

// EnsureSchema applies the table and index definitions. Safe to run on every
// startup.
func EnsureSchema(ctx context.Context, db *surrealdb.DB) error {
	for _, stmt := range schemaStatements {
		if err := Execute(ctx, db, stmt, nil); err != nil {
			return fmt.Errorf("schema bootstrap failed on %q: %w", stmt, err)
		}
	}
	return nil
}
