package db

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureBootstrapped creates the tables on first run. Safe to call on every
// startup.
func EnsureBootstrapped(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			name        TEXT PRIMARY KEY,
			value       TEXT NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS secrets (
			name        TEXT PRIMARY KEY,
			ciphertext  BYTEA NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec bootstrap ddl: %w", err)
		}
	}
	return nil
}
