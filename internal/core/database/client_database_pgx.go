package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/nnamdiokafor/foliobot/internal/config"
	"github.com/nnamdiokafor/foliobot/internal/core"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (core.DbClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Sensible pool settings for a small API service.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(pingCtx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *DatabaseClient) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *DatabaseClient) GetDocument(ctx context.Context, name string) (string, error) {
	var value string
	err := c.db.QueryRowContext(ctx,
		`SELECT value FROM documents WHERE name = $1`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get document %q: %w", name, err)
	}
	return value, nil
}

func (c *DatabaseClient) PutDocument(ctx context.Context, name, value string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO documents (name, value, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		name, value)
	if err != nil {
		return fmt.Errorf("put document %q: %w", name, err)
	}
	return nil
}

func (c *DatabaseClient) GetSecret(ctx context.Context, name string) ([]byte, error) {
	var ciphertext []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT ciphertext FROM secrets WHERE name = $1`, name).Scan(&ciphertext)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get secret %q: %w", name, err)
	}
	return ciphertext, nil
}

func (c *DatabaseClient) PutSecret(ctx context.Context, name string, ciphertext []byte) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO secrets (name, ciphertext, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (name) DO UPDATE SET ciphertext = EXCLUDED.ciphertext, updated_at = now()`,
		name, ciphertext)
	if err != nil {
		return fmt.Errorf("put secret %q: %w", name, err)
	}
	return nil
}
