package core

import (
	"context"

	"github.com/nnamdiokafor/foliobot/internal/models"
)

// DbClient defines the persistence operations higher layers need. It
// abstracts Postgres so services never depend on a specific store; the
// in-memory implementation backs tests and database-less local runs.
type DbClient interface {
	// GetDocument returns the raw JSON document stored under name, or
	// ("", nil) when nothing has been saved yet.
	GetDocument(ctx context.Context, name string) (string, error)
	PutDocument(ctx context.Context, name, value string) error

	// Secrets are stored as opaque ciphertext; encryption happens above
	// this layer.
	GetSecret(ctx context.Context, name string) ([]byte, error)
	PutSecret(ctx context.Context, name string, ciphertext []byte) error

	Ping(ctx context.Context) error
	Close() error
}

// Document names used with DbClient.
const (
	DocProfile   = "profile"
	DocBotConfig = "botconfig"
)

// SecretGeminiKey is the stored name of the dashboard-entered API key.
const SecretGeminiKey = "gemini_api_key"

// ObjectClient defines interactions with S3 or any object storage.
type ObjectClient interface {
	UploadFile(ctx context.Context, key string, data []byte, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, key string) error
}

// ModelInvoker is one call into the language-model service for a specific
// model candidate. Implemented by llm.GeminiClient; faked in tests.
type ModelInvoker interface {
	Invoke(ctx context.Context, model, systemPrompt string, history []models.ChatTurn, message string) (string, error)
}
