// Package secrets resolves the language-model API key. An operator-set
// environment value always wins; otherwise the dashboard-entered key is
// decrypted from the store.
package secrets

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/nnamdiokafor/foliobot/internal/core"
)

type Resolver struct {
	envKey string
	store  core.DbClient
	box    *Box
}

// NewResolver builds a resolver. envKey may be empty; masterKey seeds the
// at-rest encryption of dashboard-entered keys.
func NewResolver(envKey, masterKey string, store core.DbClient) *Resolver {
	return &Resolver{envKey: envKey, store: store, box: NewBox(masterKey)}
}

// APIKey returns the resolved key, or "" when none is configured. Store
// errors degrade to "" so a broken database reads as "not configured"
// rather than failing the chat request outright.
func (r *Resolver) APIKey(ctx context.Context) string {
	if r.envKey != "" {
		return r.envKey
	}
	ciphertext, err := r.store.GetSecret(ctx, core.SecretGeminiKey)
	if err != nil {
		slog.Warn("secrets: reading stored api key failed", "error", err)
		return ""
	}
	if len(ciphertext) == 0 {
		return ""
	}
	key, err := r.box.Open(ciphertext)
	if err != nil {
		slog.Warn("secrets: stored api key would not decrypt", "error", err)
		return ""
	}
	return key
}

// Save encrypts and stores a dashboard-entered key.
func (r *Resolver) Save(ctx context.Context, apiKey string) error {
	ciphertext, err := r.box.Seal(apiKey)
	if err != nil {
		return err
	}
	return r.store.PutSecret(ctx, core.SecretGeminiKey, ciphertext)
}

// Box wraps nacl/secretbox with a key derived from the master secret. The
// nonce is prepended to the ciphertext.
type Box struct {
	key [32]byte
}

func NewBox(masterKey string) *Box {
	b := &Box{}
	b.key = sha256.Sum256([]byte(masterKey))
	return b
}

func (b *Box) Seal(plaintext string) ([]byte, error) {
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &b.key), nil
}

func (b *Box) Open(ciphertext []byte) (string, error) {
	if len(ciphertext) < 24 {
		return "", fmt.Errorf("ciphertext too short")
	}
	var nonce [24]byte
	copy(nonce[:], ciphertext[:24])
	plaintext, ok := secretbox.Open(nil, ciphertext[24:], &nonce, &b.key)
	if !ok {
		return "", fmt.Errorf("secretbox open failed")
	}
	return string(plaintext), nil
}
