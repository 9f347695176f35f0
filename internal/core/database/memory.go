package db

import (
	"context"
	"sync"

	"github.com/nnamdiokafor/foliobot/internal/core"
)

// MemoryClient is an in-process DbClient used by tests and for running
// without a DATABASE_URL. Contents are lost on restart.
type MemoryClient struct {
	mu        sync.RWMutex
	documents map[string]string
	secrets   map[string][]byte
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		documents: map[string]string{},
		secrets:   map[string][]byte{},
	}
}

var _ core.DbClient = (*MemoryClient)(nil)

func (m *MemoryClient) GetDocument(ctx context.Context, name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.documents[name], nil
}

func (m *MemoryClient) PutDocument(ctx context.Context, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[name] = value
	return nil
}

func (m *MemoryClient) GetSecret(ctx context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ct, ok := m.secrets[name]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(ct))
	copy(out, ct)
	return out, nil
}

func (m *MemoryClient) PutSecret(ctx context.Context, name string, ciphertext []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ct := make([]byte, len(ciphertext))
	copy(ct, ciphertext)
	m.secrets[name] = ct
	return nil
}

func (m *MemoryClient) Ping(ctx context.Context) error { return nil }

func (m *MemoryClient) Close() error { return nil }
