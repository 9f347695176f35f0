package logstore

import (
	"fmt"
	"log/slog"
	"testing"
)

func newTestLogger(capacity int) (*slog.Logger, *Store) {
	store := NewStore(capacity)
	return slog.New(NewHandler(store, nil)), store
}

func TestStore_CapturesEntries(t *testing.T) {
	logger, store := newTestLogger(10)

	logger.Warn("rate limit: burst cap exceeded", "client", "1.2.3.4")

	entries := store.Recent(0)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Level != "WARN" {
		t.Errorf("level = %q, want WARN", e.Level)
	}
	if e.Message != "rate limit: burst cap exceeded" {
		t.Errorf("message = %q", e.Message)
	}
	if e.Attrs["client"] != "1.2.3.4" {
		t.Errorf("attrs = %v", e.Attrs)
	}
}

func TestStore_RedactsSensitiveAttrs(t *testing.T) {
	logger, store := newTestLogger(10)

	logger.Info("key rotated",
		"api_key", "AIzaSy-secret-value",
		"auth_token", "tok_12345",
		"password", "hunter2",
		"client", "1.2.3.4",
	)

	e := store.Recent(0)[0]
	for _, k := range []string{"api_key", "auth_token", "password"} {
		if e.Attrs[k] != "[redacted]" {
			t.Errorf("%s = %q, want [redacted]", k, e.Attrs[k])
		}
	}
	if e.Attrs["client"] != "1.2.3.4" {
		t.Errorf("non-sensitive attr mangled: %v", e.Attrs)
	}
}

func TestStore_BoundedRing(t *testing.T) {
	logger, store := newTestLogger(5)

	for i := 0; i < 12; i++ {
		logger.Info(fmt.Sprintf("entry %d", i))
	}

	entries := store.Recent(0)
	if len(entries) != 5 {
		t.Fatalf("ring should cap at 5, got %d", len(entries))
	}
	if entries[0].Message != "entry 7" || entries[4].Message != "entry 11" {
		t.Errorf("ring should keep the newest entries in order: %v", entries)
	}
}

func TestStore_RecentLimit(t *testing.T) {
	logger, store := newTestLogger(10)
	for i := 0; i < 8; i++ {
		logger.Info(fmt.Sprintf("entry %d", i))
	}

	entries := store.Recent(3)
	if len(entries) != 3 {
		t.Fatalf("Recent(3) returned %d entries", len(entries))
	}
	if entries[2].Message != "entry 7" {
		t.Errorf("newest entry should be last: %v", entries)
	}
}

func TestHandler_WithAttrsRedacts(t *testing.T) {
	store := NewStore(10)
	logger := slog.New(NewHandler(store, nil)).With("request_token", "abc123")

	logger.Info("handled")

	e := store.Recent(0)[0]
	if e.Attrs["request_token"] != "[redacted]" {
		t.Errorf("pre-bound sensitive attr leaked: %v", e.Attrs)
	}
}
