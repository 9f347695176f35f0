// Package logstore keeps a bounded, redacted copy of recent log records in
// memory so the dashboard can show them without shipping logs anywhere.
package logstore

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const defaultCapacity = 500

// Entry is one captured log record, already redacted.
type Entry struct {
	Time    time.Time         `json:"time"`
	Level   string            `json:"level"`
	Message string            `json:"message"`
	Attrs   map[string]string `json:"attrs,omitempty"`
}

// Store is a fixed-capacity ring of log entries.
type Store struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Store{entries: make([]Entry, capacity)}
}

func (s *Store) add(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[s.next] = e
	s.next = (s.next + 1) % len(s.entries)
	if s.next == 0 {
		s.full = true
	}
}

// Recent returns up to n entries, newest last.
func (s *Store) Recent(n int) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ordered []Entry
	if s.full {
		ordered = append(ordered, s.entries[s.next:]...)
		ordered = append(ordered, s.entries[:s.next]...)
	} else {
		ordered = append(ordered, s.entries[:s.next]...)
	}
	if n > 0 && len(ordered) > n {
		ordered = ordered[len(ordered)-n:]
	}
	return ordered
}

// sensitiveKeyParts flags attr keys whose values must never reach the
// dashboard, whatever produced them.
var sensitiveKeyParts = []string{"key", "token", "password", "secret", "authorization", "credential"}

func redactKey(key string) bool {
	k := strings.ToLower(key)
	for _, part := range sensitiveKeyParts {
		if strings.Contains(k, part) {
			return true
		}
	}
	return false
}

// Handler is a slog.Handler that records every log into the Store and then
// forwards to the wrapped handler.
type Handler struct {
	store *Store
	next  slog.Handler
	attrs []slog.Attr
}

func NewHandler(store *Store, next slog.Handler) *Handler {
	return &Handler{store: store, next: next}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	// The ring captures everything down to debug; the wrapped handler
	// applies its own level.
	return true
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	entry := Entry{
		Time:    r.Time,
		Level:   r.Level.String(),
		Message: r.Message,
	}
	record := func(a slog.Attr) {
		if entry.Attrs == nil {
			entry.Attrs = map[string]string{}
		}
		if redactKey(a.Key) {
			entry.Attrs[a.Key] = "[redacted]"
			return
		}
		entry.Attrs[a.Key] = a.Value.String()
	}
	for _, a := range h.attrs {
		record(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		record(a)
		return true
	})
	h.store.add(entry)

	if h.next != nil && h.next.Enabled(ctx, r.Level) {
		return h.next.Handle(ctx, r)
	}
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	if h.next != nil {
		clone.next = h.next.WithAttrs(attrs)
	}
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	clone := *h
	if h.next != nil {
		clone.next = h.next.WithGroup(name)
	}
	return &clone
}
