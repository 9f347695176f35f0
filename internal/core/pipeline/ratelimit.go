package pipeline

import (
	"log/slog"
	"sync"
	"time"
)

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Decision is the outcome of admission control.
type Decision struct {
	Allowed bool
	Reason  string
}

const (
	ReasonSlowDown   = "slow down"
	ReasonDailyLimit = "daily limit"
)

const (
	shortWindow    = 60 * time.Second
	dailyWindow    = 24 * time.Hour
	sweepThreshold = 1000
)

type clientRecord struct {
	shortHits []time.Time // timestamps within the trailing short window
	dayStart  time.Time
	dayCount  int
}

// RateLimiter gates the chat pipeline per client id. Both windows live in
// one record: a trailing 60s timestamp list and a reset-on-expiry daily
// counter. The daily counter is intentionally not a rolling window; a burst
// straddling the boundary can reach almost twice the cap, and that is the
// documented behavior.
type RateLimiter struct {
	shortCap int
	dailyCap int
	clock    Clock

	mu      sync.Mutex
	clients map[string]*clientRecord
}

func NewRateLimiter(shortCap, dailyCap int) *RateLimiter {
	return NewRateLimiterWithClock(shortCap, dailyCap, realClock{})
}

// NewRateLimiterWithClock creates a limiter with a custom clock (for testing).
func NewRateLimiterWithClock(shortCap, dailyCap int, clock Clock) *RateLimiter {
	if shortCap <= 0 {
		shortCap = 10
	}
	if dailyCap <= 0 {
		dailyCap = 100
	}
	return &RateLimiter{
		shortCap: shortCap,
		dailyCap: dailyCap,
		clock:    clock,
		clients:  map[string]*clientRecord{},
	}
}

// Admit decides whether a request from clientID may proceed. It cannot fail;
// it only allows or denies.
func (rl *RateLimiter) Admit(clientID string) Decision {
	now := rl.clock.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rec, ok := rl.clients[clientID]
	if !ok {
		rl.maybeSweep(now)
		rec = &clientRecord{dayStart: now}
		rl.clients[clientID] = rec
	}

	// Daily window: reset when expired, deny at cap without incrementing.
	if now.Sub(rec.dayStart) > dailyWindow {
		rec.dayStart = now
		rec.dayCount = 0
	}
	if rec.dayCount >= rl.dailyCap {
		slog.Warn("rate limit: daily cap exceeded", "client", clientID)
		return Decision{Allowed: false, Reason: ReasonDailyLimit}
	}

	// Short window: drop stale timestamps, deny at cap.
	cutoff := now.Add(-shortWindow)
	fresh := rec.shortHits[:0]
	for _, ts := range rec.shortHits {
		if ts.After(cutoff) {
			fresh = append(fresh, ts)
		}
	}
	rec.shortHits = fresh
	if len(rec.shortHits) >= rl.shortCap {
		slog.Warn("rate limit: burst cap exceeded", "client", clientID)
		return Decision{Allowed: false, Reason: ReasonSlowDown}
	}

	rec.shortHits = append(rec.shortHits, now)
	rec.dayCount++
	return Decision{Allowed: true}
}

// maybeSweep prunes clients whose short-window lists are entirely stale once
// the map grows past the threshold. Best-effort housekeeping; callers hold
// the mutex.
func (rl *RateLimiter) maybeSweep(now time.Time) {
	if len(rl.clients) <= sweepThreshold {
		return
	}
	cutoff := now.Add(-shortWindow)
	for id, rec := range rl.clients {
		stale := true
		for _, ts := range rec.shortHits {
			if ts.After(cutoff) {
				stale = false
				break
			}
		}
		if stale {
			delete(rl.clients, id)
		}
	}
}

// Tracked reports how many clients currently hold records.
func (rl *RateLimiter) Tracked() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}
