package pipeline

import (
	"fmt"
	"testing"
	"time"
)

// fakeClock is a test double for the Clock interface.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestLimiter(shortCap, dailyCap int) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewRateLimiterWithClock(shortCap, dailyCap, clock), clock
}

func TestAdmit_BurstCap(t *testing.T) {
	rl, _ := newTestLimiter(10, 100)

	for i := 0; i < 10; i++ {
		if d := rl.Admit("1.2.3.4"); !d.Allowed {
			t.Fatalf("request %d unexpectedly denied: %q", i+1, d.Reason)
		}
	}

	d := rl.Admit("1.2.3.4")
	if d.Allowed {
		t.Fatal("11th request within the window should be denied")
	}
	if d.Reason != ReasonSlowDown {
		t.Errorf("reason = %q, want %q", d.Reason, ReasonSlowDown)
	}
}

func TestAdmit_WindowElapses(t *testing.T) {
	rl, clock := newTestLimiter(10, 100)

	for i := 0; i < 10; i++ {
		rl.Admit("1.2.3.4")
	}
	if d := rl.Admit("1.2.3.4"); d.Allowed {
		t.Fatal("expected denial at cap")
	}

	clock.advance(61 * time.Second)
	if d := rl.Admit("1.2.3.4"); !d.Allowed {
		t.Fatalf("first request after window elapsed should be admitted, got %q", d.Reason)
	}
}

func TestAdmit_DailyCap(t *testing.T) {
	rl, clock := newTestLimiter(10, 100)

	// Spread 100 requests over the day so the short window never blocks.
	for i := 0; i < 100; i++ {
		if d := rl.Admit("1.2.3.4"); !d.Allowed {
			t.Fatalf("request %d unexpectedly denied: %q", i+1, d.Reason)
		}
		clock.advance(2 * time.Minute)
	}

	d := rl.Admit("1.2.3.4")
	if d.Allowed {
		t.Fatal("101st request within the day should be denied")
	}
	if d.Reason != ReasonDailyLimit {
		t.Errorf("reason = %q, want %q", d.Reason, ReasonDailyLimit)
	}

	// The denial must not consume budget: the count stays at the cap until
	// the day window resets.
	if d := rl.Admit("1.2.3.4"); d.Allowed {
		t.Fatal("daily denial should repeat while the window is live")
	}
}

func TestAdmit_DailyWindowResetsOnExpiry(t *testing.T) {
	rl, clock := newTestLimiter(10, 100)

	for i := 0; i < 100; i++ {
		rl.Admit("1.2.3.4")
		clock.advance(2 * time.Minute)
	}
	if d := rl.Admit("1.2.3.4"); d.Allowed {
		t.Fatal("expected daily denial")
	}

	// 100 * 2min = 200min elapsed; push past 24h from the window start.
	clock.advance(24 * time.Hour)
	if d := rl.Admit("1.2.3.4"); !d.Allowed {
		t.Fatalf("request after daily window expiry should be admitted, got %q", d.Reason)
	}
}

func TestAdmit_ClientsIndependent(t *testing.T) {
	rl, _ := newTestLimiter(2, 100)

	rl.Admit("a")
	rl.Admit("a")
	if d := rl.Admit("a"); d.Allowed {
		t.Fatal("client a should be throttled")
	}
	if d := rl.Admit("b"); !d.Allowed {
		t.Fatalf("client b should be unaffected, got %q", d.Reason)
	}
}

func TestSweep_PrunesStaleClients(t *testing.T) {
	rl, clock := newTestLimiter(10, 100)

	for i := 0; i < sweepThreshold+1; i++ {
		rl.Admit(fmt.Sprintf("client-%d", i))
	}
	before := rl.Tracked()

	// All short windows go stale; the next new client triggers the sweep.
	clock.advance(2 * time.Minute)
	rl.Admit("fresh-client")

	after := rl.Tracked()
	if after >= before {
		t.Fatalf("sweep should prune stale clients: before=%d after=%d", before, after)
	}
}
