package httpapi

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter_PerKeyBuckets(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(2)
	t.Cleanup(rl.Stop)

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatalf("first two requests for a should pass")
	}
	if rl.Allow("a") {
		t.Fatalf("third request for a should be limited")
	}
	if !rl.Allow("b") {
		t.Fatalf("b has its own bucket")
	}
}

func TestRateLimiter_SweepDropsIdleKeys(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(5)
	t.Cleanup(rl.Stop)

	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	rl.Allow("old")
	now = now.Add(rl.idleTTL + time.Second)
	rl.Allow("fresh")
	rl.sweep()

	if got := rl.size(); got != 1 {
		t.Fatalf("size=%d, want 1", got)
	}
}

func TestClientKey(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "203.0.113.9:51000"
	if got := clientKey(r); got != "203.0.113.9" {
		t.Fatalf("clientKey=%q", got)
	}
	r.RemoteAddr = "203.0.113.9"
	if got := clientKey(r); got != "203.0.113.9" {
		t.Fatalf("clientKey(no port)=%q", got)
	}
}
