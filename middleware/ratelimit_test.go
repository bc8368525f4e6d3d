package middleware

import (
	"fmt"
	"testing"
	"time"
)

func TestRateLimiterEnforcesLimitPerWindow(t *testing.T) {
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	l := newRateLimiter(3, time.Minute, 100)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !l.allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.allow("1.2.3.4") {
		t.Fatalf("fourth request in the window should be rejected")
	}

	// Another client has its own window.
	if !l.allow("5.6.7.8") {
		t.Fatalf("different client should be allowed")
	}

	// A fresh window resets the count.
	now = now.Add(time.Minute)
	if !l.allow("1.2.3.4") {
		t.Fatalf("request in the next window should be allowed")
	}
}

func TestRateLimiterEvictsExpiredWindows(t *testing.T) {
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	l := newRateLimiter(10, time.Minute, 1000)
	l.now = func() time.Time { return now }

	for i := 0; i < 50; i++ {
		l.allow(fmt.Sprintf("10.0.0.%d", i))
	}
	if l.size() != 50 {
		t.Fatalf("expected 50 tracked clients, got %d", l.size())
	}

	// All windows expire; the next call sweeps them out.
	now = now.Add(2 * time.Minute)
	l.allow("10.0.1.1")
	if l.size() != 1 {
		t.Fatalf("expected expired windows to be evicted, got %d", l.size())
	}
}

func TestRateLimiterBoundsTrackedClients(t *testing.T) {
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	l := newRateLimiter(10, time.Minute, 5)
	l.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		if !l.allow(fmt.Sprintf("10.0.0.%d", i)) {
			t.Fatalf("client %d should fit under the cap", i)
		}
	}

	// A sixth live client is shed instead of growing the map.
	if l.allow("10.0.0.99") {
		t.Fatalf("expected request to be shed when the map is full")
	}
	if l.size() != 5 {
		t.Fatalf("expected map to stay at 5 entries, got %d", l.size())
	}

	// Known clients still pass while the map is full.
	if !l.allow("10.0.0.0") {
		t.Fatalf("existing client should still be allowed")
	}
}
