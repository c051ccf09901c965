package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock drives the limiter's notion of time in tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(maxRequests int, window time.Duration) (*Limiter, *fakeClock) {
	clock := newFakeClock()
	l := New(maxRequests, window)
	l.now = clock.Now
	return l, clock
}

func TestAllow_UnderLimit(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("caller-1") {
			t.Fatalf("Allow() call %d = false, want true", i+1)
		}
	}
}

func TestAllow_DeniesFourthWithinWindow(t *testing.T) {
	l, clock := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("caller-1") {
			t.Fatalf("Allow() call %d = false, want true", i+1)
		}
		clock.Advance(time.Second)
	}

	if l.Allow("caller-1") {
		t.Error("Allow() 4th call within window = true, want false")
	}
}

func TestAllow_PermitsAfterWindowElapsed(t *testing.T) {
	l, clock := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		l.Allow("caller-1")
	}
	if l.Allow("caller-1") {
		t.Fatal("Allow() should deny at the limit")
	}

	clock.Advance(61 * time.Second)

	if !l.Allow("caller-1") {
		t.Error("Allow() after window elapsed = false, want true")
	}
}

func TestAllow_DeniedRequestsNotCounted(t *testing.T) {
	l, clock := newTestLimiter(2, time.Minute)

	l.Allow("caller-1")
	l.Allow("caller-1")

	// Hammer while throttled: denials must not extend the lockout.
	for i := 0; i < 10; i++ {
		if l.Allow("caller-1") {
			t.Fatalf("Allow() while throttled = true on attempt %d", i)
		}
		clock.Advance(time.Second)
	}

	if got := l.Pending("caller-1"); got != 2 {
		t.Errorf("Pending() = %d, want 2 (denied requests must not be recorded)", got)
	}

	// The two recorded timestamps are now 70 and 69 seconds old.
	clock.Advance(time.Minute)
	if !l.Allow("caller-1") {
		t.Error("Allow() after recorded requests expired = false, want true")
	}
}

func TestAllow_CallersAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	if !l.Allow("caller-1") {
		t.Fatal("Allow(caller-1) = false, want true")
	}
	if l.Allow("caller-1") {
		t.Fatal("Allow(caller-1) second call = true, want false")
	}

	// A different caller has a fresh window.
	if !l.Allow("caller-2") {
		t.Error("Allow(caller-2) = false, want true")
	}
}

func TestAllow_ConcurrentCallers(t *testing.T) {
	l, _ := newTestLimiter(100, time.Minute)

	var wg sync.WaitGroup
	for c := 0; c < 8; c++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			caller := fmt.Sprintf("caller-%d", id)
			for i := 0; i < 50; i++ {
				l.Allow(caller)
			}
		}(c)
	}
	wg.Wait()

	for c := 0; c < 8; c++ {
		caller := fmt.Sprintf("caller-%d", c)
		if got := l.Pending(caller); got != 50 {
			t.Errorf("Pending(%s) = %d, want 50", caller, got)
		}
	}
}

func TestPending_UnknownCaller(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)
	if got := l.Pending("nobody"); got != 0 {
		t.Errorf("Pending(unknown) = %d, want 0", got)
	}
}
