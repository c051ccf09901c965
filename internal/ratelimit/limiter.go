package ratelimit

import (
	"sync"
	"time"
)

// Limiter bounds how many commands each caller may submit per sliding window.
//
// State is keyed per caller: each caller owns an independent timestamp
// window guarded by its own mutex, so concurrent checks for different
// callers only contend on the short map lookup.
type Limiter struct {
	maxRequests int
	window      time.Duration

	mu      sync.RWMutex
	callers map[string]*callerWindow

	// now is the clock source; replaceable in tests.
	now func() time.Time
}

// callerWindow holds one caller's request timestamps within the window.
type callerWindow struct {
	mu         sync.Mutex
	timestamps []time.Time
}

// New creates a limiter admitting at most maxRequests per caller per window.
func New(maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		maxRequests: maxRequests,
		window:      window,
		callers:     make(map[string]*callerWindow),
		now:         time.Now,
	}
}

// Allow reports whether the caller may submit another command right now.
//
// Timestamps older than the window are pruned lazily on each check. If the
// caller is at the limit the request is denied and NOT recorded: a denied
// request never occupies window capacity, so a steady stream of rejected
// attempts does not extend the lockout.
func (l *Limiter) Allow(callerID string) bool {
	w := l.windowFor(callerID)
	now := l.now()
	cutoff := now.Add(-l.window)

	w.mu.Lock()
	defer w.mu.Unlock()

	// Lazy prune: drop timestamps that fell out of the trailing window.
	kept := w.timestamps[:0]
	for _, ts := range w.timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	w.timestamps = kept

	if len(w.timestamps) >= l.maxRequests {
		return false
	}

	w.timestamps = append(w.timestamps, now)
	return true
}

// Pending returns how many requests the caller currently has inside the
// window. Expired timestamps are not counted but are left for the next
// Allow to prune.
func (l *Limiter) Pending(callerID string) int {
	l.mu.RLock()
	w, ok := l.callers[callerID]
	l.mu.RUnlock()
	if !ok {
		return 0
	}

	cutoff := l.now().Add(-l.window)

	w.mu.Lock()
	defer w.mu.Unlock()

	count := 0
	for _, ts := range w.timestamps {
		if ts.After(cutoff) {
			count++
		}
	}
	return count
}

// windowFor returns the caller's window, creating it on first use.
func (l *Limiter) windowFor(callerID string) *callerWindow {
	l.mu.RLock()
	w, ok := l.callers[callerID]
	l.mu.RUnlock()
	if ok {
		return w
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if w, ok = l.callers[callerID]; ok {
		return w
	}
	w = &callerWindow{}
	l.callers[callerID] = w
	return w
}
