package app

import (
	"sync"
	"time"
)

// loginThrottle counts failed sign-ins per email and blocks further
// tries for a cool-down window once the limit is hit. State is
// in-process only and resets on restart, matching the original's
// client-side counter. Not a rate limit.
type loginThrottle struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu       sync.Mutex
	failures map[string]*failureWindow
}

type failureWindow struct {
	count int
	first time.Time
}

func newLoginThrottle(max int, window time.Duration) *loginThrottle {
	if max <= 0 {
		max = 6
	}
	if window <= 0 {
		window = 5 * time.Minute
	}
	return &loginThrottle{
		max:      max,
		window:   window,
		now:      time.Now,
		failures: make(map[string]*failureWindow),
	}
}

// Allow reports whether a sign-in for email may proceed. An expired
// window clears the counter.
func (t *loginThrottle) Allow(email string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	fw, ok := t.failures[email]
	if !ok {
		return true
	}
	if t.now().Sub(fw.first) >= t.window {
		delete(t.failures, email)
		return true
	}
	return fw.count < t.max
}

// RecordFailure bumps the counter for email.
func (t *loginThrottle) RecordFailure(email string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fw, ok := t.failures[email]
	if !ok || t.now().Sub(fw.first) >= t.window {
		t.failures[email] = &failureWindow{count: 1, first: t.now()}
		return
	}
	fw.count++
}

// Reset clears the counter after a successful sign-in.
func (t *loginThrottle) Reset(email string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.failures, email)
}
