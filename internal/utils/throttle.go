package utils

import "time"

// Throttle limits how often an action fires. Not safe for concurrent use,
// callers are expected to hold their own lock.
type Throttle struct {
	every time.Duration
	last  time.Time
}

// NewThrottle creates a throttle passing at most one call per every.
// A non positive interval lets everything through.
func NewThrottle(every time.Duration) *Throttle {
	return &Throttle{every: every}
}

// Ready reports whether the action may fire now and marks the slot used.
func (t *Throttle) Ready(now time.Time) bool {
	if t.every <= 0 {
		return true
	}
	if !t.last.IsZero() && now.Sub(t.last) < t.every {
		return false
	}
	t.last = now
	return true
}
