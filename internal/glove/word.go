package glove

import (
	"strings"
	"time"
)

// WordSession assembles committed letters into the current word and tracks
// idle based finalization. It holds plain state only, locking and timers
// belong to the Controller.
type WordSession struct {
	letters      []string
	finalized    bool
	lastSampleAt time.Time
}

// Append adds a committed letter. Appending to a finalized word starts a
// fresh one.
func (w *WordSession) Append(letter string) {
	if w.finalized {
		w.letters = w.letters[:0]
		w.finalized = false
	}
	w.letters = append(w.letters, letter)
}

// DeleteLast removes the most recent letter, if any.
func (w *WordSession) DeleteLast() {
	if len(w.letters) > 0 {
		w.letters = w.letters[:len(w.letters)-1]
	}
}

// Clear drops the word and the finalized flag.
func (w *WordSession) Clear() {
	w.letters = w.letters[:0]
	w.finalized = false
}

// Touch records sample activity. Idle time is measured from the last touch.
func (w *WordSession) Touch(now time.Time) {
	w.lastSampleAt = now
}

// TryFinalize marks the word final if it is non empty, not yet finalized and
// no sample arrived for at least idle. It returns the finalized word.
func (w *WordSession) TryFinalize(now time.Time, idle time.Duration) (string, bool) {
	if w.finalized || len(w.letters) == 0 {
		return "", false
	}
	if w.lastSampleAt.IsZero() || now.Sub(w.lastSampleAt) < idle {
		return "", false
	}
	w.finalized = true
	return w.Word(), true
}

// Word returns the letters joined into a string.
func (w *WordSession) Word() string {
	return strings.Join(w.letters, "")
}

// Len returns the committed letter count.
func (w *WordSession) Len() int {
	return len(w.letters)
}

// Finalized reports whether the current word was finalized.
func (w *WordSession) Finalized() bool {
	return w.finalized
}
