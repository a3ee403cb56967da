package glove

import (
	"testing"
	"time"
)

func TestWordSession_Append(t *testing.T) {
	w := WordSession{}
	w.Append("A")
	w.Append("B")
	if got := w.Word(); got != "AB" {
		t.Fatalf("Word() = %q, want AB", got)
	}
	w.DeleteLast()
	if got := w.Word(); got != "A" {
		t.Errorf("Word() after DeleteLast = %q, want A", got)
	}
	w.DeleteLast()
	w.DeleteLast() // empty, must not panic
	if got := w.Word(); got != "" {
		t.Errorf("Word() = %q, want empty", got)
	}
}

func TestWordSession_TryFinalize(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name     string
		letters  []string
		touch    time.Time
		idle     time.Duration
		want     string
		wantDone bool
	}{
		{name: "finalizes after idle", letters: []string{"A", "B"},
			touch: now.Add(-3 * time.Second), idle: 2 * time.Second,
			want: "AB", wantDone: true},
		{name: "too early", letters: []string{"A"},
			touch: now.Add(-time.Second), idle: 2 * time.Second},
		{name: "empty word", letters: nil,
			touch: now.Add(-3 * time.Second), idle: 2 * time.Second},
		{name: "never touched", letters: []string{"A"},
			idle: 2 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := WordSession{}
			for _, l := range tt.letters {
				w.Append(l)
			}
			if !tt.touch.IsZero() {
				w.Touch(tt.touch)
			}
			got, done := w.TryFinalize(now, tt.idle)
			if done != tt.wantDone {
				t.Fatalf("TryFinalize() = %v, want %v", done, tt.wantDone)
			}
			if got != tt.want {
				t.Errorf("TryFinalize() = %q, want %q", got, tt.want)
			}
			if w.Finalized() != tt.wantDone {
				t.Errorf("Finalized() = %v, want %v", w.Finalized(), tt.wantDone)
			}
		})
	}
}

func TestWordSession_FinalizeOnce(t *testing.T) {
	w := WordSession{}
	w.Append("A")
	w.Touch(time.Now().Add(-3 * time.Second))
	if _, done := w.TryFinalize(time.Now(), time.Second); !done {
		t.Fatal("TryFinalize() did not finalize")
	}
	if _, done := w.TryFinalize(time.Now(), time.Second); done {
		t.Error("TryFinalize() finalized twice")
	}
}

func TestWordSession_AppendAfterFinalize(t *testing.T) {
	w := WordSession{}
	w.Append("A")
	w.Touch(time.Now().Add(-3 * time.Second))
	if _, done := w.TryFinalize(time.Now(), time.Second); !done {
		t.Fatal("TryFinalize() did not finalize")
	}
	w.Append("B")
	if got := w.Word(); got != "B" {
		t.Errorf("Word() = %q, want a fresh word B", got)
	}
	if w.Finalized() {
		t.Error("Finalized() still set after new letter")
	}
}

func TestWordSession_Clear(t *testing.T) {
	w := WordSession{}
	w.Append("A")
	w.Touch(time.Now().Add(-3 * time.Second))
	w.TryFinalize(time.Now(), time.Second)
	w.Clear()
	if w.Word() != "" || w.Len() != 0 || w.Finalized() {
		t.Errorf("Clear() left word %q, finalized %v", w.Word(), w.Finalized())
	}
}
