package feedback

import (
	"bytes"
	"testing"
)

func TestNewCues(t *testing.T) {
	c, err := NewCues()
	if err != nil {
		t.Fatalf("NewCues() failed: %v", err)
	}
	for _, name := range []string{CueLetter, CueWord, CueError} {
		t.Run(name, func(t *testing.T) {
			b, err := c.Get(name)
			if err != nil {
				t.Fatalf("Get() failed: %v", err)
			}
			if len(b) < 100 {
				t.Fatalf("Get() returned %d bytes, want a real tone", len(b))
			}
			if !bytes.HasPrefix(b, []byte("RIFF")) || !bytes.Equal(b[8:12], []byte("WAVE")) {
				t.Errorf("Get() blob is not a WAV file: % x", b[:12])
			}
		})
	}
}

func TestCues_GetUnknown(t *testing.T) {
	c, err := NewCues()
	if err != nil {
		t.Fatalf("NewCues() failed: %v", err)
	}
	if _, err := c.Get("applause"); err == nil {
		t.Error("Get() succeeded for an unknown cue")
	}
}

func TestCues_WordLongerThanLetter(t *testing.T) {
	c, err := NewCues()
	if err != nil {
		t.Fatalf("NewCues() failed: %v", err)
	}
	letter, _ := c.Get(CueLetter)
	word, _ := c.Get(CueWord)
	if len(word) <= len(letter) {
		t.Errorf("word cue %d bytes <= letter cue %d bytes", len(word), len(letter))
	}
}
