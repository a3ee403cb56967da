package simulate

import (
	"testing"

	"github.com/signspeak/rt-glove-wrapper/internal/glove"
)

func TestGenerator_LetterSamples(t *testing.T) {
	g := New(0)
	got, err := g.LetterSamples('A', 20)
	if err != nil {
		t.Fatalf("LetterSamples() failed: %v", err)
	}
	if len(got) != 20 {
		t.Fatalf("LetterSamples() len = %d, want 20", len(got))
	}
	pose := poses['A']
	// the tail holds the pose exactly with zero noise
	if got[19] != pose {
		t.Errorf("last sample = %v, want pose %v", got[19], pose)
	}
	// the ramp starts closer to rest than to the pose
	if got[0][1] > (restPose[1]+pose[1])/2 {
		t.Errorf("first sample = %v, want near rest %v", got[0], restPose)
	}
	for i, s := range got {
		for ch := 0; ch < glove.NumChannels; ch++ {
			if s[ch] < 0 || s[ch] > 1 {
				t.Fatalf("sample %d channel %d = %v, out of [0, 1]", i, ch, s[ch])
			}
		}
	}
}

func TestGenerator_LetterSamplesNoise(t *testing.T) {
	g := New(0.02)
	got, err := g.LetterSamples('L', 50)
	if err != nil {
		t.Fatalf("LetterSamples() failed: %v", err)
	}
	for i, s := range got {
		for ch := 0; ch < glove.NumChannels; ch++ {
			if s[ch] < 0 || s[ch] > 1 {
				t.Fatalf("sample %d channel %d = %v, out of [0, 1]", i, ch, s[ch])
			}
		}
	}
	pose := poses['L']
	if d := got[49][2] - pose[2]; d > 0.02 || d < -0.02 {
		t.Errorf("held sample off pose by %v, want within noise", d)
	}
}

func TestGenerator_LetterSamplesUnknown(t *testing.T) {
	g := New(0)
	if _, err := g.LetterSamples('Z', 10); err == nil {
		t.Error("LetterSamples() succeeded for an unsupported letter")
	}
}

func TestGenerator_RestSamples(t *testing.T) {
	g := New(0)
	got := g.RestSamples(5)
	if len(got) != 5 {
		t.Fatalf("RestSamples() len = %d, want 5", len(got))
	}
	if got[0] != restPose {
		t.Errorf("RestSamples() = %v, want rest pose", got[0])
	}
}

func TestGenerator_Letters(t *testing.T) {
	g := New(0)
	if got := g.Letters(); got != glove.DefaultLetters {
		t.Errorf("Letters() = %q, want %q", got, glove.DefaultLetters)
	}
}
