// Package feedback renders the audio cues played on recognition events.
// Cues are short WAV tones generated once at startup and served as static
// blobs, clients play them on letter commits, word finalization and errors.
package feedback

import (
	"fmt"
	"io"
	"math"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	// CueLetter confirms a committed letter.
	CueLetter = "letter"
	// CueWord confirms a finalized word.
	CueWord = "word"
	// CueError signals a failed classification.
	CueError = "error"
)

const sampleRate = 16000

// Cues holds the prerendered tone blobs keyed by cue name.
type Cues struct {
	data map[string][]byte
}

// NewCues renders all cues.
func NewCues() (*Cues, error) {
	res := &Cues{data: map[string][]byte{}}
	for name, t := range map[string]toneSpec{
		CueLetter: {freqs: []float64{880}, ms: 70, gain: 0.4},
		CueWord:   {freqs: []float64{660, 880}, ms: 220, gain: 0.4},
		CueError:  {freqs: []float64{220}, ms: 200, gain: 0.5},
	} {
		b, err := renderTone(t)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}
		res.data[name] = b
		goapp.Log.Debug().Str("cue", name).Int("bytes", len(b)).Msg("cue rendered")
	}
	return res, nil
}

// Get returns the WAV blob for a cue name.
func (c *Cues) Get(name string) ([]byte, error) {
	b, ok := c.data[name]
	if !ok {
		return nil, fmt.Errorf("no cue '%s'", name)
	}
	return b, nil
}

type toneSpec struct {
	freqs []float64
	ms    int
	gain  float64
}

// renderTone synthesizes the tone segments back to back with a short fade on
// both ends of each segment to avoid clicks.
func renderTone(t toneSpec) ([]byte, error) {
	perSeg := sampleRate * t.ms / 1000 / len(t.freqs)
	fade := perSeg / 10
	samples := make([]int, 0, perSeg*len(t.freqs))
	for _, f := range t.freqs {
		for i := 0; i < perSeg; i++ {
			v := math.Sin(2*math.Pi*f*float64(i)/sampleRate) * t.gain
			if i < fade {
				v *= float64(i) / float64(fade)
			}
			if perSeg-i < fade {
				v *= float64(perSeg-i) / float64(fade)
			}
			samples = append(samples, int(v*math.MaxInt16))
		}
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           samples,
		SourceBitDepth: 16,
	}

	wavBuf := &memBuffer{buf: make([]byte, 0)}
	enc := wav.NewEncoder(wavBuf, sampleRate, 16, 1, 1)
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close wav: %w", err)
	}
	return wavBuf.Bytes(), nil
}

// memBuffer is an in memory io.WriteSeeker for the wav encoder.
type memBuffer struct {
	buf []byte
	pos int64
}

func (m *memBuffer) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		newBuf := make([]byte, end)
		copy(newBuf, m.buf)
		m.buf = newBuf
	}
	copy(m.buf[m.pos:], p)
	m.pos = end
	return len(p), nil
}

func (m *memBuffer) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = m.pos + offset
	case io.SeekEnd:
		newPos = int64(len(m.buf)) + offset
	}
	if newPos < 0 {
		return 0, fmt.Errorf("negative position")
	}
	m.pos = newPos
	return newPos, nil
}

func (m *memBuffer) Bytes() []byte {
	return m.buf
}
