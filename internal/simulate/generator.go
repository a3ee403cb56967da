// Package simulate produces synthetic glove samples for demos and tools.
package simulate

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/signspeak/rt-glove-wrapper/internal/glove"
)

// Generator renders letter handshapes as normalized sample sequences.
type Generator struct {
	rnd   *rand.Rand
	noise float64
}

// New returns a Generator seeded with the current time. noise is the
// amplitude of per channel jitter, sensible values are below 0.05.
func New(noise float64) *Generator {
	if noise < 0 {
		noise = 0
	}
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano())), noise: noise}
}

// LetterSamples renders n samples for one letter. The hand ramps from rest
// into the pose over the first fifth and holds it with jitter afterwards.
func (g *Generator) LetterSamples(letter rune, n int) ([]glove.Sample, error) {
	pose, ok := poses[letter]
	if !ok {
		return nil, fmt.Errorf("no pose for letter %q", string(letter))
	}
	res := make([]glove.Sample, 0, n)
	ramp := n / 5
	for i := 0; i < n; i++ {
		var s glove.Sample
		if i < ramp {
			k := float64(i+1) / float64(ramp+1)
			for ch := 0; ch < glove.NumChannels; ch++ {
				s[ch] = restPose[ch] + (pose[ch]-restPose[ch])*k
			}
		} else {
			s = pose
		}
		res = append(res, g.jitter(s))
	}
	return res, nil
}

// RestSamples renders n samples of the relaxed open hand.
func (g *Generator) RestSamples(n int) []glove.Sample {
	res := make([]glove.Sample, 0, n)
	for i := 0; i < n; i++ {
		res = append(res, g.jitter(restPose))
	}
	return res
}

// Letters lists the letters the generator can render.
func (g *Generator) Letters() string {
	res := make([]rune, 0, len(poses))
	for r := 'A'; r <= 'Z'; r++ {
		if _, ok := poses[r]; ok {
			res = append(res, r)
		}
	}
	return string(res)
}

func (g *Generator) jitter(s glove.Sample) glove.Sample {
	if g.noise <= 0 {
		return s
	}
	var res glove.Sample
	for ch := 0; ch < glove.NumChannels; ch++ {
		v := s[ch] + (g.rnd.Float64()*2-1)*g.noise
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		res[ch] = v
	}
	return res
}
