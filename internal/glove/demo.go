package glove

import (
	"context"
	"fmt"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/signspeak/rt-glove-wrapper/internal/api"
)

// SampleSource produces synthetic glove samples for demo letters.
type SampleSource interface {
	LetterSamples(letter rune, n int) ([]Sample, error)
}

// DemoConfig tunes demo pacing. Zero fields fall back to defaults.
type DemoConfig struct {
	SampleInterval    time.Duration
	LetterPause       time.Duration
	CompletionTimeout time.Duration
}

func (c DemoConfig) withDefaults() DemoConfig {
	if c.SampleInterval <= 0 {
		c.SampleInterval = 20 * time.Millisecond
	}
	if c.LetterPause <= 0 {
		c.LetterPause = 250 * time.Millisecond
	}
	if c.CompletionTimeout <= 0 {
		c.CompletionTimeout = 10 * time.Second
	}
	return c
}

// DemoDriver plays a scripted word through a controller using synthetic
// samples, one letter capture at a time. Each capture waits for its
// classification before the next letter starts.
type DemoDriver struct {
	ctrl     *Controller
	src      SampleSource
	alphabet Alphabet
	cfg      DemoConfig
}

// NewDemoDriver creates a driver for one controller.
func NewDemoDriver(ctrl *Controller, src SampleSource, alphabet Alphabet, cfg DemoConfig) *DemoDriver {
	return &DemoDriver{ctrl: ctrl, src: src, alphabet: alphabet, cfg: cfg.withDefaults()}
}

// Start validates the word and plays it in the background, returning the
// letters it will play. It fails when no letter of the word is recognizable
// or a demo is already running.
func (d *DemoDriver) Start(ctx context.Context, word string) (string, error) {
	letters, err := d.alphabet.Validate(word)
	if err != nil {
		return "", err
	}
	if err := d.ctrl.BeginDemo(string(letters)); err != nil {
		return "", err
	}
	go d.run(ctx, letters)
	return string(letters), nil
}

func (d *DemoDriver) run(ctx context.Context, letters []rune) {
	defer d.ctrl.EndDemo()
	for i, letter := range letters {
		if ctx.Err() != nil {
			return
		}
		if err := d.playLetter(ctx, letter); err != nil {
			goapp.Log.Warn().Err(err).Str("letter", string(letter)).Msg("demo letter skipped")
		}
		if i < len(letters)-1 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(d.cfg.LetterPause):
			}
		}
	}
}

func (d *DemoDriver) playLetter(ctx context.Context, letter rune) error {
	samples, err := d.src.LetterSamples(letter, d.ctrl.DemoBatchTarget())
	if err != nil {
		return err
	}
	done := make(chan struct{})
	var p *api.Prediction
	var clErr error
	if err := d.ctrl.ArmDemoCompletion(func(pr *api.Prediction, e error) {
		p = pr
		clErr = e
		close(done)
	}); err != nil {
		return err
	}
	d.ctrl.StartCapture()
	ticker := time.NewTicker(d.cfg.SampleInterval)
	defer ticker.Stop()
	for _, s := range samples {
		select {
		case <-ctx.Done():
			d.ctrl.DisarmDemoCompletion()
			return ctx.Err()
		case <-ticker.C:
			d.ctrl.AddSample(s)
		}
	}
	select {
	case <-done:
		if clErr != nil {
			return fmt.Errorf("classify: %w", clErr)
		}
		goapp.Log.Debug().Str("letter", string(letter)).Str("got", p.Letter).
			Float64("confidence", p.Confidence).Msg("demo letter played")
		return nil
	case <-time.After(d.cfg.CompletionTimeout):
		d.ctrl.DisarmDemoCompletion()
		d.ctrl.StopCapture()
		return fmt.Errorf("classification timeout")
	case <-ctx.Done():
		d.ctrl.DisarmDemoCompletion()
		return ctx.Err()
	}
}
