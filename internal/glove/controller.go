//go:generate stringer -type=Mode
package glove

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/signspeak/rt-glove-wrapper/internal/api"
	"github.com/signspeak/rt-glove-wrapper/internal/utils"
)

// ErrDemoRunning is returned when a demo is requested while one is active.
var ErrDemoRunning = errors.New("demo already running")

// Classifier turns one observation into a letter prediction.
type Classifier interface {
	Classify(ctx context.Context, samples []Sample, device string) (*api.Prediction, error)
}

// Mode selects how samples are framed into observations.
type Mode int

const (
	// SingleShot collects one fixed size batch per explicit capture trigger.
	SingleShot Mode = iota
	// Continuous keeps a rolling window and classifies it whenever no
	// classification is in flight.
	Continuous
)

type framing int

const (
	framingBatch framing = iota
	framingRolling
	framingDemo
)

// Config tunes one recognition session. Zero fields fall back to defaults.
type Config struct {
	BatchSize       int
	DemoBatchSize   int
	WindowSize      int
	StableCount     int
	MinConfidence   float64
	IdleTimeout     time.Duration
	IdleCheck       time.Duration
	RawThreshold    float64
	HistorySize     int
	DisplayInterval time.Duration

	ResetCalibrationOnDisconnect bool
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = 100
	}
	if c.DemoBatchSize <= 0 {
		c.DemoBatchSize = 30
	}
	if c.WindowSize <= 0 {
		c.WindowSize = 25
	}
	if c.StableCount <= 0 {
		c.StableCount = 3
	}
	if c.MinConfidence <= 0 {
		c.MinConfidence = 0.6
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 2 * time.Second
	}
	if c.IdleCheck <= 0 {
		c.IdleCheck = 2500 * time.Millisecond
	}
	if c.RawThreshold <= 0 {
		c.RawThreshold = 2
	}
	if c.HistorySize <= 0 {
		c.HistorySize = 20
	}
	if c.DisplayInterval <= 0 {
		c.DisplayInterval = 100 * time.Millisecond
	}
	return c
}

// Controller is the per device recognition state machine. It frames incoming
// samples into observations, sends them to the classifier and feeds
// predictions through stabilization into the word session. One lock guards
// all state, classification runs outside the lock.
type Controller struct {
	device     string
	cfg        Config
	classifier Classifier
	notifyFunc func(*api.Update)
	ctx        context.Context

	lock          sync.Mutex
	mode          Mode
	connected     bool
	cal           Calibration
	minConfidence float64

	capturing bool
	batch     *BatchBuffer
	window    *RollingWindow
	stab      *Stabilizer
	word      WordSession

	// epoch invalidates in flight classifications on any reset. A completion
	// carrying an older epoch is dropped without touching state.
	inFlight bool
	epoch    uint64

	demoActive bool
	demoWord   string
	demoSeq    uint64
	demoDone   func(p *api.Prediction, err error)

	lastPrediction *api.Prediction
	history        []*api.Prediction
	lastErr        string

	idleTimer *time.Timer
	display   *utils.Throttle
	closed    bool
}

// NewController creates a controller for one device. notifyFunc receives
// every outgoing update and must not block.
func NewController(ctx context.Context, device string, cfg Config, classifier Classifier, notifyFunc func(*api.Update)) *Controller {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg = cfg.withDefaults()
	return &Controller{
		device:        device,
		cfg:           cfg,
		classifier:    classifier,
		notifyFunc:    notifyFunc,
		ctx:           ctx,
		mode:          Continuous,
		cal:           DefaultCalibration(),
		minConfidence: cfg.MinConfidence,
		batch:         NewBatchBuffer(cfg.BatchSize),
		window:        NewRollingWindow(cfg.WindowSize),
		stab:          NewStabilizer(cfg.StableCount),
		display:       utils.NewThrottle(cfg.DisplayInterval),
	}
}

// AddSample feeds one sensor reading. Raw readings are normalized, the word
// idle clock is touched and the sample is routed by the current mode.
func (c *Controller) AddSample(raw Sample) {
	now := time.Now()
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.closed {
		return
	}
	s := raw
	if c.connected || LooksRaw(raw, c.cfg.RawThreshold) {
		s = c.cal.Normalize(raw)
	}
	c.word.Touch(now)
	c.armIdleCheckLocked()
	if c.display.Ready(now) {
		u := c.newUpdateLocked(api.EventSample)
		u.Sample = s.Floats()
		c.notify(u)
	}
	if c.demoActive {
		if !c.capturing {
			return
		}
		if obs, ok := c.batch.Add(s); ok {
			c.capturing = false
			c.dispatchLocked(obs, framingDemo, c.demoSeq)
		}
		return
	}
	switch c.mode {
	case SingleShot:
		if !c.capturing {
			return
		}
		if obs, ok := c.batch.Add(s); ok {
			c.capturing = false
			c.dispatchLocked(obs, framingBatch, 0)
		}
	case Continuous:
		c.window.Add(s)
		if c.window.Full() && !c.inFlight {
			c.dispatchLocked(c.window.Snapshot(), framingRolling, 0)
		}
	}
}

func (c *Controller) dispatchLocked(obs []Sample, fr framing, demoSeq uint64) {
	c.inFlight = true
	ep := c.epoch
	goapp.Log.Debug().Str("device", c.device).Int("samples", len(obs)).Msg("dispatch observation")
	go func() {
		p, err := c.classifier.Classify(c.ctx, obs, c.device)
		c.complete(ep, fr, demoSeq, p, err)
	}()
}

func (c *Controller) complete(ep uint64, fr framing, demoSeq uint64, p *api.Prediction, err error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if ep != c.epoch {
		goapp.Log.Debug().Str("device", c.device).Msg("drop stale classification")
		return
	}
	c.inFlight = false
	if err != nil {
		goapp.Log.Error().Err(err).Str("device", c.device).Msg("classification failed")
		c.lastErr = err.Error()
		c.window.Reset()
		if fr == framingDemo && c.demoDone != nil && demoSeq == c.demoSeq {
			done := c.demoDone
			c.demoDone = nil
			done(nil, err)
		}
		u := c.newUpdateLocked(api.EventError)
		u.Error = c.lastErr
		c.notify(u)
		return
	}
	c.lastErr = ""
	c.lastPrediction = p
	c.pushHistoryLocked(p)
	goapp.Log.Debug().Str("device", c.device).Str("letter", p.Letter).
		Float64("confidence", p.Confidence).Msg("prediction")
	switch fr {
	case framingDemo:
		if c.demoDone != nil && demoSeq == c.demoSeq {
			done := c.demoDone
			c.demoDone = nil
			done(p, nil)
			c.commitLocked(p)
		} else {
			goapp.Log.Warn().Str("device", c.device).Str("letter", p.Letter).Msg("late demo prediction, skip commit")
		}
	case framingBatch:
		if p.Confidence >= c.minConfidence {
			c.commitLocked(p)
		}
	case framingRolling:
		if c.stab.Observe(p.Letter, p.Confidence, c.minConfidence) {
			c.commitLocked(p)
		}
	}
	c.notify(c.newUpdateLocked(api.EventState))
}

func (c *Controller) commitLocked(p *api.Prediction) {
	c.word.Append(p.Letter)
	goapp.Log.Info().Str("device", c.device).Str("letter", p.Letter).Str("word", c.word.Word()).Msg("letter committed")
	u := c.newUpdateLocked(api.EventLetter)
	u.Letter = p.Letter
	c.notify(u)
}

// SetMode switches framing. The word survives the switch, capture state,
// buffers and any in flight classification do not.
func (c *Controller) SetMode(m Mode) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.mode == m {
		return
	}
	goapp.Log.Info().Str("device", c.device).Str("mode", m.String()).Msg("mode change")
	c.mode = m
	c.resetCaptureLocked()
	c.notify(c.newUpdateLocked(api.EventState))
}

// Mode returns the current framing mode.
func (c *Controller) Mode() Mode {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.mode
}

func (c *Controller) resetCaptureLocked() {
	c.epoch++
	c.inFlight = false
	c.capturing = false
	c.batch.Reset(c.cfg.BatchSize)
	c.window.Reset()
	c.stab.Reset()
}

// StartCapture arms one batch capture. Outside a demo it only makes sense in
// single shot mode.
func (c *Controller) StartCapture() {
	c.lock.Lock()
	defer c.lock.Unlock()
	if !c.demoActive && c.mode != SingleShot {
		goapp.Log.Warn().Str("device", c.device).Msg("capture trigger ignored in continuous mode")
		return
	}
	target := c.cfg.BatchSize
	if c.demoActive {
		target = c.cfg.DemoBatchSize
	}
	c.batch.Reset(target)
	c.capturing = true
	c.notify(c.newUpdateLocked(api.EventState))
}

// StopCapture disarms capture and drops buffered samples and any in flight
// classification.
func (c *Controller) StopCapture() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.resetCaptureLocked()
	c.notify(c.newUpdateLocked(api.EventState))
}

// ClearWord drops the assembled word.
func (c *Controller) ClearWord() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.word.Clear()
	c.notify(c.newUpdateLocked(api.EventState))
}

// DeleteLast removes the most recently committed letter.
func (c *Controller) DeleteLast() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.word.DeleteLast()
	c.notify(c.newUpdateLocked(api.EventState))
}

// SetConnected records physical device attachment. Samples from an attached
// device are always treated as raw ADC readings.
func (c *Controller) SetConnected(on bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.connected == on {
		return
	}
	goapp.Log.Info().Str("device", c.device).Bool("connected", on).Msg("device state")
	c.connected = on
	c.resetCaptureLocked()
	if !on && c.cfg.ResetCalibrationOnDisconnect {
		c.cal = DefaultCalibration()
	}
	c.notify(c.newUpdateLocked(api.EventState))
}

// SetCalibration replaces the flex baselines.
func (c *Controller) SetCalibration(cal Calibration) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.cal = cal
	goapp.Log.Info().Str("device", c.device).Msg("calibration updated")
	c.notify(c.newUpdateLocked(api.EventState))
}

// Calibration returns the active flex baselines.
func (c *Controller) Calibration() Calibration {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.cal
}

// SetMinConfidence changes the acceptance threshold, clamped to [0, 1].
func (c *Controller) SetMinConfidence(v float64) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	c.minConfidence = v
	goapp.Log.Info().Str("device", c.device).Float64("minConfidence", v).Msg("confidence threshold updated")
	c.notify(c.newUpdateLocked(api.EventState))
}

// MinConfidence returns the acceptance threshold.
func (c *Controller) MinConfidence() float64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.minConfidence
}

// Word returns the currently assembled word.
func (c *Controller) Word() string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.word.Word()
}

// BeginDemo claims the controller for a scripted demo. The word restarts and
// continuous auto capture stays suppressed until EndDemo.
func (c *Controller) BeginDemo(word string) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.closed {
		return fmt.Errorf("controller closed")
	}
	if c.demoActive {
		return ErrDemoRunning
	}
	goapp.Log.Info().Str("device", c.device).Str("word", word).Msg("demo start")
	c.demoActive = true
	c.demoWord = word
	c.resetCaptureLocked()
	c.word.Clear()
	c.notify(c.newUpdateLocked(api.EventState))
	return nil
}

// EndDemo releases the controller and announces the played word.
func (c *Controller) EndDemo() {
	c.lock.Lock()
	defer c.lock.Unlock()
	if !c.demoActive {
		return
	}
	word := c.demoWord
	goapp.Log.Info().Str("device", c.device).Str("word", word).Str("result", c.word.Word()).Msg("demo done")
	c.demoActive = false
	c.demoWord = ""
	c.demoDone = nil
	c.resetCaptureLocked()
	u := c.newUpdateLocked(api.EventDemoDone)
	u.DemoWord = word
	c.notify(u)
}

// ArmDemoCompletion registers a one shot callback fired when the observation
// of the next demo capture finishes, successfully or not.
func (c *Controller) ArmDemoCompletion(fn func(*api.Prediction, error)) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if !c.demoActive {
		return fmt.Errorf("no active demo")
	}
	if c.demoDone != nil {
		return fmt.Errorf("demo completion already armed")
	}
	c.demoSeq++
	c.demoDone = fn
	return nil
}

// DisarmDemoCompletion clears a not yet fired completion callback. A late
// classification for that capture is then logged and dropped.
func (c *Controller) DisarmDemoCompletion() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.demoDone = nil
}

// DemoBatchTarget returns the batch size used for demo captures.
func (c *Controller) DemoBatchTarget() int {
	return c.cfg.DemoBatchSize
}

// DemoActive reports whether a demo currently owns the controller.
func (c *Controller) DemoActive() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.demoActive
}

// Snapshot returns the full state including prediction history, for new
// subscribers and the REST state endpoint.
func (c *Controller) Snapshot() *api.Update {
	c.lock.Lock()
	defer c.lock.Unlock()
	u := c.newUpdateLocked(api.EventState)
	u.History = append([]*api.Prediction{}, c.history...)
	return u
}

// Close stops the idle timer and invalidates in flight work. The controller
// ignores samples afterwards.
func (c *Controller) Close() {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.epoch++
	c.demoDone = nil
	if c.idleTimer != nil {
		c.idleTimer.Stop()
	}
}

func (c *Controller) armIdleCheckLocked() {
	if c.idleTimer == nil {
		c.idleTimer = time.AfterFunc(c.cfg.IdleCheck, c.onIdleCheck)
		return
	}
	c.idleTimer.Reset(c.cfg.IdleCheck)
}

// onIdleCheck fires some time after the last sample. The elapsed idle time is
// measured against the live timestamp, so a sample racing the timer simply
// postpones finalization. While a word is still pending the check re-arms
// itself.
func (c *Controller) onIdleCheck() {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.closed {
		return
	}
	if c.demoActive {
		c.armIdleCheckLocked()
		return
	}
	word, ok := c.word.TryFinalize(time.Now(), c.cfg.IdleTimeout)
	if !ok {
		if c.word.Len() > 0 && !c.word.Finalized() {
			c.armIdleCheckLocked()
		}
		return
	}
	goapp.Log.Info().Str("device", c.device).Str("word", word).Msg("word finalized")
	c.notify(c.newUpdateLocked(api.EventWord))
}

func (c *Controller) pushHistoryLocked(p *api.Prediction) {
	c.history = append([]*api.Prediction{p}, c.history...)
	if len(c.history) > c.cfg.HistorySize {
		c.history = c.history[:c.cfg.HistorySize]
	}
}

func (c *Controller) newUpdateLocked(event string) *api.Update {
	fill, target := c.batch.Fill()
	if !c.capturing && c.mode == Continuous && !c.demoActive {
		fill, target = c.window.Len(), c.cfg.WindowSize
	}
	return &api.Update{
		Event:         event,
		Device:        c.device,
		Mode:          c.mode.String(),
		Word:          c.word.Word(),
		Finalized:     c.word.Finalized(),
		Connected:     c.connected,
		Capturing:     c.capturing,
		InFlight:      c.inFlight,
		Fill:          fill,
		Target:        target,
		Prediction:    c.lastPrediction,
		Error:         c.lastErr,
		MinConfidence: c.minConfidence,
		DemoWord:      c.demoWord,
	}
}

func (c *Controller) notify(u *api.Update) {
	if c.notifyFunc != nil {
		c.notifyFunc(u)
	}
}
