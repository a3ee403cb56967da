package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/signspeak/rt-glove-wrapper/internal/api"
	"github.com/signspeak/rt-glove-wrapper/internal/domain"
	"github.com/signspeak/rt-glove-wrapper/internal/glove"
)

// SettingsStore persists per device settings between connections.
type SettingsStore interface {
	GetSettings(ctx context.Context, device string) (*domain.DeviceSettings, error)
	SaveSettings(ctx context.Context, settings *domain.DeviceSettings) error
}

// Registry hands out one recognition session per device ID. Sessions are
// created on first use and live until the service stops.
type Registry struct {
	Ctx        context.Context
	Cfg        glove.Config
	DemoCfg    glove.DemoConfig
	Alphabet   glove.Alphabet
	Classifier glove.Classifier
	Samples    glove.SampleSource
	Store      SettingsStore

	lock     sync.Mutex
	sessions map[string]*Session
}

// Get returns the session for a device, creating it if needed.
func (r *Registry) Get(device string) *Session {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.sessions == nil {
		r.sessions = map[string]*Session{}
	}
	res, ok := r.sessions[device]
	if !ok {
		res = r.newSession(device)
		r.sessions[device] = res
	}
	return res
}

// Close stops all sessions.
func (r *Registry) Close() {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, s := range r.sessions {
		s.Ctrl.Close()
	}
}

func (r *Registry) newSession(device string) *Session {
	goapp.Log.Info().Str("device", device).Msg("new session")
	res := &Session{Device: device, store: r.Store, srvCtx: r.Ctx, watchers: map[chan *api.Update]bool{}}
	res.Ctrl = glove.NewController(r.Ctx, device, r.Cfg, r.Classifier, res.Broadcast)
	res.Demo = glove.NewDemoDriver(res.Ctrl, r.Samples, r.Alphabet, r.DemoCfg)
	res.loadSettings()
	return res
}

// Session owns recognition state for one device and fans updates out to
// websocket subscribers.
type Session struct {
	Device string
	Ctrl   *glove.Controller
	Demo   *glove.DemoDriver

	store  SettingsStore
	srvCtx context.Context

	lock     sync.Mutex
	watchers map[chan *api.Update]bool
}

// Broadcast pushes an update to all subscribers without blocking. Slow
// subscribers lose updates, the next STATE message catches them up.
func (s *Session) Broadcast(u *api.Update) {
	s.lock.Lock()
	defer s.lock.Unlock()
	for ch := range s.watchers {
		select {
		case ch <- u:
		default:
			goapp.Log.Warn().Str("device", s.Device).Msg("drop update for slow subscriber")
		}
	}
}

// Watch subscribes to updates. The returned func unsubscribes.
func (s *Session) Watch() (<-chan *api.Update, func()) {
	ch := make(chan *api.Update, 64)
	s.lock.Lock()
	s.watchers[ch] = true
	s.lock.Unlock()
	return ch, func() {
		s.lock.Lock()
		delete(s.watchers, ch)
		s.lock.Unlock()
	}
}

// AddSample feeds one sensor reading into the controller.
func (s *Session) AddSample(smp glove.Sample) {
	s.Ctrl.AddSample(smp)
}

// HandleEvent routes one control event.
func (s *Session) HandleEvent(ctx context.Context, msg *api.Message) error {
	switch msg.Event {
	case api.EventModeSingle:
		s.Ctrl.SetMode(glove.SingleShot)
	case api.EventModeContinuous:
		s.Ctrl.SetMode(glove.Continuous)
	case api.EventStartCapture:
		s.Ctrl.StartCapture()
	case api.EventStopCapture:
		s.Ctrl.StopCapture()
	case api.EventClearWord:
		s.Ctrl.ClearWord()
	case api.EventDeleteLast:
		s.Ctrl.DeleteLast()
	case api.EventConnected:
		s.Ctrl.SetConnected(true)
	case api.EventDisconnected:
		s.Ctrl.SetConnected(false)
	case api.EventSetCalibration:
		cal, err := glove.NewCalibration(msg.Straight, msg.Bent)
		if err != nil {
			return err
		}
		s.Ctrl.SetCalibration(cal)
		s.saveSettings(ctx)
	case api.EventSetConfidence:
		if msg.Confidence == nil {
			return fmt.Errorf("no confidence value")
		}
		s.Ctrl.SetMinConfidence(*msg.Confidence)
		s.saveSettings(ctx)
	case api.EventStartDemo:
		_, err := s.Demo.Start(s.srvCtx, msg.Word)
		return err
	default:
		return fmt.Errorf("unknown event '%s'", msg.Event)
	}
	return nil
}

func (s *Session) loadSettings() {
	ctx, cancelF := context.WithTimeout(s.srvCtx, time.Second*3)
	defer cancelF()
	set, err := s.store.GetSettings(ctx, s.Device)
	if err != nil {
		goapp.Log.Error().Err(err).Str("device", s.Device).Msg("can't load settings")
		return
	}
	if set.HasCalibration() {
		cal, err := glove.NewCalibration(set.Straight, set.Bent)
		if err != nil {
			goapp.Log.Error().Err(err).Str("device", s.Device).Msg("bad stored calibration")
		} else {
			s.Ctrl.SetCalibration(cal)
		}
	}
	if set.MinConfidence > 0 {
		s.Ctrl.SetMinConfidence(set.MinConfidence)
	}
}

func (s *Session) saveSettings(ctx context.Context) {
	cal := s.Ctrl.Calibration()
	set := &domain.DeviceSettings{
		ID:            s.Device,
		Straight:      cal.Straight.Floats(),
		Bent:          cal.Bent.Floats(),
		MinConfidence: s.Ctrl.MinConfidence(),
	}
	if err := s.store.SaveSettings(ctx, set); err != nil {
		goapp.Log.Error().Err(err).Str("device", s.Device).Msg("can't save settings")
	}
}
