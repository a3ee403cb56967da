package bridge

import (
	"fmt"
	"sync"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/signspeak/rt-glove-wrapper/internal/glove"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/host/v3"
)

// ADCSource polls flex sensors wired to two ADS1115 chips on one I2C bus.
// The first chip at 0x48 carries thumb to ring, the second at 0x49 the
// pinky on its channel 0.
type ADCSource struct {
	bus  i2c.BusCloser
	pins [glove.NumChannels]analog.PinADC
	tick *time.Ticker

	done      chan struct{}
	closeOnce sync.Once
}

// NewADCSource opens the bus and prepares all channels. An empty busName
// picks the first available bus.
func NewADCSource(busName string, rate int) (*ADCSource, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c: %w", err)
	}
	devA, err := ads1x15.NewADS1115(bus, &ads1x15.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("init adc 0x48: %w", err)
	}
	optsB := ads1x15.DefaultOpts
	optsB.I2cAddress = 0x49
	devB, err := ads1x15.NewADS1115(bus, &optsB)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("init adc 0x49: %w", err)
	}

	if rate <= 0 {
		rate = 50
	}
	res := &ADCSource{bus: bus, done: make(chan struct{})}
	wiring := []struct {
		dev *ads1x15.Dev
		ch  ads1x15.Channel
	}{
		{devA, ads1x15.Channel0},
		{devA, ads1x15.Channel1},
		{devA, ads1x15.Channel2},
		{devA, ads1x15.Channel3},
		{devB, ads1x15.Channel0},
	}
	for i, w := range wiring {
		pin, err := w.dev.PinForChannel(w.ch, 3300*physic.MilliVolt, physic.Frequency(rate)*physic.Hertz, ads1x15.SaveEnergy)
		if err != nil {
			bus.Close()
			return nil, fmt.Errorf("prepare channel %d: %w", i+1, err)
		}
		res.pins[i] = pin
	}
	res.tick = time.NewTicker(time.Second / time.Duration(rate))
	goapp.Log.Info().Str("bus", bus.String()).Int("rate", rate).Msg("adc ready")
	return res, nil
}

// Read waits for the next tick and samples all channels.
func (s *ADCSource) Read() (glove.Sample, error) {
	var res glove.Sample
	select {
	case <-s.done:
		return res, fmt.Errorf("source closed")
	case <-s.tick.C:
	}
	for i, pin := range s.pins {
		v, err := pin.Read()
		if err != nil {
			return res, fmt.Errorf("read channel %d: %w", i+1, err)
		}
		res[i] = float64(v.Raw)
	}
	return res, nil
}

func (s *ADCSource) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.tick.Stop()
		for _, pin := range s.pins {
			if pin != nil {
				_ = pin.Halt()
			}
		}
		_ = s.bus.Close()
	})
	return nil
}
