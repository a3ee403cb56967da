// Package bridge reads raw flex readings from glove hardware and publishes
// them to the wrapper's MQTT ingress. It runs on the device next to the
// sensors, typically a Pi strapped to the glove.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/airenas/go-app/pkg/goapp"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/signspeak/rt-glove-wrapper/internal/api"
	"github.com/signspeak/rt-glove-wrapper/internal/glove"
)

// Source yields one raw sample per call, pacing itself to the sensor rate.
type Source interface {
	Read() (glove.Sample, error)
	Close() error
}

// Config holds bridge settings.
type Config struct {
	BrokerURL string
	ClientID  string
	Prefix    string
	Device    string

	// Kind selects the sensor backend, serial or i2c.
	Kind       string
	SerialPort string
	BaudRate   uint
	SampleRate int
}

// Run reads samples until the context ends and publishes them as CSV lines.
// Device attach and detach events frame the stream so the wrapper treats
// readings as raw ADC values.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Device == "" {
		return fmt.Errorf("no device ID")
	}
	if cfg.BrokerURL == "" {
		return fmt.Errorf("no broker URL")
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "glove"
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "glove-bridge-" + cfg.Device
	}

	src, err := newSource(cfg)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		src.Close()
	}()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		src.Close()
		return fmt.Errorf("can't connect to broker: %w", token.Error())
	}
	defer client.Disconnect(250)
	goapp.Log.Info().Str("broker", cfg.BrokerURL).Str("device", cfg.Device).Msg("bridge connected")

	topicSamples := fmt.Sprintf("%s/%s/samples", cfg.Prefix, cfg.Device)
	topicEvent := fmt.Sprintf("%s/%s/event", cfg.Prefix, cfg.Device)

	publishEvent(client, topicEvent, api.EventConnected)
	defer publishEvent(client, topicEvent, api.EventDisconnected)

	for {
		smp, err := src.Read()
		if err != nil {
			if ctx.Err() != nil {
				goapp.Log.Info().Msg("bridge stopped")
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		if token := client.Publish(topicSamples, 0, false, smp.CSV()); token.Wait() && token.Error() != nil {
			goapp.Log.Error().Err(token.Error()).Msg("publish error")
		}
	}
}

func newSource(cfg Config) (Source, error) {
	switch cfg.Kind {
	case "serial", "":
		return NewSerialSource(cfg.SerialPort, cfg.BaudRate)
	case "i2c":
		return NewADCSource("", cfg.SampleRate)
	}
	return nil, fmt.Errorf("unknown source kind '%s'", cfg.Kind)
}

func publishEvent(client mqtt.Client, topic, event string) {
	payload, err := json.Marshal(&api.Message{Event: event})
	if err != nil {
		goapp.Log.Error().Err(err).Msg("marshal error")
		return
	}
	if token := client.Publish(topic, 1, false, payload); token.Wait() && token.Error() != nil {
		goapp.Log.Error().Err(token.Error()).Str("event", event).Msg("publish error")
	}
}
