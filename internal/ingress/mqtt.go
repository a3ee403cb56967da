// Package ingress feeds samples and control events published over MQTT into
// recognition sessions. Hardware bridges publish here when a direct
// websocket connection is impractical.
package ingress

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/airenas/go-app/pkg/goapp"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/signspeak/rt-glove-wrapper/internal/api"
	"github.com/signspeak/rt-glove-wrapper/internal/glove"
)

// Sink receives routed samples and events for one device.
type Sink interface {
	AddSample(smp glove.Sample)
	HandleEvent(ctx context.Context, msg *api.Message) error
}

// Config holds broker settings.
type Config struct {
	URL      string
	ClientID string
	Prefix   string
}

// Listener subscribes to <prefix>/<device>/samples and <prefix>/<device>/event
// and routes payloads to per device sinks.
type Listener struct {
	client mqtt.Client
	prefix string
	sinkFn func(device string) Sink
	ctx    context.Context
}

// StartListener connects to the broker and subscribes. Subscriptions are
// restored automatically after reconnects.
func StartListener(ctx context.Context, cfg Config, sinkFn func(device string) Sink) (*Listener, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("no broker URL")
	}
	if sinkFn == nil {
		return nil, fmt.Errorf("no sink func")
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "glove"
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "rt-glove-wrapper"
	}
	res := &Listener{prefix: cfg.Prefix, sinkFn: sinkFn, ctx: ctx}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.URL).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true)
	opts.OnConnect = func(c mqtt.Client) {
		goapp.Log.Info().Str("broker", cfg.URL).Msg("mqtt connected")
		res.subscribe(c)
	}
	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		goapp.Log.Error().Err(err).Msg("mqtt connection lost")
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("can't connect to broker: %w", token.Error())
	}
	res.client = client
	return res, nil
}

func (l *Listener) subscribe(c mqtt.Client) {
	for topic, handler := range map[string]mqtt.MessageHandler{
		l.prefix + "/+/samples": l.onSamples,
		l.prefix + "/+/event":   l.onEvent,
	} {
		if token := c.Subscribe(topic, 0, handler); token.Wait() && token.Error() != nil {
			goapp.Log.Error().Err(token.Error()).Str("topic", topic).Msg("can't subscribe")
			continue
		}
		goapp.Log.Info().Str("topic", topic).Msg("subscribed")
	}
}

func (l *Listener) onSamples(_ mqtt.Client, m mqtt.Message) {
	device := l.deviceFromTopic(m.Topic())
	if device == "" {
		goapp.Log.Warn().Str("topic", m.Topic()).Msg("no device in topic")
		return
	}
	sink := l.sinkFn(device)
	for _, line := range strings.Split(string(m.Payload()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		smp, err := glove.ParseSample(line)
		if err != nil {
			goapp.Log.Warn().Err(err).Str("device", device).Msg("skip sample")
			continue
		}
		sink.AddSample(smp)
	}
}

func (l *Listener) onEvent(_ mqtt.Client, m mqtt.Message) {
	device := l.deviceFromTopic(m.Topic())
	if device == "" {
		goapp.Log.Warn().Str("topic", m.Topic()).Msg("no device in topic")
		return
	}
	msg := &api.Message{}
	if err := json.Unmarshal(m.Payload(), msg); err != nil {
		goapp.Log.Error().Err(err).Str("device", device).Msg("decode err")
		return
	}
	goapp.Log.Debug().Str("device", device).Str("event", msg.Event).Msg("got event")
	if err := l.sinkFn(device).HandleEvent(l.ctx, msg); err != nil {
		goapp.Log.Error().Err(err).Str("event", msg.Event).Msg("event err")
	}
}

func (l *Listener) deviceFromTopic(topic string) string {
	rest, ok := strings.CutPrefix(topic, l.prefix+"/")
	if !ok {
		return ""
	}
	device, _, ok := strings.Cut(rest, "/")
	if !ok {
		return ""
	}
	return device
}

// Close disconnects from the broker.
func (l *Listener) Close() {
	if l.client != nil {
		l.client.Disconnect(250)
	}
}
