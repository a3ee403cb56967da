package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/gorilla/websocket"
	"github.com/signspeak/rt-glove-wrapper/internal/api"
	"github.com/signspeak/rt-glove-wrapper/internal/glove"
)

// WSGloveHandler serves the bidirectional device stream. Inbound messages
// carry CSV sample lines or JSON control events, outbound ones are state
// updates.
type WSGloveHandler struct {
	registry *Registry
}

// NewWSGloveHandler creates the handler.
func NewWSGloveHandler(registry *Registry) *WSGloveHandler {
	return &WSGloveHandler{registry: registry}
}

// HandleConnection serves one glove connection until it closes.
func (kp *WSGloveHandler) HandleConnection(ctx context.Context, conn *websocket.Conn, req *http.Request) error {
	device, err := extractDevice(req)
	if err != nil {
		return err
	}
	goapp.Log.Info().Str("device", device).Msg("glove connected")
	defer conn.Close()
	defer goapp.Log.Info().Str("device", device).Msg("glove disconnected")

	sess := kp.registry.Get(device)
	updCh, unwatch := sess.Watch()
	defer unwatch()

	closeCtx, cf := context.WithCancel(ctx)
	defer cf()
	readCh := readWebSocket(closeCtx, conn)

	if err := conn.WriteJSON(sess.Ctrl.Snapshot()); err != nil {
		return fmt.Errorf("can't send state: %w", err)
	}
	for {
		select {
		case <-closeCtx.Done():
			goapp.Log.Info().Msg("context canceled")
			return nil
		case d, ok := <-readCh:
			if !ok {
				goapp.Log.Info().Msg("channel closed")
				return nil
			}
			kp.process(closeCtx, sess, &d)
		case u, ok := <-updCh:
			if !ok {
				return nil
			}
			if err := conn.WriteJSON(u); err != nil {
				goapp.Log.Error().Err(err).Msg("write error")
				return nil
			}
		}
	}
}

// process handles one inbound message. Junk lines are logged and skipped,
// the stream stays up.
func (kp *WSGloveHandler) process(ctx context.Context, sess *Session, d *data) {
	if d.t != websocket.TextMessage {
		return
	}
	for _, line := range strings.Split(string(d.msg), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "{") {
			msg, err := decode(line)
			if err != nil {
				goapp.Log.Error().Err(err).Msg("decode err")
				continue
			}
			goapp.Log.Debug().Str("device", sess.Device).Str("event", msg.Event).Msg("got event")
			if err := sess.HandleEvent(ctx, msg); err != nil {
				goapp.Log.Error().Err(err).Str("event", msg.Event).Msg("event err")
			}
			continue
		}
		smp, err := glove.ParseSample(line)
		if err != nil {
			goapp.Log.Warn().Err(err).Msg("skip sample")
			continue
		}
		sess.AddSample(smp)
	}
}

type device struct {
	ID string `json:"id"`
}

// extractDevice reads the device ID from the query. The value is either the
// plain ID or base64 of a JSON object with an id field, older clients send
// the latter.
func extractDevice(req *http.Request) (string, error) {
	txt := req.URL.Query().Get("device")
	if txt == "" {
		return "", fmt.Errorf("no device")
	}
	if d, err := extractDeviceTxt(txt); err == nil {
		return d.ID, nil
	}
	return txt, nil
}

func extractDeviceTxt(txt string) (*device, error) {
	b, err := base64.StdEncoding.DecodeString(txt)
	if err != nil {
		return nil, fmt.Errorf("can't decode base64: %w", err)
	}
	res := &device{}
	if err := json.Unmarshal(b, res); err != nil {
		return nil, fmt.Errorf("can't decode json: %w", err)
	}
	if res.ID == "" {
		return nil, fmt.Errorf("no id")
	}
	return res, nil
}

func decode(data string) (*api.Message, error) {
	res := &api.Message{}
	err := json.NewDecoder(bytes.NewBufferString(data)).Decode(&res)
	if err != nil {
		return nil, err
	}
	return res, nil
}
