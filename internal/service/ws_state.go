package service

import (
	"context"
	"net/http"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/gorilla/websocket"
)

// WSStateHandler serves read only state subscribers, typically the UI
// showing the word, predictions and capture progress.
type WSStateHandler struct {
	registry *Registry
}

// NewWSStateHandler creates the handler.
func NewWSStateHandler(registry *Registry) *WSStateHandler {
	return &WSStateHandler{registry: registry}
}

// HandleConnection streams updates for one device until the subscriber
// disconnects. Inbound messages are drained and ignored.
func (kp *WSStateHandler) HandleConnection(ctx context.Context, conn *websocket.Conn, req *http.Request) error {
	device, err := extractDevice(req)
	if err != nil {
		return err
	}
	goapp.Log.Info().Str("device", device).Msg("state subscriber connected")
	defer conn.Close()
	defer goapp.Log.Info().Str("device", device).Msg("state subscriber disconnected")

	sess := kp.registry.Get(device)
	updCh, unwatch := sess.Watch()
	defer unwatch()

	closeCtx, cf := context.WithCancel(ctx)
	defer cf()
	readCh := readWebSocket(closeCtx, conn)

	if err := conn.WriteJSON(sess.Ctrl.Snapshot()); err != nil {
		return err
	}
	for {
		select {
		case <-closeCtx.Done():
			goapp.Log.Info().Msg("context canceled")
			return nil
		case _, ok := <-readCh:
			if !ok {
				return nil
			}
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
